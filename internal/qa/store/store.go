// Package store provides persistent storage for the QA service.
package store

import (
	"context"

	"github.com/remon-rakibul/DueDiligence/internal/model"
)

// Factory defines the factory interface for creating stores.
type Factory interface {
	Documents() DocumentStore
	Projects() ProjectStore
	Questions() QuestionStore
	Answers() AnswerStore
	Requests() RequestStore
	Evaluations() EvaluationStore

	// Tx runs fn inside a single transaction. The Factory passed to fn is
	// bound to that transaction; returning an error rolls everything back.
	Tx(ctx context.Context, fn func(Factory) error) error

	AutoMigrate() error
	Close() error
}

// DocumentStore defines the document registry storage interface.
type DocumentStore interface {
	Upsert(ctx context.Context, doc *model.DocumentRegistry) error
	Get(ctx context.Context, documentID string) (*model.DocumentRegistry, error)
	List(ctx context.Context) ([]*model.DocumentRegistry, error)
}

// ProjectStore defines the project storage interface.
type ProjectStore interface {
	Create(ctx context.Context, project *model.Project) error
	Update(ctx context.Context, project *model.Project) error
	Get(ctx context.Context, id int64) (*model.Project, error)
	GetWithQuestions(ctx context.Context, id int64) (*model.Project, error)
	List(ctx context.Context) ([]*model.Project, error)
	// UpdateStatus persists a status change. Transition legality is checked
	// by callers against the model transition table.
	UpdateStatus(ctx context.Context, id int64, status model.ProjectStatus) error
	// MarkAllDocsOutdated flips every ALL_DOCS-scoped project that is not
	// already OUTDATED. Returns the number of projects affected.
	MarkAllDocsOutdated(ctx context.Context) (int64, error)
}

// QuestionStore defines the question storage interface.
type QuestionStore interface {
	CreateBatch(ctx context.Context, questions []*model.Question) error
	Get(ctx context.Context, id int64) (*model.Question, error)
	ListByProject(ctx context.Context, projectID int64) ([]*model.Question, error)
}

// AnswerStore defines the answer storage interface.
type AnswerStore interface {
	// Create persists the answer together with its Citations association.
	Create(ctx context.Context, answer *model.Answer) error
	Update(ctx context.Context, answer *model.Answer) error
	Get(ctx context.Context, id int64) (*model.Answer, error)
	GetByQuestion(ctx context.Context, questionID int64) (*model.Answer, error)
	ListByProject(ctx context.Context, projectID int64) ([]*model.Answer, error)
	// DeleteByQuestion removes the question's answer and its citations.
	DeleteByQuestion(ctx context.Context, questionID int64) error
}

// RequestStore defines the async request storage interface.
type RequestStore interface {
	Create(ctx context.Context, request *model.Request) error
	Update(ctx context.Context, request *model.Request) error
	Get(ctx context.Context, id string) (*model.Request, error)
}

// EvaluationStore defines the evaluation run storage interface.
type EvaluationStore interface {
	CreateRun(ctx context.Context, run *model.EvaluationRun) error
	CreateResults(ctx context.Context, results []*model.EvaluationResult) error
	GetRun(ctx context.Context, id string) (*model.EvaluationRun, error)
	LatestRun(ctx context.Context, projectID int64) (*model.EvaluationRun, error)
	ListResults(ctx context.Context, runID string) ([]*model.EvaluationResult, error)
}
