package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/remon-rakibul/DueDiligence/internal/model"
)

// datastore implements the Factory interface on top of GORM.
type datastore struct {
	db *gorm.DB
}

// NewFactory creates a storage factory backed by the given GORM database.
func NewFactory(db *gorm.DB) Factory {
	return &datastore{db: db}
}

// Documents returns the document registry store.
func (ds *datastore) Documents() DocumentStore {
	return newDocuments(ds.db)
}

// Projects returns the project store.
func (ds *datastore) Projects() ProjectStore {
	return newProjects(ds.db)
}

// Questions returns the question store.
func (ds *datastore) Questions() QuestionStore {
	return newQuestions(ds.db)
}

// Answers returns the answer store.
func (ds *datastore) Answers() AnswerStore {
	return newAnswers(ds.db)
}

// Requests returns the async request store.
func (ds *datastore) Requests() RequestStore {
	return newRequests(ds.db)
}

// Evaluations returns the evaluation store.
func (ds *datastore) Evaluations() EvaluationStore {
	return newEvaluations(ds.db)
}

// Tx runs fn inside a single GORM transaction.
func (ds *datastore) Tx(ctx context.Context, fn func(Factory) error) error {
	return ds.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&datastore{db: tx})
	})
}

// AutoMigrate migrates the database schema.
func (ds *datastore) AutoMigrate() error {
	return ds.db.AutoMigrate(
		&model.DocumentRegistry{},
		&model.Project{},
		&model.Question{},
		&model.Answer{},
		&model.Citation{},
		&model.Request{},
		&model.EvaluationRun{},
		&model.EvaluationResult{},
	)
}

// Close closes the factory and underlying connections.
func (ds *datastore) Close() error {
	sqlDB, err := ds.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
