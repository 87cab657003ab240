package store_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/remon-rakibul/DueDiligence/internal/model"
	"github.com/remon-rakibul/DueDiligence/internal/qa/store"
)

func newTestFactory(t *testing.T) store.Factory {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(t.TempDir()+"/store.db"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	factory := store.NewFactory(db)
	require.NoError(t, factory.AutoMigrate())
	t.Cleanup(func() { _ = factory.Close() })
	return factory
}

func createProject(t *testing.T, factory store.Factory, name string, status model.ProjectStatus) *model.Project {
	t.Helper()

	project := &model.Project{
		Name:   name,
		Scope:  model.ScopeAllDocs,
		Status: status,
	}
	require.NoError(t, factory.Projects().Create(context.Background(), project))
	return project
}

func TestDocumentUpsertOverwrites(t *testing.T) {
	factory := newTestFactory(t)
	ctx := context.Background()

	require.NoError(t, factory.Documents().Upsert(ctx, &model.DocumentRegistry{
		DocumentID:    "doc-1",
		Filename:      "first.txt",
		SectionCount:  3,
		CitationCount: 7,
	}))
	require.NoError(t, factory.Documents().Upsert(ctx, &model.DocumentRegistry{
		DocumentID:    "doc-1",
		Filename:      "second.txt",
		SectionCount:  5,
		CitationCount: 11,
	}))

	doc, err := factory.Documents().Get(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "second.txt", doc.Filename)
	assert.Equal(t, 5, doc.SectionCount)
	assert.Equal(t, 11, doc.CitationCount)

	docs, err := factory.Documents().List(ctx)
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestProjectStatusUpdate(t *testing.T) {
	factory := newTestFactory(t)
	ctx := context.Background()

	project := createProject(t, factory, "alpha", model.ProjectReady)

	require.NoError(t, factory.Projects().UpdateStatus(ctx, project.ID, model.ProjectGenerating))

	got, err := factory.Projects().Get(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ProjectGenerating, got.Status)
}

func TestProjectGetMissing(t *testing.T) {
	factory := newTestFactory(t)

	_, err := factory.Projects().Get(context.Background(), 12345)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestMarkAllDocsOutdated(t *testing.T) {
	factory := newTestFactory(t)
	ctx := context.Background()

	ready := createProject(t, factory, "ready", model.ProjectReady)
	complete := createProject(t, factory, "complete", model.ProjectComplete)
	already := createProject(t, factory, "already", model.ProjectOutdated)

	scoped := &model.Project{Name: "scoped", Scope: "SELECTED_DOCS", Status: model.ProjectReady}
	require.NoError(t, factory.Projects().Create(ctx, scoped))

	affected, err := factory.Projects().MarkAllDocsOutdated(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), affected)

	for _, id := range []int64{ready.ID, complete.ID, already.ID} {
		got, err := factory.Projects().Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, model.ProjectOutdated, got.Status)
	}

	got, err := factory.Projects().Get(ctx, scoped.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ProjectReady, got.Status)
}

func TestQuestionsPreserveOrder(t *testing.T) {
	factory := newTestFactory(t)
	ctx := context.Background()

	project := createProject(t, factory, "ordered", model.ProjectReady)

	batch := []*model.Question{
		{ProjectID: project.ID, SectionID: "2", Text: "Second question?", OrderIndex: 1},
		{ProjectID: project.ID, SectionID: "1", Text: "First question?", OrderIndex: 0},
		{ProjectID: project.ID, SectionID: "3", Text: "Third question?", OrderIndex: 2},
	}
	require.NoError(t, factory.Questions().CreateBatch(ctx, batch))

	list, err := factory.Questions().ListByProject(ctx, project.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "First question?", list[0].Text)
	assert.Equal(t, "Second question?", list[1].Text)
	assert.Equal(t, "Third question?", list[2].Text)

	loaded, err := factory.Projects().GetWithQuestions(ctx, project.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Questions, 3)
	assert.Equal(t, "First question?", loaded.Questions[0].Text)
}

func TestAnswerDeleteByQuestionRemovesCitations(t *testing.T) {
	factory := newTestFactory(t)
	ctx := context.Background()

	project := createProject(t, factory, "answers", model.ProjectReady)
	question := &model.Question{ProjectID: project.ID, Text: "What is the policy?", OrderIndex: 0}
	require.NoError(t, factory.Questions().CreateBatch(ctx, []*model.Question{question}))

	answer := &model.Answer{
		QuestionID: question.ID,
		Status:     model.AnswerPending,
		AIText:     "The policy is annual review.",
		Answerable: true,
		Confidence: 0.9,
		Citations: []model.Citation{
			{ChunkID: "doc-1_cit_0", DocumentID: "doc-1", Snippet: "annual review", OrderIndex: 0},
			{ChunkID: "doc-1_cit_1", DocumentID: "doc-1", Snippet: "policy text", OrderIndex: 1},
		},
	}
	require.NoError(t, factory.Answers().Create(ctx, answer))

	got, err := factory.Answers().GetByQuestion(ctx, question.ID)
	require.NoError(t, err)
	require.Len(t, got.Citations, 2)
	assert.Equal(t, "doc-1_cit_0", got.Citations[0].ChunkID)

	require.NoError(t, factory.Answers().DeleteByQuestion(ctx, question.ID))

	_, err = factory.Answers().GetByQuestion(ctx, question.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// 再次删除没有答案的问题不报错。
	assert.NoError(t, factory.Answers().DeleteByQuestion(ctx, question.ID))
}

func TestAnswersListByProjectOrderedByQuestion(t *testing.T) {
	factory := newTestFactory(t)
	ctx := context.Background()

	project := createProject(t, factory, "listing", model.ProjectReady)
	questions := []*model.Question{
		{ProjectID: project.ID, Text: "Question one?", OrderIndex: 0},
		{ProjectID: project.ID, Text: "Question two?", OrderIndex: 1},
	}
	require.NoError(t, factory.Questions().CreateBatch(ctx, questions))

	// 反序写入, 读取应按问题顺序返回。
	require.NoError(t, factory.Answers().Create(ctx, &model.Answer{
		QuestionID: questions[1].ID, Status: model.AnswerPending, AIText: "answer two",
	}))
	require.NoError(t, factory.Answers().Create(ctx, &model.Answer{
		QuestionID: questions[0].ID, Status: model.AnswerPending, AIText: "answer one",
	}))

	list, err := factory.Answers().ListByProject(ctx, project.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "answer one", list[0].AIText)
	assert.Equal(t, "answer two", list[1].AIText)
}

func TestTxRollsBackOnError(t *testing.T) {
	factory := newTestFactory(t)
	ctx := context.Background()

	err := factory.Tx(ctx, func(tx store.Factory) error {
		if err := tx.Documents().Upsert(ctx, &model.DocumentRegistry{
			DocumentID: "doc-tx",
			Filename:   "tx.txt",
		}); err != nil {
			return err
		}
		return fmt.Errorf("force rollback")
	})
	require.Error(t, err)

	_, err = factory.Documents().Get(ctx, "doc-tx")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestEvaluationLatestRun(t *testing.T) {
	factory := newTestFactory(t)
	ctx := context.Background()

	project := createProject(t, factory, "eval", model.ProjectComplete)

	first := &model.EvaluationRun{ID: "01AAAAAAAAAAAAAAAAAAAAAAAA", ProjectID: project.ID, CreatedAt: time.Now().Add(-time.Minute)}
	second := &model.EvaluationRun{ID: "01BBBBBBBBBBBBBBBBBBBBBBBB", ProjectID: project.ID, CreatedAt: time.Now()}
	require.NoError(t, factory.Evaluations().CreateRun(ctx, first))
	require.NoError(t, factory.Evaluations().CreateRun(ctx, second))

	latest, err := factory.Evaluations().LatestRun(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)

	got, err := factory.Evaluations().GetRun(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, project.ID, got.ProjectID)
}
