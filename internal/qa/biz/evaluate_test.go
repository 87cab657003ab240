package biz_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/remon-rakibul/DueDiligence/internal/model"
	"github.com/remon-rakibul/DueDiligence/internal/qa/biz"
	"github.com/remon-rakibul/DueDiligence/internal/qa/store"
	pkgerrors "github.com/remon-rakibul/DueDiligence/pkg/errors"
)

// seedAnswered 建立带两条问题的项目, 第一条有人工基准答案。
func seedAnswered(t *testing.T, factory store.Factory) *model.Project {
	t.Helper()
	ctx := context.Background()

	project := &model.Project{Name: "eval dd", Scope: model.ScopeAllDocs, Status: model.ProjectComplete}
	require.NoError(t, factory.Projects().Create(ctx, project))

	q1 := &model.Question{ProjectID: project.ID, SectionID: "1", Text: "Is the entity regulated?", OrderIndex: 0}
	q2 := &model.Question{ProjectID: project.ID, SectionID: "2", Text: "Who audits the accounts?", OrderIndex: 1}
	require.NoError(t, factory.Questions().CreateBatch(ctx, []*model.Question{q1, q2}))

	require.NoError(t, factory.Answers().Create(ctx, &model.Answer{
		QuestionID: q1.ID,
		Status:     model.AnswerConfirmed,
		AIText:     "the entity is regulated",
		HumanText:  "the entity is regulated",
		Answerable: true,
	}))
	// q2 的答案没有人工基准, 评估时应跳过
	require.NoError(t, factory.Answers().Create(ctx, &model.Answer{
		QuestionID: q2.ID,
		Status:     model.AnswerPending,
		AIText:     "external auditors review annually",
		Answerable: true,
	}))
	return project
}

func TestEvaluateKeywordOnly(t *testing.T) {
	ctx := context.Background()
	factory := newTestFactory(t)
	project := seedAnswered(t, factory)

	evaluator := biz.NewEvaluator(factory, &fakeEmbedder{})
	run, results, err := evaluator.Evaluate(ctx, project.ID, false)
	require.NoError(t, err)
	assert.False(t, run.UseEmbeddings)

	// 只有带人工基准的问题计分
	require.Len(t, results, 1)
	require.NotNil(t, results[0].Score)
	assert.InDelta(t, 1.0, *results[0].Score, 1e-9)
	assert.Equal(t, "keyword=1.000", results[0].Detail)
}

func TestEvaluateWithEmbeddings(t *testing.T) {
	ctx := context.Background()
	factory := newTestFactory(t)
	project := seedAnswered(t, factory)

	evaluator := biz.NewEvaluator(factory, &fakeEmbedder{})
	run, results, err := evaluator.Evaluate(ctx, project.ID, true)
	require.NoError(t, err)
	assert.True(t, run.UseEmbeddings)

	// 相同文本: 语义与关键词均为 1, 综合分 1
	require.Len(t, results, 1)
	require.NotNil(t, results[0].Score)
	assert.InDelta(t, 1.0, *results[0].Score, 1e-9)
	assert.Equal(t, "semantic=1.000, keyword=1.000", results[0].Detail)
}

func TestEvaluateScoresModelOutputNotManualText(t *testing.T) {
	ctx := context.Background()
	factory := newTestFactory(t)

	project := &model.Project{Name: "reviewed dd", Scope: model.ScopeAllDocs, Status: model.ProjectComplete}
	require.NoError(t, factory.Projects().Create(ctx, project))

	q := &model.Question{ProjectID: project.ID, SectionID: "1", Text: "What is the legal form?", OrderIndex: 0}
	require.NoError(t, factory.Questions().CreateBatch(ctx, []*model.Question{q}))

	// 人工改写与基准一致, 模型输出与基准无重叠
	require.NoError(t, factory.Answers().Create(ctx, &model.Answer{
		QuestionID: q.ID,
		Status:     model.AnswerManualUpdated,
		AIText:     "partnership under local law",
		ManualText: "a public limited company",
		HumanText:  "a public limited company",
		Answerable: true,
	}))

	evaluator := biz.NewEvaluator(factory, &fakeEmbedder{})
	_, results, err := evaluator.Evaluate(ctx, project.ID, false)
	require.NoError(t, err)
	require.Len(t, results, 1)

	// 对照的是模型输出, 人工改写不会把分数抬成 1
	assert.Equal(t, "partnership under local law", results[0].AIText)
	require.NotNil(t, results[0].Score)
	assert.InDelta(t, 0.0, *results[0].Score, 1e-9)
}

func TestEvaluateProjectNotFound(t *testing.T) {
	factory := newTestFactory(t)
	evaluator := biz.NewEvaluator(factory, &fakeEmbedder{})

	_, _, err := evaluator.Evaluate(context.Background(), 9999, false)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.ErrProjectNotFound.Code))
}

func TestReportLatestRun(t *testing.T) {
	ctx := context.Background()
	factory := newTestFactory(t)
	project := seedAnswered(t, factory)

	evaluator := biz.NewEvaluator(factory, &fakeEmbedder{})
	_, _, err := evaluator.Evaluate(ctx, project.ID, false)
	require.NoError(t, err)
	second, _, err := evaluator.Evaluate(ctx, project.ID, false)
	require.NoError(t, err)

	report, err := evaluator.Report(ctx, project.ID, "")
	require.NoError(t, err)
	assert.Equal(t, second.ID, report.RunID)
	require.NotNil(t, report.AggregateScore)
	assert.InDelta(t, 1.0, *report.AggregateScore, 1e-9)
	assert.Len(t, report.Results, 1)
}

func TestReportByRunID(t *testing.T) {
	ctx := context.Background()
	factory := newTestFactory(t)
	project := seedAnswered(t, factory)

	evaluator := biz.NewEvaluator(factory, &fakeEmbedder{})
	run, _, err := evaluator.Evaluate(ctx, project.ID, false)
	require.NoError(t, err)

	report, err := evaluator.Report(ctx, project.ID, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, report.RunID)

	// 其它项目拿不到这个 run
	_, err = evaluator.Report(ctx, project.ID+1, run.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.ErrEvaluationRunNotFound.Code))
}

func TestReportNoRuns(t *testing.T) {
	ctx := context.Background()
	factory := newTestFactory(t)
	project := seedAnswered(t, factory)

	evaluator := biz.NewEvaluator(factory, &fakeEmbedder{})
	report, err := evaluator.Report(ctx, project.ID, "")
	require.NoError(t, err)
	assert.Empty(t, report.RunID)
	assert.Nil(t, report.AggregateScore)
	assert.Empty(t, report.Results)
	assert.Equal(t, "No evaluation run found", report.Message)
}
