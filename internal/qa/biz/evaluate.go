package biz

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/kart-io/logger"
	"gorm.io/gorm"

	"github.com/remon-rakibul/DueDiligence/internal/model"
	"github.com/remon-rakibul/DueDiligence/internal/pkg/qa/textutil"
	"github.com/remon-rakibul/DueDiligence/internal/qa/store"
	pkgerrors "github.com/remon-rakibul/DueDiligence/pkg/errors"
	"github.com/remon-rakibul/DueDiligence/pkg/id"
	"github.com/remon-rakibul/DueDiligence/pkg/llm"
)

// Evaluator 将 AI 答案与人工基准答案做对比评分。
type Evaluator struct {
	factory  store.Factory
	embedder llm.EmbeddingProvider
}

// NewEvaluator creates an Evaluator with the given store and embedder.
func NewEvaluator(factory store.Factory, embedder llm.EmbeddingProvider) *Evaluator {
	return &Evaluator{factory: factory, embedder: embedder}
}

// Evaluate 对项目执行一次评估: 逐题对比 AI 答案与人工答案,
// 生成不可变的评估运行记录。没有答案或没有人工基准的问题跳过。
//
// 评分口径: 关键词重叠率恒参与; useEmbeddings 开启时加入语义相似度,
// 综合分 = 0.5*semantic + 0.5*keyword, 四舍五入到小数点后 4 位。
func (e *Evaluator) Evaluate(ctx context.Context, projectID int64, useEmbeddings bool) (*model.EvaluationRun, []*model.EvaluationResult, error) {
	if _, err := e.factory.Projects().Get(ctx, projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, pkgerrors.ErrProjectNotFound
		}
		return nil, nil, err
	}

	questions, err := e.factory.Questions().ListByProject(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}

	run := &model.EvaluationRun{
		ID:            id.NewRunID(),
		ProjectID:     projectID,
		UseEmbeddings: useEmbeddings,
	}

	var results []*model.EvaluationResult
	for _, q := range questions {
		answer, err := e.factory.Answers().GetByQuestion(ctx, q.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, nil, err
		}

		// 评分口径固定为模型原始输出, 人工改写文本不参与对比
		aiText := answer.AIText
		humanText := answer.HumanText
		if strings.TrimSpace(humanText) == "" {
			continue
		}

		score, detail, err := e.scorePair(ctx, aiText, humanText, useEmbeddings)
		if err != nil {
			return nil, nil, err
		}

		results = append(results, &model.EvaluationResult{
			RunID:      run.ID,
			QuestionID: q.ID,
			AIText:     aiText,
			HumanText:  humanText,
			Score:      &score,
			Detail:     detail,
		})
	}

	err = e.factory.Tx(ctx, func(f store.Factory) error {
		if err := f.Evaluations().CreateRun(ctx, run); err != nil {
			return err
		}
		return f.Evaluations().CreateResults(ctx, results)
	})
	if err != nil {
		return nil, nil, err
	}

	logger.Infow("Evaluation run completed",
		"run_id", run.ID,
		"project_id", projectID,
		"scored", len(results),
		"use_embeddings", useEmbeddings,
	)
	return run, results, nil
}

// scorePair 计算一对答案的综合分与明细描述。
func (e *Evaluator) scorePair(ctx context.Context, aiText, humanText string, useEmbeddings bool) (float64, string, error) {
	keyword := textutil.LexicalOverlap(aiText, humanText)

	if !useEmbeddings {
		return round4(keyword), fmt.Sprintf("keyword=%.3f", keyword), nil
	}

	embeddings, err := e.embedder.Embed(ctx, []string{aiText, humanText})
	if err != nil {
		return 0, "", pkgerrors.ErrLLMProvider.WithCause(err)
	}
	if len(embeddings) != 2 {
		return 0, "", pkgerrors.ErrLLMProvider.WithMessagef(
			"embedding count mismatch: got %d, want 2", len(embeddings))
	}

	// 任一向量范数为零时语义分记 0, 归一化余弦的中点 0.5 不适用
	semantic := 0.0
	if !isZeroVector(embeddings[0]) && !isZeroVector(embeddings[1]) {
		semantic = clamp01(textutil.NormalizeCosineSimilarity(
			textutil.CosineSimilarity(embeddings[0], embeddings[1])))
	}

	score := 0.5*semantic + 0.5*keyword
	return round4(score), fmt.Sprintf("semantic=%.3f, keyword=%.3f", semantic, keyword), nil
}

// EvaluationReport 一次评估运行的汇总视图。
type EvaluationReport struct {
	ProjectID      int64                     `json:"project_id"`
	RunID          string                    `json:"run_id,omitempty"`
	CreatedAt      time.Time                 `json:"created_at,omitempty"`
	UseEmbeddings  bool                      `json:"use_embeddings"`
	AggregateScore *float64                  `json:"aggregate_score"`
	Results        []*model.EvaluationResult `json:"results"`
	Message        string                    `json:"message,omitempty"`
}

// Report 汇总一次评估运行。runID 为空时取项目最近一次运行;
// 项目从未评估过时返回空报告而非错误。
func (e *Evaluator) Report(ctx context.Context, projectID int64, runID string) (*EvaluationReport, error) {
	var run *model.EvaluationRun
	var err error

	if runID != "" {
		run, err = e.factory.Evaluations().GetRun(ctx, runID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.ErrEvaluationRunNotFound
			}
			return nil, err
		}
		if run.ProjectID != projectID {
			return nil, pkgerrors.ErrEvaluationRunNotFound.WithMessagef(
				"run %s does not belong to project %d", runID, projectID)
		}
	} else {
		run, err = e.factory.Evaluations().LatestRun(ctx, projectID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &EvaluationReport{
					ProjectID: projectID,
					Results:   []*model.EvaluationResult{},
					Message:   "No evaluation run found",
				}, nil
			}
			return nil, err
		}
	}

	results, err := e.factory.Evaluations().ListResults(ctx, run.ID)
	if err != nil {
		return nil, err
	}

	return &EvaluationReport{
		ProjectID:      projectID,
		RunID:          run.ID,
		CreatedAt:      run.CreatedAt,
		UseEmbeddings:  run.UseEmbeddings,
		AggregateScore: aggregateScore(results),
		Results:        results,
	}, nil
}

// aggregateScore 求非空分数的均值, 没有可评分结果时返回 nil。
func aggregateScore(results []*model.EvaluationResult) *float64 {
	var sum float64
	var n int
	for _, r := range results {
		if r.Score != nil {
			sum += *r.Score
			n++
		}
	}
	if n == 0 {
		return nil
	}
	mean := round4(sum / float64(n))
	return &mean
}

func isZeroVector(v []float32) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
