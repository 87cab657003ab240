package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/remon-rakibul/DueDiligence/internal/model"
)

type evaluations struct {
	db *gorm.DB
}

func newEvaluations(db *gorm.DB) *evaluations {
	return &evaluations{db}
}

// CreateRun creates a new evaluation run.
func (e *evaluations) CreateRun(ctx context.Context, run *model.EvaluationRun) error {
	return e.db.WithContext(ctx).Create(run).Error
}

// CreateResults inserts per-question comparison rows.
func (e *evaluations) CreateResults(ctx context.Context, results []*model.EvaluationResult) error {
	if len(results) == 0 {
		return nil
	}
	return e.db.WithContext(ctx).Create(results).Error
}

// GetRun retrieves a run by id.
func (e *evaluations) GetRun(ctx context.Context, id string) (*model.EvaluationRun, error) {
	var run model.EvaluationRun
	if err := e.db.WithContext(ctx).Where("id = ?", id).First(&run).Error; err != nil {
		return nil, err
	}
	return &run, nil
}

// LatestRun retrieves the most recent run for a project. Run IDs are
// monotonic ULIDs, so they break ties between equal timestamps.
func (e *evaluations) LatestRun(ctx context.Context, projectID int64) (*model.EvaluationRun, error) {
	var run model.EvaluationRun
	err := e.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Order("id DESC").
		First(&run).Error
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// ListResults lists the comparison rows of a run.
func (e *evaluations) ListResults(ctx context.Context, runID string) ([]*model.EvaluationResult, error) {
	var results []*model.EvaluationResult
	err := e.db.WithContext(ctx).
		Where("run_id = ?", runID).
		Order("question_id ASC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
