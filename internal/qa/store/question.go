package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/remon-rakibul/DueDiligence/internal/model"
)

type questions struct {
	db *gorm.DB
}

func newQuestions(db *gorm.DB) *questions {
	return &questions{db}
}

// CreateBatch inserts questions preserving their order indices.
func (q *questions) CreateBatch(ctx context.Context, batch []*model.Question) error {
	if len(batch) == 0 {
		return nil
	}
	return q.db.WithContext(ctx).Create(batch).Error
}

// Get retrieves a question by id.
func (q *questions) Get(ctx context.Context, id int64) (*model.Question, error) {
	var question model.Question
	if err := q.db.WithContext(ctx).First(&question, id).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

// ListByProject lists questions for a project ordered by order index.
func (q *questions) ListByProject(ctx context.Context, projectID int64) ([]*model.Question, error) {
	var list []*model.Question
	err := q.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("order_index ASC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
