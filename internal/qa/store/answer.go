package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/remon-rakibul/DueDiligence/internal/model"
)

type answers struct {
	db *gorm.DB
}

func newAnswers(db *gorm.DB) *answers {
	return &answers{db}
}

// Create persists the answer and its Citations association in one call.
func (a *answers) Create(ctx context.Context, answer *model.Answer) error {
	return a.db.WithContext(ctx).Create(answer).Error
}

// Update updates an existing answer.
func (a *answers) Update(ctx context.Context, answer *model.Answer) error {
	return a.db.WithContext(ctx).Save(answer).Error
}

// Get retrieves an answer by ID with its citations in model order.
func (a *answers) Get(ctx context.Context, id int64) (*model.Answer, error) {
	var answer model.Answer
	err := a.db.WithContext(ctx).
		Preload("Citations", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC")
		}).
		First(&answer, id).Error
	if err != nil {
		return nil, err
	}
	return &answer, nil
}

// GetByQuestion retrieves the live answer for a question with its
// citations in model order.
func (a *answers) GetByQuestion(ctx context.Context, questionID int64) (*model.Answer, error) {
	var answer model.Answer
	err := a.db.WithContext(ctx).
		Preload("Citations", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC")
		}).
		Where("question_id = ?", questionID).
		First(&answer).Error
	if err != nil {
		return nil, err
	}
	return &answer, nil
}

// ListByProject lists answers for all of a project's questions.
func (a *answers) ListByProject(ctx context.Context, projectID int64) ([]*model.Answer, error) {
	var list []*model.Answer
	err := a.db.WithContext(ctx).
		Preload("Citations", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC")
		}).
		Joins("JOIN qa_questions ON qa_questions.id = qa_answers.question_id").
		Where("qa_questions.project_id = ?", projectID).
		Order("qa_questions.order_index ASC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

// DeleteByQuestion removes the question's answer together with its
// citations. A question without an answer is not an error.
func (a *answers) DeleteByQuestion(ctx context.Context, questionID int64) error {
	var answer model.Answer
	err := a.db.WithContext(ctx).Where("question_id = ?", questionID).First(&answer).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		return err
	}

	if err := a.db.WithContext(ctx).Where("answer_id = ?", answer.ID).Delete(&model.Citation{}).Error; err != nil {
		return err
	}
	return a.db.WithContext(ctx).Delete(&answer).Error
}
