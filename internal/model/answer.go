package model

import (
	"time"
)

// AnswerStatus 答案评审状态的封闭枚举。
type AnswerStatus string

const (
	AnswerPending       AnswerStatus = "PENDING"
	AnswerConfirmed     AnswerStatus = "CONFIRMED"
	AnswerRejected      AnswerStatus = "REJECTED"
	AnswerManualUpdated AnswerStatus = "MANUAL_UPDATED"
	AnswerMissingData   AnswerStatus = "MISSING_DATA"
)

// CanTransitionTo reports whether moving to the target status is legal.
// Review may move an answer between any non-PENDING statuses; nothing
// returns to PENDING except a full regeneration (which replaces the row).
func (s AnswerStatus) CanTransitionTo(target AnswerStatus) bool {
	if !target.Valid() || target == AnswerPending {
		return false
	}
	return s.Valid()
}

// Valid reports whether the status is a member of the closed enumeration.
func (s AnswerStatus) Valid() bool {
	switch s {
	case AnswerPending, AnswerConfirmed, AnswerRejected, AnswerManualUpdated, AnswerMissingData:
		return true
	}
	return false
}

// Answer belongs to exactly one Question. At most one live Answer exists per
// Question; regeneration deletes and replaces, never accumulates.
type Answer struct {
	ID         int64        `json:"id" gorm:"primaryKey;autoIncrement"`
	QuestionID int64        `json:"question_id" gorm:"uniqueIndex;not null"`
	Status     AnswerStatus `json:"status" gorm:"type:varchar(32);default:'PENDING'"`
	AIText     string       `json:"ai_text" gorm:"type:longtext"`
	ManualText string       `json:"manual_text" gorm:"type:longtext"`
	HumanText  string       `json:"human_text" gorm:"type:longtext"`
	Answerable bool         `json:"answerable" gorm:"default:false"`
	Confidence float64      `json:"confidence" gorm:"default:0"`
	CreatedAt  time.Time    `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time    `json:"updated_at" gorm:"autoUpdateTime"`

	Citations []Citation `json:"citations,omitempty" gorm:"foreignKey:AnswerID"`
}

// TableName specifies the table name for Answer.
func (Answer) TableName() string {
	return "qa_answers"
}

// EffectiveText returns the manual text when the answer was manually
// updated, otherwise the AI-produced text.
func (a *Answer) EffectiveText() string {
	if a.Status == AnswerManualUpdated && a.ManualText != "" {
		return a.ManualText
	}
	return a.AIText
}

// Citation belongs to exactly one Answer. Order index preserves the
// model's citation order.
type Citation struct {
	ID         int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	AnswerID   int64     `json:"answer_id" gorm:"index;not null"`
	ChunkID    string    `json:"chunk_id" gorm:"type:varchar(128)"`
	DocumentID string    `json:"document_id" gorm:"type:varchar(64)"`
	Snippet    string    `json:"snippet" gorm:"type:text"`
	Locator    string    `json:"locator" gorm:"type:varchar(255)"`
	OrderIndex int       `json:"order_index" gorm:"not null;default:0"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for Citation.
func (Citation) TableName() string {
	return "qa_citations"
}
