package model

import (
	"time"
)

// EvaluationRun groups per-question comparisons for one project at one
// point in time. A new run never mutates a prior run.
type EvaluationRun struct {
	ID            string    `json:"id" gorm:"primaryKey;type:varchar(26)"`
	ProjectID     int64     `json:"project_id" gorm:"index;not null"`
	UseEmbeddings bool      `json:"use_embeddings" gorm:"default:false"`
	CreatedAt     time.Time `json:"created_at" gorm:"autoCreateTime"`

	Results []EvaluationResult `json:"results,omitempty" gorm:"foreignKey:RunID"`
}

// TableName specifies the table name for EvaluationRun.
func (EvaluationRun) TableName() string {
	return "qa_evaluation_runs"
}

// EvaluationResult holds one AI-vs-human comparison. Score is nil when the
// question could not be scored.
type EvaluationResult struct {
	ID         int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	RunID      string    `json:"run_id" gorm:"type:varchar(26);index;not null"`
	QuestionID int64     `json:"question_id" gorm:"index;not null"`
	AIText     string    `json:"ai_text" gorm:"type:longtext"`
	HumanText  string    `json:"human_text" gorm:"type:longtext"`
	Score      *float64  `json:"score"`
	Detail     string    `json:"detail" gorm:"type:varchar(255)"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for EvaluationResult.
func (EvaluationResult) TableName() string {
	return "qa_evaluation_results"
}
