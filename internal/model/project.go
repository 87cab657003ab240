package model

import (
	"time"
)

// ProjectStatus 项目状态机的封闭枚举。
type ProjectStatus string

const (
	ProjectPending    ProjectStatus = "PENDING"
	ProjectIndexing   ProjectStatus = "INDEXING"
	ProjectReady      ProjectStatus = "READY"
	ProjectOutdated   ProjectStatus = "OUTDATED"
	ProjectGenerating ProjectStatus = "GENERATING"
	ProjectComplete   ProjectStatus = "COMPLETE"
)

// projectTransitions 列出每个项目状态允许迁移到的目标状态。
// 任何文档重新入库都会把项目推回 OUTDATED, 因此 OUTDATED 几乎处处可达。
var projectTransitions = map[ProjectStatus][]ProjectStatus{
	ProjectPending:    {ProjectIndexing, ProjectReady, ProjectOutdated},
	ProjectIndexing:   {ProjectReady, ProjectOutdated},
	ProjectReady:      {ProjectGenerating, ProjectOutdated},
	ProjectOutdated:   {ProjectGenerating},
	ProjectGenerating: {ProjectComplete, ProjectOutdated},
	ProjectComplete:   {ProjectGenerating, ProjectOutdated},
}

// CanTransitionTo reports whether moving to the target status is legal.
func (s ProjectStatus) CanTransitionTo(target ProjectStatus) bool {
	for _, t := range projectTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// Valid reports whether the status is a member of the closed enumeration.
func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectPending, ProjectIndexing, ProjectReady, ProjectOutdated, ProjectGenerating, ProjectComplete:
		return true
	}
	return false
}

// ScopeAllDocs 是当前唯一的检索范围: 全部已入库文档。
const ScopeAllDocs = "ALL_DOCS"

// Project represents a questionnaire-answering campaign.
type Project struct {
	ID                 int64         `json:"id" gorm:"primaryKey;autoIncrement"`
	Name               string        `json:"name" gorm:"type:varchar(255);not null"`
	QuestionnaireDocID string        `json:"questionnaire_doc_id,omitempty" gorm:"type:varchar(64)"`
	Scope              string        `json:"scope" gorm:"type:varchar(32);default:'ALL_DOCS'"`
	Status             ProjectStatus `json:"status" gorm:"type:varchar(32);default:'PENDING'"`
	CreatedAt          time.Time     `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt          time.Time     `json:"updated_at" gorm:"autoUpdateTime"`

	Questions []Question `json:"questions,omitempty" gorm:"foreignKey:ProjectID"`
}

// TableName specifies the table name for Project.
func (Project) TableName() string {
	return "qa_projects"
}

// Question belongs to exactly one Project. Order index is zero-based and
// significant for display and bulk generation.
type Question struct {
	ID           int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	ProjectID    int64     `json:"project_id" gorm:"index;not null"`
	SectionID    string    `json:"section_id" gorm:"type:varchar(64)"`
	SectionTitle string    `json:"section_title" gorm:"type:varchar(255)"`
	Text         string    `json:"text" gorm:"type:text;not null"`
	OrderIndex   int       `json:"order_index" gorm:"not null;default:0"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for Question.
func (Question) TableName() string {
	return "qa_questions"
}
