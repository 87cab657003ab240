// Package model provides data models for the due-diligence QA platform.
package model

import (
	"time"
)

// DocumentRegistry records one ingested source document. Re-ingesting the
// same document id overwrites the row with fresh counts.
type DocumentRegistry struct {
	DocumentID    string    `json:"document_id" gorm:"primaryKey;type:varchar(64)"`
	Filename      string    `json:"filename" gorm:"type:varchar(255);not null"`
	SectionCount  int       `json:"section_count" gorm:"default:0"`
	CitationCount int       `json:"citation_count" gorm:"default:0"`
	IndexedAt     time.Time `json:"indexed_at" gorm:"autoUpdateTime"`
	CreatedAt     time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for DocumentRegistry.
func (DocumentRegistry) TableName() string {
	return "qa_documents"
}
