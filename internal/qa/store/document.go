package store

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/remon-rakibul/DueDiligence/internal/model"
)

type documents struct {
	db *gorm.DB
}

func newDocuments(db *gorm.DB) *documents {
	return &documents{db}
}

// Upsert creates the registry row or overwrites filename and counts when
// the document id already exists.
func (d *documents) Upsert(ctx context.Context, doc *model.DocumentRegistry) error {
	return d.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "document_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"filename", "section_count", "citation_count", "indexed_at"}),
	}).Create(doc).Error
}

// Get retrieves a registry row by document id.
func (d *documents) Get(ctx context.Context, documentID string) (*model.DocumentRegistry, error) {
	var doc model.DocumentRegistry
	if err := d.db.WithContext(ctx).Where("document_id = ?", documentID).First(&doc).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

// List lists registered documents, most recently indexed first.
func (d *documents) List(ctx context.Context) ([]*model.DocumentRegistry, error) {
	var docs []*model.DocumentRegistry
	if err := d.db.WithContext(ctx).Order("indexed_at DESC").Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}
