package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/remon-rakibul/DueDiligence/internal/model"
)

type projects struct {
	db *gorm.DB
}

func newProjects(db *gorm.DB) *projects {
	return &projects{db}
}

// Create creates a new project.
func (p *projects) Create(ctx context.Context, project *model.Project) error {
	return p.db.WithContext(ctx).Create(project).Error
}

// Update updates an existing project.
func (p *projects) Update(ctx context.Context, project *model.Project) error {
	return p.db.WithContext(ctx).Save(project).Error
}

// Get retrieves a project by id.
func (p *projects) Get(ctx context.Context, id int64) (*model.Project, error) {
	var project model.Project
	if err := p.db.WithContext(ctx).First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// GetWithQuestions retrieves a project with its questions ordered by
// order index.
func (p *projects) GetWithQuestions(ctx context.Context, id int64) (*model.Project, error) {
	var project model.Project
	err := p.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC")
		}).
		First(&project, id).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// List lists projects, most recent first.
func (p *projects) List(ctx context.Context) ([]*model.Project, error) {
	var list []*model.Project
	if err := p.db.WithContext(ctx).Order("created_at DESC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// UpdateStatus persists a project status change.
func (p *projects) UpdateStatus(ctx context.Context, id int64, status model.ProjectStatus) error {
	return p.db.WithContext(ctx).
		Model(&model.Project{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// MarkAllDocsOutdated flips every ALL_DOCS project not already OUTDATED.
func (p *projects) MarkAllDocsOutdated(ctx context.Context) (int64, error) {
	result := p.db.WithContext(ctx).
		Model(&model.Project{}).
		Where("scope = ? AND status <> ?", model.ScopeAllDocs, model.ProjectOutdated).
		Update("status", model.ProjectOutdated)
	return result.RowsAffected, result.Error
}
