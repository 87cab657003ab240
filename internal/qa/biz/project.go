package biz

import (
	"context"
	"errors"

	"github.com/kart-io/logger"
	"gorm.io/gorm"

	"github.com/remon-rakibul/DueDiligence/internal/model"
	"github.com/remon-rakibul/DueDiligence/internal/qa/store"
	pkgerrors "github.com/remon-rakibul/DueDiligence/pkg/errors"
)

// ProjectService 管理问卷项目及其问题列表。
type ProjectService struct {
	factory store.Factory
}

// NewProjectService creates a ProjectService backed by the given store factory.
func NewProjectService(factory store.Factory) *ProjectService {
	return &ProjectService{factory: factory}
}

// CreateFromParsed 基于解析出的问题列表创建 READY 项目。
// 项目与问题在同一事务内落库, 保证二者同生同灭。
func (s *ProjectService) CreateFromParsed(ctx context.Context, name, questionnaireDocID string, parsed []ParsedQuestion) (*model.Project, error) {
	if len(parsed) == 0 {
		return nil, pkgerrors.ErrEmptyQuestionnaire
	}

	project := &model.Project{
		Name:               name,
		QuestionnaireDocID: questionnaireDocID,
		Scope:              model.ScopeAllDocs,
		Status:             model.ProjectReady,
	}

	err := s.factory.Tx(ctx, func(f store.Factory) error {
		if err := f.Projects().Create(ctx, project); err != nil {
			return err
		}

		questions := make([]*model.Question, len(parsed))
		for i, p := range parsed {
			questions[i] = &model.Question{
				ProjectID:    project.ID,
				SectionID:    p.SectionID,
				SectionTitle: p.SectionTitle,
				Text:         p.QuestionText,
				OrderIndex:   p.OrderIndex,
			}
		}
		return f.Questions().CreateBatch(ctx, questions)
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("Project created",
		"project_id", project.ID,
		"name", name,
		"questions", len(parsed),
	)
	return project, nil
}

// UpdateSpec 项目更新参数, nil 字段表示不修改。
type UpdateSpec struct {
	Name  *string
	Scope *string
}

// Update 更新项目的名称与检索范围。
func (s *ProjectService) Update(ctx context.Context, projectID int64, spec UpdateSpec) (*model.Project, error) {
	project, err := s.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if spec.Name != nil {
		project.Name = *spec.Name
	}
	if spec.Scope != nil {
		project.Scope = *spec.Scope
	}

	if err := s.factory.Projects().Update(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// Get 返回项目本体, 不存在时返回 ErrProjectNotFound。
func (s *ProjectService) Get(ctx context.Context, projectID int64) (*model.Project, error) {
	project, err := s.factory.Projects().Get(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.ErrProjectNotFound
		}
		return nil, err
	}
	return project, nil
}

// GetWithQuestions 返回项目及其按 order_index 排序的问题列表。
func (s *ProjectService) GetWithQuestions(ctx context.Context, projectID int64) (*model.Project, error) {
	project, err := s.factory.Projects().GetWithQuestions(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.ErrProjectNotFound
		}
		return nil, err
	}
	return project, nil
}

// List 返回全部项目, 按创建时间倒序。
func (s *ProjectService) List(ctx context.Context) ([]*model.Project, error) {
	return s.factory.Projects().List(ctx)
}
