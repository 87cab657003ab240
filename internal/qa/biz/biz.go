package biz

import (
	"context"
	"strconv"

	"github.com/remon-rakibul/DueDiligence/internal/model"
	"github.com/remon-rakibul/DueDiligence/internal/pkg/qa/extract"
	"github.com/remon-rakibul/DueDiligence/internal/qa/store"
	pkgerrors "github.com/remon-rakibul/DueDiligence/pkg/errors"
	"github.com/remon-rakibul/DueDiligence/pkg/llm"
)

// Service 聚合 QA 服务的全部业务能力, 并提供四类异步任务的提交入口。
// 写路径 (摄取、项目创建/更新、批量生成) 一律异步, 调用方轮询请求状态。
type Service struct {
	Ingester     *Ingester
	Projects     *ProjectService
	Answers      *AnswerService
	Evaluator    *Evaluator
	Orchestrator *Orchestrator

	factory store.Factory
}

// Config 业务层配置, nil 子配置使用各自默认值。
type Config struct {
	Ingester     *IngesterConfig
	Answer       *AnswerConfig
	Orchestrator *OrchestratorConfig
}

// NewService wires the business services around shared stores and providers.
func NewService(factory store.Factory, vector store.VectorStore, embedder llm.EmbeddingProvider, chat llm.ChatProvider, config *Config) *Service {
	if config == nil {
		config = &Config{}
	}
	return &Service{
		Ingester:     NewIngester(factory, vector, embedder, config.Ingester),
		Projects:     NewProjectService(factory),
		Answers:      NewAnswerService(factory, vector, embedder, chat, config.Answer),
		Evaluator:    NewEvaluator(factory, embedder),
		Orchestrator: NewOrchestrator(factory, config.Orchestrator),
		factory:      factory,
	}
}

// SubmitIndexDocument 提交文档摄取任务。
// filePath 指向已保存的上传文件, 任务结束后由编排器删除。
func (s *Service) SubmitIndexDocument(ctx context.Context, filePath, filename, documentID string) (*model.Request, error) {
	return s.Orchestrator.Submit(ctx, model.RequestIndexDocument, SubmitSpec{
		TempFile: filePath,
		Job: func(ctx context.Context) (*JobResult, error) {
			result, err := s.Ingester.Ingest(ctx, filePath, filename, documentID)
			if err != nil {
				return nil, err
			}
			return &JobResult{EntityID: result.DocumentID, Payload: result}, nil
		},
	})
}

// SubmitCreateProject 提交项目创建任务: 问卷文件先作为普通文档
// 摄取 (可被后续检索引用), 再解析出问题列表并建立 READY 项目。
func (s *Service) SubmitCreateProject(ctx context.Context, filePath, filename, name string) (*model.Request, error) {
	return s.Orchestrator.Submit(ctx, model.RequestCreateProject, SubmitSpec{
		TempFile: filePath,
		Job: func(ctx context.Context) (*JobResult, error) {
			text, err := extract.Text(filePath, filename)
			if err != nil {
				return nil, err
			}

			ingested, err := s.Ingester.IngestText(ctx, text, filename, "")
			if err != nil {
				return nil, err
			}

			parsed := ParseQuestionnaire(text)
			if len(parsed) == 0 {
				return nil, pkgerrors.ErrEmptyQuestionnaire
			}

			project, err := s.Projects.CreateFromParsed(ctx, name, ingested.DocumentID, parsed)
			if err != nil {
				return nil, err
			}

			return &JobResult{
				EntityID: strconv.FormatInt(project.ID, 10),
				Payload:  map[string]any{"project_id": project.ID},
			}, nil
		},
	})
}

// SubmitUpdateProject 提交项目更新任务。
func (s *Service) SubmitUpdateProject(ctx context.Context, projectID int64, spec UpdateSpec) (*model.Request, error) {
	return s.Orchestrator.Submit(ctx, model.RequestUpdateProject, SubmitSpec{
		Job: func(ctx context.Context) (*JobResult, error) {
			project, err := s.Projects.Update(ctx, projectID, spec)
			if err != nil {
				return nil, err
			}
			return &JobResult{
				EntityID: strconv.FormatInt(project.ID, 10),
				Payload:  map[string]any{"project_id": project.ID},
			}, nil
		},
	})
}

// SubmitGenerateAnswers 提交批量答案生成任务。
// 任务失败时项目由编排器标记为 OUTDATED。
func (s *Service) SubmitGenerateAnswers(ctx context.Context, projectID int64) (*model.Request, error) {
	return s.Orchestrator.Submit(ctx, model.RequestGenerateAnswers, SubmitSpec{
		ProjectID: projectID,
		Job: func(ctx context.Context) (*JobResult, error) {
			if err := s.Answers.RegenerateAll(ctx, projectID); err != nil {
				return nil, err
			}
			return &JobResult{
				EntityID: strconv.FormatInt(projectID, 10),
				Payload:  map[string]any{"project_id": projectID},
			}, nil
		},
	})
}
