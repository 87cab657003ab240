package biz

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/kart-io/logger"
	"gorm.io/gorm"

	"github.com/remon-rakibul/DueDiligence/internal/model"
	"github.com/remon-rakibul/DueDiligence/internal/qa/store"
	pkgerrors "github.com/remon-rakibul/DueDiligence/pkg/errors"
	"github.com/remon-rakibul/DueDiligence/pkg/id"
	"github.com/remon-rakibul/DueDiligence/pkg/infra/pool"
	"github.com/remon-rakibul/DueDiligence/pkg/utils/json"
)

// Job 异步任务体。返回的 entityID 与 payload 写入请求记录的终态。
type Job func(ctx context.Context) (*JobResult, error)

// JobResult 任务体的成功产出。
type JobResult struct {
	// EntityID 任务产出实体的 ID (文档 ID 或项目 ID)。
	EntityID string
	// Payload 写入 Request.Result 的 JSON 负载。
	Payload any
}

// SubmitSpec 提交异步任务的参数。
type SubmitSpec struct {
	// Job 任务体, 必填。
	Job Job
	// ProjectID 任务所属项目; 非零时任务失败会将项目标记为 OUTDATED。
	ProjectID int64
	// TempFile 任务独占的临时文件, 结束后无论成败都会删除。
	TempFile string
}

// OrchestratorConfig 异步任务编排配置。
type OrchestratorConfig struct {
	// JobTimeout 单个任务体的最长执行时间
	JobTimeout time.Duration
}

// DefaultOrchestratorConfig returns the standard orchestration settings.
func DefaultOrchestratorConfig() *OrchestratorConfig {
	return &OrchestratorConfig{JobTimeout: 30 * time.Minute}
}

// Orchestrator 驱动异步请求的生命周期:
// PENDING → RUNNING → COMPLETED/FAILED, 每次状态变更都先落库。
// 任务体在 jobs 池中串行执行, HTTP 调用方只拿到请求 ID 做轮询。
type Orchestrator struct {
	factory store.Factory
	config  *OrchestratorConfig
}

// NewOrchestrator creates an Orchestrator backed by the given store factory.
func NewOrchestrator(factory store.Factory, config *OrchestratorConfig) *Orchestrator {
	if config == nil {
		config = DefaultOrchestratorConfig()
	}
	return &Orchestrator{factory: factory, config: config}
}

// Submit 创建 PENDING 请求记录并将任务体排入 jobs 池。
// 请求记录先于任务入队落库, 保证轮询方一定能查到记录。
// 池提交失败时退化为独立 goroutine 执行, 任务不丢失。
func (o *Orchestrator) Submit(ctx context.Context, typ model.RequestType, spec SubmitSpec) (*model.Request, error) {
	if !typ.Valid() {
		return nil, fmt.Errorf("invalid request type: %s", typ)
	}
	if spec.Job == nil {
		return nil, fmt.Errorf("submit %s: job body is required", typ)
	}

	request := &model.Request{
		ID:     id.NewRequestID(),
		Type:   typ,
		Status: model.RequestPending,
	}
	if err := o.factory.Requests().Create(ctx, request); err != nil {
		return nil, err
	}

	task := func() { o.execute(request.ID, spec) }
	if err := pool.SubmitToType(pool.JobsPool, task); err != nil {
		logger.Warnw("Jobs pool submit failed, running job in plain goroutine",
			"request_id", request.ID,
			"type", typ,
			"error", err,
		)
		go task()
	}

	logger.Infow("Async request submitted",
		"request_id", request.ID,
		"type", typ,
	)
	return request, nil
}

// Get 查询请求记录, 不存在时返回 ErrRequestNotFound。
func (o *Orchestrator) Get(ctx context.Context, requestID string) (*model.Request, error) {
	request, err := o.factory.Requests().Get(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.ErrRequestNotFound
		}
		return nil, err
	}
	return request, nil
}

// execute 执行一次异步请求。重复投递的任务发现请求不在 PENDING
// 时静默退出, 终态请求不会被改写。
func (o *Orchestrator) execute(requestID string, spec SubmitSpec) {
	ctx, cancel := context.WithTimeout(context.Background(), o.config.JobTimeout)
	defer cancel()

	if spec.TempFile != "" {
		defer func() {
			if err := os.Remove(spec.TempFile); err != nil && !os.IsNotExist(err) {
				logger.Warnw("Failed to remove temp file",
					"request_id", requestID,
					"path", spec.TempFile,
					"error", err,
				)
			}
		}()
	}

	request, err := o.factory.Requests().Get(ctx, requestID)
	if err != nil {
		logger.Errorw("Failed to load async request", "request_id", requestID, "error", err)
		return
	}
	if request.Status != model.RequestPending {
		logger.Infow("Skipping async request not in PENDING",
			"request_id", requestID,
			"status", request.Status,
		)
		return
	}

	request.Status = model.RequestRunning
	if err := o.factory.Requests().Update(ctx, request); err != nil {
		logger.Errorw("Failed to mark request RUNNING", "request_id", requestID, "error", err)
		return
	}

	result, jobErr := o.runJob(ctx, spec.Job)
	if jobErr != nil {
		o.fail(ctx, request, spec, jobErr)
		return
	}

	if result != nil {
		request.EntityID = result.EntityID
		if result.Payload != nil {
			data, err := json.Marshal(result.Payload)
			if err != nil {
				o.fail(ctx, request, spec, fmt.Errorf("marshal job result: %w", err))
				return
			}
			request.Result = string(data)
		}
	}

	request.Status = model.RequestCompleted
	if err := o.factory.Requests().Update(ctx, request); err != nil {
		logger.Errorw("Failed to mark request COMPLETED", "request_id", requestID, "error", err)
		return
	}

	logger.Infow("Async request completed",
		"request_id", requestID,
		"type", request.Type,
		"entity_id", request.EntityID,
	)
}

// runJob 运行任务体并把 panic 转换为普通错误。
func (o *Orchestrator) runJob(ctx context.Context, job Job) (result *JobResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job panicked: %v", r)
		}
	}()
	return job(ctx)
}

// fail 记录失败终态。项目级任务失败时先将项目标记为 OUTDATED,
// 避免项目卡在 GENERATING 等中间态。
func (o *Orchestrator) fail(ctx context.Context, request *model.Request, spec SubmitSpec, jobErr error) {
	if spec.ProjectID != 0 {
		if err := o.factory.Projects().UpdateStatus(ctx, spec.ProjectID, model.ProjectOutdated); err != nil {
			logger.Errorw("Failed to mark project OUTDATED after job failure",
				"request_id", request.ID,
				"project_id", spec.ProjectID,
				"error", err,
			)
		}
	}

	request.Status = model.RequestFailed
	request.ErrorMessage = jobErr.Error()
	if err := o.factory.Requests().Update(ctx, request); err != nil {
		logger.Errorw("Failed to mark request FAILED", "request_id", request.ID, "error", err)
		return
	}

	logger.Errorw("Async request failed",
		"request_id", request.ID,
		"type", request.Type,
		"error", jobErr,
	)
}
