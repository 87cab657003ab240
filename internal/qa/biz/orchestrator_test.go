package biz_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/remon-rakibul/DueDiligence/internal/model"
	"github.com/remon-rakibul/DueDiligence/internal/qa/biz"
	"github.com/remon-rakibul/DueDiligence/internal/qa/store"
	pkgerrors "github.com/remon-rakibul/DueDiligence/pkg/errors"
	"github.com/remon-rakibul/DueDiligence/pkg/utils/json"
)

// waitForTerminal 轮询请求直到进入终态。
func waitForTerminal(t *testing.T, factory store.Factory, requestID string) *model.Request {
	t.Helper()

	var request *model.Request
	require.Eventually(t, func() bool {
		var err error
		request, err = factory.Requests().Get(context.Background(), requestID)
		if err != nil {
			return false
		}
		return request.Status.IsTerminal()
	}, 5*time.Second, 10*time.Millisecond)
	return request
}

func TestSubmitCompletesRequest(t *testing.T) {
	ctx := context.Background()
	factory := newTestFactory(t)
	orch := biz.NewOrchestrator(factory, nil)

	request, err := orch.Submit(ctx, model.RequestIndexDocument, biz.SubmitSpec{
		Job: func(ctx context.Context) (*biz.JobResult, error) {
			return &biz.JobResult{
				EntityID: "doc-1",
				Payload:  map[string]any{"document_id": "doc-1", "section_count": 3},
			}, nil
		},
	})
	require.NoError(t, err)
	assert.Equal(t, model.RequestPending, request.Status)
	assert.Equal(t, model.RequestIndexDocument, request.Type)

	final := waitForTerminal(t, factory, request.ID)
	assert.Equal(t, model.RequestCompleted, final.Status)
	assert.Equal(t, "doc-1", final.EntityID)
	assert.Empty(t, final.ErrorMessage)

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(final.Result), &payload))
	assert.Equal(t, "doc-1", payload["document_id"])
}

func TestSubmitJobFailureMarksProjectOutdated(t *testing.T) {
	ctx := context.Background()
	factory := newTestFactory(t)
	orch := biz.NewOrchestrator(factory, nil)

	project := &model.Project{Name: "failing", Scope: model.ScopeAllDocs, Status: model.ProjectGenerating}
	require.NoError(t, factory.Projects().Create(ctx, project))

	request, err := orch.Submit(ctx, model.RequestGenerateAnswers, biz.SubmitSpec{
		ProjectID: project.ID,
		Job: func(ctx context.Context) (*biz.JobResult, error) {
			return nil, errors.New("provider unavailable")
		},
	})
	require.NoError(t, err)

	final := waitForTerminal(t, factory, request.ID)
	assert.Equal(t, model.RequestFailed, final.Status)
	assert.Equal(t, "provider unavailable", final.ErrorMessage)

	got, err := factory.Projects().Get(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ProjectOutdated, got.Status)
}

func TestSubmitJobPanicMarksFailed(t *testing.T) {
	ctx := context.Background()
	factory := newTestFactory(t)
	orch := biz.NewOrchestrator(factory, nil)

	request, err := orch.Submit(ctx, model.RequestIndexDocument, biz.SubmitSpec{
		Job: func(ctx context.Context) (*biz.JobResult, error) {
			panic("boom")
		},
	})
	require.NoError(t, err)

	final := waitForTerminal(t, factory, request.ID)
	assert.Equal(t, model.RequestFailed, final.Status)
	assert.Contains(t, final.ErrorMessage, "boom")
}

func TestSubmitRemovesTempFile(t *testing.T) {
	ctx := context.Background()
	factory := newTestFactory(t)
	orch := biz.NewOrchestrator(factory, nil)

	f, err := os.CreateTemp(t.TempDir(), "upload-*.txt")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	request, err := orch.Submit(ctx, model.RequestIndexDocument, biz.SubmitSpec{
		TempFile: f.Name(),
		Job: func(ctx context.Context) (*biz.JobResult, error) {
			return &biz.JobResult{EntityID: "doc-1"}, nil
		},
	})
	require.NoError(t, err)
	waitForTerminal(t, factory, request.ID)

	assert.Eventually(t, func() bool {
		_, err := os.Stat(f.Name())
		return os.IsNotExist(err)
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSubmitValidation(t *testing.T) {
	factory := newTestFactory(t)
	orch := biz.NewOrchestrator(factory, nil)

	_, err := orch.Submit(context.Background(), model.RequestType("bogus"), biz.SubmitSpec{
		Job: func(ctx context.Context) (*biz.JobResult, error) { return nil, nil },
	})
	assert.Error(t, err)

	_, err = orch.Submit(context.Background(), model.RequestIndexDocument, biz.SubmitSpec{})
	assert.Error(t, err)
}

func TestGetRequestNotFound(t *testing.T) {
	factory := newTestFactory(t)
	orch := biz.NewOrchestrator(factory, nil)

	_, err := orch.Get(context.Background(), "01ARZ3NDEKTSV4RRFFQ69G5FAV")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.ErrRequestNotFound.Code))
}

func TestTerminalRequestIsImmutable(t *testing.T) {
	ctx := context.Background()
	factory := newTestFactory(t)
	orch := biz.NewOrchestrator(factory, nil)

	request, err := orch.Submit(ctx, model.RequestIndexDocument, biz.SubmitSpec{
		Job: func(ctx context.Context) (*biz.JobResult, error) {
			return &biz.JobResult{EntityID: "doc-1"}, nil
		},
	})
	require.NoError(t, err)
	final := waitForTerminal(t, factory, request.ID)

	// 终态不允许再流转
	assert.False(t, final.Status.CanTransitionTo(model.RequestRunning))
	assert.False(t, final.Status.CanTransitionTo(model.RequestFailed))
}
