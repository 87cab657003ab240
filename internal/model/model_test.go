package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/remon-rakibul/DueDiligence/internal/model"
)

func TestRequestTransitions(t *testing.T) {
	tests := []struct {
		from model.RequestStatus
		to   model.RequestStatus
		ok   bool
	}{
		{model.RequestPending, model.RequestRunning, true},
		{model.RequestRunning, model.RequestCompleted, true},
		{model.RequestRunning, model.RequestFailed, true},
		{model.RequestPending, model.RequestCompleted, false},
		{model.RequestCompleted, model.RequestRunning, false},
		{model.RequestFailed, model.RequestPending, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.ok, tt.from.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}

	assert.True(t, model.RequestCompleted.IsTerminal())
	assert.True(t, model.RequestFailed.IsTerminal())
	assert.False(t, model.RequestRunning.IsTerminal())
}

func TestProjectTransitions(t *testing.T) {
	// Every non-OUTDATED status can be pushed to OUTDATED by re-ingestion.
	for _, from := range []model.ProjectStatus{
		model.ProjectPending,
		model.ProjectIndexing,
		model.ProjectReady,
		model.ProjectGenerating,
		model.ProjectComplete,
	} {
		assert.True(t, from.CanTransitionTo(model.ProjectOutdated), "%s -> OUTDATED", from)
	}

	assert.True(t, model.ProjectOutdated.CanTransitionTo(model.ProjectGenerating))
	assert.True(t, model.ProjectGenerating.CanTransitionTo(model.ProjectComplete))
	assert.False(t, model.ProjectComplete.CanTransitionTo(model.ProjectReady))
	assert.False(t, model.ProjectOutdated.CanTransitionTo(model.ProjectReady))
}

func TestAnswerStatusTransitions(t *testing.T) {
	assert.True(t, model.AnswerPending.CanTransitionTo(model.AnswerConfirmed))
	assert.True(t, model.AnswerConfirmed.CanTransitionTo(model.AnswerRejected))
	assert.True(t, model.AnswerRejected.CanTransitionTo(model.AnswerManualUpdated))
	assert.False(t, model.AnswerConfirmed.CanTransitionTo(model.AnswerPending))
	assert.False(t, model.AnswerPending.CanTransitionTo(model.AnswerStatus("BOGUS")))
}

func TestAnswerEffectiveText(t *testing.T) {
	a := &model.Answer{AIText: "ai answer", ManualText: "manual answer"}

	a.Status = model.AnswerConfirmed
	assert.Equal(t, "ai answer", a.EffectiveText())

	a.Status = model.AnswerManualUpdated
	assert.Equal(t, "manual answer", a.EffectiveText())

	a.ManualText = ""
	assert.Equal(t, "ai answer", a.EffectiveText())
}

func TestEnumValidity(t *testing.T) {
	assert.True(t, model.RequestIndexDocument.Valid())
	assert.False(t, model.RequestType("reindex").Valid())
	assert.True(t, model.ProjectReady.Valid())
	assert.False(t, model.ProjectStatus("ARCHIVED").Valid())
}
