package errors_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/remon-rakibul/DueDiligence/pkg/errors"
)

func TestMakeCode(t *testing.T) {
	tests := []struct {
		name     string
		service  int
		category int
		sequence int
		want     int
	}{
		{"common success", 0, 0, 0, 0},
		{"common not found", 0, 4, 0, 4000},
		{"qa resource", 20, 4, 1, 2004001},
		{"qa request", 20, 1, 2, 2001002},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pkgerrors.MakeCode(tt.service, tt.category, tt.sequence))
		})
	}
}

func TestParseCode(t *testing.T) {
	service, category, sequence := pkgerrors.ParseCode(2004001)
	assert.Equal(t, 20, service)
	assert.Equal(t, 4, category)
	assert.Equal(t, 1, sequence)
}

func TestWithCause(t *testing.T) {
	cause := fmt.Errorf("dial tcp: connection refused")
	err := pkgerrors.ErrDBConnection.WithCause(cause)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Equal(t, cause, errors.Unwrap(err))

	// WithCause must not mutate the registered errno
	assert.NoError(t, errors.Unwrap(pkgerrors.ErrDBConnection))
}

func TestWithMessage(t *testing.T) {
	err := pkgerrors.ErrInvalidParam.WithMessage("project name is required")
	assert.Equal(t, "project name is required", err.MessageEN)
	assert.Equal(t, pkgerrors.ErrInvalidParam.Code, err.Code)
	assert.Equal(t, "Invalid parameter", pkgerrors.ErrInvalidParam.MessageEN)
}

func TestIs(t *testing.T) {
	err := pkgerrors.ErrProjectNotFound.WithMessagef("project %q not found", "p-1")
	assert.True(t, errors.Is(err, pkgerrors.ErrProjectNotFound))
	assert.False(t, errors.Is(err, pkgerrors.ErrQuestionNotFound))
}

func TestFromError(t *testing.T) {
	assert.Nil(t, pkgerrors.FromError(nil))

	e := pkgerrors.FromError(pkgerrors.ErrEmptyDocument)
	assert.Same(t, pkgerrors.ErrEmptyDocument, e)

	wrapped := pkgerrors.FromError(fmt.Errorf("boom"))
	assert.Equal(t, pkgerrors.ErrInternal.Code, wrapped.Code)
	assert.Contains(t, wrapped.Error(), "boom")
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, pkgerrors.ErrRequestNotFound.HTTPStatus())
	assert.Equal(t, http.StatusBadRequest, pkgerrors.ErrUnsupportedFormat.HTTPStatus())
	assert.Equal(t, http.StatusConflict, pkgerrors.ErrInvalidTransition.HTTPStatus())
}

func TestLookup(t *testing.T) {
	e, ok := pkgerrors.Lookup(pkgerrors.ErrEmptyDocument.Code)
	require.True(t, ok)
	assert.Same(t, pkgerrors.ErrEmptyDocument, e)

	_, ok = pkgerrors.Lookup(9999999)
	assert.False(t, ok)
}

func TestClientServerClassification(t *testing.T) {
	assert.True(t, pkgerrors.IsClientError(pkgerrors.ErrEmptyDocument.Code))
	assert.True(t, pkgerrors.IsServerError(pkgerrors.ErrVectorStore.Code))
	assert.True(t, pkgerrors.IsSuccess(pkgerrors.OK.Code))
}
