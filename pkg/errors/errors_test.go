package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFound(t *testing.T) {
	err := NotFound("content record", "abc-123")

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, http.StatusNotFound, err.Status)
	assert.Contains(t, err.Message, "abc-123")
}

func TestInvalidParameter(t *testing.T) {
	err := InvalidParameter("limit", "must be between 1 and 100")

	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, "INVALID_PARAMETER", err.Code)
	assert.Equal(t, http.StatusBadRequest, err.Status)
	assert.Equal(t, "limit must be between 1 and 100", err.Message)
}

func TestAlreadyExists(t *testing.T) {
	withID := AlreadyExists("content record", "abc-123")
	assert.Contains(t, withID.Message, "abc-123")

	withoutID := AlreadyExists("content record", "")
	assert.Equal(t, "content record already exists", withoutID.Message)
	assert.Equal(t, http.StatusConflict, withoutID.Status)
}

func TestWrapPreservesSentinel(t *testing.T) {
	inner := fmt.Errorf("query failed: %w", ErrNotFound)
	wrapped := Wrap(inner, "failed to get content record")

	assert.ErrorIs(t, wrapped, ErrNotFound)
	assert.Contains(t, wrapped.Error(), "failed to get content record")
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"app error", NotFound("x", "1"), http.StatusNotFound},
		{"wrapped sentinel", fmt.Errorf("ctx: %w", ErrInvalidInput), http.StatusBadRequest},
		{"conflict sentinel", ErrConflict, http.StatusConflict},
		{"service unavailable", ErrServiceUnavail, http.StatusServiceUnavailable},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}
