package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf_WrappedError(t *testing.T) {
	err := fmt.Errorf("create recipe: %w", NotFound("profile not found"))

	assert.Equal(t, KindNotFound, KindOf(err))
	assert.True(t, Is(err, KindNotFound))
	assert.Equal(t, "profile not found", PublicMessage(err))
}

func TestKindOf_PlainErrorIsInternal(t *testing.T) {
	err := errors.New("connection refused")

	assert.Equal(t, KindInternal, KindOf(err))
	assert.Equal(t, "InternalServerError", PublicMessage(err))
}

func TestKindStatus(t *testing.T) {
	tests := []struct {
		kind   Kind
		status int
	}{
		{KindValidation, http.StatusBadRequest},
		{KindCast, http.StatusNotFound},
		{KindNotFound, http.StatusNotFound},
		{KindAuth, http.StatusUnauthorized},
		{KindInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.status, tt.kind.Status())
		})
	}
}

func TestInternalHidesCause(t *testing.T) {
	err := Internal("store failure", errors.New("pq: password authentication failed"))

	assert.Equal(t, "InternalServerError", PublicMessage(err))
	assert.Contains(t, err.Error(), "password authentication failed")
}
