package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", NotFound("dish %s not found", "x"), http.StatusNotFound},
		{"unauthorized", Unauthorized("no token"), http.StatusUnauthorized},
		{"forbidden", Forbidden("admins only"), http.StatusForbidden},
		{"conflict", Conflict("User already registered"), http.StatusConflict},
		{"validation", Validation("dishName is required"), http.StatusBadRequest},
		{"storage", Storage("insert failed", errors.New("socket closed")), http.StatusInternalServerError},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("approve: %w", NotFound("gone")), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusCode(tt.err))
		})
	}
}

func TestMessageHidesStorageCause(t *testing.T) {
	err := Storage("Could not save dish", errors.New("connection reset by peer"))

	assert.Equal(t, "Could not save dish", Message(err))
	assert.Contains(t, err.Error(), "connection reset by peer")
	assert.Equal(t, "Internal server error", Message(errors.New("raw")))
}

func TestIsAndUnwrap(t *testing.T) {
	cause := errors.New("driver error")
	err := fmt.Errorf("context: %w", Storage("failed", cause))

	assert.True(t, Is(err, KindStorage))
	assert.False(t, Is(err, KindNotFound))
	assert.ErrorIs(t, err, cause)
}
