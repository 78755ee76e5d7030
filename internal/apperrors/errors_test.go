package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", Validation("bad"), http.StatusBadRequest},
		{"conflict is a bad request", Conflict("dup"), http.StatusBadRequest},
		{"unauthenticated", Unauthenticated("login"), http.StatusUnauthorized},
		{"forbidden", Forbidden("no"), http.StatusForbidden},
		{"not found", NotFound("gone"), http.StatusNotFound},
		{"internal", Wrap(KindInternal, errors.New("boom"), ""), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var appErr *Error
			assert.True(t, errors.As(tt.err, &appErr))
			assert.Equal(t, tt.want, appErr.Status())
		})
	}
}

func TestKindSurvivesWrapping(t *testing.T) {
	base := NotFound("Mentorship not found")
	wrapped := fmt.Errorf("respond: %w", base)

	assert.Equal(t, KindNotFound, KindOf(wrapped))
	assert.True(t, Is(wrapped, KindNotFound))
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
	assert.False(t, Is(nil, KindInternal))
}

func TestErrorMessageFallsBackToCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(KindInternal, cause, "")

	assert.Equal(t, "connection reset", err.Error())
	assert.ErrorIs(t, err, cause)
}
