package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsAuthLoss(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"unauthorized", newError(http.StatusUnauthorized, "Unauthorized", nil), true},
		{"forbidden", newError(http.StatusForbidden, "Forbidden", nil), true},
		{"not found", newError(http.StatusNotFound, "Not Found", nil), false},
		{"server error", newError(http.StatusInternalServerError, "Internal Server Error", nil), false},
		{"conflict", newError(http.StatusConflict, "Conflict", nil), false},
		{"wrapped unauthorized", fmt.Errorf("listing users: %w", newError(http.StatusUnauthorized, "Unauthorized", nil)), true},
		{"plain error", errors.New("boom"), false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsAuthLoss(tt.err))
		})
	}
}

func TestMessageFor_BodyMessageWinsOverStatus(t *testing.T) {
	body := map[string]any{"message": "Handle already exists"}
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden, http.StatusConflict, http.StatusInternalServerError} {
		err := newError(status, http.StatusText(status), body)
		assert.Equal(t, "Handle already exists", MessageFor(err), "status %d", status)
	}
}

func TestMessageFor_FixedStatusMessages(t *testing.T) {
	tests := []struct {
		status int
		want   string
	}{
		{http.StatusUnauthorized, "Invalid credentials or expired session"},
		{http.StatusForbidden, "You do not have permission to perform this action"},
		{http.StatusConflict, "Resource already exists"},
		{http.StatusInternalServerError, "Request failed (500)"},
		{http.StatusNotFound, "Request failed (404)"},
	}
	for _, tt := range tests {
		err := newError(tt.status, http.StatusText(tt.status), nil)
		assert.Equal(t, tt.want, MessageFor(err))
	}
}

func TestMessageFor_IgnoresBlankBodyMessage(t *testing.T) {
	err := newError(http.StatusUnauthorized, "Unauthorized", map[string]any{"message": "   "})
	assert.Equal(t, "Invalid credentials or expired session", MessageFor(err))
}

func TestMessageFor_NonAPIError(t *testing.T) {
	assert.Equal(t, "connection refused", MessageFor(errors.New("connection refused")))
}

func TestMessageFor_FallbackForEmptyErrors(t *testing.T) {
	assert.Equal(t, "Unexpected error", MessageFor(nil))
	assert.Equal(t, "Unexpected error", MessageFor(blankError{}))
}

func TestMessageFor_WrappedAPIError(t *testing.T) {
	inner := newError(http.StatusConflict, "Conflict", nil)
	err := fmt.Errorf("creating user: %w", inner)
	assert.Equal(t, "Resource already exists", MessageFor(err))
}

type blankError struct{}

func (blankError) Error() string { return "  " }
