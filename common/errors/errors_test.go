package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorsCarryStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		status int
	}{
		{"not found", NotFound("team"), http.StatusNotFound},
		{"conflict", Conflict("duplicate link"), http.StatusConflict},
		{"bad request", BadRequest("malformed id"), http.StatusBadRequest},
		{"validation", ValidationError("validation failed", map[string]string{"name": "required"}), http.StatusBadRequest},
		{"unauthorized", Unauthorized(""), http.StatusUnauthorized},
		{"internal", Internal(""), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.StatusCode)
			assert.Equal(t, tt.status, HTTPStatusCode(tt.err))
		})
	}
}

func TestNotFoundMessage(t *testing.T) {
	err := NotFound("team")
	assert.Equal(t, "team not found", err.Error())
	assert.True(t, Is(err, ErrNotFound))
}

func TestWrapPreservesCause(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := Wrap(cause, "failed to load user")

	require.NotNil(t, err)
	assert.True(t, Is(err, cause))
	assert.Contains(t, err.Error(), "failed to load user")
	assert.Contains(t, err.Error(), "connection refused")
	assert.Equal(t, http.StatusInternalServerError, HTTPStatusCode(err))
}

func TestHTTPStatusCodeFallbacks(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, HTTPStatusCode(ErrProjectNotFound))
	assert.Equal(t, http.StatusConflict, HTTPStatusCode(ErrAlreadyAssigned))
	assert.Equal(t, http.StatusUnauthorized, HTTPStatusCode(ErrUnauthorized))
	assert.Equal(t, http.StatusBadRequest, HTTPStatusCode(ErrRoleNotAssignable))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatusCode(fmt.Errorf("boom")))
}

func TestIsHelpers(t *testing.T) {
	assert.True(t, IsNotFound(NotFound("user")))
	assert.True(t, IsNotFound(ErrTeamNotFound))
	assert.False(t, IsNotFound(Conflict("dup")))

	assert.True(t, IsConflict(Conflict("dup")))
	assert.False(t, IsConflict(NotFound("user")))
}
