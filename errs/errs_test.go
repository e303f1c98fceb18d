package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorIsMatchesKind(t *testing.T) {
	err := fmt.Errorf("load: %w", Server("GET /api/issues", 503, "unavailable"))

	assert.True(t, errors.Is(err, ErrServer))
	assert.False(t, errors.Is(err, ErrNetwork))
	assert.Equal(t, KindServer, KindOf(err))
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"server", Server("DELETE /api/issues/1", 404, "Issue not found"), "DELETE /api/issues/1: server status 404: Issue not found"},
		{"validation", Validation("submit", "title"), "submit: validation (title)"},
		{"network", Network("GET /api/issues", errors.New("refused")), "GET /api/issues: network: refused"},
		{"busy", Busy("chat"), "chat: busy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestRetryable(t *testing.T) {
	assert.True(t, Retryable(Network("op", errors.New("reset"))))
	assert.True(t, Retryable(Server("op", 502, "")))
	assert.True(t, Retryable(Server("op", 429, "")))
	assert.False(t, Retryable(Server("op", 400, "")))
	assert.False(t, Retryable(Decode("op", errors.New("bad json"))))
	assert.False(t, Retryable(errors.New("plain")))
}
