package middlewares

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartcampus/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers := append(mw, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": UserID(c)})
	})
	r.GET("/", handlers...)
	return r
}

func get(r http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	token, err := utils.GenerateToken("u1", "secret")
	require.NoError(t, err)

	r := newEngine(AuthMiddleware("secret"))

	w := get(r, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user":"u1"}`, w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, get(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "Bearer junk").Code)

	assert.Equal(t, http.StatusInternalServerError, get(newEngine(AuthMiddleware("")), "Bearer "+token).Code)
}

func TestOptionalAuth(t *testing.T) {
	token, err := utils.GenerateToken("u1", "secret")
	require.NoError(t, err)
	r := newEngine(OptionalAuth("secret"))

	assert.JSONEq(t, `{"user":"u1"}`, get(r, "Bearer "+token).Body.String())
	assert.JSONEq(t, `{"user":""}`, get(r, "").Body.String())
	assert.JSONEq(t, `{"user":""}`, get(r, "Bearer junk").Body.String())
}

type memCounter struct {
	mu     sync.Mutex
	counts map[string]int64
	ttls   map[string]time.Duration
}

func newMemCounter() *memCounter {
	return &memCounter{counts: map[string]int64{}, ttls: map[string]time.Duration{}}
}

func (m *memCounter) Incr(ctx context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[key]++
	return m.counts[key], nil
}

func (m *memCounter) Expire(ctx context.Context, key string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ttls[key] = ttl
	return nil
}

func (m *memCounter) TTL(ctx context.Context, key string) (time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ttls[key], nil
}

func TestIssueRateLimiter(t *testing.T) {
	counter := newMemCounter()
	r := newEngine(IssueRateLimiter(counter, 2, time.Hour))

	assert.Equal(t, http.StatusOK, get(r, "").Code)
	assert.Equal(t, http.StatusOK, get(r, "").Code)
	w := get(r, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"error":"rate limit exceeded","retry_after":3600}`, w.Body.String())

	assert.Len(t, counter.ttls, 1)
}

func TestIssueRateLimiter_PerUser(t *testing.T) {
	counter := newMemCounter()
	a, err := utils.GenerateToken("a", "secret")
	require.NoError(t, err)
	b, err := utils.GenerateToken("b", "secret")
	require.NoError(t, err)
	r := newEngine(OptionalAuth("secret"), IssueRateLimiter(counter, 1, time.Hour))

	assert.Equal(t, http.StatusOK, get(r, "Bearer "+a).Code)
	assert.Equal(t, http.StatusOK, get(r, "Bearer "+b).Code)
	assert.Equal(t, http.StatusTooManyRequests, get(r, "Bearer "+a).Code)
}

func TestIssueRateLimiter_Disabled(t *testing.T) {
	r := newEngine(IssueRateLimiter(nil, 1, time.Hour))
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, get(r, "").Code)
	}
}
