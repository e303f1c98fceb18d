package middlewares

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Counter is the slice of Redis the limiter needs.
type Counter interface {
	Incr(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
	TTL(ctx context.Context, key string) (time.Duration, error)
}

type redisCounter struct {
	client *redis.Client
}

// RedisCounter adapts a go-redis client to Counter.
func RedisCounter(client *redis.Client) Counter {
	return redisCounter{client: client}
}

func (r redisCounter) Incr(ctx context.Context, key string) (int64, error) {
	return r.client.Incr(ctx, key).Result()
}

func (r redisCounter) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return r.client.Expire(ctx, key, ttl).Err()
}

func (r redisCounter) TTL(ctx context.Context, key string) (time.Duration, error) {
	return r.client.TTL(ctx, key).Result()
}

const rateLimitPrefix = "smartcampus:issue-limit"

// IssueRateLimiter allows each caller limit issue creations per window.
// Callers are keyed by user id when authenticated and by client IP otherwise.
// A nil counter disables limiting.
func IssueRateLimiter(counter Counter, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if counter == nil {
			c.Next()
			return
		}

		caller := UserID(c)
		if caller == "" {
			caller = "ip:" + c.ClientIP()
		}
		key := rateLimitPrefix + ":" + caller
		ctx := c.Request.Context()

		count, err := counter.Incr(ctx, key)
		if err != nil {
			zap.S().Errorw("rate limiter: incr", "key", key, "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "redis error incrementing count"})
			return
		}

		// first hit in the window starts the clock
		if count == 1 {
			if err := counter.Expire(ctx, key, window); err != nil {
				zap.S().Errorw("rate limiter: expire", "key", key, "error", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "redis error setting TTL"})
				return
			}
		}

		if count > int64(limit) {
			retryAfter, _ := counter.TTL(ctx, key)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "rate limit exceeded",
				"retry_after": retryAfter.Seconds(),
			})
			return
		}

		c.Next()
	}
}
