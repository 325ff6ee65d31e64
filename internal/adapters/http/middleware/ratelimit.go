package middleware

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/Aletsou/hoodlum-mentality-backend/internal/adapters/http/handlers"
	"github.com/Aletsou/hoodlum-mentality-backend/internal/core/logger"
	"github.com/Aletsou/hoodlum-mentality-backend/internal/core/serviceerrors"
	"github.com/gin-gonic/gin"
)

type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// RateLimitPolicy bounds how often one client may call a route.
type RateLimitPolicy struct {
	Limit  int
	Window time.Duration
	// Key names the bucket. Defaults to ByClientIP.
	Key func(c *gin.Context) string
}

var (
	LoginPolicy       = RateLimitPolicy{Limit: 10, Window: time.Minute, Key: ByClientIP}
	CreateOrderPolicy = RateLimitPolicy{Limit: 15, Window: time.Minute, Key: ByCaller}
)

func ByClientIP(c *gin.Context) string {
	return fmt.Sprintf("%s:%s:%s", c.Request.Method, c.FullPath(), c.ClientIP())
}

// ByCaller buckets authenticated routes per user, falling back to the client IP.
func ByCaller(c *gin.Context) string {
	if caller := CallerFrom(c); caller != nil {
		return fmt.Sprintf("%s:%s:user:%s", c.Request.Method, c.FullPath(), caller.ID)
	}
	return ByClientIP(c)
}

// RateLimit fails open: a limiter error lets the request through.
func RateLimit(limiter RateLimiter, policy RateLimitPolicy) gin.HandlerFunc {
	keyOf := policy.Key
	if keyOf == nil {
		keyOf = ByClientIP
	}
	retryAfter := strconv.Itoa(int(policy.Window.Seconds()))

	return func(c *gin.Context) {
		key := keyOf(c)
		c.Header("X-RateLimit-Limit", strconv.Itoa(policy.Limit))

		allowed, err := limiter.Allow(c.Request.Context(), key, policy.Limit, policy.Window)
		if err != nil {
			logger.Warn(c.Request.Context(), "rate limiter unavailable", map[string]any{
				"key":   key,
				"error": err.Error(),
			})
			c.Next()
			return
		}
		if !allowed {
			c.Header("Retry-After", retryAfter)
			handlers.HandleError(c, serviceerrors.NewTooManyRequestsError("Too many requests, please try again later"))
			return
		}
		c.Next()
	}
}
