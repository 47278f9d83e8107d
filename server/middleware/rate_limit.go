package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"github.com/studysense/studysense/server/auth"
	"github.com/studysense/studysense/store/cache"
)

// limiterTTL is how long an idle key keeps its limiter. An evicted key
// starts over with a full burst, which is acceptable slack.
const limiterTTL = 15 * time.Minute

// RateLimiter provides per-key rate limiting. Limiters for idle keys are
// evicted, so the key space (one entry per user or client IP) stays bounded.
type RateLimiter struct {
	mu       sync.Mutex
	limiters *cache.Cache
}

// NewRateLimiter creates a new rate limiter.
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		limiters: cache.New(cache.Config{
			DefaultTTL:      limiterTTL,
			CleanupInterval: time.Minute,
			MaxItems:        10000,
		}),
	}
}

// Close stops the eviction goroutine.
func (rl *RateLimiter) Close() {
	rl.limiters.Close()
}

func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if v, ok := rl.limiters.Get(key); ok {
		limiter := v.(*rate.Limiter)
		// Refresh the TTL so active keys are never evicted mid-use.
		rl.limiters.Set(key, limiter)
		return limiter
	}

	// 10 requests per second, with burst of 20
	limiter := rate.NewLimiter(rate.Every(time.Second/10), 20)
	rl.limiters.Set(key, limiter)
	return limiter
}

// Allow checks if a request is allowed for the given key.
func (rl *RateLimiter) Allow(key string) bool {
	return rl.getLimiter(key).Allow()
}

// Middleware returns an echo middleware that rate-limits by user when
// authenticated, falling back to the client IP.
func (rl *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := c.RealIP()
			if userID, ok := auth.UserIDFromContext(c); ok {
				key = fmt.Sprintf("user:%d", userID)
			}
			if !rl.Allow(key) {
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}
			return next(c)
		}
	}
}
