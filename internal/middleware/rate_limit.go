package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/aurora-digital/identity/config"
	"github.com/aurora-digital/identity/internal/constants"
	"github.com/gin-gonic/gin"
)

type rateWindow struct {
	count   int
	resetAt time.Time
}

// RateLimiter enforces a fixed-window per-IP request limit. State is
// in-process; each instance enforces its own budget.
type RateLimiter struct {
	mu       sync.Mutex
	windows  map[string]*rateWindow
	limit    int
	duration time.Duration
}

func NewRateLimiter(cfg config.RateLimitConfig) *RateLimiter {
	rl := &RateLimiter{
		windows:  make(map[string]*rateWindow),
		limit:    cfg.Request,
		duration: time.Duration(cfg.Duration) * time.Second,
	}
	go rl.evictLoop()
	return rl
}

func (rl *RateLimiter) allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	w, ok := rl.windows[key]
	if !ok || now.After(w.resetAt) {
		rl.windows[key] = &rateWindow{count: 1, resetAt: now.Add(rl.duration)}
		return true
	}

	w.count++
	return w.count <= rl.limit
}

func (rl *RateLimiter) evictLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		rl.mu.Lock()
		for key, w := range rl.windows {
			if now.After(w.resetAt) {
				delete(rl.windows, key)
			}
		}
		rl.mu.Unlock()
	}
}

// Middleware rejects requests over the per-IP budget with 429.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				constants.BuildErrorResponse("RATE_LIMITED", "too many requests", nil))
			return
		}
		c.Next()
	}
}
