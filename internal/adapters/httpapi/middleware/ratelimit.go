package middleware

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// maxLimiters caps the per-key map; past it the map is reset.
const maxLimiters = 10000

// RateLimiter keeps one token bucket per caller: the student id when the
// request is authenticated, the client IP otherwise.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
	logger   *zap.Logger
}

func NewRateLimiter(requestsPerSecond float64, burst int, logger *zap.Logger) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(requestsPerSecond),
		burst:    burst,
		logger:   logger,
	}
}

func (rl *RateLimiter) limiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if l, ok := rl.limiters[key]; ok {
		return l
	}
	if len(rl.limiters) >= maxLimiters {
		rl.limiters = make(map[string]*rate.Limiter)
	}
	l := rate.NewLimiter(rl.rate, rl.burst)
	rl.limiters[key] = l
	return l
}

func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if id, ok := StudentID(c); ok {
			key = "student:" + strconv.FormatInt(id, 10)
		}
		if !rl.limiter(key).Allow() {
			rl.logger.Warn("⚠️ rate limit exceeded", zap.String("key", key), zap.String("path", c.FullPath()))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "RATE_LIMITED", "message": "too many requests"})
			return
		}
		c.Next()
	}
}
