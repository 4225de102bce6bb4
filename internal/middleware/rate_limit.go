package middleware

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nirmalhealthcare/clinic-console/pkg/logger"
	"github.com/nirmalhealthcare/clinic-console/pkg/metrics"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// TooManyAttemptsMessage is returned with every 429.
const TooManyAttemptsMessage = "Too many attempts. Please try again later."

// RateLimitConfig describes one limiter.
type RateLimitConfig struct {
	Name  string
	Rate  rate.Limit // requests per second
	Burst int
	// PerWorkspace keys buckets by workspace id instead of client IP. Front
	// desks often share one address, so guarded screens use this; login and
	// password reset stay per IP because workspaces are free to mint.
	PerWorkspace bool
}

// RateLimiter holds one token bucket per caller key.
type RateLimiter struct {
	cfg      RateLimitConfig
	mu       sync.Mutex
	visitors map[string]*rate.Limiter
}

// NewRateLimiter creates a limiter. Idle buckets are dropped every minute
// until ctx is done.
func NewRateLimiter(ctx context.Context, cfg RateLimitConfig) *RateLimiter {
	rl := &RateLimiter{
		cfg:      cfg,
		visitors: make(map[string]*rate.Limiter),
	}
	go rl.cleanupVisitors(ctx, time.Minute)
	return rl
}

func (rl *RateLimiter) limiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	l, ok := rl.visitors[key]
	if !ok {
		l = rate.NewLimiter(rl.cfg.Rate, rl.cfg.Burst)
		rl.visitors[key] = l
	}
	return l
}

func (rl *RateLimiter) cleanupVisitors(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.mu.Lock()
			for key, l := range rl.visitors {
				// A full bucket means no recent requests
				if l.Tokens() >= float64(rl.cfg.Burst) {
					delete(rl.visitors, key)
				}
			}
			rl.mu.Unlock()
		}
	}
}

func (rl *RateLimiter) key(c *gin.Context) string {
	if rl.cfg.PerWorkspace {
		if ws, err := GetWorkspace(c); err == nil {
			return "ws:" + ws.ID
		}
	}
	return "ip:" + c.ClientIP()
}

// retryAfter is the whole seconds until one token is back.
func (rl *RateLimiter) retryAfter() int {
	if rl.cfg.Rate <= 0 {
		return 60
	}
	millis := math.Round(1000 / float64(rl.cfg.Rate))
	return int(math.Ceil(millis / 1000))
}

// Middleware rejects callers whose bucket is empty with 429 and Retry-After.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := rl.key(c)
		if rl.limiter(key).Allow() {
			c.Next()
			return
		}

		metrics.RateLimited.WithLabelValues(rl.cfg.Name).Inc()
		logger.Warn("Rate limit exceeded",
			zap.String("limiter", rl.cfg.Name),
			zap.String("path", c.Request.URL.Path),
			zap.String("key", key))
		c.Header("Retry-After", strconv.Itoa(rl.retryAfter()))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"success": false,
			"error":   TooManyAttemptsMessage,
		})
	}
}
