package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimiter is an in-memory fixed-window limiter keyed by caller.
// Buckets refill at the start of each window.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	limit   int
	window  time.Duration
}

type bucket struct {
	tokens    int
	windowTop time.Time
}

// NewRateLimiter creates a limiter allowing limit requests per window.
// A janitor goroutine drops buckets that have been idle for two windows.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		buckets: make(map[string]*bucket),
		limit:   limit,
		window:  window,
	}
	go rl.evictIdle()
	return rl
}

func (rl *RateLimiter) evictIdle() {
	ticker := time.NewTicker(rl.window * 2)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for key, b := range rl.buckets {
			if now.Sub(b.windowTop) > rl.window*2 {
				delete(rl.buckets, key)
			}
		}
		rl.mu.Unlock()
	}
}

// Allow consumes a token for key and reports whether the request may
// proceed.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	b, ok := rl.buckets[key]
	if !ok || now.Sub(b.windowTop) >= rl.window {
		rl.buckets[key] = &bucket{tokens: rl.limit - 1, windowTop: now}
		return true
	}

	if b.tokens > 0 {
		b.tokens--
		return true
	}
	return false
}

// Remaining reports how many requests key has left in the current
// window.
func (rl *RateLimiter) Remaining(key string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.buckets[key]
	if !ok || time.Since(b.windowTop) >= rl.window {
		return rl.limit
	}
	return b.tokens
}

func rejectRateLimited(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// RateLimit limits by client IP, or by client ID plus IP when the
// X-Client-ID header is present.
func RateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if clientID := c.GetHeader(ClientHeaderKey); clientID != "" {
			key = clientID + ":" + key
		}

		if !limiter.Allow(key) {
			rejectRateLimited(c, "RATE_LIMIT_EXCEEDED", "Too many requests. Please try again later.")
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(limiter.Remaining(key)))

		c.Next()
	}
}

// RateLimitByKey limits using a caller-supplied key extractor.
func RateLimitByKey(limiter *RateLimiter, keyFunc func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(keyFunc(c)) {
			rejectRateLimited(c, "RATE_LIMIT_EXCEEDED", "Too many requests. Please try again later.")
			return
		}
		c.Next()
	}
}

// ImportRateLimit guards bulk endpoints such as the catalog CSV import.
// These requests hold a worker for seconds at a time, so they get a
// much smaller budget than the global limiter and their own key space.
// Blocked callers receive a Retry-After header for the next window.
func ImportRateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "import:" + c.ClientIP()

		if !limiter.Allow(key) {
			c.Header("Retry-After", strconv.Itoa(int(limiter.window.Seconds())))
			rejectRateLimited(c, "IMPORT_RATE_LIMIT_EXCEEDED", "Too many import requests. Please try again later.")
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(limiter.Remaining(key)))

		c.Next()
	}
}
