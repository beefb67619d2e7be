package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"go-jobboard-backend/internal/delivery/http/response"
	"go-jobboard-backend/pkg/audit"
	"go-jobboard-backend/pkg/logger"
	"go-jobboard-backend/pkg/redis"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

// RateLimitConfig holds configuration for rate limiting
type RateLimitConfig struct {
	// Requests per window
	Limit int
	// Time window duration
	Window time.Duration
	// Key prefix for Redis
	KeyPrefix string
	// Reject requests when Redis errors instead of falling back to memory
	FailClosed bool
	// Custom key extractor (default: client IP)
	KeyFunc func(*gin.Context) string
}

// KEYS[1] = counter key, ARGV[1] = TTL in seconds
// Returns: [current_count, ttl_remaining]
const rateLimitLuaScript = `
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('TTL', KEYS[1])
return {count, ttl}
`

// sweepEvery bounds how often expired in-memory entries are dropped.
const sweepEvery = 1000

type rateLimitEntry struct {
	count   int
	resetAt time.Time
}

type rateLimiter struct {
	config RateLimitConfig
	client func() *goredis.Client
	now    func() time.Time

	mu    sync.Mutex
	local map[string]*rateLimitEntry
	calls int
}

// GlobalRateLimitConfig applies to every request.
func GlobalRateLimitConfig(limit int, window time.Duration) RateLimitConfig {
	return RateLimitConfig{Limit: limit, Window: window, KeyPrefix: "rl:ip:"}
}

// LoginRateLimitConfig is the strict variant for credential endpoints.
func LoginRateLimitConfig(limit int, window time.Duration) RateLimitConfig {
	return RateLimitConfig{Limit: limit, Window: window, KeyPrefix: "rl:login:", FailClosed: true}
}

// RateLimitMiddleware counts requests per key in Redis when connected and in
// process memory otherwise.
func RateLimitMiddleware(config RateLimitConfig) gin.HandlerFunc {
	return newRateLimiter(config, redis.Client, time.Now).handle
}

func newRateLimiter(config RateLimitConfig, client func() *goredis.Client, now func() time.Time) *rateLimiter {
	if config.Limit <= 0 {
		config.Limit = 100
	}
	if config.Window <= 0 {
		config.Window = time.Minute
	}
	if config.KeyFunc == nil {
		config.KeyFunc = func(c *gin.Context) string { return c.ClientIP() }
	}
	return &rateLimiter{
		config: config,
		client: client,
		now:    now,
		local:  make(map[string]*rateLimitEntry),
	}
}

func (rl *rateLimiter) handle(c *gin.Context) {
	key := rl.config.KeyPrefix + rl.config.KeyFunc(c)
	now := rl.now()

	var count int
	var resetAt time.Time

	if client := rl.client(); client != nil {
		var err error
		count, resetAt, err = rl.checkRedis(c.Request.Context(), client, key, now)
		if err != nil {
			logger.Log.Warn("rate limit store unavailable", "key_prefix", rl.config.KeyPrefix, "error", err)
			if rl.config.FailClosed {
				response.Error(c, http.StatusServiceUnavailable, "Service temporarily unavailable. Please try again.", nil)
				c.Abort()
				return
			}
			count, resetAt = rl.checkLocal(key, now)
		}
	} else {
		count, resetAt = rl.checkLocal(key, now)
	}

	c.Header("X-RateLimit-Limit", strconv.Itoa(rl.config.Limit))
	c.Header("X-RateLimit-Reset", resetAt.Format(time.RFC3339))

	if count > rl.config.Limit {
		retryAfter := int(resetAt.Sub(now).Seconds())
		if retryAfter < 1 {
			retryAfter = 1
		}
		c.Header("X-RateLimit-Remaining", "0")
		c.Header("Retry-After", strconv.Itoa(retryAfter))

		audit.Default().RateLimitTriggered(c, c.ClientIP(), c.FullPath())

		response.Error(c, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.", nil)
		c.Abort()
		return
	}

	c.Header("X-RateLimit-Remaining", strconv.Itoa(rl.config.Limit-count))
	c.Next()
}

func (rl *rateLimiter) checkRedis(ctx context.Context, client *goredis.Client, key string, now time.Time) (int, time.Time, error) {
	ttlSeconds := int(rl.config.Window.Seconds())
	if ttlSeconds < 1 {
		ttlSeconds = 1
	}

	result, err := client.Eval(ctx, rateLimitLuaScript, []string{key}, ttlSeconds).Result()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("redis rate limit eval failed: %w", err)
	}

	arr, ok := result.([]interface{})
	if !ok || len(arr) < 2 {
		return 0, time.Time{}, fmt.Errorf("unexpected redis result format")
	}
	count, _ := arr[0].(int64)
	ttl, _ := arr[1].(int64)

	return int(count), now.Add(time.Duration(ttl) * time.Second), nil
}

func (rl *rateLimiter) checkLocal(key string, now time.Time) (int, time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.calls++
	if rl.calls%sweepEvery == 0 {
		for k, e := range rl.local {
			if now.After(e.resetAt) {
				delete(rl.local, k)
			}
		}
	}

	entry, ok := rl.local[key]
	if !ok || now.After(entry.resetAt) {
		entry = &rateLimitEntry{resetAt: now.Add(rl.config.Window)}
		rl.local[key] = entry
	}
	entry.count++

	return entry.count, entry.resetAt
}
