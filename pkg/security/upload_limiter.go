package security

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go-jobboard-backend/pkg/redis"

	goredis "github.com/redis/go-redis/v9"
)

// Sliding window over a sorted set.
// KEYS[1] = key, ARGV[1] = limit, ARGV[2] = window seconds, ARGV[3] = now (unix nanos)
// Returns 1 if allowed, 0 if limited.
const uploadRateLimitScript = `
local key = KEYS[1]
local limit = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local now = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, 0, now - window * 1000000000)

if redis.call('ZCARD', key) >= limit then
    return 0
end

redis.call('ZADD', key, now, now .. '-' .. math.random(1000000))
redis.call('EXPIRE', key, window)
return 1
`

type uploadWindow struct {
	prefix string
	limit  int
	window time.Duration
}

// UploadLimiter caps resume uploads per IP per minute and per user per day.
// It uses Redis when connected and a process-local window otherwise.
type UploadLimiter struct {
	perIP   uploadWindow
	perUser uploadWindow
	client  func() *goredis.Client
	now     func() time.Time

	mu    sync.Mutex
	local map[string][]time.Time
}

func NewUploadLimiter(perMin, perDay int) *UploadLimiter {
	if perMin <= 0 {
		perMin = 10
	}
	if perDay <= 0 {
		perDay = 50
	}
	return &UploadLimiter{
		perIP:   uploadWindow{prefix: "ratelimit:upload:ip:", limit: perMin, window: time.Minute},
		perUser: uploadWindow{prefix: "ratelimit:upload:user:", limit: perDay, window: 24 * time.Hour},
		client:  redis.Client,
		now:     time.Now,
		local:   make(map[string][]time.Time),
	}
}

// AllowUpload returns whether the upload may proceed and, if not, how many
// seconds to wait. Redis errors fail open and are returned for logging.
func (ul *UploadLimiter) AllowUpload(ctx context.Context, ip, userID string) (bool, int, error) {
	checks := []struct {
		w   uploadWindow
		key string
	}{{ul.perIP, ip}}
	if userID != "" {
		checks = append(checks, struct {
			w   uploadWindow
			key string
		}{ul.perUser, userID})
	}

	var firstErr error
	for _, chk := range checks {
		allowed, err := ul.check(ctx, chk.w, chk.key)
		if err != nil && firstErr == nil {
			firstErr = err
		}
		if !allowed {
			return false, int(chk.w.window.Seconds()), firstErr
		}
	}
	return true, 0, firstErr
}

func (ul *UploadLimiter) check(ctx context.Context, w uploadWindow, key string) (bool, error) {
	fullKey := w.prefix + key
	now := ul.now()

	if client := ul.client(); client != nil {
		result, err := client.Eval(ctx, uploadRateLimitScript, []string{fullKey}, w.limit, int(w.window.Seconds()), now.UnixNano()).Result()
		if err == nil {
			allowed, ok := result.(int64)
			if !ok {
				return true, fmt.Errorf("unexpected result type from rate limit script")
			}
			return allowed == 1, nil
		}
		return ul.checkLocal(fullKey, w, now), fmt.Errorf("upload rate limit check failed: %w", err)
	}
	return ul.checkLocal(fullKey, w, now), nil
}

func (ul *UploadLimiter) checkLocal(key string, w uploadWindow, now time.Time) bool {
	ul.mu.Lock()
	defer ul.mu.Unlock()

	cutoff := now.Add(-w.window)
	hits := ul.local[key][:0]
	for _, t := range ul.local[key] {
		if t.After(cutoff) {
			hits = append(hits, t)
		}
	}
	if len(hits) >= w.limit {
		ul.local[key] = hits
		return false
	}
	ul.local[key] = append(hits, now)
	return true
}
