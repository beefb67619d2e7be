package security

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go-jobboard-backend/pkg/redis"

	goredis "github.com/redis/go-redis/v9"
)

// LoginTrackerConfig holds configuration for login tracking
type LoginTrackerConfig struct {
	MaxAttempts   int           // Failed attempts before the account is blocked
	AttemptWindow time.Duration // Window in which failures are counted
	BlockDuration time.Duration // How long a block lasts
}

func DefaultLoginTrackerConfig() LoginTrackerConfig {
	return LoginTrackerConfig{
		MaxAttempts:   5,
		AttemptWindow: 15 * time.Minute,
		BlockDuration: 15 * time.Minute,
	}
}

// Redis key patterns
const (
	failLoginPrefix    = "fail:login:user:"
	blockedLoginPrefix = "blocked:login:user:"
)

// KEYS[1] = counter key, ARGV[1] = TTL in seconds
const incrWithTTLScript = `
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
return count
`

type loginState struct {
	failures     int
	windowEnds   time.Time
	blockedUntil time.Time
}

// LoginTracker counts failed logins per email and blocks the email once the
// limit is reached. Redis holds the counters when connected; otherwise they
// live in process memory.
type LoginTracker struct {
	config LoginTrackerConfig
	client func() *goredis.Client
	now    func() time.Time

	mu    sync.Mutex
	local map[string]*loginState
}

func NewLoginTracker(config LoginTrackerConfig) *LoginTracker {
	def := DefaultLoginTrackerConfig()
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = def.MaxAttempts
	}
	if config.AttemptWindow <= 0 {
		config.AttemptWindow = def.AttemptWindow
	}
	if config.BlockDuration <= 0 {
		config.BlockDuration = def.BlockDuration
	}
	return &LoginTracker{
		config: config,
		client: redis.Client,
		now:    time.Now,
		local:  make(map[string]*loginState),
	}
}

// IsBlocked reports whether email is currently blocked.
func (lt *LoginTracker) IsBlocked(ctx context.Context, email string) (bool, error) {
	if client := lt.client(); client != nil {
		n, err := client.Exists(ctx, blockedLoginPrefix+email).Result()
		if err == nil {
			return n > 0, nil
		}
		// fall through to memory so a Redis outage does not lift local blocks
		blocked, _ := lt.isBlockedLocal(email)
		return blocked, fmt.Errorf("failed to check login block: %w", err)
	}
	return lt.isBlockedLocal(email)
}

func (lt *LoginTracker) isBlockedLocal(email string) (bool, error) {
	lt.mu.Lock()
	defer lt.mu.Unlock()
	st, ok := lt.local[email]
	return ok && lt.now().Before(st.blockedUntil), nil
}

// RecordFailure counts one failed attempt and reports whether the email is now blocked.
func (lt *LoginTracker) RecordFailure(ctx context.Context, email string) (bool, error) {
	client := lt.client()
	if client == nil {
		return lt.recordFailureLocal(email), nil
	}

	ttl := int(lt.config.AttemptWindow.Seconds())
	res, err := client.Eval(ctx, incrWithTTLScript, []string{failLoginPrefix + email}, ttl).Result()
	if err != nil {
		return lt.recordFailureLocal(email), fmt.Errorf("failed to count login failure: %w", err)
	}
	count, ok := res.(int64)
	if !ok {
		return false, errors.New("unexpected result type from Lua script")
	}
	if int(count) < lt.config.MaxAttempts {
		return false, nil
	}

	if err := client.Set(ctx, blockedLoginPrefix+email, "1", lt.config.BlockDuration).Err(); err != nil {
		return true, fmt.Errorf("failed to set login block: %w", err)
	}
	return true, nil
}

func (lt *LoginTracker) recordFailureLocal(email string) bool {
	lt.mu.Lock()
	defer lt.mu.Unlock()

	now := lt.now()
	st, ok := lt.local[email]
	if !ok {
		st = &loginState{}
		lt.local[email] = st
	}
	if now.After(st.windowEnds) {
		st.failures = 0
		st.windowEnds = now.Add(lt.config.AttemptWindow)
	}
	st.failures++
	if st.failures >= lt.config.MaxAttempts {
		st.blockedUntil = now.Add(lt.config.BlockDuration)
		st.failures = 0
		return true
	}
	return false
}

// Clear forgets the failures recorded for email after a successful login.
func (lt *LoginTracker) Clear(ctx context.Context, email string) error {
	lt.mu.Lock()
	delete(lt.local, email)
	lt.mu.Unlock()

	if client := lt.client(); client != nil {
		if err := client.Del(ctx, failLoginPrefix+email).Err(); err != nil {
			return fmt.Errorf("failed to clear login failures: %w", err)
		}
	}
	return nil
}
