package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/tournament-service/internal/config"
	apperrors "github.com/spec-kit/tournament-service/pkg/util"
)

// CounterStore abstracts the shared counter state so a single-instance
// in-memory map and a distributed Redis store are interchangeable.
type CounterStore interface {
	// Incr increments the counter for key, starting a fresh window when none
	// is active, and returns the count within the current window.
	Incr(ctx context.Context, key string, window time.Duration) (int, error)
}

// Limiter throttles an operation per identifying key. Precision is
// best-effort: counters reset when their window expires.
type Limiter struct {
	store       CounterStore
	window      time.Duration
	maxAttempts int
	message     string
}

// NewLimiter builds a limiter over the given store.
func NewLimiter(store CounterStore, window time.Duration, maxAttempts int, message string) *Limiter {
	return &Limiter{store: store, window: window, maxAttempts: maxAttempts, message: message}
}

// NewAuthLimiter throttles authentication attempts per the configured budget,
// falling back to 5 per 15 minutes.
func NewAuthLimiter(store CounterStore, cfg config.RateLimitConfig) *Limiter {
	minutes := positiveOr(cfg.AuthWindowMinutes, 15)
	attempts := positiveOr(cfg.AuthMaxAttempts, 5)
	return NewLimiter(store, time.Duration(minutes)*time.Minute, attempts,
		fmt.Sprintf("too many login attempts, please try again in %d minute(s)", minutes))
}

// NewRegistrationLimiter throttles account registration per the configured
// budget, falling back to 3 per hour.
func NewRegistrationLimiter(store CounterStore, cfg config.RateLimitConfig) *Limiter {
	minutes := positiveOr(cfg.RegisterWindowMinutes, 60)
	attempts := positiveOr(cfg.RegisterMaxAttempts, 3)
	return NewLimiter(store, time.Duration(minutes)*time.Minute, attempts,
		fmt.Sprintf("too many registration attempts, please try again in %d minute(s)", minutes))
}

func positiveOr(v, fallback int) int {
	if v <= 0 {
		return fallback
	}
	return v
}

// Check records an attempt for the client IP and optional email, failing with
// TooManyRequests once either counter exceeds the limit within its window.
func (l *Limiter) Check(ctx context.Context, clientIP, email string) error {
	keys := []string{"rate_limit:ip:" + orUnknown(clientIP)}
	if email != "" {
		keys = append(keys, "rate_limit:email:"+strings.ToLower(email))
	}

	for _, key := range keys {
		count, err := l.store.Incr(ctx, key, l.window)
		if err != nil {
			// Throttling is best-effort; a broken counter store must not
			// block authentication outright.
			continue
		}
		if count > l.maxAttempts {
			return apperrors.NewTooManyRequests(l.message)
		}
	}
	return nil
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

type memoryEntry struct {
	count   int
	resetAt time.Time
}

// MemoryStore is a mutex-guarded in-memory counter store suitable for
// single-instance deployments and tests.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry), now: time.Now}
}

// Incr implements CounterStore.
func (m *MemoryStore) Incr(_ context.Context, key string, window time.Duration) (int, error) {
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok || now.After(entry.resetAt) {
		m.entries[key] = memoryEntry{count: 1, resetAt: now.Add(window)}
		return 1, nil
	}
	entry.count++
	m.entries[key] = entry
	return entry.count, nil
}

// RedisStore backs the counters with Redis for multi-instance deployments.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Incr implements CounterStore using INCR plus a window-scoped expiry set
// only when the key is first created.
func (r *RedisStore) Incr(ctx context.Context, key string, window time.Duration) (int, error) {
	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		if err := r.client.Expire(ctx, key, window).Err(); err != nil {
			return int(count), err
		}
	}
	return int(count), nil
}
