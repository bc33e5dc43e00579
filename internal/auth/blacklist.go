package auth

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenBlacklist revokes credentials before their natural expiry (logout).
type TokenBlacklist interface {
	Add(ctx context.Context, token string, until time.Time) error
	Contains(ctx context.Context, token string) bool
}

// MemoryBlacklist is a mutex-guarded in-memory blacklist for single-instance
// deployments. Expired entries are pruned lazily on write.
type MemoryBlacklist struct {
	mu     sync.RWMutex
	tokens map[string]time.Time
}

// NewMemoryBlacklist creates an empty blacklist.
func NewMemoryBlacklist() *MemoryBlacklist {
	return &MemoryBlacklist{tokens: make(map[string]time.Time)}
}

// Add implements TokenBlacklist.
func (b *MemoryBlacklist) Add(_ context.Context, token string, until time.Time) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	now := time.Now()
	for tok, exp := range b.tokens {
		if exp.Before(now) {
			delete(b.tokens, tok)
		}
	}
	b.tokens[token] = until
	return nil
}

// Contains implements TokenBlacklist.
func (b *MemoryBlacklist) Contains(_ context.Context, token string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	until, ok := b.tokens[token]
	return ok && until.After(time.Now())
}

// RedisBlacklist shares revocations across instances.
type RedisBlacklist struct {
	client *redis.Client
}

// NewRedisBlacklist wraps an existing client.
func NewRedisBlacklist(client *redis.Client) *RedisBlacklist {
	return &RedisBlacklist{client: client}
}

// Add implements TokenBlacklist; the entry expires with the token itself.
func (b *RedisBlacklist) Add(ctx context.Context, token string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	return b.client.Set(ctx, "token_blacklist:"+token, "1", ttl).Err()
}

// Contains implements TokenBlacklist. Lookup failures are treated as not
// blacklisted so a Redis outage does not lock everyone out.
func (b *RedisBlacklist) Contains(ctx context.Context, token string) bool {
	n, err := b.client.Exists(ctx, "token_blacklist:"+token).Result()
	return err == nil && n > 0
}
