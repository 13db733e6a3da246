package access

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const scopeKeyPrefix = "scope:user:"

// ScopeCache is a bounded-TTL cache for resolved scopes. Keeping the TTL
// short bounds how long a membership revocation can go unnoticed; a zero or
// negative TTL disables writes entirely.
type ScopeCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewScopeCache wraps a Redis client. A nil client yields a nil cache, which
// the resolver treats as caching disabled.
func NewScopeCache(client *redis.Client, ttl time.Duration) *ScopeCache {
	if client == nil {
		return nil
	}
	return &ScopeCache{client: client, ttl: ttl}
}

// Get returns the cached scope for a principal, with a hit indicator. Cache
// errors are reported so the caller can log them, but a miss and an error
// look the same to resolution: fall through to the store.
func (c *ScopeCache) Get(ctx context.Context, principalID string) ([]string, bool, error) {
	raw, err := c.client.Get(ctx, scopeKeyPrefix+principalID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var scope []string
	if err := json.Unmarshal(raw, &scope); err != nil {
		return nil, false, err
	}
	return scope, true, nil
}

// Set stores a resolved scope with the configured TTL.
func (c *ScopeCache) Set(ctx context.Context, principalID string, scope []string) error {
	if c.ttl <= 0 {
		return nil
	}
	raw, err := json.Marshal(scope)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, scopeKeyPrefix+principalID, raw, c.ttl).Err()
}
