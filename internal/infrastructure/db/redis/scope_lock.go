package redis

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/99minutos/freight-pricing/internal/core/domain"
)

const (
	defaultLockTTL = 10 * time.Second
	retryInterval  = 50 * time.Millisecond
)

// releaseScript deletes the lock only if it is still held by the caller's token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// ScopeLocker serialises price writers of the same conflict scope across
// processes. Key format: price-scope:<serviceId>:<serviceType>:<origin>:<destination>
type ScopeLocker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewScopeLocker wraps client. The lock expires after ttl if its holder dies.
func NewScopeLocker(client *redis.Client, ttl time.Duration) *ScopeLocker {
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &ScopeLocker{client: client, ttl: ttl}
}

// Lock polls until the scope is free or ctx is done, in which case it
// returns domain.ErrScopeLocked.
func (l *ScopeLocker) Lock(ctx context.Context, scope string) (func(context.Context) error, error) {
	token, err := newToken()
	if err != nil {
		return nil, err
	}
	key := l.key(scope)

	ticker := time.NewTicker(retryInterval)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil && ctx.Err() == nil {
			return nil, fmt.Errorf("scope lock: %w", err)
		}
		if ok {
			return func(ctx context.Context) error {
				return releaseScript.Run(ctx, l.client, []string{key}, token).Err()
			}, nil
		}

		select {
		case <-ctx.Done():
			return nil, domain.ErrScopeLocked
		case <-ticker.C:
		}
	}
}

func (l *ScopeLocker) key(scope string) string {
	return "price-scope:" + scope
}

func newToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("lock token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
