package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	customErrors "github.com/veloxcart/ecommerce-api/internal/domain/catalogue/errors"
)

// SessionStore tracks issued refresh jtis and revocations for both token
// kinds. Unlike the one-time store, records here flip state in place.
type SessionStore struct {
	client *redis.Client
}

func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

func (s *SessionStore) Store(ctx context.Context, jti string, expiresAt time.Time) error {
	if err := s.client.Set(ctx, "session:"+jti, "0", safeTTL(expiresAt)).Err(); err != nil {
		return customErrors.WrapStoreUnavailable(err)
	}
	return nil
}

func (s *SessionStore) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	if err := s.client.Set(ctx, "session:"+jti, "1", safeTTL(expiresAt)).Err(); err != nil {
		return customErrors.WrapStoreUnavailable(err)
	}
	return nil
}

func (s *SessionStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	val, err := s.client.Get(ctx, "session:"+jti).Result()
	switch {
	case errors.Is(err, redis.Nil):
		return false, nil
	case err != nil:
		return true, customErrors.WrapStoreUnavailable(err)
	default:
		return val == "1", nil
	}
}

func (s *SessionStore) RevokeAccess(ctx context.Context, jti string, expiresAt time.Time) error {
	if err := s.client.Set(ctx, "access:"+jti, "1", safeTTL(expiresAt)).Err(); err != nil {
		return customErrors.WrapStoreUnavailable(err)
	}
	return nil
}

func (s *SessionStore) IsAccessRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := s.client.Exists(ctx, "access:"+jti).Result()
	if err != nil {
		return true, customErrors.WrapStoreUnavailable(err)
	}
	return n > 0, nil
}

// safeTTL keeps the key evictable even when the expiry already passed.
func safeTTL(expiresAt time.Time) time.Duration {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return time.Minute
	}
	return ttl
}
