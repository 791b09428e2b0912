package redis

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	customErrors "github.com/veloxcart/ecommerce-api/internal/domain/catalogue/errors"
)

// OneTimeTokenStore keeps one-time jtis in Redis keyed by token type. The
// record's TTL matches the token's remaining lifetime, so unredeemed
// identifiers evict passively.
type OneTimeTokenStore struct {
	client *redis.Client
}

func NewOneTimeTokenStore(client *redis.Client) *OneTimeTokenStore {
	return &OneTimeTokenStore{client: client}
}

func key(tokenType, jti string) string {
	return "jwt:" + tokenType + ":" + jti
}

// Register creates the record with SET NX so a live record for the same
// (type, jti) pair is never overwritten. A non-positive TTL means the token
// is already past its window; nothing is registered and redemption will
// report the identifier as unknown.
func (s *OneTimeTokenStore) Register(ctx context.Context, tokenType, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	ok, err := s.client.SetNX(ctx, key(tokenType, jti), "1", ttl).Result()
	if err != nil {
		return customErrors.WrapStoreUnavailable(err)
	}
	if !ok {
		return customErrors.ErrAlreadyExists
	}
	return nil
}

// Redeem pops the record atomically. GETDEL is a single indivisible command,
// so under concurrent redemption exactly one caller observes the value. On
// servers predating GETDEL (Redis < 6.2) a MULTI/EXEC GET+DEL pair preserves
// the all-or-nothing guarantee.
func (s *OneTimeTokenStore) Redeem(ctx context.Context, tokenType, jti string) (bool, error) {
	k := key(tokenType, jti)

	val, err := s.client.GetDel(ctx, k).Result()
	switch {
	case err == nil:
		return val != "", nil
	case errors.Is(err, redis.Nil):
		return false, nil
	case isUnknownCommand(err):
		return s.redeemTx(ctx, k)
	default:
		return false, customErrors.WrapStoreUnavailable(err)
	}
}

func (s *OneTimeTokenStore) redeemTx(ctx context.Context, k string) (bool, error) {
	pipe := s.client.TxPipeline()
	get := pipe.Get(ctx, k)
	pipe.Del(ctx, k)
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return false, customErrors.WrapStoreUnavailable(err)
	}
	if errors.Is(get.Err(), redis.Nil) {
		return false, nil
	}
	return get.Val() != "", nil
}

// Exists is a non-consuming check for dry-run validation. Acting on its
// result races with concurrent redemption; only Redeem guards side effects.
func (s *OneTimeTokenStore) Exists(ctx context.Context, tokenType, jti string) (bool, error) {
	n, err := s.client.Exists(ctx, key(tokenType, jti)).Result()
	if err != nil {
		return false, customErrors.WrapStoreUnavailable(err)
	}
	return n > 0, nil
}

func isUnknownCommand(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "unknown command")
}
