package repo

import (
	"context"
	"time"
)

// OneTimeTokenStore records minted token identifiers and consumes them at
// most once. Redemption is the only operation callers may rely on before an
// action with side effects; Exists is for dry-run checks only.
type OneTimeTokenStore interface {
	// Register creates the record for (tokenType, jti) with the given TTL.
	// A live record for the same pair is never overwritten.
	Register(ctx context.Context, tokenType, jti string, ttl time.Duration) error

	// Redeem atomically checks presence and deletes the record. It returns
	// true exactly once per registered identifier; concurrent callers for
	// the same identifier observe exactly one true.
	Redeem(ctx context.Context, tokenType, jti string) (bool, error)

	// Exists reports whether the record is still live without consuming it.
	Exists(ctx context.Context, tokenType, jti string) (bool, error)
}

// SessionStore tracks refresh token identifiers and revocations for login
// sessions.
type SessionStore interface {
	Store(ctx context.Context, jti string, expiresAt time.Time) error

	Revoke(ctx context.Context, jti string, expiresAt time.Time) error

	IsRevoked(ctx context.Context, jti string) (bool, error)

	RevokeAccess(ctx context.Context, jti string, expiresAt time.Time) error

	IsAccessRevoked(ctx context.Context, jti string) (bool, error)
}
