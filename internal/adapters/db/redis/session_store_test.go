package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redisv9 "github.com/redis/go-redis/v9"
)

func newSessionStore(t *testing.T) *SessionStore {
	mr := miniredis.RunT(t)
	t.Cleanup(mr.Close)

	client := redisv9.NewClient(&redisv9.Options{
		Addr: mr.Addr(),
	})
	return NewSessionStore(client)
}

func TestSessionStore_StoreAndIsRevoked(t *testing.T) {
	store := newSessionStore(t)
	ctx := context.Background()

	exp := time.Now().Add(10 * time.Minute)
	if err := store.Store(ctx, "jti1", exp); err != nil {
		t.Fatalf("Store: %v", err)
	}

	revoked, err := store.IsRevoked(ctx, "jti1")
	if err != nil {
		t.Fatalf("IsRevoked err: %v", err)
	}
	if revoked {
		t.Fatal("token should NOT be revoked right after Store")
	}
}

func TestSessionStore_RevokeAndIsRevoked(t *testing.T) {
	store := newSessionStore(t)
	ctx := context.Background()

	exp := time.Now().Add(time.Minute)
	if err := store.Revoke(ctx, "jti2", exp); err != nil {
		t.Fatalf("Revoke: %v", err)
	}

	revoked, err := store.IsRevoked(ctx, "jti2")
	if err != nil {
		t.Fatalf("IsRevoked err: %v", err)
	}
	if !revoked {
		t.Fatal("token should be marked revoked")
	}
}

func TestSessionStore_AccessRevocation(t *testing.T) {
	store := newSessionStore(t)
	ctx := context.Background()

	revoked, err := store.IsAccessRevoked(ctx, "jti3")
	if err != nil {
		t.Fatalf("IsAccessRevoked err: %v", err)
	}
	if revoked {
		t.Fatal("unknown access jti should not be revoked")
	}

	if err := store.RevokeAccess(ctx, "jti3", time.Now().Add(time.Minute)); err != nil {
		t.Fatalf("RevokeAccess: %v", err)
	}
	revoked, err = store.IsAccessRevoked(ctx, "jti3")
	if err != nil || !revoked {
		t.Fatalf("access jti should be revoked: %v %v", revoked, err)
	}
}

func TestSessionStore_PastExpiryStillEvicts(t *testing.T) {
	store := newSessionStore(t)
	ctx := context.Background()

	// Expiry in the past still gets a short TTL so the key disappears.
	if err := store.Revoke(ctx, "jti4", time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	revoked, err := store.IsRevoked(ctx, "jti4")
	if err != nil || !revoked {
		t.Fatalf("expected revoked, got %v %v", revoked, err)
	}
}
