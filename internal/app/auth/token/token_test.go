package token

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	customErrors "github.com/veloxcart/ecommerce-api/internal/domain/catalogue/errors"
	"github.com/veloxcart/ecommerce-api/internal/infra/config"
)

func writeKeyPair(t *testing.T) (privPath, pubPath string) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	privPath = filepath.Join(dir, "priv.pem")
	pubPath = filepath.Join(dir, "pub.pem")

	privPem := pem.EncodeToMemory(&pem.Block{
		Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
	pubDer, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		t.Fatal(err)
	}
	pubPem := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDer})

	if err := os.WriteFile(privPath, privPem, 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(pubPath, pubPem, 0o600); err != nil {
		t.Fatal(err)
	}
	return privPath, pubPath
}

func testIssuer(t *testing.T, mutate func(*config.Config)) *Issuer {
	t.Helper()

	priv, pub := writeKeyPair(t)
	cfg := &config.Config{
		JWTPrivateKeyPath:         priv,
		JWTPublicKeyPath:          pub,
		JWTIssuer:                 "test",
		JWTAudience:               "test",
		AccessTokenTTL:            time.Minute,
		RefreshTokenTTL:           time.Hour,
		EmailVerificationTokenTTL: 24 * time.Hour,
		PasswordResetTokenTTL:     time.Hour,
	}
	if mutate != nil {
		mutate(cfg)
	}
	iss, err := NewIssuer(cfg)
	if err != nil {
		t.Fatal(err)
	}
	return iss
}

func TestIssuer_IssueParse(t *testing.T) {
	iss := testIssuer(t, nil)
	uid := uuid.New()

	raw, claims, err := iss.Issue(uid, TypeEmailVerification)
	if err != nil {
		t.Fatal(err)
	}
	if claims.ID == "" {
		t.Fatal("expected a jti")
	}
	wantExp := claims.IssuedAt.Add(iss.Lifetime(TypeEmailVerification))
	if !claims.ExpiresAt.Equal(wantExp) {
		t.Fatalf("expiry want %v got %v", wantExp, claims.ExpiresAt.Time)
	}

	got, err := iss.Parse(raw, TypeEmailVerification)
	if err != nil {
		t.Fatal(err)
	}
	if got.Subject != uid.String() {
		t.Fatalf("subject want %s got %s", uid, got.Subject)
	}
	if got.ID != claims.ID {
		t.Fatalf("jti want %s got %s", claims.ID, got.ID)
	}
}

func TestIssuer_TypeIsolation(t *testing.T) {
	iss := testIssuer(t, nil)

	raw, _, err := iss.Issue(uuid.New(), TypeEmailVerification)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := iss.Parse(raw, TypePasswordReset); !customErrors.IsInvalidToken(err) {
		t.Fatalf("want invalid token, got %v", err)
	}
}

func TestIssuer_Expired(t *testing.T) {
	iss := testIssuer(t, func(c *config.Config) {
		c.PasswordResetTokenTTL = -time.Minute
	})

	raw, _, err := iss.Issue(uuid.New(), TypePasswordReset)
	if err == nil {
		// Negative lifetime is rejected at mint; build an expired token by
		// minting with a tiny positive lifetime instead.
		t.Fatalf("expected mint rejection, got token %q", raw)
	}

	iss2 := testIssuer(t, func(c *config.Config) {
		c.PasswordResetTokenTTL = time.Nanosecond
	})
	raw2, _, err := iss2.Issue(uuid.New(), TypePasswordReset)
	if err != nil {
		t.Fatal(err)
	}
	time.Sleep(10 * time.Millisecond)
	if _, err := iss2.Parse(raw2, TypePasswordReset); !customErrors.IsExpiredToken(err) {
		t.Fatalf("want expired token, got %v", err)
	}
}

func TestIssuer_ForeignKeyRejected(t *testing.T) {
	iss := testIssuer(t, nil)
	other := testIssuer(t, nil)

	raw, _, err := other.Issue(uuid.New(), TypePasswordReset)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := iss.Parse(raw, TypePasswordReset); !customErrors.IsInvalidToken(err) {
		t.Fatalf("want invalid token, got %v", err)
	}
}

func TestIssuer_Garbage(t *testing.T) {
	iss := testIssuer(t, nil)
	if _, err := iss.Parse("not-a-token", TypeEmailVerification); !customErrors.IsInvalidToken(err) {
		t.Fatalf("want invalid token, got %v", err)
	}
}

func TestIssuer_AccessCarriesRole(t *testing.T) {
	iss := testIssuer(t, nil)
	uid := uuid.New()

	raw, _, err := iss.IssueAccess(uid, "admin")
	if err != nil {
		t.Fatal(err)
	}
	claims, err := iss.Parse(raw, TypeAccess)
	if err != nil {
		t.Fatal(err)
	}
	if claims.Role != "admin" {
		t.Fatalf("role want admin got %q", claims.Role)
	}
	id, err := claims.SubjectID()
	if err != nil || id != uid {
		t.Fatalf("subject id %v %v", id, err)
	}
}
