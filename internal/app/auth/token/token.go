package token

import (
	"crypto/rsa"
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	customErrors "github.com/veloxcart/ecommerce-api/internal/domain/catalogue/errors"
	"github.com/veloxcart/ecommerce-api/internal/infra/config"
)

// Type names the purpose a token was minted for. The type is carried as a
// signed claim and checked on parse, so a token minted for one purpose can
// never be redeemed through another purpose's path.
type Type string

const (
	TypeAccess            Type = "access"
	TypeRefresh           Type = "refresh"
	TypeEmailVerification Type = "email_verification"
	TypePasswordReset     Type = "password_reset"
)

type Claims struct {
	jwt.RegisteredClaims
	TokenType Type   `json:"token_type"`
	Role      string `json:"role,omitempty"`
}

type Issuer struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	lifetimes  map[Type]time.Duration
	issuer     string
	audience   string
}

func NewIssuer(cfg *config.Config) (*Issuer, error) {
	privPem, err := os.ReadFile(cfg.JWTPrivateKeyPath)
	if err != nil {
		return nil, customErrors.WrapInternal(err, "read private key")
	}
	privKey, err := jwt.ParseRSAPrivateKeyFromPEM(privPem)
	if err != nil {
		return nil, customErrors.WrapInternal(err, "parse private key")
	}

	pubPem, err := os.ReadFile(cfg.JWTPublicKeyPath)
	if err != nil {
		return nil, customErrors.WrapInternal(err, "read public key")
	}
	pubKey, err := jwt.ParseRSAPublicKeyFromPEM(pubPem)
	if err != nil {
		return nil, customErrors.WrapInternal(err, "parse public key")
	}

	return &Issuer{
		privateKey: privKey,
		publicKey:  pubKey,
		lifetimes: map[Type]time.Duration{
			TypeAccess:            cfg.AccessTokenTTL,
			TypeRefresh:           cfg.RefreshTokenTTL,
			TypeEmailVerification: cfg.EmailVerificationTokenTTL,
			TypePasswordReset:     cfg.PasswordResetTokenTTL,
		},
		issuer:   cfg.JWTIssuer,
		audience: cfg.JWTAudience,
	}, nil
}

// Lifetime returns the fixed validity window for the given type. The
// redemption store registers identifiers with exactly this TTL.
func (i *Issuer) Lifetime(typ Type) time.Duration {
	return i.lifetimes[typ]
}

// Issue mints a signed token of the given type bound to userID. Validity is
// self-contained: signature, type and expiry verify without storage access.
func (i *Issuer) Issue(userID uuid.UUID, typ Type) (string, Claims, error) {
	lifetime, ok := i.lifetimes[typ]
	if !ok || lifetime <= 0 {
		return "", Claims{}, customErrors.NewInvalidArgument("unknown token type " + string(typ))
	}

	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    i.issuer,
			Audience:  jwt.ClaimStrings{i.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
			ID:        uuid.NewString(),
		},
		TokenType: typ,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(i.privateKey)
	if err != nil {
		return "", Claims{}, customErrors.WrapInternal(err, "sign token")
	}
	return signed, claims, nil
}

// IssueAccess mints an access token carrying the user's role.
func (i *Issuer) IssueAccess(userID uuid.UUID, role string) (string, Claims, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    i.issuer,
			Audience:  jwt.ClaimStrings{i.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.lifetimes[TypeAccess])),
			ID:        uuid.NewString(),
		},
		TokenType: TypeAccess,
		Role:      role,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(i.privateKey)
	if err != nil {
		return "", Claims{}, customErrors.WrapInternal(err, "sign access token")
	}
	return signed, claims, nil
}

// Parse verifies signature, issuer, audience, static expiry and the declared
// type. A past expiry maps to ErrExpiredToken; every other defect, including
// a type mismatch, maps to ErrInvalidToken.
func (i *Issuer) Parse(raw string, want Type) (Claims, error) {
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodRS256.Alg() {
			return nil, customErrors.ErrInvalidToken
		}
		return i.publicKey, nil
	}, jwt.WithIssuedAt())

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, customErrors.ErrExpiredToken
		}
		return Claims{}, customErrors.ErrInvalidToken
	}
	if !token.Valid {
		return Claims{}, customErrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return Claims{}, customErrors.ErrInvalidToken
	}

	if claims.TokenType != want {
		return Claims{}, customErrors.ErrInvalidToken
	}
	if i.issuer != "" && claims.Issuer != i.issuer {
		return Claims{}, customErrors.ErrInvalidToken
	}
	if i.audience != "" {
		okAud := false
		for _, a := range claims.Audience {
			if a == i.audience {
				okAud = true
				break
			}
		}
		if !okAud {
			return Claims{}, customErrors.ErrInvalidToken
		}
	}

	return *claims, nil
}

// Subject extracts the user identity from parsed claims.
func (c Claims) SubjectID() (uuid.UUID, error) {
	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return uuid.Nil, customErrors.ErrInvalidToken
	}
	return id, nil
}
