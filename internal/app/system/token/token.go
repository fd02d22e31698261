// internal/app/system/token/token.go

// Package token issues and verifies the credentials used by the API surface:
// short-lived signed access tokens and long-lived opaque refresh tokens.
package token

import (
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/taskhub/internal/app/system/normalize"
	"github.com/dalemusser/taskhub/internal/domain/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/securecookie"

	"github.com/dalemusser/taskhub/internal/app/system/auth"
)

// Default credential lifetimes.
const (
	DefaultAccessTTL  = 15 * time.Minute
	DefaultRefreshTTL = 7 * 24 * time.Hour
)

// refreshTokenBytes is the entropy of an opaque refresh token.
const refreshTokenBytes = 40

var (
	ErrInvalidToken = errors.New("invalid or expired token")
)

// Claims is the JWT payload for access credentials.
type Claims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies access credentials with a shared HMAC secret.
type Issuer struct {
	secret    []byte
	accessTTL time.Duration
}

// NewIssuer creates an Issuer. A zero accessTTL falls back to the default.
func NewIssuer(secret string, accessTTL time.Duration) (*Issuer, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt secret is empty; provide ≥32 random chars")
	}
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTTL
	}
	return &Issuer{secret: []byte(secret), accessTTL: accessTTL}, nil
}

// Issue signs a new access credential for the user.
func (i *Issuer) Issue(u models.User) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		Name:  u.Name,
		Email: u.Email,
		Role:  normalize.Role(u.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.Hex(),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.accessTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// Verify validates signature and expiry and returns the encoded principal.
// Implements auth.TokenVerifier.
func (i *Issuer) Verify(tokenString string) (*auth.SessionUser, error) {
	var claims Claims
	tok, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return i.secret, nil
	})
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}
	return &auth.SessionUser{
		ID:    claims.Subject,
		Name:  claims.Name,
		Email: claims.Email,
		Role:  claims.Role,
	}, nil
}

// NewRefreshToken generates an opaque refresh credential with expiry.
// The value is random hex; it carries no claims and is validated only
// against the copy stored on the user document.
func NewRefreshToken(ttl time.Duration) (models.RefreshToken, error) {
	if ttl <= 0 {
		ttl = DefaultRefreshTTL
	}
	raw := securecookie.GenerateRandomKey(refreshTokenBytes)
	if raw == nil {
		return models.RefreshToken{}, fmt.Errorf("failed to generate refresh token")
	}
	return models.RefreshToken{
		Token:     hex.EncodeToString(raw),
		ExpiresAt: time.Now().UTC().Add(ttl),
	}, nil
}
