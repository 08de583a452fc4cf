package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/custodia-labs/leadsheet/internal/core/domain"
	"github.com/custodia-labs/leadsheet/internal/core/ports/driven"
)

// Ensure SessionTokens implements both token ports.
var (
	_ driven.TokenVerifier = (*SessionTokens)(nil)
	_ driven.TokenIssuer   = (*SessionTokens)(nil)
)

const (
	// ProviderSession is the Identity.Provider of session tokens.
	ProviderSession = "session"

	// SessionIssuer is the "iss" claim of every session token.
	SessionIssuer = "leadsheet"

	// MinSecretLen is the minimum HS256 secret length in bytes.
	MinSecretLen = 32
)

// ErrWeakSecret is returned when the session secret is too short.
var ErrWeakSecret = fmt.Errorf("session secret must be at least %d bytes", MinSecretLen)

// SessionClaims are the claims carried by a session token.
type SessionClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

// SessionTokens mints and verifies HS256 session tokens.
type SessionTokens struct {
	secret []byte
	now    func() time.Time
}

// NewSessionTokens creates a session token issuer/verifier.
func NewSessionTokens(secret string) (*SessionTokens, error) {
	if len(secret) < MinSecretLen {
		return nil, ErrWeakSecret
	}
	return &SessionTokens{secret: []byte(secret), now: time.Now}, nil
}

// Name identifies the verifier.
func (s *SessionTokens) Name() string {
	return ProviderSession
}

// Issue signs a token for the identity valid for ttl.
func (s *SessionTokens) Issue(identity domain.Identity, ttl time.Duration) (string, time.Time, error) {
	if identity.Subject == "" {
		return "", time.Time{}, fmt.Errorf("subject: %w", domain.ErrInvalidInput)
	}
	if ttl <= 0 {
		return "", time.Time{}, fmt.Errorf("ttl %s: %w", ttl, domain.ErrInvalidInput)
	}

	now := s.now()
	expires := now.Add(ttl)
	claims := &SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    SessionIssuer,
			Subject:   identity.Subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
		Email: identity.Email,
		Name:  identity.Name,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session token: %w", err)
	}
	return signed, expires, nil
}

// Verify parses a session token. Only HS256 is accepted.
func (s *SessionTokens) Verify(_ context.Context, token string) (*domain.Identity, error) {
	parsed, err := jwt.ParseWithClaims(token, &SessionClaims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v (only HS256 allowed)", t.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(SessionIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("session token: %w", domain.ErrAuthExpired)
		}
		return nil, fmt.Errorf("session token: %w: %w", domain.ErrAuthInvalid, err)
	}

	claims, ok := parsed.Claims.(*SessionClaims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return nil, fmt.Errorf("session token: %w", domain.ErrAuthInvalid)
	}
	return &domain.Identity{
		Subject:  claims.Subject,
		Email:    claims.Email,
		Name:     claims.Name,
		Provider: ProviderSession,
	}, nil
}
