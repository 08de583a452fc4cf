package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/leadsheet/internal/core/domain"
	"github.com/custodia-labs/leadsheet/internal/core/ports/driven"
	"github.com/custodia-labs/leadsheet/internal/core/ports/driving"
	"github.com/custodia-labs/leadsheet/internal/logger"
)

// Ensure AuthService implements the interface.
var _ driving.AuthService = (*AuthService)(nil)

// AuthService authenticates bearer tokens against a chain of verifiers and
// mints session tokens.
type AuthService struct {
	verifiers  []driven.TokenVerifier
	issuer     driven.TokenIssuer
	defaultTTL time.Duration
}

// NewAuthService creates an auth service. Nil verifiers are skipped; a nil
// issuer disables session minting.
func NewAuthService(issuer driven.TokenIssuer, defaultTTL time.Duration, verifiers ...driven.TokenVerifier) *AuthService {
	if defaultTTL <= 0 {
		defaultTTL = domain.DefaultSessionTTL
	}
	s := &AuthService{issuer: issuer, defaultTTL: defaultTTL}
	for _, v := range verifiers {
		if v != nil {
			s.verifiers = append(s.verifiers, v)
		}
	}
	return s
}

// Authenticate tries each verifier in order and returns the first identity.
// An expired token is reported as ErrAuthExpired even if a later verifier
// also rejects it.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, domain.ErrAuthRequired
	}
	if len(s.verifiers) == 0 {
		return nil, fmt.Errorf("no token verifiers configured: %w", domain.ErrAuthInvalid)
	}

	expired := false
	for _, v := range s.verifiers {
		id, err := v.Verify(ctx, token)
		if err == nil {
			logger.Debug("auth: %s token accepted for %s", v.Name(), id.Actor())
			return id, nil
		}
		if errors.Is(err, domain.ErrAuthExpired) {
			expired = true
		}
		logger.Debug("auth: %s verifier rejected token: %v", v.Name(), err)
	}

	if expired {
		return nil, domain.ErrAuthExpired
	}
	return nil, domain.ErrAuthInvalid
}

// IssueSession returns a signed session token for the identity.
func (s *AuthService) IssueSession(identity domain.Identity, ttl time.Duration) (string, time.Time, error) {
	if s.issuer == nil {
		return "", time.Time{}, fmt.Errorf("session secret not configured: %w", domain.ErrNotImplemented)
	}
	if strings.TrimSpace(identity.Subject) == "" {
		return "", time.Time{}, fmt.Errorf("subject is required: %w", domain.ErrInvalidInput)
	}
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	return s.issuer.Issue(identity, ttl)
}

// Enabled reports whether any verifier is configured.
func (s *AuthService) Enabled() bool {
	return len(s.verifiers) > 0
}
