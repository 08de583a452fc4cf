package auth

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/idtoken"

	"github.com/custodia-labs/leadsheet/internal/core/domain"
	"github.com/custodia-labs/leadsheet/internal/core/ports/driven"
)

// Ensure GoogleVerifier implements the TokenVerifier interface.
var _ driven.TokenVerifier = (*GoogleVerifier)(nil)

// ProviderGoogle is the Identity.Provider of Google ID tokens.
const ProviderGoogle = "google"

var googleIssuers = map[string]bool{
	"accounts.google.com":         true,
	"https://accounts.google.com": true,
}

// payloadValidator is satisfied by *idtoken.Validator.
type payloadValidator interface {
	Validate(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)
}

// GoogleVerifier accepts Google Sign-In ID tokens issued for one OAuth client.
type GoogleVerifier struct {
	validator payloadValidator
	audience  string
}

// NewGoogleVerifier creates a verifier for tokens whose audience is clientID.
func NewGoogleVerifier(ctx context.Context, clientID string, opts ...idtoken.ClientOption) (*GoogleVerifier, error) {
	if clientID == "" {
		return nil, fmt.Errorf("google client id: %w", domain.ErrInvalidInput)
	}
	v, err := idtoken.NewValidator(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create id token validator: %w", err)
	}
	return &GoogleVerifier{validator: v, audience: clientID}, nil
}

// Name identifies the verifier.
func (g *GoogleVerifier) Name() string {
	return ProviderGoogle
}

// Verify validates the token signature, audience and expiry.
func (g *GoogleVerifier) Verify(ctx context.Context, token string) (*domain.Identity, error) {
	payload, err := g.validator.Validate(ctx, token, g.audience)
	if err != nil {
		// idtoken reports expiry only through the message.
		if strings.Contains(err.Error(), "expired") {
			return nil, fmt.Errorf("google id token: %w", domain.ErrAuthExpired)
		}
		return nil, fmt.Errorf("google id token: %w: %w", domain.ErrAuthInvalid, err)
	}
	if !googleIssuers[payload.Issuer] {
		return nil, fmt.Errorf("google id token issuer %q: %w", payload.Issuer, domain.ErrAuthInvalid)
	}
	if payload.Subject == "" {
		return nil, fmt.Errorf("google id token: %w", domain.ErrAuthInvalid)
	}

	id := &domain.Identity{Subject: payload.Subject, Provider: ProviderGoogle}
	if email, ok := payload.Claims["email"].(string); ok {
		if verified, _ := payload.Claims["email_verified"].(bool); verified {
			id.Email = email
		}
	}
	if name, ok := payload.Claims["name"].(string); ok {
		id.Name = name
	}
	return id, nil
}
