package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/leadsheet/internal/core/domain"
)

// TokenVerifier verifies a bearer token and returns the identity it carries.
type TokenVerifier interface {
	// Verify returns domain.ErrAuthInvalid or domain.ErrAuthExpired
	// (wrapped) when the token is not acceptable.
	Verify(ctx context.Context, token string) (*domain.Identity, error)

	// Name identifies the verifier in logs (e.g. "session", "google").
	Name() string
}

// TokenIssuer mints signed session tokens.
type TokenIssuer interface {
	// Issue returns a token for the identity and its expiry.
	Issue(identity domain.Identity, ttl time.Duration) (string, time.Time, error)
}
