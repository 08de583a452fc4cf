package driving

import (
	"context"
	"time"

	"github.com/custodia-labs/leadsheet/internal/core/domain"
)

// AuthService authenticates bearer tokens and mints session tokens.
type AuthService interface {
	// Authenticate tries each configured verifier in turn.
	Authenticate(ctx context.Context, token string) (*domain.Identity, error)

	// IssueSession returns a signed session token for the identity.
	IssueSession(identity domain.Identity, ttl time.Duration) (string, time.Time, error)

	// Enabled reports whether any verifier is configured.
	Enabled() bool
}
