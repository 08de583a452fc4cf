package driven

import "context"

// TokenProvider provides access tokens for authenticated Google API calls.
// Implementations handle token refresh transparently.
type TokenProvider interface {
	// GetToken returns a valid access token.
	// If the current token is expired, it will be refreshed automatically.
	GetToken(ctx context.Context) (string, error)

	// Principal returns the account the tokens are issued for
	// (a service-account email, or empty for application default credentials).
	Principal() string

	// IsAuthenticated returns true if credentials were loaded successfully.
	IsAuthenticated() bool
}
