package auth

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	googleconn "github.com/custodia-labs/leadsheet/internal/connectors/google"
	"github.com/custodia-labs/leadsheet/internal/core/domain"
	"github.com/custodia-labs/leadsheet/internal/core/ports/driven"
)

// Ensure ServiceAccountProvider implements the TokenProvider interface.
var _ driven.TokenProvider = (*ServiceAccountProvider)(nil)

// ServiceAccountProvider issues Sheets access tokens for a service account,
// or for application default credentials when no key file is configured.
// Tokens are cached and refreshed shortly before they expire.
type ServiceAccountProvider struct {
	ts        oauth2.TokenSource
	principal string
}

// NewServiceAccountProvider loads credentials from a service-account JSON key
// file. An empty path falls back to application default credentials.
func NewServiceAccountProvider(ctx context.Context, credentialsFile string) (*ServiceAccountProvider, error) {
	if credentialsFile == "" {
		creds, err := google.FindDefaultCredentials(ctx, googleconn.SheetsScope)
		if err != nil {
			return nil, fmt.Errorf("default credentials: %w: %w", domain.ErrSourceUnavailable, err)
		}
		return &ServiceAccountProvider{ts: oauth2.ReuseTokenSource(nil, creds.TokenSource)}, nil
	}

	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read credentials file: %w: %w", domain.ErrSourceUnavailable, err)
	}
	return NewServiceAccountProviderFromJSON(ctx, data)
}

// NewServiceAccountProviderFromJSON builds a provider from the contents of a
// service-account key file.
func NewServiceAccountProviderFromJSON(ctx context.Context, data []byte) (*ServiceAccountProvider, error) {
	conf, err := google.JWTConfigFromJSON(data, googleconn.SheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse service account key: %w: %w", domain.ErrSourceUnavailable, err)
	}
	return &ServiceAccountProvider{
		ts:        oauth2.ReuseTokenSource(nil, conf.TokenSource(ctx)),
		principal: conf.Email,
	}, nil
}

// GetToken returns a valid access token, refreshing it if needed.
func (p *ServiceAccountProvider) GetToken(_ context.Context) (string, error) {
	tok, err := p.ts.Token()
	if err != nil {
		return "", fmt.Errorf("fetch access token: %w: %w", domain.ErrSourceUnavailable, err)
	}
	return tok.AccessToken, nil
}

// Principal returns the service-account email, or empty for default credentials.
func (p *ServiceAccountProvider) Principal() string {
	return p.principal
}

// IsAuthenticated reports whether credentials were loaded.
func (p *ServiceAccountProvider) IsAuthenticated() bool {
	return p.ts != nil
}
