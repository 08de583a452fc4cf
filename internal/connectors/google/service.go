package google

import (
	"context"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsScope is the OAuth2 scope needed to read and edit spreadsheets.
const SheetsScope = sheets.SpreadsheetsScope

// NewSheetsService creates a Sheets API service using the provided TokenSource.
// Extra options (endpoint, HTTP client) are appended, mainly for tests.
func NewSheetsService(ctx context.Context, ts oauth2.TokenSource, opts ...option.ClientOption) (*sheets.Service, error) {
	all := append([]option.ClientOption{option.WithTokenSource(ts)}, opts...)
	return sheets.NewService(ctx, all...)
}
