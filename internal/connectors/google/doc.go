// Package google provides shared infrastructure for Google API access.
//
// It contains:
//   - TokenSource adapter to bridge the TokenProvider port to oauth2.TokenSource
//   - Service factory for creating Sheets API clients
//   - Error mapping for common Google API errors (400, 401, 403, 404, 429)
//   - Rate limiting to respect Google API quotas
//
// # Usage
//
//	ts := google.NewTokenSource(ctx, tokenProvider)
//	svc, err := google.NewSheetsService(ctx, ts)
//
// # OAuth2 Scopes
//
// The Sheets adapter requests https://www.googleapis.com/auth/spreadsheets.
// The service account must be shared on the spreadsheet as an editor.
package google
