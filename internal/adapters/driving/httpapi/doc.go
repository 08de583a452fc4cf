// Package httpapi exposes the record, billing and activity services as a
// JSON API over chi.
//
// Reads are public. Writes sit behind RequireAuth: the caller must present
// a bearer token accepted by the AuthService (a session token minted with
// "leadsheet token issue" or a Google ID token).
package httpapi
