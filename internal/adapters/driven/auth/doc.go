// Package auth provides the credential adapters: the service-account token
// provider used for Sheets calls, and the bearer-token verifiers used to
// identify callers of write operations.
package auth
