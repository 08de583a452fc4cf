// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - SheetSource: Reads and writes spreadsheet ranges (Google Sheets)
//   - SnapshotStore: Caches fetched tables between requests
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - TokenVerifier: Verifies bearer tokens. Without it, HTTP writes are rejected.
//   - TokenIssuer: Mints session tokens. Without it, `token issue` is disabled.
//   - KeywordSource: Replaces the built-in classifier dictionary.
//   - Sanitizer: Strips markup from written values. Without it, values are only trimmed.
//   - SchedulerStore: Persists scheduler state. Without it, state is kept in memory.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
