package domain

import (
	"fmt"
	"time"
)

// MatchMode selects how classifier keywords are matched against names.
type MatchMode string

// Available match modes.
const (
	// MatchWord matches keywords as whole words (\bkeyword\b).
	MatchWord MatchMode = "word"

	// MatchSubstring matches keywords anywhere in the text.
	MatchSubstring MatchMode = "substring"
)

// IsValid returns true if the match mode is recognised.
func (m MatchMode) IsValid() bool {
	return m == MatchWord || m == MatchSubstring
}

// String returns the string representation.
func (m MatchMode) String() string {
	return string(m)
}

// ClassifierSettings configures the school classifier.
type ClassifierSettings struct {
	// Match is the keyword matching mode.
	Match MatchMode

	// KeywordsFile optionally replaces the built-in keyword dictionary.
	KeywordsFile string
}

// ServerSettings configures the HTTP API.
type ServerSettings struct {
	// Addr is the listen address.
	Addr string

	// SessionSecret signs session tokens. Writes over HTTP are disabled without it
	// unless GoogleClientID is set.
	SessionSecret string

	// SessionTTL is the lifetime of issued session tokens.
	SessionTTL time.Duration

	// GoogleClientID is the expected audience of Google ID tokens.
	GoogleClientID string
}

// Settings is the resolved application configuration.
type Settings struct {
	// SpreadsheetID is the Google Sheets document holding all sheets.
	SpreadsheetID string

	// CredentialsFile is a service-account JSON key. Empty means application
	// default credentials.
	CredentialsFile string

	// Sheets are the configured sheets, sorted by key.
	Sheets []SheetRef

	// ActivitySheet is the key of the sheet that receives activity entries.
	ActivitySheet string

	// CacheTTL is how long a fetched snapshot is served before re-fetching.
	CacheTTL time.Duration

	// PageSize is the default page size.
	PageSize int

	// Classifier configures school classification.
	Classifier ClassifierSettings

	// Server configures the HTTP API.
	Server ServerSettings

	// Scheduler configures background refresh.
	Scheduler SchedulerConfig
}

// Default settings values.
const (
	DefaultCacheTTL   = 5 * time.Minute
	DefaultSessionTTL = 12 * time.Hour
	DefaultServerAddr = ":8080"
)

// DefaultSettings returns settings with every optional value filled in.
func DefaultSettings() Settings {
	return Settings{
		CacheTTL: DefaultCacheTTL,
		PageSize: DefaultPageSize,
		Classifier: ClassifierSettings{
			Match: MatchWord,
		},
		Server: ServerSettings{
			Addr:       DefaultServerAddr,
			SessionTTL: DefaultSessionTTL,
		},
		Scheduler: DefaultSchedulerConfig(),
	}
}

// Sheet returns the configured sheet with the given key.
func (s Settings) Sheet(key string) (SheetRef, bool) {
	for _, ref := range s.Sheets {
		if ref.Key == key {
			return ref, true
		}
	}
	return SheetRef{}, false
}

// Validate checks the settings for consistency.
func (s Settings) Validate() error {
	if !s.Classifier.Match.IsValid() {
		return fmt.Errorf("classifier.match %q: %w", s.Classifier.Match, ErrInvalidInput)
	}
	if s.PageSize < 1 {
		return fmt.Errorf("page_size %d: %w", s.PageSize, ErrInvalidInput)
	}
	seen := make(map[string]bool, len(s.Sheets))
	for _, ref := range s.Sheets {
		if ref.Key == "" {
			return fmt.Errorf("sheet with empty key: %w", ErrInvalidInput)
		}
		if seen[ref.Key] {
			return fmt.Errorf("duplicate sheet %q: %w", ref.Key, ErrInvalidInput)
		}
		seen[ref.Key] = true
		if !ref.Kind.IsValid() {
			return fmt.Errorf("sheet %q kind %q: %w", ref.Key, ref.Kind, ErrInvalidInput)
		}
		if ref.Range == "" {
			return fmt.Errorf("sheet %q has no range: %w", ref.Key, ErrInvalidInput)
		}
	}
	if s.ActivitySheet != "" && !seen[s.ActivitySheet] {
		return fmt.Errorf("activity sheet %q: %w", s.ActivitySheet, ErrSheetNotConfigured)
	}
	return nil
}
