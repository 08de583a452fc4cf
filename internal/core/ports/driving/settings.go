package driving

import "github.com/custodia-labs/leadsheet/internal/core/domain"

// SettingsService resolves application settings from the config store.
type SettingsService interface {
	// Get returns the current settings with defaults applied.
	Get() (domain.Settings, error)

	// Reload re-reads the config store and returns the new settings.
	Reload() (domain.Settings, error)

	// Sheets returns the configured sheets ordered by key.
	Sheets() ([]domain.SheetRef, error)

	// SetSpreadsheet stores the spreadsheet ID and credentials file.
	SetSpreadsheet(id, credentialsFile string) error

	// GetDefaults returns default settings.
	GetDefaults() domain.Settings
}
