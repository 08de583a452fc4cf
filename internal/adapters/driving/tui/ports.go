// Package tui provides an interactive terminal user interface for leadsheet.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/leadsheet/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Records lists, filters and refreshes sheet records.
	Records driving.RecordService

	// Settings resolves the configured sheets and page size.
	Settings driving.SettingsService

	// Activity reads the activity log. Optional; the menu hides the
	// activity view when nil.
	Activity driving.ActivityService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(
	records driving.RecordService,
	settings driving.SettingsService,
	activity driving.ActivityService,
) *Ports {
	return &Ports{
		Records:  records,
		Settings: settings,
		Activity: activity,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Records == nil {
		return ErrMissingRecordService
	}
	if p.Settings == nil {
		return ErrMissingSettingsService
	}
	return nil
}
