package mcp

import (
	"github.com/custodia-labs/leadsheet/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Records lists and classifies sheet records.
	Records driving.RecordService

	// Settings lists the configured sheets.
	Settings driving.SettingsService

	// Billing summarises billing sheets. Optional.
	Billing driving.BillingService

	// Activity lists recent writes. Optional.
	Activity driving.ActivityService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Records == nil {
		return ErrMissingRecordService
	}
	if p.Settings == nil {
		return ErrMissingSettingsService
	}
	return nil
}
