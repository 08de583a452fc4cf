// Package mcp provides an MCP (Model Context Protocol) server adapter for leadsheet.
// It lets AI assistants browse configured sheets, page through records and
// classify lead names.
package mcp

import "errors"

var (
	// ErrMissingRecordService is returned when the record service is not provided.
	ErrMissingRecordService = errors.New("mcp: record service is required")

	// ErrMissingSettingsService is returned when the settings service is not provided.
	ErrMissingSettingsService = errors.New("mcp: settings service is required")
)
