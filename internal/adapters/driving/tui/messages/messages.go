// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/leadsheet/internal/core/domain"
	"github.com/custodia-labs/leadsheet/internal/core/ports/driving"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the sheet selection menu.
	ViewMenu ViewType = iota
	// ViewRecords is the filtered, paged record list of one sheet.
	ViewRecords
	// ViewActivity lists recent write operations.
	ViewActivity
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewRecords:
		return "records"
	case ViewActivity:
		return "activity"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// SheetsLoaded carries the configured sheets.
type SheetsLoaded struct {
	Sheets []domain.SheetRef
	Err    error
}

// SheetSelected is sent when a sheet is picked from the menu.
type SheetSelected struct {
	Sheet domain.SheetRef
}

// RecordsLoaded carries one filtered page of a sheet.
type RecordsLoaded struct {
	SheetKey string
	// Seq identifies the load that produced this page; only the latest
	// load is applied.
	Seq    uint64
	Result *driving.ListResult
	// Refreshed is true when the snapshot was re-fetched first.
	Refreshed bool
	Err       error
}

// ActivityLoaded carries the most recent activity entries.
type ActivityLoaded struct {
	Entries []domain.ActivityEntry
	Err     error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
