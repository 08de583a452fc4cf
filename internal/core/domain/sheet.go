package domain

import (
	"strings"
	"time"
)

// SheetKind identifies what a configured sheet holds.
type SheetKind string

// Available sheet kinds.
const (
	// SheetKindLeads holds prospective customer leads.
	SheetKindLeads SheetKind = "leads"

	// SheetKindInstitutions holds government-institution leads.
	SheetKindInstitutions SheetKind = "institutions"

	// SheetKindCustomers holds existing customers.
	SheetKindCustomers SheetKind = "customers"

	// SheetKindBilling holds a salesperson's billing/monitoring sheet.
	SheetKindBilling SheetKind = "billing"

	// SheetKindActivity holds the activity log.
	SheetKindActivity SheetKind = "activity"
)

// IsValid returns true if the kind is recognised.
func (k SheetKind) IsValid() bool {
	switch k {
	case SheetKindLeads, SheetKindInstitutions, SheetKindCustomers, SheetKindBilling, SheetKindActivity:
		return true
	default:
		return false
	}
}

// DefaultNameField returns the header of the display-name column for the kind.
func (k SheetKind) DefaultNameField() string {
	switch k {
	case SheetKindLeads:
		return "Nama Calon Pelanggan"
	case SheetKindInstitutions:
		return "Nama Instansi"
	case SheetKindCustomers, SheetKindBilling:
		return "Nama Pelanggan"
	case SheetKindActivity:
		return "Actor"
	default:
		return ""
	}
}

// SheetRef is a configured sheet.
type SheetRef struct {
	// Key is the short name used on the command line and in URLs.
	Key string

	// Kind determines the default name field and which features apply.
	Kind SheetKind

	// Range is an A1 range ("Leads!A1:Z"), a sheet title or a named range.
	// The first row of the range is the header row.
	Range string

	// NameField overrides the kind's display-name column.
	NameField string

	// Title is a human-readable label. Defaults to Key.
	Title string
}

// EffectiveNameField returns NameField or the kind's default.
func (r SheetRef) EffectiveNameField() string {
	if strings.TrimSpace(r.NameField) != "" {
		return r.NameField
	}
	return r.Kind.DefaultNameField()
}

// DisplayTitle returns Title or Key.
func (r SheetRef) DisplayTitle() string {
	if r.Title != "" {
		return r.Title
	}
	return r.Key
}

// Snapshot is a fetched copy of a sheet.
type Snapshot struct {
	SheetKey  string
	Table     Table
	FetchedAt time.Time
}

// IsFresh returns true if the snapshot is younger than ttl at now.
// A non-positive ttl disables caching, so nothing is ever fresh.
func (s Snapshot) IsFresh(now time.Time, ttl time.Duration) bool {
	if s.FetchedAt.IsZero() || ttl <= 0 {
		return false
	}
	return now.Sub(s.FetchedAt) < ttl
}
