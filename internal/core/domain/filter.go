package domain

import (
	"fmt"
	"strings"
)

// Category selects which classification bucket of records to show.
type Category int

// Available categories.
const (
	// CategoryAll keeps every record.
	CategoryAll Category = iota

	// CategorySchool keeps records classified as educational institutions.
	CategorySchool

	// CategoryNonSchool keeps records not classified as educational institutions.
	CategoryNonSchool
)

// String returns the string representation.
func (c Category) String() string {
	switch c {
	case CategoryAll:
		return "all"
	case CategorySchool:
		return "school"
	case CategoryNonSchool:
		return "non-school"
	default:
		return "unknown"
	}
}

// IsValid returns true if the category is recognised.
func (c Category) IsValid() bool {
	return c == CategoryAll || c == CategorySchool || c == CategoryNonSchool
}

// Next cycles all -> school -> non-school -> all.
func (c Category) Next() Category {
	switch c {
	case CategoryAll:
		return CategorySchool
	case CategorySchool:
		return CategoryNonSchool
	default:
		return CategoryAll
	}
}

// ParseCategory parses a category name. The empty string means all.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all", "semua":
		return CategoryAll, nil
	case "school", "sekolah":
		return CategorySchool, nil
	case "non-school", "nonschool", "non_school", "non-sekolah":
		return CategoryNonSchool, nil
	default:
		return CategoryAll, fmt.Errorf("unknown category %q: %w", s, ErrInvalidInput)
	}
}

// DefaultPageSize is the number of records per page when none is configured.
const DefaultPageSize = 10

// FilterState is the caller-owned view state applied to a record set.
// It is a value: every With* method returns a modified copy.
type FilterState struct {
	SearchTerm string
	Category   Category
	Page       int
	PageSize   int
}

// NewFilterState returns the session-start state: no search, all
// categories, first page.
func NewFilterState(pageSize int) FilterState {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return FilterState{
		Category: CategoryAll,
		Page:     1,
		PageSize: pageSize,
	}
}

// WithSearch sets the search term. A changed term resets the page to 1.
func (s FilterState) WithSearch(term string) FilterState {
	if term != s.SearchTerm {
		s.SearchTerm = term
		s.Page = 1
	}
	return s
}

// WithCategory sets the category. A changed category resets the page to 1.
func (s FilterState) WithCategory(c Category) FilterState {
	if c != s.Category {
		s.Category = c
		s.Page = 1
	}
	return s
}

// WithPage moves to the given page. Values below 1 become 1; the upper
// bound is enforced when filters are applied.
func (s FilterState) WithPage(page int) FilterState {
	if page < 1 {
		page = 1
	}
	s.Page = page
	return s
}

// EffectivePageSize returns PageSize, or DefaultPageSize when unset.
func (s FilterState) EffectivePageSize() int {
	if s.PageSize < 1 {
		return DefaultPageSize
	}
	return s.PageSize
}

// Page is one slice of a filtered record set.
type Page struct {
	// Records are the records on this page, in source order.
	Records []Record

	// Number is the 1-based page number after clamping.
	Number int

	// PageSize is the page size used to slice.
	PageSize int

	// TotalPages is max(1, ceil(TotalCount / PageSize)).
	TotalPages int

	// TotalCount is the number of records that passed the filters.
	TotalCount int
}

// HasNext returns true if a later page exists.
func (p Page) HasNext() bool {
	return p.Number < p.TotalPages
}

// HasPrev returns true if an earlier page exists.
func (p Page) HasPrev() bool {
	return p.Number > 1
}
