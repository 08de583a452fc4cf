// Package sanitize strips markup from values written to the spreadsheet.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/custodia-labs/leadsheet/internal/core/ports/driven"
)

// Ensure Strict implements the interface.
var _ driven.Sanitizer = (*Strict)(nil)

// Strict removes every HTML element. bluemonday escapes the text it keeps,
// so entities are decoded again to store the value the user typed.
type Strict struct {
	policy *bluemonday.Policy
}

// NewStrict creates a sanitizer using bluemonday's strict policy.
func NewStrict() *Strict {
	return &Strict{policy: bluemonday.StrictPolicy()}
}

// Sanitize returns value without markup.
func (s *Strict) Sanitize(value string) string {
	if !strings.ContainsAny(value, "<>&") {
		return value
	}
	return html.UnescapeString(s.policy.Sanitize(value))
}
