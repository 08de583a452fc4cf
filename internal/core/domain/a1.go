package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// A1Range is a parsed A1-notation range such as "Leads!A1:Z".
// Zero StartRow/EndRow or empty columns mean the bound is open.
type A1Range struct {
	Sheet    string
	StartCol string
	StartRow int
	EndCol   string
	EndRow   int
}

var cellRefPattern = regexp.MustCompile(`^([A-Za-z]*)(\d*)$`)

// ParseA1Range parses "Sheet!A1:B2", "'My Sheet'!A:C", "A1:B2" or a bare
// sheet title. A bare title yields a range covering the whole sheet.
func ParseA1Range(s string) (A1Range, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return A1Range{}, fmt.Errorf("empty range: %w", ErrInvalidInput)
	}

	var r A1Range
	cells := s
	if i := strings.LastIndex(s, "!"); i >= 0 {
		r.Sheet = unquoteSheet(s[:i])
		cells = s[i+1:]
	} else if !looksLikeCells(s) {
		r.Sheet = unquoteSheet(s)
		return r, nil
	}

	start, end, hasEnd := strings.Cut(cells, ":")
	m := cellRefPattern.FindStringSubmatch(start)
	if m == nil || start == "" {
		return A1Range{}, fmt.Errorf("range %q: %w", s, ErrInvalidInput)
	}
	r.StartCol = strings.ToUpper(m[1])
	r.StartRow, _ = strconv.Atoi(m[2])

	if hasEnd {
		m = cellRefPattern.FindStringSubmatch(end)
		if m == nil || end == "" {
			return A1Range{}, fmt.Errorf("range %q: %w", s, ErrInvalidInput)
		}
		r.EndCol = strings.ToUpper(m[1])
		r.EndRow, _ = strconv.Atoi(m[2])
	}
	return r, nil
}

// FirstRow returns the first spreadsheet row covered by the range (1 when open).
func (r A1Range) FirstRow() int {
	if r.StartRow < 1 {
		return 1
	}
	return r.StartRow
}

// String renders the range back into A1 notation.
func (r A1Range) String() string {
	var b strings.Builder
	if r.Sheet != "" {
		b.WriteString(QuoteSheet(r.Sheet))
		if r.StartCol == "" && r.StartRow == 0 {
			return b.String()
		}
		b.WriteString("!")
	}
	b.WriteString(r.StartCol)
	if r.StartRow > 0 {
		b.WriteString(strconv.Itoa(r.StartRow))
	}
	if r.EndCol != "" || r.EndRow > 0 {
		b.WriteString(":")
		b.WriteString(r.EndCol)
		if r.EndRow > 0 {
			b.WriteString(strconv.Itoa(r.EndRow))
		}
	}
	return b.String()
}

// CellRef returns the A1 reference of a single cell in the given sheet.
func CellRef(sheet string, colIndex, row int) string {
	return QuoteSheet(sheet) + "!" + ColumnLetter(colIndex) + strconv.Itoa(row)
}

// ColumnLetter converts a zero-based column index to its letter form (0 -> A, 26 -> AA).
func ColumnLetter(index int) string {
	if index < 0 {
		return ""
	}
	var out []byte
	for n := index + 1; n > 0; n = (n - 1) / 26 {
		out = append([]byte{byte('A' + (n-1)%26)}, out...)
	}
	return string(out)
}

// ColumnIndex converts a column letter to its zero-based index (A -> 0). Returns -1 if invalid.
func ColumnIndex(letters string) int {
	letters = strings.ToUpper(strings.TrimSpace(letters))
	if letters == "" {
		return -1
	}
	n := 0
	for _, c := range letters {
		if c < 'A' || c > 'Z' {
			return -1
		}
		n = n*26 + int(c-'A'+1)
	}
	return n - 1
}

// QuoteSheet quotes a sheet title for use in A1 notation when required.
func QuoteSheet(title string) string {
	for _, c := range title {
		if !(c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '_') {
			return "'" + strings.ReplaceAll(title, "'", "''") + "'"
		}
	}
	return title
}

func unquoteSheet(s string) string {
	if len(s) >= 2 && s[0] == '\'' && s[len(s)-1] == '\'' {
		return strings.ReplaceAll(s[1:len(s)-1], "''", "'")
	}
	return s
}

var cellsOnlyPattern = regexp.MustCompile(`^[A-Za-z]{1,3}\d*(:[A-Za-z]{1,3}\d*)?$|^\d+:\d+$`)

// looksLikeCells reports whether an unqualified range is a cell reference
// (A1:C9) rather than a sheet title or named range.
func looksLikeCells(s string) bool {
	return strings.Contains(s, ":") && cellsOnlyPattern.MatchString(s)
}
