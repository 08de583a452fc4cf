package domain

import (
	"strconv"
	"strings"
)

// Record is one spreadsheet row.
//
// Name holds the value of the sheet's display-name column; every cell,
// including the name, is kept in Fields keyed by header for pass-through
// rendering. Row is the 1-based spreadsheet row number used for write-back.
type Record struct {
	Row    int
	Name   string
	Fields map[string]string
}

// Field returns the value of the named column, or an empty string if absent.
func (r Record) Field(name string) string {
	if r.Fields == nil {
		return ""
	}
	return r.Fields[name]
}

// Values returns the record's cells in header order.
func (r Record) Values(headers []string) []string {
	out := make([]string, len(headers))
	for i, h := range headers {
		out[i] = r.Field(h)
	}
	return out
}

// Table is the decoded content of a sheet range: the header row and the
// data rows beneath it.
type Table struct {
	// Headers are the column names in sheet order.
	Headers []string

	// Records are the non-empty data rows in sheet order.
	Records []Record

	// HeaderRow is the spreadsheet row number of the header row.
	HeaderRow int
}

// ColumnIndex returns the zero-based index of the named column, or -1.
// Matching ignores case and surrounding whitespace.
func (t Table) ColumnIndex(name string) int {
	want := strings.ToLower(strings.TrimSpace(name))
	for i, h := range t.Headers {
		if strings.ToLower(h) == want {
			return i
		}
	}
	return -1
}

// FindRow returns the record at the given spreadsheet row number.
func (t Table) FindRow(row int) (Record, bool) {
	for _, r := range t.Records {
		if r.Row == row {
			return r, true
		}
	}
	return Record{}, false
}

// NewTable builds a Table from raw cell values. The first row of values is
// the header row and sits at spreadsheet row headerRow (1-based).
//
// Blank headers are named after their column letter and repeated headers get
// a numeric suffix so no cell is lost. Missing trailing cells become empty
// strings, cells beyond the header are dropped and rows with no content are
// skipped without disturbing the row numbering of the rest.
func NewTable(values [][]string, headerRow int, nameField string) Table {
	if len(values) == 0 {
		return Table{}
	}
	if headerRow < 1 {
		headerRow = 1
	}

	headers := normaliseHeaders(values[0])
	nameIdx := -1
	want := strings.ToLower(strings.TrimSpace(nameField))
	for i, h := range headers {
		if want != "" && strings.ToLower(h) == want {
			nameIdx = i
			break
		}
	}

	records := make([]Record, 0, len(values)-1)
	for i, row := range values[1:] {
		if isBlankRow(row) {
			continue
		}
		fields := make(map[string]string, len(headers))
		for c, h := range headers {
			if c < len(row) {
				fields[h] = strings.TrimSpace(row[c])
			} else {
				fields[h] = ""
			}
		}
		rec := Record{
			Row:    headerRow + 1 + i,
			Fields: fields,
		}
		if nameIdx >= 0 {
			rec.Name = fields[headers[nameIdx]]
		}
		records = append(records, rec)
	}

	return Table{Headers: headers, Records: records, HeaderRow: headerRow}
}

func normaliseHeaders(raw []string) []string {
	headers := make([]string, len(raw))
	seen := make(map[string]int, len(raw))
	for i, h := range raw {
		h = strings.TrimSpace(h)
		if h == "" {
			h = ColumnLetter(i)
		}
		key := strings.ToLower(h)
		seen[key]++
		if n := seen[key]; n > 1 {
			h = h + " (" + strconv.Itoa(n) + ")"
		}
		headers[i] = h
	}
	return headers
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
