// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/leadsheet/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/leadsheet/internal/core/domain"
)

const (
	rowNumberWidth = 5
	minColumnWidth = 12
	maxNameWidth   = 40
)

// RecordList displays one page of sheet records as a navigable table.
// The first column is the record name; further columns are added while
// they fit the width.
type RecordList struct {
	records   []domain.Record
	headers   []string
	nameField string
	isSchool  func(name string) bool
	selected  int
	styles    *styles.Styles
	width     int
	height    int
}

// NewRecordList creates a new record list component. isSchool may be nil.
func NewRecordList(s *styles.Styles, isSchool func(string) bool) *RecordList {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if isSchool == nil {
		isSchool = func(string) bool { return false }
	}

	return &RecordList{
		styles:   s,
		isSchool: isSchool,
		width:    80,
		height:   10,
	}
}

// Init initialises the record list.
func (r *RecordList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (r *RecordList) Update(msg tea.Msg) (*RecordList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			r.MoveUp()
		case "down", "j":
			r.MoveDown()
		}
	}
	return r, nil
}

// View renders the record table.
func (r *RecordList) View() string {
	if len(r.records) == 0 {
		return r.styles.Muted.Render("No matching records")
	}

	columns := r.visibleColumns()
	nameWidth := r.nameWidth(len(columns))

	lines := make([]string, 0, len(r.records)+1)
	lines = append(lines, r.renderHeader(nameWidth, columns))

	visible := r.height - 2
	if visible < 1 {
		visible = 1
	}
	start := 0
	if r.selected >= visible {
		start = r.selected - visible + 1
	}
	end := start + visible
	if end > len(r.records) {
		end = len(r.records)
	}

	for i := start; i < end; i++ {
		lines = append(lines, r.renderRecord(i, nameWidth, columns))
	}
	return strings.Join(lines, "\n")
}

// visibleColumns returns the non-name headers that fit next to the name.
func (r *RecordList) visibleColumns() []string {
	budget := r.width - rowNumberWidth - 4 - minColumnWidth*2
	var cols []string
	for _, h := range r.headers {
		if h == "" || h == r.nameField {
			continue
		}
		if budget < minColumnWidth+1 {
			break
		}
		cols = append(cols, h)
		budget -= minColumnWidth + 1
	}
	return cols
}

func (r *RecordList) nameWidth(columns int) int {
	w := r.width - rowNumberWidth - 4 - columns*(minColumnWidth+1)
	if w > maxNameWidth {
		w = maxNameWidth
	}
	if w < minColumnWidth {
		w = minColumnWidth
	}
	return w
}

func (r *RecordList) renderHeader(nameWidth int, columns []string) string {
	name := r.nameField
	if name == "" {
		name = "Name"
	}
	cells := []string{
		fmt.Sprintf("%-*s", rowNumberWidth+4, "Row"),
		pad(name, nameWidth),
	}
	for _, c := range columns {
		cells = append(cells, pad(c, minColumnWidth))
	}
	return r.styles.ColumnHeader.Render(strings.Join(cells, " "))
}

func (r *RecordList) renderRecord(index, nameWidth int, columns []string) string {
	rec := r.records[index]

	cells := []string{
		fmt.Sprintf("%-*d", rowNumberWidth, rec.Row),
		pad(rec.Name, nameWidth),
	}
	for _, c := range columns {
		cells = append(cells, pad(rec.Field(c), minColumnWidth))
	}
	line := strings.Join(cells, " ")

	tag := r.styles.Tag(r.isSchool(rec.Name))
	if index == r.selected {
		return tag + " " + r.styles.Selected.Render(line)
	}
	return tag + " " + r.styles.Normal.Render(line)
}

// pad truncates or right-pads s to exactly width cells.
func pad(s string, width int) string {
	w := lipgloss.Width(s)
	if w > width {
		runes := []rune(s)
		for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
			runes = runes[:len(runes)-1]
		}
		return string(runes) + "…"
	}
	return s + strings.Repeat(" ", width-w)
}

// SetRecords replaces the displayed page and resets the selection.
func (r *RecordList) SetRecords(records []domain.Record, headers []string, nameField string) {
	r.records = records
	r.headers = headers
	r.nameField = nameField
	r.selected = 0
}

// Records returns the displayed records.
func (r *RecordList) Records() []domain.Record {
	return r.records
}

// Selected returns the index of the selected record.
func (r *RecordList) Selected() int {
	return r.selected
}

// SelectedRecord returns the currently selected record, or nil if none.
func (r *RecordList) SelectedRecord() *domain.Record {
	if r.selected < 0 || r.selected >= len(r.records) {
		return nil
	}
	return &r.records[r.selected]
}

// MoveUp moves selection up.
func (r *RecordList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves selection down.
func (r *RecordList) MoveDown() {
	if r.selected < len(r.records)-1 {
		r.selected++
	}
}

// SetDimensions sets the component dimensions.
func (r *RecordList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Count returns the number of displayed records.
func (r *RecordList) Count() int {
	return len(r.records)
}
