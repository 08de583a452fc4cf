// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/custodia-labs/leadsheet/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/leadsheet/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/leadsheet/internal/core/domain"
)

// State represents the current application state for display.
type State string

const (
	StateReady      State = "ready"
	StateLoading    State = "loading"
	StateRefreshing State = "refreshing"
	StateError      State = "error"
	StateRecords    State = "records"
)

// Bar displays record counts, page position, snapshot age and keybinding hints.
type Bar struct {
	styles     *styles.Styles
	keymap     *keymap.KeyMap
	state      State
	message    string
	count      int
	page       int
	totalPages int
	category   domain.Category
	fetchedAt  time.Time
	now        func() time.Time
	width      int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		state:  StateReady,
		now:    time.Now,
		width:  80,
	}
}

// Init initialises the status bar.
func (s *Bar) Init() tea.Cmd {
	return nil
}

// Update handles status bar messages.
func (s *Bar) Update(msg tea.Msg) (*Bar, tea.Cmd) {
	// Bar is passive, updated via Set methods
	return s, nil
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	padding := s.width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

func (s *Bar) renderLeft() string {
	switch s.state {
	case StateLoading:
		return s.styles.Muted.Render("Loading...")
	case StateRefreshing:
		return s.styles.Muted.Render("Refreshing from spreadsheet...")
	case StateError:
		if s.message != "" {
			return s.styles.Error.Render(fmt.Sprintf("Error: %s", s.message))
		}
		return s.styles.Error.Render("Error")
	case StateRecords:
		return s.styles.Normal.Render(s.Summary())
	case StateReady:
	}
	if s.message != "" {
		return s.styles.Muted.Render(s.message)
	}
	return s.styles.Muted.Render("Ready")
}

// Summary is the plain-text records line, e.g.
// "12 records · page 1/2 · school · fetched 3 minutes ago".
func (s *Bar) Summary() string {
	parts := []string{
		fmt.Sprintf("%s %s", humanize.Comma(int64(s.count)), plural(s.count, "record", "records")),
	}
	if s.totalPages > 0 {
		parts = append(parts, fmt.Sprintf("page %d/%d", s.page, s.totalPages))
	}
	parts = append(parts, s.category.String())
	if !s.fetchedAt.IsZero() {
		parts = append(parts, "fetched "+humanize.RelTime(s.fetchedAt, s.now(), "ago", "from now"))
	}
	if s.message != "" {
		parts = append(parts, s.message)
	}
	return strings.Join(parts, " · ")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func (s *Bar) renderRight() string {
	var bindings []key.Binding
	if s.state == StateRecords {
		bindings = s.keymap.RecordsHelp()
	} else {
		bindings = s.keymap.ShortHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetPage records the displayed page of records.
func (s *Bar) SetPage(page domain.Page, category domain.Category, fetchedAt time.Time) {
	s.state = StateRecords
	s.count = page.TotalCount
	s.page = page.Number
	s.totalPages = page.TotalPages
	s.category = category
	s.fetchedAt = fetchedAt
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetMessage sets a custom message.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// Count returns the total number of matching records.
func (s *Bar) Count() int {
	return s.count
}

// SetClock replaces the clock used for the snapshot age.
func (s *Bar) SetClock(now func() time.Time) {
	s.now = now
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}

// Clear resets the status bar to default state.
func (s *Bar) Clear() {
	s.state = StateReady
	s.message = ""
	s.count = 0
	s.page = 0
	s.totalPages = 0
	s.category = domain.CategoryAll
	s.fetchedAt = time.Time{}
}
