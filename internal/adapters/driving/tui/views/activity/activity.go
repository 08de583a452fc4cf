// Package activity provides the recent activity view for the TUI.
package activity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/custodia-labs/leadsheet/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/leadsheet/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/leadsheet/internal/core/domain"
	"github.com/custodia-labs/leadsheet/internal/core/ports/driving"
)

// DefaultLimit is how many entries the view requests.
const DefaultLimit = 50

// ErrNoActivityService indicates that no activity service was provided.
var ErrNoActivityService = errors.New("activity service is required")

// View lists the most recent write operations, newest first.
type View struct {
	styles   *styles.Styles
	activity driving.ActivityService
	ctx      context.Context
	limit    int
	now      func() time.Time

	entries  []domain.ActivityEntry
	selected int
	loading  bool
	err      error
	width    int
	height   int
	ready    bool
}

// NewView creates a new activity view.
func NewView(s *styles.Styles, activity driving.ActivityService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:   s,
		activity: activity,
		ctx:      context.Background(),
		limit:    DefaultLimit,
		now:      time.Now,
		width:    80,
		height:   24,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the entries.
func (v *View) Init() tea.Cmd {
	return v.load()
}

func (v *View) load() tea.Cmd {
	v.loading = true
	ctx, svc, limit := v.ctx, v.activity, v.limit
	return func() tea.Msg {
		if svc == nil {
			return messages.ActivityLoaded{Err: ErrNoActivityService}
		}
		entries, err := svc.Recent(ctx, limit)
		return messages.ActivityLoaded{Entries: entries, Err: err}
	}
}

// Update handles messages for the activity view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.ActivityLoaded:
		v.loading = false
		v.err = msg.Err
		if msg.Err == nil {
			v.entries = msg.Entries
			v.selected = 0
		}
		return v, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewMenu}
			}
		case "r":
			return v, v.load()
		case "up", "k":
			if v.selected > 0 {
				v.selected--
			}
		case "down", "j":
			if v.selected < len(v.entries)-1 {
				v.selected++
			}
		}
	}
	return v, nil
}

// View renders the activity list.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Activity"))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
	case len(v.entries) == 0:
		b.WriteString(v.styles.Muted.Render("No activity recorded yet"))
	default:
		b.WriteString(v.renderEntries())
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[j/k] Navigate  [r] Reload  [esc] Back"))
	return b.String()
}

func (v *View) renderEntries() string {
	visible := v.height - 6
	if visible < 1 {
		visible = 1
	}
	start := 0
	if v.selected >= visible {
		start = v.selected - visible + 1
	}
	end := start + visible
	if end > len(v.entries) {
		end = len(v.entries)
	}

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		lines = append(lines, v.renderEntry(i))
	}
	return strings.Join(lines, "\n")
}

func (v *View) renderEntry(i int) string {
	e := v.entries[i]

	when := "-"
	if !e.Timestamp.IsZero() {
		when = humanize.RelTime(e.Timestamp, v.now(), "ago", "from now")
	}
	target := e.SheetKey
	if e.Row > 0 {
		target = fmt.Sprintf("%s#%d", e.SheetKey, e.Row)
	}

	line := fmt.Sprintf("%-16s %-28s %-8s %-18s %s", when, e.Actor, e.Action, target, e.Detail)
	if w := v.width - 2; w > 10 && len([]rune(line)) > w {
		line = string([]rune(line)[:w-1]) + "…"
	}

	if i == v.selected {
		return v.styles.Selected.Render("> " + line)
	}
	return v.actionStyle(e.Action) + line
}

// actionStyle returns a coloured marker for the action.
func (v *View) actionStyle(a domain.ActivityAction) string {
	switch a {
	case domain.ActivityCreate:
		return v.styles.Success.Render("+ ")
	case domain.ActivityDelete:
		return v.styles.Error.Render("- ")
	case domain.ActivityUpdate:
		return v.styles.Warning.Render("~ ")
	default:
		return v.styles.Muted.Render("  ")
	}
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// SetClock replaces the clock used for relative timestamps.
func (v *View) SetClock(now func() time.Time) {
	v.now = now
}

// Entries returns the loaded entries.
func (v *View) Entries() []domain.ActivityEntry {
	return v.entries
}

// Err returns the last load error.
func (v *View) Err() error {
	return v.err
}
