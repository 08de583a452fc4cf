// Package menu provides the sheet selection menu for the TUI.
package menu

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/leadsheet/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/leadsheet/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/leadsheet/internal/core/domain"
	"github.com/custodia-labs/leadsheet/internal/core/ports/driving"
)

// Item represents a single menu option. Exactly one of Sheet, View or
// Quit is meaningful.
type Item struct {
	Label string
	Sheet *domain.SheetRef
	View  messages.ViewType
	Quit  bool
}

// View lists the configured sheets followed by the fixed entries.
type View struct {
	styles      *styles.Styles
	settings    driving.SettingsService
	hasActivity bool
	items       []Item
	selected    int
	err         error
	width       int
	height      int
	ready       bool
}

// NewView creates a new menu view. Activity is offered only when
// hasActivity is set.
func NewView(s *styles.Styles, settings driving.SettingsService, hasActivity bool) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	v := &View{
		styles:      s,
		settings:    settings,
		hasActivity: hasActivity,
		width:       80,
		height:      24,
	}
	v.setSheets(nil)
	return v
}

// Init loads the configured sheets.
func (v *View) Init() tea.Cmd {
	return func() tea.Msg {
		if v.settings == nil {
			return messages.SheetsLoaded{}
		}
		sheets, err := v.settings.Sheets()
		return messages.SheetsLoaded{Sheets: sheets, Err: err}
	}
}

func (v *View) setSheets(sheets []domain.SheetRef) {
	items := make([]Item, 0, len(sheets)+3)
	for i := range sheets {
		ref := sheets[i]
		if ref.Kind == domain.SheetKindActivity {
			continue
		}
		items = append(items, Item{Label: ref.DisplayTitle(), Sheet: &ref})
	}
	if v.hasActivity {
		items = append(items, Item{Label: "Activity", View: messages.ViewActivity})
	}
	items = append(items,
		Item{Label: "Help", View: messages.ViewHelp},
		Item{Label: "Quit", Quit: true},
	)
	v.items = items
	if v.selected >= len(items) {
		v.selected = 0
	}
}

// Update handles messages for the menu view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.SheetsLoaded:
		v.err = msg.Err
		v.setSheets(msg.Sheets)
		return v, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if v.selected > 0 {
				v.selected--
			}
			return v, nil

		case "down", "j":
			if v.selected < len(v.items)-1 {
				v.selected++
			}
			return v, nil

		case "enter":
			item := v.items[v.selected]
			switch {
			case item.Quit:
				return v, tea.Quit
			case item.Sheet != nil:
				ref := *item.Sheet
				return v, func() tea.Msg { return messages.SheetSelected{Sheet: ref} }
			default:
				return v, func() tea.Msg { return messages.ViewChanged{View: item.View} }
			}

		case "q":
			return v, tea.Quit
		}
	}

	return v, nil
}

// View renders the menu.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder

	b.WriteString(v.styles.Title.Render("leadsheet"))
	b.WriteString("\n\n")
	b.WriteString(v.styles.Muted.Render("Leads, customers and billing from Google Sheets"))
	b.WriteString("\n\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Could not load sheets: %v", v.err)))
		b.WriteString("\n\n")
	} else if v.SheetCount() == 0 {
		b.WriteString(v.styles.Warning.Render("No sheets configured. Add [sheets.<key>] entries to config.toml."))
		b.WriteString("\n\n")
	}

	for i, item := range v.items {
		cursor := "  "
		style := v.styles.Normal
		if i == v.selected {
			cursor = "> "
			style = lipgloss.NewStyle().Foreground(v.styles.Theme().Primary).Bold(true)
		}

		line := cursor + style.Render(item.Label)
		if item.Sheet != nil {
			line += v.styles.Muted.Render("  (" + string(item.Sheet.Kind) + ")")
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[j/k] Navigate  [Enter] Select  [q] Quit"))

	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Selected returns the currently selected index.
func (v *View) Selected() int {
	return v.selected
}

// Items returns the current menu items.
func (v *View) Items() []Item {
	return v.items
}

// SheetCount returns how many sheet entries the menu shows.
func (v *View) SheetCount() int {
	n := 0
	for _, it := range v.items {
		if it.Sheet != nil {
			n++
		}
	}
	return n
}
