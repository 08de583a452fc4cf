package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/leadsheet/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/leadsheet/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/leadsheet/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/leadsheet/internal/adapters/driving/tui/views/activity"
	"github.com/custodia-labs/leadsheet/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/leadsheet/internal/adapters/driving/tui/views/records"
	"github.com/custodia-labs/leadsheet/internal/core/domain"
	"github.com/custodia-labs/leadsheet/internal/logger"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap
	help   help.Model

	menuView     *menu.View
	recordsView  *records.View
	activityView *activity.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that reached the app.
	err error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	pageSize := domain.DefaultPageSize
	if settings, err := ports.Settings.Get(); err != nil {
		logger.Warn("tui: reading settings, using default page size: %v", err)
	} else if settings.PageSize > 0 {
		pageSize = settings.PageSize
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:        ports,
		ctx:          context.Background(),
		styles:       s,
		keymap:       km,
		help:         help.New(),
		menuView:     menu.NewView(s, ports.Settings, ports.Activity != nil),
		recordsView:  records.NewView(s, km, ports.Records, pageSize),
		activityView: activity.NewView(s, ports.Activity),
		currentView:  messages.ViewMenu,
	}, nil
}

// WithContext sets the context for the app and its views.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.recordsView.WithContext(ctx)
	a.activityView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("leadsheet"),
		a.menuView.Init(),
		a.recordsView.Init(),
	)
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message handler
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		return a, a.forward(msg)

	case messages.SheetSelected:
		a.currentView = messages.ViewRecords
		logger.Debug("tui: opening sheet %s", msg.Sheet.Key)
		return a, a.recordsView.SetSheet(msg.Sheet)

	case messages.ViewChanged:
		a.currentView = msg.View
		switch msg.View {
		case messages.ViewActivity:
			return a, a.activityView.Init()
		case messages.ViewMenu:
			return a, a.menuView.Init()
		case messages.ViewRecords, messages.ViewHelp:
		}
		return a, nil

	case messages.SheetsLoaded:
		if msg.Err != nil {
			a.err = msg.Err
		}
		a.menuView, cmd = a.menuView.Update(msg)
		return a, cmd

	case messages.RecordsLoaded:
		if msg.Err != nil {
			a.err = msg.Err
		}
		a.recordsView, cmd = a.recordsView.Update(msg)
		return a, cmd

	case messages.ActivityLoaded:
		if msg.Err != nil {
			a.err = msg.Err
		}
		a.activityView, cmd = a.activityView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		if a.currentView == messages.ViewRecords {
			a.recordsView, cmd = a.recordsView.Update(msg)
		}
		return a, cmd

	case messages.Quit:
		return a, tea.Quit
	}

	return a, a.forward(msg)
}

// forward sends msg to the active view.
func (a *App) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewRecords:
		a.recordsView, cmd = a.recordsView.Update(msg)
	case messages.ViewActivity:
		a.activityView, cmd = a.activityView.Update(msg)
	case messages.ViewHelp:
		if k, ok := msg.(tea.KeyMsg); ok && k.Type == tea.KeyEsc {
			a.currentView = messages.ViewMenu
		}
	}
	return cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewRecords:
		return a.recordsView.View()
	case messages.ViewActivity:
		return a.activityView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.menuView.View()
	}
}

// viewHelp renders the key bindings grouped by concern.
func (a *App) viewHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n\n")
	b.WriteString(a.styles.Normal.Render("Categories cycle all → school → non-school."))
	b.WriteString("\n")
	b.WriteString(a.styles.Normal.Render("Search matches the name and every field, case-insensitive."))
	b.WriteString("\n\n")
	b.WriteString(a.help.FullHelpView(a.keymap.FullHelp()))
	b.WriteString("\n\n")
	b.WriteString(a.styles.Help.Render("[esc] back to menu"))
	return b.String()
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// Records exposes the records view.
func (a *App) Records() *records.View {
	return a.recordsView
}

// SetDimensions sets the terminal dimensions on the app and every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.help.Width = width
	a.menuView.SetDimensions(width, height)
	a.recordsView.SetDimensions(width, height)
	a.activityView.SetDimensions(width, height)
}
