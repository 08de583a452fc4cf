// Package records provides the filtered, paged record view for the TUI.
package records

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/leadsheet/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/leadsheet/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/leadsheet/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/leadsheet/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/leadsheet/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/leadsheet/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/leadsheet/internal/core/domain"
	"github.com/custodia-labs/leadsheet/internal/core/ports/driving"
)

// View shows one sheet: search input, record table and status bar.
//
// In list mode tab cycles the category, ←/→ change page and r re-fetches
// the sheet. "/" switches to input mode where keys edit the search term;
// enter applies it and esc discards the edit.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.SearchInput
	list      *list.RecordList
	statusbar *status.Bar

	records  driving.RecordService
	ctx      context.Context
	pageSize int

	sheet   *domain.SheetRef
	state   domain.FilterState
	result  *driving.ListResult
	loading bool
	seq     uint64

	width      int
	height     int
	ready      bool
	err        error
	focusInput bool
}

// NewView creates a new records view. pageSize below 1 uses the default.
func NewView(s *styles.Styles, km *keymap.KeyMap, records driving.RecordService, pageSize int) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	var classify func(string) bool
	if records != nil {
		classify = records.Classify
	}

	return &View{
		styles:    s,
		keymap:    km,
		input:     input.NewSearchInput(s),
		list:      list.NewRecordList(s, classify),
		statusbar: status.NewBar(s, km),
		records:   records,
		ctx:       context.Background(),
		pageSize:  pageSize,
		state:     domain.NewFilterState(pageSize),
		width:     80,
		height:    24,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// SetSheet switches to a sheet with a fresh filter state and loads page 1.
func (v *View) SetSheet(ref domain.SheetRef) tea.Cmd {
	v.sheet = &ref
	v.state = domain.NewFilterState(v.pageSize)
	v.result = nil
	v.err = nil
	v.focusInput = false
	v.input.Reset()
	v.input.Blur()
	v.list.SetRecords(nil, nil, ref.EffectiveNameField())
	v.statusbar.Clear()
	return v.load(false)
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the records view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.RecordsLoaded:
		v.handleRecordsLoaded(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil
	}

	var cmd tea.Cmd
	if v.focusInput {
		v.input, cmd = v.input.Update(msg)
	}
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.focusInput {
		return v.handleInputKey(msg)
	}

	k := msg.String()
	switch {
	case keymap.Matches(k, v.keymap.Back):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}

	case keymap.Matches(k, v.keymap.Search):
		v.focusInput = true
		return v, v.input.Focus()

	case keymap.Matches(k, v.keymap.Category):
		v.state = v.state.WithCategory(v.state.Category.Next())
		return v, v.load(false)

	case keymap.Matches(k, v.keymap.NextPage):
		if v.result == nil || !v.result.Page.HasNext() {
			return v, nil
		}
		v.state = v.state.WithPage(v.state.Page + 1)
		return v, v.load(false)

	case keymap.Matches(k, v.keymap.PrevPage):
		if v.state.Page <= 1 {
			return v, nil
		}
		v.state = v.state.WithPage(v.state.Page - 1)
		return v, v.load(false)

	case keymap.Matches(k, v.keymap.Refresh):
		return v, v.load(true)

	case keymap.Matches(k, v.keymap.Up), keymap.Matches(k, v.keymap.Down):
		v.list, _ = v.list.Update(msg)
		return v, nil
	}

	return v, nil
}

func (v *View) handleInputKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	//nolint:exhaustive // handling only relevant key types
	switch msg.Type {
	case tea.KeyEnter:
		v.focusInput = false
		v.input.Blur()
		term := v.input.Commit()
		if term == v.state.SearchTerm {
			return v, nil
		}
		v.state = v.state.WithSearch(term)
		return v, v.load(false)

	case tea.KeyEsc:
		v.focusInput = false
		v.input.Revert()
		v.input.Blur()
		return v, nil

	case tea.KeyTab:
		// Category toggling works while typing too.
		v.state = v.state.WithCategory(v.state.Category.Next())
		return v, v.load(false)
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// load returns a command that lists the current page, re-fetching the
// sheet first when refresh is set.
func (v *View) load(refresh bool) tea.Cmd {
	if v.sheet == nil {
		return func() tea.Msg { return messages.ErrorOccurred{Err: ErrNoSheet} }
	}
	if v.records == nil {
		return func() tea.Msg { return messages.ErrorOccurred{Err: ErrNoRecordService} }
	}

	v.seq++
	v.loading = true
	if refresh {
		v.statusbar.SetState(status.StateRefreshing)
	} else {
		v.statusbar.SetState(status.StateLoading)
	}

	ctx, records, key, state, seq := v.ctx, v.records, v.sheet.Key, v.state, v.seq
	return func() tea.Msg {
		if refresh {
			if _, err := records.Refresh(ctx, key); err != nil {
				return messages.RecordsLoaded{SheetKey: key, Seq: seq, Refreshed: true, Err: err}
			}
		}
		res, err := records.List(ctx, key, state)
		return messages.RecordsLoaded{SheetKey: key, Seq: seq, Result: res, Refreshed: refresh, Err: err}
	}
}

func (v *View) handleRecordsLoaded(msg messages.RecordsLoaded) {
	if v.sheet == nil || msg.SheetKey != v.sheet.Key || msg.Seq != v.seq {
		// Stale response: another sheet, or superseded by a later load.
		return
	}
	v.loading = false

	if msg.Err != nil {
		v.setError(msg.Err)
		return
	}
	if msg.Result == nil {
		v.setError(fmt.Errorf("%s: empty result", msg.SheetKey))
		return
	}

	v.err = nil
	v.result = msg.Result
	v.state = msg.Result.State
	v.list.SetRecords(msg.Result.Page.Records, msg.Result.Headers, msg.Result.Sheet.EffectiveNameField())

	v.statusbar.SetMessage("")
	if msg.Refreshed {
		v.statusbar.SetMessage("refreshed")
	}
	v.statusbar.SetPage(msg.Result.Page, msg.Result.State.Category, msg.Result.FetchedAt)
}

func (v *View) setError(err error) {
	v.loading = false
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

// View renders the records view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 10)

	title := "Records"
	if v.sheet != nil {
		title = v.sheet.DisplayTitle()
	}
	sections = append(sections, v.styles.Title.Render(title), "")

	sections = append(sections, v.input.View(), "")

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}

	sections = append(sections, v.list.View())

	sections = append(sections, "", v.statusbar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.list.SetDimensions(width, height-9) // header, input, status
	v.statusbar.SetWidth(width)
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Sheet returns the selected sheet, or nil.
func (v *View) Sheet() *domain.SheetRef {
	return v.sheet
}

// State returns the current filter state.
func (v *View) State() domain.FilterState {
	return v.state
}

// Result returns the last loaded page, or nil.
func (v *View) Result() *driving.ListResult {
	return v.result
}

// Loading reports whether a load is in flight.
func (v *View) Loading() bool {
	return v.loading
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// InputFocused returns whether the search input has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}

// SearchValue returns the text currently in the search input.
func (v *View) SearchValue() string {
	return v.input.Value()
}
