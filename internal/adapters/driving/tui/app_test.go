package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/leadsheet/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/leadsheet/internal/core/domain"
	"github.com/custodia-labs/leadsheet/internal/core/ports/driving"
)

func newTestPorts() *Ports {
	return &Ports{
		Records: &MockRecordService{},
		Settings: &MockSettingsService{Refs: []domain.SheetRef{
			{Key: "leads", Kind: domain.SheetKindLeads, Title: "Calon Pelanggan"},
			{Key: "customers", Kind: domain.SheetKindCustomers},
		}},
		Activity: &MockActivityService{},
	}
}

func newTestApp(t *testing.T, ports *Ports) *App {
	t.Helper()
	app, err := NewApp(ports)
	require.NoError(t, err)
	app.SetDimensions(140, 40)
	return app
}

func TestNewApp_Success(t *testing.T) {
	app, err := NewApp(newTestPorts())

	require.NoError(t, err)
	require.NotNil(t, app)
	assert.Equal(t, messages.ViewMenu, app.CurrentView())
	assert.False(t, app.Ready())
	assert.Equal(t, "Initialising...", app.View())
}

func TestNewApp_InvalidPorts(t *testing.T) {
	app, err := NewApp(&Ports{Settings: &MockSettingsService{}})

	assert.ErrorIs(t, err, ErrMissingRecordService)
	assert.Nil(t, app)
}

func TestNewApp_PageSizeFromSettings(t *testing.T) {
	settings := domain.DefaultSettings()
	settings.PageSize = 25
	var got domain.FilterState
	ports := newTestPorts()
	ports.Settings = &MockSettingsService{Settings: settings}
	ports.Records = &MockRecordService{
		ListFunc: func(_ context.Context, key string, state domain.FilterState) (*driving.ListResult, error) {
			got = state
			return &driving.ListResult{Sheet: domain.SheetRef{Key: key}, State: state}, nil
		},
	}

	app := newTestApp(t, ports)
	_, cmd := app.Update(messages.SheetSelected{Sheet: domain.SheetRef{Key: "leads"}})
	require.NotNil(t, cmd)
	cmd()

	assert.Equal(t, 25, got.PageSize)
}

func TestNewApp_SettingsErrorFallsBack(t *testing.T) {
	ports := newTestPorts()
	ports.Settings = &MockSettingsService{GetErr: errors.New("bad config")}

	app, err := NewApp(ports)

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultPageSize, app.Records().State().PageSize)
}

func TestApp_WithContext(t *testing.T) {
	app, _ := NewApp(newTestPorts())

	type contextKey string
	ctx := context.WithValue(context.Background(), contextKey("key"), "value")

	assert.Equal(t, app, app.WithContext(ctx))
}

func TestApp_Init(t *testing.T) {
	app, _ := NewApp(newTestPorts())

	assert.NotNil(t, app.Init())
}

func TestApp_WindowSize(t *testing.T) {
	app, _ := NewApp(newTestPorts())

	model, cmd := app.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	assert.Nil(t, cmd)
	assert.True(t, model.(*App).Ready())
}

func TestApp_CtrlCQuits(t *testing.T) {
	app := newTestApp(t, newTestPorts())

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestApp_QuitMessage(t *testing.T) {
	app := newTestApp(t, newTestPorts())

	_, cmd := app.Update(messages.Quit{})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestApp_SheetsLoadedRendersMenu(t *testing.T) {
	ports := newTestPorts()
	app := newTestApp(t, ports)

	refs, _ := ports.Settings.Sheets()
	app.Update(messages.SheetsLoaded{Sheets: refs})

	out := app.View()
	assert.Contains(t, out, "Calon Pelanggan")
	assert.Contains(t, out, "customers")
}

func TestApp_SheetSelectedOpensRecords(t *testing.T) {
	app := newTestApp(t, newTestPorts())

	_, cmd := app.Update(messages.SheetSelected{Sheet: domain.SheetRef{Key: "leads", Kind: domain.SheetKindLeads}})
	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewRecords, app.CurrentView())

	msg := cmd()
	loaded, ok := msg.(messages.RecordsLoaded)
	require.True(t, ok)
	assert.Equal(t, "leads", loaded.SheetKey)

	app.Update(msg)
	require.NotNil(t, app.Records().Result())
	assert.False(t, app.Records().Loading())
}

func TestApp_RecordsErrorRecorded(t *testing.T) {
	ports := newTestPorts()
	ports.Records = &MockRecordService{
		ListFunc: func(_ context.Context, _ string, _ domain.FilterState) (*driving.ListResult, error) {
			return nil, domain.ErrSourceUnavailable
		},
	}
	app := newTestApp(t, ports)

	_, cmd := app.Update(messages.SheetSelected{Sheet: domain.SheetRef{Key: "leads"}})
	app.Update(cmd())

	assert.ErrorIs(t, app.Err(), domain.ErrSourceUnavailable)
	assert.ErrorIs(t, app.Records().Err(), domain.ErrSourceUnavailable)
}

func TestApp_EscFromRecordsReturnsToMenu(t *testing.T) {
	app := newTestApp(t, newTestPorts())
	_, cmd := app.Update(messages.SheetSelected{Sheet: domain.SheetRef{Key: "leads"}})
	app.Update(cmd())

	_, cmd = app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	app.Update(cmd())

	assert.Equal(t, messages.ViewMenu, app.CurrentView())
}

func TestApp_ActivityView(t *testing.T) {
	ports := newTestPorts()
	ports.Activity = &MockActivityService{Entries: []domain.ActivityEntry{
		{ID: "1", Actor: "budi", Action: domain.ActivityCreate, SheetKey: "leads", Row: 7},
	}}
	app := newTestApp(t, ports)

	_, cmd := app.Update(messages.ViewChanged{View: messages.ViewActivity})
	require.NotNil(t, cmd)
	app.Update(cmd())

	assert.Equal(t, messages.ViewActivity, app.CurrentView())
	assert.Contains(t, app.View(), "leads#7")
}

func TestApp_HelpView(t *testing.T) {
	app := newTestApp(t, newTestPorts())

	app.Update(messages.ViewChanged{View: messages.ViewHelp})
	out := app.View()
	assert.Contains(t, out, "Help")
	assert.Contains(t, out, "non-school")

	app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, messages.ViewMenu, app.CurrentView())
}

func TestApp_ErrorOccurred(t *testing.T) {
	app := newTestApp(t, newTestPorts())
	boom := errors.New("boom")

	app.Update(messages.ErrorOccurred{Err: boom})

	assert.Equal(t, boom, app.Err())
}
