package mcp

import (
	"context"
	"strings"

	"github.com/custodia-labs/leadsheet/internal/core/domain"
	"github.com/custodia-labs/leadsheet/internal/core/ports/driving"
)

// mockRecordService is a mock implementation of driving.RecordService.
type mockRecordService struct {
	result   *driving.ListResult
	err      error
	gotKey   string
	gotState domain.FilterState
}

func (m *mockRecordService) List(_ context.Context, key string, state domain.FilterState) (*driving.ListResult, error) {
	m.gotKey, m.gotState = key, state
	return m.result, m.err
}

func (m *mockRecordService) Snapshot(_ context.Context, _ string) (*domain.Snapshot, error) {
	return nil, m.err
}

func (m *mockRecordService) Refresh(_ context.Context, _ string) (*domain.Snapshot, error) {
	return nil, m.err
}

func (m *mockRecordService) RefreshAll(_ context.Context) (int, error) {
	return 0, m.err
}

func (m *mockRecordService) UpdateCell(_ context.Context, _ *domain.Identity, _ string, _ int, _, _ string) error {
	return m.err
}

func (m *mockRecordService) AppendRow(_ context.Context, _ *domain.Identity, _ string, _ map[string]string) (int, error) {
	return 0, m.err
}

func (m *mockRecordService) DeleteRow(_ context.Context, _ *domain.Identity, _ string, _ int) error {
	return m.err
}

// Classify treats names starting with SD, SMP or SMA as schools.
func (m *mockRecordService) Classify(name string) bool {
	for _, p := range []string{"SD ", "SMP ", "SMA "} {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

// mockSettingsService is a mock implementation of driving.SettingsService.
type mockSettingsService struct {
	settings domain.Settings
	sheets   []domain.SheetRef
	err      error
}

func (m *mockSettingsService) Get() (domain.Settings, error) {
	return m.settings, m.err
}

func (m *mockSettingsService) Reload() (domain.Settings, error) {
	return m.settings, m.err
}

func (m *mockSettingsService) Sheets() ([]domain.SheetRef, error) {
	return m.sheets, m.err
}

func (m *mockSettingsService) SetSpreadsheet(_, _ string) error {
	return m.err
}

func (m *mockSettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}

// mockBillingService is a mock implementation of driving.BillingService.
type mockBillingService struct {
	summary []domain.BillingStatus
	err     error
	gotKey  string
}

func (m *mockBillingService) Columns(_ context.Context, _ string) ([]domain.BillingColumn, error) {
	return nil, m.err
}

func (m *mockBillingService) Summary(_ context.Context, key string) ([]domain.BillingStatus, error) {
	m.gotKey = key
	return m.summary, m.err
}

// mockActivityService is a mock implementation of driving.ActivityService.
type mockActivityService struct {
	entries []domain.ActivityEntry
	err     error
}

func (m *mockActivityService) Record(_ context.Context, _ domain.ActivityEntry) error {
	return m.err
}

func (m *mockActivityService) Recent(_ context.Context, _ int) ([]domain.ActivityEntry, error) {
	return m.entries, m.err
}

func newPorts() *Ports {
	return &Ports{Records: &mockRecordService{}, Settings: &mockSettingsService{}}
}
