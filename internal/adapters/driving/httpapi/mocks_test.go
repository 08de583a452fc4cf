package httpapi

import (
	"context"
	"time"

	"github.com/custodia-labs/leadsheet/internal/core/domain"
	"github.com/custodia-labs/leadsheet/internal/core/ports/driving"
)

// mockRecordService records the last call's arguments.
type mockRecordService struct {
	result   *driving.ListResult
	snapshot *domain.Snapshot
	row      int
	err      error

	gotKey    string
	gotState  domain.FilterState
	gotWho    *domain.Identity
	gotRow    int
	gotColumn string
	gotValue  string
	gotValues map[string]string
}

func (m *mockRecordService) List(_ context.Context, key string, state domain.FilterState) (*driving.ListResult, error) {
	m.gotKey, m.gotState = key, state
	return m.result, m.err
}

func (m *mockRecordService) Snapshot(_ context.Context, key string) (*domain.Snapshot, error) {
	m.gotKey = key
	return m.snapshot, m.err
}

func (m *mockRecordService) Refresh(_ context.Context, key string) (*domain.Snapshot, error) {
	m.gotKey = key
	return m.snapshot, m.err
}

func (m *mockRecordService) RefreshAll(_ context.Context) (int, error) {
	return 0, m.err
}

func (m *mockRecordService) UpdateCell(_ context.Context, who *domain.Identity, key string, row int, column, value string) error {
	m.gotWho, m.gotKey, m.gotRow, m.gotColumn, m.gotValue = who, key, row, column, value
	return m.err
}

func (m *mockRecordService) AppendRow(_ context.Context, who *domain.Identity, key string, values map[string]string) (int, error) {
	m.gotWho, m.gotKey, m.gotValues = who, key, values
	return m.row, m.err
}

func (m *mockRecordService) DeleteRow(_ context.Context, who *domain.Identity, key string, row int) error {
	m.gotWho, m.gotKey, m.gotRow = who, key, row
	return m.err
}

func (m *mockRecordService) Classify(name string) bool {
	return name == "SMA Negeri 1"
}

type mockSettingsService struct {
	settings domain.Settings
	sheets   []domain.SheetRef
	err      error
}

func (m *mockSettingsService) Get() (domain.Settings, error)      { return m.settings, m.err }
func (m *mockSettingsService) Reload() (domain.Settings, error)   { return m.settings, m.err }
func (m *mockSettingsService) Sheets() ([]domain.SheetRef, error) { return m.sheets, m.err }
func (m *mockSettingsService) SetSpreadsheet(_, _ string) error   { return m.err }
func (m *mockSettingsService) GetDefaults() domain.Settings       { return domain.DefaultSettings() }

type mockBillingService struct {
	summary []domain.BillingStatus
	err     error
}

func (m *mockBillingService) Columns(_ context.Context, _ string) ([]domain.BillingColumn, error) {
	cols := make([]domain.BillingColumn, 0, len(m.summary))
	for _, s := range m.summary {
		cols = append(cols, s.Column)
	}
	return cols, m.err
}

func (m *mockBillingService) Summary(_ context.Context, _ string) ([]domain.BillingStatus, error) {
	return m.summary, m.err
}

type mockActivityService struct {
	entries  []domain.ActivityEntry
	err      error
	gotLimit int
}

func (m *mockActivityService) Record(_ context.Context, _ domain.ActivityEntry) error {
	return m.err
}

func (m *mockActivityService) Recent(_ context.Context, limit int) ([]domain.ActivityEntry, error) {
	m.gotLimit = limit
	return m.entries, m.err
}

// mockAuthService accepts tokens listed in identities and fails others with err.
type mockAuthService struct {
	identities map[string]domain.Identity
	err        error
}

func (m *mockAuthService) Authenticate(_ context.Context, token string) (*domain.Identity, error) {
	if id, ok := m.identities[token]; ok {
		return &id, nil
	}
	if m.err != nil {
		return nil, m.err
	}
	return nil, domain.ErrAuthInvalid
}

func (m *mockAuthService) IssueSession(_ domain.Identity, ttl time.Duration) (string, time.Time, error) {
	return "session", time.Now().Add(ttl), nil
}

func (m *mockAuthService) Enabled() bool { return true }
