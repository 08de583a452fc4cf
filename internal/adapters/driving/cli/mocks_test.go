package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/leadsheet/internal/core/domain"
	"github.com/custodia-labs/leadsheet/internal/core/ports/driving"
	"github.com/custodia-labs/leadsheet/internal/core/services"
)

var fetchedAt = time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC)

var testSheets = []domain.SheetRef{
	{Key: "customers", Kind: domain.SheetKindCustomers, Range: "Pelanggan"},
	{Key: "leads", Kind: domain.SheetKindLeads, Range: "Leads!A1:D", Title: "Calon Pelanggan"},
}

var testLeads = []domain.Record{
	{Row: 2, Name: "SMA Negeri 1 Bandung", Fields: map[string]string{"Nama Calon Pelanggan": "SMA Negeri 1 Bandung", "Kota": "Bandung"}},
	{Row: 3, Name: "Toko Sinar Jaya", Fields: map[string]string{"Nama Calon Pelanggan": "Toko Sinar Jaya", "Kota": "Garut"}},
	{Row: 4, Name: "SD Harapan Bangsa", Fields: map[string]string{"Nama Calon Pelanggan": "SD Harapan Bangsa", "Kota": "Cimahi"}},
}

type updateCall struct {
	who    *domain.Identity
	sheet  string
	row    int
	column string
	value  string
}

// mockRecords filters testLeads with the real pipeline.
type mockRecords struct {
	classifier *services.Classifier
	err        error

	lastState domain.FilterState
	appended  map[string]string
	updated   *updateCall
	deleted   int
	refreshed []string
	deleteWho *domain.Identity
}

func newMockRecords() *mockRecords {
	return &mockRecords{classifier: services.NewClassifier(services.DefaultKeywords, domain.MatchWord)}
}

func (m *mockRecords) List(_ context.Context, key string, state domain.FilterState) (*driving.ListResult, error) {
	m.lastState = state
	if m.err != nil {
		return nil, m.err
	}
	if key != "leads" {
		return nil, domain.ErrSheetNotConfigured
	}
	if state.PageSize < 1 {
		state.PageSize = domain.DefaultPageSize
	}
	page := services.ApplyFilters(testLeads, state, m.classifier)
	return &driving.ListResult{
		Sheet:     testSheets[1],
		Headers:   []string{"Nama Calon Pelanggan", "Kota"},
		Page:      page,
		State:     state.WithPage(page.Number),
		FetchedAt: fetchedAt,
	}, nil
}

func (m *mockRecords) Snapshot(_ context.Context, key string) (*domain.Snapshot, error) {
	return &domain.Snapshot{SheetKey: key, Table: domain.Table{Records: testLeads}, FetchedAt: fetchedAt}, nil
}

func (m *mockRecords) Refresh(ctx context.Context, key string) (*domain.Snapshot, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.refreshed = append(m.refreshed, key)
	return m.Snapshot(ctx, key)
}

func (m *mockRecords) RefreshAll(_ context.Context) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.refreshed = append(m.refreshed, "*")
	return len(testSheets), nil
}

func (m *mockRecords) UpdateCell(_ context.Context, who *domain.Identity, key string, row int, column, value string) error {
	if m.err != nil {
		return m.err
	}
	m.updated = &updateCall{who: who, sheet: key, row: row, column: column, value: value}
	return nil
}

func (m *mockRecords) AppendRow(_ context.Context, _ *domain.Identity, _ string, values map[string]string) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.appended = values
	return 5, nil
}

func (m *mockRecords) DeleteRow(_ context.Context, who *domain.Identity, _ string, row int) error {
	if m.err != nil {
		return m.err
	}
	m.deleted = row
	m.deleteWho = who
	return nil
}

func (m *mockRecords) Classify(name string) bool {
	return m.classifier.IsSchool(name)
}

type mockSettings struct {
	settings  domain.Settings
	setID     string
	setCreds  string
	setCalled bool
}

func newMockSettings() *mockSettings {
	s := domain.DefaultSettings()
	s.Sheets = testSheets
	s.Scheduler.Enabled = false
	return &mockSettings{settings: s}
}

func (m *mockSettings) Get() (domain.Settings, error)      { return m.settings, nil }
func (m *mockSettings) Reload() (domain.Settings, error)   { return m.settings, nil }
func (m *mockSettings) Sheets() ([]domain.SheetRef, error) { return m.settings.Sheets, nil }
func (m *mockSettings) GetDefaults() domain.Settings       { return domain.DefaultSettings() }

func (m *mockSettings) SetSpreadsheet(id, creds string) error {
	m.setCalled = true
	m.setID = id
	m.setCreds = creds
	return nil
}

type mockActivity struct {
	entries  []domain.ActivityEntry
	gotLimit int
}

func (m *mockActivity) Record(_ context.Context, _ domain.ActivityEntry) error { return nil }

func (m *mockActivity) Recent(_ context.Context, limit int) ([]domain.ActivityEntry, error) {
	m.gotLimit = limit
	return m.entries, nil
}

type mockBilling struct {
	summary []domain.BillingStatus
}

func (m *mockBilling) Columns(_ context.Context, _ string) ([]domain.BillingColumn, error) {
	cols := make([]domain.BillingColumn, 0, len(m.summary))
	for _, s := range m.summary {
		cols = append(cols, s.Column)
	}
	return cols, nil
}

func (m *mockBilling) Summary(_ context.Context, _ string) ([]domain.BillingStatus, error) {
	return m.summary, nil
}

type mockAuth struct {
	identity domain.Identity
	ttl      time.Duration
}

func (m *mockAuth) Authenticate(_ context.Context, _ string) (*domain.Identity, error) {
	return nil, domain.ErrAuthInvalid
}

func (m *mockAuth) IssueSession(identity domain.Identity, ttl time.Duration) (string, time.Time, error) {
	if identity.Subject == "" {
		return "", time.Time{}, domain.ErrInvalidInput
	}
	m.identity = identity
	m.ttl = ttl
	return "signed.token.value", fetchedAt.Add(12 * time.Hour), nil
}

func (m *mockAuth) Enabled() bool { return true }

type testServices struct {
	records  *mockRecords
	settings *mockSettings
	activity *mockActivity
	billing  *mockBilling
	auth     *mockAuth
}

// setupTestServices injects mocks and returns them; the previous services
// are restored when the test ends.
func setupTestServices(t *testing.T) *testServices {
	t.Helper()
	ts := &testServices{
		records:  newMockRecords(),
		settings: newMockSettings(),
		activity: &mockActivity{},
		billing:  &mockBilling{},
		auth:     &mockAuth{},
	}
	SetServices(&Services{
		Records:  ts.records,
		Settings: ts.settings,
		Activity: ts.activity,
		Billing:  ts.billing,
		Auth:     ts.auth,
	})
	t.Cleanup(func() { SetServices(nil) })
	return ts
}

// resetFlags restores every flag in the tree to its default so package-level
// flag variables do not leak between tests.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// execute runs the root command with args and returns its combined output.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	err := rootCmd.Execute()
	return buf.String(), err
}
