package cli

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/leadsheet/internal/core/domain"
)

func TestRootCmd_Commands(t *testing.T) {
	want := []string{"activity", "billing", "classify", "mcp", "records", "serve", "sheets", "token", "tui", "version"}
	got := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		got[c.Name()] = true
	}
	for _, name := range want {
		assert.True(t, got[name], "%s should be registered", name)
	}
}

func TestRoot_Bootstrap(t *testing.T) {
	SetServices(nil)
	t.Cleanup(func() { SetServices(nil) })

	var gotDir string
	closed := false
	SetBootstrap(func(_ context.Context, dir string) (*Services, error) {
		gotDir = dir
		return &Services{
			Records: newMockRecords(),
			Close:   func() error { closed = true; return nil },
		}, nil
	})
	defer SetBootstrap(nil)

	out, err := execute(t, "", "--config-dir", "/tmp/ls-config", "classify", "SMK Negeri 4")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/ls-config", gotDir)
	assert.Contains(t, out, "school")

	Shutdown()
	assert.True(t, closed)
}

func TestRoot_BootstrapError(t *testing.T) {
	SetServices(nil)
	boom := errors.New("config unreadable")
	SetBootstrap(func(_ context.Context, _ string) (*Services, error) { return nil, boom })
	defer SetBootstrap(nil)

	_, err := execute(t, "", "sheets")

	assert.ErrorIs(t, err, boom)
}

func TestOperator(t *testing.T) {
	t.Setenv("USER", "")
	t.Setenv("USERNAME", "")
	assert.Equal(t, &domain.Identity{Subject: "operator", Name: "operator", Provider: "cli"}, operator())

	t.Setenv("USERNAME", "sari")
	assert.Equal(t, "sari", operator().Actor())
}

func TestClassifyCmd(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "", "classify", "SMA Negeri 1 Bandung", "Toko Sinar Jaya")

	require.NoError(t, err)
	assert.Contains(t, out, "SMA Negeri 1 Bandung  school")
	assert.Contains(t, out, "Toko Sinar Jaya       non-school")
}

func TestClassifyCmd_JSON(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "", "classify", "--json", "Universitas Padjadjaran", "Apotek Sehat")
	require.NoError(t, err)

	var got []classifyResultJSON
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	want := []classifyResultJSON{
		{Name: "Universitas Padjadjaran", School: true},
		{Name: "Apotek Sehat", School: false},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("classify mismatch (-want +got):\n%s", diff)
	}
}

func TestClassifyCmd_RequiresName(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "", "classify")

	assert.ErrorContains(t, err, "requires at least 1 arg(s)")
}

func TestSheetsCmd(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "", "sheets")

	require.NoError(t, err)
	assert.Contains(t, out, "customers")
	assert.Contains(t, out, "Calon Pelanggan (leads)")
	assert.Contains(t, out, "name column: Nama Pelanggan")
	assert.Contains(t, out, "range: Leads!A1:D")
}

func TestSheetsCmd_JSON(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "", "sheets", "--json")
	require.NoError(t, err)

	var got []sheetJSON
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	want := []sheetJSON{
		{Key: "customers", Kind: "customers", Title: "customers", Range: "Pelanggan", NameField: "Nama Pelanggan"},
		{Key: "leads", Kind: "leads", Title: "Calon Pelanggan", Range: "Leads!A1:D", NameField: "Nama Calon Pelanggan"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("sheets mismatch (-want +got):\n%s", diff)
	}
}

func TestSheetsCmd_Empty(t *testing.T) {
	ts := setupTestServices(t)
	ts.settings.settings.Sheets = nil

	out, err := execute(t, "", "sheets")

	require.NoError(t, err)
	assert.Contains(t, out, "No sheets configured.")
}

func TestSheetsConnectCmd(t *testing.T) {
	ts := setupTestServices(t)

	out, err := execute(t, "", "sheets", "connect", "1AbC", "--credentials", "/etc/leadsheet/sa.json")

	require.NoError(t, err)
	assert.Contains(t, out, "Spreadsheet set to 1AbC")
	assert.NotContains(t, out, "application default credentials")
	assert.Equal(t, "1AbC", ts.settings.setID)
	assert.Equal(t, "/etc/leadsheet/sa.json", ts.settings.setCreds)
}

func TestSheetsConnectCmd_DefaultCredentials(t *testing.T) {
	ts := setupTestServices(t)

	out, err := execute(t, "", "sheets", "connect", "1AbC")

	require.NoError(t, err)
	assert.Contains(t, out, "Using application default credentials.")
	assert.Empty(t, ts.settings.setCreds)
}

func sampleBilling() []domain.BillingStatus {
	return []domain.BillingStatus{
		{Column: domain.BillingColumn{Header: "Januari 2024", Index: 3, Period: domain.BillingPeriod{Year: 2024, Month: time.January}}, Paid: 8, Unpaid: 2},
		{Column: domain.BillingColumn{Header: "Feb 2024", Index: 4, Period: domain.BillingPeriod{Year: 2024, Month: time.February}}, Paid: 5, Unpaid: 5},
	}
}

func TestBillingCmd(t *testing.T) {
	ts := setupTestServices(t)
	ts.billing.summary = sampleBilling()

	out, err := execute(t, "", "billing", "customers")

	require.NoError(t, err)
	assert.Contains(t, out, "PERIOD")
	assert.Contains(t, out, "2024-01   Januari 2024           8       2")
	assert.Contains(t, out, "2024-02   Feb 2024               5       5")
}

func TestBillingCmd_JSON(t *testing.T) {
	ts := setupTestServices(t)
	ts.billing.summary = sampleBilling()

	out, err := execute(t, "", "billing", "customers", "--json")
	require.NoError(t, err)

	var got []billingJSONRow
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 2)
	assert.Equal(t, billingJSONRow{Header: "Januari 2024", Period: "2024-01", Paid: 8, Unpaid: 2}, got[0])
}

func TestBillingCmd_Empty(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "", "billing", "customers")

	require.NoError(t, err)
	assert.Contains(t, out, "No billing columns found.")
}

func TestActivityCmd(t *testing.T) {
	ts := setupTestServices(t)
	ts.activity.entries = []domain.ActivityEntry{
		{ID: "2", Timestamp: time.Now().Add(-3 * time.Minute), Actor: "budi@example.com", Action: domain.ActivityUpdate, SheetKey: "leads", Row: 4, Detail: "Kota"},
		{ID: "1", Timestamp: time.Now().Add(-2 * time.Hour), Actor: "sari", Action: domain.ActivityCreate, SheetKey: "customers"},
	}

	out, err := execute(t, "", "activity", "-n", "5")

	require.NoError(t, err)
	assert.Equal(t, 5, ts.activity.gotLimit)
	assert.Contains(t, out, "3 minutes ago")
	assert.Contains(t, out, "leads#4")
	assert.Contains(t, out, "budi@example.com  Kota")
	assert.Contains(t, out, "2 hours ago")
}

func TestActivityCmd_JSON(t *testing.T) {
	ts := setupTestServices(t)
	ts.activity.entries = []domain.ActivityEntry{
		{ID: "1", Timestamp: fetchedAt, Actor: "sari", Action: domain.ActivityDelete, SheetKey: "leads", Row: 9},
	}

	out, err := execute(t, "", "activity", "--json")
	require.NoError(t, err)

	var got []activityJSONEntry
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "delete", got[0].Action)
	assert.True(t, fetchedAt.Equal(got[0].Timestamp))
	assert.Equal(t, 20, ts.activity.gotLimit)
}

func TestActivityCmd_Empty(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "", "activity")

	require.NoError(t, err)
	assert.Contains(t, out, "No activity recorded.")
}

func TestTokenIssueCmd(t *testing.T) {
	ts := setupTestServices(t)

	out, err := execute(t, "", "token", "issue", "--subject", "budi", "--email", "budi@example.com", "--ttl", "24h")

	require.NoError(t, err)
	assert.Contains(t, out, "signed.token.value")
	assert.Contains(t, out, "expires")
	assert.Equal(t, domain.Identity{Subject: "budi", Email: "budi@example.com"}, ts.auth.identity)
	assert.Equal(t, 24*time.Hour, ts.auth.ttl)
}

func TestTokenIssueCmd_RequiresSubject(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "", "token", "issue")

	assert.ErrorContains(t, err, `required flag(s) "subject" not set`)
}

func TestTUICmd_HelpOutput(t *testing.T) {
	out, err := execute(t, "", "tui", "--help")

	require.NoError(t, err)
	assert.Contains(t, out, "interactive terminal user interface")
	assert.Contains(t, out, "Cycle category")
}

func TestMCPServeCmd_HasPortFlag(t *testing.T) {
	flag := mcpServeCmd.Flags().Lookup("port")

	require.NotNil(t, flag)
	assert.Equal(t, "p", flag.Shorthand)
	assert.Equal(t, "0", flag.DefValue)
}

func TestMCPPorts(t *testing.T) {
	ts := setupTestServices(t)

	ports := mcpPorts()

	require.NoError(t, ports.Validate())
	assert.Equal(t, ts.records, ports.Records)
	assert.Equal(t, ts.billing, ports.Billing)
}
