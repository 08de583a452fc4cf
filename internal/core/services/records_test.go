package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/leadsheet/internal/core/domain"
)

var testUser = &domain.Identity{Subject: "u-1", Email: "sales@example.com", Provider: "session"}

func TestRecordService_List(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	result, err := env.records.List(ctx, "leads", domain.NewFilterState(2).WithCategory(domain.CategorySchool))
	require.NoError(t, err)

	assert.Equal(t, []string{"No", "Nama Calon Pelanggan", "Kota"}, result.Headers)
	assert.Equal(t, 2, result.Page.TotalCount)
	assert.Equal(t, "SDN 1 Cimahi", result.Page.Records[0].Name)
	assert.Equal(t, "Universitas Indonesia", result.Page.Records[1].Name)
	assert.Equal(t, env.clock.Now(), result.FetchedAt)
	assert.Equal(t, "leads", result.Sheet.Key)
}

func TestRecordService_List_ClampsStatePage(t *testing.T) {
	env := newTestEnv()

	result, err := env.records.List(context.Background(), "leads", domain.NewFilterState(3).WithPage(10))
	require.NoError(t, err)

	assert.Equal(t, 2, result.Page.Number)
	assert.Equal(t, 2, result.State.Page)
}

func TestRecordService_List_UsesConfiguredPageSize(t *testing.T) {
	env := newTestEnv()

	result, err := env.records.List(context.Background(), "leads", domain.FilterState{Page: 1})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultPageSize, result.Page.PageSize)
}

func TestRecordService_List_UnknownSheet(t *testing.T) {
	env := newTestEnv()

	_, err := env.records.List(context.Background(), "nope", domain.NewFilterState(10))
	assert.True(t, errors.Is(err, domain.ErrSheetNotConfigured))
}

func TestRecordService_CachesUntilTTL(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	state := domain.NewFilterState(10)

	_, err := env.records.List(ctx, "leads", state)
	require.NoError(t, err)
	_, err = env.records.List(ctx, "leads", state)
	require.NoError(t, err)
	assert.Equal(t, 1, env.source.readCount("leads"), "second list is served from cache")

	env.clock.Advance(domain.DefaultCacheTTL + time.Second)

	_, err = env.records.List(ctx, "leads", state)
	require.NoError(t, err)
	assert.Equal(t, 2, env.source.readCount("leads"), "expired snapshot is re-fetched")
}

func TestRecordService_Refresh(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.records.Snapshot(ctx, "leads")
	require.NoError(t, err)

	snap, err := env.records.Refresh(ctx, "leads")
	require.NoError(t, err)
	assert.Len(t, snap.Table.Records, 4)
	assert.Equal(t, 2, env.source.readCount("leads"))
}

func TestRecordService_RefreshAll(t *testing.T) {
	env := newTestEnv()
	env.source.set("billing", [][]string{{"Nama Pelanggan", "Januari 2024"}})

	n, err := env.records.RefreshAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 1, env.source.readCount("leads"))
	assert.Equal(t, 1, env.source.readCount("billing"))
	assert.Equal(t, 1, env.source.readCount("activity"))
}

func TestRecordService_RefreshAll_PartialFailure(t *testing.T) {
	env := newTestEnv()
	env.source.readErr["billing"] = domain.ErrForbidden

	n, err := env.records.RefreshAll(context.Background())
	assert.True(t, errors.Is(err, domain.ErrForbidden))
	assert.Equal(t, 2, n)
}

func TestRecordService_SourceUnavailable(t *testing.T) {
	svc := NewRecordService(NewSettingsService(newTestConfig()), nil, nil, nil)

	_, err := svc.Snapshot(context.Background(), "leads")
	assert.True(t, errors.Is(err, domain.ErrSourceUnavailable))
}

func TestRecordService_WritesRequireIdentity(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	err := env.records.UpdateCell(ctx, nil, "leads", 2, "Kota", "Bogor")
	assert.True(t, errors.Is(err, domain.ErrAuthRequired))

	_, err = env.records.AppendRow(ctx, nil, "leads", map[string]string{"Kota": "Bogor"})
	assert.True(t, errors.Is(err, domain.ErrAuthRequired))

	err = env.records.DeleteRow(ctx, nil, "leads", 2)
	assert.True(t, errors.Is(err, domain.ErrAuthRequired))

	assert.Equal(t, 0, env.source.writes)
}

func TestRecordService_UpdateCell(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.records.List(ctx, "leads", domain.NewFilterState(10))
	require.NoError(t, err)

	err = env.records.UpdateCell(ctx, testUser, "leads", 3, "kota", "<b>Bogor</b>")
	require.NoError(t, err)

	assert.Equal(t, "Bogor", env.source.rows("leads")[2][2])

	// The cached snapshot was dropped, so the next list re-reads.
	result, err := env.records.List(ctx, "leads", domain.NewFilterState(10).WithSearch("bogor"))
	require.NoError(t, err)
	assert.Equal(t, 2, env.source.readCount("leads"))
	require.Equal(t, 1, result.Page.TotalCount)
	assert.Equal(t, "Warung Madura", result.Page.Records[0].Name)

	entries, err := env.activity.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "sales@example.com", entries[0].Actor)
	assert.Equal(t, domain.ActivityUpdate, entries[0].Action)
	assert.Equal(t, "leads", entries[0].SheetKey)
	assert.Equal(t, 3, entries[0].Row)
	assert.Equal(t, "Kota = Bogor", entries[0].Detail)
	assert.NotEmpty(t, entries[0].ID)
}

func TestRecordService_UpdateCell_Validation(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	err := env.records.UpdateCell(ctx, testUser, "leads", 1, "Kota", "x")
	assert.True(t, errors.Is(err, domain.ErrInvalidInput), "header row")

	err = env.records.UpdateCell(ctx, testUser, "leads", 2, "Telepon", "x")
	assert.True(t, errors.Is(err, domain.ErrInvalidInput), "unknown column")

	err = env.records.UpdateCell(ctx, testUser, "missing", 2, "Kota", "x")
	assert.True(t, errors.Is(err, domain.ErrSheetNotConfigured))

	assert.Equal(t, 0, env.source.writes)
}

func TestRecordService_AppendRow(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	row, err := env.records.AppendRow(ctx, testUser, "leads", map[string]string{
		"Nama Calon Pelanggan": "SMK Negeri 4 <script>x</script>",
		"kota":                 " Garut ",
	})
	require.NoError(t, err)
	assert.Equal(t, 6, row)

	assert.Equal(t, []string{"", "SMK Negeri 4 x", "Garut"}, env.source.rows("leads")[5])

	entries, err := env.activity.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.ActivityCreate, entries[0].Action)
	assert.Equal(t, "SMK Negeri 4 x", entries[0].Detail)
	assert.Equal(t, 6, entries[0].Row)
}

func TestRecordService_AppendRow_Validation(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.records.AppendRow(ctx, testUser, "leads", map[string]string{"Telepon": "0812"})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = env.records.AppendRow(ctx, testUser, "leads", map[string]string{"Kota": "  "})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = env.records.AppendRow(ctx, testUser, "leads", nil)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestRecordService_DeleteRow(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	err := env.records.DeleteRow(ctx, testUser, "leads", 3)
	require.NoError(t, err)

	snap, err := env.records.Snapshot(ctx, "leads")
	require.NoError(t, err)
	require.Len(t, snap.Table.Records, 3)
	assert.Equal(t, "Universitas Indonesia", snap.Table.Records[1].Name)

	entries, err := env.activity.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.ActivityDelete, entries[0].Action)
	assert.Equal(t, "Warung Madura", entries[0].Detail)
}

func TestRecordService_DeleteRow_RejectsHeader(t *testing.T) {
	env := newTestEnv()

	err := env.records.DeleteRow(context.Background(), testUser, "leads", 1)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	assert.Len(t, env.source.rows("leads"), 5)
}

func TestRecordService_WritesRejectRowsWithoutRecord(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.source.set("leads", append(leadsValues(), []string{}, []string{"", "", ""}, []string{" ", "", ""}))

	snap, err := env.records.Snapshot(ctx, "leads")
	require.NoError(t, err)
	require.Len(t, snap.Table.Records, 4)
	_, ok := snap.Table.FindRow(8)
	require.False(t, ok)

	err = env.records.UpdateCell(ctx, testUser, "leads", 8, "Kota", "Garut")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = env.records.DeleteRow(ctx, testUser, "leads", 7)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = env.records.UpdateCell(ctx, testUser, "leads", 40, "Kota", "Garut")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.Equal(t, 0, env.source.writes)
	assert.Len(t, env.source.rows("leads"), 8)

	entries, err := env.activity.Recent(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRecordService_Classify(t *testing.T) {
	env := newTestEnv()

	assert.True(t, env.records.Classify("SMA Negeri 1 Bandung"))
	assert.False(t, env.records.Classify("PT Telkom Indonesia"))

	svc := NewRecordService(env.settings, env.source, nil, nil)
	assert.False(t, svc.Classify("SMA Negeri 1 Bandung"))
}
