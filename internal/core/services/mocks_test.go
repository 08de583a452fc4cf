package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/leadsheet/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/leadsheet/internal/core/domain"
	"github.com/custodia-labs/leadsheet/internal/core/ports/driven"
)

// fakeSource is an in-memory spreadsheet. Each sheet key maps to raw cell
// values with the header in row 1.
type fakeSource struct {
	mu      sync.Mutex
	sheets  map[string][][]string
	reads   map[string]int
	readErr map[string]error
	writes  int
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		sheets:  make(map[string][][]string),
		reads:   make(map[string]int),
		readErr: make(map[string]error),
	}
}

func (f *fakeSource) set(key string, values [][]string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sheets[key] = values
}

func (f *fakeSource) readCount(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reads[key]
}

func (f *fakeSource) rows(key string) [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([][]string, len(f.sheets[key]))
	copy(out, f.sheets[key])
	return out
}

func (f *fakeSource) Read(_ context.Context, ref domain.SheetRef) (domain.Table, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads[ref.Key]++
	if err := f.readErr[ref.Key]; err != nil {
		return domain.Table{}, err
	}
	return domain.NewTable(f.sheets[ref.Key], 1, ref.EffectiveNameField()), nil
}

func (f *fakeSource) UpdateCell(_ context.Context, ref domain.SheetRef, row, column int, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	values := f.sheets[ref.Key]
	if row < 1 || row > len(values) {
		return domain.ErrNotFound
	}
	for len(values[row-1]) <= column {
		values[row-1] = append(values[row-1], "")
	}
	values[row-1][column] = value
	f.writes++
	return nil
}

func (f *fakeSource) AppendRow(_ context.Context, ref domain.SheetRef, values []string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.sheets[ref.Key]; !ok {
		return 0, errors.New("no such sheet")
	}
	row := make([]string, len(values))
	copy(row, values)
	f.sheets[ref.Key] = append(f.sheets[ref.Key], row)
	f.writes++
	return len(f.sheets[ref.Key]), nil
}

func (f *fakeSource) DeleteRow(_ context.Context, ref domain.SheetRef, row int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	values := f.sheets[ref.Key]
	if row < 1 || row > len(values) {
		return domain.ErrNotFound
	}
	f.sheets[ref.Key] = append(values[:row-1], values[row:]...)
	f.writes++
	return nil
}

func (f *fakeSource) ResolveRange(_ context.Context, ref domain.SheetRef) (domain.A1Range, error) {
	return domain.ParseA1Range(ref.Range)
}

// tagStripper removes anything between angle brackets.
type tagStripper struct{}

func (tagStripper) Sanitize(value string) string {
	var b strings.Builder
	depth := 0
	for _, r := range value {
		switch {
		case r == '<':
			depth++
		case r == '>' && depth > 0:
			depth--
		case depth == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// testClock is a settable time source.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Ensure fakes implement interfaces
var _ driven.SheetSource = (*fakeSource)(nil)
var _ driven.Sanitizer = tagStripper{}

// newTestConfig returns a config store with a leads sheet, a billing sheet
// and an activity log.
func newTestConfig() *memory.ConfigStore {
	store := memory.NewConfigStore(nil)
	_ = store.Set("spreadsheet.id", "sheet-123")
	_ = store.Set("sheets.leads.kind", "leads")
	_ = store.Set("sheets.leads.range", "Leads!A1:C")
	_ = store.Set("sheets.billing.kind", "billing")
	_ = store.Set("sheets.billing.range", "Andi!A1:E")
	_ = store.Set("sheets.activity.kind", "activity")
	_ = store.Set("sheets.activity.range", "Log!A1:G")
	_ = store.Set("activity.sheet", "activity")
	return store
}

func leadsValues() [][]string {
	return [][]string{
		{"No", "Nama Calon Pelanggan", "Kota"},
		{"1", "SDN 1 Cimahi", "Cimahi"},
		{"2", "Warung Madura", "Bandung"},
		{"3", "Universitas Indonesia", "Depok"},
		{"4", "PT Telkom Indonesia", "Bandung"},
	}
}

// testEnv wires the record and activity services over one fake source and
// a memory snapshot store.
type testEnv struct {
	source    *fakeSource
	snapshots *memory.SnapshotStore
	settings  *SettingsService
	records   *RecordService
	activity  *ActivityService
	clock     *testClock
}

func newTestEnv() *testEnv {
	env := &testEnv{
		source:    newFakeSource(),
		snapshots: memory.NewSnapshotStore(),
		settings:  NewSettingsService(newTestConfig()),
		clock:     newTestClock(),
	}
	env.source.set("leads", leadsValues())
	env.source.set("activity", [][]string{domain.ActivityHeaders})

	env.records = NewRecordService(env.settings, env.source, env.snapshots, NewClassifier(DefaultKeywords, domain.MatchWord))
	env.records.cache.now = env.clock.Now
	env.activity = NewActivityService(env.settings, env.source, env.snapshots)
	env.activity.cache.now = env.clock.Now
	env.records.SetActivityService(env.activity)
	env.records.SetSanitizer(tagStripper{})
	return env
}
