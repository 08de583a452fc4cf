package status

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/leadsheet/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/leadsheet/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/leadsheet/internal/core/domain"
)

func newBar(t *testing.T) *Bar {
	t.Helper()
	bar := NewBar(styles.DefaultStyles(), keymap.DefaultKeyMap())
	bar.SetWidth(160)
	return bar
}

func TestNewBar(t *testing.T) {
	bar := NewBar(nil, nil)

	require.NotNil(t, bar)
	assert.Equal(t, StateReady, bar.State())
	assert.Equal(t, 80, bar.Width())
	assert.Nil(t, bar.Init())

	updated, cmd := bar.Update(tea.KeyMsg{})
	assert.Equal(t, bar, updated)
	assert.Nil(t, cmd)
}

func TestStatusBar_Summary(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	bar := newBar(t)
	bar.SetClock(func() time.Time { return now })

	bar.SetPage(domain.Page{Number: 1, TotalPages: 2, TotalCount: 12}, domain.CategorySchool, now.Add(-3*time.Minute))

	assert.Equal(t, StateRecords, bar.State())
	assert.Equal(t, 12, bar.Count())
	assert.Equal(t, "12 records · page 1/2 · school · fetched 3 minutes ago", bar.Summary())
}

func TestStatusBar_Summary_Variants(t *testing.T) {
	bar := newBar(t)

	bar.SetPage(domain.Page{Number: 1, TotalPages: 1, TotalCount: 1}, domain.CategoryAll, time.Time{})
	assert.Equal(t, "1 record · page 1/1 · all", bar.Summary())

	bar.SetPage(domain.Page{TotalCount: 0}, domain.CategoryNonSchool, time.Time{})
	assert.Equal(t, "0 records · non-school", bar.Summary())

	bar.SetPage(domain.Page{Number: 3, TotalPages: 300, TotalCount: 2999}, domain.CategoryAll, time.Time{})
	bar.SetMessage("refreshed")
	assert.Equal(t, "2,999 records · page 3/300 · all · refreshed", bar.Summary())
}

func TestStatusBar_View(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(*Bar)
		want    string
		notWant string
	}{
		{"ready", func(*Bar) {}, "Ready", ""},
		{"loading", func(b *Bar) { b.SetState(StateLoading) }, "Loading", ""},
		{"refreshing", func(b *Bar) { b.SetState(StateRefreshing) }, "Refreshing", ""},
		{"error", func(b *Bar) { b.SetState(StateError) }, "Error", ""},
		{"error with message", func(b *Bar) {
			b.SetState(StateError)
			b.SetMessage("rate limited")
		}, "Error: rate limited", ""},
		{"records shows paging hints", func(b *Bar) {
			b.SetPage(domain.Page{Number: 1, TotalPages: 1, TotalCount: 4}, domain.CategoryAll, time.Time{})
		}, "tab category", "?"},
		{"ready shows short help", func(*Bar) {}, "q quit", "tab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := newBar(t)
			tt.setup(bar)
			view := bar.View()
			assert.Contains(t, view, tt.want)
			if tt.notWant != "" {
				assert.NotContains(t, view, tt.notWant)
			}
		})
	}
}

func TestStatusBar_Clear(t *testing.T) {
	bar := newBar(t)
	bar.SetPage(domain.Page{Number: 2, TotalPages: 3, TotalCount: 25}, domain.CategorySchool, time.Now())
	bar.SetMessage("x")

	bar.Clear()

	assert.Equal(t, StateReady, bar.State())
	assert.Equal(t, "", bar.Message())
	assert.Equal(t, 0, bar.Count())
}
