package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/leadsheet/internal/core/domain"
	"github.com/custodia-labs/leadsheet/internal/core/ports/driven"
	"github.com/custodia-labs/leadsheet/internal/core/ports/driving"
	"github.com/custodia-labs/leadsheet/internal/logger"
)

// Ensure RecordService implements the interface.
var _ driving.RecordService = (*RecordService)(nil)

// refreshConcurrency bounds parallel sheet fetches in RefreshAll.
const refreshConcurrency = 4

// RecordService serves filtered pages of configured sheets and writes edits
// back to the spreadsheet.
type RecordService struct {
	settings   driving.SettingsService
	classifier driving.Classifier
	cache      *snapshotCache
	activity   driving.ActivityService
	sanitizer  driven.Sanitizer
}

// NewRecordService creates a record service. store may be nil, in which
// case every read goes to the source.
func NewRecordService(
	settings driving.SettingsService,
	source driven.SheetSource,
	store driven.SnapshotStore,
	classifier driving.Classifier,
) *RecordService {
	return &RecordService{
		settings:   settings,
		classifier: classifier,
		cache: &snapshotCache{
			source: source,
			store:  store,
			now:    time.Now,
		},
	}
}

// SetActivityService sets the service that records write operations.
func (s *RecordService) SetActivityService(activity driving.ActivityService) {
	s.activity = activity
}

// SetSanitizer sets the sanitizer applied to written values.
func (s *RecordService) SetSanitizer(sanitizer driven.Sanitizer) {
	s.sanitizer = sanitizer
}

// List returns one page of the sheet's records after filtering.
func (s *RecordService) List(ctx context.Context, sheetKey string, state domain.FilterState) (*driving.ListResult, error) {
	logger.Section("List " + sheetKey)

	ref, settings, err := s.sheet(sheetKey)
	if err != nil {
		return nil, err
	}
	if state.PageSize < 1 {
		state.PageSize = settings.PageSize
	}

	snap, err := s.cache.load(ctx, ref, settings.CacheTTL)
	if err != nil {
		return nil, err
	}

	page := ApplyFilters(snap.Table.Records, state, s.classifier)
	logger.Debug("filter %q category=%s: %d of %d records, page %d/%d",
		state.SearchTerm, state.Category, page.TotalCount, len(snap.Table.Records), page.Number, page.TotalPages)

	return &driving.ListResult{
		Sheet:     ref,
		Headers:   snap.Table.Headers,
		Page:      page,
		State:     state.WithPage(page.Number),
		FetchedAt: snap.FetchedAt,
	}, nil
}

// Snapshot returns the cached table, fetching it when stale.
func (s *RecordService) Snapshot(ctx context.Context, sheetKey string) (*domain.Snapshot, error) {
	ref, settings, err := s.sheet(sheetKey)
	if err != nil {
		return nil, err
	}
	return s.cache.load(ctx, ref, settings.CacheTTL)
}

// Refresh re-fetches a sheet regardless of cache age.
func (s *RecordService) Refresh(ctx context.Context, sheetKey string) (*domain.Snapshot, error) {
	ref, _, err := s.sheet(sheetKey)
	if err != nil {
		return nil, err
	}
	return s.cache.fetch(ctx, ref)
}

// RefreshAll re-fetches every configured sheet, at most refreshConcurrency
// at a time. A failing sheet does not stop the others; the first error is
// returned alongside the number of sheets refreshed.
func (s *RecordService) RefreshAll(ctx context.Context) (int, error) {
	settings, err := s.settings.Get()
	if err != nil {
		return 0, err
	}

	var (
		g         errgroup.Group
		refreshed atomic.Int64
	)
	g.SetLimit(refreshConcurrency)

	for _, ref := range settings.Sheets {
		g.Go(func() error {
			if _, err := s.cache.fetch(ctx, ref); err != nil {
				logger.Warn("refresh %s: %v", ref.Key, err)
				return err
			}
			refreshed.Add(1)
			return nil
		})
	}

	err = g.Wait()
	return int(refreshed.Load()), err
}

// UpdateCell overwrites one cell of a data row. column is a header name.
func (s *RecordService) UpdateCell(
	ctx context.Context, who *domain.Identity, sheetKey string, row int, column, value string,
) error {
	if who == nil {
		return domain.ErrAuthRequired
	}
	ref, settings, err := s.sheet(sheetKey)
	if err != nil {
		return err
	}
	snap, err := s.cache.load(ctx, ref, settings.CacheTTL)
	if err != nil {
		return err
	}
	if _, err := checkDataRow(snap.Table, row); err != nil {
		return err
	}
	col := snap.Table.ColumnIndex(column)
	if col < 0 {
		return fmt.Errorf("unknown column %q: %w", column, domain.ErrInvalidInput)
	}

	value = s.sanitize(value)
	if err := s.cache.source.UpdateCell(ctx, ref, row, col, value); err != nil {
		return fmt.Errorf("update %s row %d: %w", ref.Key, row, err)
	}
	s.cache.invalidate(ctx, ref.Key)

	s.recordActivity(ctx, domain.ActivityEntry{
		Actor:    who.Actor(),
		Action:   domain.ActivityUpdate,
		SheetKey: ref.Key,
		Row:      row,
		Detail:   snap.Table.Headers[col] + " = " + value,
	})
	return nil
}

// AppendRow adds a row built from header/value pairs. Header names match
// case-insensitively; unknown headers are rejected.
func (s *RecordService) AppendRow(
	ctx context.Context, who *domain.Identity, sheetKey string, values map[string]string,
) (int, error) {
	if who == nil {
		return 0, domain.ErrAuthRequired
	}
	ref, settings, err := s.sheet(sheetKey)
	if err != nil {
		return 0, err
	}
	snap, err := s.cache.load(ctx, ref, settings.CacheTTL)
	if err != nil {
		return 0, err
	}

	row := make([]string, len(snap.Table.Headers))
	filled := 0
	for header, value := range values {
		col := snap.Table.ColumnIndex(header)
		if col < 0 {
			return 0, fmt.Errorf("unknown column %q: %w", header, domain.ErrInvalidInput)
		}
		row[col] = s.sanitize(value)
		if row[col] != "" {
			filled++
		}
	}
	if filled == 0 {
		return 0, fmt.Errorf("row has no values: %w", domain.ErrInvalidInput)
	}

	n, err := s.cache.source.AppendRow(ctx, ref, row)
	if err != nil {
		return 0, fmt.Errorf("append to %s: %w", ref.Key, err)
	}
	s.cache.invalidate(ctx, ref.Key)

	detail := fmt.Sprintf("%d fields", filled)
	if col := snap.Table.ColumnIndex(ref.EffectiveNameField()); col >= 0 && row[col] != "" {
		detail = row[col]
	}
	s.recordActivity(ctx, domain.ActivityEntry{
		Actor:    who.Actor(),
		Action:   domain.ActivityCreate,
		SheetKey: ref.Key,
		Row:      n,
		Detail:   detail,
	})
	return n, nil
}

// DeleteRow removes a data row.
func (s *RecordService) DeleteRow(ctx context.Context, who *domain.Identity, sheetKey string, row int) error {
	if who == nil {
		return domain.ErrAuthRequired
	}
	ref, settings, err := s.sheet(sheetKey)
	if err != nil {
		return err
	}
	snap, err := s.cache.load(ctx, ref, settings.CacheTTL)
	if err != nil {
		return err
	}
	rec, err := checkDataRow(snap.Table, row)
	if err != nil {
		return err
	}

	if err := s.cache.source.DeleteRow(ctx, ref, row); err != nil {
		return fmt.Errorf("delete %s row %d: %w", ref.Key, row, err)
	}
	s.cache.invalidate(ctx, ref.Key)

	s.recordActivity(ctx, domain.ActivityEntry{
		Actor:    who.Actor(),
		Action:   domain.ActivityDelete,
		SheetKey: ref.Key,
		Row:      row,
		Detail:   rec.Name,
	})
	return nil
}

// Classify reports whether a name looks like an educational institution.
func (s *RecordService) Classify(name string) bool {
	if s.classifier == nil {
		return false
	}
	return s.classifier.IsSchool(name)
}

func (s *RecordService) sheet(key string) (domain.SheetRef, domain.Settings, error) {
	settings, err := s.settings.Get()
	if err != nil {
		return domain.SheetRef{}, domain.Settings{}, err
	}
	ref, ok := settings.Sheet(key)
	if !ok {
		return domain.SheetRef{}, domain.Settings{}, fmt.Errorf("sheet %q: %w", key, domain.ErrSheetNotConfigured)
	}
	return ref, settings, nil
}

func (s *RecordService) sanitize(value string) string {
	if s.sanitizer != nil {
		value = s.sanitizer.Sanitize(value)
	}
	return strings.TrimSpace(value)
}

// recordActivity logs failures instead of returning them: the write it
// describes has already been applied.
func (s *RecordService) recordActivity(ctx context.Context, entry domain.ActivityEntry) {
	if s.activity == nil {
		return
	}
	if err := s.activity.Record(ctx, entry); err != nil && !errors.Is(err, context.Canceled) {
		logger.Warn("activity: %s %s row %d: %v", entry.Action, entry.SheetKey, entry.Row, err)
	}
}

// checkDataRow returns the record at row, rejecting the header row and any
// row that holds no record in the loaded snapshot.
func checkDataRow(table domain.Table, row int) (domain.Record, error) {
	if row <= max(table.HeaderRow, 1) {
		return domain.Record{}, fmt.Errorf("row %d is not a data row: %w", row, domain.ErrInvalidInput)
	}
	rec, ok := table.FindRow(row)
	if !ok {
		return domain.Record{}, fmt.Errorf("row %d: %w", row, domain.ErrNotFound)
	}
	return rec, nil
}
