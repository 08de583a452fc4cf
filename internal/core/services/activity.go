package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/leadsheet/internal/core/domain"
	"github.com/custodia-labs/leadsheet/internal/core/ports/driven"
	"github.com/custodia-labs/leadsheet/internal/core/ports/driving"
	"github.com/custodia-labs/leadsheet/internal/logger"
)

// Ensure ActivityService implements the interface.
var _ driving.ActivityService = (*ActivityService)(nil)

// DefaultActivityLimit is the number of entries Recent returns when no
// limit is given.
const DefaultActivityLimit = 20

// ActivityService appends write operations to the activity sheet and reads
// them back.
type ActivityService struct {
	settings driving.SettingsService
	cache    *snapshotCache
}

// NewActivityService creates an activity service. store may be nil.
func NewActivityService(
	settings driving.SettingsService,
	source driven.SheetSource,
	store driven.SnapshotStore,
) *ActivityService {
	return &ActivityService{
		settings: settings,
		cache: &snapshotCache{
			source: source,
			store:  store,
			now:    time.Now,
		},
	}
}

// Record appends an entry to the activity sheet. Without a configured
// activity sheet it only logs the entry.
func (s *ActivityService) Record(ctx context.Context, entry domain.ActivityEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = s.cache.now()
	}

	ref, ok, err := s.activitySheet()
	if err != nil {
		return err
	}
	if !ok {
		logger.Debug("activity (not persisted): %s %s %s row %d", entry.Actor, entry.Action, entry.SheetKey, entry.Row)
		return nil
	}
	if s.cache.source == nil {
		return domain.ErrSourceUnavailable
	}

	if _, err := s.cache.source.AppendRow(ctx, ref, entry.Values()); err != nil {
		return fmt.Errorf("append activity: %w", err)
	}
	s.cache.invalidate(ctx, ref.Key)
	return nil
}

// Recent returns up to limit entries, newest first.
func (s *ActivityService) Recent(ctx context.Context, limit int) ([]domain.ActivityEntry, error) {
	if limit < 1 {
		limit = DefaultActivityLimit
	}

	ref, ok, err := s.activitySheet()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("activity log: %w", domain.ErrSheetNotConfigured)
	}

	settings, err := s.settings.Get()
	if err != nil {
		return nil, err
	}
	snap, err := s.cache.load(ctx, ref, settings.CacheTTL)
	if err != nil {
		return nil, err
	}

	// Walk the sheet bottom-up so entries with equal timestamps stay newest first.
	records := snap.Table.Records
	entries := make([]domain.ActivityEntry, 0, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		entries = append(entries, domain.ActivityEntryFromRecord(records[i]))
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})

	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (s *ActivityService) activitySheet() (domain.SheetRef, bool, error) {
	settings, err := s.settings.Get()
	if err != nil {
		return domain.SheetRef{}, false, err
	}
	if settings.ActivitySheet == "" {
		return domain.SheetRef{}, false, nil
	}
	ref, ok := settings.Sheet(settings.ActivitySheet)
	if !ok {
		return domain.SheetRef{}, false, fmt.Errorf("activity sheet %q: %w", settings.ActivitySheet, domain.ErrSheetNotConfigured)
	}
	return ref, true, nil
}
