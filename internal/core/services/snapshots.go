package services

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/leadsheet/internal/core/domain"
	"github.com/custodia-labs/leadsheet/internal/core/ports/driven"
	"github.com/custodia-labs/leadsheet/internal/logger"
)

// snapshotCache loads tables from the source and keeps them in the
// snapshot store until they go stale.
type snapshotCache struct {
	source driven.SheetSource
	store  driven.SnapshotStore
	now    func() time.Time
}

// load returns a fresh snapshot, from the store when possible.
// Store failures are logged and fall through to the source.
func (c *snapshotCache) load(ctx context.Context, ref domain.SheetRef, ttl time.Duration) (*domain.Snapshot, error) {
	if c.store != nil {
		snap, err := c.store.Get(ctx, ref.Key)
		if err != nil {
			logger.Warn("snapshot store: get %s: %v", ref.Key, err)
		} else if snap != nil && snap.IsFresh(c.now(), ttl) {
			logger.Debug("cache hit for %s (fetched %s)", ref.Key, snap.FetchedAt.Format(time.RFC3339))
			return snap, nil
		}
	}
	return c.fetch(ctx, ref)
}

// fetch reads the sheet from the source and stores the result.
func (c *snapshotCache) fetch(ctx context.Context, ref domain.SheetRef) (*domain.Snapshot, error) {
	if c.source == nil {
		return nil, domain.ErrSourceUnavailable
	}

	logger.Debug("fetching %s (%s)", ref.Key, ref.Range)
	table, err := c.source.Read(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", ref.Key, err)
	}

	snap := &domain.Snapshot{
		SheetKey:  ref.Key,
		Table:     table,
		FetchedAt: c.now(),
	}
	if c.store != nil {
		if err := c.store.Save(ctx, snap); err != nil {
			logger.Warn("snapshot store: save %s: %v", ref.Key, err)
		}
	}
	logger.Debug("fetched %s: %d records", ref.Key, len(table.Records))
	return snap, nil
}

// invalidate drops the cached snapshot so the next load re-fetches.
func (c *snapshotCache) invalidate(ctx context.Context, sheetKey string) {
	if c.store == nil {
		return
	}
	if err := c.store.Delete(ctx, sheetKey); err != nil {
		logger.Warn("snapshot store: delete %s: %v", sheetKey, err)
	}
}
