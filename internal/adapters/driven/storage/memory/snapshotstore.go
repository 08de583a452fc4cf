package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/leadsheet/internal/core/domain"
	"github.com/custodia-labs/leadsheet/internal/core/ports/driven"
)

// Ensure SnapshotStore implements the interface.
var _ driven.SnapshotStore = (*SnapshotStore)(nil)

// SnapshotStore is an in-memory implementation of driven.SnapshotStore.
// Snapshots are stored by value; callers may not mutate a returned table's
// records in place.
type SnapshotStore struct {
	mu        sync.RWMutex
	snapshots map[string]domain.Snapshot
}

// NewSnapshotStore creates a new in-memory snapshot store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{
		snapshots: make(map[string]domain.Snapshot),
	}
}

// Get retrieves the snapshot for a sheet, or nil if none is cached.
func (s *SnapshotStore) Get(_ context.Context, sheetKey string) (*domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snapshots[sheetKey]
	if !ok {
		return nil, nil
	}
	return &snap, nil
}

// Save stores or replaces the snapshot for its sheet.
func (s *SnapshotStore) Save(_ context.Context, snapshot *domain.Snapshot) error {
	if snapshot == nil || snapshot.SheetKey == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[snapshot.SheetKey] = *snapshot
	return nil
}

// Delete removes the snapshot for a sheet.
func (s *SnapshotStore) Delete(_ context.Context, sheetKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snapshots, sheetKey)
	return nil
}

// List returns every cached snapshot ordered by sheet key.
func (s *SnapshotStore) List(_ context.Context) ([]domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Snapshot, 0, len(s.snapshots))
	for _, snap := range s.snapshots {
		result = append(result, snap)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].SheetKey < result[j].SheetKey })
	return result, nil
}
