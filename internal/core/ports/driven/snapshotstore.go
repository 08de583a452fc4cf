package driven

import (
	"context"

	"github.com/custodia-labs/leadsheet/internal/core/domain"
)

// SnapshotStore caches fetched tables keyed by sheet key.
type SnapshotStore interface {
	// Get retrieves the snapshot for a sheet.
	// Returns nil and no error if nothing is cached.
	Get(ctx context.Context, sheetKey string) (*domain.Snapshot, error)

	// Save stores or replaces the snapshot for its sheet.
	Save(ctx context.Context, snapshot *domain.Snapshot) error

	// Delete removes the snapshot for a sheet. Deleting a missing entry is not an error.
	Delete(ctx context.Context, sheetKey string) error

	// List returns every cached snapshot, ordered by sheet key.
	List(ctx context.Context) ([]domain.Snapshot, error)
}
