package driving

import (
	"context"

	"github.com/custodia-labs/leadsheet/internal/core/domain"
)

// ActivityService records and lists write operations.
type ActivityService interface {
	// Record appends an entry to the activity sheet. ID and Timestamp are
	// filled in when empty.
	Record(ctx context.Context, entry domain.ActivityEntry) error

	// Recent returns up to limit entries, newest first.
	Recent(ctx context.Context, limit int) ([]domain.ActivityEntry, error)
}
