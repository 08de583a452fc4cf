package driving

import (
	"context"

	"github.com/custodia-labs/leadsheet/internal/core/domain"
)

// Scheduler runs background tasks such as the periodic snapshot refresh.
type Scheduler interface {
	// Start begins running scheduled tasks.
	// Blocks until context is cancelled or an error occurs.
	Start(ctx context.Context) error

	// Stop gracefully stops all running tasks.
	Stop() error

	// Tasks returns the registered tasks with their last known state.
	Tasks(ctx context.Context) ([]domain.ScheduledTask, error)
}
