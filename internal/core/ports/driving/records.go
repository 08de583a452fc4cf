package driving

import (
	"context"
	"time"

	"github.com/custodia-labs/leadsheet/internal/core/domain"
)

// ListResult is a filtered page of a sheet plus what renderers need around it.
type ListResult struct {
	// Sheet is the configured sheet the page came from.
	Sheet domain.SheetRef

	// Headers are the sheet's column names in spreadsheet order.
	Headers []string

	// Page is the pipeline output.
	Page domain.Page

	// State is the filter state after page clamping.
	State domain.FilterState

	// FetchedAt is when the underlying snapshot was read from the spreadsheet.
	FetchedAt time.Time
}

// RecordService reads and edits the records of configured sheets.
type RecordService interface {
	// List returns one page of the sheet's records after filtering.
	List(ctx context.Context, sheetKey string, state domain.FilterState) (*ListResult, error)

	// Snapshot returns the cached table, fetching it when stale.
	Snapshot(ctx context.Context, sheetKey string) (*domain.Snapshot, error)

	// Refresh re-fetches a sheet regardless of cache age.
	Refresh(ctx context.Context, sheetKey string) (*domain.Snapshot, error)

	// RefreshAll re-fetches every configured sheet and returns how many succeeded.
	RefreshAll(ctx context.Context) (int, error)

	// UpdateCell overwrites one cell of a data row.
	UpdateCell(ctx context.Context, who *domain.Identity, sheetKey string, row int, column, value string) error

	// AppendRow adds a row built from header/value pairs and returns its row number.
	AppendRow(ctx context.Context, who *domain.Identity, sheetKey string, values map[string]string) (int, error)

	// DeleteRow removes a data row.
	DeleteRow(ctx context.Context, who *domain.Identity, sheetKey string, row int) error

	// Classify reports whether a name looks like an educational institution.
	Classify(name string) bool
}
