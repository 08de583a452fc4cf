package driven

import (
	"context"

	"github.com/custodia-labs/leadsheet/internal/core/domain"
)

// SheetSource reads and writes rows of a spreadsheet.
// Rows are 1-based spreadsheet row numbers; the first row of a sheet's
// range holds the headers.
type SheetSource interface {
	// Read fetches the sheet's range and maps it into a table.
	// Named ranges are resolved by the source.
	Read(ctx context.Context, ref domain.SheetRef) (domain.Table, error)

	// UpdateCell overwrites one cell. column is a 0-based index into the
	// sheet's headers.
	UpdateCell(ctx context.Context, ref domain.SheetRef, row, column int, value string) error

	// AppendRow adds a row after the last row of the range and returns its
	// spreadsheet row number (0 if the API did not report it).
	AppendRow(ctx context.Context, ref domain.SheetRef, values []string) (int, error)

	// DeleteRow removes a row, shifting later rows up.
	DeleteRow(ctx context.Context, ref domain.SheetRef, row int) error

	// ResolveRange returns the A1 range a named range or A1 string refers to.
	ResolveRange(ctx context.Context, ref domain.SheetRef) (domain.A1Range, error)
}
