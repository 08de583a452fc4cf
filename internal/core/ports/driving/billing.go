package driving

import (
	"context"

	"github.com/custodia-labs/leadsheet/internal/core/domain"
)

// BillingService summarises per-month payment columns of billing sheets.
type BillingService interface {
	// Columns returns the sheet's billing columns ordered by period.
	Columns(ctx context.Context, sheetKey string) ([]domain.BillingColumn, error)

	// Summary counts paid and unpaid records per billing column.
	Summary(ctx context.Context, sheetKey string) ([]domain.BillingStatus, error)
}
