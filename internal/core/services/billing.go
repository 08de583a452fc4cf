package services

import (
	"context"
	"strings"

	"github.com/custodia-labs/leadsheet/internal/core/domain"
	"github.com/custodia-labs/leadsheet/internal/core/ports/driving"
	"github.com/custodia-labs/leadsheet/internal/logger"
)

// Ensure BillingService implements the interface.
var _ driving.BillingService = (*BillingService)(nil)

// BillingService reads per-month payment columns from billing sheets.
// A non-empty cell in a month column counts as paid.
type BillingService struct {
	records driving.RecordService
}

// NewBillingService creates a billing service on top of the record service's cache.
func NewBillingService(records driving.RecordService) *BillingService {
	return &BillingService{records: records}
}

// Columns returns the sheet's billing columns ordered by period.
func (s *BillingService) Columns(ctx context.Context, sheetKey string) ([]domain.BillingColumn, error) {
	snap, err := s.records.Snapshot(ctx, sheetKey)
	if err != nil {
		return nil, err
	}
	cols := domain.BillingColumns(snap.Table.Headers)
	logger.Debug("billing %s: %d of %d columns are periods", sheetKey, len(cols), len(snap.Table.Headers))
	return cols, nil
}

// Summary counts paid and unpaid records per billing column.
func (s *BillingService) Summary(ctx context.Context, sheetKey string) ([]domain.BillingStatus, error) {
	snap, err := s.records.Snapshot(ctx, sheetKey)
	if err != nil {
		return nil, err
	}

	cols := domain.BillingColumns(snap.Table.Headers)
	out := make([]domain.BillingStatus, len(cols))
	for i, col := range cols {
		status := domain.BillingStatus{Column: col}
		for _, r := range snap.Table.Records {
			if strings.TrimSpace(r.Field(col.Header)) != "" {
				status.Paid++
			} else {
				status.Unpaid++
			}
		}
		out[i] = status
	}
	return out, nil
}
