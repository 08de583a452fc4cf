package app

import (
	"context"

	"github.com/custodia-labs/leadsheet/internal/core/domain"
	"github.com/custodia-labs/leadsheet/internal/core/ports/driven"
)

var _ driven.SheetSource = unavailableSource{}

// unavailableSource stands in for Google Sheets when it cannot be reached
// at startup.
type unavailableSource struct {
	err error
}

func (u unavailableSource) Read(context.Context, domain.SheetRef) (domain.Table, error) {
	return domain.Table{}, u.err
}

func (u unavailableSource) UpdateCell(context.Context, domain.SheetRef, int, int, string) error {
	return u.err
}

func (u unavailableSource) AppendRow(context.Context, domain.SheetRef, []string) (int, error) {
	return 0, u.err
}

func (u unavailableSource) DeleteRow(context.Context, domain.SheetRef, int) error {
	return u.err
}

func (u unavailableSource) ResolveRange(context.Context, domain.SheetRef) (domain.A1Range, error) {
	return domain.A1Range{}, u.err
}
