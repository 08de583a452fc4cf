// Package sheets implements driven.SheetSource on the Google Sheets API v4.
package sheets

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/custodia-labs/leadsheet/internal/connectors/google"
	"github.com/custodia-labs/leadsheet/internal/core/domain"
	"github.com/custodia-labs/leadsheet/internal/core/ports/driven"
	"github.com/custodia-labs/leadsheet/internal/logger"
)

// Ensure Source implements the interface.
var _ driven.SheetSource = (*Source)(nil)

// Value options sent with every read and write.
const (
	valueRenderFormatted = "FORMATTED_VALUE"
	valueInputUser       = "USER_ENTERED"
	insertRows           = "INSERT_ROWS"
	dimensionRows        = "ROWS"
)

// metadataFields limits spreadsheets.get to what range resolution needs.
const metadataFields googleapi.Field = "sheets.properties(sheetId,title),namedRanges"

// Source reads and writes one spreadsheet.
type Source struct {
	svc           *sheets.Service
	spreadsheetID string
	limiter       *google.RateLimiter

	mu       sync.Mutex
	metadata *spreadsheetMetadata
}

// spreadsheetMetadata is the cached result of spreadsheets.get.
type spreadsheetMetadata struct {
	titles   []string
	sheetIDs map[string]int64
	named    map[string]domain.A1Range
}

// New creates a source over an existing Sheets service.
// A nil limiter uses the default Sheets rate limits.
func New(svc *sheets.Service, spreadsheetID string, limiter *google.RateLimiter) *Source {
	if limiter == nil {
		limiter = google.NewRateLimiter(google.ServiceSheets)
	}
	return &Source{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		limiter:       limiter,
	}
}

// NewFromProvider builds the Sheets service from a token provider.
func NewFromProvider(
	ctx context.Context, provider driven.TokenProvider, spreadsheetID string, opts ...option.ClientOption,
) (*Source, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet id: %w", domain.ErrSourceUnavailable)
	}
	svc, err := google.NewSheetsService(ctx, google.NewTokenSource(ctx, provider), opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return New(svc, spreadsheetID, nil), nil
}

// Read fetches the sheet's range with formatted values. The first returned
// row is the header; its row number comes from the range the API reports.
func (s *Source) Read(ctx context.Context, ref domain.SheetRef) (domain.Table, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return domain.Table{}, err
	}

	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, ref.Range).
		ValueRenderOption(valueRenderFormatted).
		Context(ctx).
		Do()
	if err != nil {
		return domain.Table{}, s.apiError("values.get", err)
	}

	headerRow := 1
	if rng, perr := domain.ParseA1Range(resp.Range); perr == nil {
		headerRow = rng.FirstRow()
	}

	values := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		values[i] = make([]string, len(row))
		for j, cell := range row {
			values[i][j] = cellString(cell)
		}
	}

	logger.Debug("sheets: read %s -> %s (%d rows)", ref.Range, resp.Range, len(values))
	return domain.NewTable(values, headerRow, ref.EffectiveNameField()), nil
}

// UpdateCell overwrites one cell. column is relative to the range's first column.
func (s *Source) UpdateCell(ctx context.Context, ref domain.SheetRef, row, column int, value string) error {
	rng, err := s.ResolveRange(ctx, ref)
	if err != nil {
		return err
	}
	offset := 0
	if rng.StartCol != "" {
		offset = domain.ColumnIndex(rng.StartCol)
	}
	cell := domain.CellRef(rng.Sheet, offset+column, row)

	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}
	_, err = s.svc.Spreadsheets.Values.Update(s.spreadsheetID, cell, &sheets.ValueRange{
		Values: [][]interface{}{{value}},
	}).ValueInputOption(valueInputUser).Context(ctx).Do()
	if err != nil {
		return s.apiError("values.update", err)
	}

	logger.Debug("sheets: updated %s", cell)
	return nil
}

// AppendRow appends after the last row of the range and returns the new
// row's number as reported by the API.
func (s *Source) AppendRow(ctx context.Context, ref domain.SheetRef, values []string) (int, error) {
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return 0, err
	}
	resp, err := s.svc.Spreadsheets.Values.Append(s.spreadsheetID, ref.Range, &sheets.ValueRange{
		Values: [][]interface{}{row},
	}).ValueInputOption(valueInputUser).InsertDataOption(insertRows).Context(ctx).Do()
	if err != nil {
		return 0, s.apiError("values.append", err)
	}

	n := 0
	if resp.Updates != nil {
		if rng, perr := domain.ParseA1Range(resp.Updates.UpdatedRange); perr == nil {
			n = rng.StartRow
		}
		logger.Debug("sheets: appended %s", resp.Updates.UpdatedRange)
	}
	return n, nil
}

// DeleteRow removes a whole spreadsheet row from the range's sheet.
func (s *Source) DeleteRow(ctx context.Context, ref domain.SheetRef, row int) error {
	if row < 1 {
		return fmt.Errorf("row %d: %w", row, domain.ErrInvalidInput)
	}
	rng, err := s.ResolveRange(ctx, ref)
	if err != nil {
		return err
	}
	meta, err := s.loadMetadata(ctx)
	if err != nil {
		return err
	}
	sheetID, ok := meta.sheetIDs[rng.Sheet]
	if !ok {
		return fmt.Errorf("sheet %q: %w", rng.Sheet, domain.ErrNotFound)
	}

	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			DeleteDimension: &sheets.DeleteDimensionRequest{
				Range: &sheets.DimensionRange{
					SheetId:         sheetID,
					Dimension:       dimensionRows,
					StartIndex:      int64(row - 1),
					EndIndex:        int64(row),
					ForceSendFields: []string{"SheetId", "StartIndex"},
				},
			},
		}},
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}
	if _, err := s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return s.apiError("batchUpdate", err)
	}

	logger.Debug("sheets: deleted %s row %d", rng.Sheet, row)
	return nil
}

// ResolveRange returns the A1 range for the sheet. Qualified A1 ranges are
// parsed locally; named ranges, bare titles and unqualified cell ranges are
// resolved against the spreadsheet's metadata.
func (s *Source) ResolveRange(ctx context.Context, ref domain.SheetRef) (domain.A1Range, error) {
	parsed, err := domain.ParseA1Range(ref.Range)
	if err == nil && parsed.Sheet != "" && strings.Contains(ref.Range, "!") {
		return parsed, nil
	}

	meta, metaErr := s.loadMetadata(ctx)
	if metaErr != nil {
		return domain.A1Range{}, metaErr
	}

	name := strings.TrimSpace(ref.Range)
	if rng, ok := meta.named[name]; ok {
		return rng, nil
	}
	if err != nil {
		return domain.A1Range{}, err
	}
	if parsed.Sheet == "" {
		// Unqualified cells refer to the first sheet.
		if len(meta.titles) == 0 {
			return domain.A1Range{}, fmt.Errorf("spreadsheet has no sheets: %w", domain.ErrNotFound)
		}
		parsed.Sheet = meta.titles[0]
		return parsed, nil
	}
	if _, ok := meta.sheetIDs[parsed.Sheet]; !ok {
		return domain.A1Range{}, fmt.Errorf("range %q: %w", ref.Range, domain.ErrNotFound)
	}
	return parsed, nil
}

// loadMetadata fetches sheet titles, IDs and named ranges once.
func (s *Source) loadMetadata(ctx context.Context) (*spreadsheetMetadata, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.metadata != nil {
		return s.metadata, nil
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	resp, err := s.svc.Spreadsheets.Get(s.spreadsheetID).Fields(metadataFields).Context(ctx).Do()
	if err != nil {
		return nil, s.apiError("spreadsheets.get", err)
	}

	meta := &spreadsheetMetadata{
		sheetIDs: make(map[string]int64, len(resp.Sheets)),
		named:    make(map[string]domain.A1Range, len(resp.NamedRanges)),
	}
	titlesByID := make(map[int64]string, len(resp.Sheets))
	for _, sh := range resp.Sheets {
		if sh.Properties == nil {
			continue
		}
		meta.titles = append(meta.titles, sh.Properties.Title)
		meta.sheetIDs[sh.Properties.Title] = sh.Properties.SheetId
		titlesByID[sh.Properties.SheetId] = sh.Properties.Title
	}
	for _, nr := range resp.NamedRanges {
		if nr.Range == nil {
			continue
		}
		meta.named[nr.Name] = gridToA1(titlesByID[nr.Range.SheetId], nr.Range)
	}

	logger.Debug("sheets: loaded metadata (%d sheets, %d named ranges)", len(meta.titles), len(meta.named))
	s.metadata = meta
	return meta, nil
}

// apiError records 429 backoff and maps the error to domain errors.
func (s *Source) apiError(call string, err error) error {
	if google.IsRateLimited(err) {
		s.limiter.RecordRateLimitError(google.RetryAfter(err))
	}
	return fmt.Errorf("sheets %s: %w", call, google.WrapError(err))
}

// gridToA1 converts a zero-based, end-exclusive grid range. Unbounded
// dimensions stay open.
func gridToA1(title string, g *sheets.GridRange) domain.A1Range {
	r := domain.A1Range{Sheet: title}
	r.StartCol = domain.ColumnLetter(int(g.StartColumnIndex))
	r.StartRow = int(g.StartRowIndex) + 1
	if g.EndColumnIndex > 0 {
		r.EndCol = domain.ColumnLetter(int(g.EndColumnIndex) - 1)
	}
	if g.EndRowIndex > 0 {
		r.EndRow = int(g.EndRowIndex)
	}
	return r
}

func cellString(v interface{}) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	default:
		return fmt.Sprint(c)
	}
}
