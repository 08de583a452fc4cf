package sheets

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/custodia-labs/leadsheet/internal/connectors/google"
	"github.com/custodia-labs/leadsheet/internal/core/domain"
)

const testSpreadsheet = "sheet-123"

type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Body   string
}

type fakeAPI struct {
	mu       sync.Mutex
	requests []recordedRequest
	handler  func(w http.ResponseWriter, r *http.Request, body string)
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{
		Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery, Body: string(b),
	})
	f.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	f.handler(w, r, string(b))
}

func (f *fakeAPI) count(method, suffix string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.requests {
		if r.Method == method && strings.HasSuffix(r.Path, suffix) {
			n++
		}
	}
	return n
}

func (f *fakeAPI) last() recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func newTestSource(t *testing.T, handler func(w http.ResponseWriter, r *http.Request, body string)) (*Source, *fakeAPI) {
	t.Helper()
	api := &fakeAPI{handler: handler}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	svc, err := sheets.NewService(context.Background(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)

	limiter := google.NewRateLimiterWithConfig(google.RateLimitConfig{RequestsPerSecond: 1000, BurstSize: 100})
	return New(svc, testSpreadsheet, limiter), api
}

func writeJSON(w http.ResponseWriter, v any) {
	_ = json.NewEncoder(w).Encode(v)
}

func metadataResponse(w http.ResponseWriter) {
	writeJSON(w, map[string]any{
		"sheets": []any{
			map[string]any{"properties": map[string]any{"sheetId": 0, "title": "Leads"}},
			map[string]any{"properties": map[string]any{"sheetId": 42, "title": "Billing Q1"}},
		},
		"namedRanges": []any{
			map[string]any{
				"name": "LeadTable",
				"range": map[string]any{
					"sheetId": 42, "startRowIndex": 2, "startColumnIndex": 1, "endColumnIndex": 6,
				},
			},
		},
	})
}

func TestSource_Read(t *testing.T) {
	src, api := newTestSource(t, func(w http.ResponseWriter, r *http.Request, _ string) {
		writeJSON(w, map[string]any{
			"range": "Leads!A3:C1000",
			"values": []any{
				[]any{"No", "Nama Calon Pelanggan", "Alamat"},
				[]any{"1", "SDN 1 Malang", "Jl. Merdeka"},
				[]any{},
				[]any{"3", "Toko Makmur"},
			},
		})
	})

	table, err := src.Read(context.Background(), domain.SheetRef{
		Key: "leads", Kind: domain.SheetKindLeads, Range: "Leads!A3:C",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"No", "Nama Calon Pelanggan", "Alamat"}, table.Headers)
	assert.Equal(t, 3, table.HeaderRow)
	require.Len(t, table.Records, 2)
	assert.Equal(t, 4, table.Records[0].Row)
	assert.Equal(t, "SDN 1 Malang", table.Records[0].Name)
	assert.Equal(t, 6, table.Records[1].Row)
	assert.Equal(t, "", table.Records[1].Field("Alamat"))

	req := api.last()
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "/v4/spreadsheets/sheet-123/values/Leads!A3:C", req.Path)
	assert.Contains(t, req.Query, "valueRenderOption=FORMATTED_VALUE")
}

func TestSource_Read_MapsErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"not found", http.StatusNotFound, domain.ErrNotFound},
		{"forbidden", http.StatusForbidden, domain.ErrForbidden},
		{"unauthorized", http.StatusUnauthorized, domain.ErrSourceUnavailable},
		{"bad request", http.StatusBadRequest, domain.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, _ := newTestSource(t, func(w http.ResponseWriter, _ *http.Request, _ string) {
				w.WriteHeader(tt.status)
				writeJSON(w, map[string]any{"error": map[string]any{"code": tt.status, "message": "nope"}})
			})

			_, err := src.Read(context.Background(), domain.SheetRef{Kind: domain.SheetKindLeads, Range: "Leads"})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestSource_Read_RateLimitedSetsBackoff(t *testing.T) {
	src, _ := newTestSource(t, func(w http.ResponseWriter, _ *http.Request, _ string) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
		writeJSON(w, map[string]any{"error": map[string]any{"code": 429, "message": "quota"}})
	})

	_, err := src.Read(context.Background(), domain.SheetRef{Kind: domain.SheetKindLeads, Range: "Leads"})
	require.ErrorIs(t, err, domain.ErrRateLimited)
	assert.False(t, src.limiter.BackoffUntil().IsZero())
}

func TestSource_ResolveRange(t *testing.T) {
	src, api := newTestSource(t, func(w http.ResponseWriter, _ *http.Request, _ string) {
		metadataResponse(w)
	})
	ctx := context.Background()

	rng, err := src.ResolveRange(ctx, domain.SheetRef{Range: "Leads!A1:Z"})
	require.NoError(t, err)
	assert.Equal(t, domain.A1Range{Sheet: "Leads", StartCol: "A", StartRow: 1, EndCol: "Z"}, rng)
	assert.Zero(t, api.count(http.MethodGet, "/v4/spreadsheets/sheet-123"), "qualified ranges resolve locally")

	rng, err = src.ResolveRange(ctx, domain.SheetRef{Range: "LeadTable"})
	require.NoError(t, err)
	assert.Equal(t, domain.A1Range{Sheet: "Billing Q1", StartCol: "B", StartRow: 3, EndCol: "F"}, rng)

	rng, err = src.ResolveRange(ctx, domain.SheetRef{Range: "Billing Q1"})
	require.NoError(t, err)
	assert.Equal(t, "Billing Q1", rng.Sheet)

	rng, err = src.ResolveRange(ctx, domain.SheetRef{Range: "B2:D"})
	require.NoError(t, err)
	assert.Equal(t, "Leads", rng.Sheet)
	assert.Equal(t, "B", rng.StartCol)

	_, err = src.ResolveRange(ctx, domain.SheetRef{Range: "Missing"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.Equal(t, 1, api.count(http.MethodGet, "/v4/spreadsheets/sheet-123"), "metadata is cached")
}

func TestSource_UpdateCell(t *testing.T) {
	src, api := newTestSource(t, func(w http.ResponseWriter, r *http.Request, _ string) {
		if r.Method == http.MethodGet {
			metadataResponse(w)
			return
		}
		writeJSON(w, map[string]any{"updatedCells": 1})
	})

	err := src.UpdateCell(context.Background(), domain.SheetRef{Range: "LeadTable"}, 7, 2, "Lunas")
	require.NoError(t, err)

	req := api.last()
	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "/v4/spreadsheets/sheet-123/values/'Billing Q1'!D7", req.Path)
	assert.Contains(t, req.Query, "valueInputOption=USER_ENTERED")
	assert.JSONEq(t, `{"values":[["Lunas"]]}`, req.Body)
}

func TestSource_AppendRow(t *testing.T) {
	src, api := newTestSource(t, func(w http.ResponseWriter, _ *http.Request, _ string) {
		writeJSON(w, map[string]any{
			"updates": map[string]any{"updatedRange": "Leads!A12:C12", "updatedRows": 1},
		})
	})

	row, err := src.AppendRow(context.Background(), domain.SheetRef{Range: "Leads!A1:C"}, []string{"12", "Toko Baru", ""})
	require.NoError(t, err)
	assert.Equal(t, 12, row)

	req := api.last()
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/v4/spreadsheets/sheet-123/values/Leads!A1:C:append", req.Path)
	assert.Contains(t, req.Query, "insertDataOption=INSERT_ROWS")
	assert.JSONEq(t, `{"values":[["12","Toko Baru",""]]}`, req.Body)
}

func TestSource_DeleteRow(t *testing.T) {
	src, api := newTestSource(t, func(w http.ResponseWriter, r *http.Request, _ string) {
		if r.Method == http.MethodGet {
			metadataResponse(w)
			return
		}
		writeJSON(w, map[string]any{"spreadsheetId": testSpreadsheet})
	})

	require.NoError(t, src.DeleteRow(context.Background(), domain.SheetRef{Range: "Leads!A1:C"}, 5))

	req := api.last()
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/v4/spreadsheets/sheet-123:batchUpdate", req.Path)

	var body struct {
		Requests []struct {
			DeleteDimension struct {
				Range struct {
					SheetID    *int64 `json:"sheetId"`
					Dimension  string `json:"dimension"`
					StartIndex int64  `json:"startIndex"`
					EndIndex   int64  `json:"endIndex"`
				} `json:"range"`
			} `json:"deleteDimension"`
		} `json:"requests"`
	}
	require.NoError(t, json.Unmarshal([]byte(req.Body), &body))
	require.Len(t, body.Requests, 1)
	got := body.Requests[0].DeleteDimension.Range
	require.NotNil(t, got.SheetID, "sheet id 0 must be sent")
	assert.Equal(t, int64(0), *got.SheetID)
	assert.Equal(t, "ROWS", got.Dimension)
	assert.Equal(t, int64(4), got.StartIndex)
	assert.Equal(t, int64(5), got.EndIndex)
}

func TestSource_DeleteRow_InvalidRow(t *testing.T) {
	src, api := newTestSource(t, func(w http.ResponseWriter, _ *http.Request, _ string) {
		metadataResponse(w)
	})

	err := src.DeleteRow(context.Background(), domain.SheetRef{Range: "Leads!A1:C"}, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, api.requests)
}

func TestNewFromProvider_RequiresSpreadsheet(t *testing.T) {
	_, err := NewFromProvider(context.Background(), nil, "")
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
}
