package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/leadsheet/internal/core/domain"
)

// ListRecordsInput is the input schema for the list_records tool.
type ListRecordsInput struct {
	Sheet    string `json:"sheet" jsonschema:"key of a configured sheet, see list_sheets"`
	Search   string `json:"search,omitempty" jsonschema:"case-insensitive substring matched against the name column"`
	Category string `json:"category,omitempty" jsonschema:"all, school or non-school (default all)"`
	Page     int    `json:"page,omitempty" jsonschema:"1-based page number (default 1)"`
	PageSize int    `json:"page_size,omitempty" jsonschema:"records per page (default from settings)"`
}

// ListRecordsOutput is the output schema for the list_records tool.
type ListRecordsOutput struct {
	Sheet      string         `json:"sheet"`
	Headers    []string       `json:"headers"`
	Records    []RecordOutput `json:"records"`
	Page       int            `json:"page"`
	TotalPages int            `json:"total_pages"`
	TotalCount int            `json:"total_count"`
	FetchedAt  string         `json:"fetched_at,omitempty"`
}

// RecordOutput represents a single sheet record.
type RecordOutput struct {
	Row    int               `json:"row"`
	Name   string            `json:"name"`
	School bool              `json:"school"`
	Fields map[string]string `json:"fields"`
}

// ClassifyInput is the input schema for the classify_name tool.
type ClassifyInput struct {
	Names []string `json:"names" jsonschema:"lead or customer names to classify"`
}

// ClassifyOutput is the output schema for the classify_name tool.
type ClassifyOutput struct {
	Results []ClassifyResult `json:"results"`
}

// ClassifyResult is the verdict for one name.
type ClassifyResult struct {
	Name   string `json:"name"`
	School bool   `json:"school"`
}

// ListSheetsInput is the (empty) input schema for the list_sheets tool.
type ListSheetsInput struct{}

// ListSheetsOutput is the output schema for the list_sheets tool.
type ListSheetsOutput struct {
	Sheets []SheetOutput `json:"sheets"`
}

// SheetOutput describes a configured sheet.
type SheetOutput struct {
	Key       string `json:"key"`
	Kind      string `json:"kind"`
	Title     string `json:"title"`
	NameField string `json:"name_field"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_records",
		Description: "List one page of records from a configured sheet, optionally filtered by name and school category",
	}, s.handleListRecords)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "classify_name",
		Description: "Classify names as school (educational institution) or non-school",
	}, s.handleClassify)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_sheets",
		Description: "List the configured sheets and their keys",
	}, s.handleListSheets)
}

// handleListRecords handles the list_records tool invocation.
func (s *Server) handleListRecords(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListRecordsInput,
) (*mcp.CallToolResult, ListRecordsOutput, error) {
	if strings.TrimSpace(input.Sheet) == "" {
		return nil, ListRecordsOutput{}, fmt.Errorf("sheet is required: %w", domain.ErrInvalidInput)
	}
	category, err := domain.ParseCategory(input.Category)
	if err != nil {
		return nil, ListRecordsOutput{}, err
	}

	pageSize := input.PageSize
	if pageSize <= 0 {
		if settings, err := s.ports.Settings.Get(); err == nil {
			pageSize = settings.PageSize
		}
	}
	state := domain.NewFilterState(pageSize).
		WithSearch(input.Search).
		WithCategory(category).
		WithPage(input.Page)

	res, err := s.ports.Records.List(ctx, input.Sheet, state)
	if err != nil {
		return nil, ListRecordsOutput{}, err
	}

	output := ListRecordsOutput{
		Sheet:      res.Sheet.Key,
		Headers:    res.Headers,
		Records:    make([]RecordOutput, len(res.Page.Records)),
		Page:       res.Page.Number,
		TotalPages: res.Page.TotalPages,
		TotalCount: res.Page.TotalCount,
	}
	if !res.FetchedAt.IsZero() {
		output.FetchedAt = res.FetchedAt.UTC().Format(time.RFC3339)
	}
	for i, rec := range res.Page.Records {
		output.Records[i] = RecordOutput{
			Row:    rec.Row,
			Name:   rec.Name,
			School: s.ports.Records.Classify(rec.Name),
			Fields: rec.Fields,
		}
	}

	return nil, output, nil
}

// handleClassify handles the classify_name tool invocation.
func (s *Server) handleClassify(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input ClassifyInput,
) (*mcp.CallToolResult, ClassifyOutput, error) {
	if len(input.Names) == 0 {
		return nil, ClassifyOutput{}, fmt.Errorf("at least one name is required: %w", domain.ErrInvalidInput)
	}

	output := ClassifyOutput{Results: make([]ClassifyResult, len(input.Names))}
	for i, name := range input.Names {
		output.Results[i] = ClassifyResult{Name: name, School: s.ports.Records.Classify(name)}
	}
	return nil, output, nil
}

// handleListSheets handles the list_sheets tool invocation.
func (s *Server) handleListSheets(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ ListSheetsInput,
) (*mcp.CallToolResult, ListSheetsOutput, error) {
	refs, err := s.ports.Settings.Sheets()
	if err != nil {
		return nil, ListSheetsOutput{}, err
	}

	output := ListSheetsOutput{Sheets: make([]SheetOutput, len(refs))}
	for i, ref := range refs {
		output.Sheets[i] = SheetOutput{
			Key:       ref.Key,
			Kind:      string(ref.Kind),
			Title:     ref.DisplayTitle(),
			NameField: ref.EffectiveNameField(),
		}
	}
	return nil, output, nil
}
