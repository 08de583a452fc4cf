package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for leadsheet resources.
	uriScheme = "leadsheet://"

	// activityLimit caps the activity resource.
	activityLimit = 50
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Template for billing summaries.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "sheets/{sheetKey}/billing",
		Name:        "sheet-billing",
		Description: "Paid and unpaid counts per billing month of a sheet",
		MIMEType:    "application/json",
	}, s.handleBillingResource)

	// Static resource for the activity log.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "activity",
		Name:        "activity",
		Description: "Most recent write operations, newest first",
		MIMEType:    "application/json",
	}, s.handleActivityResource)
}

// handleBillingResource returns the billing summary of a sheet.
func (s *Server) handleBillingResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Billing == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	// Extract sheetKey from URI: leadsheet://sheets/{sheetKey}/billing
	key := extractSheetKey(req.Params.URI)
	if key == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	summary, err := s.ports.Billing.Summary(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("summarising billing: %w", err)
	}

	type monthInfo struct {
		Header string `json:"header"`
		Period string `json:"period"`
		Paid   int    `json:"paid"`
		Unpaid int    `json:"unpaid"`
	}

	infos := make([]monthInfo, len(summary))
	for i, st := range summary {
		infos[i] = monthInfo{
			Header: st.Column.Header,
			Period: st.Column.Period.String(),
			Paid:   st.Paid,
			Unpaid: st.Unpaid,
		}
	}

	return jsonResource(req.Params.URI, infos)
}

// handleActivityResource returns the most recent activity entries.
func (s *Server) handleActivityResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Activity == nil {
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     "[]",
			}},
		}, nil
	}

	entries, err := s.ports.Activity.Recent(ctx, activityLimit)
	if err != nil {
		return nil, fmt.Errorf("listing activity: %w", err)
	}

	type entryInfo struct {
		Timestamp string `json:"timestamp"`
		Actor     string `json:"actor"`
		Action    string `json:"action"`
		Sheet     string `json:"sheet"`
		Row       int    `json:"row,omitempty"`
		Detail    string `json:"detail,omitempty"`
	}

	infos := make([]entryInfo, len(entries))
	for i, e := range entries {
		infos[i] = entryInfo{
			Timestamp: e.Values()[1],
			Actor:     e.Actor,
			Action:    string(e.Action),
			Sheet:     e.SheetKey,
			Row:       e.Row,
			Detail:    e.Detail,
		}
	}

	return jsonResource(req.Params.URI, infos)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractSheetKey extracts the sheet key from a URI like leadsheet://sheets/{sheetKey}/billing.
func extractSheetKey(uri string) string {
	const prefix = uriScheme + "sheets/"
	const suffix = "/billing"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	uri = strings.TrimPrefix(uri, prefix)
	if !strings.HasSuffix(uri, suffix) {
		return ""
	}

	return strings.TrimSuffix(uri, suffix)
}
