package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/custodia-labs/leadsheet/internal/core/domain"
)

type sheetJSON struct {
	Key       string `json:"key"`
	Kind      string `json:"kind"`
	Title     string `json:"title"`
	Range     string `json:"range"`
	NameField string `json:"nameField"`
}

type recordJSON struct {
	Row    int               `json:"row"`
	Name   string            `json:"name"`
	School bool              `json:"school"`
	Fields map[string]string `json:"fields"`
}

type listJSON struct {
	Sheet      string       `json:"sheet"`
	Headers    []string     `json:"headers"`
	Records    []recordJSON `json:"records"`
	Search     string       `json:"search"`
	Category   string       `json:"category"`
	Page       int          `json:"page"`
	PageSize   int          `json:"pageSize"`
	TotalPages int          `json:"totalPages"`
	TotalCount int          `json:"totalCount"`
	FetchedAt  time.Time    `json:"fetchedAt"`
}

type billingJSON struct {
	Header string `json:"header"`
	Period string `json:"period"`
	Paid   int    `json:"paid"`
	Unpaid int    `json:"unpaid"`
}

type activityJSON struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Actor     string    `json:"actor"`
	Action    string    `json:"action"`
	Sheet     string    `json:"sheet"`
	Row       int       `json:"row,omitempty"`
	Detail    string    `json:"detail,omitempty"`
}

type identityJSON struct {
	Subject  string `json:"subject"`
	Email    string `json:"email,omitempty"`
	Name     string `json:"name,omitempty"`
	Provider string `json:"provider"`
}

type appendRequest struct {
	Values map[string]string `json:"values"`
}

type updateRequest struct {
	Column string `json:"column"`
	Value  string `json:"value"`
}

const defaultActivityLimit = 20

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSheets(w http.ResponseWriter, _ *http.Request) {
	refs, err := s.ports.Settings.Sheets()
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]sheetJSON, 0, len(refs))
	for _, ref := range refs {
		out = append(out, sheetJSON{
			Key:       ref.Key,
			Kind:      string(ref.Kind),
			Title:     ref.DisplayTitle(),
			Range:     ref.Range,
			NameField: ref.EffectiveNameField(),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	state, err := s.filterState(r)
	if err != nil {
		writeError(w, err)
		return
	}

	res, err := s.ports.Records.List(r.Context(), chi.URLParam(r, "sheet"), state)
	if err != nil {
		writeError(w, err)
		return
	}

	out := listJSON{
		Sheet:      res.Sheet.Key,
		Headers:    res.Headers,
		Records:    make([]recordJSON, 0, len(res.Page.Records)),
		Search:     res.State.SearchTerm,
		Category:   res.State.Category.String(),
		Page:       res.Page.Number,
		PageSize:   res.Page.PageSize,
		TotalPages: res.Page.TotalPages,
		TotalCount: res.Page.TotalCount,
		FetchedAt:  res.FetchedAt,
	}
	for _, rec := range res.Page.Records {
		out.Records = append(out.Records, recordJSON{
			Row:    rec.Row,
			Name:   rec.Name,
			School: s.ports.Records.Classify(rec.Name),
			Fields: rec.Fields,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// filterState reads search, category, page and pageSize from the query.
func (s *Server) filterState(r *http.Request) (domain.FilterState, error) {
	q := r.URL.Query()

	pageSize := 0
	if settings, err := s.ports.Settings.Get(); err == nil {
		pageSize = settings.PageSize
	}
	if v := q.Get("pageSize"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return domain.FilterState{}, fmt.Errorf("pageSize %q: %w", v, domain.ErrInvalidInput)
		}
		pageSize = n
	}
	state := domain.NewFilterState(pageSize)

	category, err := domain.ParseCategory(q.Get("category"))
	if err != nil {
		return domain.FilterState{}, err
	}
	state = state.WithSearch(q.Get("search")).WithCategory(category)

	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return domain.FilterState{}, fmt.Errorf("page %q: %w", v, domain.ErrInvalidInput)
		}
		state = state.WithPage(n)
	}
	return state, nil
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		writeError(w, fmt.Errorf("name is required: %w", domain.ErrInvalidInput))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"name":   name,
		"school": s.ports.Records.Classify(name),
	})
}

func (s *Server) handleBilling(w http.ResponseWriter, r *http.Request) {
	if s.ports.Billing == nil {
		writeError(w, domain.ErrNotImplemented)
		return
	}
	summary, err := s.ports.Billing.Summary(r.Context(), chi.URLParam(r, "sheet"))
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]billingJSON, 0, len(summary))
	for _, st := range summary {
		out = append(out, billingJSON{
			Header: st.Column.Header,
			Period: st.Column.Period.String(),
			Paid:   st.Paid,
			Unpaid: st.Unpaid,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	if s.ports.Activity == nil {
		writeError(w, domain.ErrNotImplemented)
		return
	}
	limit := defaultActivityLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, fmt.Errorf("limit %q: %w", v, domain.ErrInvalidInput))
			return
		}
		limit = n
	}

	entries, err := s.ports.Activity.Recent(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]activityJSON, 0, len(entries))
	for _, e := range entries {
		out = append(out, activityJSON{
			ID:        e.ID,
			Timestamp: e.Timestamp,
			Actor:     e.Actor,
			Action:    string(e.Action),
			Sheet:     e.SheetKey,
			Row:       e.Row,
			Detail:    e.Detail,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	id := IdentityFromContext(r.Context())
	writeJSON(w, http.StatusOK, identityJSON{
		Subject:  id.Subject,
		Email:    id.Email,
		Name:     id.Name,
		Provider: id.Provider,
	})
}

func (s *Server) handleAppendRow(w http.ResponseWriter, r *http.Request) {
	var req appendRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if len(req.Values) == 0 {
		writeError(w, fmt.Errorf("values are required: %w", domain.ErrInvalidInput))
		return
	}

	row, err := s.ports.Records.AppendRow(r.Context(), IdentityFromContext(r.Context()), chi.URLParam(r, "sheet"), req.Values)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int{"row": row})
}

func (s *Server) handleUpdateCell(w http.ResponseWriter, r *http.Request) {
	row, err := rowParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req updateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	err = s.ports.Records.UpdateCell(r.Context(), IdentityFromContext(r.Context()), chi.URLParam(r, "sheet"), row, req.Column, req.Value)
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteRow(w http.ResponseWriter, r *http.Request) {
	row, err := rowParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.ports.Records.DeleteRow(r.Context(), IdentityFromContext(r.Context()), chi.URLParam(r, "sheet"), row); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	snap, err := s.ports.Records.Refresh(r.Context(), chi.URLParam(r, "sheet"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"sheet":     snap.SheetKey,
		"records":   len(snap.Table.Records),
		"fetchedAt": snap.FetchedAt,
	})
}

func rowParam(r *http.Request) (int, error) {
	v := chi.URLParam(r, "row")
	row, err := strconv.Atoi(v)
	if err != nil || row < 1 {
		return 0, fmt.Errorf("row %q: %w", v, domain.ErrInvalidInput)
	}
	return row, nil
}

// decodeBody decodes a JSON body, rejecting unknown fields and trailing data.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return fmt.Errorf("request body exceeds %d bytes: %w", maxErr.Limit, domain.ErrInvalidInput)
		}
		return fmt.Errorf("decode request: %v: %w", err, domain.ErrInvalidInput)
	}
	if dec.More() {
		return fmt.Errorf("unexpected data after JSON body: %w", domain.ErrInvalidInput)
	}
	return nil
}
