package services

import (
	"strings"

	"github.com/custodia-labs/leadsheet/internal/core/domain"
	"github.com/custodia-labs/leadsheet/internal/core/ports/driving"
)

// ApplyFilters runs the category filter, then the search filter, then
// paginates. The requested page is clamped into [1, TotalPages]; an empty
// result still has one (empty) page.
func ApplyFilters(records []domain.Record, state domain.FilterState, c driving.Classifier) domain.Page {
	pageSize := state.EffectivePageSize()
	term := strings.ToLower(state.SearchTerm)

	filtered := make([]domain.Record, 0, len(records))
	for _, r := range records {
		if !matchesCategory(r, state.Category, c) {
			continue
		}
		if term != "" && !matchesSearch(r, term) {
			continue
		}
		filtered = append(filtered, r)
	}

	total := len(filtered)
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	page := state.Page
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if end > total {
		end = total
	}

	return domain.Page{
		Records:    filtered[start:end],
		Number:     page,
		PageSize:   pageSize,
		TotalPages: totalPages,
		TotalCount: total,
	}
}

func matchesCategory(r domain.Record, category domain.Category, c driving.Classifier) bool {
	switch category {
	case domain.CategorySchool:
		return c != nil && c.IsSchool(r.Name)
	case domain.CategoryNonSchool:
		return c == nil || !c.IsSchool(r.Name)
	default:
		return true
	}
}

// matchesSearch expects term to be lower-cased already.
func matchesSearch(r domain.Record, term string) bool {
	if strings.Contains(strings.ToLower(r.Name), term) {
		return true
	}
	for _, v := range r.Fields {
		if strings.Contains(strings.ToLower(v), term) {
			return true
		}
	}
	return false
}
