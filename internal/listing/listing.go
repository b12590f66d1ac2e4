// Package listing is the shared filter/search/sort/paginate pipeline used
// by the announcement, event, gallery and poll listings. Each module
// supplies a Module descriptor; the pipeline itself never branches on
// which module it is serving.
package listing

import (
	"fmt"
	"math"
	"strings"

	"gorm.io/gorm"

	"osiedle/internal/content"
)

type Scope string

const (
	ScopeAll         Scope = "all"
	ScopeNonArchived Scope = "all_non_archived"
	ScopeArchived    Scope = "all_archived"
	ScopeMine        Scope = "mine"
)

const DefaultPerPage = 10

// Module describes one content type to the pipeline. Optional fields are
// left empty for modules that do not have the concept: galleries carry no
// verification or archival, polls no verification.
type Module struct {
	// SearchColumns are OR-combined for case-insensitive keyword search.
	SearchColumns []string
	// FacetColumn is the single categorical field behind the exact-match
	// dropdown filter, e.g. place or location.
	FacetColumn string
	// Sorts is the allow-list of sort keys to ORDER BY clauses. Keys use
	// the query-string convention: "date" ascending, "-date" descending.
	Sorts map[string]string
	// DefaultSort must be a key of Sorts; it is applied when the caller's
	// key is absent or unrecognized.
	DefaultSort string
	// VerifiedColumn, when set, hides unverified rows from every scope.
	VerifiedColumn string
	// ArchivedExpr is a SQL predicate meaning "this row is archived". It
	// normalizes the two representations: "archive_date IS NOT NULL" for
	// timestamp modules, "is_archived" for boolean ones.
	ArchivedExpr string
	// CreatorColumn is the owner foreign key, required for the mine scope.
	CreatorColumn string
	PerPage       int
}

// Query is the caller's structured request. It is translated into SQL in
// one pass; nothing is conditionally mutated after building.
type Query struct {
	Scope   Scope
	Keyword string
	Facet   string
	SortKey string
	Page    int
}

// Page echoes the effective scope/sort/facet back so the UI can restore
// its controls from the response alone.
type Page[T any] struct {
	Items       []T      `json:"items"`
	Page        int      `json:"page"`
	TotalPages  int      `json:"total_pages"`
	TotalCount  int64    `json:"total_count"`
	FacetValues []string `json:"facet_values,omitempty"`
	Scope       Scope    `json:"scope"`
	SortKey     string   `json:"sort_key"`
	Facet       string   `json:"facet,omitempty"`
}

// Run executes the pipeline for one module. viewerID of zero means an
// anonymous caller; the mine scope then fails with ErrUnauthorized rather
// than returning an empty page.
func Run[T any](db *gorm.DB, m Module, q Query, viewerID uint) (*Page[T], error) {
	if q.Scope == "" {
		q.Scope = ScopeNonArchived
	}
	if q.Scope == ScopeMine && viewerID == 0 {
		return nil, fmt.Errorf("%w: listing scope %q requires a logged-in user", content.ErrUnauthorized, q.Scope)
	}

	filtered, err := buildFilter[T](db, m, q, viewerID)
	if err != nil {
		return nil, err
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count listing: %w", err)
	}

	perPage := m.PerPage
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	totalPages := TotalPages(total, perPage)
	page := ClampPage(q.Page, total, perPage)

	sortKey, order := m.resolveSort(q.SortKey)
	if q.Scope == ScopeMine && m.ArchivedExpr != "" {
		// A user's own archive never interleaves with active content:
		// archived rows always sort last, whatever key was chosen.
		order = "CASE WHEN " + m.ArchivedExpr + " THEN 1 ELSE 0 END, " + order
	}

	items := []T{}
	err = filtered().
		Order(order).
		Limit(perPage).
		Offset((page - 1) * perPage).
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("query listing: %w", err)
	}

	facets, err := facetValues[T](db, m, q, viewerID)
	if err != nil {
		return nil, err
	}

	return &Page[T]{
		Items:       items,
		Page:        page,
		TotalPages:  totalPages,
		TotalCount:  total,
		FacetValues: facets,
		Scope:       q.Scope,
		SortKey:     sortKey,
		Facet:       q.Facet,
	}, nil
}

// TotalPages reports the page count for a result set, never less than 1
// so empty listings still render page 1 of 1.
func TotalPages(total int64, perPage int) int {
	pages := int(math.Ceil(float64(total) / float64(perPage)))
	if pages == 0 {
		pages = 1
	}
	return pages
}

// ClampPage snaps an out-of-range page number to the nearest valid page
// instead of erroring, matching standard paginator behavior.
func ClampPage(page int, total int64, perPage int) int {
	if page < 1 {
		return 1
	}
	if max := TotalPages(total, perPage); page > max {
		return max
	}
	return page
}

// buildFilter returns a factory for the filtered query so counting and
// fetching each run on a fresh statement.
func buildFilter[T any](db *gorm.DB, m Module, q Query, viewerID uint) (func() *gorm.DB, error) {
	switch q.Scope {
	case ScopeAll, ScopeNonArchived, ScopeArchived, ScopeMine:
	default:
		return nil, fmt.Errorf("%w: unknown listing scope %q", content.ErrValidation, q.Scope)
	}

	return func() *gorm.DB {
		tx := db.Model(new(T))
		// Visibility first, never optional: unverified content is
		// invisible in every public listing, its creator's included.
		if m.VerifiedColumn != "" {
			tx = tx.Where(m.VerifiedColumn+" = ?", true)
		}
		switch q.Scope {
		case ScopeNonArchived:
			if m.ArchivedExpr != "" {
				tx = tx.Where("NOT (" + m.ArchivedExpr + ")")
			}
		case ScopeArchived:
			if m.ArchivedExpr != "" {
				tx = tx.Where(m.ArchivedExpr)
			}
		case ScopeMine:
			tx = tx.Where(m.CreatorColumn+" = ?", viewerID)
		}
		if q.Keyword != "" && len(m.SearchColumns) > 0 {
			pattern := "%" + strings.ToLower(q.Keyword) + "%"
			conds := make([]string, len(m.SearchColumns))
			args := make([]any, len(m.SearchColumns))
			for i, col := range m.SearchColumns {
				conds[i] = "LOWER(" + col + ") LIKE ?"
				args[i] = pattern
			}
			tx = tx.Where(strings.Join(conds, " OR "), args...)
		}
		if q.Facet != "" && m.FacetColumn != "" {
			tx = tx.Where(m.FacetColumn+" = ?", q.Facet)
		}
		return tx
	}, nil
}

func (m Module) resolveSort(key string) (string, string) {
	if order, ok := m.Sorts[key]; ok {
		return key, order
	}
	return m.DefaultSort, m.Sorts[m.DefaultSort]
}

// facetValues lists the distinct values of the facet column, scoped the
// same way the mine/all selection is, so the dropdown only offers values
// that can actually match.
func facetValues[T any](db *gorm.DB, m Module, q Query, viewerID uint) ([]string, error) {
	if m.FacetColumn == "" {
		return nil, nil
	}
	tx := db.Model(new(T))
	if q.Scope == ScopeMine {
		tx = tx.Where(m.CreatorColumn+" = ?", viewerID)
	}
	var values []string
	err := tx.Distinct().Order(m.FacetColumn + " ASC").Pluck(m.FacetColumn, &values).Error
	if err != nil {
		return nil, fmt.Errorf("facet values: %w", err)
	}
	return values, nil
}
