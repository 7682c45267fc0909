// Package query applies ownership scoping, filtering, sorting and pagination
// to collection snapshots supplied by the storage layer.
package query

import (
	"sort"
	"strings"
	"time"
)

// DefaultLimit is the page size used when the caller supplies none.
const DefaultLimit = 10

// DefaultSortField orders results by creation time unless overridden.
const DefaultSortField = "created_at"

// Params captures normalized list-query parameters.
type Params struct {
	Status   string
	Priority string
	Category string
	Search   string
	SortBy   string
	SortDir  string
	Page     int
	Limit    int
}

// Normalize applies defaults: first page, default limit, creation-time
// descending sort.
func (p Params) Normalize() Params {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.SortBy == "" {
		p.SortBy = DefaultSortField
	}
	if p.SortDir != "asc" {
		p.SortDir = "desc"
	}
	return p
}

// IsDefault reports whether the parameters match the default query shape.
// Only default-shape results are eligible for the result cache.
func (p Params) IsDefault() bool {
	n := p.Normalize()
	return p.Status == "" && p.Priority == "" && p.Category == "" && p.Search == "" &&
		n.Page == 1 && n.Limit == DefaultLimit &&
		n.SortBy == DefaultSortField && n.SortDir == "desc"
}

// Viewer identifies the requesting subject for ownership scoping.
type Viewer struct {
	SubjectID string
	ViewAll   bool
}

// Pagination summarizes a result page.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// Result is one page of entities plus its pagination summary.
type Result[T any] struct {
	Items      []T
	Pagination Pagination
}

// Descriptor tells the engine how to read an entity's fields. Fields holds
// string-valued filter/sort accessors, Times holds date-valued sort accessors,
// Search lists the free-text fields. Shared may be nil for entities that
// cannot be shared.
type Descriptor[T any] struct {
	Owner  func(T) string
	Shared func(T) []string
	Fields map[string]func(T) string
	Times  map[string]func(T) time.Time
	Search []func(T) string
}

// Engine runs list queries over snapshots of one entity type.
type Engine[T any] struct {
	desc Descriptor[T]
}

// NewEngine builds an engine from a field descriptor.
func NewEngine[T any](desc Descriptor[T]) *Engine[T] {
	return &Engine[T]{desc: desc}
}

// Run scopes, filters, sorts and paginates the snapshot for the viewer.
// A page past the end yields an empty slice, not an error.
func (e *Engine[T]) Run(items []T, viewer Viewer, p Params) Result[T] {
	p = p.Normalize()

	scoped := e.scope(items, viewer)
	filtered := e.filter(scoped, p)
	e.sortItems(filtered, p)

	total := len(filtered)
	pages := (total + p.Limit - 1) / p.Limit

	start := (p.Page - 1) * p.Limit
	end := start + p.Limit
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return Result[T]{
		Items: filtered[start:end],
		Pagination: Pagination{
			Page:  p.Page,
			Limit: p.Limit,
			Total: total,
			Pages: pages,
		},
	}
}

func (e *Engine[T]) scope(items []T, viewer Viewer) []T {
	if viewer.ViewAll {
		return append([]T(nil), items...)
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		if e.desc.Owner(item) == viewer.SubjectID {
			out = append(out, item)
			continue
		}
		if e.desc.Shared != nil {
			for _, id := range e.desc.Shared(item) {
				if id == viewer.SubjectID {
					out = append(out, item)
					break
				}
			}
		}
	}
	return out
}

func (e *Engine[T]) filter(items []T, p Params) []T {
	exact := map[string]string{
		"status":   p.Status,
		"priority": p.Priority,
		"category": p.Category,
	}
	term := strings.ToLower(strings.TrimSpace(p.Search))

	out := items[:0]
	for _, item := range items {
		if !e.matchExact(item, exact) {
			continue
		}
		if term != "" && !e.matchSearch(item, term) {
			continue
		}
		out = append(out, item)
	}
	return out
}

func (e *Engine[T]) matchExact(item T, wanted map[string]string) bool {
	for field, value := range wanted {
		if value == "" {
			continue
		}
		accessor, ok := e.desc.Fields[field]
		if !ok {
			return false
		}
		if !strings.EqualFold(accessor(item), value) {
			return false
		}
	}
	return true
}

// matchSearch is a case-insensitive substring match; any field hit matches.
func (e *Engine[T]) matchSearch(item T, term string) bool {
	for _, accessor := range e.desc.Search {
		if strings.Contains(strings.ToLower(accessor(item)), term) {
			return true
		}
	}
	return false
}

func (e *Engine[T]) sortItems(items []T, p Params) {
	less := e.lessFunc(p.SortBy)
	if less == nil {
		less = e.lessFunc(DefaultSortField)
	}
	if less == nil {
		return
	}
	sort.SliceStable(items, func(i, j int) bool {
		if p.SortDir == "asc" {
			return less(items[i], items[j])
		}
		return less(items[j], items[i])
	})
}

// lessFunc compares dates by instant and strings case-insensitively.
func (e *Engine[T]) lessFunc(field string) func(a, b T) bool {
	if accessor, ok := e.desc.Times[field]; ok {
		return func(a, b T) bool { return accessor(a).Before(accessor(b)) }
	}
	if accessor, ok := e.desc.Fields[field]; ok {
		return func(a, b T) bool {
			return strings.ToLower(accessor(a)) < strings.ToLower(accessor(b))
		}
	}
	return nil
}
