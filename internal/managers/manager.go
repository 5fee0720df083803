// Package managers implements the domain managers: per-entity CRUD and
// query logic on top of the shared gorm handle, plus the permission
// checks gating mutations. Storage constraint violations are translated
// into the apperror taxonomy here; raw gorm errors never reach the HTTP
// layer.
package managers

import (
	"fmt"
	"strings"

	"github.com/inkwell/inkwell/internal/apperror"
)

const (
	defaultPageSize = 50
	maxPageSize     = 100
)

// PageParams selects one page of a list result.
type PageParams struct {
	Page int
	Size int
}

func (p PageParams) normalized() PageParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Size < 1 {
		p.Size = defaultPageSize
	}
	if p.Size > maxPageSize {
		p.Size = maxPageSize
	}
	return p
}

func (p PageParams) offset() int {
	return (p.Page - 1) * p.Size
}

// Page is one page of a list result.
type Page[T any] struct {
	Items []T
	Total int64
	Page  int
	Size  int
	Pages int
}

func newPage[T any](items []T, total int64, p PageParams) *Page[T] {
	pages := int((total + int64(p.Size) - 1) / int64(p.Size))
	return &Page[T]{Items: items, Total: total, Page: p.Page, Size: p.Size, Pages: pages}
}

// parseOrder maps a caller-supplied sort field to an ORDER BY clause.
// A leading '-' requests descending order. Fields outside the allowed
// set are rejected so callers cannot order by arbitrary SQL.
func parseOrder(orderBy string, allowed map[string]string) (string, error) {
	field := orderBy
	desc := false
	switch {
	case strings.HasPrefix(field, "-"):
		desc = true
		field = field[1:]
	case strings.HasPrefix(field, "+"):
		field = field[1:]
	}

	column, ok := allowed[field]
	if !ok {
		return "", apperror.BadRequest(fmt.Sprintf("cannot order by %q", orderBy))
	}
	if desc {
		return column + " DESC", nil
	}
	return column + " ASC", nil
}
