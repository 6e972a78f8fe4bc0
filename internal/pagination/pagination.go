// Package pagination slices in-memory collections into pages.
package pagination

import (
	"net/url"
	"strconv"
)

const (
	DefaultSize = 20
	MaxSize     = 100
)

// Meta describes where a page sits in its collection.
type Meta struct {
	Page       int  `json:"page"`
	PageSize   int  `json:"pageSize"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

type Page[T any] struct {
	Items []T `json:"items"`
	Meta
}

// Paginate returns the requested page of items. The page number is clamped
// to [1, TotalPages] and an empty collection still has one (empty) page.
func Paginate[T any](items []T, page, size int) Page[T] {
	size = NormalizeSize(size)

	total := len(items)
	totalPages := (total + size - 1) / size
	if totalPages < 1 {
		totalPages = 1
	}

	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * size
	end := start + size
	if end > total {
		end = total
	}

	out := make([]T, end-start)
	copy(out, items[start:end])

	return Page[T]{
		Items: out,
		Meta: Meta{
			Page:       page,
			PageSize:   size,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
			HasPrev:    page > 1,
		},
	}
}

func NormalizeSize(size int) int {
	if size <= 0 {
		return DefaultSize
	}
	if size > MaxSize {
		return MaxSize
	}
	return size
}

// FromQuery reads page and page_size (or limit) from q. Missing or
// unparsable values come back as zero and are defaulted by Paginate.
func FromQuery(q url.Values) (page, size int) {
	page, _ = strconv.Atoi(q.Get("page"))
	sizeStr := q.Get("page_size")
	if sizeStr == "" {
		sizeStr = q.Get("limit")
	}
	size, _ = strconv.Atoi(sizeStr)
	return page, size
}

// Map flattens m for response metadata.
func (m Meta) Map() map[string]interface{} {
	return map[string]interface{}{
		"page":        m.Page,
		"page_size":   m.PageSize,
		"total":       m.Total,
		"total_pages": m.TotalPages,
		"has_next":    m.HasNext,
		"has_prev":    m.HasPrev,
	}
}
