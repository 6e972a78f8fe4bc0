package book

import (
	"fmt"
	"strings"

	"bookshelf/internal/entity"
)

// ErrNotFound is returned when a book is not found.
var ErrNotFound = fmt.Errorf("book %w", entity.ErrNotFound)

// Filter narrows and pages the catalog.
type Filter struct {
	Genre    string
	Search   string
	Page     int
	PageSize int
}

// Matches reports whether b passes the genre and search filters.
func (f Filter) Matches(b entity.Book) bool {
	if f.Genre != "" && !strings.EqualFold(strings.TrimSpace(b.Genre), strings.TrimSpace(f.Genre)) {
		return false
	}

	term := strings.ToLower(strings.TrimSpace(f.Search))
	if term == "" {
		return true
	}
	if strings.Contains(strings.ToLower(b.Title), term) || strings.Contains(strings.ToLower(b.Author), term) {
		return true
	}
	isbn, want := compactISBN(b.ISBN), compactISBN(term)
	return isbn != "" && want != "" && strings.Contains(isbn, want)
}

func compactISBN(s string) string {
	return strings.ToLower(strings.NewReplacer("-", "", " ", "").Replace(s))
}

// Detail is a book with its reviews, newest first.
type Detail struct {
	Book          entity.Book     `json:"book"`
	Reviews       []entity.Review `json:"reviews"`
	AverageRating float64         `json:"averageRating"`
	ReviewCount   int             `json:"reviewCount"`
}
