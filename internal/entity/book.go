package entity

import "strings"

type Book struct {
	ID            string  `json:"id,omitempty"`
	Title         string  `json:"title"`
	Author        string  `json:"author"`
	Genre         string  `json:"genre,omitempty"`
	Description   string  `json:"description,omitempty"`
	CoverImage    string  `json:"coverImage,omitempty"`
	Rating        float64 `json:"rating,omitempty"`
	PublishedYear int     `json:"publishedYear,omitempty"`
	ISBN          string  `json:"isbn,omitempty"`
}

// Valid reports whether the record carries the fields every view relies on.
func (b Book) Valid() bool {
	return strings.TrimSpace(b.ID) != "" && strings.TrimSpace(b.Title) != ""
}
