package main

import (
	"testing"

	"bookshelf/internal/entity"
	"bookshelf/internal/form"

	"github.com/stretchr/testify/assert"
)

func TestPrefillKeepsExplicitFields(t *testing.T) {
	f := form.BookForm{Title: "My Dune", ISBN: "9780441172719"}
	prefill(&f, entity.Book{
		Title:         "Dune",
		Author:        "Frank Herbert",
		Genre:         "Science Fiction",
		PublishedYear: 1990,
		ISBN:          "9780441172719",
	})

	assert.Equal(t, "My Dune", f.Title)
	assert.Equal(t, "Frank Herbert", f.Author)
	assert.Equal(t, "Science Fiction", f.Genre)
	assert.Equal(t, 1990, f.PublishedYear)
}
