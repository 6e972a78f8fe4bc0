package readinglist

import (
	"context"
	"fmt"

	"bookshelf/internal/entity"
)

var (
	ErrNotFound      = fmt.Errorf("reading list %w", entity.ErrNotFound)
	ErrBookNotInList = fmt.Errorf("%w: book is not in the reading list", entity.ErrInvalidInput)
)

// API is the part of the remote API reading lists use.
type API interface {
	ListReadingLists(ctx context.Context) ([]entity.ReadingList, error)
	GetReadingList(ctx context.Context, id string) (entity.ReadingList, error)
	CreateReadingList(ctx context.Context, l entity.ReadingList) (entity.ReadingList, error)
	UpdateReadingList(ctx context.Context, l entity.ReadingList) (entity.ReadingList, error)
	DeleteReadingList(ctx context.Context, id string) error
	GetBooks(ctx context.Context, ids []string) ([]entity.Book, error)
}

type Progress struct {
	Completed int     `json:"completed"`
	Total     int     `json:"total"`
	Percent   float64 `json:"percent"`
}

// ProgressOf counts completed books in l.
func ProgressOf(l entity.ReadingList) Progress {
	p := Progress{Total: len(l.BookIDs)}
	for _, id := range l.BookIDs {
		if l.IsCompleted(id) {
			p.Completed++
		}
	}
	if p.Total > 0 {
		p.Percent = float64(p.Completed) * 100 / float64(p.Total)
	}
	return p
}

// View is a reading list with its books resolved.
type View struct {
	List     entity.ReadingList `json:"list"`
	Books    []entity.Book      `json:"books"`
	Progress Progress           `json:"progress"`
}

func withCompleted(l entity.ReadingList, bookID string, done bool) entity.ReadingList {
	out := l.Clone()
	if done {
		if !out.IsCompleted(bookID) {
			out.CompletedBookIDs = append(out.CompletedBookIDs, bookID)
		}
		return out
	}
	kept := make([]string, 0, len(out.CompletedBookIDs))
	for _, id := range out.CompletedBookIDs {
		if id != bookID {
			kept = append(kept, id)
		}
	}
	if len(kept) == 0 {
		kept = nil
	}
	out.CompletedBookIDs = kept
	return out
}

func withoutBook(l entity.ReadingList, bookID string) entity.ReadingList {
	out := withCompleted(l, bookID, false)
	kept := make([]string, 0, len(out.BookIDs))
	for _, id := range out.BookIDs {
		if id != bookID {
			kept = append(kept, id)
		}
	}
	out.BookIDs = kept
	return out
}
