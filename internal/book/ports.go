package book

import (
	"context"

	"bookshelf/internal/apiclient"
	"bookshelf/internal/entity"
)

//go:generate mockgen -source=ports.go -destination=mock_api.go -package=book

// API is the part of the remote API the catalog uses.
type API interface {
	ListBooks(ctx context.Context, q apiclient.BookQuery) ([]entity.Book, error)
	GetBook(ctx context.Context, id string) (entity.Book, error)
	CreateBook(ctx context.Context, b entity.Book) (entity.Book, error)
	UpdateBook(ctx context.Context, b entity.Book) (entity.Book, error)
	DeleteBook(ctx context.Context, id string) error
	ListReviews(ctx context.Context, bookID string) ([]entity.Review, error)
}
