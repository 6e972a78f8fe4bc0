package review

import (
	"context"
	"fmt"

	"bookshelf/internal/entity"
)

var (
	ErrNotFound  = fmt.Errorf("review %w", entity.ErrNotFound)
	ErrNotAuthor = fmt.Errorf("%w: only the author or an admin may delete a review", entity.ErrForbidden)
)

type API interface {
	ListReviews(ctx context.Context, bookID string) ([]entity.Review, error)
	CreateReview(ctx context.Context, r entity.Review) (entity.Review, error)
	DeleteReview(ctx context.Context, id string) error
}
