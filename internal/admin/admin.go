package admin

import (
	"context"

	"bookshelf/internal/entity"
)

//go:generate mockgen -source=admin.go -destination=mock_api.go -package=admin

// API is the administrative part of the remote API.
type API interface {
	ListUsers(ctx context.Context) ([]entity.User, error)
	ListAllReviews(ctx context.Context) ([]entity.Review, error)
	DeleteReview(ctx context.Context, id string) error
}
