package apiclient

import (
	"context"

	"bookshelf/internal/entity"
)

// ListUsers requires an admin token.
func (c *Client) ListUsers(ctx context.Context) ([]entity.User, error) {
	return collect(ctx, c, "/admin/users", nil, entity.User.Valid, "users")
}

// ListAllReviews returns every review in the system. Requires an admin token.
func (c *Client) ListAllReviews(ctx context.Context) ([]entity.Review, error) {
	return collect(ctx, c, "/admin/reviews", nil, entity.Review.Valid, "reviews")
}
