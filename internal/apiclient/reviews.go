package apiclient

import (
	"context"
	"net/http"

	"bookshelf/internal/entity"
)

func (c *Client) ListReviews(ctx context.Context, bookID string) ([]entity.Review, error) {
	return collect(ctx, c, "/books/"+escape(bookID)+"/reviews", nil, entity.Review.Valid, "reviews")
}

func (c *Client) CreateReview(ctx context.Context, r entity.Review) (entity.Review, error) {
	path := "/books/" + escape(r.BookID) + "/reviews"
	raw, err := c.do(ctx, http.MethodPost, path, nil, r)
	if err != nil {
		return entity.Review{}, err
	}
	return decodeOne(http.MethodPost, path, raw, entity.Review.Valid, entity.Review{}, false, "review")
}

func (c *Client) DeleteReview(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/reviews/"+escape(id), nil, nil)
	return err
}
