package admin

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"bookshelf/internal/apiclient"
	"bookshelf/internal/entity"
	"bookshelf/internal/pagination"
	"bookshelf/internal/review"
)

// Service backs the administration views. Callers are expected to have
// checked the admin role; the remote API enforces it as well.
type Service struct {
	api API
}

func NewService(api API) *Service {
	return &Service{api: api}
}

// Users returns one page of all users, ordered by email.
func (s *Service) Users(ctx context.Context, page, size int) (pagination.Page[entity.User], error) {
	users, err := s.api.ListUsers(ctx)
	if err != nil {
		return pagination.Page[entity.User]{}, err
	}
	sort.SliceStable(users, func(i, j int) bool {
		return strings.ToLower(users[i].Email) < strings.ToLower(users[j].Email)
	})
	return pagination.Paginate(users, page, size), nil
}

// Reviews returns one page of all reviews, newest first.
func (s *Service) Reviews(ctx context.Context, page, size int) (pagination.Page[entity.Review], error) {
	reviews, err := s.api.ListAllReviews(ctx)
	if err != nil {
		return pagination.Page[entity.Review]{}, err
	}
	entity.SortNewestFirst(reviews)
	return pagination.Paginate(reviews, page, size), nil
}

func (s *Service) DeleteReview(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: review id is required", entity.ErrInvalidInput)
	}
	err := s.api.DeleteReview(ctx, id)
	if apiclient.IsNotFound(err) {
		return fmt.Errorf("%w: %s", review.ErrNotFound, id)
	}
	return err
}
