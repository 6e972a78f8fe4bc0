package review

import (
	"context"
	"fmt"
	"strings"

	"bookshelf/internal/apiclient"
	"bookshelf/internal/entity"
	"bookshelf/internal/form"
)

type Service struct {
	api API
}

func NewService(api API) *Service {
	return &Service{api: api}
}

// ForBook returns the reviews of a book, newest first.
func (s *Service) ForBook(ctx context.Context, bookID string) ([]entity.Review, error) {
	reviews, err := s.api.ListReviews(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if reviews == nil {
		reviews = []entity.Review{}
	}
	entity.SortNewestFirst(reviews)
	return reviews, nil
}

// Submit posts a review written by author.
func (s *Service) Submit(ctx context.Context, author entity.User, f form.ReviewForm) (entity.Review, error) {
	if err := form.Check(&f); err != nil {
		return entity.Review{}, err
	}
	return s.api.CreateReview(ctx, entity.Review{
		BookID:   f.BookID,
		UserID:   author.ID,
		UserName: author.DisplayName(),
		Rating:   f.Rating,
		Comment:  f.Comment,
	})
}

// Delete removes a review. Admins may delete any review; other users only
// their own, which is looked up among the reviews of bookID.
func (s *Service) Delete(ctx context.Context, user entity.User, bookID, reviewID string) error {
	if strings.TrimSpace(reviewID) == "" {
		return fmt.Errorf("%w: review id is required", entity.ErrInvalidInput)
	}

	if !user.IsAdmin() {
		if strings.TrimSpace(bookID) == "" {
			return fmt.Errorf("%w: book id is required", entity.ErrInvalidInput)
		}
		reviews, err := s.api.ListReviews(ctx, bookID)
		if err != nil {
			return err
		}
		r, ok := find(reviews, reviewID)
		if !ok {
			return fmt.Errorf("%w: %s", ErrNotFound, reviewID)
		}
		if r.UserID != user.ID {
			return ErrNotAuthor
		}
	}

	err := s.api.DeleteReview(ctx, reviewID)
	if apiclient.IsNotFound(err) {
		return fmt.Errorf("%w: %s", ErrNotFound, reviewID)
	}
	return err
}

func find(reviews []entity.Review, id string) (entity.Review, bool) {
	for _, r := range reviews {
		if r.ID == id {
			return r, true
		}
	}
	return entity.Review{}, false
}
