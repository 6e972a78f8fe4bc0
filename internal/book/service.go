package book

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"bookshelf/internal/apiclient"
	"bookshelf/internal/entity"
	"bookshelf/internal/form"
	"bookshelf/internal/pagination"

	"go.uber.org/zap"
)

// Service provides catalog browsing and administration.
type Service struct {
	api    API
	logger *zap.Logger
}

// NewService creates a new book service.
func NewService(api API, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{api: api, logger: logger}
}

// List returns one page of the catalog. Filters are forwarded to the API and
// applied again locally, since the API may ignore them.
func (s *Service) List(ctx context.Context, f Filter) (pagination.Page[entity.Book], error) {
	books, err := s.api.ListBooks(ctx, apiclient.BookQuery{Genre: f.Genre, Search: f.Search})
	if err != nil {
		return pagination.Page[entity.Book]{}, err
	}

	matched := make([]entity.Book, 0, len(books))
	for _, b := range books {
		if f.Matches(b) {
			matched = append(matched, b)
		}
	}
	return pagination.Paginate(matched, f.Page, f.PageSize), nil
}

// Genres returns the distinct genres in the catalog, sorted.
func (s *Service) Genres(ctx context.Context) ([]string, error) {
	books, err := s.api.ListBooks(ctx, apiclient.BookQuery{})
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	genres := []string{}
	for _, b := range books {
		g := strings.TrimSpace(b.Genre)
		key := strings.ToLower(g)
		if g == "" || seen[key] {
			continue
		}
		seen[key] = true
		genres = append(genres, g)
	}
	sort.Slice(genres, func(i, j int) bool {
		return strings.ToLower(genres[i]) < strings.ToLower(genres[j])
	})
	return genres, nil
}

// Get returns a single book.
func (s *Service) Get(ctx context.Context, id string) (entity.Book, error) {
	b, err := s.api.GetBook(ctx, id)
	if apiclient.IsNotFound(err) {
		return entity.Book{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return b, err
}

// Detail returns the book and its reviews. A failure to load reviews is
// logged and leaves the review list empty.
func (s *Service) Detail(ctx context.Context, id string) (Detail, error) {
	b, err := s.Get(ctx, id)
	if err != nil {
		return Detail{}, err
	}

	reviews, err := s.api.ListReviews(ctx, id)
	if err != nil {
		if ctx.Err() != nil {
			return Detail{}, ctx.Err()
		}
		s.logger.Warn("load reviews failed", zap.String("book_id", id), zap.Error(err))
		reviews = nil
	}
	if reviews == nil {
		reviews = []entity.Review{}
	}
	entity.SortNewestFirst(reviews)

	return Detail{
		Book:          b,
		Reviews:       reviews,
		AverageRating: entity.AverageRating(reviews),
		ReviewCount:   len(reviews),
	}, nil
}

func (s *Service) Create(ctx context.Context, f form.BookForm) (entity.Book, error) {
	if err := form.Check(&f); err != nil {
		return entity.Book{}, err
	}
	return s.api.CreateBook(ctx, f.Book(""))
}

func (s *Service) Update(ctx context.Context, id string, f form.BookForm) (entity.Book, error) {
	if strings.TrimSpace(id) == "" {
		return entity.Book{}, fmt.Errorf("%w: book id is required", entity.ErrInvalidInput)
	}
	if err := form.Check(&f); err != nil {
		return entity.Book{}, err
	}
	b, err := s.api.UpdateBook(ctx, f.Book(id))
	if apiclient.IsNotFound(err) {
		return entity.Book{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return b, err
}

func (s *Service) Delete(ctx context.Context, id string) error {
	err := s.api.DeleteBook(ctx, id)
	if apiclient.IsNotFound(err) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return err
}
