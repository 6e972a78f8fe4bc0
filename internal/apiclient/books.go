package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"bookshelf/internal/entity"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// BookQuery is forwarded to the API as query parameters. The API may ignore
// any of them; callers filter again locally.
type BookQuery struct {
	Genre  string
	Search string
	Limit  int
}

func (q BookQuery) values() url.Values {
	v := url.Values{}
	if q.Genre != "" {
		v.Set("genre", q.Genre)
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return v
}

// ListBooks returns the whole catalog matching q, following cursors.
func (c *Client) ListBooks(ctx context.Context, q BookQuery) ([]entity.Book, error) {
	return collect(ctx, c, "/books", q.values(), entity.Book.Valid, "books")
}

func (c *Client) GetBook(ctx context.Context, id string) (entity.Book, error) {
	path := "/books/" + escape(id)
	raw, err := c.do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return entity.Book{}, err
	}
	return decodeOne(http.MethodGet, path, raw, entity.Book.Valid, entity.Book{}, false, "book")
}

// GetBooks fetches independent books concurrently. Books that fail to load are
// logged and left out; the order of ids is preserved.
func (c *Client) GetBooks(ctx context.Context, ids []string) ([]entity.Book, error) {
	results := make([]*entity.Book, len(ids))

	var g errgroup.Group
	g.SetLimit(c.parallelism)
	for i, id := range ids {
		g.Go(func() error {
			b, err := c.GetBook(ctx, id)
			if err != nil {
				c.logger.Warn("skipping book", zap.String("book_id", id), zap.Error(err))
				return nil
			}
			results[i] = &b
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	books := make([]entity.Book, 0, len(ids))
	for _, b := range results {
		if b != nil {
			books = append(books, *b)
		}
	}
	return books, nil
}

func (c *Client) CreateBook(ctx context.Context, b entity.Book) (entity.Book, error) {
	const path = "/books"
	raw, err := c.do(ctx, http.MethodPost, path, nil, b)
	if err != nil {
		return entity.Book{}, err
	}
	return decodeOne(http.MethodPost, path, raw, entity.Book.Valid, entity.Book{}, false, "book")
}

func (c *Client) UpdateBook(ctx context.Context, b entity.Book) (entity.Book, error) {
	path := "/books/" + escape(b.ID)
	raw, err := c.do(ctx, http.MethodPut, path, nil, b)
	if err != nil {
		return entity.Book{}, err
	}
	return decodeOne(http.MethodPut, path, raw, entity.Book.Valid, b, true, "book")
}

func (c *Client) DeleteBook(ctx context.Context, id string) error {
	path := "/books/" + escape(id)
	if _, err := c.do(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return err
	}
	return nil
}
