package book

import (
	"context"
	"errors"
	"testing"

	"bookshelf/internal/apiclient"
	"bookshelf/internal/entity"
	"bookshelf/internal/form"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var catalog = []entity.Book{
	{ID: "1", Title: "Dune", Author: "Frank Herbert", Genre: "Science Fiction", ISBN: "978-0-441-17271-9"},
	{ID: "2", Title: "Emma", Author: "Jane Austen", Genre: "Classic"},
	{ID: "3", Title: "Hyperion", Author: "Dan Simmons", Genre: "science fiction"},
	{ID: "4", Title: "Untitled", Author: "Anon"},
}

func TestService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	api := NewMockAPI(ctrl)
	service := NewService(api, nil)

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"all", Filter{}, []string{"1", "2", "3", "4"}},
		{"genre ignores case", Filter{Genre: "SCIENCE FICTION"}, []string{"1", "3"}},
		{"search title", Filter{Search: "emm"}, []string{"2"}},
		{"search author", Filter{Search: "simmons"}, []string{"3"}},
		{"search isbn without hyphens", Filter{Search: "9780441"}, []string{"1"}},
		{"genre and search", Filter{Genre: "classic", Search: "dune"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api.EXPECT().
				ListBooks(gomock.Any(), apiclient.BookQuery{Genre: tt.filter.Genre, Search: tt.filter.Search}).
				Return(catalog, nil)

			page, err := service.List(context.Background(), tt.filter)
			require.NoError(t, err)

			ids := []string{}
			for _, b := range page.Items {
				ids = append(ids, b.ID)
			}
			assert.Equal(t, tt.want, ids)
			assert.Equal(t, len(tt.want), page.Total)
		})
	}
}

func TestService_ListPages(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	api := NewMockAPI(ctrl)
	api.EXPECT().ListBooks(gomock.Any(), gomock.Any()).Return(catalog, nil)

	page, err := NewService(api, nil).List(context.Background(), Filter{Page: 7, PageSize: 3})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 2, page.TotalPages)
	assert.Len(t, page.Items, 1)
}

func TestService_Genres(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	api := NewMockAPI(ctrl)
	api.EXPECT().ListBooks(gomock.Any(), apiclient.BookQuery{}).Return(catalog, nil)

	genres, err := NewService(api, nil).Genres(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Classic", "Science Fiction"}, genres)
}

func TestService_Detail(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	api := NewMockAPI(ctrl)
	service := NewService(api, nil)

	t.Run("reviews newest first with average", func(t *testing.T) {
		api.EXPECT().GetBook(gomock.Any(), "1").Return(catalog[0], nil)
		api.EXPECT().ListReviews(gomock.Any(), "1").Return([]entity.Review{
			{ID: "r1", BookID: "1", Rating: 4, CreatedAt: "2024-01-01T00:00:00Z"},
			{ID: "r2", BookID: "1", Rating: 5, CreatedAt: "2024-03-01T00:00:00Z"},
			{ID: "r3", BookID: "1", Rating: 3, CreatedAt: "2024-02-01"},
		}, nil)

		d, err := service.Detail(context.Background(), "1")
		require.NoError(t, err)
		assert.Equal(t, "Dune", d.Book.Title)
		assert.Equal(t, []string{"r2", "r3", "r1"}, []string{d.Reviews[0].ID, d.Reviews[1].ID, d.Reviews[2].ID})
		assert.InDelta(t, 4.0, d.AverageRating, 0.001)
		assert.Equal(t, 3, d.ReviewCount)
	})

	t.Run("review failure keeps the book", func(t *testing.T) {
		api.EXPECT().GetBook(gomock.Any(), "1").Return(catalog[0], nil)
		api.EXPECT().ListReviews(gomock.Any(), "1").Return(nil, &apiclient.HTTPError{StatusCode: 500})

		d, err := service.Detail(context.Background(), "1")
		require.NoError(t, err)
		assert.Empty(t, d.Reviews)
		assert.NotNil(t, d.Reviews)
		assert.Zero(t, d.AverageRating)
	})

	t.Run("not found", func(t *testing.T) {
		api.EXPECT().GetBook(gomock.Any(), "missing").Return(entity.Book{}, &apiclient.HTTPError{StatusCode: 404})

		_, err := service.Detail(context.Background(), "missing")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, err, entity.ErrNotFound)
	})
}

func TestService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	api := NewMockAPI(ctrl)
	service := NewService(api, nil)

	t.Run("invalid form never reaches the API", func(t *testing.T) {
		_, err := service.Create(context.Background(), form.BookForm{Title: " "})
		_, ok := form.AsErrors(err)
		assert.True(t, ok)
	})

	t.Run("trimmed and sent", func(t *testing.T) {
		api.EXPECT().
			CreateBook(gomock.Any(), entity.Book{Title: "Dune", Author: "Frank Herbert"}).
			Return(entity.Book{ID: "9", Title: "Dune", Author: "Frank Herbert"}, nil)

		b, err := service.Create(context.Background(), form.BookForm{Title: " Dune ", Author: "Frank Herbert "})
		require.NoError(t, err)
		assert.Equal(t, "9", b.ID)
	})
}

func TestService_UpdateAndDelete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	api := NewMockAPI(ctrl)
	service := NewService(api, nil)

	api.EXPECT().UpdateBook(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, b entity.Book) (entity.Book, error) { return b, nil })
	b, err := service.Update(context.Background(), "1", form.BookForm{Title: "Dune", Author: "Herbert", Rating: 4.5})
	require.NoError(t, err)
	assert.Equal(t, "1", b.ID)
	assert.Equal(t, 4.5, b.Rating)

	_, err = service.Update(context.Background(), "", form.BookForm{Title: "Dune", Author: "Herbert"})
	assert.ErrorIs(t, err, entity.ErrInvalidInput)

	api.EXPECT().DeleteBook(gomock.Any(), "1").Return(nil)
	assert.NoError(t, service.Delete(context.Background(), "1"))

	boom := errors.New("boom")
	api.EXPECT().DeleteBook(gomock.Any(), "2").Return(boom)
	assert.ErrorIs(t, service.Delete(context.Background(), "2"), boom)
}
