package review

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bookshelf/internal/apiclient"
	"bookshelf/internal/entity"
	"bookshelf/internal/form"
	"bookshelf/internal/httpx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockAPI struct {
	mock.Mock
}

func (m *mockAPI) ListReviews(ctx context.Context, bookID string) ([]entity.Review, error) {
	args := m.Called(ctx, bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Review), args.Error(1)
}

func (m *mockAPI) CreateReview(ctx context.Context, r entity.Review) (entity.Review, error) {
	args := m.Called(ctx, r)
	return args.Get(0).(entity.Review), args.Error(1)
}

func (m *mockAPI) DeleteReview(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

var (
	reader = entity.User{ID: "u1", Email: "reader@example.com", Role: entity.RoleUser}
	other  = entity.User{ID: "u2", Email: "other@example.com", Name: "Other", Role: entity.RoleUser}
	admin  = entity.User{ID: "u9", Email: "admin@example.com", Role: entity.RoleAdmin}

	bookReviews = []entity.Review{
		{ID: "r1", BookID: "b1", UserID: "u1", Rating: 4, CreatedAt: "2024-01-01T00:00:00Z"},
		{ID: "r2", BookID: "b1", UserID: "u2", Rating: 2, CreatedAt: "2024-05-01T00:00:00Z"},
	}
)

func TestForBook_NewestFirst(t *testing.T) {
	api := &mockAPI{}
	api.On("ListReviews", mock.Anything, "b1").Return(append([]entity.Review(nil), bookReviews...), nil)

	got, err := NewService(api).ForBook(context.Background(), "b1")
	require.NoError(t, err)
	assert.Equal(t, "r2", got[0].ID)
	assert.Equal(t, "r1", got[1].ID)
}

func TestSubmit(t *testing.T) {
	api := &mockAPI{}
	svc := NewService(api)

	_, err := svc.Submit(context.Background(), reader, form.ReviewForm{BookID: "b1", Rating: 9, Comment: "ok"})
	_, isForm := form.AsErrors(err)
	assert.True(t, isForm)

	want := entity.Review{BookID: "b1", UserID: "u1", UserName: "reader", Rating: 5, Comment: "Great"}
	api.On("CreateReview", mock.Anything, want).Return(entity.Review{ID: "r3", BookID: "b1"}, nil)

	got, err := svc.Submit(context.Background(), reader, form.ReviewForm{BookID: "b1", Rating: 5, Comment: " Great "})
	require.NoError(t, err)
	assert.Equal(t, "r3", got.ID)
}

func TestDelete_Permissions(t *testing.T) {
	tests := []struct {
		name    string
		user    entity.User
		bookID  string
		review  string
		deletes bool
		wantErr error
	}{
		{"author", reader, "b1", "r1", true, nil},
		{"someone else", other, "b1", "r1", false, ErrNotAuthor},
		{"admin without book", admin, "", "r1", true, nil},
		{"unknown review", reader, "b1", "r7", false, ErrNotFound},
		{"missing book id", reader, "", "r1", false, entity.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &mockAPI{}
			api.On("ListReviews", mock.Anything, "b1").Return(bookReviews, nil)
			api.On("DeleteReview", mock.Anything, tt.review).Return(nil)

			err := NewService(api).Delete(context.Background(), tt.user, tt.bookID, tt.review)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			if tt.deletes {
				api.AssertCalled(t, "DeleteReview", mock.Anything, tt.review)
			} else {
				api.AssertNotCalled(t, "DeleteReview", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestDelete_UpstreamNotFound(t *testing.T) {
	api := &mockAPI{}
	api.On("DeleteReview", mock.Anything, "r1").Return(&apiclient.HTTPError{StatusCode: 404})

	err := NewService(api).Delete(context.Background(), admin, "", "r1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHTTPHandler_Submit(t *testing.T) {
	api := &mockAPI{}
	handler := NewHTTPHandler(NewService(api))

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/books/b1/reviews", strings.NewReader(`{"rating":4,"comment":"Nice"}`))
	r.SetPathValue("id", "b1")
	handler.Submit(w, r)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	api.On("CreateReview", mock.Anything, mock.Anything).Return(entity.Review{ID: "r5", BookID: "b1"}, nil)
	w = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodPost, "/api/books/b1/reviews", strings.NewReader(`{"rating":4,"comment":"Nice"}`))
	r.SetPathValue("id", "b1")
	r = r.WithContext(httpx.ContextWithUser(r.Context(), reader))
	handler.Submit(w, r)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestHTTPHandler_DeleteForbidden(t *testing.T) {
	api := &mockAPI{}
	api.On("ListReviews", mock.Anything, "b1").Return(bookReviews, nil)
	handler := NewHTTPHandler(NewService(api))

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodDelete, "/api/reviews/r1?bookId=b1", nil)
	r.SetPathValue("id", "r1")
	r = r.WithContext(httpx.ContextWithUser(r.Context(), other))
	handler.Delete(w, r)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
