package readinglist

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"bookshelf/internal/apiclient"
	"bookshelf/internal/entity"
	"bookshelf/internal/form"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockAPI struct {
	mock.Mock
}

func (m *mockAPI) ListReadingLists(ctx context.Context) ([]entity.ReadingList, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.ReadingList), args.Error(1)
}

func (m *mockAPI) GetReadingList(ctx context.Context, id string) (entity.ReadingList, error) {
	args := m.Called(ctx, id)
	if fn, ok := args.Get(0).(func(context.Context, string) entity.ReadingList); ok {
		return fn(ctx, id), args.Error(1)
	}
	return args.Get(0).(entity.ReadingList), args.Error(1)
}

func (m *mockAPI) CreateReadingList(ctx context.Context, l entity.ReadingList) (entity.ReadingList, error) {
	args := m.Called(ctx, l)
	return args.Get(0).(entity.ReadingList), args.Error(1)
}

func (m *mockAPI) UpdateReadingList(ctx context.Context, l entity.ReadingList) (entity.ReadingList, error) {
	args := m.Called(ctx, l)
	if fn, ok := args.Get(0).(func(context.Context, entity.ReadingList) entity.ReadingList); ok {
		return fn(ctx, l), args.Error(1)
	}
	return args.Get(0).(entity.ReadingList), args.Error(1)
}

func (m *mockAPI) DeleteReadingList(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockAPI) GetBooks(ctx context.Context, ids []string) ([]entity.Book, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Book), args.Error(1)
}

func sampleList() entity.ReadingList {
	return entity.ReadingList{
		ID:               "l1",
		UserID:           "u1",
		Name:             "Summer",
		BookIDs:          []string{"b1", "b2", "b3"},
		CompletedBookIDs: []string{"b2"},
	}
}

// storedAPI answers reads with whatever was last written.
func storedAPI(initial entity.ReadingList) *mockAPI {
	api := &mockAPI{}
	stored := initial.Clone()
	api.On("GetReadingList", mock.Anything, initial.ID).
		Return(func(context.Context, string) entity.ReadingList { return stored.Clone() }, nil)
	api.On("UpdateReadingList", mock.Anything, mock.Anything).
		Return(func(_ context.Context, l entity.ReadingList) entity.ReadingList {
			stored = l.Clone()
			return l
		}, nil)
	return api
}

func TestToggleCompleted_TwiceRestoresPriorState(t *testing.T) {
	prior := sampleList()
	api := storedAPI(prior)
	svc := NewService(api, nil)
	ctx := context.Background()

	for _, bookID := range []string{"b1", "b2"} {
		once, err := svc.ToggleCompleted(ctx, "l1", bookID)
		require.NoError(t, err)
		assert.NotEqual(t, prior.IsCompleted(bookID), once.IsCompleted(bookID))

		twice, err := svc.ToggleCompleted(ctx, "l1", bookID)
		require.NoError(t, err)
		assert.Equal(t, prior, twice)
	}
}

func TestToggleCompleted_RollsBackOnError(t *testing.T) {
	prior := sampleList()
	api := &mockAPI{}
	svc := NewService(api, nil)
	boom := &apiclient.HTTPError{StatusCode: 500}

	api.On("GetReadingList", mock.Anything, "l1").Return(prior, nil)
	api.On("UpdateReadingList", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			// the optimistic state is visible while the call is in flight
			pending, ok := svc.Pending("l1")
			require.True(t, ok)
			assert.True(t, pending.IsCompleted("b1"))
		}).
		Return(entity.ReadingList{}, boom)

	got, err := svc.ToggleCompleted(context.Background(), "l1", "b1")
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, prior, got)

	_, ok := svc.Pending("l1")
	assert.False(t, ok)
	api.AssertExpectations(t)
}

func TestGet_ServesPendingToggle(t *testing.T) {
	prior := sampleList()
	api := &mockAPI{}
	svc := NewService(api, nil)
	ctx := context.Background()

	api.On("GetReadingList", mock.Anything, "l1").Return(prior, nil)
	api.On("GetBooks", mock.Anything, mock.Anything).Return([]entity.Book{}, nil)
	api.On("UpdateReadingList", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			view, err := svc.Get(ctx, "l1")
			require.NoError(t, err)
			assert.True(t, view.List.IsCompleted("b1"))
			assert.Equal(t, 2, view.Progress.Completed)
		}).
		Return(func(_ context.Context, l entity.ReadingList) entity.ReadingList { return l }, nil)

	_, err := svc.ToggleCompleted(ctx, "l1", "b1")
	require.NoError(t, err)

	view, err := svc.Get(ctx, "l1")
	require.NoError(t, err)
	assert.Equal(t, prior, view.List, "served from the API once the toggle settles")
}

func TestService_ReleasesPerListState(t *testing.T) {
	api := &mockAPI{}
	svc := NewService(api, nil)
	ctx := context.Background()

	api.On("GetReadingList", mock.Anything, mock.Anything).
		Return(func(_ context.Context, id string) entity.ReadingList {
			l := sampleList()
			l.ID = id
			return l
		}, nil)
	api.On("UpdateReadingList", mock.Anything, mock.Anything).
		Return(func(_ context.Context, l entity.ReadingList) entity.ReadingList { return l }, nil)

	for i := 0; i < 1000; i++ {
		_, err := svc.ToggleCompleted(ctx, fmt.Sprintf("l%d", i), "b1")
		require.NoError(t, err)
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()
	assert.Empty(t, svc.locks)
	assert.Empty(t, svc.pending)
}

func TestLock_SerializesSameList(t *testing.T) {
	svc := NewService(&mockAPI{}, nil)

	unlock := svc.lock("l1")
	acquired := make(chan struct{})
	go func() {
		release := svc.lock("l1")
		close(acquired)
		release()
	}()

	select {
	case <-acquired:
		t.Fatal("second holder acquired a held lock")
	case <-time.After(20 * time.Millisecond):
	}
	unlock()
	<-acquired

	assert.Eventually(t, func() bool {
		svc.mu.Lock()
		defer svc.mu.Unlock()
		return len(svc.locks) == 0
	}, time.Second, 5*time.Millisecond)
}

func TestToggleCompleted_BookNotInList(t *testing.T) {
	api := &mockAPI{}
	api.On("GetReadingList", mock.Anything, "l1").Return(sampleList(), nil)

	_, err := NewService(api, nil).ToggleCompleted(context.Background(), "l1", "zzz")
	assert.ErrorIs(t, err, ErrBookNotInList)
	api.AssertNotCalled(t, "UpdateReadingList", mock.Anything, mock.Anything)
}

func TestAddBook_Idempotent(t *testing.T) {
	api := storedAPI(sampleList())
	svc := NewService(api, nil)
	ctx := context.Background()

	l, err := svc.AddBook(ctx, "l1", "b4")
	require.NoError(t, err)
	assert.Equal(t, []string{"b1", "b2", "b3", "b4"}, l.BookIDs)

	l, err = svc.AddBook(ctx, "l1", "b4")
	require.NoError(t, err)
	assert.Equal(t, []string{"b1", "b2", "b3", "b4"}, l.BookIDs)
	api.AssertNumberOfCalls(t, "UpdateReadingList", 1)
}

func TestRemoveBook_ClearsCompletion(t *testing.T) {
	api := storedAPI(sampleList())
	svc := NewService(api, nil)

	l, err := svc.RemoveBook(context.Background(), "l1", "b2")
	require.NoError(t, err)
	assert.Equal(t, []string{"b1", "b3"}, l.BookIDs)
	assert.False(t, l.IsCompleted("b2"))

	_, err = svc.RemoveBook(context.Background(), "l1", "b2")
	assert.ErrorIs(t, err, ErrBookNotInList)
	assert.ErrorIs(t, err, entity.ErrInvalidInput)
}

func TestGet_ResolvesBooksAndProgress(t *testing.T) {
	api := &mockAPI{}
	api.On("GetReadingList", mock.Anything, "l1").Return(sampleList(), nil)
	api.On("GetBooks", mock.Anything, []string{"b1", "b2", "b3"}).
		Return([]entity.Book{{ID: "b1", Title: "Dune"}, {ID: "b3", Title: "Emma"}}, nil)

	view, err := NewService(api, nil).Get(context.Background(), "l1")
	require.NoError(t, err)
	assert.Len(t, view.Books, 2)
	assert.Equal(t, Progress{Completed: 1, Total: 3, Percent: 100.0 / 3}, view.Progress)
}

func TestGet_NotFound(t *testing.T) {
	api := &mockAPI{}
	api.On("GetReadingList", mock.Anything, "gone").Return(entity.ReadingList{}, &apiclient.HTTPError{StatusCode: 404})

	_, err := NewService(api, nil).Get(context.Background(), "gone")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreate(t *testing.T) {
	api := &mockAPI{}
	svc := NewService(api, nil)

	_, err := svc.Create(context.Background(), form.ReadingListForm{Name: "  "})
	_, isForm := form.AsErrors(err)
	assert.True(t, isForm)

	api.On("CreateReadingList", mock.Anything, entity.ReadingList{Name: "Winter", BookIDs: []string{}}).
		Return(entity.ReadingList{ID: "l9", Name: "Winter", BookIDs: []string{}}, nil)
	l, err := svc.Create(context.Background(), form.ReadingListForm{Name: " Winter "})
	require.NoError(t, err)
	assert.Equal(t, "l9", l.ID)
}

func TestDelete(t *testing.T) {
	api := &mockAPI{}
	api.On("DeleteReadingList", mock.Anything, "l1").Return(nil)
	api.On("DeleteReadingList", mock.Anything, "gone").Return(&apiclient.HTTPError{StatusCode: 404})
	svc := NewService(api, nil)

	require.NoError(t, svc.Delete(context.Background(), "l1"))
	assert.ErrorIs(t, svc.Delete(context.Background(), "gone"), ErrNotFound)
}

func TestDelete_Error(t *testing.T) {
	api := &mockAPI{}
	api.On("DeleteReadingList", mock.Anything, "l1").Return(errors.New("boom"))
	assert.Error(t, NewService(api, nil).Delete(context.Background(), "l1"))
}

func TestProgressOf(t *testing.T) {
	assert.Equal(t, Progress{}, ProgressOf(entity.ReadingList{}))
	l := sampleList()
	l.CompletedBookIDs = []string{"b1", "b2", "b3"}
	assert.Equal(t, 100.0, ProgressOf(l).Percent)
}
