package readinglist

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"bookshelf/internal/apiclient"
	"bookshelf/internal/entity"
	"bookshelf/internal/form"

	"go.uber.org/zap"
)

// Service manages the signed-in user's reading lists. While a completion
// toggle is in flight its optimistic state is served to readers of the same
// list; the entry is dropped once the API answers.
type Service struct {
	api    API
	logger *zap.Logger

	mu      sync.Mutex
	pending map[string]entity.ReadingList
	locks   map[string]*listLock
}

type listLock struct {
	sync.Mutex
	holders int
}

func NewService(api API, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		api:     api,
		logger:  logger,
		pending: make(map[string]entity.ReadingList),
		locks:   make(map[string]*listLock),
	}
}

// Pending returns the optimistic state of a list with a toggle in flight.
func (s *Service) Pending(id string) (entity.ReadingList, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.pending[id]
	return l.Clone(), ok
}

func (s *Service) setPending(l entity.ReadingList) {
	s.mu.Lock()
	s.pending[l.ID] = l.Clone()
	s.mu.Unlock()
}

func (s *Service) clearPending(id string) {
	s.mu.Lock()
	delete(s.pending, id)
	s.mu.Unlock()
}

// overlay swaps in the pending state for l. It is applied only to lists the
// API has just returned, so a caller never sees a list it could not read.
func (s *Service) overlay(l entity.ReadingList) entity.ReadingList {
	if p, ok := s.Pending(l.ID); ok {
		return p
	}
	return l
}

// lock serializes mutations of one list. The entry is removed when its last
// holder releases it.
func (s *Service) lock(id string) func() {
	s.mu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &listLock{}
		s.locks[id] = l
	}
	l.holders++
	s.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		s.mu.Lock()
		l.holders--
		if l.holders == 0 {
			delete(s.locks, id)
		}
		s.mu.Unlock()
	}
}

func (s *Service) List(ctx context.Context) ([]entity.ReadingList, error) {
	lists, err := s.api.ListReadingLists(ctx)
	if err != nil {
		return nil, err
	}
	for i, l := range lists {
		lists[i] = s.overlay(l)
	}
	return lists, nil
}

func (s *Service) fetch(ctx context.Context, id string) (entity.ReadingList, error) {
	if strings.TrimSpace(id) == "" {
		return entity.ReadingList{}, fmt.Errorf("%w: reading list id is required", entity.ErrInvalidInput)
	}
	l, err := s.api.GetReadingList(ctx, id)
	if apiclient.IsNotFound(err) {
		return entity.ReadingList{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return entity.ReadingList{}, err
	}
	return l, nil
}

// Get returns the list with its books. Books that fail to load are left out.
func (s *Service) Get(ctx context.Context, id string) (View, error) {
	l, err := s.fetch(ctx, id)
	if err != nil {
		return View{}, err
	}
	l = s.overlay(l)

	books, err := s.api.GetBooks(ctx, l.BookIDs)
	if err != nil {
		return View{}, err
	}
	if len(books) < len(l.BookIDs) {
		s.logger.Debug("reading list has unresolved books",
			zap.String("list_id", id),
			zap.Int("wanted", len(l.BookIDs)),
			zap.Int("got", len(books)),
		)
	}
	if books == nil {
		books = []entity.Book{}
	}

	return View{List: l, Books: books, Progress: ProgressOf(l)}, nil
}

func (s *Service) Create(ctx context.Context, f form.ReadingListForm) (entity.ReadingList, error) {
	if err := form.Check(&f); err != nil {
		return entity.ReadingList{}, err
	}
	l, err := s.api.CreateReadingList(ctx, entity.ReadingList{
		Name:        f.Name,
		Description: f.Description,
		BookIDs:     []string{},
	})
	if err != nil {
		return entity.ReadingList{}, err
	}
	return l, nil
}

// Update renames the list and replaces its description.
func (s *Service) Update(ctx context.Context, id string, f form.ReadingListForm) (entity.ReadingList, error) {
	if err := form.Check(&f); err != nil {
		return entity.ReadingList{}, err
	}
	return s.mutate(ctx, id, func(l entity.ReadingList) (entity.ReadingList, bool, error) {
		l.Name = f.Name
		l.Description = f.Description
		return l, true, nil
	})
}

func (s *Service) Delete(ctx context.Context, id string) error {
	unlock := s.lock(id)
	defer unlock()

	err := s.api.DeleteReadingList(ctx, id)
	if apiclient.IsNotFound(err) {
		err = fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return err
}

// AddBook appends bookID to the list. Adding a book already present leaves
// the list untouched.
func (s *Service) AddBook(ctx context.Context, listID, bookID string) (entity.ReadingList, error) {
	if strings.TrimSpace(bookID) == "" {
		return entity.ReadingList{}, fmt.Errorf("%w: book id is required", entity.ErrInvalidInput)
	}
	return s.mutate(ctx, listID, func(l entity.ReadingList) (entity.ReadingList, bool, error) {
		if l.Contains(bookID) {
			return l, false, nil
		}
		l.BookIDs = append(l.BookIDs, bookID)
		return l, true, nil
	})
}

// RemoveBook drops bookID and its completion mark.
func (s *Service) RemoveBook(ctx context.Context, listID, bookID string) (entity.ReadingList, error) {
	return s.mutate(ctx, listID, func(l entity.ReadingList) (entity.ReadingList, bool, error) {
		if !l.Contains(bookID) {
			return l, false, ErrBookNotInList
		}
		return withoutBook(l, bookID), true, nil
	})
}

// ToggleCompleted flips the completion mark of bookID. The new state is
// served to readers before the API is called and is rolled back if the call
// fails.
func (s *Service) ToggleCompleted(ctx context.Context, listID, bookID string) (entity.ReadingList, error) {
	unlock := s.lock(listID)
	defer unlock()

	prior, err := s.fetch(ctx, listID)
	if err != nil {
		return entity.ReadingList{}, err
	}
	if !prior.Contains(bookID) {
		return prior, ErrBookNotInList
	}

	next := withCompleted(prior, bookID, !prior.IsCompleted(bookID))
	s.setPending(next)
	defer s.clearPending(listID)

	saved, err := s.api.UpdateReadingList(ctx, next)
	if err != nil {
		s.logger.Info("toggle rolled back",
			zap.String("list_id", listID),
			zap.String("book_id", bookID),
			zap.Error(err),
		)
		return prior, err
	}
	return saved, nil
}

// mutate applies change to a fresh copy of the list and persists it when
// change reports a modification.
func (s *Service) mutate(ctx context.Context, id string, change func(entity.ReadingList) (entity.ReadingList, bool, error)) (entity.ReadingList, error) {
	unlock := s.lock(id)
	defer unlock()

	current, err := s.fetch(ctx, id)
	if err != nil {
		return entity.ReadingList{}, err
	}

	next, changed, err := change(current.Clone())
	if err != nil {
		return current, err
	}
	if !changed {
		return current, nil
	}

	saved, err := s.api.UpdateReadingList(ctx, next)
	if err != nil {
		return current, err
	}
	return saved, nil
}
