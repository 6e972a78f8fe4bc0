package apiclient

import (
	"context"
	"net/http"

	"bookshelf/internal/entity"
)

func (c *Client) ListReadingLists(ctx context.Context) ([]entity.ReadingList, error) {
	lists, err := collect(ctx, c, "/reading-lists", nil, entity.ReadingList.Valid, "readingLists", "lists")
	if err != nil {
		return nil, err
	}
	for i := range lists {
		lists[i] = normalizeList(lists[i])
	}
	return lists, nil
}

func (c *Client) GetReadingList(ctx context.Context, id string) (entity.ReadingList, error) {
	path := "/reading-lists/" + escape(id)
	raw, err := c.do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return entity.ReadingList{}, err
	}
	l, err := decodeOne(http.MethodGet, path, raw, entity.ReadingList.Valid, entity.ReadingList{}, false, "readingList", "list")
	if err != nil {
		return entity.ReadingList{}, err
	}
	return normalizeList(l), nil
}

func (c *Client) CreateReadingList(ctx context.Context, l entity.ReadingList) (entity.ReadingList, error) {
	const path = "/reading-lists"
	raw, err := c.do(ctx, http.MethodPost, path, nil, normalizeList(l))
	if err != nil {
		return entity.ReadingList{}, err
	}
	created, err := decodeOne(http.MethodPost, path, raw, entity.ReadingList.Valid, entity.ReadingList{}, false, "readingList", "list")
	if err != nil {
		return entity.ReadingList{}, err
	}
	return normalizeList(created), nil
}

// UpdateReadingList replaces the stored list with l. APIs answering with an
// empty body are treated as having stored l verbatim.
func (c *Client) UpdateReadingList(ctx context.Context, l entity.ReadingList) (entity.ReadingList, error) {
	path := "/reading-lists/" + escape(l.ID)
	l = normalizeList(l)
	raw, err := c.do(ctx, http.MethodPut, path, nil, l)
	if err != nil {
		return entity.ReadingList{}, err
	}
	updated, err := decodeOne(http.MethodPut, path, raw, entity.ReadingList.Valid, l, true, "readingList", "list")
	if err != nil {
		return entity.ReadingList{}, err
	}
	return normalizeList(updated), nil
}

func (c *Client) DeleteReadingList(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/reading-lists/"+escape(id), nil, nil)
	return err
}

// normalizeList makes bookIds a duplicate-free, non-nil slice and keeps only
// completion marks for books that are still on the list.
func normalizeList(l entity.ReadingList) entity.ReadingList {
	ids := make([]string, 0, len(l.BookIDs))
	present := make(map[string]bool, len(l.BookIDs))
	for _, id := range l.BookIDs {
		if id == "" || present[id] {
			continue
		}
		present[id] = true
		ids = append(ids, id)
	}
	l.BookIDs = ids

	if l.CompletedBookIDs != nil {
		done := make([]string, 0, len(l.CompletedBookIDs))
		marked := make(map[string]bool, len(l.CompletedBookIDs))
		for _, id := range l.CompletedBookIDs {
			if !present[id] || marked[id] {
				continue
			}
			marked[id] = true
			done = append(done, id)
		}
		l.CompletedBookIDs = done
	}
	return l
}
