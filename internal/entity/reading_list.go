package entity

import "strings"

type ReadingList struct {
	ID               string   `json:"id,omitempty"`
	UserID           string   `json:"userId,omitempty"`
	Name             string   `json:"name"`
	Description      string   `json:"description,omitempty"`
	BookIDs          []string `json:"bookIds"`
	CompletedBookIDs []string `json:"completedBookIds,omitempty"`
	CreatedAt        string   `json:"createdAt,omitempty"`
	UpdatedAt        string   `json:"updatedAt,omitempty"`
}

func (l ReadingList) Valid() bool {
	return strings.TrimSpace(l.ID) != "" && strings.TrimSpace(l.Name) != ""
}

func (l ReadingList) Contains(bookID string) bool {
	return indexOf(l.BookIDs, bookID) >= 0
}

func (l ReadingList) IsCompleted(bookID string) bool {
	return indexOf(l.CompletedBookIDs, bookID) >= 0
}

// Clone returns a copy that shares no slices with l.
func (l ReadingList) Clone() ReadingList {
	out := l
	out.BookIDs = append([]string(nil), l.BookIDs...)
	if l.CompletedBookIDs != nil {
		out.CompletedBookIDs = append([]string(nil), l.CompletedBookIDs...)
	}
	return out
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}
