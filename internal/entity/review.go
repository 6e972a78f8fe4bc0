package entity

import (
	"sort"
	"strings"
	"time"
)

type Review struct {
	ID        string  `json:"id,omitempty"`
	BookID    string  `json:"bookId"`
	UserID    string  `json:"userId,omitempty"`
	UserName  string  `json:"userName,omitempty"`
	Rating    float64 `json:"rating"`
	Comment   string  `json:"comment"`
	CreatedAt string  `json:"createdAt,omitempty"`
}

func (r Review) Valid() bool {
	return strings.TrimSpace(r.ID) != "" && strings.TrimSpace(r.BookID) != ""
}

// CreatedTime parses CreatedAt, returning the zero time when it is absent or unparseable.
func (r Review) CreatedTime() time.Time {
	return ParseTimestamp(r.CreatedAt)
}

// ParseTimestamp accepts RFC 3339 timestamps with or without fractional seconds, and bare dates.
func ParseTimestamp(s string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// SortNewestFirst orders reviews by creation time, newest first. Reviews
// without a usable timestamp sort last and keep their relative order.
func SortNewestFirst(reviews []Review) {
	sort.SliceStable(reviews, func(i, j int) bool {
		return reviews[i].CreatedTime().After(reviews[j].CreatedTime())
	})
}

// AverageRating is the mean rating, or 0 for no reviews.
func AverageRating(reviews []Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	var sum float64
	for _, r := range reviews {
		sum += r.Rating
	}
	return sum / float64(len(reviews))
}
