// Package recommendation asks a generative-AI backend for book suggestions
// and tidies its answers.
package recommendation

import (
	"context"
	"errors"

	"bookshelf/internal/entity"
)

const DefaultLimit = 5

var ErrNoBackend = errors.New("no recommendation backend configured")

type Request struct {
	Query   string
	Limit   int
	BookIDs []string
}

// Backend produces raw recommendations. Results are cleaned up by Service.
type Backend interface {
	Recommend(ctx context.Context, req Request) ([]entity.Recommendation, error)
}
