package recommendation

import (
	"context"

	"bookshelf/internal/apiclient"
	"bookshelf/internal/entity"
)

type recommender interface {
	Recommend(ctx context.Context, req apiclient.RecommendationRequest) ([]entity.Recommendation, error)
}

// APIBackend passes requests through the remote API, which owns the
// generative-AI credentials.
type APIBackend struct {
	api recommender
}

func NewAPIBackend(api recommender) *APIBackend {
	return &APIBackend{api: api}
}

func (b *APIBackend) Recommend(ctx context.Context, req Request) ([]entity.Recommendation, error) {
	return b.api.Recommend(ctx, apiclient.RecommendationRequest{
		Query:   req.Query,
		Limit:   req.Limit,
		BookIDs: req.BookIDs,
	})
}
