package apiclient

import (
	"context"
	"net/http"

	"bookshelf/internal/entity"
	"bookshelf/internal/envelope"
)

type RecommendationRequest struct {
	Query   string   `json:"query"`
	Limit   int      `json:"limit,omitempty"`
	BookIDs []string `json:"bookIds,omitempty"`
}

// Recommend forwards the request to the API's generative-AI integration.
func (c *Client) Recommend(ctx context.Context, req RecommendationRequest) ([]entity.Recommendation, error) {
	const path = "/recommendations"
	raw, err := c.do(ctx, http.MethodPost, path, nil, req)
	if err != nil {
		return nil, err
	}
	page, err := envelope.Items(raw, "recommendations")
	if err != nil {
		return nil, translate(http.MethodPost, path, err)
	}
	return envelope.DecodeList(page.Items, entity.Recommendation.Valid), nil
}
