package recommendation

import (
	"context"
	"errors"
	"math"
	"testing"

	"bookshelf/internal/apiclient"
	"bookshelf/internal/entity"
	"bookshelf/internal/form"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type backendFunc func(ctx context.Context, req Request) ([]entity.Recommendation, error)

func (f backendFunc) Recommend(ctx context.Context, req Request) ([]entity.Recommendation, error) {
	return f(ctx, req)
}

func TestNormalize(t *testing.T) {
	in := []entity.Recommendation{
		{Title: "Dune", Author: "Frank Herbert", Confidence: 0.7},
		{Title: "", Author: "Nobody", Confidence: 0.99},
		{Title: "Hyperion", Author: "Dan Simmons", Confidence: 1.4},
		{Title: "dune", Author: "frank herbert", Confidence: 0.95},
		{Title: "Solaris", Author: "Stanisław Lem", Confidence: -0.2},
		{Title: "Foundation", Author: " ", Confidence: 0.5},
		{Title: "Ubik", Author: "Philip K. Dick", Confidence: math.NaN()},
	}

	got := Normalize(in, 3)
	want := []entity.Recommendation{
		{Title: "Hyperion", Author: "Dan Simmons", Confidence: 1},
		{Title: "Dune", Author: "Frank Herbert", Confidence: 0.7},
		{Title: "Solaris", Author: "Stanisław Lem", Confidence: 0},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Normalize mismatch (-want +got):\n%s", diff)
	}
}

func TestService_Recommend(t *testing.T) {
	var seen Request
	backend := backendFunc(func(_ context.Context, req Request) ([]entity.Recommendation, error) {
		seen = req
		out := make([]entity.Recommendation, 8)
		for i := range out {
			out[i] = entity.Recommendation{Title: string(rune('A' + i)), Author: "X", Confidence: float64(i) / 10}
		}
		return out, nil
	})
	svc := NewService(backend, nil)

	got, err := svc.Recommend(context.Background(), form.RecommendationForm{Query: "  space opera  "})
	require.NoError(t, err)
	assert.Equal(t, "space opera", seen.Query)
	assert.Equal(t, DefaultLimit, seen.Limit)
	require.Len(t, got, DefaultLimit)
	assert.Equal(t, "H", got[0].Title)

	got, err = svc.Recommend(context.Background(), form.RecommendationForm{Query: "space opera", Limit: 2})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestService_RejectsInvalidForm(t *testing.T) {
	called := false
	svc := NewService(backendFunc(func(context.Context, Request) ([]entity.Recommendation, error) {
		called = true
		return nil, nil
	}), nil)

	_, err := svc.Recommend(context.Background(), form.RecommendationForm{Query: "ab"})
	_, isForm := form.AsErrors(err)
	assert.True(t, isForm)
	assert.False(t, called)
}

func TestService_BackendError(t *testing.T) {
	boom := errors.New("quota exceeded")
	svc := NewService(backendFunc(func(context.Context, Request) ([]entity.Recommendation, error) {
		return nil, boom
	}), nil)

	_, err := svc.Recommend(context.Background(), form.RecommendationForm{Query: "cozy mysteries"})
	assert.ErrorIs(t, err, boom)

	_, err = NewService(nil, nil).Recommend(context.Background(), form.RecommendationForm{Query: "cozy mysteries"})
	assert.ErrorIs(t, err, ErrNoBackend)
}

type fakeRecommender struct {
	got apiclient.RecommendationRequest
}

func (f *fakeRecommender) Recommend(_ context.Context, req apiclient.RecommendationRequest) ([]entity.Recommendation, error) {
	f.got = req
	return []entity.Recommendation{{Title: "Emma", Author: "Jane Austen", Confidence: 0.5}}, nil
}

func TestAPIBackend(t *testing.T) {
	api := &fakeRecommender{}
	recs, err := NewAPIBackend(api).Recommend(context.Background(), Request{Query: "regency", Limit: 3, BookIDs: []string{"b1"}})
	require.NoError(t, err)
	assert.Len(t, recs, 1)
	assert.Equal(t, apiclient.RecommendationRequest{Query: "regency", Limit: 3, BookIDs: []string{"b1"}}, api.got)
}
