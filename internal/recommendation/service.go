package recommendation

import (
	"context"
	"math"
	"sort"
	"strings"

	"bookshelf/internal/entity"
	"bookshelf/internal/form"

	"go.uber.org/zap"
)

type Service struct {
	backend Backend
	logger  *zap.Logger
}

func NewService(backend Backend, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{backend: backend, logger: logger}
}

// Recommend validates f and returns at most f.Limit suggestions, most
// confident first.
func (s *Service) Recommend(ctx context.Context, f form.RecommendationForm) ([]entity.Recommendation, error) {
	if err := form.Check(&f); err != nil {
		return nil, err
	}
	if s.backend == nil {
		return nil, ErrNoBackend
	}

	limit := f.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	raw, err := s.backend.Recommend(ctx, Request{Query: f.Query, Limit: limit, BookIDs: f.BookIDs})
	if err != nil {
		return nil, err
	}

	out := Normalize(raw, limit)
	s.logger.Debug("recommendations",
		zap.String("query", f.Query),
		zap.Int("received", len(raw)),
		zap.Int("kept", len(out)),
	)
	return out, nil
}

// Normalize drops entries without title or author, removes duplicates,
// clamps confidence to [0, 1], sorts by confidence and keeps at most limit.
func Normalize(recs []entity.Recommendation, limit int) []entity.Recommendation {
	seen := make(map[string]bool, len(recs))
	out := make([]entity.Recommendation, 0, len(recs))
	for _, r := range recs {
		r.Title = strings.TrimSpace(r.Title)
		r.Author = strings.TrimSpace(r.Author)
		r.Reason = strings.TrimSpace(r.Reason)
		if !r.Valid() {
			continue
		}
		key := strings.ToLower(r.Title) + "\x00" + strings.ToLower(r.Author)
		if seen[key] {
			continue
		}
		seen[key] = true
		r.Confidence = clamp(r.Confidence)
		out = append(out, r)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Confidence > out[j].Confidence
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func clamp(c float64) float64 {
	switch {
	case math.IsNaN(c), c < 0:
		return 0
	case c > 1:
		return 1
	default:
		return c
	}
}
