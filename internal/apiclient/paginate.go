package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"bookshelf/internal/envelope"

	"go.uber.org/zap"
)

// collect follows nextToken cursors until the API stops returning one. A cursor
// seen twice, or more than maxPages round trips, ends the walk with whatever
// was gathered so far.
func collect[T any](ctx context.Context, c *Client, path string, query url.Values, valid func(T) bool, keys ...string) ([]T, error) {
	out := []T{}
	seen := make(map[string]bool)
	cursor := ""

	for i := 0; i < c.maxPages; i++ {
		q := url.Values{}
		for k, v := range query {
			q[k] = append([]string(nil), v...)
		}
		if cursor != "" {
			q.Set("nextToken", cursor)
		}

		raw, err := c.do(ctx, http.MethodGet, path, q, nil)
		if err != nil {
			return nil, err
		}
		page, err := envelope.Items(raw, keys...)
		if err != nil {
			return nil, translate(http.MethodGet, path, err)
		}
		out = append(out, envelope.DecodeList(page.Items, valid)...)

		if page.NextToken == "" {
			return out, nil
		}
		if seen[page.NextToken] {
			c.logger.Warn("api returned a repeating cursor",
				zap.String("path", path),
				zap.Int("pages", i+1))
			return out, nil
		}
		seen[page.NextToken] = true
		cursor = page.NextToken
	}

	c.logger.Warn("pagination ceiling reached",
		zap.String("path", path),
		zap.Int("max_pages", c.maxPages))
	return out, nil
}

// decodeOne decodes a singular response. When allowEmpty is set, an empty
// body (204 or a bare null) yields fallback instead of an error.
func decodeOne[T any](method, path string, raw []byte, valid func(T) bool, fallback T, allowEmpty bool, keys ...string) (T, error) {
	payload, err := envelope.Unwrap(raw)
	if err != nil {
		var zero T
		return zero, translate(method, path, err)
	}
	if allowEmpty && (len(payload) == 0 || string(payload) == "null") {
		return fallback, nil
	}
	v, err := envelope.DecodeOne(payload, valid, keys...)
	if err != nil {
		var zero T
		return zero, translate(method, path, err)
	}
	return v, nil
}
