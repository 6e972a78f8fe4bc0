package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const maxResponseBytes = 8 << 20

// TokenKind selects which identity token is presented to the API.
type TokenKind string

const (
	TokenID     TokenKind = "id"
	TokenAccess TokenKind = "access"
)

// HeaderMode selects how the token is written into the Authorization header.
type HeaderMode string

const (
	HeaderBearer HeaderMode = "bearer"
	HeaderRaw    HeaderMode = "raw"
)

// TokenSource supplies the caller's current token. An empty token with a nil
// error means the caller is anonymous.
type TokenSource interface {
	Token(ctx context.Context, kind TokenKind) (string, error)
}

type Config struct {
	BaseURL     string
	TokenKind   TokenKind
	HeaderMode  HeaderMode
	Timeout     time.Duration
	RPS         float64
	MaxPages    int
	Parallelism int
}

type Client struct {
	httpClient  *http.Client
	baseURL     string
	tokens      TokenSource
	tokenKind   TokenKind
	headerMode  HeaderMode
	limiter     *rate.Limiter
	maxPages    int
	parallelism int
	logger      *zap.Logger
}

func New(cfg Config, tokens TokenSource, logger *zap.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 50
	}
	if cfg.Parallelism <= 0 {
		cfg.Parallelism = 4
	}
	if cfg.TokenKind == "" {
		cfg.TokenKind = TokenID
	}
	if cfg.HeaderMode == "" {
		cfg.HeaderMode = HeaderBearer
	}
	limit := rate.Inf
	if cfg.RPS > 0 {
		limit = rate.Limit(cfg.RPS)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		tokens:      tokens,
		tokenKind:   cfg.TokenKind,
		headerMode:  cfg.HeaderMode,
		limiter:     rate.NewLimiter(limit, 1),
		maxPages:    cfg.MaxPages,
		parallelism: cfg.Parallelism,
		logger:      logger,
	}
}

// Ping issues the cheapest read the API offers and reports whether it answered.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/books", url.Values{"limit": {"1"}}, nil)
	return err
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if err := c.authorize(ctx, req); err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		c.logger.Debug("api call failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return nil, &NetworkError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &NetworkError{Method: method, Path: path, Err: err}
	}

	c.logger.Debug("api call",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(data)),
		}
	}
	return data, nil
}

func (c *Client) authorize(ctx context.Context, req *http.Request) error {
	if c.tokens == nil {
		return nil
	}
	token, err := c.tokens.Token(ctx, c.tokenKind)
	if err != nil {
		return fmt.Errorf("resolve %s token: %w", c.tokenKind, err)
	}
	if token == "" {
		return nil
	}
	if c.headerMode == HeaderRaw {
		req.Header.Set("Authorization", token)
		return nil
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return nil
}

func escape(id string) string {
	return url.PathEscape(id)
}
