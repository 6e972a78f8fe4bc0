// Package openlibrary looks up bibliographic data by ISBN so catalog entries
// can be prefilled.
package openlibrary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"bookshelf/internal/apiclient"
	"bookshelf/internal/entity"

	"golang.org/x/time/rate"
)

const DefaultBaseURL = "https://openlibrary.org"

var ErrNotFound = fmt.Errorf("isbn %w", entity.ErrNotFound)

type Client struct {
	httpClient *http.Client
	userAgent  string
	baseURL    string
	limiter    *rate.Limiter
	maxRetries int
}

func NewClient(baseURL, userAgent string, rps int, maxRetries int) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if rps <= 0 {
		rps = 1
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		userAgent:  userAgent,
		baseURL:    strings.TrimRight(baseURL, "/"),
		limiter:    rate.NewLimiter(rate.Every(time.Second/time.Duration(rps)), 1),
		maxRetries: maxRetries,
	}
}

// bookData matches api/books?jscmd=data
type bookData struct {
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle"`
	PublishDate string `json:"publish_date"`
	Cover       struct {
		Large  string `json:"large"`
		Medium string `json:"medium"`
	} `json:"cover"`
	Authors []struct {
		Name string `json:"name"`
	} `json:"authors"`
	Subjects []struct {
		Name string `json:"name"`
	} `json:"subjects"`
	Notes json.RawMessage `json:"notes"`
}

var yearPattern = regexp.MustCompile(`\b(1[0-9]{3}|20[0-9]{2})\b`)

// LookupISBN returns what Open Library knows about isbn as a catalog record
// without an id.
func (c *Client) LookupISBN(ctx context.Context, isbn string) (entity.Book, error) {
	isbn = strings.NewReplacer("-", "", " ", "").Replace(strings.TrimSpace(isbn))
	if isbn == "" {
		return entity.Book{}, fmt.Errorf("%w: isbn is required", entity.ErrInvalidInput)
	}

	key := "ISBN:" + isbn
	u := fmt.Sprintf("%s/api/books?bibkeys=%s&jscmd=data&format=json", c.baseURL, url.QueryEscape(key))

	var res map[string]bookData
	if err := c.get(ctx, u, &res); err != nil {
		return entity.Book{}, err
	}
	d, ok := res[key]
	if !ok || strings.TrimSpace(d.Title) == "" {
		return entity.Book{}, fmt.Errorf("%w: %s", ErrNotFound, isbn)
	}

	b := entity.Book{
		Title:       strings.TrimSpace(d.Title),
		ISBN:        isbn,
		CoverImage:  d.Cover.Large,
		Description: notesText(d.Notes),
	}
	if b.CoverImage == "" {
		b.CoverImage = d.Cover.Medium
	}
	if d.Subtitle != "" {
		b.Title += ": " + strings.TrimSpace(d.Subtitle)
	}
	names := make([]string, 0, len(d.Authors))
	for _, a := range d.Authors {
		if n := strings.TrimSpace(a.Name); n != "" {
			names = append(names, n)
		}
	}
	b.Author = strings.Join(names, ", ")
	if len(d.Subjects) > 0 {
		b.Genre = strings.TrimSpace(d.Subjects[0].Name)
	}
	if m := yearPattern.FindString(d.PublishDate); m != "" {
		b.PublishedYear, _ = strconv.Atoi(m)
	}
	return b, nil
}

// notesText accepts both a plain string and {type, value}.
func notesText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var typed struct {
		Value string `json:"value"`
	}
	if err := json.Unmarshal(raw, &typed); err == nil {
		return strings.TrimSpace(typed.Value)
	}
	return ""
}

type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("open library: unexpected status code: %d", e.code)
}

func (c *Client) get(ctx context.Context, url string, target interface{}) error {
	var lastErr error
	for i := 0; i <= c.maxRetries; i++ {
		if i > 0 {
			// Backoff: 1s, 2s, 4s...
			backoff := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		err := c.once(ctx, url, target)
		if err == nil {
			return nil
		}
		var se *statusError
		if errors.As(err, &se) && se.code != http.StatusTooManyRequests && se.code < 500 {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		lastErr = err
	}
	return fmt.Errorf("after %d retries: %w", c.maxRetries, lastErr)
}

func (c *Client) once(ctx context.Context, url string, target interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &apiclient.NetworkError{Method: http.MethodGet, Path: req.URL.Path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &statusError{code: resp.StatusCode}
	}
	return json.NewDecoder(resp.Body).Decode(target)
}
