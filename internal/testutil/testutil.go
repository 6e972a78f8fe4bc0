package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"

	"bookshelf/internal/entity"
)

// Reader is a signed-in user without special rights.
var Reader = entity.User{
	ID:    "user-reader-123",
	Email: "reader@example.com",
	Name:  "Reader",
	Role:  entity.RoleUser,
}

// Admin is a user with the admin role.
var Admin = entity.User{
	ID:    "user-admin-456",
	Email: "admin@example.com",
	Name:  "Admin",
	Role:  entity.RoleAdmin,
}

// Dune is a complete catalog record.
var Dune = entity.Book{
	ID:            "book-dune-789",
	Title:         "Dune",
	Author:        "Frank Herbert",
	Genre:         "Science Fiction",
	Description:   "Spice and sandworms.",
	Rating:        4.5,
	PublishedYear: 1965,
	ISBN:          "9780441172719",
}

// NewRequest creates a new HTTP request for testing. A non-nil body is sent
// as JSON; a string body is sent verbatim.
func NewRequest(method, path string, body interface{}) *http.Request {
	var bodyBytes []byte
	switch b := body.(type) {
	case nil:
	case string:
		bodyBytes = []byte(b)
	default:
		bodyBytes, _ = json.Marshal(b)
	}
	var r *http.Request
	if bodyBytes != nil {
		r = httptest.NewRequest(method, path, bytes.NewReader(bodyBytes))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	return r
}

// Envelope is the decoded form of a gateway response.
type Envelope struct {
	Code    int
	Header  http.Header
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Meta    map[string]any  `json:"meta"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"details"`
	} `json:"error"`
}

// RecordHTTPResponse decodes the recorded response envelope. Bodies that are
// not JSON leave the envelope fields empty.
func RecordHTTPResponse(w *httptest.ResponseRecorder) Envelope {
	result := w.Result()
	defer result.Body.Close()

	bodyBytes, _ := io.ReadAll(result.Body)

	var env Envelope
	if len(bodyBytes) > 0 {
		_ = json.Unmarshal(bodyBytes, &env)
	}
	env.Code = result.StatusCode
	env.Header = result.Header
	return env
}

// DecodeData unmarshals the envelope's data into dst.
func (e Envelope) DecodeData(dst any) error {
	return json.Unmarshal(e.Data, dst)
}

// AssertResponseCode checks if the response code matches expected
func AssertResponseCode(t interface {
	Errorf(format string, args ...any)
}, got, want int) {
	if got != want {
		t.Errorf("got status code %d, want %d", got, want)
	}
}
