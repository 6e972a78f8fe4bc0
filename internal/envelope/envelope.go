// Package envelope normalizes the response shapes produced by the remote API.
//
// The gateway in front of the API is not consistent: the same route may answer
// with a bare JSON array, with a Lambda-proxy envelope whose body is a JSON
// encoded string, or with a paginated {items, nextToken} object.
package envelope

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformed is returned when a payload cannot be interpreted as the expected shape.
var ErrMalformed = errors.New("malformed response")

// maxUnwrapDepth bounds nested proxy envelopes.
const maxUnwrapDepth = 3

// ProxyError reports a Lambda-proxy envelope carrying a non-2xx statusCode.
type ProxyError struct {
	StatusCode int
	Body       string
}

func (e *ProxyError) Error() string {
	return fmt.Sprintf("proxied status %d: %s", e.StatusCode, e.Body)
}

// Page is one page of collection elements.
type Page struct {
	Items     []json.RawMessage
	NextToken string
}

// Unwrap strips Lambda-proxy envelopes and returns the real payload. Payloads
// that are not envelopes are returned unchanged.
func Unwrap(raw []byte) ([]byte, error) {
	payload := bytes.TrimSpace(raw)
	for depth := 0; depth < maxUnwrapDepth; depth++ {
		inner, ok, err := unwrapOnce(payload)
		if err != nil {
			return nil, err
		}
		if !ok {
			return payload, nil
		}
		payload = inner
	}
	return payload, nil
}

func unwrapOnce(payload []byte) ([]byte, bool, error) {
	if len(payload) == 0 || payload[0] != '{' {
		return payload, false, nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	body, hasBody := fields["body"]
	rawStatus, hasStatus := fields["statusCode"]
	body = bytes.TrimSpace(body)
	bodyIsString := len(body) > 0 && body[0] == '"'
	if !hasBody || (!hasStatus && !bodyIsString) {
		return payload, false, nil
	}

	inner := body
	if bodyIsString {
		var s string
		if err := json.Unmarshal(body, &s); err != nil {
			return nil, false, fmt.Errorf("%w: body: %v", ErrMalformed, err)
		}
		inner = bytes.TrimSpace([]byte(s))
	}

	if hasStatus {
		var status int
		if err := json.Unmarshal(rawStatus, &status); err != nil {
			return nil, false, fmt.Errorf("%w: statusCode: %v", ErrMalformed, err)
		}
		if status < 200 || status > 299 {
			return nil, false, &ProxyError{StatusCode: status, Body: string(inner)}
		}
	}

	if len(inner) == 0 {
		return []byte("null"), true, nil
	}
	if !json.Valid(inner) {
		return nil, false, fmt.Errorf("%w: body is not JSON", ErrMalformed)
	}
	return inner, true, nil
}

// Items extracts collection elements from a bare array, an {items, nextToken}
// object, or an object holding the array under one of keys. A non-array items
// field yields an empty page rather than an error.
func Items(raw []byte, keys ...string) (Page, error) {
	payload, err := Unwrap(raw)
	if err != nil {
		return Page{}, err
	}
	if len(payload) == 0 || bytes.Equal(payload, []byte("null")) {
		return Page{}, nil
	}

	switch payload[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(payload, &items); err != nil {
			return Page{}, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		return Page{Items: items}, nil
	case '{':
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(payload, &fields); err != nil {
			return Page{}, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		page := Page{NextToken: stringField(fields, "nextToken")}
		for _, key := range append([]string{"items"}, keys...) {
			value, ok := fields[key]
			if !ok {
				continue
			}
			page.Items = arrayOrEmpty(value)
			return page, nil
		}
		return Page{}, fmt.Errorf("%w: no collection field", ErrMalformed)
	default:
		return Page{}, fmt.Errorf("%w: unexpected %q", ErrMalformed, payload[0])
	}
}

func arrayOrEmpty(value json.RawMessage) []json.RawMessage {
	value = bytes.TrimSpace(value)
	if len(value) == 0 || value[0] != '[' {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(value, &items); err != nil {
		return nil
	}
	return items
}

func stringField(fields map[string]json.RawMessage, key string) string {
	value, ok := fields[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(value, &s); err != nil {
		return ""
	}
	return s
}

// DecodeList decodes every element, silently dropping those whose fields have
// the wrong JSON type or that fail valid.
func DecodeList[T any](elems []json.RawMessage, valid func(T) bool) []T {
	out := make([]T, 0, len(elems))
	for _, elem := range elems {
		var v T
		if err := json.Unmarshal(elem, &v); err != nil {
			continue
		}
		if valid != nil && !valid(v) {
			continue
		}
		out = append(out, v)
	}
	return out
}

// DecodeOne decodes a single record. When the top-level object is not a valid
// record, the object found under the first matching key is tried instead.
func DecodeOne[T any](raw []byte, valid func(T) bool, keys ...string) (T, error) {
	var zero T
	payload, err := Unwrap(raw)
	if err != nil {
		return zero, err
	}

	candidates := [][]byte{payload}
	if len(keys) > 0 && len(payload) > 0 && payload[0] == '{' {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(payload, &fields); err == nil {
			for _, key := range keys {
				if value, ok := fields[key]; ok {
					candidates = append(candidates, value)
				}
			}
		}
	}

	for _, candidate := range candidates {
		var v T
		if err := json.Unmarshal(candidate, &v); err != nil {
			continue
		}
		if valid == nil || valid(v) {
			return v, nil
		}
	}
	return zero, ErrMalformed
}
