package entity

import "errors"

// Shared error classes. Domain packages wrap these so presentation code can
// map them without knowing every domain error.
var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("not allowed")
	ErrInvalidInput = errors.New("invalid input")
)
