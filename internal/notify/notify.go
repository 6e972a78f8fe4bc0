// Package notify turns outcomes into user-facing toast notifications.
package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bookshelf/internal/apiclient"
	"bookshelf/internal/entity"
	"bookshelf/internal/form"
	"bookshelf/internal/session"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Kind is the error class behind a toast.
type Kind string

const (
	KindNone         Kind = ""
	KindNetwork      Kind = "network"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindHTTP         Kind = "http"
	KindMalformed    Kind = "malformed"
	KindValidation   Kind = "validation"
	KindUnknown      Kind = "unknown"
)

type Toast struct {
	Level   Level             `json:"level"`
	Kind    Kind              `json:"kind,omitempty"`
	Title   string            `json:"title"`
	Message string            `json:"message,omitempty"`
	Status  int               `json:"status,omitempty"`
	Fields  []form.FieldError `json:"fields,omitempty"`
}

func Success(title, message string) Toast {
	return Toast{Level: LevelSuccess, Title: title, Message: message}
}

func Info(title, message string) Toast {
	return Toast{Level: LevelInfo, Title: title, Message: message}
}

// FromError classifies err. A nil error yields the zero Toast.
func FromError(err error) Toast {
	if err == nil {
		return Toast{}
	}

	if fe, ok := form.AsErrors(err); ok {
		names := make([]string, len(fe))
		for i, f := range fe {
			names[i] = f.Field
		}
		return Toast{
			Level:   LevelWarning,
			Kind:    KindValidation,
			Title:   "Please check " + strings.Join(names, ", "),
			Message: err.Error(),
			Fields:  fe,
		}
	}

	switch {
	case errors.Is(err, session.ErrConfirmationNeeded):
		return Toast{Level: LevelInfo, Kind: KindUnauthorized, Title: "Check your inbox", Message: err.Error()}
	case errors.Is(err, session.ErrInvalidCredentials):
		return Toast{Level: LevelError, Kind: KindUnauthorized, Title: "Sign-in failed", Message: err.Error()}
	case errors.Is(err, session.ErrNoSession):
		return Toast{Level: LevelWarning, Kind: KindUnauthorized, Title: "Please sign in again", Message: err.Error()}
	case errors.Is(err, session.ErrUserExists):
		return Toast{Level: LevelWarning, Kind: KindConflict, Title: "Account already exists", Message: err.Error()}
	case apiclient.IsNetwork(err), errors.Is(err, context.DeadlineExceeded):
		return Toast{Level: LevelError, Kind: KindNetwork, Title: "Connection problem", Message: err.Error()}
	}

	if status := apiclient.StatusCode(err); status != 0 {
		t := Toast{Level: LevelError, Status: status, Message: err.Error()}
		switch status {
		case 401:
			t.Kind, t.Title, t.Level = KindUnauthorized, "Please sign in again", LevelWarning
		case 403:
			t.Kind, t.Title = KindForbidden, "Not allowed"
		case 404:
			t.Kind, t.Title = KindNotFound, "Not found"
		default:
			t.Kind, t.Title = KindHTTP, fmt.Sprintf("Request failed (status %d)", status)
		}
		return t
	}

	switch {
	case apiclient.IsMalformed(err):
		return Toast{Level: LevelError, Kind: KindMalformed, Title: "Unexpected response", Message: err.Error()}
	case errors.Is(err, entity.ErrForbidden):
		return Toast{Level: LevelError, Kind: KindForbidden, Title: "Not allowed", Message: err.Error()}
	case errors.Is(err, entity.ErrNotFound):
		return Toast{Level: LevelError, Kind: KindNotFound, Title: "Not found", Message: err.Error()}
	case errors.Is(err, entity.ErrInvalidInput):
		return Toast{Level: LevelWarning, Kind: KindValidation, Title: "Invalid input", Message: err.Error()}
	}

	return Toast{Level: LevelError, Kind: KindUnknown, Title: "Something went wrong", Message: err.Error()}
}
