package httpx

import (
	"net/http"

	"bookshelf/internal/notify"
)

// WriteError maps err onto a status code and error envelope.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	t := notify.FromError(err)
	status, code := StatusFor(t)

	var details []ErrorDetail
	for _, f := range t.Fields {
		details = append(details, ErrorDetail{Field: f.Field, Message: f.Message})
	}

	message := t.Title
	if status < 500 && t.Kind == notify.KindValidation && len(details) == 0 {
		message = t.Message
	}
	JSONError(w, r, status, code, message, details)
}

// StatusFor returns the gateway status and envelope code for a toast.
func StatusFor(t notify.Toast) (int, string) {
	switch t.Kind {
	case notify.KindValidation:
		return http.StatusBadRequest, "VALIDATION_ERROR"
	case notify.KindUnauthorized:
		return http.StatusUnauthorized, "UNAUTHORIZED"
	case notify.KindForbidden:
		return http.StatusForbidden, "FORBIDDEN"
	case notify.KindNotFound:
		return http.StatusNotFound, "NOT_FOUND"
	case notify.KindConflict:
		return http.StatusConflict, "CONFLICT"
	case notify.KindNetwork, notify.KindMalformed:
		return http.StatusBadGateway, "BAD_GATEWAY"
	case notify.KindHTTP:
		switch {
		case t.Status == http.StatusConflict:
			return http.StatusConflict, "CONFLICT"
		case t.Status >= 400 && t.Status < 500:
			return http.StatusBadRequest, "VALIDATION_ERROR"
		default:
			return http.StatusBadGateway, "BAD_GATEWAY"
		}
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}
