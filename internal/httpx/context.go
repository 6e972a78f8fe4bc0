package httpx

import (
	"context"
	"net/http"

	"bookshelf/internal/entity"
)

type contextKey string

const (
	userKey      contextKey = "user"
	requestIDKey contextKey = "requestID"
)

// UserFrom returns the signed-in user attached by SessionMiddleware.
func UserFrom(r *http.Request) (entity.User, bool) {
	u, ok := r.Context().Value(userKey).(entity.User)
	return u, ok
}

// UserIDFrom retrieves the user ID from the request context.
func UserIDFrom(r *http.Request) string {
	u, _ := UserFrom(r)
	return u.ID
}

func ContextWithUser(ctx context.Context, u entity.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

func RequestIDFrom(r *http.Request) string {
	if v, ok := r.Context().Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}
