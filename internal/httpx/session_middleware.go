package httpx

import (
	"context"
	"net/http"
	"time"

	"bookshelf/internal/entity"
	"bookshelf/internal/session"

	"github.com/getsentry/sentry-go"
)

const SessionCookie = "bookshelf_session"

// UserResolver looks up the user for the session key carried by ctx.
type UserResolver interface {
	User(ctx context.Context) (entity.User, bool)
}

// SessionMiddleware binds the session cookie to the request context. Requests
// without a cookie are anonymous and never fall back to a default session.
func SessionMiddleware(users UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			cookie, err := r.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r.WithContext(session.Anonymous(ctx)))
				return
			}

			ctx = session.WithKey(ctx, cookie.Value)
			if u, ok := users.User(ctx); ok {
				ctx = ContextWithUser(ctx, u)
				if hub := sentry.GetHubFromContext(ctx); hub != nil {
					hub.Scope().SetUser(sentry.User{ID: u.ID, Email: u.Email})
				}
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserFrom(r); !ok {
			JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Sign in to continue", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := UserFrom(r)
		if !ok {
			JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Sign in to continue", nil)
			return
		}
		if !u.IsAdmin() {
			JSONError(w, r, http.StatusForbidden, "FORBIDDEN", "Admin access required", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// SetSessionCookie stores key in an HttpOnly cookie that lives for ttl.
func SetSessionCookie(w http.ResponseWriter, key string, ttl time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    key,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
