// Package session holds the signed-in user's identity tokens and exposes the
// current authentication state to the rest of the application.
package session

import (
	"context"
	"errors"
	"time"

	"bookshelf/internal/entity"
)

var (
	ErrNoSession          = errors.New("no active session")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserExists         = errors.New("user already exists")
	ErrConfirmationNeeded = errors.New("account created; confirm the email address before signing in")
)

// DefaultKey names the session used when the context carries no key.
const DefaultKey = "default"

// expirySkew refreshes tokens slightly before they actually expire.
const expirySkew = 30 * time.Second

type Session struct {
	User         entity.User `json:"user"`
	IDToken      string      `json:"idToken"`
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken,omitempty"`
	ExpiresAt    time.Time   `json:"expiresAt"`
}

// Expired reports whether the tokens are at or near their expiry.
func (s Session) Expired(now time.Time) bool {
	if s.ExpiresAt.IsZero() {
		return false
	}
	return !now.Before(s.ExpiresAt.Add(-expirySkew))
}

type Credentials struct {
	Email    string
	Password string
	Name     string
}

// Provider is the managed identity service.
type Provider interface {
	SignIn(ctx context.Context, email, password string) (Session, error)
	SignUp(ctx context.Context, c Credentials) (Session, error)
	Refresh(ctx context.Context, refreshToken string) (Session, error)
	SignOut(ctx context.Context, s Session) error
}

// Store persists sessions under a key. Load returns ErrNoSession for unknown
// or lapsed keys.
type Store interface {
	Load(ctx context.Context, key string) (Session, error)
	Save(ctx context.Context, key string, s Session, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type contextKey string

const sessionKey contextKey = "sessionKey"

// anonymousKey never names a stored session.
const anonymousKey = "\x00anonymous"

// WithKey returns a context whose session operations use key.
func WithKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, sessionKey, key)
}

// Anonymous returns a context that resolves to no session, even the default one.
func Anonymous(ctx context.Context) context.Context {
	return context.WithValue(ctx, sessionKey, anonymousKey)
}

// KeyFrom returns the session key carried by ctx, or DefaultKey.
func KeyFrom(ctx context.Context) string {
	if v, ok := ctx.Value(sessionKey).(string); ok && v != "" {
		return v
	}
	return DefaultKey
}
