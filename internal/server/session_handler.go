package server

import (
	"errors"
	"net/http"
	"time"

	"bookshelf/internal/form"
	"bookshelf/internal/httpx"
	"bookshelf/internal/session"

	"github.com/google/uuid"
)

// SessionHandler signs browser clients in and out. Each sign-in gets its own
// session key, handed back as an HttpOnly cookie.
type SessionHandler struct {
	sessions *session.Manager
	ttl      time.Duration
	secure   bool
}

func NewSessionHandler(sessions *session.Manager, ttl time.Duration, secure bool) *SessionHandler {
	return &SessionHandler{sessions: sessions, ttl: ttl, secure: secure}
}

// SignIn handles POST /api/session
func (h *SessionHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var f form.SignInForm
	if err := httpx.DecodeJSON(r, &f); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid JSON body", nil)
		return
	}
	if err := form.Check(&f); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	key := uuid.NewString()
	s, err := h.sessions.SignIn(session.WithKey(r.Context(), key), f.Email, f.Password)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.SetSessionCookie(w, key, h.ttl, h.secure)
	httpx.JSONSuccess(w, r, s.User, nil)
}

// SignUp handles POST /api/session/signup
func (h *SessionHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var f form.SignUpForm
	if err := httpx.DecodeJSON(r, &f); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid JSON body", nil)
		return
	}
	if err := form.Check(&f); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	key := uuid.NewString()
	s, err := h.sessions.SignUp(session.WithKey(r.Context(), key), session.Credentials{
		Email:    f.Email,
		Password: f.Password,
		Name:     f.Name,
	})
	if errors.Is(err, session.ErrConfirmationNeeded) {
		httpx.JSONSuccess(w, r, map[string]any{"confirmationRequired": true}, nil)
		return
	}
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.SetSessionCookie(w, key, h.ttl, h.secure)
	httpx.JSONCreated(w, r, s.User)
}

// Current handles GET /api/session
func (h *SessionHandler) Current(w http.ResponseWriter, r *http.Request) {
	u, _ := httpx.UserFrom(r)
	httpx.JSONSuccess(w, r, u, nil)
}

// SignOut handles DELETE /api/session
func (h *SessionHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.SignOut(r.Context()); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.ClearSessionCookie(w, h.secure)
	httpx.NoContent(w)
}
