package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bookshelf/internal/apiclient"
	"bookshelf/internal/entity"

	"go.uber.org/zap"
)

const defaultTTL = 7 * 24 * time.Hour

// Manager ties the identity provider to local session storage.
type Manager struct {
	provider Provider
	store    Store
	ttl      time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

func NewManager(provider Provider, store Store, ttl time.Duration, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Manager{
		provider: provider,
		store:    store,
		ttl:      ttl,
		logger:   logger,
		now:      time.Now,
	}
}

func (m *Manager) SignIn(ctx context.Context, email, password string) (Session, error) {
	s, err := m.provider.SignIn(ctx, email, password)
	if err != nil {
		return Session{}, err
	}
	if err := m.store.Save(ctx, KeyFrom(ctx), s, m.ttl); err != nil {
		return Session{}, fmt.Errorf("save session: %w", err)
	}
	m.logger.Info("signed in", zap.String("user_id", s.User.ID), zap.String("role", s.User.Role))
	return s, nil
}

func (m *Manager) SignUp(ctx context.Context, c Credentials) (Session, error) {
	s, err := m.provider.SignUp(ctx, c)
	if err != nil {
		return Session{}, err
	}
	if err := m.store.Save(ctx, KeyFrom(ctx), s, m.ttl); err != nil {
		return Session{}, fmt.Errorf("save session: %w", err)
	}
	m.logger.Info("signed up", zap.String("user_id", s.User.ID))
	return s, nil
}

// SignOut revokes the session at the provider and forgets it locally. The
// local copy is removed even when revocation fails.
func (m *Manager) SignOut(ctx context.Context) error {
	key := KeyFrom(ctx)
	if key == anonymousKey {
		return nil
	}
	s, err := m.store.Load(ctx, key)
	if errors.Is(err, ErrNoSession) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := m.provider.SignOut(ctx, s); err != nil {
		m.logger.Warn("provider sign-out failed", zap.String("user_id", s.User.ID), zap.Error(err))
	}
	return m.store.Delete(ctx, key)
}

// Current returns the active session, refreshing expired tokens when a
// refresh token is available. A session that cannot be refreshed is dropped.
func (m *Manager) Current(ctx context.Context) (Session, error) {
	key := KeyFrom(ctx)
	if key == anonymousKey {
		return Session{}, ErrNoSession
	}
	s, err := m.store.Load(ctx, key)
	if err != nil {
		return Session{}, err
	}
	if !s.Expired(m.now()) {
		return s, nil
	}

	if s.RefreshToken == "" {
		_ = m.store.Delete(ctx, key)
		return Session{}, ErrNoSession
	}
	refreshed, err := m.provider.Refresh(ctx, s.RefreshToken)
	if err != nil {
		m.logger.Info("session refresh failed", zap.String("user_id", s.User.ID), zap.Error(err))
		_ = m.store.Delete(ctx, key)
		return Session{}, ErrNoSession
	}
	if refreshed.RefreshToken == "" {
		refreshed.RefreshToken = s.RefreshToken
	}
	if err := m.store.Save(ctx, key, refreshed, m.ttl); err != nil {
		return Session{}, fmt.Errorf("save session: %w", err)
	}
	return refreshed, nil
}

// User returns the signed-in user, if any.
func (m *Manager) User(ctx context.Context) (entity.User, bool) {
	s, err := m.Current(ctx)
	if err != nil {
		return entity.User{}, false
	}
	return s.User, true
}

// Token implements apiclient.TokenSource. Anonymous callers get an empty token.
func (m *Manager) Token(ctx context.Context, kind apiclient.TokenKind) (string, error) {
	s, err := m.Current(ctx)
	if errors.Is(err, ErrNoSession) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if kind == apiclient.TokenAccess || s.IDToken == "" {
		return s.AccessToken, nil
	}
	return s.IDToken, nil
}
