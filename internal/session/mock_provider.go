package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"

	"bookshelf/internal/entity"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// MockProvider is a local stand-in for the managed identity service. Users
// live in memory; tokens are HS256 JWTs shaped like the real provider's.
type MockProvider struct {
	secret   []byte
	tokenTTL time.Duration
	admins   map[string]bool
	now      func() time.Time

	mu       sync.Mutex
	users    map[string]mockUser
	refreshs map[string]string // refresh token -> email
}

type mockUser struct {
	user entity.User
	hash string
}

type tokenClaims struct {
	Email    string `json:"email"`
	Name     string `json:"name,omitempty"`
	Role     string `json:"role"`
	TokenUse string `json:"token_use"` // id, access
	jwt.RegisteredClaims
}

func NewMockProvider(secret string, tokenTTL time.Duration, adminEmails []string) *MockProvider {
	admins := make(map[string]bool, len(adminEmails))
	for _, e := range adminEmails {
		admins[normalizeEmail(e)] = true
	}
	if tokenTTL <= 0 {
		tokenTTL = time.Hour
	}
	return &MockProvider{
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		admins:   admins,
		now:      time.Now,
		users:    make(map[string]mockUser),
		refreshs: make(map[string]string),
	}
}

// Register adds a user to the in-memory registry.
func (p *MockProvider) Register(c Credentials) (entity.User, error) {
	email := normalizeEmail(c.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		return entity.User{}, fmt.Errorf("invalid email %q", c.Email)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(c.Password), bcrypt.DefaultCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return entity.User{}, fmt.Errorf("%w: password must be at most 72 bytes", entity.ErrInvalidInput)
	}
	if err != nil {
		return entity.User{}, err
	}

	role := entity.RoleUser
	if p.admins[email] {
		role = entity.RoleAdmin
	}
	u := entity.User{
		ID:        mockUserID(email),
		Email:     email,
		Name:      strings.TrimSpace(c.Name),
		Role:      role,
		CreatedAt: p.now().UTC().Format(time.RFC3339),
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if _, exists := p.users[email]; exists {
		return entity.User{}, ErrUserExists
	}
	p.users[email] = mockUser{user: u, hash: string(hash)}
	return u, nil
}

func (p *MockProvider) SignIn(_ context.Context, email, password string) (Session, error) {
	p.mu.Lock()
	mu, ok := p.users[normalizeEmail(email)]
	p.mu.Unlock()
	if !ok || bcrypt.CompareHashAndPassword([]byte(mu.hash), []byte(password)) != nil {
		return Session{}, ErrInvalidCredentials
	}
	return p.issue(mu.user)
}

func (p *MockProvider) SignUp(_ context.Context, c Credentials) (Session, error) {
	u, err := p.Register(c)
	if err != nil {
		return Session{}, err
	}
	return p.issue(u)
}

// Refresh rotates the refresh token.
func (p *MockProvider) Refresh(_ context.Context, refreshToken string) (Session, error) {
	p.mu.Lock()
	email, ok := p.refreshs[refreshToken]
	delete(p.refreshs, refreshToken)
	mu, known := p.users[email]
	p.mu.Unlock()
	if !ok || !known {
		return Session{}, ErrNoSession
	}
	return p.issue(mu.user)
}

func (p *MockProvider) SignOut(_ context.Context, s Session) error {
	p.mu.Lock()
	delete(p.refreshs, s.RefreshToken)
	p.mu.Unlock()
	return nil
}

func (p *MockProvider) issue(u entity.User) (Session, error) {
	expiresAt := p.now().Add(p.tokenTTL)
	idToken, err := p.sign(u, "id", expiresAt)
	if err != nil {
		return Session{}, err
	}
	accessToken, err := p.sign(u, "access", expiresAt)
	if err != nil {
		return Session{}, err
	}
	refresh, err := randomHex(32)
	if err != nil {
		return Session{}, err
	}

	p.mu.Lock()
	p.refreshs[refresh] = u.Email
	p.mu.Unlock()

	return Session{
		User:         u,
		IDToken:      idToken,
		AccessToken:  accessToken,
		RefreshToken: refresh,
		ExpiresAt:    expiresAt,
	}, nil
}

func (p *MockProvider) sign(u entity.User, use string, expiresAt time.Time) (string, error) {
	jti, err := randomHex(16)
	if err != nil {
		return "", err
	}
	c := tokenClaims{
		Email:    u.Email,
		Name:     u.Name,
		Role:     u.Role,
		TokenUse: use,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   u.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(p.now()),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return t.SignedString(p.secret)
}

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// mockUserID is stable per email so separate processes agree on identity.
func mockUserID(email string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("mailto:"+email)).String()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
