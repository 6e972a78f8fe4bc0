package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"bookshelf/internal/apiclient"

	"github.com/google/uuid"
	"github.com/supabase-community/gotrue-go"
	"github.com/supabase-community/gotrue-go/types"
)

// GoTrueProvider signs users in against a hosted GoTrue identity service.
// GoTrue issues no separate ID token, so the access token serves both roles.
type GoTrueProvider struct {
	client gotrue.Client
	now    func() time.Time
}

func NewGoTrueProvider(projectRef, apiKey, customURL string) *GoTrueProvider {
	client := gotrue.New(projectRef, apiKey)
	if customURL != "" {
		client = client.WithCustomGoTrueURL(customURL)
	}
	return &GoTrueProvider{client: client, now: time.Now}
}

func (p *GoTrueProvider) SignIn(_ context.Context, email, password string) (Session, error) {
	resp, err := p.client.Token(types.TokenRequest{
		GrantType: "password",
		Email:     strings.TrimSpace(email),
		Password:  password,
	})
	if err != nil {
		if errors.Is(err, types.ErrInvalidTokenRequest) {
			return Session{}, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
		}
		err = classify(http.MethodPost, "/token", err)
		switch apiclient.StatusCode(err) {
		case http.StatusBadRequest, http.StatusUnauthorized, http.StatusUnprocessableEntity:
			return Session{}, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
		}
		return Session{}, err
	}
	return p.fromTokenResponse(resp)
}

func (p *GoTrueProvider) SignUp(ctx context.Context, c Credentials) (Session, error) {
	_, err := p.client.Signup(types.SignupRequest{
		Email:    strings.TrimSpace(c.Email),
		Password: c.Password,
		Data:     map[string]interface{}{"name": c.Name},
	})
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "already registered") {
			return Session{}, ErrUserExists
		}
		return Session{}, fmt.Errorf("sign up: %w", classify(http.MethodPost, "/signup", err))
	}

	// An unconfirmed account is refused at the token endpoint like a bad
	// password; anything else is a real failure.
	s, err := p.SignIn(ctx, c.Email, c.Password)
	if errors.Is(err, ErrInvalidCredentials) {
		return Session{}, ErrConfirmationNeeded
	}
	if err != nil {
		return Session{}, err
	}
	return s, nil
}

func (p *GoTrueProvider) Refresh(_ context.Context, refreshToken string) (Session, error) {
	resp, err := p.client.Token(types.TokenRequest{
		GrantType:    "refresh_token",
		RefreshToken: refreshToken,
	})
	if err != nil {
		return Session{}, fmt.Errorf("refresh: %w", classify(http.MethodPost, "/token", err))
	}
	return p.fromTokenResponse(resp)
}

func (p *GoTrueProvider) SignOut(_ context.Context, s Session) error {
	if err := p.client.WithToken(s.AccessToken).Logout(); err != nil {
		return classify(http.MethodPost, "/logout", err)
	}
	return nil
}

var statusPattern = regexp.MustCompile(`response status code (\d+)`)

// classify maps gotrue-go errors onto the API client's error types: transport
// failures become *apiclient.NetworkError and non-2xx answers *apiclient.HTTPError.
func classify(method, path string, err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return &apiclient.NetworkError{Method: method, Path: path, Err: err}
	}
	if m := statusPattern.FindStringSubmatch(err.Error()); m != nil {
		code, _ := strconv.Atoi(m[1])
		return &apiclient.HTTPError{Method: method, Path: path, StatusCode: code, Body: err.Error()}
	}
	return err
}

func (p *GoTrueProvider) fromTokenResponse(resp *types.TokenResponse) (Session, error) {
	user, expiresAt, err := UserFromToken(resp.AccessToken)
	if err != nil {
		return Session{}, err
	}
	if resp.User.ID != uuid.Nil {
		user.ID = resp.User.ID.String()
	}
	if resp.User.Email != "" {
		user.Email = resp.User.Email
	}
	if resp.ExpiresIn > 0 {
		expiresAt = p.now().Add(time.Duration(resp.ExpiresIn) * time.Second)
	}

	return Session{
		User:         user,
		IDToken:      resp.AccessToken,
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresAt:    expiresAt,
	}, nil
}
