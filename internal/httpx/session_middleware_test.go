package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bookshelf/internal/entity"
	"bookshelf/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stringsReader(s string) *strings.Reader { return strings.NewReader(s) }

type fakeUsers map[string]entity.User

func (f fakeUsers) User(ctx context.Context) (entity.User, bool) {
	u, ok := f[session.KeyFrom(ctx)]
	return u, ok
}

func TestSessionMiddleware(t *testing.T) {
	users := fakeUsers{
		"key-reader": {ID: "u1", Email: "reader@example.com", Role: entity.RoleUser},
		"default":    {ID: "cli", Role: entity.RoleAdmin},
	}

	var got entity.User
	var gotOK bool
	var gotKey string
	handler := SessionMiddleware(users)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, gotOK = UserFrom(r)
		gotKey = session.KeyFrom(r.Context())
	}))

	t.Run("cookie resolves user", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: SessionCookie, Value: "key-reader"})
		handler.ServeHTTP(httptest.NewRecorder(), r)

		require.True(t, gotOK)
		assert.Equal(t, "u1", got.ID)
		assert.Equal(t, "key-reader", gotKey)
	})

	t.Run("no cookie is anonymous", func(t *testing.T) {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		assert.False(t, gotOK)
		assert.NotEqual(t, session.DefaultKey, gotKey)
	})

	t.Run("unknown cookie", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: SessionCookie, Value: "stale"})
		handler.ServeHTTP(httptest.NewRecorder(), r)
		assert.False(t, gotOK)
	})
}

func TestRequireUserAndAdmin(t *testing.T) {
	reader := entity.User{ID: "u1", Role: entity.RoleUser}
	admin := entity.User{ID: "u2", Role: entity.RoleAdmin}

	tests := []struct {
		name   string
		guard  func(http.Handler) http.Handler
		user   *entity.User
		status int
	}{
		{"user guard anonymous", RequireUser, nil, http.StatusUnauthorized},
		{"user guard reader", RequireUser, &reader, http.StatusOK},
		{"admin guard anonymous", RequireAdmin, nil, http.StatusUnauthorized},
		{"admin guard reader", RequireAdmin, &reader, http.StatusForbidden},
		{"admin guard admin", RequireAdmin, &admin, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.user != nil {
				r = r.WithContext(ContextWithUser(r.Context(), *tt.user))
			}
			w := httptest.NewRecorder()
			tt.guard(okHandler).ServeHTTP(w, r)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestSessionCookie(t *testing.T) {
	w := httptest.NewRecorder()
	SetSessionCookie(w, "abc", time.Hour, true)
	c := w.Result().Cookies()
	require.Len(t, c, 1)
	assert.Equal(t, "abc", c[0].Value)
	assert.True(t, c[0].HttpOnly)
	assert.True(t, c[0].Secure)
	assert.Equal(t, 3600, c[0].MaxAge)

	w = httptest.NewRecorder()
	ClearSessionCookie(w, false)
	c = w.Result().Cookies()
	require.Len(t, c, 1)
	assert.Equal(t, "", c[0].Value)
	assert.Less(t, c[0].MaxAge, 0)
}
