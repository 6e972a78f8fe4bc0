package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xhit/go-str2duration/v2"
)

type lookupFunc func(key string) (string, bool)

type envReader struct {
	lookup lookupFunc
	err    error
}

func (r *envReader) get(key string) (string, bool) {
	v, ok := r.lookup(key)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return strings.TrimSpace(v), true
}

func (r *envReader) str(dst *string, keys ...string) {
	for _, key := range keys {
		if v, ok := r.get(key); ok {
			*dst = v
			return
		}
	}
}

func (r *envReader) list(dst *[]string, key string) {
	v, ok := r.get(key)
	if !ok {
		return
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	*dst = out
}

func (r *envReader) fail(key string, err error) {
	if r.err == nil {
		r.err = fmt.Errorf("%w: %s: %v", ErrInvalid, key, err)
	}
}

func (r *envReader) float(dst *float64, key string) {
	if v, ok := r.get(key); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			r.fail(key, err)
			return
		}
		*dst = f
	}
}

func (r *envReader) int(dst *int, key string) {
	if v, ok := r.get(key); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			r.fail(key, err)
			return
		}
		*dst = n
	}
}

func (r *envReader) int64(dst *int64, key string) {
	if v, ok := r.get(key); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			r.fail(key, err)
			return
		}
		*dst = n
	}
}

func (r *envReader) bool(dst *bool, key string) {
	if v, ok := r.get(key); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			r.fail(key, err)
			return
		}
		*dst = b
	}
}

func (r *envReader) duration(dst *Duration, key string) {
	if v, ok := r.get(key); ok {
		d, err := str2duration.ParseDuration(v)
		if err != nil {
			r.fail(key, err)
			return
		}
		*dst = Duration(d)
	}
}

// mockUsers reads "email:password:name" entries separated by commas.
func (r *envReader) mockUsers(dst *[]MockUser, key string) {
	v, ok := r.get(key)
	if !ok {
		return
	}
	var users []MockUser
	for _, entry := range strings.Split(v, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, ":", 3)
		if len(parts) < 2 {
			r.fail(key, fmt.Errorf("entry %q is not email:password[:name]", entry))
			return
		}
		u := MockUser{Email: parts[0], Password: parts[1]}
		if len(parts) == 3 {
			u.Name = parts[2]
		}
		users = append(users, u)
	}
	*dst = users
}

func applyEnv(cfg *Config, lookup lookupFunc) error {
	r := &envReader{lookup: lookup}

	r.str(&cfg.LogLevel, "BOOKSHELF_LOG_LEVEL")

	r.str(&cfg.API.BaseURL, "BOOKSHELF_API_URL", "API_BASE_URL")
	r.str(&cfg.API.TokenKind, "BOOKSHELF_TOKEN_KIND")
	r.str(&cfg.API.HeaderMode, "BOOKSHELF_AUTH_HEADER")
	r.duration(&cfg.API.Timeout, "BOOKSHELF_API_TIMEOUT")
	r.float(&cfg.API.RPS, "BOOKSHELF_API_RPS")
	r.int(&cfg.API.MaxPages, "BOOKSHELF_MAX_PAGES")
	r.int(&cfg.API.Parallelism, "BOOKSHELF_PARALLELISM")

	r.str(&cfg.Auth.Provider, "BOOKSHELF_AUTH_PROVIDER")
	r.str(&cfg.Auth.GoTrueProject, "GOTRUE_PROJECT_REF")
	r.str(&cfg.Auth.GoTrueURL, "GOTRUE_URL")
	r.str(&cfg.Auth.GoTrueAPIKey, "GOTRUE_API_KEY")
	r.str(&cfg.Auth.MockSecret, "BOOKSHELF_MOCK_SECRET", "JWT_SECRET")
	r.duration(&cfg.Auth.MockTokenTTL, "BOOKSHELF_MOCK_TOKEN_TTL")
	r.list(&cfg.Auth.MockAdmins, "BOOKSHELF_MOCK_ADMINS")
	r.mockUsers(&cfg.Auth.MockUsers, "BOOKSHELF_MOCK_USERS")

	r.str(&cfg.Session.Store, "BOOKSHELF_SESSION_STORE")
	r.str(&cfg.Session.SQLitePath, "BOOKSHELF_SQLITE_PATH")
	r.str(&cfg.Session.PostgresDSN, "BOOKSHELF_POSTGRES_DSN", "DATABASE_URL", "DB_DSN")
	r.duration(&cfg.Session.TTL, "BOOKSHELF_SESSION_TTL")

	r.str(&cfg.Server.Addr, "BOOKSHELF_ADDR", "APP_ADDR")
	r.list(&cfg.Server.AllowedOrigins, "BOOKSHELF_ALLOWED_ORIGINS")
	r.bool(&cfg.Server.SecureCookies, "BOOKSHELF_SECURE_COOKIES")
	r.bool(&cfg.Server.EnableHSTS, "ENABLE_HSTS")
	r.float(&cfg.Server.RateLimitRPS, "BOOKSHELF_RATE_LIMIT_RPS")
	r.int(&cfg.Server.RateLimitBurst, "BOOKSHELF_RATE_LIMIT_BURST")
	r.int64(&cfg.Server.MaxBodyBytes, "BOOKSHELF_MAX_BODY_BYTES")
	r.duration(&cfg.Server.ShutdownTimeout, "BOOKSHELF_SHUTDOWN_TIMEOUT")

	r.str(&cfg.Recommend.Backend, "BOOKSHELF_RECOMMEND_BACKEND")
	r.str(&cfg.Recommend.GenAIAPIKey, "GEMINI_API_KEY", "GOOGLE_API_KEY")
	r.str(&cfg.Recommend.GenAIModel, "BOOKSHELF_GENAI_MODEL")
	r.str(&cfg.Recommend.GenAIURL, "BOOKSHELF_GENAI_URL")

	r.str(&cfg.Catalog.OpenLibraryURL, "BOOKSHELF_OPENLIBRARY_URL")
	r.str(&cfg.Catalog.UserAgent, "BOOKSHELF_USER_AGENT")

	r.str(&cfg.Sentry.DSN, "SENTRY_DSN")
	r.str(&cfg.Sentry.Environment, "SENTRY_ENVIRONMENT")
	r.str(&cfg.Sentry.Release, "SENTRY_RELEASE")
	r.float(&cfg.Sentry.SampleRate, "SENTRY_SAMPLE_RATE")

	return r.err
}
