package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(env map[string]string) lookupFunc {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestApplyEnv_Overrides(t *testing.T) {
	cfg := Default()
	err := applyEnv(&cfg, lookupFrom(map[string]string{
		"BOOKSHELF_API_URL":         "https://api.example.com/prod",
		"BOOKSHELF_TOKEN_KIND":      "access",
		"BOOKSHELF_AUTH_HEADER":     "raw",
		"BOOKSHELF_SESSION_TTL":     "7d",
		"BOOKSHELF_ALLOWED_ORIGINS": " https://a.example , ,https://b.example",
		"BOOKSHELF_SECURE_COOKIES":  "true",
		"BOOKSHELF_MOCK_USERS":      "ada@example.com:secret123:Ada,bob@example.com:hunter22",
		"DATABASE_URL":              "postgres://u:p@localhost/db",
	}))
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com/prod", cfg.API.BaseURL)
	assert.Equal(t, "access", cfg.API.TokenKind)
	assert.Equal(t, "raw", cfg.API.HeaderMode)
	assert.Equal(t, 7*24*time.Hour, cfg.Session.TTL.Std())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	assert.True(t, cfg.Server.SecureCookies)
	assert.Equal(t, "postgres://u:p@localhost/db", cfg.Session.PostgresDSN)
	require.Len(t, cfg.Auth.MockUsers, 2)
	assert.Equal(t, MockUser{Email: "ada@example.com", Password: "secret123", Name: "Ada"}, cfg.Auth.MockUsers[0])
	assert.Equal(t, "", cfg.Auth.MockUsers[1].Name)
}

func TestApplyEnv_BlankValuesKeepDefaults(t *testing.T) {
	cfg := Default()
	require.NoError(t, applyEnv(&cfg, lookupFrom(map[string]string{
		"BOOKSHELF_ADDR":      "  ",
		"BOOKSHELF_API_RPS":   "",
		"BOOKSHELF_LOG_LEVEL": "",
	})))
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, float64(10), cfg.API.RPS)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestApplyEnv_BadValuesNameTheKey(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"BOOKSHELF_API_RPS", "fast"},
		{"BOOKSHELF_MAX_PAGES", "lots"},
		{"BOOKSHELF_SECURE_COOKIES", "maybe"},
		{"BOOKSHELF_SESSION_TTL", "forever"},
		{"BOOKSHELF_MOCK_USERS", "nopassword"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			cfg := Default()
			err := applyEnv(&cfg, lookupFrom(map[string]string{tt.key: tt.value}))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalid))
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		c := Default()
		c.API.BaseURL = "https://api.example.com"
		return c
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantKey string
	}{
		{"ok", func(*Config) {}, ""},
		{"missing url", func(c *Config) { c.API.BaseURL = "" }, "BOOKSHELF_API_URL"},
		{"relative url", func(c *Config) { c.API.BaseURL = "/api" }, "BOOKSHELF_API_URL"},
		{"token kind", func(c *Config) { c.API.TokenKind = "refresh" }, "BOOKSHELF_TOKEN_KIND"},
		{"header mode", func(c *Config) { c.API.HeaderMode = "basic" }, "BOOKSHELF_AUTH_HEADER"},
		{"provider", func(c *Config) { c.Auth.Provider = "ldap" }, "BOOKSHELF_AUTH_PROVIDER"},
		{"gotrue needs project", func(c *Config) { c.Auth.Provider = "gotrue"; c.Auth.GoTrueAPIKey = "k" }, "GOTRUE_PROJECT_REF"},
		{"gotrue needs key", func(c *Config) { c.Auth.Provider = "gotrue"; c.Auth.GoTrueProject = "abc" }, "GOTRUE_API_KEY"},
		{"postgres needs dsn", func(c *Config) { c.Session.Store = "postgres" }, "DATABASE_URL"},
		{"store", func(c *Config) { c.Session.Store = "redis" }, "BOOKSHELF_SESSION_STORE"},
		{"genai needs key", func(c *Config) { c.Recommend.Backend = "genai" }, "GEMINI_API_KEY"},
		{"sample rate", func(c *Config) { c.Sentry.SampleRate = 2 }, "SENTRY_SAMPLE_RATE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantKey == "" {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrInvalid)
			assert.Contains(t, err.Error(), tt.wantKey)
		})
	}
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	tmp := t.TempDir()
	p := filepath.Join(tmp, "bookshelf.yaml")
	body := `
api:
  base_url: https://yaml.example.com
  timeout: 30s
session:
  ttl: 2w
server:
  addr: ":9090"
`
	require.NoError(t, os.WriteFile(p, []byte(body), 0644))

	t.Setenv("BOOKSHELF_ADDR", ":7070")

	cwd, _ := os.Getwd()
	require.NoError(t, os.Chdir(tmp))
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "https://yaml.example.com", cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout.Std())
	assert.Equal(t, 14*24*time.Hour, cfg.Session.TTL.Std())
	assert.Equal(t, ":7070", cfg.Server.Addr)

	client := cfg.Client()
	assert.Equal(t, "https://yaml.example.com", client.BaseURL)
	assert.Equal(t, 30*time.Second, client.Timeout)
}

func TestLoad_BadYAMLDuration(t *testing.T) {
	p := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(p, []byte("session:\n  ttl: soon\n"), 0644))

	_, err := Load(p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config file")
}

func TestLoadEnvFiles_DoesNotOverrideExistingEnv(t *testing.T) {
	tmp := t.TempDir()
	p := filepath.Join(tmp, ".env")

	if err := os.WriteFile(p, []byte("BOOKSHELF_API_URL=https://from-file.example\n"), 0644); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	t.Setenv("BOOKSHELF_API_URL", "https://from-env.example")

	cwd, _ := os.Getwd()
	_ = os.Chdir(tmp)
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	loadEnvFiles()

	if got := os.Getenv("BOOKSHELF_API_URL"); got != "https://from-env.example" {
		t.Fatalf("expected existing env to win, got %q", got)
	}
}
