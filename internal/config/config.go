// Package config assembles settings from defaults, an optional YAML file, and
// the environment (including .env files), in that order.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"bookshelf/internal/apiclient"

	"github.com/joho/godotenv"
	"github.com/xhit/go-str2duration/v2"
	"gopkg.in/yaml.v3"
)

var ErrInvalid = errors.New("invalid configuration")

// Duration accepts Go durations plus day and week units such as "7d".
type Duration time.Duration

func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := str2duration.ParseDuration(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return str2duration.String(time.Duration(d)), nil
}

type API struct {
	BaseURL     string   `yaml:"base_url"`
	TokenKind   string   `yaml:"token_kind"`
	HeaderMode  string   `yaml:"header_mode"`
	Timeout     Duration `yaml:"timeout"`
	RPS         float64  `yaml:"rps"`
	MaxPages    int      `yaml:"max_pages"`
	Parallelism int      `yaml:"parallelism"`
}

type MockUser struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

type Auth struct {
	Provider      string     `yaml:"provider"` // mock, gotrue
	GoTrueProject string     `yaml:"gotrue_project"`
	GoTrueURL     string     `yaml:"gotrue_url"`
	GoTrueAPIKey  string     `yaml:"gotrue_api_key"`
	MockSecret    string     `yaml:"mock_secret"`
	MockTokenTTL  Duration   `yaml:"mock_token_ttl"`
	MockAdmins    []string   `yaml:"mock_admins"`
	MockUsers     []MockUser `yaml:"mock_users"`
}

type Session struct {
	Store       string   `yaml:"store"` // sqlite, postgres
	SQLitePath  string   `yaml:"sqlite_path"`
	PostgresDSN string   `yaml:"postgres_dsn"`
	TTL         Duration `yaml:"ttl"`
}

type Server struct {
	Addr            string   `yaml:"addr"`
	AllowedOrigins  []string `yaml:"allowed_origins"`
	SecureCookies   bool     `yaml:"secure_cookies"`
	EnableHSTS      bool     `yaml:"enable_hsts"`
	RateLimitRPS    float64  `yaml:"rate_limit_rps"`
	RateLimitBurst  int      `yaml:"rate_limit_burst"`
	MaxBodyBytes    int64    `yaml:"max_body_bytes"`
	ShutdownTimeout Duration `yaml:"shutdown_timeout"`
}

type Recommend struct {
	Backend     string `yaml:"backend"` // api, genai
	GenAIAPIKey string `yaml:"genai_api_key"`
	GenAIModel  string `yaml:"genai_model"`
	GenAIURL    string `yaml:"genai_url"`
}

type Catalog struct {
	OpenLibraryURL string `yaml:"openlibrary_url"`
	UserAgent      string `yaml:"user_agent"`
}

type Sentry struct {
	DSN         string  `yaml:"dsn"`
	Environment string  `yaml:"environment"`
	Release     string  `yaml:"release"`
	SampleRate  float64 `yaml:"sample_rate"`
}

type Config struct {
	LogLevel  string    `yaml:"log_level"`
	API       API       `yaml:"api"`
	Auth      Auth      `yaml:"auth"`
	Session   Session   `yaml:"session"`
	Server    Server    `yaml:"server"`
	Recommend Recommend `yaml:"recommend"`
	Catalog   Catalog   `yaml:"catalog"`
	Sentry    Sentry    `yaml:"sentry"`
}

func Default() Config {
	return Config{
		LogLevel: "info",
		API: API{
			TokenKind:   string(apiclient.TokenID),
			HeaderMode:  string(apiclient.HeaderBearer),
			Timeout:     Duration(15 * time.Second),
			RPS:         10,
			MaxPages:    50,
			Parallelism: 4,
		},
		Auth: Auth{
			Provider:     "mock",
			MockSecret:   "dev-secret-change-me",
			MockTokenTTL: Duration(time.Hour),
		},
		Session: Session{
			Store:      "sqlite",
			SQLitePath: defaultSQLitePath(),
			TTL:        Duration(7 * 24 * time.Hour),
		},
		Server: Server{
			Addr:            ":8080",
			AllowedOrigins:  []string{"http://localhost:3000", "http://localhost:5173"},
			RateLimitRPS:    10,
			RateLimitBurst:  20,
			MaxBodyBytes:    1 << 20,
			ShutdownTimeout: Duration(10 * time.Second),
		},
		Recommend: Recommend{
			Backend: "api",
		},
		Catalog: Catalog{
			OpenLibraryURL: "https://openlibrary.org",
			UserAgent:      "bookshelf/1.0",
		},
		Sentry: Sentry{
			Environment: "development",
			SampleRate:  1,
		},
	}
}

func defaultSQLitePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".bookshelf", "session.db")
	}
	return filepath.Join(dir, "bookshelf", "session.db")
}

func loadEnvFiles() {
	// Do not override environment provided by the runtime (e.g. Docker).
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")
}

// Load builds the configuration. path may be empty.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	loadEnvFiles()
	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("%w: BOOKSHELF_API_URL is required", ErrInvalid)
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: BOOKSHELF_API_URL must be an http(s) URL", ErrInvalid)
	}

	switch apiclient.TokenKind(c.API.TokenKind) {
	case apiclient.TokenID, apiclient.TokenAccess:
	default:
		return fmt.Errorf("%w: BOOKSHELF_TOKEN_KIND must be id or access", ErrInvalid)
	}
	switch apiclient.HeaderMode(c.API.HeaderMode) {
	case apiclient.HeaderBearer, apiclient.HeaderRaw:
	default:
		return fmt.Errorf("%w: BOOKSHELF_AUTH_HEADER must be bearer or raw", ErrInvalid)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("%w: BOOKSHELF_API_TIMEOUT must be positive", ErrInvalid)
	}

	switch c.Auth.Provider {
	case "mock":
		if c.Auth.MockSecret == "" {
			return fmt.Errorf("%w: BOOKSHELF_MOCK_SECRET is required for the mock provider", ErrInvalid)
		}
	case "gotrue":
		if c.Auth.GoTrueProject == "" && c.Auth.GoTrueURL == "" {
			return fmt.Errorf("%w: GOTRUE_PROJECT_REF or GOTRUE_URL is required", ErrInvalid)
		}
		if c.Auth.GoTrueAPIKey == "" {
			return fmt.Errorf("%w: GOTRUE_API_KEY is required", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: BOOKSHELF_AUTH_PROVIDER must be mock or gotrue", ErrInvalid)
	}

	switch c.Session.Store {
	case "sqlite":
		if c.Session.SQLitePath == "" {
			return fmt.Errorf("%w: BOOKSHELF_SQLITE_PATH is required", ErrInvalid)
		}
	case "postgres":
		if c.Session.PostgresDSN == "" {
			return fmt.Errorf("%w: DATABASE_URL is required for the postgres session store", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: BOOKSHELF_SESSION_STORE must be sqlite or postgres", ErrInvalid)
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("%w: BOOKSHELF_SESSION_TTL must be positive", ErrInvalid)
	}

	switch c.Recommend.Backend {
	case "api":
	case "genai":
		if c.Recommend.GenAIAPIKey == "" {
			return fmt.Errorf("%w: GEMINI_API_KEY is required for the genai backend", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: BOOKSHELF_RECOMMEND_BACKEND must be api or genai", ErrInvalid)
	}

	if c.Sentry.SampleRate < 0 || c.Sentry.SampleRate > 1 {
		return fmt.Errorf("%w: SENTRY_SAMPLE_RATE must be between 0 and 1", ErrInvalid)
	}
	return nil
}

// Client returns the API client settings.
func (c Config) Client() apiclient.Config {
	return apiclient.Config{
		BaseURL:     c.API.BaseURL,
		TokenKind:   apiclient.TokenKind(c.API.TokenKind),
		HeaderMode:  apiclient.HeaderMode(c.API.HeaderMode),
		Timeout:     c.API.Timeout.Std(),
		RPS:         c.API.RPS,
		MaxPages:    c.API.MaxPages,
		Parallelism: c.API.Parallelism,
	}
}
