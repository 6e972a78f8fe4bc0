package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bookshelf/internal/admin"
	"bookshelf/internal/apiclient"
	"bookshelf/internal/book"
	"bookshelf/internal/config"
	"bookshelf/internal/platform/openlibrary"
	"bookshelf/internal/readinglist"
	"bookshelf/internal/recommendation"
	"bookshelf/internal/review"
	"bookshelf/internal/session"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// app holds everything a command needs, wired from configuration.
type app struct {
	cfg    config.Config
	logger *zap.Logger

	client   *apiclient.Client
	sessions *session.Manager
	sweeper  interface {
		Sweep(ctx context.Context) (int64, error)
	}

	books   *book.Service
	lists   *readinglist.Service
	reviews *review.Service
	recs    *recommendation.Service
	admin   *admin.Service
	lookup  *openlibrary.Client

	closers []func()
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func wire(ctx context.Context, cfg config.Config, logger *zap.Logger) (*app, error) {
	a := &app{cfg: cfg, logger: logger}

	provider, err := newProvider(cfg.Auth, logger)
	if err != nil {
		return nil, err
	}
	store, err := a.openStore(ctx, cfg.Session)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.sessions = session.NewManager(provider, store, cfg.Session.TTL.Std(), logger.Named("session"))

	a.client = apiclient.New(cfg.Client(), a.sessions, logger.Named("api"))
	a.books = book.NewService(a.client, logger.Named("books"))
	a.lists = readinglist.NewService(a.client, logger.Named("lists"))
	a.reviews = review.NewService(a.client)
	a.admin = admin.NewService(a.client)
	a.lookup = openlibrary.NewClient(cfg.Catalog.OpenLibraryURL, cfg.Catalog.UserAgent, 1, 2)

	backend, err := newRecommendationBackend(ctx, cfg.Recommend, a.client, logger)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.recs = recommendation.NewService(backend, logger.Named("recommend"))
	return a, nil
}

func newProvider(cfg config.Auth, logger *zap.Logger) (session.Provider, error) {
	switch cfg.Provider {
	case "gotrue":
		return session.NewGoTrueProvider(cfg.GoTrueProject, cfg.GoTrueAPIKey, cfg.GoTrueURL), nil
	case "mock":
		p := session.NewMockProvider(cfg.MockSecret, cfg.MockTokenTTL.Std(), cfg.MockAdmins)
		for _, u := range cfg.MockUsers {
			_, err := p.Register(session.Credentials{Email: u.Email, Password: u.Password, Name: u.Name})
			if err != nil && !errors.Is(err, session.ErrUserExists) {
				return nil, fmt.Errorf("seed mock user %s: %w", u.Email, err)
			}
		}
		logger.Debug("mock identity provider ready", zap.Int("users", len(cfg.MockUsers)))
		return p, nil
	default:
		return nil, fmt.Errorf("%w: unknown auth provider %q", config.ErrInvalid, cfg.Provider)
	}
}

func (a *app) openStore(ctx context.Context, cfg config.Session) (session.Store, error) {
	switch cfg.Store {
	case "postgres":
		pool, err := openPool(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, pool.Close)
		store := session.NewPostgresStore(pool, 3*time.Second)
		if err := store.EnsureSchema(ctx); err != nil {
			return nil, fmt.Errorf("prepare session table: %w", err)
		}
		a.sweeper = store
		return store, nil
	default:
		store, err := session.OpenSQLiteStore(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = store.Close() })
		a.sweeper = store
		return store, nil
	}
}

func newRecommendationBackend(ctx context.Context, cfg config.Recommend, client *apiclient.Client, logger *zap.Logger) (recommendation.Backend, error) {
	if cfg.Backend != "genai" {
		return recommendation.NewAPIBackend(client), nil
	}
	return recommendation.NewGenAIBackend(ctx, recommendation.GenAIConfig{
		APIKey:  cfg.GenAIAPIKey,
		Model:   cfg.GenAIModel,
		BaseURL: cfg.GenAIURL,
	}, client, logger.Named("genai"))
}

func openPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot create db pool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("cannot ping database (%s): %w", redactDSN(dsn), err)
	}
	return pool, nil
}

func redactDSN(dsn string) string {
	const marker = "://"
	start := strings.Index(dsn, marker)
	if start < 0 {
		return dsn
	}
	start += len(marker)
	end := strings.Index(dsn[start:], "@")
	if end < 0 {
		return dsn
	}
	return dsn[:start] + "***" + dsn[start+end:]
}
