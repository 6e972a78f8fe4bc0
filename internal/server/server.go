// Package server exposes the bookshelf features as a JSON gateway for
// browser clients.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"bookshelf/internal/admin"
	"bookshelf/internal/book"
	"bookshelf/internal/config"
	"bookshelf/internal/httpx"
	"bookshelf/internal/readinglist"
	"bookshelf/internal/recommendation"
	"bookshelf/internal/review"
	"bookshelf/internal/session"

	"github.com/justinas/alice"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const sweepInterval = 10 * time.Minute

// Pinger reports whether the upstream API answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Sweeper drops lapsed sessions from storage.
type Sweeper interface {
	Sweep(ctx context.Context) (int64, error)
}

type Deps struct {
	Config          config.Server
	SessionTTL      time.Duration
	Sessions        *session.Manager
	Sweeper         Sweeper
	Upstream        Pinger
	Books           *book.Service
	Lists           *readinglist.Service
	Reviews         *review.Service
	Recommendations *recommendation.Service
	Admin           *admin.Service
	Logger          *zap.Logger
}

type Server struct {
	deps    Deps
	logger  *zap.Logger
	limiter *httpx.RateLimitMiddleware
	handler http.Handler
}

// New builds the routing tree. The rate limiter's cleanup loop stops when
// ctx is cancelled.
func New(ctx context.Context, deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	rps, burst := deps.Config.RateLimitRPS, deps.Config.RateLimitBurst
	if rps <= 0 {
		rps = 10
	}
	if burst <= 0 {
		burst = 20
	}
	s := &Server{
		deps:    deps,
		logger:  logger,
		limiter: httpx.NewRateLimitMiddleware(ctx, rps, burst),
	}
	s.handler = s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /readyz", s.ready)

	user := alice.New(httpx.RequireUser)
	adminOnly := alice.New(httpx.RequireAdmin)

	sessions := NewSessionHandler(s.deps.Sessions, s.deps.SessionTTL, s.deps.Config.SecureCookies)
	mux.HandleFunc("POST /api/session", sessions.SignIn)
	mux.HandleFunc("POST /api/session/signup", sessions.SignUp)
	mux.Handle("GET /api/session", user.ThenFunc(sessions.Current))
	mux.HandleFunc("DELETE /api/session", sessions.SignOut)

	books := book.NewHTTPHandler(s.deps.Books)
	mux.HandleFunc("GET /api/books", books.List)
	mux.HandleFunc("GET /api/genres", books.Genres)
	mux.HandleFunc("GET /api/books/{id}", books.Get)
	mux.Handle("POST /api/books", adminOnly.ThenFunc(books.Create))
	mux.Handle("PUT /api/books/{id}", adminOnly.ThenFunc(books.Update))
	mux.Handle("DELETE /api/books/{id}", adminOnly.ThenFunc(books.Delete))

	reviews := review.NewHTTPHandler(s.deps.Reviews)
	mux.HandleFunc("GET /api/books/{id}/reviews", reviews.ListForBook)
	mux.Handle("POST /api/books/{id}/reviews", user.ThenFunc(reviews.Submit))
	mux.Handle("DELETE /api/reviews/{id}", user.ThenFunc(reviews.Delete))

	lists := readinglist.NewHTTPHandler(s.deps.Lists)
	mux.Handle("GET /api/reading-lists", user.ThenFunc(lists.List))
	mux.Handle("POST /api/reading-lists", user.ThenFunc(lists.Create))
	mux.Handle("GET /api/reading-lists/{id}", user.ThenFunc(lists.Get))
	mux.Handle("PUT /api/reading-lists/{id}", user.ThenFunc(lists.Update))
	mux.Handle("DELETE /api/reading-lists/{id}", user.ThenFunc(lists.Delete))
	mux.Handle("POST /api/reading-lists/{id}/books", user.ThenFunc(lists.AddBook))
	mux.Handle("DELETE /api/reading-lists/{id}/books/{bookId}", user.ThenFunc(lists.RemoveBook))
	mux.Handle("POST /api/reading-lists/{id}/books/{bookId}/toggle", user.ThenFunc(lists.Toggle))

	recs := recommendation.NewHTTPHandler(s.deps.Recommendations)
	mux.Handle("POST /api/recommendations", user.ThenFunc(recs.Recommend))

	adm := admin.NewHTTPHandler(s.deps.Admin)
	mux.Handle("GET /api/admin/users", adminOnly.ThenFunc(adm.Users))
	mux.Handle("GET /api/admin/reviews", adminOnly.ThenFunc(adm.Reviews))
	mux.Handle("DELETE /api/admin/reviews/{id}", adminOnly.ThenFunc(adm.DeleteReview))

	maxBody := s.deps.Config.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = 1 << 20
	}
	standard := alice.New(
		httpx.RequestIDMiddleware,
		httpx.AccessLogMiddleware(s.logger),
		httpx.RecoveryMiddleware(s.logger),
		httpx.SecurityHeadersMiddleware(s.deps.Config.EnableHSTS),
		httpx.CORSMiddleware(s.deps.Config.AllowedOrigins),
		httpx.RequestSizeLimitMiddleware(maxBody),
		s.limiter.Middleware,
		httpx.SessionMiddleware(s.deps.Sessions),
	)
	return standard.Then(mux)
}

// ready handles GET /readyz
func (s *Server) ready(w http.ResponseWriter, r *http.Request) {
	if s.deps.Upstream != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := s.deps.Upstream.Ping(ctx); err != nil {
			s.logger.Warn("upstream not ready", zap.Error(err))
			http.Error(w, "upstream not ready", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// Run serves until ctx is cancelled, then drains in-flight requests within
// the configured shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	addr := s.deps.Config.Addr
	if addr == "" {
		addr = ":8080"
	}
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      s.handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("starting server", zap.String("addr", addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		timeout := s.deps.Config.ShutdownTimeout.Std()
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		s.logger.Info("shutting down server")
		return httpServer.Shutdown(shutdownCtx)
	})
	if s.deps.Sweeper != nil {
		g.Go(func() error {
			s.sweepSessions(ctx, sweepInterval)
			return nil
		})
	}
	return g.Wait()
}

func (s *Server) sweepSessions(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.deps.Sweeper.Sweep(ctx)
			if err != nil {
				s.logger.Warn("session sweep failed", zap.Error(err))
				continue
			}
			if n > 0 {
				s.logger.Debug("swept sessions", zap.Int64("removed", n))
			}
		}
	}
}
