package server

import (
	"time"

	"bookshelf/internal/config"

	"github.com/getsentry/sentry-go"
)

// InitSentry configures error reporting when a DSN is set. The returned
// function flushes buffered events and is safe to call either way.
func InitSentry(cfg config.Sentry) (func(), error) {
	if cfg.DSN == "" {
		return func() {}, nil
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		Release:          cfg.Release,
		EnableTracing:    true,
		TracesSampleRate: cfg.SampleRate,
		SampleRate:       cfg.SampleRate,
	})
	if err != nil {
		return func() {}, err
	}
	return func() { sentry.Flush(2 * time.Second) }, nil
}
