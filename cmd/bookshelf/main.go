package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"bookshelf/internal/config"
	"bookshelf/internal/notify"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// cli carries global flags and the wired application between commands.
type cli struct {
	configPath string
	verbose    bool
	jsonOut    bool

	logger *zap.Logger
	app    *app

	// load and wire are replaced in tests.
	load func(path string) (config.Config, error)
	wire func(ctx context.Context, cfg config.Config, logger *zap.Logger) (*app, error)
}

func newCLI() *cli {
	return &cli{load: config.Load, wire: wire}
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "bookshelf",
		Short: "Browse books, keep reading lists and get recommendations",
		Long: `bookshelf talks to the bookshelf API on your behalf.

Sign in once with "bookshelf login"; the session is kept locally and
refreshed as needed. "bookshelf serve" exposes the same features as a
JSON gateway for browser clients.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.load(c.configPath)
			if err != nil {
				return err
			}

			logger, err := newLogger(logLevel(cfg.LogLevel, c.verbose, cmd.Name() == "serve"))
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			c.logger = logger

			c.app, err = c.wire(cmd.Context(), cfg, c.logger)
			return err
		},
	}

	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", os.Getenv("BOOKSHELF_CONFIG"), "YAML config file")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Enable debug logging")
	root.PersistentFlags().BoolVar(&c.jsonOut, "json", false, "Print results as JSON")

	root.AddCommand(
		c.loginCmd(),
		c.signupCmd(),
		c.logoutCmd(),
		c.whoamiCmd(),
		c.booksCmd(),
		c.listsCmd(),
		c.reviewsCmd(),
		c.recommendCmd(),
		c.adminCmd(),
		c.serveCmd(),
	)
	return root
}

// logLevel picks the logger threshold. Interactive commands stay quiet below
// warnings so their output is not interleaved with logs.
func logLevel(configured string, verbose, serving bool) zapcore.Level {
	if verbose {
		return zapcore.DebugLevel
	}
	lvl, err := zapcore.ParseLevel(configured)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	if !serving && lvl < zapcore.WarnLevel {
		lvl = zapcore.WarnLevel
	}
	return lvl
}

func newLogger(level zapcore.Level) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}

// close releases what PersistentPreRunE opened. Cobra skips post-run hooks
// when a command fails, so callers invoke this after Execute.
func (c *cli) close() {
	if c.app != nil {
		c.app.Close()
		c.app = nil
	}
	if c.logger != nil {
		_ = c.logger.Sync()
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	c := newCLI()
	defer c.close()
	root := c.rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		notify.Print(stderr, notify.FromError(err))
		return 1
	}
	return 0
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
