package main

import (
	"bookshelf/internal/server"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (c *cli) serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the JSON gateway for browser clients",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := c.app
			cfg := a.cfg.Server
			if addr != "" {
				cfg.Addr = addr
			}

			flush, err := server.InitSentry(a.cfg.Sentry)
			if err != nil {
				a.logger.Warn("sentry disabled", zap.Error(err))
			}
			defer flush()

			srv := server.New(cmd.Context(), server.Deps{
				Config:          cfg,
				SessionTTL:      a.cfg.Session.TTL.Std(),
				Sessions:        a.sessions,
				Sweeper:         a.sweeper,
				Upstream:        a.client,
				Books:           a.books,
				Lists:           a.lists,
				Reviews:         a.reviews,
				Recommendations: a.recs,
				Admin:           a.admin,
				Logger:          a.logger.Named("http"),
			})
			return srv.Run(cmd.Context())
		},
	}
	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (overrides config)")
	return cmd
}
