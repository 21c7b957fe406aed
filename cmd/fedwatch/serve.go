package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/hyperifyio/fedwatch/internal/app"
	"github.com/hyperifyio/fedwatch/internal/server"
)

const shutdownGrace = 15 * time.Second

func newServeCmd() *cobra.Command {
	var (
		addr    string
		origins []string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the report API over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, closeLog, err := prepare(cmd)
			if err != nil {
				return err
			}
			defer closeLog()
			if cmd.Flags().Changed("addr") {
				cfg.ListenAddr = addr
			}
			if cmd.Flags().Changed("cors-origin") {
				cfg.CORSOrigins = origins
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", app.DefaultListenAddr, "listen address")
	cmd.Flags().StringSliceVar(&origins, "cors-origin", nil, "allowed CORS origins (repeatable)")
	return cmd
}

// serve runs the HTTP API until ctx is cancelled.
func serve(ctx context.Context, cfg app.Config) error {
	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()
	a.Preflight(ctx)

	srv := server.New(a, server.Options{Addr: cfg.ListenAddr, AllowedOrigins: cfg.CORSOrigins})
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info().Msg("server stopped")
	return nil
}

// prepare loads configuration and installs logging for a subcommand.
func prepare(cmd *cobra.Command) (app.Config, func() error, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return cfg, nil, err
	}
	closeLog, err := setupLogging(os.Stderr, cfg.LogFile, cfg.Verbose)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, closeLog, nil
}
