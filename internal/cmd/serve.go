package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/api/router"
	"github.com/RoyceAzure/lab/storefront/internal/appcontext"
	"github.com/RoyceAzure/lab/storefront/internal/config"
	"github.com/RoyceAzure/lab/storefront/internal/logger"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 30 * time.Second

func newServeCmd(opts *rootOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the storefront HTTP API",
		Long: `Start the storefront HTTP API under /api/v1.
The server shuts down gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, opts, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides server.addr")
	return cmd
}

func runServe(ctx context.Context, opts *rootOptions, addr string) error {
	l, err := opts.loader()
	if err != nil {
		return err
	}
	cf := l.Config()
	log, err := newLogger(cf.Log.Level, os.Stdout)
	if err != nil {
		return err
	}

	// 設定檔變動時只調整 log 等級，其餘設定需重啟
	l.Watch(func(next *config.Config) {
		if err := logger.SetLevel(next.Log.Level); err != nil {
			log.Warn().Err(err).Msg("ignored invalid log level on reload")
			return
		}
		log.Info().Str("level", next.Log.Level).Msg("config reloaded")
	}, func(err error) {
		log.Warn().Err(err).Msg("failed to reload config file")
	})

	app, err := appcontext.NewApplicationContext(ctx, cf, log)
	if err != nil {
		return err
	}

	if addr == "" {
		addr = cf.Server.Addr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           router.SetupRouter(app.NewServer(), log, app.RouterOptions()...),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", srv.Addr).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Received shutdown signal")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		var errs []error
		if err := srv.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("server shutdown: %w", err))
		}
		if err := app.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("application shutdown: %w", err))
		}
		return errors.Join(errs...)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info().Msg("closed completed")
	return nil
}
