package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/light-bringer/procat-editor/internal/services"
)

const shutdownTimeout = 5 * time.Second

var (
	serveAddr   string
	metricsAddr string
)

// serveCmd exposes the editing session as a local JSON API.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the editing session over a local JSON API",
	Long: `Loads the products once and serves the editing session:

  GET  /session                       working set with dirty marks
  POST /session/reload                fetch the products again
  PUT  /session/products/{index}/title edit one title
  PUT  /session/products/by-id/title  edit one title by {"id", "title"}
  POST /session/submit                send the modified records
  GET  /session/notifications         active notifications

Metrics are served on --metrics-addr (or PROCAT_METRICS_ADDR) when set.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Session API listen address (default from config)")
	serveCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Metrics listen address (default from config, empty disables)")
}

func runServe(cmd *cobra.Command, args []string) error {
	opts, err := setup(false)
	if err != nil {
		return err
	}
	defer teardown(opts)

	if serveAddr != "" {
		opts.Config.HTTPAddr = serveAddr
	}
	if metricsAddr != "" {
		opts.Config.MetricsAddr = metricsAddr
	}

	ctx, cancel := signalContext()
	defer cancel()

	// 1. Initial load; a failure is reported as a notification and can be retried
	if _, err := opts.LoadProducts.Execute(ctx); err != nil {
		opts.Logger.Warn("initial load failed", zap.Error(err))
	}

	// 2. Servers
	servers := []*http.Server{{Addr: opts.Config.HTTPAddr, Handler: opts.SessionHandler.Routes()}}
	if opts.Config.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("GET /metrics", opts.Metrics.Handler())
		servers = append(servers, &http.Server{Addr: opts.Config.MetricsAddr, Handler: mux})
	}

	return serve(ctx, opts, servers...)
}

// serve runs every server until ctx is cancelled or one of them fails, then
// shuts them all down.
func serve(ctx context.Context, opts *services.ServiceOptions, servers ...*http.Server) error {
	g, gctx := errgroup.WithContext(ctx)

	for _, srv := range servers {
		g.Go(func() error {
			opts.Logger.Info("listening", zap.String("addr", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server %s: %w", srv.Addr, err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		opts.Logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		var errs []error
		for _, srv := range servers {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, fmt.Errorf("shutdown %s: %w", srv.Addr, err))
			}
		}
		return errors.Join(errs...)
	})

	return g.Wait()
}
