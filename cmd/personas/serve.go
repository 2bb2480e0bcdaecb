// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/personas/internal/api"
	"github.com/pdiddy/personas/internal/metrics"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the sources, search, and accumulated results over HTTP",
	Long: `Serve loads the three record sets once and exposes them over an HTTP API
together with search and the accumulated results. The configured data
directory is served under /data/ so the JSON and XML feeds can be hosted
by the same process; sources can be reloaded with POST /api/sources/reload.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	addr := a.cfg.Serve.Addr
	if v, _ := cmd.Flags().GetString("addr"); v != "" {
		addr = v
	}

	srv := api.NewServer(a.svc, a.logger,
		api.WithDataDir(a.cfg.Serve.DataDir),
		api.WithMetrics(a.reg, metrics.NewHTTP(a.reg)),
	)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	bound, errCh, err := startHTTP(httpServer, addr)
	if err != nil {
		return err
	}
	a.logger.Info("listening", zap.String("addr", bound.String()))

	// The socket is bound, so feeds hosted by this server are reachable.
	a.loadSources(ctx)

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("serving %s: %w", addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

// startHTTP binds addr and serves srv in the background. It returns once
// the socket accepts connections; a Serve failure is sent on the returned
// channel, which closes when serving stops.
func startHTTP(srv *http.Server, addr string) (net.Addr, <-chan error, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, fmt.Errorf("listening on %s: %w", addr, err)
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	return ln.Addr(), errCh, nil
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default from serve.addr)")
	rootCmd.AddCommand(serveCmd)
}
