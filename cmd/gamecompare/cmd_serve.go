package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ryanm101/gamecompare/internal/catalog"
	"github.com/ryanm101/gamecompare/internal/logging"
	"github.com/ryanm101/gamecompare/internal/stats"
	"github.com/ryanm101/gamecompare/internal/web"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the proxy for IGDB, RAWG and SteamSpy",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if port == "" {
				port = cfg.GetPort()
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, net.JoinHostPort("", port), newProxyHandler())
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "Listen port (default from config)")
	return cmd
}

// newProxyHandler wires the providers from the loaded config into the proxy.
func newProxyHandler() http.Handler {
	client := httpClient()

	var igdb web.GameSearcher
	p, err := catalog.NewIGDBProvider(cfg.Twitch.ClientID, cfg.Twitch.ClientSecret, client)
	if err != nil {
		logging.Warn("IGDB search disabled", "error", err)
	} else {
		p.TokenURL = cfg.GetTwitchTokenURL()
		igdb = p
	}

	if cfg.RAWG.APIKey == "" {
		logging.Warn("RAWG API key not set, RAWG requests will be rejected upstream")
	}

	return web.NewServer(
		igdb,
		catalog.NewRAWGProvider(cfg.RAWG.APIKey, cfg.GetRAWGURL(), client),
		stats.NewSteamSpyProvider(cfg.GetSteamSpyURL(), client),
	)
}

// serve runs the HTTP server until ctx is done, then shuts it down gracefully.
func serve(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info("proxy listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logging.Info("shutting down proxy")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
