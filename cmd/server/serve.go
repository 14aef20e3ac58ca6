package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/harsh-0015/freelance-tracker/internal/api"
	"github.com/harsh-0015/freelance-tracker/internal/auth"
	"github.com/harsh-0015/freelance-tracker/internal/middleware"
	"github.com/harsh-0015/freelance-tracker/internal/service"
	"github.com/harsh-0015/freelance-tracker/internal/storage"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}
}

func runServe(cmd *cobra.Command, opts *globalOptions) error {
	cfg, logger, err := loadConfig(opts)
	if err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The server starts before storage is reachable; requests get 503 until
	// the supervisor connects.
	supervisor := storage.NewSupervisor(func(ctx context.Context) (storage.Store, error) {
		return openStore(ctx, cfg.Storage)
	}, cfg.Storage.ReconnectDelay, logger)
	supervisor.Start(ctx)
	defer func() {
		if err := supervisor.Close(); err != nil {
			logger.Error("Failed to close storage", "error", err)
		}
	}()
	logger.Info("Storage configured", "driver", cfg.Storage.Driver, "target", storeTarget(cfg.Storage))

	settings := service.Settings{Location: loc, Currency: cfg.Currency}
	services := api.Services{
		TimeEntries: service.NewTimeEntryService(supervisor, settings),
		Invoices:    service.NewInvoiceService(supervisor, settings),
		Clients:     service.NewClientService(supervisor),
		Dashboard:   service.NewDashboardService(supervisor, settings),
	}

	metrics := middleware.NewMetrics()
	metrics.RegisterStorageGauge(supervisor.Connected)

	routerOpts := api.Options{
		Metrics:          metrics,
		StorageConnected: supervisor.Connected,
	}
	if cfg.Auth.JWTSecret != "" {
		jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
		routerOpts.APIMiddleware = append(routerOpts.APIMiddleware, middleware.RequireAuth(jwtManager))
		logger.Info("Token authentication enabled")
	}

	var handler http.Handler = api.NewRouter(services, routerOpts)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.CORS(cfg.Server.CORSOrigin)(handler)

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           h2c.NewHandler(handler, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", "address", server.Addr, "url", fmt.Sprintf("http://localhost%s", server.Addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err)
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
		return err
	}
	logger.Info("Server stopped")
	return nil
}
