package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"rttrainer/internal/api"
	"rttrainer/pkg/config"
	"rttrainer/pkg/logging"
	"rttrainer/pkg/probe"
	"rttrainer/pkg/version"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the trainer HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if addr := viper.GetString("addr"); addr != "" {
				cfg.Server.Address = addr
			}
			return runServe(cmd.Context(), cfg)
		},
	}
	cmd.Flags().String("addr", "", "listen address (overrides server.address)")
	_ = viper.BindPFlag("addr", cmd.Flags().Lookup("addr"))
	return cmd
}

func runServe(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cleanupLogs, err := logging.Init(&cfg.Log, os.Stdout)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer cleanupLogs()

	slog.Info("RT Trainer Started", "version", version.Version)

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := probe.AnalyzeResults(probe.Run(ctx, a.probes())); err != nil {
		return fmt.Errorf("startup checks failed: %w", err)
	}

	mgr := a.newSessionManager()
	go mgr.Run(ctx, cfg.Session.SweepInterval.Std())

	scenarios := a.scenarioHandler()
	handlers := api.Handlers{
		Scenarios: scenarios,
		Sessions:  api.NewSessionHandler(mgr, scenarios, a.store),
		Settings:  api.NewSettingsHandler(a.store, a.prov),
		Aerodata:  api.NewAerodataHandler(a.data),
		Stats:     api.NewStatsHandler(a.tracker, mgr, a.scenarios, a.data),
		Metrics:   a.metrics,
		StaticDir: cfg.Server.StaticDir,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	srv := api.NewServer(cfg.Server.Address, handlers, func() { quit <- syscall.SIGTERM })
	srv.Handler = loggingMiddleware(srv.Handler)

	return runServerLifecycle(ctx, srv, quit)
}

func runServerLifecycle(ctx context.Context, srv *http.Server, quit chan os.Signal) error {
	slog.Info("Starting server", "addr", srv.Addr)
	serverErrors := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()
	select {
	case <-quit:
		slog.Info("Shutting down server...")
	case <-ctx.Done():
		slog.Info("Context cancelled, shutting down...")
	case err := <-serverErrors:
		return fmt.Errorf("server failed: %w", err)
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logging.RequestLogger.Info("Request Processed", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}
