package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	"github.com/ericfisherdev/gencheck/internal/adapter/driven/backend"
	httphandler "github.com/ericfisherdev/gencheck/internal/adapter/driving/http"
	webhandler "github.com/ericfisherdev/gencheck/internal/adapter/driving/web"
	"github.com/ericfisherdev/gencheck/internal/application"
	"github.com/ericfisherdev/gencheck/internal/config"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (fail fast on invalid env vars).
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"backend_url", cfg.BackendURL,
		"http_timeout", cfg.HTTPTimeout,
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Wire the backend client.
	client, err := backend.NewClient(&http.Client{Timeout: cfg.HTTPTimeout}, cfg.BackendURL)
	if err != nil {
		return err
	}

	// 4. Start the event loop that owns all controller state.
	loop := application.NewEventLoop(slog.Default())
	go loop.Run(ctx)

	// 5. Create controllers.
	panel := application.NewCredentialPanel(client, loop, cfg.SaveCloseDelay, slog.Default())
	renderer := application.NewExplanationRenderer(webhandler.NewMarkdownRenderer(), slog.Default())
	workflow := application.NewAnalysisWorkflow(client, loop, renderer, cfg.ErrorHideDelay, slog.Default())

	// 6. Register API and GUI routes.
	mux := http.NewServeMux()
	httphandler.RegisterAPIRoutes(mux, httphandler.NewHandler(loop, panel, workflow, slog.Default()))
	webhandler.RegisterRoutes(mux, webhandler.NewHandler(loop, panel, workflow, slog.Default()))

	// Apply middleware.
	handler := httphandler.ApplyMiddleware(mux, slog.Default())

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
			stop()
		}
	}()

	slog.Info("gencheck started", "listen_addr", cfg.ListenAddr)

	// 7. Wait for shutdown signal.
	<-ctx.Done()
	slog.Info("shutting down")

	// 8. Graceful shutdown with 10s timeout for in-flight requests.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}
