package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	"github.com/ericfisherdev/gencheck/internal/adapter/driven/backend"
	"github.com/ericfisherdev/gencheck/internal/adapter/driving/tui"
	webhandler "github.com/ericfisherdev/gencheck/internal/adapter/driving/web"
	"github.com/ericfisherdev/gencheck/internal/application"
	"github.com/ericfisherdev/gencheck/internal/config"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "gencheck-tui:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// The terminal belongs to bubbletea; logs go to a file when requested.
	logger, closeLog, err := newLogger(os.Getenv("GENCHECK_LOG_FILE"))
	if err != nil {
		return err
	}
	defer closeLog()

	client, err := backend.NewClient(&http.Client{Timeout: cfg.HTTPTimeout}, cfg.BackendURL)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loop := application.NewEventLoop(logger)
	panel := application.NewCredentialPanel(client, loop, cfg.SaveCloseDelay, logger)
	renderer := application.NewExplanationRenderer(webhandler.NewMarkdownRenderer(), logger)
	workflow := application.NewAnalysisWorkflow(client, loop, renderer, cfg.ErrorHideDelay, logger)

	m := tui.NewModel(loop, panel, workflow)
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	loop.Observe(m.Notifier(program.Send))
	go loop.Run(ctx)

	_, err = program.Run()
	if err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func newLogger(path string) (*slog.Logger, func(), error) {
	if path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	return slog.New(slog.NewTextHandler(f, nil)), func() { _ = f.Close() }, nil
}
