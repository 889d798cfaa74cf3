package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/fang"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/promptlens/promptlens/internal/config"
	"github.com/promptlens/promptlens/internal/describe"
	claudedescribe "github.com/promptlens/promptlens/internal/describe/claude"
	geminidescribe "github.com/promptlens/promptlens/internal/describe/gemini"
	"github.com/promptlens/promptlens/internal/logging"
	"github.com/promptlens/promptlens/internal/preview"
	"github.com/promptlens/promptlens/internal/session"
	"github.com/promptlens/promptlens/internal/web"
	"github.com/promptlens/promptlens/internal/web/templates"
)

const version = "0.1.0"

const sweepInterval = time.Minute

func main() {
	root := &cobra.Command{
		Use:   "promptlens",
		Short: "Turn an image into an AI-written descriptive prompt",
		Long: `Promptlens serves a single-page interface where you upload an image and
receive a descriptive generation prompt written by a vision model, with
copy-to-clipboard and regenerate controls.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}

	if err := fang.Execute(
		context.Background(),
		root,
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt, os.Kill),
	); err != nil {
		os.Exit(1)
	}
}

func serve(ctx context.Context) error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer cleanup()

	describer, err := newDescriber(ctx, cfg, logger)
	if err != nil {
		return err
	}

	previews := preview.NewRegistry()
	sessions := session.NewStore(previews, logger)
	go sessions.RunSweeper(ctx, sweepInterval, cfg.SessionTTL)

	server := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      web.NewServer(sessions, describer, templates.FS, logger),
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("promptlens listening", "addr", cfg.ListenAddr, "backend", cfg.Backend)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown failed", "error", err)
			return err
		}
		logger.Info("server stopped")
		return nil
	case err := <-serverErr:
		return err
	}
}

func newDescriber(ctx context.Context, cfg *config.Config, logger *slog.Logger) (describe.Describer, error) {
	switch cfg.Backend {
	case "claude":
		logger.Info("using Claude describer", "model", cfg.Model)
		return claudedescribe.New(cfg.APIKey, cfg.Model), nil
	default:
		logger.Info("using Gemini describer", "model", cfg.Model)
		return geminidescribe.New(ctx, cfg.APIKey, cfg.Model)
	}
}
