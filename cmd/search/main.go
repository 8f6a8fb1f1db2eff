package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"dashsearch/config"
	"dashsearch/internal/app"
	"dashsearch/internal/lib/logger/sl"
	"dashsearch/internal/services/coordinator"
	"dashsearch/internal/services/cui"
	"dashsearch/internal/services/render"

	"github.com/joho/godotenv"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	_ = godotenv.Load()

	var (
		configPath string
		query      string
		asJSON     bool
	)
	flag.StringVar(&configPath, "config", "", "path to the config file")
	flag.StringVar(&query, "q", "", "run one query, print the results and exit")
	flag.BoolVar(&asJSON, "json", false, "print one-shot results as JSON")
	flag.Parse()

	cfg := config.MustLoad(configPath)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if query != "" {
		log := setupLogger(cfg.Env, os.Stderr)
		if err := runOnce(ctx, log, cfg, query, asJSON); err != nil {
			log.Error("search failed", sl.Err(err))
			os.Exit(1)
		}
		return
	}

	// the terminal belongs to the UI, so logs go to a file
	logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to open log file:", err)
		os.Exit(1)
	}
	defer logFile.Close()

	log := setupLogger(cfg.Env, logFile)
	log.Info("starting dashsearch", slog.String("env", cfg.Env))

	if err := runInteractive(ctx, log, cfg); err != nil {
		log.Error("ui failed", sl.Err(err))
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log.Info("Gracefully stopped")
}

func runOnce(ctx context.Context, log *slog.Logger, cfg *config.Config, query string, asJSON bool) error {
	application, err := app.New(ctx, log, cfg, coordinator.DiscardSink)
	if err != nil {
		return err
	}
	defer application.Stop()

	application.Prefetch(ctx)

	results := application.Coordinator.Search(ctx, query)

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	fmt.Println(render.New(nil).Render(results))
	return nil
}

func runInteractive(ctx context.Context, log *slog.Logger, cfg *config.Config) error {
	screen := cui.NewScreen()

	application, err := app.New(ctx, log, cfg, screen)
	if err != nil {
		return err
	}
	defer application.Stop()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if cfg.Remote.Prefetch {
		go application.Prefetch(ctx)
	}

	ui, err := cui.New(log, screen, cui.Options{
		Input:    application.Gate,
		Renderer: render.New(nil),
		Status:   application.Status,
		Reload:   application.Prefetch,
	})
	if err != nil {
		return err
	}
	defer ui.Close()

	return ui.Start(ctx)
}

func setupLogger(env string, w io.Writer) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return log
}
