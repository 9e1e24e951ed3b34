package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/ewilliams-labs/moodtune/internal/app"
	"github.com/ewilliams-labs/moodtune/internal/config"
	"github.com/ewilliams-labs/moodtune/internal/logger"
)

func main() {
	// 1. Configuration: .env, config.yaml, environment
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: %v", err)
	}

	l, err := logger.NewLogger(cfg.Env, cfg.Logging.Level)
	if err != nil {
		log.Fatalf("FATAL: %v", err)
	}
	defer func() { _ = l.Sync() }()

	// 2. Wire artifacts, adapters and services. The process must not serve
	// without a model.
	a, err := app.New(cfg, l)
	if err != nil {
		l.Fatal("failed to initialize moodtune", zap.Error(err))
	}
	defer func() {
		if err := a.Close(); err != nil {
			l.Error("failed to close history store", zap.Error(err))
		}
	}()

	// 3. Serve until SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Serve(ctx); err != nil {
		l.Error("server stopped with error", zap.Error(err))
		os.Exit(1)
	}
	l.Info("server stopped gracefully")
}
