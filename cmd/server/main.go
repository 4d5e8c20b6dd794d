// Package main содержит точку входа веб-приложения ассоциации.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/magabrotheeeer/membership-directory/docs"
	"github.com/magabrotheeeer/membership-directory/internal/app/server"
	"github.com/magabrotheeeer/membership-directory/internal/config"
	"github.com/magabrotheeeer/membership-directory/internal/lib/sl"
)

func main() {
	cfg := config.MustLoad()

	level := slog.LevelDebug
	if cfg.Env == "prod" {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	logger.Info("starting membership-directory server", slog.String("env", cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := server.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize server app", sl.Err(err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		logger.Error("server app stopped with error", sl.Err(err))
		os.Exit(1)
	}

	logger.Info("server app stopped gracefully")
}
