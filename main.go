package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/noobkia1314/SmartMind/internal/config"
	"github.com/noobkia1314/SmartMind/internal/database"
	"github.com/noobkia1314/SmartMind/internal/gemini"
	"github.com/noobkia1314/SmartMind/internal/repository"
	"github.com/noobkia1314/SmartMind/internal/server"
	"github.com/noobkia1314/SmartMind/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("loading config", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.LogLevel)

	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		slog.Error("opening database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		slog.Error("running migrations", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	authService, err := services.NewAuthService(ctx, cfg)
	if err != nil {
		slog.Error("creating auth service", "error", err)
		os.Exit(1)
	}

	remoteStore := services.NewRemoteStore(cfg.RemoteStoreURL, cfg.RemoteStoreToken)
	syncer := services.NewSyncer(remoteStore)
	defer syncer.Close()

	stateRepo := repository.NewStateRepository(db)
	app := services.NewAppService(ctx, stateRepo, syncer)

	sessionService := services.NewSessionService(app, remoteStore, syncer)
	sessionService.Resume(ctx)

	geminiClient := gemini.NewClient(cfg.GeminiBaseURL, cfg.GeminiAPIKey)
	coach := services.NewCoachService(app, geminiClient)

	srv := server.New(cfg, authService, sessionService, app, coach)
	if err := srv.Start(); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func setupLogger(level string) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}
