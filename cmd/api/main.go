package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"alfredoptarigan/skill-profiler/internal/config"
	"alfredoptarigan/skill-profiler/internal/logger"
	"alfredoptarigan/skill-profiler/internal/server"
)

func main() {
	// Load configuration
	cfg, err := config.Load(viper.New())
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		log.Fatalf("creating a logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("config loaded", zap.String("env", cfg.Server.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	container, err := server.Build(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("initializing services", zap.Error(err))
	}
	defer container.Close()

	app := server.New(container)

	if err := server.Run(ctx, app, cfg.Server.Port, logger); err != nil {
		logger.Error("server stopped", zap.Error(err))
	}
}
