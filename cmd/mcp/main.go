package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/daedongje/service-wayfinding/internal/application"
	"github.com/daedongje/service-wayfinding/internal/assistant"
	"github.com/daedongje/service-wayfinding/internal/config"
	"github.com/daedongje/service-wayfinding/internal/platform/database"
	"github.com/daedongje/service-wayfinding/internal/platform/logger"
	"github.com/daedongje/service-wayfinding/internal/repository"
)

// The MCP server speaks over stdin/stdout; every log line goes to stderr.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewNamed(cfg.AppEnv, "wayfinding-mcp")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	db, err := database.Connect(cfg.DBConfig, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal("failed to run auto-migration", zap.Error(err))
	}

	catalogService := application.NewCatalogService(
		repository.NewGormEventRepository(db),
		repository.NewGormLocationRepository(db),
		log,
	)
	if cfg.SeedCatalog {
		if err := catalogService.Seed(context.Background()); err != nil {
			log.Fatal("failed to seed catalog", zap.Error(err))
		}
	}

	srv, err := assistant.NewServer(catalogService, log)
	if err != nil {
		log.Fatal("failed to create assistant server", zap.Error(err))
	}

	log.Info("assistant serving on stdio")
	if err := srv.ServeStdio(); err != nil {
		log.Error("assistant server error", zap.Error(err))
		os.Exit(1)
	}
}
