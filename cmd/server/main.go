package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/daedongje/service-wayfinding/internal/application"
	"github.com/daedongje/service-wayfinding/internal/assistant"
	"github.com/daedongje/service-wayfinding/internal/config"
	"github.com/daedongje/service-wayfinding/internal/directions"
	"github.com/daedongje/service-wayfinding/internal/domain/geomap"
	wayfindingEvents "github.com/daedongje/service-wayfinding/internal/events"
	"github.com/daedongje/service-wayfinding/internal/handler"
	"github.com/daedongje/service-wayfinding/internal/overlay"
	"github.com/daedongje/service-wayfinding/internal/platform/database"
	"github.com/daedongje/service-wayfinding/internal/platform/health"
	"github.com/daedongje/service-wayfinding/internal/platform/kafka"
	"github.com/daedongje/service-wayfinding/internal/platform/logger"
	"github.com/daedongje/service-wayfinding/internal/platform/middleware"
	"github.com/daedongje/service-wayfinding/internal/platform/sdkload"
	"github.com/daedongje/service-wayfinding/internal/repository"
)

const serviceName = "service-wayfinding"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting "+serviceName,
		zap.String("port", cfg.Port),
		zap.String("db_driver", cfg.DBConfig.Driver),
		zap.Bool("kafka_enabled", cfg.KafkaConfig.Enabled),
	)

	// Connect to database
	db, err := database.Connect(cfg.DBConfig, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal("failed to run auto-migration", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize repositories
	eventRepo := repository.NewGormEventRepository(db)
	locationRepo := repository.NewGormLocationRepository(db)
	widgetRepo := repository.NewMemoryWidgetRepository()

	catalogService := application.NewCatalogService(eventRepo, locationRepo, log)
	if cfg.SeedCatalog {
		if err := catalogService.Seed(ctx); err != nil {
			log.Fatal("failed to seed catalog", zap.Error(err))
		}
	}

	// Initialize Kafka producer
	var publisher kafka.Publisher = kafka.Discard{}
	if cfg.KafkaConfig.Enabled {
		producer := kafka.NewProducer(cfg.KafkaConfig.Brokers, log)
		defer func() { _ = producer.Close() }()
		publisher = producer
	}

	// Map SDK boots once in the background; geo widgets wait on it.
	var sdk application.MapReadiness
	builder := overlay.Builder{}
	if cfg.MapConfig.SDKKey != "" {
		probeClient := &http.Client{Timeout: cfg.MapConfig.LocationLoadTimeout}
		loader := sdkload.New("kakao-maps",
			directions.SDKProbe(probeClient, cfg.MapConfig.SDKURL, cfg.MapConfig.SDKKey), log)
		go func() {
			if err := loader.Load(ctx); err != nil {
				log.Warn("map sdk unavailable, geo widgets stay inert", zap.Error(err))
			}
		}()
		sdk = loader
		builder.ScriptURL = directions.SDKScriptURL(cfg.MapConfig.SDKURL, cfg.MapConfig.SDKKey)
	} else {
		log.Warn("MAP_SDK_KEY not set, geo widgets are disabled")
	}

	var directionsProvider geomap.DirectionsProvider
	if cfg.MapConfig.RESTKey != "" {
		directionsProvider = directions.NewClient(directions.Config{
			BaseURL:    cfg.MapConfig.DirectionsURL,
			RESTKey:    cfg.MapConfig.RESTKey,
			Timeout:    cfg.MapConfig.DirectionsTimeout,
			MaxRetries: cfg.MapConfig.DirectionsRetries,
		}, nil, log)
	}

	wayfindingService := application.NewWayfindingService(
		widgetRepo,
		eventRepo,
		locationRepo,
		sdk,
		directionsProvider,
		builder,
		application.MapSettings{
			DisplayLoadTimeout:  cfg.MapConfig.DisplayLoadTimeout,
			LocationLoadTimeout: cfg.MapConfig.LocationLoadTimeout,
			RequestTimeout:      cfg.MapConfig.DirectionsTimeout,
		},
		publisher,
		log,
	)
	clientService := application.NewClientService(application.ClientSettings{
		SDKKey:        cfg.MapConfig.SDKKey,
		SDKURL:        cfg.MapConfig.SDKURL,
		HasDirections: directionsProvider != nil,
		ChatPluginKey: cfg.ChatConfig.PluginKey,
		QRBaseURL:     cfg.QRConfig.BaseURL,
		QRSize:        cfg.QRConfig.Size,
	})

	// Catalog updates arrive over Kafka when it is enabled
	if cfg.KafkaConfig.Enabled {
		groupID := cfg.KafkaConfig.GroupPrefix + "wayfinding-service"
		facilityConsumer := wayfindingEvents.NewFacilityEventConsumer(
			cfg.KafkaConfig.Brokers,
			groupID,
			catalogService,
			log,
		)
		defer func() { _ = facilityConsumer.Close() }()

		go func() {
			log.Info("starting facility event consumer")
			if err := facilityConsumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("facility event consumer error", zap.Error(err))
			}
		}()
	}

	go func() {
		err := wayfindingService.RunReaper(ctx, cfg.WidgetConfig.SweepInterval, cfg.WidgetConfig.IdleTimeout)
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Error("widget reaper stopped", zap.Error(err))
		}
	}()

	assistantServer, err := assistant.NewServer(catalogService, log)
	if err != nil {
		log.Fatal("failed to create assistant server", zap.Error(err))
	}

	// Setup Gin router
	if cfg.AppEnv != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	// Register health check routes
	health.NewHandler(db, serviceName).RegisterRoutes(router)

	// Register routes
	handler.NewWidgetHandler(wayfindingService).RegisterRoutes(&router.RouterGroup)
	handler.NewCatalogHandler(catalogService).RegisterRoutes(&router.RouterGroup)
	handler.NewClientHandler(clientService, cfg.MapConfig.DisplayLoadTimeout).RegisterRoutes(&router.RouterGroup)
	router.Any("/mcp", gin.WrapH(assistantServer.HTTPHandler("/mcp")))

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down " + serviceName + "...")

	// Stop the consumer and reaper
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}
	if err := wayfindingService.WaitSettled(shutdownCtx); err != nil {
		log.Warn("pending routes abandoned", zap.Error(err))
	}

	log.Info(serviceName + " stopped")
}
