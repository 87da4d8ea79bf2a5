package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shard-legends/alchemy-service/internal/adapters"
	"github.com/shard-legends/alchemy-service/internal/config"
	"github.com/shard-legends/alchemy-service/internal/database"
	"github.com/shard-legends/alchemy-service/internal/events"
	"github.com/shard-legends/alchemy-service/internal/handlers"
	customMiddleware "github.com/shard-legends/alchemy-service/internal/middleware"
	"github.com/shard-legends/alchemy-service/internal/service"
	"github.com/shard-legends/alchemy-service/internal/storage"
	"github.com/shard-legends/alchemy-service/pkg/jwt"
	"github.com/shard-legends/alchemy-service/pkg/logger"
	"github.com/shard-legends/alchemy-service/pkg/metrics"
	"go.uber.org/zap"
)

const serviceVersion = "1.0.0"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Background loops stop on this context
	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	startTime := time.Now()
	go func() {
		ticker := time.NewTicker(cfg.Metrics.UpdateInterval)
		defer ticker.Stop()
		for {
			metrics.ServiceUptime.Set(time.Since(startTime).Seconds())
			select {
			case <-appCtx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
	metrics.ServiceInfo.WithLabelValues(serviceVersion, startTime.Format(time.RFC3339)).Set(1)

	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	redis, err := database.NewRedisClient(&cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redis.Close()

	// JWT validator with periodic public key refresh
	jwtValidator := jwt.NewValidator(cfg.Auth.PublicKeyURL, redis, cfg.Timeouts.JWTValidatorClient)
	initCtx, initCancel := context.WithTimeout(appCtx, cfg.Timeouts.JWTValidatorClient)
	if err := jwtValidator.Initialize(initCtx); err != nil {
		initCancel()
		logger.Fatal("Failed to initialize JWT validator", zap.Error(err))
	}
	initCancel()
	go jwtValidator.StartKeyRefresh(appCtx, cfg.Auth.RefreshInterval)

	dbAdapter := adapters.NewDatabaseAdapter(db)
	cacheAdapter := adapters.NewCacheAdapter(redis)
	metricsAdapter := adapters.NewMetricsAdapter()

	repository := storage.NewRepository(&storage.RepositoryDependencies{
		DB:               dbAdapter,
		Cache:            cacheAdapter,
		MetricsCollector: metricsAdapter,
		CatalogCacheTTL:  cfg.Catalog.CacheTTL,
	})

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.Events.Enabled {
		publisher = events.NewRedisPublisher(cacheAdapter, cfg.Events.ChannelPrefix, logger.Named("events"))
	}

	serviceLayer := service.NewService(&service.ServiceDependencies{
		Repository:   repository,
		Cache:        cacheAdapter,
		Publisher:    publisher,
		Logger:       logger.Named("service"),
		CraftLockTTL: cfg.Craft.LockTTL,
	})

	// Catalog refresher loads the catalog before traffic arrives and keeps it fresh
	refresher := service.NewCatalogRefresher(serviceLayer.Catalog, logger.Named("catalog_refresher"), service.RefresherConfig{
		RefreshInterval: cfg.Catalog.RefreshInterval,
		RefreshTimeout:  cfg.Catalog.RefreshTimeout,
	})
	go refresher.Start(appCtx)

	allHandlers := handlers.NewHandlers(&handlers.HandlerDependencies{
		Service: serviceLayer,
		DB:      db,
		Redis:   redis,
		Pool:    poolStats{db: db},
		Logger:  logger.Named("http"),
	})

	deps := routerDeps{
		Handlers:       allHandlers,
		Auth:           customMiddleware.Auth(jwtValidator),
		RequestTimeout: cfg.Timeouts.HTTPMiddleware,
	}

	publicServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      newPublicRouter(deps),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	internalServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.InternalPort),
		Handler:      newInternalRouter(deps),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("Starting Alchemy Service public server",
			zap.String("host", cfg.Server.Host),
			zap.String("port", cfg.Server.Port),
		)

		if err := publicServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start public server", zap.Error(err))
		}
	}()

	go func() {
		logger.Info("Starting Alchemy Service internal server",
			zap.String("host", cfg.Server.Host),
			zap.String("port", cfg.Server.InternalPort),
		)

		if err := internalServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start internal server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	appCancel()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeouts.GracefulShutdown)
	defer cancel()

	shutdownErr := make(chan error, 2)

	go func() {
		if err := publicServer.Shutdown(ctx); err != nil {
			shutdownErr <- fmt.Errorf("public server shutdown error: %w", err)
		} else {
			shutdownErr <- nil
		}
	}()

	go func() {
		if err := internalServer.Shutdown(ctx); err != nil {
			shutdownErr <- fmt.Errorf("internal server shutdown error: %w", err)
		} else {
			shutdownErr <- nil
		}
	}()

	for i := 0; i < 2; i++ {
		if err := <-shutdownErr; err != nil {
			logger.Error("Server forced to shutdown", zap.Error(err))
		}
	}

	logger.Info("Servers exited")
}
