package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"inventory-billing/internal/auth"
	"inventory-billing/internal/catalogue"
	"inventory-billing/internal/config"
	"inventory-billing/internal/database"
	"inventory-billing/internal/events"
	"inventory-billing/internal/handler"
	"inventory-billing/internal/metrics"
	"inventory-billing/internal/repository"
	"inventory-billing/internal/router"
	"inventory-billing/internal/scheduler"
	"inventory-billing/internal/service"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env file is fine; the environment may already be set.
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting inventory-billing API server")

	loc, err := cfg.App.Location()
	if err != nil {
		return fmt.Errorf("failed to load timezone: %w", err)
	}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool, logger); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	// Initialize repositories
	productRepo := repository.NewProductRepository(pool, logger)
	billRepo := repository.NewBillRepository(pool, logger)
	userRepo := repository.NewUserRepository(pool, logger)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.JWTTTL)
	authService := auth.NewService(userRepo, tokens, logger)

	if cfg.Auth.SuperAdminPassword != "" {
		if _, err := authService.EnsureSuperAdmin(ctx, cfg.Auth.SuperAdminUsername, cfg.Auth.SuperAdminPassword); err != nil {
			return fmt.Errorf("failed to bootstrap super admin: %w", err)
		}
	}

	if cfg.Catalogue.SeedPath != "" {
		if err := importCatalogue(ctx, cfg, productRepo, logger); err != nil {
			return err
		}
	}

	publisher := newPublisher(cfg.Kafka, logger)
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close event publisher")
		}
	}()

	m := metrics.New("inventory")

	// Initialize services
	productService := service.NewProductService(productRepo, logger)
	billingService := service.NewBillingService(productRepo, billRepo, publisher, m, logger)
	dashboardService := service.NewDashboardService(productRepo, billRepo, loc, logger)

	// Initialize router
	mux := router.New(router.Handlers{
		Product:   handler.NewProductHandler(productService, logger),
		Billing:   handler.NewBillingHandler(billingService, logger),
		Dashboard: handler.NewDashboardHandler(dashboardService, logger),
		Auth:      handler.NewAuthHandler(authService, logger),
	}, tokens, m, logger)

	sched := scheduler.New(productRepo, m, loc, logger)
	if err := sched.Start(ctx, cfg.Scheduler.InventorySnapshotSchedule); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer func() { <-sched.Stop().Done() }()

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	metricsServer := &http.Server{
		Addr:         cfg.Server.MetricsAddress(),
		Handler:      router.NewMetrics(m.Handler(), logger),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	// Channel to listen for errors from either server
	serverErrors := make(chan error, 2)

	// Start HTTP servers in goroutines
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()
	go func() {
		logger.Info().
			Str("address", cfg.Server.MetricsAddress()).
			Msg("metrics server started")
		serverErrors <- metricsServer.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown metrics server gracefully")
		}

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// importCatalogue seeds products from the configured catalogue files, trying S3 first when enabled.
func importCatalogue(ctx context.Context, cfg *config.Config, productRepo repository.ProductRepository, logger zerolog.Logger) error {
	fileLoader := catalogue.NewFileLoader(logger)

	var s3Loader catalogue.Loader
	if cfg.S3.Enabled {
		l, err := catalogue.NewS3Loader(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 loader, falling back to local file system only")
		} else {
			s3Loader = l
		}
	} else {
		logger.Info().Msg("using local file system for catalogue files (S3 disabled)")
	}

	loader := catalogue.NewFallbackLoader(s3Loader, fileLoader, cfg.S3.Prefix, cfg.S3.Enabled, logger)

	var paths []string
	for _, p := range strings.Split(cfg.Catalogue.SeedPath, ",") {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}

	if _, err := catalogue.NewImporter(loader, productRepo, logger).Import(ctx, paths...); err != nil {
		return fmt.Errorf("failed to import catalogue: %w", err)
	}

	return nil
}

func newPublisher(cfg config.KafkaConfig, logger zerolog.Logger) events.Publisher {
	if !cfg.Enabled {
		logger.Info().Msg("bill events disabled")
		return events.NewNopPublisher(logger)
	}
	return events.NewKafkaPublisher(cfg, logger)
}
