package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/billfold/estimate-api/docs"
	"github.com/billfold/estimate-api/internal/auth"
	"github.com/billfold/estimate-api/internal/config"
	"github.com/billfold/estimate-api/internal/database"
	"github.com/billfold/estimate-api/internal/http/handler"
	"github.com/billfold/estimate-api/internal/http/middleware"
	"github.com/billfold/estimate-api/internal/http/router"
	"github.com/billfold/estimate-api/internal/jobs"
	"github.com/billfold/estimate-api/internal/logger"
	"github.com/billfold/estimate-api/internal/pdf"
	"github.com/billfold/estimate-api/internal/repository"
	"github.com/billfold/estimate-api/internal/service"
	"github.com/billfold/estimate-api/internal/storage"
	"go.uber.org/zap"
)

// @title Billfold Estimate API
// @version 1.0
// @description Estimate and invoice generation API with PDF rendering, totals preview, and document history
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@billfold.app

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token
// @Security BearerAuth

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Load basic configuration first (for logging setup)
	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	// Configure Swagger host based on environment
	switch basicCfg.App.Environment {
	case "staging", "production":
		docs.SwaggerInfo.Host = basicCfg.Server.PublicBaseURL
	default:
		docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", basicCfg.App.Port)
	}

	// Load full configuration with secrets
	// In development: uses environment variables
	// In staging/production: fetches from Azure Key Vault
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	// Connect to database
	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Schema migrations are managed with goose for postgres deployments.
	// For sqlite (single-user local installs) and development the schema
	// is created in-process.
	if cfg.Database.Driver == "sqlite" || cfg.App.Environment == "development" {
		if err := database.AutoMigrate(db); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		log.Info("Database schema migrated", zap.String("driver", cfg.Database.Driver))
	}

	// Initialize storage
	fileStorage, err := storage.NewStorage(&cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	log.Info("Storage initialized", zap.String("mode", cfg.Storage.Mode))

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	designRepo := repository.NewDesignSettingsRepository(db)
	historyRepo := repository.NewHistoryRepository(db)
	numberSequenceRepo := repository.NewNumberSequenceRepository(db)

	// Initialize token issuer
	tokenIssuer, err := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTLDuration())
	if err != nil {
		return fmt.Errorf("failed to create token issuer: %w", err)
	}

	// Initialize services
	authService := service.NewAuthService(userRepo, tokenIssuer, cfg.Auth.BcryptCost, log)
	designService := service.NewDesignService(designRepo, log)
	exchangeService := service.NewExchangeRateService(&cfg.ExchangeRates, log)
	renderer := pdf.NewRenderer(cfg.Server.PublicBaseURL, log)
	estimateService := service.NewEstimateService(historyRepo, numberSequenceRepo, designService, renderer, fileStorage, log)

	// Fetch exchange rates once at startup. A failed fetch leaves the
	// service in degraded mode with the default currency only.
	fetchCtx, cancelFetch := context.WithTimeout(ctx, cfg.ExchangeRates.FetchTimeoutDuration())
	exchangeService.Fetch(fetchCtx)
	cancelFetch()

	// Initialize middleware
	authMiddleware := auth.NewMiddleware(tokenIssuer, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, log)
	estimateHandler := handler.NewEstimateHandler(estimateService, log)
	designHandler := handler.NewDesignHandler(designService, log)
	currencyHandler := handler.NewCurrencyHandler(exchangeService, log)

	// Setup router
	rt := router.NewRouter(
		cfg,
		log,
		db,
		authMiddleware,
		rateLimiter,
		authHandler,
		estimateHandler,
		designHandler,
		currencyHandler,
	)

	// Initialize and start scheduler for background jobs
	var scheduler *jobs.Scheduler
	if cfg.ExchangeRates.RefreshEnabled {
		scheduler = jobs.NewScheduler(log)

		if err := jobs.RegisterRatesRefreshJob(
			scheduler,
			exchangeService,
			log,
			cfg.ExchangeRates.RefreshCron,
			cfg.ExchangeRates.FetchTimeoutDuration(),
		); err != nil {
			log.Error("Failed to register rates refresh job", zap.Error(err))
		} else {
			scheduler.Start()
			log.Info("Scheduler started with rates refresh job",
				zap.String("cron_expr", cfg.ExchangeRates.RefreshCron),
			)
		}
	} else {
		log.Info("Exchange rates periodic refresh disabled")
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	// Wait for interrupt signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		// Stop scheduler if running
		if scheduler != nil {
			ctx := scheduler.Stop()
			<-ctx.Done()
			log.Info("Scheduler stopped")
		}

		// Graceful shutdown with timeout
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
