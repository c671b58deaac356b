package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"food-dash/internal/config"
	"food-dash/internal/coupon"
	"food-dash/internal/database"
	"food-dash/internal/geo"
	"food-dash/internal/handler"
	"food-dash/internal/notify"
	"food-dash/internal/payment"
	"food-dash/internal/repository"
	"food-dash/internal/router"
	"food-dash/internal/routing"
	"food-dash/internal/service"
	"food-dash/internal/tracking"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env if present; real deployments set the environment directly.
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting food-dash API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Initialize the courier-tracking store
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	positions := tracking.NewStore(redisClient, logger)

	// Initialize repositories
	productRepo := repository.NewProductRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	cartRepo := repository.NewCartRepository(pool, logger)
	couponRepo := repository.NewCouponRepository(pool, logger)
	courierRepo := repository.NewCourierRepository(pool, logger)
	addressRepo := repository.NewAddressRepository(pool, logger)
	commissionRepo := repository.NewCommissionRepository(pool, logger)

	// Initialize the delivery estimator. The routing service is optional;
	// without it estimates come from great-circle distance.
	var etaRouter geo.Router
	if cfg.Routing.Enabled {
		googleRouter, err := routing.NewGoogleRouter(cfg.Routing.GoogleAPIKey, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise routing client, falling back to great-circle estimates")
		} else {
			etaRouter = googleRouter
		}
	} else {
		logger.Info().Msg("routing disabled, using great-circle estimates")
	}
	estimator := geo.NewEstimator(etaRouter, geo.Config{
		DefaultMinutes: cfg.ETA.DefaultMinutes,
		MinMinutes:     cfg.ETA.MinMinutes,
	}, logger)

	// Initialize the payment gateway client and coupon resolver
	gateway := payment.NewClient(cfg.Payment.BaseURL, cfg.Payment.APIKey, logger)
	resolver := coupon.NewResolver(logger)
	notifier := notify.NewLogNotifier(logger)

	// Initialize services
	pricing := service.DeliveryPricing{
		Fee:           cfg.Delivery.Fee,
		FreeThreshold: cfg.Delivery.FreeThreshold,
	}
	settlementService := service.NewSettlementService(
		orderRepo, cartRepo, couponRepo, productRepo, addressRepo, commissionRepo,
		resolver, gateway, pricing, logger,
	)
	lifecycleService := service.NewLifecycleService(
		orderRepo, addressRepo, settlementService, positions, notifier, logger,
	)
	assignmentService := service.NewAssignmentService(
		orderRepo, courierRepo, addressRepo, estimator, positions, notifier, logger,
	)
	cartService := service.NewCartService(cartRepo, productRepo, couponRepo, resolver, logger)
	productService := service.NewProductService(productRepo, logger)

	// Initialize HTTP handlers
	orderHandler := handler.NewOrderHandler(settlementService, lifecycleService, logger)
	cartHandler := handler.NewCartHandler(cartService, logger)
	courierHandler := handler.NewCourierHandler(assignmentService, logger)
	productHandler := handler.NewProductHandler(productService, logger)

	// Initialize router
	mux := router.New(orderHandler, cartHandler, courierHandler, productHandler, cfg.Auth.APIKey, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
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
