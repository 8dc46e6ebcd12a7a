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

	"github.com/Seascape-Charters/service-booking/internal/application"
	"github.com/Seascape-Charters/service-booking/internal/config"
	bookingDomain "github.com/Seascape-Charters/service-booking/internal/domain/booking"
	bookingEvents "github.com/Seascape-Charters/service-booking/internal/events"
	"github.com/Seascape-Charters/service-booking/internal/handler"
	"github.com/Seascape-Charters/service-booking/internal/ledger"
	"github.com/Seascape-Charters/service-booking/internal/platform/auth"
	"github.com/Seascape-Charters/service-booking/internal/platform/health"
	"github.com/Seascape-Charters/service-booking/internal/platform/kafka"
	"github.com/Seascape-Charters/service-booking/internal/platform/logger"
	"github.com/Seascape-Charters/service-booking/internal/platform/middleware"
	"github.com/Seascape-Charters/service-booking/internal/qrcode"
)

const serviceName = "service-booking"

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

	log.Info("starting service-booking",
		zap.String("port", cfg.Port),
		zap.String("ledger", cfg.LedgerDriver),
	)

	location, err := cfg.Location()
	if err != nil {
		log.Fatal("invalid timezone", zap.Error(err))
	}

	// Connect to the ledger (runs migrations for postgres)
	backend, closeLedger, err := ledger.Open(cfg, log)
	if err != nil {
		log.Fatal("failed to open ledger", zap.Error(err))
	}
	defer closeLedger()

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(
		cfg.JWTConfig.Secret,
		cfg.JWTConfig.AccessTTL,
		cfg.JWTConfig.RefreshTTL,
	)

	// Initialize Kafka producer
	var publisher application.EventPublisher
	if cfg.KafkaConfig.Enabled() {
		kafkaProducer := kafka.NewProducer(cfg.KafkaConfig.Brokers, log)
		defer func() { _ = kafkaProducer.Close() }()
		publisher = kafkaProducer
	} else {
		log.Warn("no kafka brokers configured, lifecycle events disabled")
	}

	qr, err := qrcode.NewRenderer(cfg.QRTemplate)
	if err != nil {
		log.Fatal("invalid QR template", zap.Error(err))
	}

	// Initialize application services
	bookingService := application.NewBookingService(
		backend,
		backend,
		bookingDomain.NewStandardPricingStrategy(),
		qr,
		publisher,
		location,
		log,
	)
	checkInService := application.NewCheckInService(backend, publisher, log)
	yachtService := application.NewYachtService(backend, log)
	statsService := application.NewStatsService(backend, backend, log)

	// Initialize and start payment event consumer in a goroutine
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.KafkaConfig.Enabled() {
		groupID := cfg.KafkaConfig.GroupPrefix + "booking-service"
		paymentConsumer := bookingEvents.NewPaymentEventConsumer(
			cfg.KafkaConfig.Brokers,
			groupID,
			bookingService,
			log,
		)
		defer func() { _ = paymentConsumer.Close() }()

		go func() {
			log.Info("starting payment event consumer")
			if err := paymentConsumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("payment event consumer error", zap.Error(err))
			}
		}()
	}

	// Redis backs the check-in rate limiter; nil disables it
	rdb := config.NewRedisClient(cfg.RedisConfig, log)
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
	}
	checkinLimiter := middleware.RateLimitMiddleware(cfg.RateLimit, rdb, log)

	// Setup Gin router
	if cfg.AppEnv != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	// Register health check routes
	checks := map[string]health.Checker{"ledger": backend}
	if rdb != nil {
		checks["redis"] = health.CheckerFunc(func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
	}
	health.NewHandler(serviceName, checks).RegisterRoutes(router)

	// Register routes
	handler.NewYachtHandler(yachtService).RegisterRoutes(&router.RouterGroup)
	handler.NewBookingHandler(bookingService).RegisterRoutes(&router.RouterGroup, jwtManager)
	handler.NewCheckInHandler(checkInService, checkinLimiter).RegisterRoutes(&router.RouterGroup, jwtManager)
	handler.NewAdminHandler(bookingService, yachtService, statsService).RegisterRoutes(&router.RouterGroup, jwtManager)

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

	log.Info("shutting down service-booking...")

	// Cancel the consumer context
	cancel()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info("service-booking stopped")
}
