package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/slotline/booking-api/internal/adapters/cache"
	"github.com/slotline/booking-api/internal/adapters/database"
	"github.com/slotline/booking-api/internal/adapters/events"
	"github.com/slotline/booking-api/internal/adapters/locale"
	"github.com/slotline/booking-api/internal/adapters/notifications"
	"github.com/slotline/booking-api/internal/api/handlers"
	"github.com/slotline/booking-api/internal/api/routes"
	"github.com/slotline/booking-api/internal/application/services"
	"github.com/slotline/booking-api/internal/domain/providers"
	mongoclient "github.com/slotline/booking-api/internal/infrastructure/clients/mongo"
	"github.com/slotline/booking-api/internal/infrastructure/clients/postgres"
	redisclient "github.com/slotline/booking-api/internal/infrastructure/clients/redis"
	"github.com/slotline/booking-api/internal/infrastructure/observability"
	"github.com/slotline/booking-api/pkg/config"
)

func main() {
	// .env is optional; real deployments configure through the environment
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Server.Env)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// OpenTelemetry is optional and gated by config
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer shutdownCancel()
				if err := shutdown(shutdownCtx); err != nil {
					log.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			log.Info().Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	// PostgreSQL holds users and appointments; the service cannot run
	// without it.
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()

	// Redis backs the cache and the event bus. The service degrades to
	// booking-only behavior without it.
	var cacheProvider providers.CacheProvider
	var eventBus providers.EventBus
	redisClient, err := redisclient.NewClient(&cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("failed to initialize Redis client, continuing without cache")
	} else {
		defer redisClient.Close()
		cacheProvider = cache.NewRedisAdapter(redisClient)
		eventBus = events.NewRedisEventBus(redisClient)
		log.Info().Msg("Redis client initialized")
	}

	// MongoDB holds the notification store. Notifications are best-effort,
	// so a missing store only disables that side effect.
	var notificationSink providers.NotificationSink
	mongoClient, err := mongoclient.NewClient(&cfg.Mongo)
	if err != nil {
		log.Warn().Err(err).Msg("failed to initialize MongoDB client, continuing without notifications")
	} else {
		defer func() {
			closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer closeCancel()
			_ = mongoClient.Close(closeCtx)
		}()
		notificationSink = notifications.NewMongoAdapter(mongoClient)
		log.Info().Msg("MongoDB client initialized")
	}

	// Adapters
	userAdapter := database.NewUserAdapter(pgClient)
	appointmentRepo := database.NewAppointmentAdapter(pgClient)
	if cacheProvider != nil {
		appointmentRepo = database.NewCachedAppointmentAdapter(appointmentRepo, cacheProvider)
	}

	// Notification copy is written in pt-BR; other locales are not supported
	if cfg.Locale.Locale != "pt-BR" {
		log.Warn().Str("locale", cfg.Locale.Locale).Msg("unsupported notification locale, using pt-BR")
	}

	// Services
	bookingService := services.NewBookingService(
		userAdapter,
		appointmentRepo,
		notificationSink,
		cacheProvider,
		eventBus,
		locale.NewPtBRFormatter(),
		metrics,
	)

	var cacheInvalidationService *services.CacheInvalidationService
	if cacheProvider != nil && eventBus != nil {
		cacheInvalidationService = services.NewCacheInvalidationService(cacheProvider, eventBus)
		if err := cacheInvalidationService.Start(); err != nil {
			log.Warn().Err(err).Msg("failed to start cache invalidation service")
		}
	}

	// Handlers and routes
	bookingHandler := handlers.NewBookingHandler(bookingService, metrics)
	router := routes.NewRouter(bookingHandler, metrics)
	handler := router.SetupRoutes()

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", serverAddr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	if eventBus != nil {
		if err := eventBus.Close(); err != nil {
			log.Error().Err(err).Msg("error closing event bus")
		}
	}

	if cacheInvalidationService != nil {
		cacheInvalidationService.Stop()
	}

	log.Info().Msg("server stopped")
}
