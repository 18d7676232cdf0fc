package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Baaaki/restaurant-directory/internal/audit"
	"github.com/Baaaki/restaurant-directory/internal/broker"
	"github.com/Baaaki/restaurant-directory/internal/cache"
	"github.com/Baaaki/restaurant-directory/internal/config"
	"github.com/Baaaki/restaurant-directory/internal/database"
	"github.com/Baaaki/restaurant-directory/internal/graph"
	"github.com/Baaaki/restaurant-directory/internal/handler"
	"github.com/Baaaki/restaurant-directory/internal/middleware"
	"github.com/Baaaki/restaurant-directory/internal/repository"
	"github.com/Baaaki/restaurant-directory/internal/service"
	"github.com/Baaaki/restaurant-directory/pkg/logger"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Init(cfg.Environment); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	if err := run(cfg); err != nil {
		logger.Log.Error("Server stopped", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Sync()
}

// run owns every resource it opens and releases them through defers, so it
// reports failures instead of exiting.
func run(cfg *config.Config) error {
	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	// Redis is optional: without it there is no cache, feed or rate limiting
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = cache.Connect(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		defer redisClient.Close()
	} else {
		logger.Log.Warn("REDIS_URL not set: cache, restaurant feed and rate limiting disabled")
	}

	journal, err := audit.Open(cfg.AuditLogPath)
	if err != nil {
		return fmt.Errorf("open audit journal: %w", err)
	}
	defer journal.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	restaurantRepo := repository.NewRestaurantRepository(db)

	// Initialize services
	restaurantOpts := service.RestaurantServiceOptions{
		Audit:       journal,
		PublicReads: cfg.PublicDirectoryReads,
	}
	var feed *handler.RestaurantFeedHandler
	if redisClient != nil {
		events := broker.NewRedisRestaurantBroker(redisClient)
		defer events.Close()

		restaurantOpts.Cache = cache.NewRestaurantCache(redisClient, cfg.RestaurantCacheTTL)
		restaurantOpts.Events = events

		feed = handler.NewRestaurantFeedHandler(events, cfg.AllowedOrigins)
		if err := feed.Start(ctx); err != nil {
			return fmt.Errorf("subscribe to restaurant events: %w", err)
		}
	}

	authService := service.NewAuthService(userRepo, cfg.AppPrivateKey, cfg.TokenTTL, journal)
	userService := service.NewUserService(userRepo, journal)
	restaurantService := service.NewRestaurantService(restaurantRepo, userRepo, restaurantOpts)

	schema, err := graph.NewSchema(graph.NewResolver(authService, userService, restaurantService))
	if err != nil {
		return fmt.Errorf("build graphql schema: %w", err)
	}

	corsConfig := cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	// cors.New panics on a bad config
	if err := corsConfig.Validate(); err != nil {
		return fmt.Errorf("cors: %w", err)
	}

	// Setup Gin router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(corsConfig))
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.HSTSMiddleware(cfg.IsProduction()))

	handler.Routes{
		GraphQL: handler.NewGraphQLHandler(schema),
		Feed:    feed,
		Health:  handler.NewHealthHandler(),
		Tokens:  authService,
		Limiter: middleware.NewRateLimiter(redisClient, middleware.RateLimiterConfig{
			MaxRequests: cfg.RateLimitMaxRequests,
			Window:      cfg.RateLimitWindow,
		}),
		Metrics: promhttp.Handler(),
	}.Register(router)

	srv := &http.Server{
		Addr:              cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Log.Info("Server starting",
			zap.String("addr", cfg.ServerPort),
			zap.String("environment", cfg.Environment),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
	case <-ctx.Done():
	}
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
