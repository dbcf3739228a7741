// cmd/api/main.go
// Main entry point for the matching API
// This file bootstraps all components and starts the server

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

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/imadgeboyega/roommate-backend/internal/auth"
	"github.com/imadgeboyega/roommate-backend/internal/common/database"
	"github.com/imadgeboyega/roommate-backend/internal/common/logger"
	"github.com/imadgeboyega/roommate-backend/internal/config"
	"github.com/imadgeboyega/roommate-backend/internal/matching"
	"github.com/imadgeboyega/roommate-backend/internal/messaging"
	"github.com/imadgeboyega/roommate-backend/internal/profile"
)

var startTime = time.Now()

func main() {
	// 1. Load environment variables
	envErr := godotenv.Load()

	// 2. Load and validate configuration
	cfg := config.Load()

	log, err := logger.New(cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if envErr != nil {
		log.Info("no .env file found, using environment variables")
	}

	if err := cfg.Validate(); err != nil {
		log.Fatal("configuration validation failed", zap.Error(err))
	}

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
	log.Info("server exited gracefully")
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx := context.Background()

	// 3. Connect to PostgreSQL
	db, err := database.NewPostgresDB(ctx, &database.PostgresConfig{
		URL:          cfg.DatabaseURL,
		MaxOpenConns: cfg.DBMaxOpenConns,
		MaxIdleConns: cfg.DBMaxIdleConns,
		MaxLifetime:  cfg.DBConnLifetime,
	})
	if err != nil {
		return err
	}
	defer db.Close()
	log.Info("connected to PostgreSQL")

	// 4. Run database migrations
	if cfg.RunMigrations {
		if err := database.Migrate(ctx, db, log); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	// 5. Connect to Redis (optional)
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.NewRedisClientFromURL(ctx, cfg.RedisURL)
		if err != nil {
			log.Warn("continuing without Redis; pair locks and seen-match caches are process-local", zap.Error(err))
			redisClient = nil
		} else {
			defer redisClient.Close()
			log.Info("connected to Redis")
		}
	}

	// 6. Initialize repositories
	profileRepo := profile.NewPostgresRepository(db)
	conversationRepo := messaging.NewPostgresRepository(db)
	store := matching.NewStore(
		profileRepo,
		matching.NewPostgresSwipeRepository(db),
		conversationRepo,
	)

	// 7. Initialize the matching engine collaborators
	var locker matching.PairLocker
	newSeenCache := func(string) matching.SeenMatchCache { return matching.NewMemorySeenCache() }
	if redisClient != nil {
		locker = matching.NewRedisPairLocker(redisClient, cfg.RedisKeyPrefix, cfg.MatchLockTTL, cfg.MatchLockWait, log.Named("pair_lock"))
		newSeenCache = func(sessionID string) matching.SeenMatchCache {
			return matching.NewRedisSeenCache(redisClient, cfg.RedisKeyPrefix, sessionID, cfg.SessionCacheTTL, log.Named("seen_cache"))
		}
	} else {
		locker = matching.NewLocalPairLocker()
	}

	sessions := matching.NewSessionRegistry(cfg.SessionCacheTTL, newSeenCache)
	matchingHandler := matching.NewHandler(store, sessions, matching.Options{
		Locker: locker,
		Pool:   matching.PoolOptions{HideBlockedBy: cfg.HideBlockedBy},
		Logger: log,
	}, matching.HandlerConfig{
		FeedLimit:   cfg.FeedLimit,
		FeedTimeout: cfg.FeedTimeout,
	})

	profileHandler := profile.NewHandler(profile.NewService(profileRepo, log), log)
	messagingHandler := messaging.NewHandler(conversationRepo, log)
	authMiddleware := auth.NewMiddleware(auth.JWTValidator{Secret: cfg.JWTSecret}, log)

	// 8. Setup routes
	router := mux.NewRouter()
	router.HandleFunc("/health", healthCheck(db, redisClient)).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Specific prefixes are registered before the generic /api/v1 subrouter
	matching.RegisterRoutes(router, matchingHandler, authMiddleware.Authenticate)
	messaging.RegisterRoutes(router, messagingHandler, authMiddleware.Authenticate)
	profile.RegisterRoutes(router, profileHandler, authMiddleware.Authenticate)

	router.Use(loggingMiddleware(log.Named("http")))
	router.Use(corsMiddleware)

	// 9. Create and start HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.String("environment", cfg.Environment),
			zap.Bool("redis", redisClient != nil),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err, ok := <-serverErr:
		if ok {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case sig := <-quit:
		log.Info("shutdown signal received", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}
