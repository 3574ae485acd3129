package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/foodshare/engine/internal/api"
	"github.com/foodshare/engine/internal/api/handlers"
	mw "github.com/foodshare/engine/internal/api/middleware"
	"github.com/foodshare/engine/internal/auth"
	"github.com/foodshare/engine/internal/repository"
	"github.com/foodshare/engine/internal/services"
	"github.com/foodshare/engine/pkg/config"
	"github.com/foodshare/engine/pkg/database"
	"github.com/foodshare/engine/pkg/logger"

	_ "github.com/foodshare/engine/docs"
)

// @title           FoodShare API
// @version         1.0
// @description     Coordinates surplus food donations between donors and receivers.

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg := config.MustLoad()

	// Initialize logger
	log, err := logger.Init(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	log.Info("Starting FoodShare engine",
		zap.String("env", cfg.AppEnv),
		zap.String("addr", cfg.HTTPAddr),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to database
	db, err := database.Open(ctx, cfg.DatabaseURL, database.Options{Verbose: cfg.AppEnv == "development"})
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	log.Info("Database connected successfully", zap.String("dialect", db.Dialector.Name()))

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatal("redis connection failed", zap.Error(err))
	}

	queue := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	defer queue.Close()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	donationRepo := repository.NewDonationRepository(db)
	requestRepo := repository.NewRequestRepository(db)

	tokens := auth.NewTokenManager([]byte(cfg.JWTSecret), cfg.TokenTTL)
	authSvc := services.NewAuthService(userRepo, tokens, auth.NewRedisDenylist(rdb))
	donationSvc := services.NewDonationService(donationRepo, requestRepo)
	requestSvc := services.NewRequestService(donationRepo, queue)

	limiter, err := newAuthLimiter(ctx, cfg, rdb)
	if err != nil {
		log.Fatal("rate limiter setup failed", zap.Error(err))
	}

	proxies, err := mw.NewProxyTrust(cfg.TrustedProxyList())
	if err != nil {
		log.Fatal("invalid TRUSTED_PROXIES", zap.Error(err))
	}

	router := api.NewRouter(api.Dependencies{
		Authenticator:   authSvc,
		AuthLimiter:     limiter,
		TrustedProxies:  proxies,
		CORSOrigins:     cfg.AllowedOrigins(),
		AuthHandler:     handlers.NewAuthHandler(authSvc),
		DonorHandler:    handlers.NewDonorHandler(donationSvc),
		ReceiverHandler: handlers.NewReceiverHandler(donationSvc, requestSvc),
		HealthHandler: handlers.NewHealthHandler(map[string]handlers.Pinger{
			"database": func(ctx context.Context) error { return database.Ping(ctx, db) },
			"redis":    func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		}),
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Graceful shutdown
	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errCh:
		log.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown error", zap.Error(err))
	} else {
		log.Info("server exited gracefully")
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// newAuthLimiter builds the limiter guarding the signup and login routes.
func newAuthLimiter(ctx context.Context, cfg *config.Config, rdb *redis.Client) (mw.Limiter, error) {
	if cfg.RateLimitStore == "memory" {
		l := mw.NewMemoryLimiter(cfg.AuthRateLimitRPS, cfg.AuthRateLimitBurst)
		go l.GC(ctx, 5*time.Minute, 10*time.Minute)
		return l, nil
	}
	// burst requests per the time it takes the bucket to refill
	window := time.Duration(float64(cfg.AuthRateLimitBurst) / cfg.AuthRateLimitRPS * float64(time.Second))
	return mw.NewRedisLimiter(rdb, "foodshare:ratelimit:auth", cfg.AuthRateLimitBurst, window)
}
