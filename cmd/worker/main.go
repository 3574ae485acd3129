package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/foodshare/engine/internal/notify"
	"github.com/foodshare/engine/internal/queue/tasks"
	"github.com/foodshare/engine/internal/repository"
	"github.com/foodshare/engine/pkg/config"
	"github.com/foodshare/engine/pkg/database"
	"github.com/foodshare/engine/pkg/logger"
)

func main() {
	cfg := config.MustLoad()
	log, err := logger.Init(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer rdb.Close()

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatal("redis connection failed", zap.Error(err))
	}

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		},
		asynq.Config{
			Concurrency: cfg.AsynqConcurrency,
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				log.Error("task failed", zap.String("type", task.Type()), zap.ByteString("payload", task.Payload()), zap.Error(err))
			}),
		},
	)

	// Initialize DB and repositories for task handlers
	ctx := context.Background()
	db, err := database.Open(ctx, cfg.DatabaseURL, database.Options{MaxConns: cfg.AsynqConcurrency})
	if err != nil {
		log.Fatal("failed to open database", zap.Error(err))
	}

	handler := tasks.NewRequestNotifyHandler(
		repository.NewRequestRepository(db),
		repository.NewDonationRepository(db),
		repository.NewUserRepository(db),
		notify.NewLogNotifier(log),
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeRequestNotify, handler.HandleRequestNotify)

	errCh := make(chan error, 1)
	go func() {
		log.Info("asynq worker starting", zap.Int("concurrency", cfg.AsynqConcurrency))
		if err := srv.Run(mux); err != nil {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		log.Error("worker stopped with error", zap.Error(err))
	}

	// asynq.Server.Shutdown waits for in-flight tasks up to its ShutdownTimeout.
	srv.Shutdown()
}
