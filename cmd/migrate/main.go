package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/foodshare/engine/internal/models"
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

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := database.Open(ctx, cfg.DatabaseURL, database.Options{Verbose: true, MaxConns: 2})
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	if err := models.Migrate(db.WithContext(ctx)); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}

	log.Info("migrations applied", zap.String("dialect", db.Dialector.Name()), zap.Int("models", len(models.All())))
	fmt.Fprintln(os.Stdout, "migrations completed")
}
