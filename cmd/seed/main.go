package main

import (
	"context"
	"os"

	"go.uber.org/zap"

	"github.com/sprintforge/backend/internal/seed"
	"github.com/sprintforge/backend/pkg/config"
	"github.com/sprintforge/backend/pkg/database"
	"github.com/sprintforge/backend/pkg/logger"
)

func main() {
	cfg := config.MustLoad()

	log, err := logger.Init(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	ctx := context.Background()
	db, err := database.OpenPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	if err := seed.Run(ctx, db); err != nil {
		log.Fatal("seeding failed", zap.Error(err))
	}

	log.Info("seed data loaded")
}
