package main

import (
	"context"
	"os"

	"go.uber.org/zap"

	"github.com/sprintforge/backend/internal/models"
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

	// needed for gen_random_uuid defaults
	if err := db.WithContext(ctx).Exec(`CREATE EXTENSION IF NOT EXISTS "pgcrypto"`).Error; err != nil {
		log.Fatal("failed to enable pgcrypto", zap.Error(err))
	}

	if err := db.WithContext(ctx).AutoMigrate(
		&models.Sprint{},
		&models.PBI{},
		&models.Story{},
	); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}

	log.Info("migrations applied")
}
