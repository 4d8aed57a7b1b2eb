package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/sprintforge/backend/internal/api"
	"github.com/sprintforge/backend/internal/clients/openai"
	"github.com/sprintforge/backend/internal/ml"
	"github.com/sprintforge/backend/internal/repository"
	"github.com/sprintforge/backend/internal/services"
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

	sprints := repository.NewSprintRepository(db)
	pbis := repository.NewPBIRepository(db)
	stories := repository.NewStoryRepository(db)

	engine := ml.NewEngine(cfg.ModelPath)

	var llm openai.Client
	if cfg.OpenAIAPIKey != "" {
		llm, err = openai.NewClient(openai.Options{
			BaseURL: cfg.OpenAIBaseURL,
			APIKey:  cfg.OpenAIAPIKey,
			Model:   cfg.OpenAIModel,
			Timeout: cfg.OpenAITimeout,
		})
		if err != nil {
			log.Fatal("failed to build openai client", zap.Error(err))
		}
	} else {
		log.Warn("OPENAI_API_KEY not set, text generation disabled")
	}

	router := api.NewRouter(api.Dependencies{
		DB:         db,
		Sprints:    sprints,
		PBIs:       pbis,
		Stories:    stories,
		Priorities: services.NewPriorityService(engine, sprints, stories),
		AI:         services.NewAIService(llm, sprints, stories),
		Validate:   validator.New(validator.WithRequiredStructEnabled()),
		AppEnv:     cfg.AppEnv,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", zap.String("addr", cfg.HTTPAddr), zap.String("env", cfg.AppEnv))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		log.Fatal("http server failed", zap.Error(err))
	case sig := <-sigCh:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}
