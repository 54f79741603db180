package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/sathvik89/task-manager-api/internal/api"
	"github.com/sathvik89/task-manager-api/internal/infrastructure/config"
	mongodb "github.com/sathvik89/task-manager-api/internal/infrastructure/db/mongo"
	redisdb "github.com/sathvik89/task-manager-api/internal/infrastructure/db/redis"
	"github.com/sathvik89/task-manager-api/internal/infrastructure/purge"
	"github.com/sathvik89/task-manager-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// @title                      Task Manager API
// @version                    1.0
// @description                REST backend for personal task management.
// @BasePath                   /
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() {
		_ = rdb.Close()
	}()

	taskRepo := mongodb.NewTaskRepository(db)
	userRepo := mongodb.NewUserRepository(db)
	if err := taskRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to create task indexes")
	}
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to create user indexes")
	}

	if cfg.TrashRetentionDays > 0 {
		retention := time.Duration(cfg.TrashRetentionDays) * 24 * time.Hour
		purge.NewPurger(taskRepo, retention, log).Start(ctx)
		log.Info().Int("retention_days", cfg.TrashRetentionDays).Msg("trash retention purger enabled")
	}

	e := api.NewRouter(db, rdb, cfg, log)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting http server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
