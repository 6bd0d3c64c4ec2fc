package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/fleetflow/fleet-api/internal/api"
	"github.com/fleetflow/fleet-api/internal/core/service"
	mongodb "github.com/fleetflow/fleet-api/internal/infrastructure/db/mongo"
	redisdb "github.com/fleetflow/fleet-api/internal/infrastructure/db/redis"
	"github.com/fleetflow/fleet-api/internal/infrastructure/queue"
	"github.com/fleetflow/fleet-api/internal/pkg/config"
	"github.com/fleetflow/fleet-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDev(),
		Service: "fleet-api",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("mongodb disconnect")
		}
	}()

	sessions, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.SessionDB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis session store connection failed")
	}
	defer sessions.Close()

	rateLimiter, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.RateLimitDB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis rate limiter connection failed")
	}
	defer rateLimiter.Close()

	if cfg.IsDev() {
		if err := service.SeedDemoUsers(ctx, mongodb.NewAuthRepository(db)); err != nil {
			log.Warn().Err(err).Msg("demo user seeding failed")
		}
	}

	eventService := service.NewEventService(mongodb.NewEventRepository(db), log)
	dispatcher := queue.NewDispatcher(0, eventService, log)
	dispatcher.Start(ctx)

	e := api.NewRouter(api.Deps{
		Config:      cfg,
		Log:         log,
		DB:          db,
		Sessions:    sessions,
		RateLimiter: rateLimiter,
		Events:      dispatcher,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server listening")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server stopped")
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
