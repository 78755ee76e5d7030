package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"alumniconnect/internal/cache"
	"alumniconnect/internal/config"
	"alumniconnect/internal/database"
	"alumniconnect/internal/jobs"
	"alumniconnect/internal/log"
	"alumniconnect/internal/queue"
	"alumniconnect/internal/repository"
	"alumniconnect/internal/tasks"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment, cfg.Logging.Level)

	if cfg.Store.Driver != config.StoreDriverPostgres {
		logger.Fatal().Str("driver", cfg.Store.Driver).Msg("worker requires the postgres store")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbPool, err := database.Open(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect postgres")
	}
	defer dbPool.Close()

	client, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis connection failed")
	}
	if client == nil {
		logger.Fatal().Msg("worker requires redis.addr")
	}
	defer client.Close()

	stores := repository.NewPostgresStores(dbPool)
	processor := tasks.NewProcessor(stores.Notifications, stores.Sessions, logger)
	consumer := queue.NewConsumer(
		client,
		cfg.Redis.Stream,
		cfg.Worker.Group,
		cfg.Worker.Consumer,
		cfg.Worker.ClaimInterval,
		logger,
		processor,
	)

	scheduler := jobs.NewScheduler(queue.NewStreamProducer(client, cfg.Redis.Stream), cfg.Worker.CleanupSpec, logger)
	if err := scheduler.Start(); err != nil {
		logger.Fatal().Err(err).Msg("scheduler start failed")
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error().Err(err).Msg("consumer stopped unexpectedly")
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	scheduler.Stop(shutdownCtx)

	select {
	case <-done:
	case <-shutdownCtx.Done():
		logger.Warn().Msg("consumer did not stop in time")
	}
}
