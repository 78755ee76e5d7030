package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"alumniconnect/internal/cache"
	"alumniconnect/internal/config"
	"alumniconnect/internal/database"
	"alumniconnect/internal/handlers"
	"alumniconnect/internal/jobs"
	"alumniconnect/internal/log"
	"alumniconnect/internal/queue"
	"alumniconnect/internal/realtime"
	"alumniconnect/internal/repository"
	"alumniconnect/internal/repository/memory"
	"alumniconnect/internal/seed"
	"alumniconnect/internal/server"
	"alumniconnect/internal/service"
	"alumniconnect/internal/storage"
	"alumniconnect/internal/tasks"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment, cfg.Logging.Level)
	ctx := context.Background()

	var (
		stores repository.Stores
		dbPool *pgxpool.Pool
		checks []handlers.HealthCheck
	)
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		logger.Warn().Msg("using in-memory store; data is lost on restart")
		stores = memory.NewStores(memory.New())
	default:
		dbPool, err = database.Open(ctx, cfg.Postgres, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect postgres")
		}
		stores = repository.NewPostgresStores(dbPool)
		checks = append(checks, handlers.HealthCheck{Name: "postgres", Ping: dbPool.Ping})
	}

	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect redis")
	}

	var taskQueue service.TaskQueue
	var scheduler *jobs.Scheduler
	if redisClient != nil {
		taskQueue = queue.NewStreamProducer(redisClient, cfg.Redis.Stream)
		checks = append(checks, handlers.HealthCheck{Name: "redis", Ping: func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}})
	} else {
		// Without a broker the API runs tasks and the cleanup schedule itself.
		inline := queue.NewInlineProducer(tasks.NewProcessor(stores.Notifications, stores.Sessions, logger))
		taskQueue = inline
		scheduler = jobs.NewScheduler(inline, cfg.Worker.CleanupSpec, logger)
		if err := scheduler.Start(); err != nil {
			logger.Error().Err(err).Msg("scheduler start failed")
			scheduler = nil
		}
	}

	var avatars service.ObjectPutter
	if cfg.Storage.Endpoint != "" {
		objectStore, err := storage.NewObjectStore(cfg.Storage)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to init object store")
		}
		if err := objectStore.EnsureBucket(ctx); err != nil {
			logger.Warn().Err(err).Msg("ensure bucket failed")
		}
		avatars = objectStore
	}

	if cfg.Seed.Enabled {
		if err := seed.NewSeeder(stores, logger).Run(ctx); err != nil {
			logger.Error().Err(err).Msg("seeding failed")
		}
	}

	hub := realtime.NewHub(logger)
	notifier := service.NewNotifier(taskQueue, logger)
	services := handlers.Services{
		Auth:          service.NewAuthService(stores.Users, stores.Sessions, cfg.Security, logger),
		Profiles:      service.NewProfileService(stores.Users, logger),
		Uploads:       service.NewUploadService(stores.Users, avatars, cfg.Upload.MaxAvatarBytes, logger),
		Mentorships:   service.NewMentorshipService(stores.Users, stores.Mentorships, notifier, logger),
		Messages:      service.NewMessageService(stores.Users, stores.Mentorships, stores.Messages, hub, notifier, logger),
		Content:       service.NewContentService(stores, logger),
		Notifications: service.NewNotificationService(stores.Notifications, stores.Messages),
	}

	handlerSet := handlers.NewHandlerSet(logger, cfg, services, hub, checks...)
	httpServer := server.NewHTTPServer(cfg, logger, handlerSet)

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	waitForShutdown(logger, httpServer, hub, scheduler, dbPool, redisClient)
}

func waitForShutdown(logger zerolog.Logger, srv *server.HTTPServer, hub *realtime.Hub, scheduler *jobs.Scheduler, db *pgxpool.Pool, redisClient *redis.Client) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Hijacked websocket connections are not tracked by Shutdown.
	hub.Close()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	if scheduler != nil {
		scheduler.Stop(shutdownCtx)
	}

	if db != nil {
		db.Close()
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error().Err(err).Msg("redis close error")
		}
	}

	logger.Info().Msg("server exited cleanly")
}
