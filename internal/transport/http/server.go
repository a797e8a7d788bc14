package http

import (
	"context"
	"errors"
	"fmt"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"vidtube/internal/cache"
	"vidtube/internal/config"
	"vidtube/internal/database"
	"vidtube/internal/handler"
	"vidtube/internal/logging"
	"vidtube/internal/queue"
	"vidtube/internal/redis"
	"vidtube/internal/repository"
	"vidtube/internal/service"
	"vidtube/internal/storage"
	authmw "vidtube/internal/transport/http/middleware"
	"vidtube/internal/worker"
)

// ShutdownTimeout bounds graceful shutdown of in-flight requests.
const ShutdownTimeout = 10 * time.Second

func Run() error {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	ctx := logging.WithEntry(context.Background(), logrus.NewEntry(logger))
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	log := logging.Component(ctx, "server")

	// 2. Connect to Database
	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	if err := database.Migrate(ctx, db); err != nil {
		return err
	}

	// 3. Optional Redis, blob store
	rdb, err := redis.Open(ctx, cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	store, err := storage.NewS3Store(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to init blob store: %w", err)
	}

	var (
		publisher  queue.Publisher
		statsCache service.StatsCache
	)
	if rdb != nil {
		defer rdb.Close()
		publisher = queue.NewPublisher(rdb.Client)
		statsCache = cache.NewStatsCache(rdb.Client)

		manager := worker.NewManager(queue.NewConsumer(rdb.Client), worker.NewHandler(store), worker.DefaultManagerConfig())
		if err := manager.Start(ctx); err != nil {
			return fmt.Errorf("failed to start media workers: %w", err)
		}
		defer manager.Stop()
	}

	// 4. Repositories and services
	users := repository.NewUserRepository(db)
	creds := repository.NewCredentialRepository(db)
	videos := repository.NewVideoRepository(db)
	comments := repository.NewCommentRepository(db)
	tweets := repository.NewTweetRepository(db)

	cleaner := service.NewMediaCleaner(store, publisher)
	authService := service.NewAuthService(creds, users, cfg)
	userService := service.NewUserService(users, creds, store, cleaner)
	videoService := service.NewVideoService(videos, users, store, cleaner, statsCache)

	router := NewRouter(RouterConfig{
		AuthHandler:    handler.NewAuthHandler(userService, authService, cfg),
		UserHandler:    handler.NewUserHandler(userService),
		VideoHandler:   handler.NewVideoHandler(videoService),
		CommentHandler: handler.NewCommentHandler(service.NewCommentService(comments, videos)),
		TweetHandler:   handler.NewTweetHandler(service.NewTweetService(tweets, users)),
		SocialHandler: handler.NewSocialHandler(
			service.NewSubscriptionService(repository.NewSubscriptionRepository(db), users, statsCache),
			service.NewLikeService(repository.NewLikeRepository(db), videos, comments, tweets, statsCache),
		),
		PlaylistHandler: handler.NewPlaylistHandler(service.NewPlaylistService(repository.NewPlaylistRepository(db), videos, users)),
		DashboardHandler: handler.NewDashboardHandler(
			service.NewDashboardService(repository.NewDashboardRepository(db), statsCache),
			videoService,
		),

		Authenticator:  authService,
		AuthLimiter:    authmw.NewIPRateLimiter(cfg.AuthRateLimit, time.Minute, cfg.AuthRateLimit, 10*time.Minute),
		Logger:         logger,
		RequestTimeout: cfg.RequestTimeout,
	})

	// 5. Serve until signalled
	srv := &stdhttp.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", srv.Addr).Info("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
