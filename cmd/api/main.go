package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/vidcast-dev/vidcast/internal/api/handler"
	"github.com/vidcast-dev/vidcast/internal/api/middleware"
	"github.com/vidcast-dev/vidcast/internal/config"
	"github.com/vidcast-dev/vidcast/internal/infrastructure/broadcast"
	"github.com/vidcast-dev/vidcast/internal/infrastructure/cache"
	"github.com/vidcast-dev/vidcast/internal/infrastructure/chat"
	"github.com/vidcast-dev/vidcast/internal/infrastructure/postgres"
	"github.com/vidcast-dev/vidcast/internal/infrastructure/queue"
	"github.com/vidcast-dev/vidcast/internal/infrastructure/storage"
	"github.com/vidcast-dev/vidcast/internal/token"
	"github.com/vidcast-dev/vidcast/internal/usecase"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Initialize infrastructure clients
	pgClient, err := postgres.NewClient(ctx, postgres.DefaultClientConfig(cfg.Database.DSN()))
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	defer pgClient.Close()
	logger.Info("connected to PostgreSQL")

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	logger.Info("connected to Redis")

	storageClient, err := storage.NewClient(ctx, storage.ClientConfig{
		Endpoint:  cfg.MinIO.Endpoint,
		AccessKey: cfg.MinIO.AccessKey,
		SecretKey: cfg.MinIO.SecretKey,
		Bucket:    cfg.MinIO.Bucket,
		UseSSL:    cfg.MinIO.UseSSL,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to MinIO: %w", err)
	}
	logger.Info("connected to MinIO")

	queueClient, err := queue.NewClient(ctx, queue.DefaultClientConfig(cfg.RabbitMQ.URL()))
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	defer queueClient.Close()
	logger.Info("connected to RabbitMQ")

	// Token signers
	sessionSigner, err := token.NewSigner(cfg.Auth.SessionSecret)
	if err != nil {
		return fmt.Errorf("session signer: %w", err)
	}
	playbackSigner, err := token.NewSigner(cfg.Playback.Secret)
	if err != nil {
		return fmt.Errorf("playback signer: %w", err)
	}
	chatSigner, err := token.NewSigner(cfg.Chat.Secret)
	if err != nil {
		return fmt.Errorf("chat signer: %w", err)
	}

	chatClient := chat.NewClient(chat.ClientConfig{
		BaseURL: cfg.Chat.BaseURL,
		APIKey:  cfg.Chat.APIKey,
		Timeout: cfg.Chat.Timeout,
	}, chatSigner)

	eventBus := broadcast.NewRedisEventBus(redisClient)

	// Repositories
	db := pgClient.Pool()
	videoRepo := postgres.NewVideoRepository(db)
	userRepo := postgres.NewUserRepository(db)
	accessRepo := postgres.NewAccessRepository(db)
	streamRepo := postgres.NewStreamRepository(db)
	commentRepo := postgres.NewCommentRepository(db)
	reactionRepo := postgres.NewReactionRepository(db)
	subscriptionRepo := postgres.NewSubscriptionRepository(db)
	blockRepo := postgres.NewBlockRepository(db)
	playlistRepo := postgres.NewPlaylistRepository(db)

	// Services
	videoSvc := usecase.NewCachedVideoService(
		usecase.NewVideoService(videoRepo, accessRepo, storageClient, queueClient, usecase.DefaultVideoServiceConfig()),
		cache.NewRedisVideoCache(redisClient),
		usecase.CachedVideoServiceConfig{
			CacheTTL:   cfg.Cache.VideoTTL,
			CDNBaseURL: cfg.Cache.CDNBaseURL,
		},
	)
	userSvc := usecase.NewUserService(userRepo)
	streamSvc := usecase.NewStreamService(streamRepo, accessRepo, chatClient, eventBus, playbackSigner, usecase.StreamServiceConfig{
		PublicTokenTTL: cfg.Playback.PublicTTL,
		ViewerTokenTTL: cfg.Playback.ViewerTTL,
		ChatTokenTTL:   usecase.DefaultStreamServiceConfig().ChatTokenTTL,
	})
	commentSvc := usecase.NewCommentService(commentRepo, videoRepo)
	reactionSvc := usecase.NewReactionService(reactionRepo, videoRepo, commentRepo)
	subscriptionSvc := usecase.NewSubscriptionService(subscriptionRepo, userRepo)
	blockSvc := usecase.NewBlockService(blockRepo, userRepo, streamRepo, chatClient, eventBus)
	playlistSvc := usecase.NewPlaylistService(playlistRepo, videoRepo)

	health := handler.NewHealthHandler(map[string]handler.HealthCheck{
		"postgres": pgClient.Ping,
		"redis": func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		},
		"storage": storageClient.Ping,
	})

	r := setupRouter(routerDeps{
		logger:    logger,
		health:    health,
		auth:      middleware.NewAuthenticator(sessionSigner, userSvc),
		videos:    handler.NewVideoHandler(videoSvc),
		users:     handler.NewUserHandler(userSvc),
		streams:   handler.NewStreamHandler(streamSvc, eventBus),
		comments:  handler.NewCommentHandler(commentSvc),
		reactions: handler.NewReactionHandler(reactionSvc),
		relations: handler.NewRelationHandler(subscriptionSvc, blockSvc),
		playlists: handler.NewPlaylistHandler(playlistSvc),
		webhooks: handler.NewWebhookHandler(streamSvc, userSvc, handler.WebhookConfig{
			MediaSecret:    cfg.Webhook.MediaSecret,
			IdentitySecret: cfg.Webhook.IdentitySecret,
			Tolerance:      cfg.Webhook.Tolerance,
		}),
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("server error: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("shutting down server", slog.String("signal", sig.String()))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

type routerDeps struct {
	logger    *slog.Logger
	health    *handler.HealthHandler
	auth      *middleware.Authenticator
	videos    *handler.VideoHandler
	users     *handler.UserHandler
	streams   *handler.StreamHandler
	comments  *handler.CommentHandler
	reactions *handler.ReactionHandler
	relations *handler.RelationHandler
	playlists *handler.PlaylistHandler
	webhooks  *handler.WebhookHandler
}

func setupRouter(deps routerDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(deps.logger))
	r.Use(middleware.Recoverer(deps.logger))

	r.Get("/health", deps.health.Live)
	r.Get("/health/ready", deps.health.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		// Webhooks authenticate with their own signature scheme.
		r.Post("/webhooks/media", deps.webhooks.Media)
		r.Post("/webhooks/identity", deps.webhooks.Identity)

		// Read surface: anonymous viewers allowed.
		r.Group(func(r chi.Router) {
			r.Use(deps.auth.Optional)

			r.Get("/videos", deps.videos.List)
			r.Get("/videos/trending", deps.videos.ListTrending)
			r.Get("/videos/{id}", deps.videos.Get)
			r.Get("/videos/{id}/suggestions", deps.videos.ListSuggestions)
			r.Get("/videos/{id}/comments", deps.comments.List)
			r.Get("/videos/{id}/comments/count", deps.comments.Count)

			r.Get("/streams", deps.streams.List)
			r.Get("/streams/{id}/events", deps.streams.Events)
			r.Post("/streams/{id}/playback-token", deps.streams.IssuePlaybackToken)
			r.Post("/streams/{id}/chat-token", deps.streams.IssueChatToken)

			r.Get("/users/{id}", deps.users.Get)
			r.Get("/users/{id}/stream", deps.streams.Watch)

			r.Get("/playlists/{id}/videos", deps.playlists.ListVideos)
			r.Get("/playlists/{id}/videos/{videoID}", deps.playlists.ContainsVideo)
		})

		// Write surface: a signed-in viewer is required.
		r.Group(func(r chi.Router) {
			r.Use(deps.auth.Required)

			r.Post("/videos", deps.videos.Create)
			r.Post("/videos/{id}/process", deps.videos.TriggerProcess)
			r.Patch("/videos/{id}", deps.videos.Update)
			r.Delete("/videos/{id}", deps.videos.Delete)
			r.Post("/videos/{id}/views", deps.videos.RecordView)
			r.Post("/videos/{id}/comments", deps.comments.Create)
			r.Put("/videos/{id}/reaction", deps.reactions.ToggleVideo)

			r.Delete("/comments/{id}", deps.comments.Delete)
			r.Put("/comments/{id}/reaction", deps.reactions.ToggleComment)

			r.Post("/streams", deps.streams.Create)
			r.Patch("/streams/{id}", deps.streams.Update)
			r.Put("/streams/{id}/mute", deps.streams.ToggleMute)

			r.Put("/users/{id}/subscription", deps.relations.Subscribe)
			r.Delete("/users/{id}/subscription", deps.relations.Unsubscribe)
			r.Put("/users/{id}/block", deps.relations.Block)
			r.Delete("/users/{id}/block", deps.relations.Unblock)
			r.Get("/users/{id}/block", deps.relations.IsBlockedBy)

			r.Post("/playlists", deps.playlists.Create)
			r.Delete("/playlists/{id}", deps.playlists.Delete)
			r.Put("/playlists/{id}/videos/{videoID}", deps.playlists.AddVideo)
			r.Delete("/playlists/{id}/videos/{videoID}", deps.playlists.RemoveVideo)

			r.Get("/me", deps.users.GetMe)
			r.Get("/me/stream", deps.streams.GetOwn)
			r.Delete("/me/stream", deps.streams.Delete)
			r.Get("/me/videos/liked", deps.videos.ListLiked)
			r.Get("/me/videos/history", deps.videos.ListHistory)
			r.Get("/me/subscriptions", deps.relations.ListSubscriptions)
			r.Get("/me/blocks", deps.relations.ListBlocked)
			r.Get("/me/playlists", deps.playlists.List)
		})
	})

	return r
}
