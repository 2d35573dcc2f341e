package http

import (
	"context"
	"fmt"
	"log"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Fibuc/litrevu/internal/config"
	"github.com/Fibuc/litrevu/internal/database"
	"github.com/Fibuc/litrevu/internal/handler"
	"github.com/Fibuc/litrevu/internal/queue"
	appredis "github.com/Fibuc/litrevu/internal/redis"
	"github.com/Fibuc/litrevu/internal/repository"
	"github.com/Fibuc/litrevu/internal/service"
	"github.com/Fibuc/litrevu/internal/worker"
)

// Run wires the whole service together and blocks until shutdown:
// config, Postgres, Redis, repositories, services, the HTTP router and
// the background resize workers.
func Run() error {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	redisClient, err := appredis.NewClient(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("failed to create redis client: %w", err)
	}
	defer redisClient.Close()

	if err := redisClient.Ping(ctx); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	followRepo := repository.NewFollowRepository(db)
	ticketRepo := repository.NewTicketRepository(db)
	reviewRepo := repository.NewReviewRepository(db)

	// Queue plumbing for the image-resize hook
	publisher := queue.NewPublisher(redisClient.Client)
	consumer := queue.NewConsumer(redisClient.Client)

	// Media storage. Optional: without R2 credentials the service still runs,
	// it just rejects image uploads and skips resize workers.
	var mediaService *service.MediaService
	mediaService, err = service.NewMediaService(ctx, cfg)
	if err != nil {
		log.Printf("[Server] Media storage disabled: %v", err)
		mediaService = nil
	}

	// Services
	authService := service.NewAuthService(cfg)
	userService := service.NewUserService(userRepo, followRepo)
	followService := service.NewFollowService(followRepo, userRepo)
	feedService := service.NewFeedService(userRepo, followRepo, ticketRepo, reviewRepo)
	reviewService := service.NewReviewService(reviewRepo, ticketRepo, userRepo)

	var storage service.ObjectRemover
	if mediaService != nil {
		storage = mediaService
	}
	ticketService := service.NewTicketService(ticketRepo, userRepo, publisher, storage)

	// Handlers
	routerCfg := RouterConfig{
		AuthHandler:   handler.NewAuthHandler(userService, authService, cfg),
		UserHandler:   handler.NewUserHandler(userService),
		FollowHandler: handler.NewFollowHandler(followService),
		FeedHandler:   handler.NewFeedHandler(feedService),
		TicketHandler: handler.NewTicketHandler(ticketService, reviewService),
		ReviewHandler: handler.NewReviewHandler(reviewService),
		MediaHandler:  handler.NewMediaHandler(mediaService),
		JWTSecret:     cfg.JWTSecret,
	}
	router := NewRouter(routerCfg)

	// Background resize workers
	var manager *worker.Manager
	if mediaService != nil {
		workerCfg := worker.DefaultManagerConfig()
		workerCfg.WorkerCount = cfg.ResizeWorkerCount
		manager = worker.NewManager(consumer, worker.NewHandler(mediaService), workerCfg)
		if err := manager.Start(ctx); err != nil {
			return fmt.Errorf("failed to start workers: %w", err)
		}
	}

	server := &stdhttp.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[Server] Listening on :%s", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-stop:
		log.Printf("[Server] Received %v, shutting down", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("[Server] HTTP shutdown error: %v", err)
	}

	if manager != nil {
		manager.Stop()
	}

	log.Printf("[Server] Shutdown complete")
	return nil
}
