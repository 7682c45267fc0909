package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/workspace-service/internal/api/http"
	"github.com/spec-kit/workspace-service/internal/api/http/handlers"
	"github.com/spec-kit/workspace-service/internal/auth"
	"github.com/spec-kit/workspace-service/internal/config"
	"github.com/spec-kit/workspace-service/internal/events"
	"github.com/spec-kit/workspace-service/internal/observability"
	"github.com/spec-kit/workspace-service/internal/persistence"
	"github.com/spec-kit/workspace-service/internal/query"
	"github.com/spec-kit/workspace-service/internal/ratelimit"
	"github.com/spec-kit/workspace-service/internal/repository"
	"github.com/spec-kit/workspace-service/internal/service"
	"github.com/spec-kit/workspace-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	var (
		userRepo     repository.UserRepository
		taskRepo     repository.TaskRepository
		projectRepo  repository.ProjectRepository
		categoryRepo repository.CategoryRepository
		pageRepo     repository.PageRepository
	)
	if pool := pg.PoolHandle(); pool != nil {
		userRepo = repository.NewUserRepository(pool)
		taskRepo = repository.NewTaskRepository(pool)
		projectRepo = repository.NewProjectRepository(pool)
		categoryRepo = repository.NewCategoryRepository(pool)
		pageRepo = repository.NewPageRepository(pool)
	} else {
		userRepo = repository.NewMemoryUserRepository()
		taskRepo = repository.NewMemoryTaskRepository()
		projectRepo = repository.NewMemoryProjectRepository()
		categoryRepo = repository.NewMemoryCategoryRepository()
		pageRepo = repository.NewMemoryPageRepository()
	}

	dispatcher := events.NewInMemoryDispatcher()
	resultCache := query.NewResultCache(cfg.Cache.TTL())
	limiter := ratelimit.NewSlidingWindow(cfg.RateLimit.MaxRequests, cfg.RateLimit.Window())
	metrics := observability.NewMetrics()

	authService := service.NewAuthService(*cfg, userRepo, dispatcher)
	taskService := service.NewTaskService(taskRepo, resultCache, dispatcher)
	projectService := service.NewProjectService(projectRepo, resultCache, dispatcher)
	categoryService := service.NewCategoryService(categoryRepo, resultCache)
	pageService := service.NewPageService(pageRepo, resultCache, dispatcher)

	notificationService := service.NewNotificationService(logger, dispatcher)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, limiter, cfg)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg),
		Auth:           handlers.NewAuthHandler(authService, cfg.App.IsProduction()),
		Tasks:          handlers.NewTasksHandler(taskService),
		Projects:       handlers.NewProjectsHandler(projectService),
		Categories:     handlers.NewCategoriesHandler(categoryService),
		Pages:          handlers.NewPagesHandler(pageService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
