package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/foodgram/backend/config"
	"github.com/foodgram/backend/internal/api"
	"github.com/foodgram/backend/internal/database"
	"github.com/foodgram/backend/internal/logger"
	"github.com/foodgram/backend/internal/middleware"
	"github.com/foodgram/backend/internal/router"
	"github.com/foodgram/backend/internal/server"
	"github.com/foodgram/backend/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	zlog, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	gin.SetMode(cfg.Server.Mode)

	db, err := database.New(&cfg.Database)
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		zlog.Fatal("failed to migrate schema", zap.Error(err))
	}

	authService := service.NewAuthService(db, cfg.JWT.Secret, cfg.JWT.ExpireDuration())
	recipeService := service.NewRecipeService(db)
	relationService := service.NewRelationService(db)
	subscriptionService := service.NewSubscriptionService(db)

	recipeHandler := api.NewRecipeHandler(recipeService, relationService, authService)
	if cfg.Redis.Enabled {
		redisClient, err := database.NewRedisClient(&cfg.Redis)
		if err != nil {
			zlog.Fatal("failed to connect to redis", zap.Error(err))
		}
		limiter := middleware.NewRecipeCreationRateLimiter(redisClient)
		recipeHandler = recipeHandler.WithCreationLimit(limiter.Middleware())
		zlog.Info("recipe creation rate limiting enabled")
	}

	engine := router.SetupRouter(
		api.NewAuthHandler(authService),
		api.NewUserHandler(db, subscriptionService, authService),
		api.NewTagHandler(db, authService),
		api.NewIngredientHandler(db, authService),
		recipeHandler,
	)

	srv := server.New(engine, cfg.Server.Host, cfg.Server.Port, zlog)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			zlog.Fatal("server error", zap.Error(err))
		}
	case sig := <-quit:
		zlog.Info("received signal", zap.String("signal", sig.String()))
	}

	zlog.Info("shutting down server")
	if err := srv.Shutdown(context.Background()); err != nil {
		zlog.Fatal("server shutdown error", zap.Error(err))
	}
	zlog.Info("server stopped")
}
