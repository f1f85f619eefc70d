package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"placemate/internal/caching"
	"placemate/internal/handlers"
	"placemate/internal/jobs"
	"placemate/internal/middleware"
	"placemate/internal/repositories"
	"placemate/internal/seed"
	"placemate/internal/services"
	"placemate/pkg/database"
	"placemate/pkg/logging"
)

func main() {
	logging.Setup()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		slog.Error("DATABASE_URL environment variable is required")
		os.Exit(1)
	}
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := database.NewPool(ctx, databaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	redisAddr := envOr("REDIS_ADDR", "localhost:6379")
	redisDB := 0
	if raw := os.Getenv("REDIS_DB"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			redisDB = parsed
		}
	}
	cacheSvc := caching.NewRedisCacheService(redisAddr, os.Getenv("REDIS_PASSWORD"), redisDB)

	storageSvc, err := services.NewStorageService(
		envOr("MINIO_ENDPOINT", "localhost:9000"),
		envOr("MINIO_ACCESS_KEY", "minioadmin"),
		envOr("MINIO_SECRET_KEY", "minioadmin"),
		envOr("MINIO_BUCKET", "placemate-photos"),
		os.Getenv("MINIO_USE_SSL") == "true",
	)
	if err != nil {
		slog.Error("failed to initialize object storage", "error", err)
		os.Exit(1)
	}
	if err := storageSvc.EnsureBucket(ctx); err != nil {
		slog.Error("failed to ensure photo bucket", "error", err)
		os.Exit(1)
	}

	groupSvc := services.NewGroupService(pool)
	authSvc := services.NewAuthService(repositories.NewUserRepo(pool), groupSvc, jwtSecret)
	placeSvc := services.NewPlaceService(pool, groupSvc, storageSvc, cacheSvc)
	categorySvc := services.NewCategoryService(pool, groupSvc, cacheSvc)
	commentSvc := services.NewCommentService(pool, placeSvc)
	photoSvc := services.NewPhotoService(pool, placeSvc, storageSvc)

	if os.Getenv("SEED_DEMO") == "true" {
		if err := seed.NewSeeder(pool, authSvc, placeSvc, groupSvc).Run(ctx); err != nil {
			slog.Error("demo seed failed", "error", err)
			os.Exit(1)
		}
	}

	scheduler, err := jobs.NewScheduler(repositories.NewInviteRepo(pool))
	if err != nil {
		slog.Error("failed to create scheduler", "error", err)
		os.Exit(1)
	}
	scheduler.Start()
	defer func() {
		if err := scheduler.Stop(); err != nil {
			slog.Warn("scheduler shutdown failed", "error", err)
		}
	}()

	authHandlers := handlers.NewAuthHandlers(authSvc)
	groupHandlers := handlers.NewGroupHandlers(groupSvc)
	placeHandlers := handlers.NewPlaceHandlers(placeSvc)
	categoryHandlers := handlers.NewCategoryHandlers(categorySvc)
	commentHandlers := handlers.NewCommentHandlers(commentSvc)
	photoHandlers := handlers.NewPhotoHandlers(photoSvc)
	healthHandlers := handlers.NewHealthHandlers(pool)

	e := echo.New()
	e.HideBanner = true

	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())
	e.Use(middleware.Metrics())

	e.GET("/health", healthHandlers.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := e.Group("/v1")

	auth := v1.Group("/auth")
	auth.POST("/register", authHandlers.Register)
	auth.POST("/login", authHandlers.Login)

	protected := v1.Group("")
	protected.Use(middleware.JWTMiddleware(jwtSecret))

	protected.GET("/auth/me", authHandlers.Me)

	protected.GET("/groups", groupHandlers.ListGroups)
	protected.POST("/groups", groupHandlers.CreateGroup)
	protected.POST("/groups/join", groupHandlers.JoinGroup)
	protected.POST("/groups/:groupId/invites", groupHandlers.CreateInvite)

	protected.GET("/categories", categoryHandlers.ListCategories)
	protected.POST("/categories", categoryHandlers.CreateCategory)

	protected.GET("/places", placeHandlers.ListPlaces)
	protected.GET("/places/nearby", placeHandlers.NearbyPlaces)
	protected.POST("/places", placeHandlers.CreatePlace)
	protected.GET("/places/:placeId", placeHandlers.GetPlace)
	protected.PATCH("/places/:placeId", placeHandlers.UpdatePlace)
	protected.DELETE("/places/:placeId", placeHandlers.DeletePlace)
	protected.PUT("/places/:placeId/status", placeHandlers.UpdateStatus)

	protected.GET("/places/:placeId/comments", commentHandlers.ListComments)
	protected.POST("/places/:placeId/comments", commentHandlers.AddComment)

	protected.GET("/places/:placeId/photos", photoHandlers.ListPhotos)
	protected.POST("/places/:placeId/photos", photoHandlers.UploadPhoto)
	protected.DELETE("/photos/:photoId", photoHandlers.DeletePhoto)

	port := envOr("PORT", "8080")
	go func() {
		if err := e.Start(":" + port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server stopped", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
