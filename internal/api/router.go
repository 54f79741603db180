package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sathvik89/task-manager-api/internal/api/handler"
	"github.com/sathvik89/task-manager-api/internal/api/middleware"
	"github.com/sathvik89/task-manager-api/internal/core/service"
	"github.com/sathvik89/task-manager-api/internal/infrastructure/config"
	mongodb "github.com/sathvik89/task-manager-api/internal/infrastructure/db/mongo"
	redisdb "github.com/sathvik89/task-manager-api/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.CORS())
	e.Use(echoprometheus.NewMiddleware("taskapi"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	taskRepo := mongodb.NewTaskRepository(db)
	statsCache := redisdb.NewStatsCache(rdb, cfg.StatsCacheTTL)

	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.AdminEmail, 24*time.Hour, log)
	taskService := service.NewTaskService(taskRepo, statsCache, log)

	authHandler := handler.NewAuthHandler(authService, log)
	taskHandler := handler.NewTaskHandler(taskService)

	authRequired := middleware.Auth(cfg.JWTSecret)
	adminOnly := middleware.AdminOnly()

	// --- Auth routes ---
	auth := e.Group("/api/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.PUT("/profile", authHandler.UpdateProfile, authRequired)
	auth.PUT("/password", authHandler.UpdatePassword, authRequired)
	auth.GET("/users", authHandler.ListUsers, authRequired, adminOnly)
	auth.PUT("/users/:id/admin", authHandler.SetAdmin, authRequired, adminOnly)

	// --- Task routes (all authenticated) ---
	tasks := e.Group("/api/tasks", authRequired)
	tasks.GET("", taskHandler.List)
	tasks.POST("", taskHandler.Create)
	tasks.GET("/stats", taskHandler.Stats)
	tasks.GET("/trash", taskHandler.ListTrash)
	tasks.GET("/:id", taskHandler.Get)
	tasks.PUT("/:id", taskHandler.Update)
	tasks.DELETE("/:id", taskHandler.SoftDelete)
	tasks.PUT("/:id/restore", taskHandler.Restore)
	tasks.DELETE("/:id/permanent", taskHandler.DeletePermanently)

	// --- Health probes, metrics, docs (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
