package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/b0ase/portal-backend/internal/auth"
	"github.com/b0ase/portal-backend/internal/clients"
	"github.com/b0ase/portal-backend/internal/config"
	"github.com/b0ase/portal-backend/internal/middleware"
	"github.com/b0ase/portal-backend/internal/notifications"
	"github.com/b0ase/portal-backend/internal/requests"
	"github.com/b0ase/portal-backend/pkg/storage"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	// Load environment and configuration
	_ = godotenv.Load()

	cfg, err := config.LoadConfig("config.json")
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}
	if cfg.Auth.JWTSecret == "" {
		logger.Fatal("JWT_SECRET is required; admin endpoints cannot be left open")
	}

	// Connect to database
	db, err := sqlx.Connect("postgres", cfg.Database.GetDatabaseURL())
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Share the connection with gorm for the email outbox table
	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to open gorm connection", zap.Error(err))
	}
	if err := notifications.AutoMigrate(gormDB); err != nil {
		logger.Fatal("Failed to migrate outbox table", zap.Error(err))
	}

	// Redis (rate limiting); the limiter fails open without it
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 2*time.Second)
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		logger.Warn("Redis unavailable, rate limiting disabled", zap.Error(err))
		rdb = nil
	}
	pingCancel()

	// Object storage for logo uploads
	var store storage.ObjectStore
	awsCfg, awsErr := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.AWS.Region))
	if awsErr != nil || cfg.AWS.LogoBucket == "" {
		logger.Warn("S3 not configured, using in-memory object store")
		store = storage.NewMemoryStore()
	} else {
		store = storage.NewS3Store(s3.NewFromConfig(awsCfg), cfg.AWS.LogoBucket, cfg.AWS.Region, cfg.AWS.PublicBaseURL)
	}

	// Initialize modules
	requestsRepo := requests.NewPostgresRepository(db)
	requestsService := requests.NewService(requestsRepo, logger)
	requestsHandler := requests.NewHandler(requestsService, store, logger)

	clientsRepo := clients.NewPostgresRepository(db)
	clientsHandler := clients.NewHandler(clientsRepo, logger)

	// Setup router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.RequestLogger(logger))

	api := router.Group("/api/v1")

	public := api.Group("")
	public.Use(middleware.RateLimit(rdb, "intake", 10, time.Minute))
	requestsHandler.RegisterPublicRoutes(public)

	admin := api.Group("/admin")
	admin.Use(auth.RequireAdmin(cfg.Auth.JWTSecret))
	requestsHandler.RegisterAdminRoutes(admin)
	clientsHandler.RegisterRoutes(admin)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
		})
	})

	// Start server
	srv := &http.Server{
		Addr:         cfg.Server.GetServerAddr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", zap.Error(err))
		}
	}()

	logger.Info("Server started", zap.String("addr", srv.Addr))

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exiting")
}
