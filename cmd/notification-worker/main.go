package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/b0ase/portal-backend/internal/config"
	"github.com/b0ase/portal-backend/internal/notifications"
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

	// Connect to database
	db, err := gorm.Open(gormpostgres.Open(cfg.Database.GetDatabaseURL()), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := notifications.AutoMigrate(db); err != nil {
		logger.Fatal("Failed to migrate outbox table", zap.Error(err))
	}

	// Email sender: SES when configured, log-only otherwise
	var sender notifications.Sender
	awsCfg, awsErr := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.AWS.Region))
	if awsErr != nil || cfg.AWS.SenderEmail == "" {
		logger.Warn("SES not configured, emails will be logged only")
		sender = notifications.NewLogSender(logger)
	} else {
		sender = notifications.NewSESSender(sesv2.NewFromConfig(awsCfg), cfg.AWS.SenderEmail, cfg.AWS.SenderName)
	}

	worker := notifications.NewWorker(db, sender, logger, notifications.WorkerConfig{
		PollInterval:  cfg.Worker.PollInterval,
		BatchSize:     cfg.Worker.BatchSize,
		MaxConcurrent: cfg.Worker.MaxConcurrent,
		MaxAttempts:   cfg.Worker.MaxAttempts,
	})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		cancel()
	}()

	if err := worker.Start(ctx); err != nil {
		logger.Fatal("Worker failed", zap.Error(err))
	}
}
