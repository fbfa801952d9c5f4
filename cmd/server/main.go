package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"homework-desk/internal/adapters/http/middleware"
	"homework-desk/internal/adapters/http/routes"
	"homework-desk/internal/adapters/persistence/models"
	"homework-desk/internal/config"
	"homework-desk/internal/core/services"
	"homework-desk/internal/pkg/logger"
	"homework-desk/internal/pkg/observability"

	"github.com/gofiber/fiber/v2"

	_ "homework-desk/docs" // Swagger docs
)

// @title Homework Desk API
// @version 1.0
// @description Homework ordering, payment verification and owner chat API

// @contact.name API Support

// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("❌ Failed to load configuration")
	}

	if cfg.IsProd() {
		logger.SetJSON()
	}
	logger.SetLevel(cfg.LogLevel)

	flushSentry, err := observability.InitSentry(cfg.SentryDSN, cfg.AppMode, cfg.Version)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("⚠️ Sentry disabled")
	}
	defer flushSentry()

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("❌ Failed to connect to database")
	}
	defer config.CloseDatabase()

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		logger.Log.Fatal().Err(err).Msg("❌ Failed to auto migrate")
	}
	logger.Log.Info().Msg("✅ Database migration completed")

	svc := routes.NewServices(db, cfg)

	seedCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	err = config.NewSeeder(svc.Store, cfg.OwnerInitialPin).Run(seedCtx)
	cancel()
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("❌ Failed to seed database")
	}

	// Scheduled balance resync and pending gauge
	jobs, err := services.NewJobService(svc.Settings, svc.Store.Transactions, cfg.Jobs.BalanceResync, cfg.Jobs.PendingMetrics)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("❌ Invalid job schedule")
	}
	jobs.Start()
	defer jobs.Stop()

	// Create Fiber app. Attachments arrive base64 encoded in JSON.
	app := fiber.New(fiber.Config{
		AppName:      "Homework Desk API " + cfg.Version,
		ErrorHandler: middleware.CustomErrorHandler,
		BodyLimit:    cfg.Chat.MaxFileBytes*2 + 64*1024,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes
	routes.Setup(app, db, cfg, svc)

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	logger.Log.Info().Str("port", cfg.Port).Str("mode", cfg.AppMode).Msg("🚀 Server starting")
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.Log.Error().Err(err).Msg("❌ Server stopped with error")
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info().Msg("🛑 Shutting down server...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Log.Error().Err(err).Msg("❌ Error during shutdown")
	}
	logger.Log.Info().Msg("✅ Server stopped gracefully")
}
