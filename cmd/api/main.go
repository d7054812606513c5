// @title Q-Bank API
// @version 1.0
// @description Chat with an uploaded document and harvest the exam questions the model generates from it.
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:8090
// @BasePath /api
// @schemes http https
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "qbank/cmd/api/docs"
	"qbank/internal/app"
	"qbank/internal/config"
	"qbank/internal/export"
	"qbank/internal/handler"
	"qbank/internal/logger"
	"qbank/internal/server"
	"qbank/internal/validation"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	components, err := app.Build(context.Background(), cfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	manager := app.NewManager(cfg, components.Deps)
	defer manager.Close()
	appLogger.Info("Session manager initialized",
		zap.Duration("ttl", cfg.Session.TTL),
		zap.String("locale", cfg.Session.Locale),
	)

	// Initialize handlers
	v := validation.NewValidator()
	handlers := server.Handlers{
		Sessions: handler.NewSessionHandler(manager, v, export.JSONRenderer{}, cfg.LLM.Timeout+10*time.Second),
		Health:   handler.NewHealthHandler(manager, components.Cache),
	}

	fiberApp := server.New(server.Options{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		BodyLimit:    cfg.Server.BodyLimit,
		Swagger:      true,
	}, handlers, v)

	// Start server
	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Logger.Env))
		if err := fiberApp.Listen(cfg.Address()); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := fiberApp.ShutdownWithContext(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
