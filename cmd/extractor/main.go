// Command extractor serves POST /extract-text: a multipart "file" in, its
// plain text out as {"text": ...} or {"error": ...}.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"qbank/internal/config"
	"qbank/internal/docparse"
	"qbank/internal/handler"
	"qbank/internal/logger"
	"qbank/internal/server"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	parser := docparse.New(docparse.Limits{
		MaxPages:    cfg.Extractor.MaxPages,
		MaxFileSize: cfg.Extractor.MaxFileSize,
	})
	app := server.NewExtractor(server.Options{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		BodyLimit:    cfg.Server.BodyLimit,
	}, handler.NewExtractHandler(parser))

	go func() {
		appLogger.Info("Starting extraction service",
			zap.Int("port", cfg.Extractor.Port),
			zap.Strings("formats", docparse.SupportedExtensions),
		)
		if err := app.Listen(fmt.Sprintf(":%d", cfg.Extractor.Port)); err != nil {
			appLogger.Fatal("Failed to start extraction service", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Error("Extraction service forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Extraction service stopped")
}
