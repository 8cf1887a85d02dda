package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/satriahrh/narrator/adapters"
	"github.com/satriahrh/narrator/internal/api"
	"github.com/satriahrh/narrator/internal/config"
	"github.com/satriahrh/narrator/internal/logger"
	"github.com/satriahrh/narrator/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	zl, err := logger.New(logger.Options{
		Development: cfg.Development(),
		File:        cfg.LogFile,
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zl.Sync()

	// Clients are created once and reused by every invocation
	collaborators, err := adapters.Build(context.Background(), cfg, zl)
	if err != nil {
		zl.Fatal("Failed to initialize collaborators", zap.Error(err))
	}
	defer collaborators.Close()

	speechService := usecase.NewSpeechService(
		collaborators.Synthesizer,
		collaborators.Store,
		zl,
		usecase.WithEngine(cfg.PollyEngine),
		usecase.WithDefaultVoice(collaborators.DefaultVoice),
	)
	handler := api.NewHandler(speechService, zl)

	if cfg.Lambda {
		zl.Info("Starting Lambda handler", zap.Bool("storage", speechService.StorageEnabled()))
		lambda.Start(handler.HandleLambda)
		return
	}

	serve(cfg, handler, collaborators, zl)
}

func serve(cfg *config.Config, handler *api.Handler, collaborators *adapters.Collaborators, zl *zap.Logger) {
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			zl.Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency))
			return nil
		},
	}))
	e.Use(middleware.Recover())

	var resolver api.AudioResolver
	if collaborators.Files != nil {
		resolver = collaborators.Files
	}
	api.InitRoutes(e, handler, resolver, zl)

	// Graceful shutdown
	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			zl.Fatal("shutting down the server", zap.Error(err))
		}
	}()

	zl.Info("Server started", zap.String("port", cfg.Port))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	zl.Info("Server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		zl.Fatal("Server forced to shutdown", zap.Error(err))
	}

	zl.Info("Server exited")
}
