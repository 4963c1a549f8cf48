package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"financeqa/internal/adapter/httpapi"
	"financeqa/internal/di"
	"financeqa/internal/infra/config"
	"financeqa/internal/infra/logger"
)

func main() {
	// 1. Load environment (.env is optional outside development)
	_ = godotenv.Load()

	// 2. Load and validate config
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// 3. Initialize logger
	log := logger.NewWithOTel(cfg.OTelEnabled)
	slog.SetDefault(log)

	// 4. Wire components
	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	components, err := di.NewApplicationComponents(startupCtx, cfg, log)
	cancelStartup()
	if err != nil {
		log.Error("failed to wire application", "error", err)
		os.Exit(1)
	}
	if components.Pool != nil {
		defer components.Pool.Close()
	}

	// 5. Initialize Echo
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Info("request_completed",
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency))
			return nil
		},
	}))

	// 6. Register handlers
	handler := httpapi.NewHandler(
		components.AnswerUsecase,
		time.Duration(cfg.RequestTimeout)*time.Second,
		log,
	)
	httpapi.Register(e, handler, cfg.APIKey)

	// 7. Start server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Port)
		log.Info("starting server", "addr", addr, "search_backend", cfg.Search.Backend, "generation_backend", cfg.Generation.Backend)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			e.Logger.Fatal("shutting down the server")
		}
	}()

	// 8. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		e.Logger.Fatal(err)
	}
}
