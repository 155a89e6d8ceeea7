package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"golang.org/x/sync/errgroup"

	httpapi "github.com/i474232898/weather-lookup/internal/api/http"
	"github.com/i474232898/weather-lookup/internal/config"
	"github.com/i474232898/weather-lookup/internal/history"
	"github.com/i474232898/weather-lookup/internal/logging"
	"github.com/i474232898/weather-lookup/internal/query"
	"github.com/i474232898/weather-lookup/internal/scheduler"
	"github.com/i474232898/weather-lookup/internal/store"
	"github.com/i474232898/weather-lookup/internal/theme"
	"github.com/i474232898/weather-lookup/internal/weather/providers"
)

func main() {
	logging.Init(os.Stderr, os.Getenv("LOG_LEVEL"))

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("failed to load config", "error", err)
	}
	logging.Init(os.Stderr, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// History storage backend.
	kv, err := store.Open(ctx, store.Options{
		Backend:    cfg.StoreBackend,
		SQLitePath: cfg.SQLitePath,
		RedisURL:   cfg.RedisURL,
	})
	if err != nil {
		logging.Fatal("failed to open store", "backend", cfg.StoreBackend, "error", err)
	}
	defer kv.Close()

	ledger := history.New(kv)
	ledger.Load(ctx)

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	provider := providers.NewWeatherAPIProvider(httpClient, cfg.WeatherAPIKey, providers.WeatherAPISettings{
		BaseURL:       cfg.WeatherAPIBaseURL,
		Days:          cfg.ForecastDays,
		MaxRetries:    cfg.ProviderMaxRetries,
		RatePerSecond: cfg.ProviderRatePerSecond,
	})

	controller := query.New(provider, ledger, query.WithTimeout(cfg.QueryTimeout))

	themeSignal := theme.NewSignal(cfg.ThemeDark)
	bridge := theme.NewBridge(themeSignal, nil)
	bridge.Start()
	defer bridge.Close()

	// Scheduler that periodically refreshes the most recent query.
	sched := scheduler.New(controller, cfg.RefreshInterval, cfg.QueryTimeout)
	if err := sched.Start(); err != nil {
		logging.Fatal("failed to start scheduler", "error", err)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "weather-lookup",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          cfg.QueryTimeout + 10*time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weather-lookup",
		})
	})

	httpapi.RegisterRoutes(app, httpapi.Deps{
		Queries: controller,
		Theme:   themeSignal,
		Style:   bridge,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logging.Info("http server listening", "port", cfg.Port, "store", cfg.StoreBackend)
		return app.Listen(":" + cfg.Port)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return app.ShutdownWithContext(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logging.Error("server stopped", "error", err)
	}
	logging.Info("shutdown complete")
}
