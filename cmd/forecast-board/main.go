package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"code.cloudfoundry.org/clock"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/i474232898/forecast-board/internal/api/http"
	"github.com/i474232898/forecast-board/internal/config"
	"github.com/i474232898/forecast-board/internal/live"
	"github.com/i474232898/forecast-board/internal/logger"
	"github.com/i474232898/forecast-board/internal/scheduler"
	"github.com/i474232898/forecast-board/internal/store"
	"github.com/i474232898/forecast-board/internal/views"
	"github.com/i474232898/forecast-board/internal/weather"
	"github.com/i474232898/forecast-board/internal/weather/providers"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	lg := logger.Get(cfg.LogLevel)
	defer lg.Sync()

	if err := views.LoadTemplates(); err != nil {
		lg.Fatalw("failed to load templates", "error", err)
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// Providers with resilience (backoff + circuit breaker).
	var provs []weather.Provider
	if cfg.OpenWeatherAPIKey != "" {
		provs = append(provs, providers.NewOpenWeatherProvider(httpClient, cfg.OpenWeatherAPIKey))
	}
	if cfg.WeatherAPIKey != "" {
		provs = append(provs, providers.NewWeatherAPIProvider(httpClient, cfg.WeatherAPIKey))
	}
	// Open-Meteo does not require an API key, but geocoding requires a Google API key.
	if cfg.GeocoderAPIKey != "" {
		provs = append(provs, providers.NewOpenMeteoProvider(httpClient, providers.NewGoogleGeocoder(cfg.GeocoderAPIKey)))
	}
	if !cfg.HasProvider() {
		lg.Warn("no provider API keys configured; every forecast request will fail")
	}

	wallClock := clock.NewClock()

	// In-memory cache with configured retention.
	memStore := store.NewMemoryStoreWithClock(cfg.CacheMaxEntries, cfg.CacheMaxAge, wallClock)

	service := weather.NewService(memStore, provs,
		weather.WithClock(wallClock),
		weather.WithLogger(lg),
		weather.WithDefaultDays(cfg.DefaultDays),
	)

	// Scheduler that keeps forecasts for popular locations warm.
	sched := scheduler.New(cfg.WarmLocations, cfg.RefreshInterval, service, lg)
	if err := sched.Start(); err != nil {
		lg.Fatalw("failed to start scheduler", "error", err)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "forecast-board",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          20 * time.Second,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	// Global middleware
	app.Use(fiberlogger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "forecast-board",
		})
	})

	httpapi.RegisterRoutes(app, service, httpapi.Options{
		LiveURL: cfg.LiveURL,
	})

	// Live range updates are served on their own listener.
	liveServer := live.NewServer(service, wallClock, cfg.DebounceWindow, lg)
	liveHTTP := &http.Server{
		Addr:              ":" + cfg.LivePort,
		Handler:           liveServer.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		lg.Infow("live server listening", "port", cfg.LivePort)
		if err := liveHTTP.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Errorw("live server stopped", "error", err)
		}
	}()

	go func() {
		lg.Infow("http server listening", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			lg.Errorw("fiber server stopped", "error", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	liveServer.CloseAll()
	if err := liveHTTP.Shutdown(shutdownCtx); err != nil {
		lg.Errorw("error during live server shutdown", "error", err)
	}
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		lg.Errorw("error during shutdown", "error", err)
	}
}
