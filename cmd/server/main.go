package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/neexbeast/trekinfo/internal/api"
	"github.com/neexbeast/trekinfo/internal/cache"
	"github.com/neexbeast/trekinfo/internal/config"
	"github.com/neexbeast/trekinfo/internal/metrics"
	"github.com/neexbeast/trekinfo/internal/storage"
	"github.com/neexbeast/trekinfo/internal/weather"
	"github.com/neexbeast/trekinfo/migrations"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	if err := run(log); err != nil {
		log.Error("server exited with error", "err", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx := context.Background()

	// Connect to PostgreSQL.
	pool, err := storage.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer pool.Close()

	// Run migrations.
	if err := storage.RunMigrations(ctx, pool, migrations.FS); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	log.Info("migrations applied")

	// Weather cache: Redis when configured, in-process otherwise.
	var (
		store       weather.Store
		redisPinger interface{ Ping(context.Context) error }
	)
	if cfg.RedisURL != "" {
		redisClient, err := cache.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		defer func() { _ = redisClient.Close() }()
		store = cache.NewRedisStore(redisClient)
		redisPinger = cache.Pinger{Client: redisClient}
	} else {
		log.Warn("REDIS_URL not set, using in-process weather cache")
		store = cache.NewMemoryStore()
		redisPinger = cache.NopPinger{}
	}

	var provider weather.Provider
	if cfg.OpenWeatherAPIKey != "" {
		provider = weather.NewOpenWeatherClient(cfg.OpenWeatherAPIKey, cfg.WeatherFetchTimeout)
	} else {
		log.Warn("OPENWEATHER_API_KEY not set, weather will use fallback values")
	}

	// Wire dependencies.
	m := metrics.New()
	engine := weather.NewEngine(store, provider, weather.Config{
		CacheDuration: cfg.WeatherCacheTTL,
		FetchTimeout:  cfg.WeatherFetchTimeout,
	}, log, m)
	repo := storage.NewRepository(pool)
	handlers := api.NewHandlers(repo, engine, cfg.ChatPageSize, log)

	router := api.NewRouter(handlers, api.RouterConfig{
		Token:              cfg.BearerToken,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		Metrics:            m,
	}, pool, redisPinger, log)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Error("server goroutine panicked", "recover", r)
				errCh <- fmt.Errorf("server panicked: %v", r)
			}
		}()
		log.Info("server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("listening: %w", err)
		}
	}()

	select {
	case sig := <-quit:
		log.Info("shutdown signal received", "signal", sig)
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	log.Info("server shut down cleanly")
	return nil
}
