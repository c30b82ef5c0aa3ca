package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/redis/go-redis/v9"

	"github.com/terra-clan/prep-tracker/internal/api"
	"github.com/terra-clan/prep-tracker/internal/config"
	"github.com/terra-clan/prep-tracker/internal/health"
	"github.com/terra-clan/prep-tracker/internal/ratelimit"
	"github.com/terra-clan/prep-tracker/internal/seed"
	"github.com/terra-clan/prep-tracker/internal/storage"
	"github.com/terra-clan/prep-tracker/internal/tracker"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel(),
	}))
	slog.SetDefault(logger)

	slog.Info("starting prep-tracker",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"store", cfg.Database.Driver,
	)

	// Create context for initialization
	initCtx, initCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer initCancel()

	checks := health.NewRegistry(2 * time.Second)

	repo, err := openStore(initCtx, cfg.Database)
	if err != nil {
		slog.Error("failed to open record store", "error", err)
		os.Exit(1)
	}
	defer repo.Close()
	checks.Register("database", health.CheckerFunc(repo.Ping))

	// Redis is optional unless it backs the rate limiter
	var redisClient *redis.Client
	if cfg.Redis.Address != "" {
		redisClient, err = ratelimit.NewRedisClient(initCtx, cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			slog.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer redisClient.Close()
		checks.Register("redis", health.CheckerFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}))
		slog.Info("redis connected", "address", cfg.Redis.Address)
	}

	slog.Info("health checks registered", "checks", checks.List())

	svc := tracker.New(repo)

	if cfg.Seed.File != "" {
		f, err := seed.Load(cfg.Seed.File)
		if err != nil {
			slog.Error("failed to load seed", "file", cfg.Seed.File, "error", err)
			os.Exit(1)
		}
		if _, err := f.Apply(initCtx, svc); err != nil {
			slog.Error("failed to apply seed", "file", cfg.Seed.File, "error", err)
			os.Exit(1)
		}
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	opts := []api.Option{api.WithCORSOrigins(cfg.Origins())}
	if cfg.RateLimit.Enabled {
		limiter, err := newLimiter(ctx, cfg, redisClient)
		if err != nil {
			slog.Error("failed to create rate limiter", "error", err)
			os.Exit(1)
		}
		opts = append(opts, api.WithRateLimit(limiter, cfg.RateLimit.Window, cfg.IsDevelopment()))
		slog.Info("rate limiting enabled",
			"backend", cfg.RateLimit.Backend,
			"max", cfg.RateLimit.Max,
			"window", cfg.RateLimit.Window,
		)
	}

	// Setup HTTP server
	server := api.NewServer(cfg.Server, svc, checks, opts...)
	httpServer := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      server.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		slog.Info("HTTP server starting", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down gracefully...")

	// Cancel context to stop background workers
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("prep-tracker stopped")
}

// openStore connects the configured record store, running migrations for
// postgres
func openStore(ctx context.Context, cfg config.DatabaseConfig) (storage.Repository, error) {
	if cfg.Driver == config.DriverMemory {
		slog.Warn("using in-memory store, records are lost on restart")
		return storage.NewMemoryRepository(), nil
	}

	repo, err := storage.NewPostgresRepository(ctx, storage.PostgresConfig{
		DSN:          cfg.DSN,
		MaxOpenConns: int32(cfg.MaxOpenConns),
		MaxIdleConns: int32(cfg.MaxIdleConns),
		MaxLifetime:  cfg.MaxConnLifetime,
	})
	if err != nil {
		return nil, err
	}
	slog.Info("database connected successfully")

	migrations, err := storage.Migrations(cfg.MigrationsDir)
	if err != nil {
		repo.Close()
		return nil, err
	}

	slog.Info("running database migrations", "dir", cfg.MigrationsDir)
	if err := storage.RunMigrations(ctx, repo.Pool(), migrations); err != nil {
		repo.Close()
		return nil, err
	}

	return repo, nil
}

func newLimiter(ctx context.Context, cfg *config.Config, client *redis.Client) (ratelimit.Limiter, error) {
	policy := ratelimit.Policy{Max: cfg.RateLimit.Max, Window: cfg.RateLimit.Window}

	if cfg.RateLimit.Backend == config.BackendRedis {
		return ratelimit.NewRedisLimiter(client, policy)
	}

	limiter, err := ratelimit.NewMemoryLimiter(policy)
	if err != nil {
		return nil, err
	}
	limiter.StartSweeper(ctx, time.Minute)
	return limiter, nil
}
