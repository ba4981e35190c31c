package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/saturnino-fabrica-de-software/emotiondash/internal/api"
	"github.com/saturnino-fabrica-de-software/emotiondash/internal/api/middleware"
	"github.com/saturnino-fabrica-de-software/emotiondash/internal/audit"
	"github.com/saturnino-fabrica-de-software/emotiondash/internal/chart"
	"github.com/saturnino-fabrica-de-software/emotiondash/internal/config"
	"github.com/saturnino-fabrica-de-software/emotiondash/internal/database"
	"github.com/saturnino-fabrica-de-software/emotiondash/internal/face"
	"github.com/saturnino-fabrica-de-software/emotiondash/internal/repository"
	"github.com/saturnino-fabrica-de-software/emotiondash/internal/service"
	"github.com/saturnino-fabrica-de-software/emotiondash/internal/web"
	"github.com/saturnino-fabrica-de-software/emotiondash/internal/ws"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := config.NewLogger(cfg)
	slog.SetDefault(logger)

	logger.Info("starting emotion dashboard",
		slog.String("environment", cfg.Environment),
		slog.Int("port", cfg.Port),
		slog.String("store", cfg.StoreDriver),
		slog.String("provider", cfg.EmotionProvider),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := newStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	// fail fast when the log cannot be created
	if err := store.EnsureInitialized(ctx); err != nil {
		return fmt.Errorf("failed to initialize emotion log: %w", err)
	}

	auditLogger := audit.NewSlogLogger(logger)

	emotionProvider, err := face.NewEmotionProvider(ctx, cfg, auditLogger)
	if err != nil {
		return fmt.Errorf("failed to create emotion provider: %w", err)
	}

	hub := ws.NewHub(logger)
	chartOptions := chart.DefaultOptions()
	chartOptions.Title = cfg.ChartTitle
	chartOptions.Height = cfg.ChartHeight

	svc := service.NewEmotionService(store, emotionProvider, logger).
		WithPublisher(hub).
		WithAuditLogger(auditLogger).
		WithChartOptions(chartOptions)

	rateLimit := middleware.DefaultRateLimiterConfig()
	rateLimit.Max = cfg.RateLimitMax
	rateLimit.Window = cfg.RateLimitWindow

	router := api.NewRouter(logger, &api.Dependencies{
		Service:  svc,
		Renderer: web.MustNewRenderer(),
		Hub:      hub,
	}, api.Options{
		BodyLimit: cfg.BodyLimit(),
		RateLimit: rateLimit,
	})
	router.Setup()

	errChan := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		logger.Info("server listening", slog.String("addr", addr))
		if err := router.Listen(addr); err != nil {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	}

	shutdownDone := make(chan error, 1)
	go func() { shutdownDone <- router.Shutdown() }()

	logger.Info("shutting down server...")
	select {
	case err := <-shutdownDone:
		if err != nil {
			logger.Error("shutdown error", slog.Any("error", err))
		}
	case <-time.After(10 * time.Second):
		logger.Warn("shutdown timed out")
	}

	logger.Info("server stopped")
	return nil
}

// newStore builds the configured emotion log and a func releasing its resources
func newStore(ctx context.Context, cfg *config.Config) (repository.EmotionLogRepository, func(), error) {
	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		pool, err := database.NewPool(ctx, database.DefaultPoolConfig(cfg.DatabaseURL))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		return repository.NewPGEmotionLog(pool), pool.Close, nil
	default:
		return repository.NewCSVEmotionLog(cfg.EmotionLogPath), func() {}, nil
	}
}
