package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dawnlab-io/dreamweave/internal/api"
	"github.com/dawnlab-io/dreamweave/internal/config"
	"github.com/dawnlab-io/dreamweave/internal/embedding"
	"github.com/dawnlab-io/dreamweave/internal/index"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := config.Load(); err != nil {
		panic(err)
	}

	logger := newLogger(config.LogLevel())
	defer func() { _ = logger.Sync() }()

	if config.OpenAIAPIKey() == "" && usesOpenAI() {
		logger.Fatal("OPENAI_API_KEY is required when any provider is openai")
	}

	ctx := context.Background()

	embedder, err := embedding.NewClient(config.EmbeddingProvider(), config.OpenAIAPIKey())
	if err != nil {
		logger.Fatal("failed to initialize embedding client", zap.Error(err))
	}

	var store index.PassageStore
	switch backend := config.IndexBackend(); backend {
	case "postgres":
		dbURL := config.DatabaseURL()
		if dbURL == "" {
			logger.Fatal("DATABASE_URL is required for the postgres index backend")
		}
		pool, err := pgxpool.New(ctx, dbURL)
		if err != nil {
			logger.Fatal("failed to connect to database", zap.Error(err))
		}
		defer pool.Close()
		if err := pool.Ping(ctx); err != nil {
			logger.Fatal("failed to ping database", zap.Error(err))
		}
		logger.Info("connected to database")
		store = index.NewPostgresStore(pool)
	case "disk":
		store = index.NewDiskStore(config.IndexDir())
	default:
		logger.Fatal("unknown index backend", zap.String("backend", backend))
	}

	// The knowledge index is a startup dependency: a missing or corrupt
	// bundle is fatal, never silently rebuilt.
	idx, err := index.Load(ctx, store, config.IndexName(), embedder, logger)
	if err != nil {
		logger.Fatal("failed to load knowledge index", zap.Error(err))
	}
	logger.Info("knowledge index loaded",
		zap.String("name", config.IndexName()),
		zap.Int("passages", idx.Count()))

	app, err := api.NewApp(idx, logger)
	if err != nil {
		logger.Fatal("failed to initialize app", zap.Error(err))
	}

	addr := config.ServerAddr()
	srv := &http.Server{
		Addr:    addr,
		Handler: app.Router,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}

func newLogger(level string) *zap.Logger {
	cfg := zap.NewProductionConfig()
	if lvl, err := zapcore.ParseLevel(level); err == nil {
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}
	logger, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return logger
}

func usesOpenAI() bool {
	providers := []string{
		config.LLMProvider(),
		config.EmbeddingProvider(),
		config.STTProvider(),
		config.ModerationProvider(),
		config.ImageProvider(),
	}
	for _, p := range providers {
		if p == "openai" {
			return true
		}
	}
	return false
}
