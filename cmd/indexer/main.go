package main

import (
	"context"
	"flag"

	"github.com/dawnlab-io/dreamweave/internal/config"
	"github.com/dawnlab-io/dreamweave/internal/embedding"
	"github.com/dawnlab-io/dreamweave/internal/index"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// The indexer rebuilds the knowledge index bundle from the reference
// documents. It is run offline whenever the corpus changes; the server only
// ever reads the finished bundle.
func main() {
	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()

	if err := config.Load(); err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	dataDir := flag.String("data", config.DataDir(), "directory containing reference documents (.md, .txt)")
	indexName := flag.String("name", config.IndexName(), "index bundle name")
	indexDir := flag.String("out", config.IndexDir(), "parent directory for disk index bundles")
	backend := flag.String("backend", config.IndexBackend(), "index backend: disk or postgres")
	flag.Parse()

	ctx := context.Background()

	embedder, err := embedding.NewClient(config.EmbeddingProvider(), config.OpenAIAPIKey())
	if err != nil {
		logger.Fatal("failed to initialize embedding client", zap.Error(err))
	}

	var store index.PassageStore
	switch *backend {
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
		pg := index.NewPostgresStore(pool)
		if err := pg.EnsureSchema(ctx); err != nil {
			logger.Fatal("failed to ensure index schema", zap.Error(err))
		}
		store = pg
	case "disk":
		store = index.NewDiskStore(*indexDir)
	default:
		logger.Fatal("unknown index backend", zap.String("backend", *backend))
	}

	docs, err := index.LoadDocuments(*dataDir)
	if err != nil {
		logger.Fatal("failed to load reference documents", zap.Error(err))
	}
	logger.Info("loaded reference documents",
		zap.String("dir", *dataDir),
		zap.Int("documents", len(docs)))

	builder := index.NewBuilder(embedder, store, logger)
	count, err := builder.Build(ctx, *indexName, docs)
	if err != nil {
		logger.Fatal("failed to build index", zap.Error(err))
	}

	logger.Info("index built",
		zap.String("name", *indexName),
		zap.Int("passages", count))
}
