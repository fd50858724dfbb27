package index

import (
	"context"
	"errors"
	"fmt"

	"github.com/dawnlab-io/dreamweave/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Build failures are configuration errors the operator must fix before the
// service can run.
var (
	ErrNoDocuments = errors.New("no input documents found")
	ErrNoPassages  = errors.New("chunking produced no passages")
)

const defaultEmbedBatchSize = 64

// Builder turns source documents into an embedded, persisted knowledge
// index. Used by the offline indexer command only; the service never
// writes to the index.
type Builder struct {
	embedder domain.EmbeddingClient
	store    PassageStore
	logger   *zap.Logger

	ChunkSize    int
	ChunkOverlap int
	BatchSize    int
}

func NewBuilder(embedder domain.EmbeddingClient, store PassageStore, logger *zap.Logger) *Builder {
	return &Builder{
		embedder:     embedder,
		store:        store,
		logger:       logger,
		ChunkSize:    DefaultChunkSize,
		ChunkOverlap: DefaultChunkOverlap,
		BatchSize:    defaultEmbedBatchSize,
	}
}

// Build chunks, embeds and persists the documents under the given index
// name. Returns the number of passages written.
func (b *Builder) Build(ctx context.Context, name string, docs []domain.Document) (int, error) {
	if len(docs) == 0 {
		return 0, fmt.Errorf("build index %q: %w", name, ErrNoDocuments)
	}

	var passages []domain.ReferencePassage
	for _, doc := range docs {
		chunks := Split(doc.Text, b.ChunkSize, b.ChunkOverlap)
		for i, chunk := range chunks {
			passages = append(passages, domain.ReferencePassage{
				ID:         uuid.New(),
				DocumentID: doc.ID,
				Seq:        i,
				Text:       chunk,
			})
		}
	}
	if len(passages) == 0 {
		return 0, fmt.Errorf("build index %q: %w", name, ErrNoPassages)
	}

	b.logger.Info("chunked documents",
		zap.Int("documents", len(docs)),
		zap.Int("passages", len(passages)))

	batch := b.BatchSize
	if batch <= 0 {
		batch = defaultEmbedBatchSize
	}
	for start := 0; start < len(passages); start += batch {
		end := start + batch
		if end > len(passages) {
			end = len(passages)
		}
		texts := make([]string, 0, end-start)
		for _, p := range passages[start:end] {
			texts = append(texts, p.Text)
		}
		vectors, err := b.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return 0, fmt.Errorf("embed passages %d-%d: %w", start, end, err)
		}
		for i := range vectors {
			passages[start+i].Embedding = vectors[i]
		}
	}

	if err := b.store.Save(ctx, name, passages); err != nil {
		return 0, fmt.Errorf("persist index %q: %w", name, err)
	}

	b.logger.Info("index built", zap.String("name", name), zap.Int("passages", len(passages)))
	return len(passages), nil
}
