// Package index implements the semantic knowledge index: offline chunking
// and embedding of reference documents, durable storage of the resulting
// passages, and similarity retrieval over the loaded index.
package index

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/dawnlab-io/dreamweave/internal/domain"
	"go.uber.org/zap"
)

// DefaultIndexName is the fixed bundle name consumed at service startup.
const DefaultIndexName = "dream-knowledge-index"

// DefaultTopK is the retrieval depth used when callers pass k <= 0.
const DefaultTopK = 4

// LoadError means the persisted index is missing or unreadable. It is fatal
// at service startup.
type LoadError struct {
	Name string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load index %q: %v", e.Name, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Index is an in-memory snapshot of a built knowledge index. It is
// immutable after Load and safe for concurrent retrieval.
type Index struct {
	name     string
	passages []domain.ReferencePassage
	embedder domain.EmbeddingClient
	logger   *zap.Logger
}

// Load deserializes a previously built index from the store. A missing or
// corrupt bundle yields a *LoadError.
func Load(ctx context.Context, store PassageStore, name string, embedder domain.EmbeddingClient, logger *zap.Logger) (*Index, error) {
	passages, err := store.Load(ctx, name)
	if err != nil {
		return nil, &LoadError{Name: name, Err: err}
	}
	logger.Info("knowledge index loaded", zap.String("name", name), zap.Int("passages", len(passages)))
	return &Index{name: name, passages: passages, embedder: embedder, logger: logger}, nil
}

// NewIndex wraps pre-built passages directly, bypassing storage. Intended
// for tests.
func NewIndex(name string, passages []domain.ReferencePassage, embedder domain.EmbeddingClient, logger *zap.Logger) *Index {
	return &Index{name: name, passages: passages, embedder: embedder, logger: logger}
}

func (ix *Index) Name() string { return ix.name }

func (ix *Index) Count() int { return len(ix.passages) }

// Retrieve returns the k passages most similar to the query, ordered by
// descending cosine similarity. An empty index yields an empty result, not
// an error: grounding degrades, it does not crash.
func (ix *Index) Retrieve(ctx context.Context, query string, k int) ([]domain.ReferencePassage, error) {
	if len(ix.passages) == 0 {
		return nil, nil
	}
	if k <= 0 {
		k = DefaultTopK
	}

	queryVec, err := ix.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	type scored struct {
		passage    domain.ReferencePassage
		similarity float64
	}
	results := make([]scored, 0, len(ix.passages))
	for _, p := range ix.passages {
		results = append(results, scored{passage: p, similarity: cosineSimilarity(queryVec, p.Embedding)})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].similarity > results[j].similarity
	})

	if k > len(results) {
		k = len(results)
	}
	out := make([]domain.ReferencePassage, 0, k)
	for _, r := range results[:k] {
		out = append(out, r.passage)
	}
	return out, nil
}

func cosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
