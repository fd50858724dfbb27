package embedding

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
)

const mockDimensions = 16

// MockClient produces deterministic pseudo-embeddings derived from word
// hashes. Texts sharing words get similar vectors, which is enough for
// retrieval ordering in tests and offline development.
type MockClient struct {
	EmbedErr error

	// Call tracking for assertions
	EmbedCalls      []string
	EmbedBatchCalls [][]string
}

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (c *MockClient) Embed(ctx context.Context, text string) ([]float32, error) {
	c.EmbedCalls = append(c.EmbedCalls, text)
	if c.EmbedErr != nil {
		return nil, c.EmbedErr
	}
	return mockVector(text), nil
}

func (c *MockClient) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	c.EmbedBatchCalls = append(c.EmbedBatchCalls, texts)
	if c.EmbedErr != nil {
		return nil, c.EmbedErr
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = mockVector(t)
	}
	return out, nil
}

func mockVector(text string) []float32 {
	vec := make([]float64, mockDimensions)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		_, _ = h.Write([]byte(word))
		vec[h.Sum32()%mockDimensions] += 1.0
	}

	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	norm = math.Sqrt(norm)
	out := make([]float32, mockDimensions)
	if norm == 0 {
		return out
	}
	for i, v := range vec {
		out[i] = float32(v / norm)
	}
	return out
}
