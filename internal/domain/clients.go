package domain

import (
	"context"
	"encoding/json"
)

// EmbeddingClient maps text to dense vectors. The same model must be used
// at index-build time and query time so both live in one vector space.
type EmbeddingClient interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// CompletionRequest is an unconstrained generation call.
type CompletionRequest struct {
	Instructions string
	Input        string
	Temperature  float64
}

// StructuredRequest is a generation call whose output must conform to the
// given JSON schema. The provider enforces the schema; the caller still
// validates the parsed value.
type StructuredRequest struct {
	Instructions string
	Input        string
	Temperature  float64
	SchemaName   string
	Schema       map[string]any
}

// GenerationClient wraps the text-generation provider.
type GenerationClient interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
	CompleteStructured(ctx context.Context, req StructuredRequest) (json.RawMessage, error)
}

// TranscriptionClient turns audio bytes into text. The format hint is the
// original file name or extension, used by the provider to detect encoding.
// Failures are *TranscriptionError values.
type TranscriptionClient interface {
	Transcribe(ctx context.Context, audio []byte, formatHint string) (string, error)
}

// ModerationResult is the outcome of one content-safety check. Raw carries
// the provider payload for diagnostics and is never interpreted here.
type ModerationResult struct {
	Flagged    bool            `json:"flagged"`
	Categories []string        `json:"categories,omitempty"`
	Raw        json.RawMessage `json:"-"`
}

// ModerationClient checks text against the provider's content policy.
type ModerationClient interface {
	Check(ctx context.Context, text string) (ModerationResult, error)
}

// ImageClient synthesizes an image from a prompt and returns its URL.
// Failures are *ImageSynthesisError values; a success never returns an
// empty URL.
type ImageClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
