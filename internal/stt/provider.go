package stt

import (
	"fmt"

	"github.com/dawnlab-io/dreamweave/internal/domain"
)

// Provider constants
const (
	ProviderOpenAI = "openai"
	ProviderMock   = "mock"
)

// NewClient creates a transcription client based on the provider name.
// language is the recognition language code (e.g. "ko").
func NewClient(provider, apiKey, language string) (domain.TranscriptionClient, error) {
	switch provider {
	case ProviderOpenAI:
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required for OpenAI transcription provider")
		}
		return NewOpenAIClient(apiKey, language), nil

	case ProviderMock:
		return NewMockClient(), nil

	default:
		return nil, fmt.Errorf("unknown transcription provider: %s (valid options: openai, mock)", provider)
	}
}
