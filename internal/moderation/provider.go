package moderation

import (
	"fmt"

	"github.com/dawnlab-io/dreamweave/internal/domain"
)

// Provider constants
const (
	ProviderOpenAI = "openai"
	ProviderMock   = "mock"
)

// NewClient creates a moderation client based on the provider name.
func NewClient(provider, apiKey string) (domain.ModerationClient, error) {
	switch provider {
	case ProviderOpenAI:
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required for OpenAI moderation provider")
		}
		return NewOpenAIClient(apiKey), nil

	case ProviderMock:
		return NewMockClient(), nil

	default:
		return nil, fmt.Errorf("unknown moderation provider: %s (valid options: openai, mock)", provider)
	}
}
