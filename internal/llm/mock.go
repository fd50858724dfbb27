package llm

import (
	"context"
	"encoding/json"

	"github.com/dawnlab-io/dreamweave/internal/domain"
)

// MockClient is a configurable generation client for testing.
// Set the response fields to control what each method returns.
type MockClient struct {
	CompleteResponse   string
	CompleteErr        error
	StructuredResponse json.RawMessage
	StructuredErr      error

	// Call tracking for assertions
	CompleteCalls   []domain.CompletionRequest
	StructuredCalls []domain.StructuredRequest
}

func NewMockClient() *MockClient {
	return &MockClient{
		CompleteResponse:   "mock completion",
		StructuredResponse: json.RawMessage(`{}`),
	}
}

func (c *MockClient) Complete(ctx context.Context, req domain.CompletionRequest) (string, error) {
	c.CompleteCalls = append(c.CompleteCalls, req)
	if c.CompleteErr != nil {
		return "", c.CompleteErr
	}
	return c.CompleteResponse, nil
}

func (c *MockClient) CompleteStructured(ctx context.Context, req domain.StructuredRequest) (json.RawMessage, error) {
	c.StructuredCalls = append(c.StructuredCalls, req)
	if c.StructuredErr != nil {
		return nil, c.StructuredErr
	}
	return c.StructuredResponse, nil
}
