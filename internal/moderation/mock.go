package moderation

import (
	"context"

	"github.com/dawnlab-io/dreamweave/internal/domain"
)

// MockClient is a configurable moderation client for testing. The default
// passes everything.
type MockClient struct {
	Result domain.ModerationResult
	Err    error

	// Call tracking for assertions
	CheckCalls []string
}

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (c *MockClient) Check(ctx context.Context, text string) (domain.ModerationResult, error) {
	c.CheckCalls = append(c.CheckCalls, text)
	if c.Err != nil {
		return domain.ModerationResult{}, c.Err
	}
	return c.Result, nil
}
