package image

import "context"

// MockClient is a configurable image client for testing.
type MockClient struct {
	URL string
	Err error

	// Call tracking for assertions
	GenerateCalls []string
}

func NewMockClient() *MockClient {
	return &MockClient{URL: "https://images.example/mock.png"}
}

func (c *MockClient) Generate(ctx context.Context, prompt string) (string, error) {
	c.GenerateCalls = append(c.GenerateCalls, prompt)
	if c.Err != nil {
		return "", c.Err
	}
	return c.URL, nil
}
