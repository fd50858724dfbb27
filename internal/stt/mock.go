package stt

import "context"

// MockClient is a configurable transcription client for testing.
type MockClient struct {
	TranscribeResponse string
	TranscribeErr      error

	// Call tracking for assertions
	TranscribeCalls []string
}

func NewMockClient() *MockClient {
	return &MockClient{TranscribeResponse: "mock transcript"}
}

func (c *MockClient) Transcribe(ctx context.Context, audio []byte, formatHint string) (string, error) {
	c.TranscribeCalls = append(c.TranscribeCalls, formatHint)
	if c.TranscribeErr != nil {
		return "", c.TranscribeErr
	}
	return c.TranscribeResponse, nil
}
