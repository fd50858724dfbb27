package stt

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/dawnlab-io/dreamweave/internal/domain"
)

const transcriptionModel = oai.AudioModelWhisper1

type OpenAIClient struct {
	client   oai.Client
	language string
}

func NewOpenAIClient(apiKey, language string) *OpenAIClient {
	return &OpenAIClient{
		client:   oai.NewClient(option.WithAPIKey(apiKey)),
		language: language,
	}
}

// Transcribe writes the audio to a scratch file for the duration of one
// provider call and removes it on every path. The format hint (original
// file name or extension) picks the scratch file suffix so the provider can
// detect the encoding.
func (c *OpenAIClient) Transcribe(ctx context.Context, audio []byte, formatHint string) (string, error) {
	ext := strings.ToLower(filepath.Ext(formatHint))
	if ext == "" {
		ext = ".wav"
	}

	f, err := os.CreateTemp("", "dreamweave-audio-*"+ext)
	if err != nil {
		return "", &domain.TranscriptionError{Kind: domain.KindUnknown, Err: fmt.Errorf("create scratch file: %w", err)}
	}
	defer func() {
		_ = f.Close()
		_ = os.Remove(f.Name())
	}()

	if _, err := f.Write(audio); err != nil {
		return "", &domain.TranscriptionError{Kind: domain.KindUnknown, Err: fmt.Errorf("write scratch file: %w", err)}
	}
	if _, err := f.Seek(0, 0); err != nil {
		return "", &domain.TranscriptionError{Kind: domain.KindUnknown, Err: fmt.Errorf("rewind scratch file: %w", err)}
	}

	params := oai.AudioTranscriptionNewParams{
		Model: transcriptionModel,
		File:  f,
	}
	if c.language != "" {
		params.Language = oai.String(c.language)
	}

	resp, err := c.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return "", &domain.TranscriptionError{Kind: classify(err), Err: err}
	}
	return resp.Text, nil
}

// classify maps a provider failure onto a typed kind using the structured
// error, never the message text.
func classify(err error) domain.ErrorKind {
	var apiErr *oai.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case 401, 403:
			return domain.KindAuthInvalid
		case 404:
			return domain.KindNotFound
		case 429:
			return domain.KindRateLimited
		}
		if apiErr.StatusCode >= 500 {
			return domain.KindConnectionFailed
		}
		return domain.KindUnknown
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return domain.KindConnectionFailed
	}
	return domain.KindUnknown
}
