package image

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/dawnlab-io/dreamweave/internal/domain"
)

const imageModel = oai.ImageModelDallE3

type OpenAIClient struct {
	client oai.Client
}

func NewOpenAIClient(apiKey string) *OpenAIClient {
	return &OpenAIClient{client: oai.NewClient(option.WithAPIKey(apiKey))}
}

func (c *OpenAIClient) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Images.Generate(ctx, oai.ImageGenerateParams{
		Model:   imageModel,
		Prompt:  prompt,
		Size:    oai.ImageGenerateParamsSize1024x1024,
		Quality: oai.ImageGenerateParamsQualityStandard,
		N:       oai.Int(1),
	})
	if err != nil {
		return "", &domain.ImageSynthesisError{Kind: classify(err), Err: err}
	}

	if len(resp.Data) == 0 || resp.Data[0].URL == "" {
		return "", &domain.ImageSynthesisError{
			Kind: domain.KindUnknown,
			Err:  fmt.Errorf("image API returned no URL"),
		}
	}
	return resp.Data[0].URL, nil
}

// classify maps a provider failure onto a typed kind using the structured
// error, never the message text. A policy rejection is an expected outcome,
// not a system fault.
func classify(err error) domain.ErrorKind {
	var apiErr *oai.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case 400:
			if apiErr.Code == "content_policy_violation" || apiErr.Type == "image_generation_user_error" {
				return domain.KindPolicyFiltered
			}
			return domain.KindUnknown
		case 401, 403:
			return domain.KindAuthInvalid
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
