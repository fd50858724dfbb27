package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/responses"

	"github.com/dawnlab-io/dreamweave/internal/domain"
)

const generationModel = oai.ChatModelGPT4o

type OpenAIClient struct {
	client oai.Client
}

func NewOpenAIClient(apiKey string) *OpenAIClient {
	return &OpenAIClient{client: oai.NewClient(option.WithAPIKey(apiKey))}
}

func (c *OpenAIClient) Complete(ctx context.Context, req domain.CompletionRequest) (string, error) {
	params := responses.ResponseNewParams{
		Model:        generationModel,
		Instructions: oai.String(req.Instructions),
		Temperature:  oai.Float(req.Temperature),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: param.NewOpt(req.Input),
		},
	}

	resp, err := c.client.Responses.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("generation request failed: %w", err)
	}

	out := strings.TrimSpace(resp.OutputText())
	if out == "" {
		return "", fmt.Errorf("generation API returned no output")
	}
	return out, nil
}

func (c *OpenAIClient) CompleteStructured(ctx context.Context, req domain.StructuredRequest) (json.RawMessage, error) {
	format := responses.ResponseFormatTextConfigUnionParam{
		OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
			Name:   req.SchemaName,
			Schema: req.Schema,
			Strict: oai.Bool(true),
			Type:   "json_schema",
		},
	}

	params := responses.ResponseNewParams{
		Model:        generationModel,
		Instructions: oai.String(req.Instructions),
		Temperature:  oai.Float(req.Temperature),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: param.NewOpt(req.Input),
		},
		Text: responses.ResponseTextConfigParam{
			Format: format,
		},
	}

	resp, err := c.client.Responses.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("structured generation request failed: %w", err)
	}

	out := strings.TrimSpace(resp.OutputText())
	if out == "" {
		return nil, fmt.Errorf("structured generation API returned no output")
	}
	return json.RawMessage(out), nil
}
