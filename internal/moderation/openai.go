package moderation

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"

	"github.com/dawnlab-io/dreamweave/internal/domain"
)

type OpenAIClient struct {
	client oai.Client
}

func NewOpenAIClient(apiKey string) *OpenAIClient {
	return &OpenAIClient{client: oai.NewClient(option.WithAPIKey(apiKey))}
}

func (c *OpenAIClient) Check(ctx context.Context, text string) (domain.ModerationResult, error) {
	resp, err := c.client.Moderations.New(ctx, oai.ModerationNewParams{
		Input: oai.ModerationNewParamsInputUnion{
			OfString: param.NewOpt(text),
		},
	})
	if err != nil {
		return domain.ModerationResult{}, fmt.Errorf("moderation request failed: %w", err)
	}
	if len(resp.Results) == 0 {
		return domain.ModerationResult{}, fmt.Errorf("moderation API returned no results")
	}

	result := resp.Results[0]
	return domain.ModerationResult{
		Flagged:    result.Flagged,
		Categories: flaggedCategories(result.Categories.RawJSON()),
		Raw:        json.RawMessage(result.RawJSON()),
	}, nil
}

// flaggedCategories extracts the names of all categories the provider set
// to true, sorted for stable output.
func flaggedCategories(raw string) []string {
	var categories map[string]bool
	if err := json.Unmarshal([]byte(raw), &categories); err != nil {
		return nil
	}
	var out []string
	for name, flagged := range categories {
		if flagged {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}
