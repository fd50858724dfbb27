package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dawnlab-io/dreamweave/internal/domain"
	"github.com/dawnlab-io/dreamweave/internal/llm"
	"go.uber.org/zap"
)

// SynthesisService derives the two downstream image prompts from one
// (dream text, report) pair. Both operations are pure over their inputs;
// neither mutates the report, and they may run in either order.
type SynthesisService struct {
	generator   domain.GenerationClient
	logger      *zap.Logger
	language    string
	reconSchema map[string]any
}

func NewSynthesisService(generator domain.GenerationClient, logger *zap.Logger, language string) *SynthesisService {
	return &SynthesisService{
		generator:   generator,
		logger:      logger,
		language:    language,
		reconSchema: llm.SchemaFor[domain.ReconstructionResult](),
	}
}

// SynthesizeNightmare produces the literal nightmare-visualization prompt.
// The result is bound to this report's keywords and emotions and depicts
// harm metaphorically only.
func (s *SynthesisService) SynthesizeNightmare(ctx context.Context, dreamText string, report *domain.DreamReport) (string, error) {
	out, err := s.generator.Complete(ctx, domain.CompletionRequest{
		Instructions: nightmareInstructions,
		Input:        synthesisInput(dreamText, report),
		Temperature:  0.7,
	})
	if err != nil {
		return "", fmt.Errorf("synthesize nightmare prompt: %w", err)
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", fmt.Errorf("synthesize nightmare prompt: empty generation output")
	}
	return out, nil
}

// SynthesizeReconstruction produces the positively reframed prompt together
// with the transformation summary and keyword provenance. A non-conforming
// generation is a *ReconstructionError with the raw payload attached.
func (s *SynthesisService) SynthesizeReconstruction(ctx context.Context, dreamText string, report *domain.DreamReport) (*domain.ReconstructionResult, error) {
	raw, err := s.generator.CompleteStructured(ctx, domain.StructuredRequest{
		Instructions: fmt.Sprintf(reconstructionInstructionsTemplate, s.language),
		Input:        synthesisInput(dreamText, report),
		Temperature:  0.7,
		SchemaName:   "ReconstructionResult",
		Schema:       s.reconSchema,
	})
	if err != nil {
		return nil, &ReconstructionError{Err: err}
	}

	var result domain.ReconstructionResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, &ReconstructionError{Raw: raw, Err: fmt.Errorf("parse reconstruction: %w", err)}
	}
	if err := result.Validate(); err != nil {
		return nil, &ReconstructionError{Raw: raw, Err: err}
	}

	// Identity mappings are discouraged by instruction but accepted
	// structurally; surface them in the logs for prompt tuning.
	for _, m := range result.IdentityMappings() {
		s.logger.Warn("identity keyword mapping in reconstruction", zap.String("keyword", m.Original))
	}

	return &result, nil
}
