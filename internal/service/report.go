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

// DefaultTopK is the retrieval depth used when no override is configured.
const DefaultTopK = 4

// Retriever returns the passages most relevant to a query. Implemented by
// *index.Index.
type Retriever interface {
	Retrieve(ctx context.Context, query string, k int) ([]domain.ReferencePassage, error)
}

// ReportService generates the structured dream report: retrieve supporting
// passages, run one schema-constrained generation call, validate.
type ReportService struct {
	retriever Retriever
	generator domain.GenerationClient
	logger    *zap.Logger
	language  string
	topK      int
	schema    map[string]any
}

func NewReportService(retriever Retriever, generator domain.GenerationClient, logger *zap.Logger, language string, topK int) *ReportService {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &ReportService{
		retriever: retriever,
		generator: generator,
		logger:    logger,
		language:  language,
		topK:      topK,
		schema:    llm.SchemaFor[domain.DreamReport](),
	}
}

// Generate produces a validated DreamReport for the dream text. Zero
// retrieved passages degrade grounding but do not fail; a non-conforming
// generation is a *ReportGenerationError with the raw payload attached.
func (s *ReportService) Generate(ctx context.Context, dreamText string) (*domain.DreamReport, error) {
	passages, err := s.retriever.Retrieve(ctx, dreamText, s.topK)
	if err != nil {
		return nil, fmt.Errorf("retrieve reference passages: %w", err)
	}
	if len(passages) == 0 {
		s.logger.Warn("no reference passages retrieved, proceeding without grounding")
	}

	input := buildReportInput(dreamText, passages)
	raw, err := s.generator.CompleteStructured(ctx, domain.StructuredRequest{
		Instructions: fmt.Sprintf(reportInstructionsTemplate, s.language),
		Input:        input,
		Temperature:  0.3,
		SchemaName:   "DreamReport",
		Schema:       s.schema,
	})
	if err != nil {
		return nil, &ReportGenerationError{Err: err}
	}

	var report domain.DreamReport
	if err := json.Unmarshal(raw, &report); err != nil {
		return nil, &ReportGenerationError{Raw: raw, Err: fmt.Errorf("parse report: %w", err)}
	}
	if err := report.Validate(); err != nil {
		return nil, &ReportGenerationError{Raw: raw, Err: err}
	}

	s.logger.Info("dream report generated",
		zap.Int("emotions", len(report.Emotions)),
		zap.Int("keywords", len(report.Keywords)),
		zap.Int("context_passages", len(passages)))
	return &report, nil
}

func buildReportInput(dreamText string, passages []domain.ReferencePassage) string {
	texts := make([]string, 0, len(passages))
	for _, p := range passages {
		texts = append(texts, p.Text)
	}
	contextBlob := strings.Join(texts, "\n\n")
	if contextBlob == "" {
		contextBlob = "(no reference passages available)"
	}
	return fmt.Sprintf("[Reference Passages]\n%s\n\n[User's Dream Text]\n%s", contextBlob, dreamText)
}
