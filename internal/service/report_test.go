package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/dawnlab-io/dreamweave/internal/domain"
	"github.com/dawnlab-io/dreamweave/internal/llm"
	"go.uber.org/zap"
)

type mockRetriever struct {
	passages []domain.ReferencePassage
	err      error

	calls []string
}

func (m *mockRetriever) Retrieve(ctx context.Context, query string, k int) ([]domain.ReferencePassage, error) {
	m.calls = append(m.calls, query)
	if m.err != nil {
		return nil, m.err
	}
	return m.passages, nil
}

const validReportJSON = `{
	"emotions": [{"emotion": "공포", "score": 0.8}, {"emotion": "슬픔", "score": 0.4}],
	"keywords": ["바다", "폭풍", "침몰"],
	"analysis_summary": "폭풍우 치는 바다는 압도당하는 느낌을 상징합니다."
}`

func setupReportTest() (*ReportService, *mockRetriever, *llm.MockClient) {
	retriever := &mockRetriever{
		passages: []domain.ReferencePassage{
			{DocumentID: "water.md", Text: "Water often symbolizes emotion."},
			{DocumentID: "storm.md", Text: "Storms track feelings of being overwhelmed."},
		},
	}
	generator := llm.NewMockClient()
	generator.StructuredResponse = json.RawMessage(validReportJSON)

	svc := NewReportService(retriever, generator, zap.NewNop(), "Korean", 4)
	return svc, retriever, generator
}

func TestReportService_Generate(t *testing.T) {
	svc, retriever, generator := setupReportTest()

	report, err := svc.Generate(context.Background(), "폭풍우 치는 바다에서 배가 침몰하는 꿈")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(report.Emotions) != 2 || len(report.Keywords) != 3 {
		t.Fatalf("unexpected report shape: %+v", report)
	}
	if len(retriever.calls) != 1 {
		t.Fatalf("expected 1 retrieval, got %d", len(retriever.calls))
	}

	if len(generator.StructuredCalls) != 1 {
		t.Fatalf("expected 1 structured call, got %d", len(generator.StructuredCalls))
	}
	req := generator.StructuredCalls[0]
	if req.SchemaName != "DreamReport" {
		t.Fatalf("expected DreamReport schema, got %q", req.SchemaName)
	}
	if req.Temperature != 0.3 {
		t.Fatalf("expected temperature 0.3, got %f", req.Temperature)
	}
	if !strings.Contains(req.Input, "Water often symbolizes emotion.") {
		t.Fatal("retrieved passages missing from generation input")
	}
	if !strings.Contains(req.Input, "침몰하는 꿈") {
		t.Fatal("dream text missing from generation input")
	}
	if !strings.Contains(req.Instructions, "Korean") {
		t.Fatal("working language missing from instructions")
	}
}

func TestReportService_Generate_RetrievalFailure(t *testing.T) {
	svc, retriever, generator := setupReportTest()
	retriever.err = errors.New("embed query: provider down")

	_, err := svc.Generate(context.Background(), "dream")
	if err == nil {
		t.Fatal("expected error on retrieval failure")
	}
	if len(generator.StructuredCalls) != 0 {
		t.Fatal("generation must not run when retrieval fails")
	}
}

func TestReportService_Generate_NoPassages(t *testing.T) {
	svc, retriever, generator := setupReportTest()
	retriever.passages = nil

	report, err := svc.Generate(context.Background(), "dream")
	if err != nil {
		t.Fatalf("zero passages must degrade, not fail: %v", err)
	}
	if report == nil {
		t.Fatal("expected a report")
	}
	if !strings.Contains(generator.StructuredCalls[0].Input, "(no reference passages available)") {
		t.Fatal("expected passage placeholder in generation input")
	}
}

func TestReportService_Generate_GenerationFailure(t *testing.T) {
	svc, _, generator := setupReportTest()
	generator.StructuredErr = errors.New("rate limited")

	_, err := svc.Generate(context.Background(), "dream")
	var genErr *ReportGenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected ReportGenerationError, got %v", err)
	}
}

func TestReportService_Generate_MalformedOutput(t *testing.T) {
	svc, _, generator := setupReportTest()
	generator.StructuredResponse = json.RawMessage(`{"emotions": "not an array"`)

	_, err := svc.Generate(context.Background(), "dream")
	var genErr *ReportGenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected ReportGenerationError, got %v", err)
	}
	if len(genErr.Raw) == 0 {
		t.Fatal("expected raw payload preserved for diagnosis")
	}
}

func TestReportService_Generate_InvalidReport(t *testing.T) {
	svc, _, generator := setupReportTest()
	// Emotions present, keywords empty: violates the report contract.
	generator.StructuredResponse = json.RawMessage(`{
		"emotions": [{"emotion": "공포", "score": 0.9}],
		"keywords": [],
		"analysis_summary": "요약"
	}`)

	_, err := svc.Generate(context.Background(), "dream")
	var genErr *ReportGenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected ReportGenerationError, got %v", err)
	}
	if !errors.Is(err, domain.ErrKeywordsMissing) {
		t.Fatalf("expected ErrKeywordsMissing cause, got %v", err)
	}
}
