package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/dawnlab-io/dreamweave/internal/domain"
	"github.com/dawnlab-io/dreamweave/internal/image"
	"github.com/dawnlab-io/dreamweave/internal/llm"
	"github.com/dawnlab-io/dreamweave/internal/moderation"
	"github.com/dawnlab-io/dreamweave/internal/stt"
	"go.uber.org/zap"
)

type pipelineMocks struct {
	stt        *stt.MockClient
	moderation *moderation.MockClient
	generator  *llm.MockClient
	images     *image.MockClient
	retriever  *mockRetriever
}

func setupOrchestratorTest() (*Orchestrator, *pipelineMocks) {
	mocks := &pipelineMocks{
		stt:        stt.NewMockClient(),
		moderation: moderation.NewMockClient(),
		generator:  llm.NewMockClient(),
		images:     image.NewMockClient(),
		retriever:  &mockRetriever{},
	}
	mocks.stt.TranscribeResponse = "폭풍우 치는 바다에서 배가 침몰하는 꿈을 꿨어요"
	mocks.generator.CompleteResponse = "A sinking ship under a black storm sky."
	mocks.generator.StructuredResponse = json.RawMessage(validReportJSON)

	logger := zap.NewNop()
	reports := NewReportService(mocks.retriever, mocks.generator, logger, "Korean", 4)
	synthesizer := NewSynthesisService(mocks.generator, logger, "Korean")

	o := NewOrchestrator(mocks.stt, mocks.moderation, reports, synthesizer, mocks.images, logger)
	return o, mocks
}

func TestOrchestrator_SubmitAudio_Passed(t *testing.T) {
	o, mocks := setupOrchestratorTest()
	s := domain.NewSession()

	if err := o.SubmitAudio(context.Background(), s, []byte("audio"), ".m4a"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if s.State != domain.StateModerationPassed {
		t.Fatalf("expected moderation_passed, got %s", s.State)
	}
	if s.Transcript != mocks.stt.TranscribeResponse {
		t.Fatalf("transcript not stored: %q", s.Transcript)
	}
	if s.DreamText != s.Transcript {
		t.Fatal("dream text must equal transcript after a pass")
	}
	if len(mocks.moderation.CheckCalls) != 1 {
		t.Fatalf("expected 1 moderation check, got %d", len(mocks.moderation.CheckCalls))
	}
}

func TestOrchestrator_SubmitAudio_Flagged(t *testing.T) {
	o, mocks := setupOrchestratorTest()
	mocks.moderation.Result = domain.ModerationResult{
		Flagged:    true,
		Categories: []string{"self-harm", "violence"},
	}
	s := domain.NewSession()

	if err := o.SubmitAudio(context.Background(), s, []byte("audio"), ".m4a"); err != nil {
		t.Fatalf("flagged content is an outcome, not an error: %v", err)
	}
	if s.State != domain.StateModerationFlagged {
		t.Fatalf("expected moderation_flagged, got %s", s.State)
	}
	if s.DreamText != "" {
		t.Fatal("flagged transcript must not become dream text")
	}
	if s.Transcript == "" {
		t.Fatal("transcript must remain visible to the user")
	}
	if !strings.Contains(s.ModerationNote, "self-harm") {
		t.Fatalf("expected categories in the note, got %q", s.ModerationNote)
	}
}

func TestOrchestrator_SubmitAudio_TranscriptionFailure(t *testing.T) {
	o, mocks := setupOrchestratorTest()
	mocks.stt.TranscribeErr = &domain.TranscriptionError{
		Kind: domain.KindRateLimited,
		Err:  errors.New("429"),
	}
	s := domain.NewSession()

	if err := o.SubmitAudio(context.Background(), s, []byte("audio"), ".m4a"); err != nil {
		t.Fatalf("typed transcription failure is surfaced via the session: %v", err)
	}
	if s.State != domain.StateTranscribed {
		t.Fatalf("expected transcribed, got %s", s.State)
	}
	if s.Transcript == "" {
		t.Fatal("expected the failure message stored as transcript")
	}
	if s.DreamText != "" {
		t.Fatal("failed transcription must not produce dream text")
	}
	if len(mocks.moderation.CheckCalls) != 0 {
		t.Fatal("moderation must not run on a failed transcription")
	}
}

func TestOrchestrator_SubmitAudio_ModerationOutage(t *testing.T) {
	o, mocks := setupOrchestratorTest()
	mocks.moderation.Err = errors.New("provider down")
	s := domain.NewSession()

	err := o.SubmitAudio(context.Background(), s, []byte("audio"), ".m4a")
	if err == nil {
		t.Fatal("moderation outage must fail the submission")
	}
	// The transcript is kept so the user can resubmit.
	if s.Transcript == "" {
		t.Fatal("transcript must survive a moderation outage")
	}
	if s.State == domain.StateModerationPassed {
		t.Fatal("moderation outage must never count as a pass")
	}
}

func TestOrchestrator_SubmitAudio_ResetsDerivedState(t *testing.T) {
	o, _ := setupOrchestratorTest()
	s := domain.NewSession()
	ctx := context.Background()

	if err := o.SubmitAudio(ctx, s, []byte("a1"), ".m4a"); err != nil {
		t.Fatal(err)
	}
	if err := o.GenerateReport(ctx, s); err != nil {
		t.Fatal(err)
	}
	if err := o.RenderNightmare(ctx, s); err != nil {
		t.Fatal(err)
	}

	if err := o.SubmitAudio(ctx, s, []byte("a2"), ".m4a"); err != nil {
		t.Fatal(err)
	}
	if s.Report != nil || s.NightmarePrompt != "" || s.NightmareImageURL != "" {
		t.Fatal("new audio must clear all downstream results")
	}
}

func TestOrchestrator_GenerateReport(t *testing.T) {
	o, _ := setupOrchestratorTest()
	s := domain.NewSession()
	ctx := context.Background()

	if err := o.SubmitAudio(ctx, s, []byte("audio"), ".m4a"); err != nil {
		t.Fatal(err)
	}
	if err := o.GenerateReport(ctx, s); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if s.State != domain.StateReportReady {
		t.Fatalf("expected report_ready, got %s", s.State)
	}
	if s.Report == nil {
		t.Fatal("expected a report on the session")
	}
}

func TestOrchestrator_GenerateReport_BeforeModeration(t *testing.T) {
	o, _ := setupOrchestratorTest()
	s := domain.NewSession()

	if err := o.GenerateReport(context.Background(), s); err != ErrNoDreamText {
		t.Fatalf("expected ErrNoDreamText, got %v", err)
	}
}

func TestOrchestrator_GenerateReport_Flagged(t *testing.T) {
	o, mocks := setupOrchestratorTest()
	mocks.moderation.Result = domain.ModerationResult{Flagged: true}
	s := domain.NewSession()
	ctx := context.Background()

	if err := o.SubmitAudio(ctx, s, []byte("audio"), ".m4a"); err != nil {
		t.Fatal(err)
	}
	if err := o.GenerateReport(ctx, s); err != ErrModerationBlocked {
		t.Fatalf("expected ErrModerationBlocked, got %v", err)
	}
}

func TestOrchestrator_GenerateReport_AtMostOnce(t *testing.T) {
	o, mocks := setupOrchestratorTest()
	s := domain.NewSession()
	ctx := context.Background()

	if err := o.SubmitAudio(ctx, s, []byte("audio"), ".m4a"); err != nil {
		t.Fatal(err)
	}
	if err := o.GenerateReport(ctx, s); err != nil {
		t.Fatal(err)
	}

	if err := o.GenerateReport(ctx, s); err != ErrReportExists {
		t.Fatalf("expected ErrReportExists, got %v", err)
	}
	if len(mocks.generator.StructuredCalls) != 1 {
		t.Fatalf("expected exactly 1 report generation, got %d", len(mocks.generator.StructuredCalls))
	}
}

func TestOrchestrator_GenerateReport_FailureKeepsState(t *testing.T) {
	o, mocks := setupOrchestratorTest()
	s := domain.NewSession()
	ctx := context.Background()

	if err := o.SubmitAudio(ctx, s, []byte("audio"), ".m4a"); err != nil {
		t.Fatal(err)
	}

	mocks.generator.StructuredErr = errors.New("provider down")
	if err := o.GenerateReport(ctx, s); err == nil {
		t.Fatal("expected generation error")
	}
	if s.State != domain.StateModerationPassed || s.Report != nil {
		t.Fatal("failed generation must leave the session retryable")
	}

	mocks.generator.StructuredErr = nil
	if err := o.GenerateReport(ctx, s); err != nil {
		t.Fatalf("retry should succeed, got %v", err)
	}
}

func TestOrchestrator_RenderNightmare(t *testing.T) {
	o, mocks := setupOrchestratorTest()
	s := domain.NewSession()
	ctx := context.Background()

	if err := o.SubmitAudio(ctx, s, []byte("audio"), ".m4a"); err != nil {
		t.Fatal(err)
	}
	if err := o.GenerateReport(ctx, s); err != nil {
		t.Fatal(err)
	}
	if err := o.RenderNightmare(ctx, s); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !s.NightmareReady() {
		t.Fatal("expected prompt and image URL on the session")
	}
	if mocks.images.GenerateCalls[0] != s.NightmarePrompt {
		t.Fatal("image must be generated from the synthesized prompt")
	}
}

func TestOrchestrator_RenderNightmare_NoReport(t *testing.T) {
	o, _ := setupOrchestratorTest()
	s := domain.NewSession()

	if err := o.RenderNightmare(context.Background(), s); err != ErrNoReport {
		t.Fatalf("expected ErrNoReport, got %v", err)
	}
}

func TestOrchestrator_RenderNightmare_ImageFailureKeepsPrompt(t *testing.T) {
	o, mocks := setupOrchestratorTest()
	s := domain.NewSession()
	ctx := context.Background()

	if err := o.SubmitAudio(ctx, s, []byte("audio"), ".m4a"); err != nil {
		t.Fatal(err)
	}
	if err := o.GenerateReport(ctx, s); err != nil {
		t.Fatal(err)
	}

	mocks.images.Err = &domain.ImageSynthesisError{
		Kind: domain.KindPolicyFiltered,
		Err:  errors.New("content_policy_violation"),
	}
	err := o.RenderNightmare(ctx, s)
	var imgErr *domain.ImageSynthesisError
	if !errors.As(err, &imgErr) {
		t.Fatalf("expected ImageSynthesisError, got %v", err)
	}
	if s.NightmarePrompt == "" {
		t.Fatal("prompt must survive an image failure")
	}
	if s.NightmareImageURL != "" {
		t.Fatal("no image URL on failure")
	}
	if s.Report == nil {
		t.Fatal("report must survive an image failure")
	}
}

func TestOrchestrator_RenderReconstruction(t *testing.T) {
	o, mocks := setupOrchestratorTest()
	s := domain.NewSession()
	ctx := context.Background()

	if err := o.SubmitAudio(ctx, s, []byte("audio"), ".m4a"); err != nil {
		t.Fatal(err)
	}
	if err := o.GenerateReport(ctx, s); err != nil {
		t.Fatal(err)
	}

	mocks.generator.StructuredResponse = json.RawMessage(validReconstructionJSON)
	if err := o.RenderReconstruction(ctx, s); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !s.ReconstructionReady() {
		t.Fatal("expected reconstruction and image URL on the session")
	}
	if mocks.images.GenerateCalls[0] != s.Reconstruction.ReconstructedPrompt {
		t.Fatal("image must be generated from the reconstructed prompt")
	}
}

func TestOrchestrator_SubResultsAreIndependent(t *testing.T) {
	o, mocks := setupOrchestratorTest()
	s := domain.NewSession()
	ctx := context.Background()

	if err := o.SubmitAudio(ctx, s, []byte("audio"), ".m4a"); err != nil {
		t.Fatal(err)
	}
	if err := o.GenerateReport(ctx, s); err != nil {
		t.Fatal(err)
	}

	// Reconstruction first, then nightmare: order does not matter.
	mocks.generator.StructuredResponse = json.RawMessage(validReconstructionJSON)
	if err := o.RenderReconstruction(ctx, s); err != nil {
		t.Fatal(err)
	}
	if err := o.RenderNightmare(ctx, s); err != nil {
		t.Fatal(err)
	}
	if !s.NightmareReady() || !s.ReconstructionReady() {
		t.Fatal("both sub-results must coexist")
	}
}

func TestOrchestrator_Reset(t *testing.T) {
	o, _ := setupOrchestratorTest()
	s := domain.NewSession()
	ctx := context.Background()

	if err := o.SubmitAudio(ctx, s, []byte("audio"), ".m4a"); err != nil {
		t.Fatal(err)
	}
	if err := o.GenerateReport(ctx, s); err != nil {
		t.Fatal(err)
	}

	o.Reset(s)
	if s.State != domain.StateIdle || s.Report != nil || s.Transcript != "" {
		t.Fatal("reset must return the session to idle")
	}
}
