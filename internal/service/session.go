package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dawnlab-io/dreamweave/internal/domain"
	"go.uber.org/zap"
)

// Orchestrator drives one session through the pipeline:
// audio -> transcript -> moderation gate -> report -> prompts -> images.
// Data flows strictly forward; nothing downstream recomputes upstream state
// except a full reset.
type Orchestrator struct {
	transcriber domain.TranscriptionClient
	moderator   domain.ModerationClient
	reports     *ReportService
	synthesizer *SynthesisService
	images      domain.ImageClient
	logger      *zap.Logger
}

func NewOrchestrator(
	transcriber domain.TranscriptionClient,
	moderator domain.ModerationClient,
	reports *ReportService,
	synthesizer *SynthesisService,
	images domain.ImageClient,
	logger *zap.Logger,
) *Orchestrator {
	return &Orchestrator{
		transcriber: transcriber,
		moderator:   moderator,
		reports:     reports,
		synthesizer: synthesizer,
		images:      images,
		logger:      logger,
	}
}

// SubmitAudio resets all derived state, transcribes the audio, and runs the
// moderation gate. A typed transcription failure is recorded as the
// transcript and surfaced through the session rather than returned: the
// user reads it and retries with fresh audio.
func (o *Orchestrator) SubmitAudio(ctx context.Context, s *domain.Session, audio []byte, formatHint string) error {
	s.Reset()

	transcript, err := o.transcriber.Transcribe(ctx, audio, formatHint)
	if err != nil {
		var terr *domain.TranscriptionError
		if errors.As(err, &terr) {
			o.logger.Warn("transcription failed",
				zap.String("session_id", s.ID.String()),
				zap.String("kind", string(terr.Kind)),
				zap.Error(err))
			s.Transcript = terr.Message()
			s.State = domain.StateTranscribed
			return nil
		}
		return fmt.Errorf("transcribe audio: %w", err)
	}

	s.Transcript = transcript
	s.State = domain.StateTranscribed

	result, err := o.moderator.Check(ctx, transcript)
	if err != nil {
		s.ModerationNote = "The safety check could not be completed. Submit the audio again."
		return fmt.Errorf("moderation check: %w", err)
	}

	if result.Flagged {
		s.State = domain.StateModerationFlagged
		s.DreamText = ""
		s.ModerationCategories = result.Categories
		s.ModerationNote = flaggedNote(result.Categories)
		o.logger.Info("transcript flagged by moderation",
			zap.String("session_id", s.ID.String()),
			zap.Strings("categories", result.Categories))
		return nil
	}

	s.State = domain.StateModerationPassed
	s.DreamText = transcript
	s.ModerationNote = "The content passed the safety check."
	return nil
}

// GenerateReport runs the report generator once for this session. It is
// unreachable until moderation has passed, and at most one report exists
// per ReportReady entry. On failure the state is unchanged so the user may
// retry.
func (o *Orchestrator) GenerateReport(ctx context.Context, s *domain.Session) error {
	if s.Report != nil {
		return ErrReportExists
	}
	if s.State == domain.StateModerationFlagged {
		return ErrModerationBlocked
	}
	if s.State != domain.StateModerationPassed || s.DreamText == "" {
		return ErrNoDreamText
	}

	report, err := o.reports.Generate(ctx, s.DreamText)
	if err != nil {
		return err
	}

	s.Report = report
	s.State = domain.StateReportReady
	return nil
}

// RenderNightmare synthesizes the nightmare prompt and its image. The two
// sub-results are stored independently: an image failure keeps the prompt
// and the report. Re-invoking regenerates both.
func (o *Orchestrator) RenderNightmare(ctx context.Context, s *domain.Session) error {
	if s.Report == nil {
		return ErrNoReport
	}

	prompt, err := o.synthesizer.SynthesizeNightmare(ctx, s.DreamText, s.Report)
	if err != nil {
		return err
	}
	s.NightmarePrompt = prompt
	s.NightmareImageURL = ""

	url, err := o.images.Generate(ctx, prompt)
	if err != nil {
		return err
	}
	s.NightmareImageURL = url
	return nil
}

// RenderReconstruction is the positive counterpart of RenderNightmare.
func (o *Orchestrator) RenderReconstruction(ctx context.Context, s *domain.Session) error {
	if s.Report == nil {
		return ErrNoReport
	}

	result, err := o.synthesizer.SynthesizeReconstruction(ctx, s.DreamText, s.Report)
	if err != nil {
		return err
	}
	s.Reconstruction = result
	s.ReconstructedImageURL = ""

	url, err := o.images.Generate(ctx, result.ReconstructedPrompt)
	if err != nil {
		return err
	}
	s.ReconstructedImageURL = url
	return nil
}

// Reset returns the session to an Idle-equivalent state.
func (o *Orchestrator) Reset(s *domain.Session) {
	s.Reset()
}

func flaggedNote(categories []string) string {
	if len(categories) == 0 {
		return "The content may violate the safety policy."
	}
	return fmt.Sprintf("The content may violate the safety policy: %s", strings.Join(categories, ", "))
}
