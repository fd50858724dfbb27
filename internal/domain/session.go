package domain

import (
	"time"

	"github.com/google/uuid"
)

// SessionState names the furthest stage a session has reached. Nightmare
// and reconstruction views are independent sub-results of StateReportReady
// rather than states of their own.
type SessionState string

const (
	StateIdle              SessionState = "idle"
	StateTranscribed       SessionState = "transcribed"
	StateModerationPassed  SessionState = "moderation_passed"
	StateModerationFlagged SessionState = "moderation_flagged"
	StateReportReady       SessionState = "report_ready"
)

// Session holds all per-session pipeline state. It is mutated only by the
// orchestrator, one action at a time; the session manager serializes access.
type Session struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`

	State SessionState `json:"state"`

	// Transcript is the raw transcription result, or the transcription
	// failure message when the call failed. Always shown to the user.
	Transcript string `json:"transcript,omitempty"`

	// DreamText is the working text for analysis. Cleared when moderation
	// flags the transcript, kept distinct from Transcript.
	DreamText string `json:"dream_text,omitempty"`

	ModerationNote       string   `json:"moderation_note,omitempty"`
	ModerationCategories []string `json:"moderation_categories,omitempty"`

	Report *DreamReport `json:"report,omitempty"`

	NightmarePrompt   string `json:"nightmare_prompt,omitempty"`
	NightmareImageURL string `json:"nightmare_image_url,omitempty"`

	Reconstruction        *ReconstructionResult `json:"reconstruction,omitempty"`
	ReconstructedImageURL string                `json:"reconstructed_image_url,omitempty"`
}

func NewSession() *Session {
	return &Session{
		ID:        uuid.New(),
		CreatedAt: time.Now().UTC(),
		State:     StateIdle,
	}
}

// Reset clears everything derived from audio input, returning the session
// to an Idle-equivalent. ID and creation time survive.
func (s *Session) Reset() {
	s.State = StateIdle
	s.Transcript = ""
	s.DreamText = ""
	s.ModerationNote = ""
	s.ModerationCategories = nil
	s.Report = nil
	s.NightmarePrompt = ""
	s.NightmareImageURL = ""
	s.Reconstruction = nil
	s.ReconstructedImageURL = ""
}

// Clone returns a read-only snapshot of the session. Report and
// Reconstruction are shared since they are immutable once set.
func (s *Session) Clone() *Session {
	out := *s
	if s.ModerationCategories != nil {
		out.ModerationCategories = append([]string(nil), s.ModerationCategories...)
	}
	return &out
}

func (s *Session) NightmareReady() bool {
	return s.NightmarePrompt != "" && s.NightmareImageURL != ""
}

func (s *Session) ReconstructionReady() bool {
	return s.Reconstruction != nil && s.ReconstructedImageURL != ""
}
