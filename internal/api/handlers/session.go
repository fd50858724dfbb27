package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"path/filepath"

	"github.com/dawnlab-io/dreamweave/internal/domain"
	"github.com/dawnlab-io/dreamweave/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// maxAudioBytes caps uploaded recordings at 25 MB, the transcription
// provider's own limit.
const maxAudioBytes = 25 << 20

type SessionHandler struct {
	manager      *service.SessionManager
	orchestrator *service.Orchestrator
}

func NewSessionHandler(manager *service.SessionManager, orchestrator *service.Orchestrator) *SessionHandler {
	return &SessionHandler{manager: manager, orchestrator: orchestrator}
}

func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	s := h.manager.Create()
	writeJSON(w, http.StatusCreated, s)
}

func (h *SessionHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	s, err := h.manager.Snapshot(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	writeJSON(w, http.StatusOK, s)
}

func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	if err := h.manager.Delete(id); err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SubmitAudio accepts a multipart upload with an "audio" file part,
// transcribes it, and runs the moderation gate. The response is the full
// session snapshot; a failed transcription still returns 200 with the
// failure message stored as the transcript.
func (h *SessionHandler) SubmitAudio(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxAudioBytes)
	file, header, err := r.FormFile("audio")
	if err != nil {
		writeError(w, http.StatusBadRequest, "audio file part is required")
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read audio upload")
		return
	}
	if len(audio) == 0 {
		writeError(w, http.StatusBadRequest, "audio upload is empty")
		return
	}

	formatHint := filepath.Ext(header.Filename)

	var snapshot *domain.Session
	err = h.manager.Do(id, func(s *domain.Session) error {
		pipelineErr := h.orchestrator.SubmitAudio(r.Context(), s, audio, formatHint)
		snapshot = s.Clone()
		return pipelineErr
	})
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		// Moderation outage: the transcript is kept on the session so the
		// user can resubmit, but the request itself failed.
		writeError(w, http.StatusBadGateway, "safety check failed, submit the audio again")
		return
	}

	writeJSON(w, http.StatusOK, snapshot)
}

func (h *SessionHandler) GenerateReport(w http.ResponseWriter, r *http.Request) {
	h.runStep(w, r, h.orchestrator.GenerateReport)
}

func (h *SessionHandler) RenderNightmare(w http.ResponseWriter, r *http.Request) {
	h.runStep(w, r, h.orchestrator.RenderNightmare)
}

func (h *SessionHandler) RenderReconstruction(w http.ResponseWriter, r *http.Request) {
	h.runStep(w, r, h.orchestrator.RenderReconstruction)
}

func (h *SessionHandler) Reset(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	var snapshot *domain.Session
	err = h.manager.Do(id, func(s *domain.Session) error {
		h.orchestrator.Reset(s)
		snapshot = s.Clone()
		return nil
	})
	if err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	writeJSON(w, http.StatusOK, snapshot)
}

// runStep executes one pipeline step under the session lock and maps the
// step's error to an HTTP status.
func (h *SessionHandler) runStep(w http.ResponseWriter, r *http.Request, step func(ctx context.Context, s *domain.Session) error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	var snapshot *domain.Session
	err = h.manager.Do(id, func(s *domain.Session) error {
		stepErr := step(r.Context(), s)
		snapshot = s.Clone()
		return stepErr
	})
	if err != nil {
		h.writeStepError(w, err, snapshot)
		return
	}

	writeJSON(w, http.StatusOK, snapshot)
}

// writeStepError maps pipeline errors to HTTP statuses. State-guard
// violations are conflicts: the session exists but is not in a state where
// the step applies.
func (h *SessionHandler) writeStepError(w http.ResponseWriter, err error, snapshot *domain.Session) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "session not found")
	case errors.Is(err, service.ErrReportExists),
		errors.Is(err, service.ErrModerationBlocked),
		errors.Is(err, service.ErrNoDreamText),
		errors.Is(err, service.ErrNoReport):
		writeError(w, http.StatusConflict, err.Error())
	default:
		var imgErr *domain.ImageSynthesisError
		if errors.As(err, &imgErr) && imgErr.Kind == domain.KindPolicyFiltered {
			// The prompt survived; only the image was refused.
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"error":   imgErr.Message(),
				"session": snapshot,
			})
			return
		}
		writeError(w, http.StatusBadGateway, "pipeline step failed: "+err.Error())
	}
}
