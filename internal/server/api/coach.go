package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/fouzanpasha/physioapp/internal/app"
	"github.com/fouzanpasha/physioapp/internal/exercise"
	"github.com/fouzanpasha/physioapp/internal/store"
)

// Coach is the subset of the application the control endpoints drive.
type Coach interface {
	StartSession(templateID string, targetReps int) (string, error)
	StopSession() (*exercise.Record, error)
	SessionActive() bool
	StartRecording(name string, duration time.Duration) error
	RecordingActive() bool
	PersonPresent() bool
	LatestTick() (app.Tick, bool)
}

// CoachHandler exposes session and recording control over HTTP.
type CoachHandler struct {
	coach Coach
}

// NewCoachHandler creates a new CoachHandler driving the given coach.
func NewCoachHandler(c Coach) *CoachHandler {
	return &CoachHandler{coach: c}
}

// ServeHTTP implements the http.Handler interface.
func (h *CoachHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/api/coach/session/start":
		h.post(w, r, h.startSession)
	case "/api/coach/session/stop":
		h.post(w, r, h.stopSession)
	case "/api/coach/record":
		h.post(w, r, h.startRecording)
	case "/api/coach/status":
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.status(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *CoachHandler) post(w http.ResponseWriter, r *http.Request, fn http.HandlerFunc) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	fn(w, r)
}

type startSessionRequest struct {
	TemplateID string `json:"template_id"`
	TargetReps int    `json:"target_reps"`
}

type startSessionResponse struct {
	SessionID string `json:"session_id"`
}

// startSession handles POST /api/coach/session/start.
func (h *CoachHandler) startSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.TemplateID == "" {
		writeError(w, http.StatusBadRequest, "template_id is required")
		return
	}

	sessionID, err := h.coach.StartSession(req.TemplateID, req.TargetReps)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "Template not found")
		case errors.Is(err, app.ErrSessionActive), errors.Is(err, app.ErrRecordingActive):
			writeError(w, http.StatusConflict, err.Error())
		case errors.Is(err, app.ErrTemplateNotReady):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "Failed to start session")
		}
		return
	}

	writeJSON(w, http.StatusCreated, startSessionResponse{SessionID: sessionID})
}

// stopSession handles POST /api/coach/session/stop and returns the
// finished session record.
func (h *CoachHandler) stopSession(w http.ResponseWriter, r *http.Request) {
	rec, err := h.coach.StopSession()
	if err != nil {
		if errors.Is(err, app.ErrNoActiveSession) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		// The session still ended; report the record we have.
		if rec != nil {
			writeJSON(w, http.StatusOK, rec)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to stop session")
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

type startRecordingRequest struct {
	Name            string `json:"name"`
	DurationSeconds int    `json:"duration_seconds"`
}

// startRecording handles POST /api/coach/record.
func (h *CoachHandler) startRecording(w http.ResponseWriter, r *http.Request) {
	var req startRecordingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}

	err := h.coach.StartRecording(req.Name, time.Duration(req.DurationSeconds)*time.Second)
	if err != nil {
		if errors.Is(err, app.ErrSessionActive) || errors.Is(err, app.ErrRecordingActive) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to start recording")
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

type statusResponse struct {
	SessionActive   bool      `json:"session_active"`
	RecordingActive bool      `json:"recording_active"`
	PersonPresent   bool      `json:"person_present"`
	LatestTick      *app.Tick `json:"latest_tick,omitempty"`
}

// status handles GET /api/coach/status.
func (h *CoachHandler) status(w http.ResponseWriter, r *http.Request) {
	resp := statusResponse{
		SessionActive:   h.coach.SessionActive(),
		RecordingActive: h.coach.RecordingActive(),
		PersonPresent:   h.coach.PersonPresent(),
	}
	if tick, ok := h.coach.LatestTick(); ok {
		resp.LatestTick = &tick
	}

	writeJSON(w, http.StatusOK, resp)
}
