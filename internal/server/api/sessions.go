package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/fouzanpasha/physioapp/internal/store"
)

// SessionHandler handles HTTP requests for completed session records and
// progress summaries.
type SessionHandler struct {
	store *store.Store
}

// NewSessionHandler creates a new SessionHandler with the given store.
func NewSessionHandler(s *store.Store) *SessionHandler {
	return &SessionHandler{store: s}
}

// ServeHTTP implements the http.Handler interface.
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Expected paths: /api/sessions or /api/sessions/{id}
	path := strings.TrimPrefix(r.URL.Path, "/api/sessions")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.list(w, r)
		return
	}

	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

type listSessionsResponse struct {
	Sessions []*store.Session `json:"sessions"`
}

// list handles GET /api/sessions, optionally filtered by template_id.
func (h *SessionHandler) list(w http.ResponseWriter, r *http.Request) {
	var sessions []*store.Session
	var err error

	if templateID := r.URL.Query().Get("template_id"); templateID != "" {
		sessions, err = h.store.Sessions().ListByTemplate(templateID)
	} else {
		sessions, err = h.store.Sessions().List()
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list sessions")
		return
	}

	if sessions == nil {
		sessions = []*store.Session{}
	}
	writeJSON(w, http.StatusOK, listSessionsResponse{Sessions: sessions})
}

// get handles GET /api/sessions/{id}.
func (h *SessionHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	s, err := h.store.Sessions().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get session")
		return
	}

	writeJSON(w, http.StatusOK, s)
}

// delete handles DELETE /api/sessions/{id}.
func (h *SessionHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.Sessions().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete session")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ProgressHandler serves per-day progress summaries.
type ProgressHandler struct {
	store *store.Store
}

// NewProgressHandler creates a new ProgressHandler with the given store.
func NewProgressHandler(s *store.Store) *ProgressHandler {
	return &ProgressHandler{store: s}
}

type progressResponse struct {
	Progress []store.DailyProgress `json:"progress"`
}

// ServeHTTP handles GET /api/progress?days=N.
func (h *ProgressHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	days := 0
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "Invalid days parameter")
			return
		}
		days = n
	}

	progress, err := h.store.Sessions().Progress(days)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load progress")
		return
	}

	if progress == nil {
		progress = []store.DailyProgress{}
	}
	writeJSON(w, http.StatusOK, progressResponse{Progress: progress})
}
