// Package api provides HTTP API handlers for the physioapp coaching
// system.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/fouzanpasha/physioapp/internal/exercise"
	"github.com/fouzanpasha/physioapp/internal/store"
)

// TemplateHandler handles HTTP requests for exercise template resources.
type TemplateHandler struct {
	store *store.Store
}

// NewTemplateHandler creates a new TemplateHandler with the given store.
func NewTemplateHandler(s *store.Store) *TemplateHandler {
	return &TemplateHandler{store: s}
}

// ServeHTTP implements the http.Handler interface and routes requests to
// appropriate methods.
func (h *TemplateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Expected paths: /api/templates or /api/templates/{id}
	path := strings.TrimPrefix(r.URL.Path, "/api/templates")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodPut:
		h.rename(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Request and response types

type createTemplateRequest struct {
	Name       string           `json:"name"`
	Frames     []exercise.Frame `json:"frames"`
	DurationMs int64            `json:"duration_ms"`
}

type renameTemplateRequest struct {
	Name string `json:"name"`
}

type templateResponse struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	DurationMs int64            `json:"duration_ms"`
	FrameCount int              `json:"frame_count"`
	ActiveArm  string           `json:"active_arm"`
	CreatedAt  string           `json:"created_at"`
	Frames     []exercise.Frame `json:"frames,omitempty"`
}

type listTemplatesResponse struct {
	Templates []templateResponse `json:"templates"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// toTemplateResponse converts an exercise.Template to its API shape.
// Frames are included only when loaded.
func toTemplateResponse(t *exercise.Template) templateResponse {
	resp := templateResponse{
		ID:         t.ID,
		Name:       t.Name,
		DurationMs: t.DurationMs,
		FrameCount: t.FrameCount,
		CreatedAt:  t.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if len(t.Frames) > 0 {
		resp.Frames = t.Frames
		resp.ActiveArm = string(t.ActiveArm())
	}
	return resp
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// list handles GET /api/templates and returns all templates without frames.
func (h *TemplateHandler) list(w http.ResponseWriter, r *http.Request) {
	templates, err := h.store.Templates().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list templates")
		return
	}

	response := listTemplatesResponse{
		Templates: make([]templateResponse, 0, len(templates)),
	}
	for _, t := range templates {
		response.Templates = append(response.Templates, toTemplateResponse(t))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/templates/{id} and returns a template with frames.
func (h *TemplateHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	t, err := h.store.Templates().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Template not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get template")
		return
	}

	writeJSON(w, http.StatusOK, toTemplateResponse(t))
}

// create handles POST /api/templates and imports a template with frames.
// Camera-based template capture goes through the coach recording endpoint
// instead; this path exists for importing or restoring templates.
func (h *TemplateHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}
	if len(req.Frames) == 0 {
		writeError(w, http.StatusBadRequest, "At least one frame is required")
		return
	}

	t := &exercise.Template{
		ID:         uuid.New().String(),
		Name:       req.Name,
		Frames:     req.Frames,
		DurationMs: req.DurationMs,
	}

	if err := h.store.Templates().Create(t); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create template")
		return
	}

	writeJSON(w, http.StatusCreated, toTemplateResponse(t))
}

// rename handles PUT /api/templates/{id}.
func (h *TemplateHandler) rename(w http.ResponseWriter, r *http.Request, id string) {
	var req renameTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}

	if err := h.store.Templates().Rename(id, req.Name); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Template not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to rename template")
		return
	}

	t, err := h.store.Templates().GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get template")
		return
	}

	writeJSON(w, http.StatusOK, toTemplateResponse(t))
}

// delete handles DELETE /api/templates/{id}.
func (h *TemplateHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.Templates().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Template not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete template")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
