package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/gray-logic-googlehome/internal/entity"
)

// SetValueRequest is the body of PUT /entities/{unique_id}/value.
type SetValueRequest struct {
	Value *string `json:"value"`
}

// handleListEntities returns every entity's current state.
func (s *Server) handleListEntities(w http.ResponseWriter, _ *http.Request) {
	snapshots := s.registry.Snapshots()
	writeJSON(w, http.StatusOK, map[string]any{
		"entities": snapshots,
		"count":    len(snapshots),
	})
}

// handleGetEntity returns one entity's current state.
func (s *Server) handleGetEntity(w http.ResponseWriter, r *http.Request) {
	e, err := s.registry.Get(chi.URLParam(r, "unique_id"))
	if err != nil {
		s.writeEntityError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entity.Snapshot(e))
}

// handleSetEntityValue sets a text entity's value and returns its new state.
func (s *Server) handleSetEntityValue(w http.ResponseWriter, r *http.Request) {
	uniqueID := chi.URLParam(r, "unique_id")

	var req SetValueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.Value == nil {
		writeError(w, http.StatusBadRequest, ErrCodeValidation, "value is required")
		return
	}

	if err := s.registry.SetTextValue(r.Context(), uniqueID, *req.Value); err != nil {
		s.writeEntityError(w, r, err)
		return
	}

	e, err := s.registry.Get(uniqueID)
	if err != nil {
		s.writeEntityError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entity.Snapshot(e))
}

// handleRefreshCoordinator forces a coordinator poll.
func (s *Server) handleRefreshCoordinator(w http.ResponseWriter, r *http.Request) {
	if s.coordinator == nil {
		writeError(w, http.StatusServiceUnavailable, ErrCodeUnavailable, "coordinator not configured")
		return
	}

	if err := s.coordinator.Refresh(r.Context()); err != nil {
		s.logger.Warn("manual coordinator refresh failed", "error", err)
		writeError(w, http.StatusBadGateway, ErrCodeUpstream, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "refreshed",
		"last_update": s.coordinator.LastUpdate().UTC().Format(time.RFC3339),
	})
}

// writeEntityError maps registry errors, and the entity error classes
// integrations wrap, onto HTTP statuses.
func (s *Server) writeEntityError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, entity.ErrEntityNotFound), errors.Is(err, entity.ErrTargetNotFound):
		writeNotFound(w, err.Error())
	case errors.Is(err, entity.ErrNotTextEntity),
		errors.Is(err, entity.ErrValueOutOfRange),
		errors.Is(err, entity.ErrInvalidValue):
		writeError(w, http.StatusBadRequest, ErrCodeValidation, err.Error())
	default:
		s.logger.Error("entity operation failed",
			"path", r.URL.Path,
			"request_id", r.Context().Value(ctxKeyRequestID),
			"error", err,
		)
		writeInternalError(w, err.Error())
	}
}
