package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jwebster45206/werewolf-gm/internal/storage"
)

type MatchHandler struct {
	storage storage.Storage
	logger  *slog.Logger
}

func NewMatchHandler(storage storage.Storage, logger *slog.Logger) *MatchHandler {
	return &MatchHandler{
		storage: storage,
		logger:  logger,
	}
}

// Get handles GET /v1/match/{id}
func (h *MatchHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.matchID(w, r)
	if !ok {
		return
	}

	state, err := h.storage.LoadMatch(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to load match", "match_id", id, "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to load match")
		return
	}
	if state == nil {
		writeError(w, h.logger, http.StatusNotFound, "Match not found")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, state)
}

// Delete handles DELETE /v1/match/{id}
func (h *MatchHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.matchID(w, r)
	if !ok {
		return
	}

	if err := h.storage.DeleteMatch(r.Context(), id); err != nil {
		h.logger.Error("Failed to delete match", "match_id", id, "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to delete match")
		return
	}
	h.logger.Debug("Match deleted", "match_id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *MatchHandler) matchID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		h.logger.Warn("Invalid match ID", "id", raw, "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid match ID format")
		return uuid.Nil, false
	}
	return id, true
}
