package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/jwebster45206/werewolf-gm/internal/logger"
	"github.com/jwebster45206/werewolf-gm/internal/services/events"
	"github.com/jwebster45206/werewolf-gm/internal/storage"
	"github.com/jwebster45206/werewolf-gm/pkg/action"
	"github.com/jwebster45206/werewolf-gm/pkg/match"
)

// ActionEngine applies a named action to a match snapshot.
type ActionEngine interface {
	Handle(ctx context.Context, name string, payload json.RawMessage, state *match.State) (*match.State, error)
}

// ActionRequest is the body of POST /v1/game/action. The client may send
// the full gameState, or only matchId to continue a stored match.
type ActionRequest struct {
	Action    string          `json:"action"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	GameState *match.State    `json:"gameState,omitempty"`
	MatchID   string          `json:"matchId,omitempty"`
}

type ActionHandler struct {
	engine    ActionEngine
	storage   storage.Storage
	publisher events.Publisher // optional
	logger    *slog.Logger
}

func NewActionHandler(engine ActionEngine, storage storage.Storage, publisher events.Publisher, logger *slog.Logger) *ActionHandler {
	return &ActionHandler{
		engine:    engine,
		storage:   storage,
		publisher: publisher,
		logger:    logger,
	}
}

// ServeHTTP handles POST /v1/game/action
func (h *ActionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := logger.WithRequestID(h.logger, middleware.GetReqID(r.Context()))

	var req ActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, log, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		log.Warn("Invalid JSON in request body", "error", err)
		writeError(w, log, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}

	req.Action = strings.TrimSpace(req.Action)
	if req.Action == "" {
		writeError(w, log, http.StatusBadRequest, "action field is required")
		return
	}

	state := req.GameState
	if state == nil && req.MatchID != "" && req.Action != string(action.KindStartGame) {
		id, err := uuid.Parse(req.MatchID)
		if err != nil {
			log.Warn("Invalid match ID", "match_id", req.MatchID, "error", err)
			writeError(w, log, http.StatusBadRequest, "Invalid match ID format")
			return
		}
		state, err = h.storage.LoadMatch(r.Context(), id)
		if err != nil {
			log.Error("Failed to load match", "match_id", id, "error", err)
			writeError(w, log, http.StatusInternalServerError, "Failed to load match")
			return
		}
		if state == nil {
			writeError(w, log, http.StatusNotFound, "Match not found")
			return
		}
	}

	next, err := h.engine.Handle(r.Context(), req.Action, req.Payload, state)
	if err != nil {
		log.Warn("Action rejected", "action", req.Action, "error", err)
		writeError(w, log, http.StatusBadRequest, err.Error())
		return
	}

	log = logger.WithMatchID(log, next.ID.String())
	if err := h.storage.SaveMatch(r.Context(), next); err != nil {
		log.Error("Failed to save match", "error", err)
		writeError(w, log, http.StatusInternalServerError, "Failed to save match")
		return
	}

	if h.publisher != nil {
		if err := h.publisher.PublishMatch(r.Context(), req.Action, next); err != nil {
			log.Warn("Failed to publish match event", "error", err)
		}
	}

	status := http.StatusOK
	if req.Action == string(action.KindStartGame) {
		status = http.StatusCreated
	}
	log.Debug("Action applied", "action", req.Action, "day", next.Day, "phase", next.Phase, "game_over", next.GameOver)
	writeJSON(w, log, status, next)
}
