package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fundedlabs/signal-center/internal/actions"
	"github.com/fundedlabs/signal-center/internal/common"
	"github.com/fundedlabs/signal-center/internal/engine"
	"github.com/fundedlabs/signal-center/internal/models"
	"github.com/fundedlabs/signal-center/internal/source"
)

// SignalsHandler serves the published signal list and the trade actions.
type SignalsHandler struct {
	logger  *common.Logger
	engine  *engine.Engine
	actions *actions.Handlers
	store   *source.MessageStore
}

// NewSignalsHandler creates a new signals handler. store may be nil when the
// feed is not locally authored; injection then returns 409.
func NewSignalsHandler(logger *common.Logger, eng *engine.Engine, act *actions.Handlers, store *source.MessageStore) *SignalsHandler {
	return &SignalsHandler{
		logger:  logger,
		engine:  eng,
		actions: act,
		store:   store,
	}
}

// List handles GET /api/signals.
func (h *SignalsHandler) List(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	signals := h.engine.Signals()
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"signals": signals,
		"count":   len(signals),
	})
}

// Stats handles GET /api/signals/stats.
func (h *SignalsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	WriteJSON(w, http.StatusOK, h.engine.Stats())
}

// injectRequest is the admin payload for publishing a raw signal message.
type injectRequest struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

// Inject handles POST /api/signals. It appends a raw message to the local
// message store; the reconciliation pass picks it up like any feed message,
// so a malformed text is accepted here but dropped at parse time.
func (h *SignalsHandler) Inject(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}
	if h.store == nil {
		WriteError(w, http.StatusConflict, "signal injection requires the local source strategy")
		return
	}

	var req injectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		WriteError(w, http.StatusBadRequest, "text is required")
		return
	}

	msg := models.RawMessage{
		ID:        req.ID,
		Text:      req.Text,
		Timestamp: time.Now(),
	}
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	if req.Timestamp != "" {
		ts, err := time.Parse(time.RFC3339, req.Timestamp)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "timestamp must be RFC3339")
			return
		}
		msg.Timestamp = ts
	}

	if err := h.store.Append(r.Context(), msg); err != nil {
		h.logger.Error().Err(err).Msg("failed to store injected signal")
		WriteError(w, http.StatusInternalServerError, "failed to store signal")
		return
	}

	h.logger.Info().Str("message_id", msg.ID).Msg("signal message injected")
	WriteJSON(w, http.StatusCreated, map[string]string{
		"status": "ok",
		"id":     msg.ID,
	})
}

// MarkTaken handles POST /api/signals/{id}/taken.
func (h *SignalsHandler) MarkTaken(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "signal id is required")
		return
	}

	if err := h.actions.MarkAsTaken(r.Context(), id); err != nil {
		status := http.StatusConflict
		if errors.Is(err, actions.ErrSignalNotFound) {
			status = http.StatusNotFound
		}
		WriteError(w, status, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"signal_id": id,
	})
}

// CancelTrade handles DELETE /api/signals/{id}/taken.
func (h *SignalsHandler) CancelTrade(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "signal id is required")
		return
	}

	if err := h.actions.CancelTrade(r.Context(), id); err != nil {
		WriteError(w, http.StatusConflict, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"signal_id": id,
	})
}

// CopyTrade handles POST /api/signals/{id}/copy and returns the formatted
// text so clients without access to the server clipboard can use it.
func (h *SignalsHandler) CopyTrade(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "signal id is required")
		return
	}

	text, err := h.actions.CopyTrade(id)
	if errors.Is(err, actions.ErrSignalNotFound) {
		WriteError(w, http.StatusNotFound, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"text":   text,
	})
}
