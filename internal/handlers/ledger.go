package handlers

import (
	"net/http"

	"github.com/fundedlabs/signal-center/internal/common"
	"github.com/fundedlabs/signal-center/internal/ledger"
)

// LedgerHandler exposes the taken-trade ledger.
type LedgerHandler struct {
	logger *common.Logger
	ledger *ledger.Ledger
}

// NewLedgerHandler creates a new ledger handler.
func NewLedgerHandler(logger *common.Logger, l *ledger.Ledger) *LedgerHandler {
	return &LedgerHandler{logger: logger, ledger: l}
}

// ServeHTTP handles GET /api/ledger.
func (h *LedgerHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	entries, err := h.ledger.ListAll(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to read trade ledger")
		WriteError(w, http.StatusInternalServerError, "failed to read trade ledger")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"entries": entries,
		"count":   len(entries),
	})
}
