// Package actions implements the user-facing trade operations: marking a
// signal as taken, cancelling a taken trade, and copying signal details.
package actions

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fundedlabs/signal-center/internal/common"
	"github.com/fundedlabs/signal-center/internal/engine"
	"github.com/fundedlabs/signal-center/internal/journal"
	"github.com/fundedlabs/signal-center/internal/ledger"
	"github.com/fundedlabs/signal-center/internal/models"
)

// Sentinel errors callers match with errors.Is to pick a response status.
var (
	ErrSignalNotFound = errors.New("signal not found")
	ErrAlreadyTaken   = errors.New("signal already taken")
	ErrNotTaken       = errors.New("signal not taken")
)

// Clipboard receives the formatted signal text produced by CopyTrade.
type Clipboard interface {
	Write(text string) error
}

// Handlers wires trade actions to the engine, the ledger, and the journal.
type Handlers struct {
	engine   *engine.Engine
	ledger   *ledger.Ledger
	journal  *journal.Client
	clip     Clipboard
	logger   *common.Logger
	propFirm string
}

// New creates the action handlers. clip may be nil, in which case CopyTrade
// returns an error for every call.
func New(eng *engine.Engine, l *ledger.Ledger, j *journal.Client, clip Clipboard, logger *common.Logger, propFirm string) *Handlers {
	return &Handlers{
		engine:   eng,
		ledger:   l,
		journal:  j,
		clip:     clip,
		logger:   logger,
		propFirm: propFirm,
	}
}

// MarkAsTaken records that the user has taken the signal. The ledger write is
// the authoritative step; the journal submission that follows is best-effort
// and runs detached so a slow or dead journal never delays the ledger.
func (h *Handlers) MarkAsTaken(ctx context.Context, signalID string) error {
	sig, ok := h.engine.Get(signalID)
	if !ok {
		return fmt.Errorf("signal %s: %w", signalID, ErrSignalNotFound)
	}
	if sig.Taken {
		return fmt.Errorf("signal %s: %w", signalID, ErrAlreadyTaken)
	}

	entry := models.EntryFromSignal(sig, time.Now())
	if err := h.ledger.Add(ctx, entry); err != nil {
		return err
	}
	h.engine.SetTaken(signalID, true)

	h.logger.Info().Str("signal_id", signalID).Str("pair", sig.Pair).Msg("signal marked as taken")

	if h.journal.Enabled() {
		go h.submitToJournal(sig)
	}
	return nil
}

// CancelTrade removes the signal's ledger entry so the signal shows as
// available again.
func (h *Handlers) CancelTrade(ctx context.Context, signalID string) error {
	taken, err := h.ledger.Contains(ctx, signalID)
	if err != nil {
		return err
	}
	if !taken {
		return fmt.Errorf("signal %s: %w", signalID, ErrNotTaken)
	}

	if err := h.ledger.Remove(ctx, signalID); err != nil {
		return err
	}
	h.engine.SetTaken(signalID, false)

	h.logger.Info().Str("signal_id", signalID).Msg("trade cancelled")
	return nil
}

// CopyTrade writes the signal's core fields to the clipboard as plain text.
// A clipboard failure is logged but not treated as a trade error.
func (h *Handlers) CopyTrade(signalID string) (string, error) {
	sig, ok := h.engine.Get(signalID)
	if !ok {
		return "", fmt.Errorf("signal %s: %w", signalID, ErrSignalNotFound)
	}

	text := FormatSignal(sig)
	if h.clip == nil {
		return text, fmt.Errorf("no clipboard available")
	}
	if err := h.clip.Write(text); err != nil {
		h.logger.Warn().Err(err).Str("signal_id", signalID).Msg("clipboard write failed")
		return text, err
	}
	return text, nil
}

// FormatSignal renders the copy-trade text block.
func FormatSignal(sig models.Signal) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Pair: %s\n", sig.Pair)
	fmt.Fprintf(&b, "Type: %s\n", sig.Type)
	fmt.Fprintf(&b, "Entry: %s\n", sig.Entry)
	fmt.Fprintf(&b, "Stop Loss: %s\n", sig.StopLoss)
	fmt.Fprintf(&b, "Take Profit: %s", strings.Join(sig.TakeProfit, ", "))
	return b.String()
}

// submitToJournal converts the signal into a pending trade record and posts
// it. Runs outside the request lifecycle with its own deadline.
func (h *Handlers) submitToJournal(sig models.Signal) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	trade := models.TradeRecord{
		Date:        time.Now().Format("2006-01-02"),
		Asset:       sig.Pair,
		Direction:   string(sig.Type),
		EntryPrice:  parsePrice(sig.Entry),
		StopLoss:    parsePrice(sig.StopLoss),
		TakeProfit:  parsePrice(sig.FirstTarget()),
		LotSize:     0,
		Outcome:     "Pending",
		Notes:       "Taken from signal center",
		StrategyTag: "Signal",
		PropFirm:    h.propFirm,
	}

	if err := h.journal.AddTrade(ctx, trade); err != nil {
		h.logger.Warn().Err(err).Str("signal_id", sig.ID).Msg("journal submission failed")
		return
	}
	h.logger.Info().Str("signal_id", sig.ID).Msg("trade journaled")
}

func parsePrice(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}
