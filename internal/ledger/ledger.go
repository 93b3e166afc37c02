// Package ledger persists the set of signals the user has marked taken.
//
// The ledger is the single source of truth for a signal's taken state: the
// reconciliation engine re-derives the taken annotation from ledger
// membership on every pass and never trusts a stale flag. All mutations flow
// through Add/Remove so the idempotency and broadcast invariants hold no
// matter how many consumers share the backing store.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/fundedlabs/signal-center/internal/bus"
	"github.com/fundedlabs/signal-center/internal/common"
	"github.com/fundedlabs/signal-center/internal/interfaces"
	"github.com/fundedlabs/signal-center/internal/metrics"
	"github.com/fundedlabs/signal-center/internal/models"
)

// storageKey is the KV key holding the JSON-encoded entry list.
const storageKey = "trade_ledger_entries"

// ErrWriteFailed wraps persistence errors so callers can report a
// user-visible ledger write failure without flipping any local state.
var ErrWriteFailed = errors.New("ledger write failed")

// Ledger stores taken-trade entries in a key-value store and broadcasts a
// ledger-changed notification on every mutation.
type Ledger struct {
	kv     interfaces.KeyValueStorage
	bus    *bus.Bus
	logger *common.Logger
}

// New creates a ledger over the given key-value store.
func New(kv interfaces.KeyValueStorage, b *bus.Bus, logger *common.Logger) *Ledger {
	return &Ledger{kv: kv, bus: b, logger: logger}
}

// Add records that a signal has been taken. Adding the same signal id twice
// is idempotent: the existing entry is replaced, never duplicated.
func (l *Ledger) Add(ctx context.Context, entry models.LedgerEntry) error {
	if entry.SignalID == "" {
		return fmt.Errorf("%w: entry has no signal id", ErrWriteFailed)
	}

	entries, err := l.load(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}

	// Dedupe by signal id before insert; last write wins.
	kept := entries[:0]
	for _, e := range entries {
		if e.SignalID != entry.SignalID {
			kept = append(kept, e)
		}
	}
	kept = append(kept, entry)

	if err := l.store(ctx, kept); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}

	metrics.LedgerMutationsTotal.WithLabelValues("add").Inc()
	l.logger.Debug().Str("signal_id", entry.SignalID).Msg("ledger entry added")
	l.bus.Publish(bus.TopicLedgerChanged)
	return nil
}

// Remove deletes every entry recorded for the given signal id. Entries
// written with the legacy id field match too, because decoding folds that
// field into SignalID. Removing an absent id is a no-op, not an error.
func (l *Ledger) Remove(ctx context.Context, signalID string) error {
	entries, err := l.load(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}

	kept := entries[:0]
	for _, e := range entries {
		if e.SignalID != signalID {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(entries) {
		return nil
	}

	if err := l.store(ctx, kept); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}

	metrics.LedgerMutationsTotal.WithLabelValues("remove").Inc()
	l.logger.Debug().Str("signal_id", signalID).Msg("ledger entry removed")
	l.bus.Publish(bus.TopicLedgerChanged)
	return nil
}

// Contains reports whether an entry exists for the signal id.
func (l *Ledger) Contains(ctx context.Context, signalID string) (bool, error) {
	ids, err := l.IDSet(ctx)
	if err != nil {
		return false, err
	}
	return ids[signalID], nil
}

// ListAll returns every ledger entry, newest first.
func (l *Ledger) ListAll(ctx context.Context) ([]models.LedgerEntry, error) {
	entries, err := l.load(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})
	return entries, nil
}

// IDSet returns the set of taken signal ids. This is the snapshot the
// reconciliation engine merges against.
func (l *Ledger) IDSet(ctx context.Context) (map[string]bool, error) {
	entries, err := l.load(ctx)
	if err != nil {
		return nil, err
	}
	ids := make(map[string]bool, len(entries))
	for _, e := range entries {
		ids[e.SignalID] = true
	}
	return ids, nil
}

func (l *Ledger) load(ctx context.Context) ([]models.LedgerEntry, error) {
	raw, err := l.kv.Get(ctx, storageKey)
	if err != nil {
		if errors.Is(err, interfaces.ErrKeyNotFound) {
			return []models.LedgerEntry{}, nil
		}
		return nil, err
	}

	var entries []models.LedgerEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, fmt.Errorf("corrupt ledger payload: %w", err)
	}
	return entries, nil
}

func (l *Ledger) store(ctx context.Context, entries []models.LedgerEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return l.kv.Set(ctx, storageKey, string(data))
}
