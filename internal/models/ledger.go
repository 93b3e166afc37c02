package models

import (
	"encoding/json"
	"time"
)

// LedgerEntry records that the user has taken a signal. The entry carries a
// denormalized copy of the signal's core fields so the journal remains
// meaningful even after the source refreshes the signal away.
//
// SignalID is the canonical identity field. Entries written by an earlier
// version of the app used "id" instead; that field is still accepted on
// decode and migrated to signal_id on the next write.
type LedgerEntry struct {
	SignalID   string     `json:"signal_id"`
	Pair       string     `json:"pair"`
	Type       SignalType `json:"type"`
	Entry      string     `json:"entry"`
	StopLoss   string     `json:"stop_loss"`
	TakeProfit []string   `json:"take_profit"`
	Timestamp  time.Time  `json:"timestamp"`
}

// UnmarshalJSON accepts both the canonical signal_id field and the legacy id
// field (string or numeric) left behind by the earlier implementation.
func (e *LedgerEntry) UnmarshalJSON(data []byte) error {
	type alias LedgerEntry
	aux := struct {
		*alias
		LegacyID json.RawMessage `json:"id"`
	}{alias: (*alias)(e)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if e.SignalID == "" && len(aux.LegacyID) > 0 {
		e.SignalID = normalizeID(aux.LegacyID)
	}
	return nil
}

// EntryFromSignal builds a ledger entry from a signal's current fields.
func EntryFromSignal(s Signal, at time.Time) LedgerEntry {
	tp := make([]string, len(s.TakeProfit))
	copy(tp, s.TakeProfit)
	return LedgerEntry{
		SignalID:   s.ID,
		Pair:       s.Pair,
		Type:       s.Type,
		Entry:      s.Entry,
		StopLoss:   s.StopLoss,
		TakeProfit: tp,
		Timestamp:  at,
	}
}
