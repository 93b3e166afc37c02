package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestRawMessage_DecodesNumericID(t *testing.T) {
	var msg RawMessage
	if err := json.Unmarshal([]byte(`{"id": 1234, "text": "hello"}`), &msg); err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	if msg.ID != "1234" {
		t.Errorf("expected id 1234, got %s", msg.ID)
	}
	if msg.Text != "hello" {
		t.Errorf("expected text hello, got %s", msg.Text)
	}
}

func TestRawMessage_DecodesStringID(t *testing.T) {
	var msg RawMessage
	if err := json.Unmarshal([]byte(`{"id": "abc-1", "text": "hello"}`), &msg); err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	if msg.ID != "abc-1" {
		t.Errorf("expected id abc-1, got %s", msg.ID)
	}
}

func TestRawMessage_DecodesTimestampForms(t *testing.T) {
	var fromString RawMessage
	if err := json.Unmarshal([]byte(`{"id":"1","timestamp":"2026-03-05T14:30:00Z"}`), &fromString); err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	want := time.Date(2026, 3, 5, 14, 30, 0, 0, time.UTC)
	if !fromString.Timestamp.Equal(want) {
		t.Errorf("expected %v, got %v", want, fromString.Timestamp)
	}

	var fromMillis RawMessage
	if err := json.Unmarshal([]byte(`{"id":"2","timestamp":1772980200000}`), &fromMillis); err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	if fromMillis.Timestamp.IsZero() {
		t.Error("expected non-zero timestamp from unix millis")
	}
}

func TestFormatTimestamp(t *testing.T) {
	if got := FormatTimestamp(time.Time{}); got != "N/A" {
		t.Errorf("expected N/A for zero time, got %s", got)
	}

	ts := time.Date(2026, 3, 5, 14, 30, 5, 0, time.UTC)
	if got := FormatTimestamp(ts); got != "3/5/2026, 2:30:05 PM" {
		t.Errorf("unexpected formatted timestamp %s", got)
	}
}

func TestLedgerEntry_DecodesCanonicalSignalID(t *testing.T) {
	var entry LedgerEntry
	if err := json.Unmarshal([]byte(`{"signal_id":"42","pair":"EURUSD"}`), &entry); err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	if entry.SignalID != "42" {
		t.Errorf("expected signal id 42, got %s", entry.SignalID)
	}
}

func TestLedgerEntry_FoldsLegacyID(t *testing.T) {
	var fromString LedgerEntry
	if err := json.Unmarshal([]byte(`{"id":"42","pair":"EURUSD"}`), &fromString); err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	if fromString.SignalID != "42" {
		t.Errorf("expected legacy string id folded to 42, got %s", fromString.SignalID)
	}

	var fromNumber LedgerEntry
	if err := json.Unmarshal([]byte(`{"id":42,"pair":"EURUSD"}`), &fromNumber); err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	if fromNumber.SignalID != "42" {
		t.Errorf("expected legacy numeric id folded to 42, got %s", fromNumber.SignalID)
	}
}

func TestLedgerEntry_CanonicalWinsOverLegacy(t *testing.T) {
	var entry LedgerEntry
	if err := json.Unmarshal([]byte(`{"signal_id":"new","id":"old"}`), &entry); err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	if entry.SignalID != "new" {
		t.Errorf("expected canonical field to win, got %s", entry.SignalID)
	}
}

func TestEntryFromSignal_CopiesLevels(t *testing.T) {
	sig := Signal{
		ID:         "7",
		Pair:       "XAUUSD",
		Type:       SignalSell,
		Entry:      "2350.0",
		StopLoss:   "2360.0",
		TakeProfit: []string{"2340.0", "2330.0"},
	}
	at := time.Now()

	entry := EntryFromSignal(sig, at)
	if entry.SignalID != "7" || entry.Pair != "XAUUSD" {
		t.Errorf("unexpected entry fields: %+v", entry)
	}
	if !entry.Timestamp.Equal(at) {
		t.Errorf("expected timestamp %v, got %v", at, entry.Timestamp)
	}

	entry.TakeProfit[0] = "mutated"
	if sig.TakeProfit[0] != "2340.0" {
		t.Error("entry must hold its own copy of the level slice")
	}
}
