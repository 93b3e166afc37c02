package signal

import (
	"strings"
	"testing"
	"time"

	"github.com/fundedlabs/signal-center/internal/models"
)

func validText() string {
	return strings.Join([]string{
		"EURUSD",
		"BUY signal",
		"Entry 1.0850",
		"SL at 1.0800",
		"TP at 1.0900, 1.0950",
		"Confidence 87%",
		"-",
		"Bullish order block reaction",
	}, "\n")
}

func TestParse_ValidBuySignal(t *testing.T) {
	msg := models.RawMessage{
		ID:        "42",
		Text:      validText(),
		Timestamp: time.Date(2026, 3, 5, 14, 30, 0, 0, time.UTC),
	}

	sig, err := Parse(msg)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}

	if sig.ID != "42" {
		t.Errorf("expected signal id 42, got %s", sig.ID)
	}
	if sig.Pair != "EURUSD" {
		t.Errorf("expected pair EURUSD, got %s", sig.Pair)
	}
	if sig.Type != models.SignalBuy {
		t.Errorf("expected Buy, got %s", sig.Type)
	}
	if sig.Entry != "1.0850" {
		t.Errorf("expected entry 1.0850, got %s", sig.Entry)
	}
	if sig.StopLoss != "1.0800" {
		t.Errorf("expected stop loss 1.0800, got %s", sig.StopLoss)
	}
	if len(sig.TakeProfit) != 2 || sig.TakeProfit[0] != "1.0900" || sig.TakeProfit[1] != "1.0950" {
		t.Errorf("expected take profit [1.0900 1.0950], got %v", sig.TakeProfit)
	}
	if sig.Confidence != 87 {
		t.Errorf("expected confidence 87, got %d", sig.Confidence)
	}
	if sig.Analysis != "Bullish order block reaction" {
		t.Errorf("unexpected analysis %q", sig.Analysis)
	}
	if sig.Status != models.StatusActive {
		t.Errorf("expected active status, got %s", sig.Status)
	}
	if sig.Taken {
		t.Error("new signal should not be taken")
	}
}

func TestParse_SentinelFields(t *testing.T) {
	sig, err := Parse(models.RawMessage{ID: "1", Text: validText()})
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}

	if sig.Timeframe != "N/A" {
		t.Errorf("expected timeframe N/A, got %s", sig.Timeframe)
	}
	if sig.RSR != "N/A" || sig.Pips != "N/A" {
		t.Errorf("expected N/A sentinels, got rsr=%s pips=%s", sig.RSR, sig.Pips)
	}
	if sig.ICTConcepts == nil || len(sig.ICTConcepts) != 0 {
		t.Errorf("expected empty concepts slice, got %v", sig.ICTConcepts)
	}
	if sig.Positive != nil {
		t.Error("expected nil outcome for a fresh signal")
	}
	if sig.Timestamp != "N/A" {
		t.Errorf("expected N/A timestamp for zero time, got %s", sig.Timestamp)
	}
}

func TestParse_SellDirection(t *testing.T) {
	text := strings.Replace(validText(), "BUY signal", "SELL signal", 1)
	sig, err := Parse(models.RawMessage{ID: "2", Text: text})
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if sig.Type != models.SignalSell {
		t.Errorf("expected Sell, got %s", sig.Type)
	}
}

func TestParse_TooFewLines(t *testing.T) {
	_, err := Parse(models.RawMessage{ID: "3", Text: "EURUSD\nBUY signal"})
	if err == nil {
		t.Fatal("expected error for short message")
	}
	pf, ok := err.(*ParseFailure)
	if !ok {
		t.Fatalf("expected *ParseFailure, got %T", err)
	}
	if pf.MessageID != "3" {
		t.Errorf("expected message id 3 in failure, got %s", pf.MessageID)
	}
}

func TestParse_NonNumericEntry(t *testing.T) {
	text := strings.Replace(validText(), "Entry 1.0850", "Entry soon", 1)
	if _, err := Parse(models.RawMessage{ID: "4", Text: text}); err == nil {
		t.Fatal("expected error for non-numeric entry price")
	}
}

func TestParse_EmptyPair(t *testing.T) {
	text := strings.Replace(validText(), "EURUSD", "   ", 1)
	if _, err := Parse(models.RawMessage{ID: "5", Text: text}); err == nil {
		t.Fatal("expected error for empty pair line")
	}
}

func TestParse_SingleTakeProfit(t *testing.T) {
	text := strings.Replace(validText(), "TP at 1.0900, 1.0950", "TP at 1.0900", 1)
	sig, err := Parse(models.RawMessage{ID: "6", Text: text})
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if len(sig.TakeProfit) != 1 || sig.TakeProfit[0] != "1.0900" {
		t.Errorf("expected single level [1.0900], got %v", sig.TakeProfit)
	}
	if sig.FirstTarget() != "1.0900" {
		t.Errorf("expected first target 1.0900, got %s", sig.FirstTarget())
	}
}

func TestParse_NonNumericTakeProfit(t *testing.T) {
	text := strings.Replace(validText(), "TP at 1.0900, 1.0950", "TP at open, market", 1)
	if _, err := Parse(models.RawMessage{ID: "7", Text: text}); err == nil {
		t.Fatal("expected error for non-numeric take profit levels")
	}
}

func TestParse_IdentityIsStable(t *testing.T) {
	msg := models.RawMessage{ID: "stable-id", Text: validText()}

	first, err := Parse(msg)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	second, err := Parse(msg)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("re-parsing changed identity: %s vs %s", first.ID, second.ID)
	}
}

func TestParseAll_DropsFailuresPreservingOrder(t *testing.T) {
	msgs := []models.RawMessage{
		{ID: "a", Text: validText()},
		{ID: "broken", Text: "not a signal"},
		{ID: "b", Text: strings.Replace(validText(), "EURUSD", "GBPUSD", 1)},
	}

	var failures []*ParseFailure
	out := ParseAll(msgs, func(pf *ParseFailure) {
		failures = append(failures, pf)
	})

	if len(out) != 2 {
		t.Fatalf("expected 2 parsed signals, got %d", len(out))
	}
	if out[0].ID != "a" || out[1].ID != "b" {
		t.Errorf("order not preserved: %s, %s", out[0].ID, out[1].ID)
	}
	if len(failures) != 1 || failures[0].MessageID != "broken" {
		t.Errorf("expected one failure for message broken, got %v", failures)
	}
}
