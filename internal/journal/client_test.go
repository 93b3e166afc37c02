package journal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fundedlabs/signal-center/internal/models"
)

func TestAddTrade_PostsJSON(t *testing.T) {
	var got models.TradeRecord
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/api/trades" {
			t.Errorf("expected /api/trades, got %s", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected JSON content type, got %s", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("failed to decode payload: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer ts.Close()

	c := NewClient(ts.URL)
	trade := models.TradeRecord{
		Date:      "2026-03-05",
		Asset:     "EURUSD",
		Direction: "Buy",
		Outcome:   "Pending",
		PropFirm:  "TestFirm",
	}

	if err := c.AddTrade(context.Background(), trade); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Asset != "EURUSD" || got.Outcome != "Pending" {
		t.Errorf("unexpected payload %+v", got)
	}
}

func TestAddTrade_ServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer ts.Close()

	c := NewClient(ts.URL)
	if err := c.AddTrade(context.Background(), models.TradeRecord{}); err == nil {
		t.Fatal("expected error for 500 response")
	}
}

func TestAddTrade_DisabledClientIsNoOp(t *testing.T) {
	c := NewClient("")
	if c.Enabled() {
		t.Error("client with empty URL must report disabled")
	}
	if err := c.AddTrade(context.Background(), models.TradeRecord{}); err != nil {
		t.Errorf("disabled client must not error: %v", err)
	}
}
