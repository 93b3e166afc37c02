package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/fundedlabs/signal-center/internal/bus"
	"github.com/fundedlabs/signal-center/internal/common"
	"github.com/fundedlabs/signal-center/internal/config"
	"github.com/fundedlabs/signal-center/internal/models"
	"github.com/fundedlabs/signal-center/internal/storage"
)

func TestSnapshot_PollingFetchesFeed(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"messages":[{"id":1,"text":"first"},{"id":"two","text":"second"}]}`))
	}))
	defer ts.Close()

	feed := New(config.SourceConfig{
		Strategy: config.StrategyPolling,
		FeedURL:  ts.URL,
	}, common.NewSilentLogger(), WithHTTPClient(ts.Client()))

	msgs, err := feed.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("unexpected snapshot error: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].ID != "1" || msgs[1].ID != "two" {
		t.Errorf("unexpected message ids: %s, %s", msgs[0].ID, msgs[1].ID)
	}
}

func TestSnapshot_PollingPropagatesHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	feed := New(config.SourceConfig{
		Strategy: config.StrategyPolling,
		FeedURL:  ts.URL,
	}, common.NewSilentLogger())

	if _, err := feed.Snapshot(context.Background()); err == nil {
		t.Fatal("expected error for non-200 feed response")
	}
}

func TestSnapshot_LocalReadsStore(t *testing.T) {
	kv := storage.NewMemoryKV()
	store := NewMessageStore(kv, bus.New())
	ctx := context.Background()

	if err := store.Append(ctx, models.RawMessage{ID: "a", Text: "hello", Timestamp: time.Now()}); err != nil {
		t.Fatalf("unexpected append error: %v", err)
	}

	feed := New(config.SourceConfig{Strategy: config.StrategyLocal},
		common.NewSilentLogger(), WithLocalStore(store))

	msgs, err := feed.Snapshot(ctx)
	if err != nil {
		t.Fatalf("unexpected snapshot error: %v", err)
	}
	if len(msgs) != 1 || msgs[0].ID != "a" {
		t.Errorf("unexpected messages: %+v", msgs)
	}
}

func TestSnapshot_PushHasNoSnapshot(t *testing.T) {
	feed := New(config.SourceConfig{Strategy: config.StrategyPush},
		common.NewSilentLogger())

	if _, err := feed.Snapshot(context.Background()); !errors.Is(err, ErrNoSnapshot) {
		t.Fatalf("expected ErrNoSnapshot, got %v", err)
	}
}

func TestRun_PollingEmitsInitialRefresh(t *testing.T) {
	feed := New(config.SourceConfig{
		Strategy: config.StrategyPolling,
		FeedURL:  "http://unused.example.com",
	}, common.NewSilentLogger(), WithPollInterval(time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := make(chan Event, 1)
	done := make(chan error, 1)
	go func() { done <- feed.Run(ctx, out) }()

	select {
	case ev := <-out:
		if ev.Kind != EventRefresh {
			t.Errorf("expected refresh event, got %v", ev.Kind)
		}
	case <-time.After(time.Second):
		t.Fatal("expected an initial refresh event")
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("feed did not stop after cancellation")
	}
}

func TestRun_LocalWakesOnNewSignalBroadcast(t *testing.T) {
	kv := storage.NewMemoryKV()
	b := bus.New()
	store := NewMessageStore(kv, b)

	feed := New(config.SourceConfig{Strategy: config.StrategyLocal},
		common.NewSilentLogger(),
		WithLocalStore(store), WithBus(b), WithPollInterval(time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := make(chan Event, 4)
	go feed.Run(ctx, out)

	// Drain the initial refresh.
	select {
	case <-out:
	case <-time.After(time.Second):
		t.Fatal("expected an initial refresh event")
	}

	if err := store.Append(ctx, models.RawMessage{ID: "x", Text: "hi", Timestamp: time.Now()}); err != nil {
		t.Fatalf("unexpected append error: %v", err)
	}

	select {
	case ev := <-out:
		if ev.Kind != EventRefresh {
			t.Errorf("expected refresh event after append, got %v", ev.Kind)
		}
	case <-time.After(time.Second):
		t.Fatal("expected refresh event after store append")
	}
}

func TestRun_PushEmitsOneMessagePerSignalFrame(t *testing.T) {
	upgrader := websocket.Upgrader{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("failed to upgrade connection: %v", err)
			return
		}
		defer conn.Close()

		// A non-signal frame first: it must not produce an event.
		conn.WriteMessage(websocket.TextMessage,
			[]byte(`{"event":"heartbeat","message":{"id":"ignored","text":"x"}}`))
		conn.WriteMessage(websocket.TextMessage,
			[]byte(`{"event":"new_signal","message":{"id":"p1","text":"hello","timestamp":"2026-03-05T14:30:00Z"}}`))

		// Hold the connection open until the client tears it down.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer ts.Close()

	feed := New(config.SourceConfig{
		Strategy:  config.StrategyPush,
		SocketURL: "ws" + strings.TrimPrefix(ts.URL, "http"),
	}, common.NewSilentLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := make(chan Event, 4)
	done := make(chan error, 1)
	go func() { done <- feed.Run(ctx, out) }()

	select {
	case ev := <-out:
		if ev.Kind != EventMessage {
			t.Fatalf("expected message event, got %v", ev.Kind)
		}
		if ev.Message == nil || ev.Message.ID != "p1" {
			t.Fatalf("unexpected pushed message %+v", ev.Message)
		}
		if ev.Message.Text != "hello" {
			t.Errorf("unexpected message text %q", ev.Message.Text)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("expected an event for the new_signal frame")
	}

	// The heartbeat frame must have been skipped, so nothing else is pending.
	select {
	case ev := <-out:
		t.Fatalf("unexpected extra event %+v", ev)
	case <-time.After(100 * time.Millisecond):
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("push feed did not stop after cancellation")
	}

	// No events may arrive after teardown.
	select {
	case ev := <-out:
		t.Fatalf("event emitted after teardown: %+v", ev)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestMessageStore_AppendPrepends(t *testing.T) {
	store := NewMessageStore(storage.NewMemoryKV(), bus.New())
	ctx := context.Background()

	if err := store.Append(ctx, models.RawMessage{ID: "first", Text: "1", Timestamp: time.Now()}); err != nil {
		t.Fatalf("unexpected append error: %v", err)
	}
	if err := store.Append(ctx, models.RawMessage{ID: "second", Text: "2", Timestamp: time.Now()}); err != nil {
		t.Fatalf("unexpected append error: %v", err)
	}

	msgs, err := store.List(ctx)
	if err != nil {
		t.Fatalf("unexpected list error: %v", err)
	}
	if len(msgs) != 2 || msgs[0].ID != "second" {
		t.Errorf("expected newest message first, got %+v", msgs)
	}
}

func TestMessageStore_RejectsEmptyID(t *testing.T) {
	store := NewMessageStore(storage.NewMemoryKV(), bus.New())

	if err := store.Append(context.Background(), models.RawMessage{Text: "no id"}); err == nil {
		t.Fatal("expected error for message with no id")
	}
}
