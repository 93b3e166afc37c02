// Package source produces raw signal messages for the reconciliation engine.
//
// Three interchangeable strategies sit behind one Feed type, so the engine
// never knows where messages come from:
//
//   - polling: fetches the full message set from an HTTP feed on a cadence
//   - push:    holds a websocket open and yields one message per push event
//   - local:   reads a message list persisted in the embedded key-value store
//
// A Feed yields "current" messages via Snapshot and "future" activity via
// Run: refresh hints for snapshot-capable strategies, incremental messages
// for push.
package source

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/fundedlabs/signal-center/internal/bus"
	"github.com/fundedlabs/signal-center/internal/common"
	"github.com/fundedlabs/signal-center/internal/config"
	"github.com/fundedlabs/signal-center/internal/models"
)

// EventKind discriminates feed events.
type EventKind int

const (
	// EventRefresh asks the consumer to run a full refresh now.
	EventRefresh EventKind = iota
	// EventMessage carries exactly one incremental raw message.
	EventMessage
)

// Event is one unit of feed activity delivered to the engine.
type Event struct {
	Kind    EventKind
	Message *models.RawMessage
}

// ErrNoSnapshot is returned by Snapshot for strategies that cannot produce
// the current message set on demand (push). Consumers fall back to
// re-annotating their last published list.
var ErrNoSnapshot = errors.New("source strategy provides no snapshot")

const (
	defaultPollInterval = 5 * time.Second
	defaultHTTPTimeout  = 10 * time.Second
)

// Feed is a pluggable raw-message source.
type Feed struct {
	strategy     string
	feedURL      string
	socketURL    string
	pollInterval time.Duration
	httpClient   *http.Client
	store        *MessageStore
	bus          *bus.Bus
	logger       *common.Logger
}

// Option configures Feed construction parameters.
type Option func(*Feed)

// WithHTTPClient overrides the HTTP client used by the polling strategy.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Feed) {
		if c != nil {
			f.httpClient = c
		}
	}
}

// WithPollInterval overrides the default polling/re-read cadence.
func WithPollInterval(d time.Duration) Option {
	return func(f *Feed) {
		if d > 0 {
			f.pollInterval = d
		}
	}
}

// WithLocalStore injects the message store read by the local strategy.
func WithLocalStore(s *MessageStore) Option {
	return func(f *Feed) { f.store = s }
}

// WithBus injects the notification bus the local strategy listens on.
func WithBus(b *bus.Bus) Option {
	return func(f *Feed) { f.bus = b }
}

// New constructs a feed for the requested strategy.
func New(cfg config.SourceConfig, logger *common.Logger, opts ...Option) *Feed {
	interval := defaultPollInterval
	if cfg.PollSeconds > 0 {
		interval = time.Duration(cfg.PollSeconds) * time.Second
	}

	f := &Feed{
		strategy:     cfg.Strategy,
		feedURL:      cfg.FeedURL,
		socketURL:    cfg.SocketURL,
		pollInterval: interval,
		httpClient:   &http.Client{Timeout: defaultHTTPTimeout},
		logger:       logger,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Strategy returns the configured strategy name.
func (f *Feed) Strategy() string {
	return f.strategy
}

// Snapshot returns the current raw message set for snapshot-capable
// strategies, or ErrNoSnapshot for push.
func (f *Feed) Snapshot(ctx context.Context) ([]models.RawMessage, error) {
	switch f.strategy {
	case config.StrategyPolling:
		return f.fetchMessages(ctx)
	case config.StrategyLocal:
		return f.store.List(ctx)
	default:
		return nil, ErrNoSnapshot
	}
}

// Run delivers feed events onto out until the context is canceled. After Run
// returns no further events are emitted, the socket (if any) is released,
// and all timers are stopped.
func (f *Feed) Run(ctx context.Context, out chan<- Event) error {
	switch f.strategy {
	case config.StrategyPush:
		return f.runPush(ctx, out)
	case config.StrategyLocal:
		return f.runLocal(ctx, out)
	default:
		return f.runPolling(ctx, out)
	}
}

// emit sends one event unless the context has been canceled.
func (f *Feed) emit(ctx context.Context, out chan<- Event, ev Event) error {
	select {
	case out <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
