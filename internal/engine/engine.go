// Package engine reconciles the signal feed with the trade ledger.
//
// The engine owns the authoritative in-memory signal list. On every refresh
// trigger (initial load, poll tick, push event, ledger-changed broadcast,
// resync tick) it re-derives each signal's taken annotation from current
// ledger membership. A full refresh replaces the whole list; an incremental
// push prepends exactly one signal and leaves the rest untouched. Any fetch
// failure keeps the previously published list and retries on the next tick.
package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fundedlabs/signal-center/internal/bus"
	"github.com/fundedlabs/signal-center/internal/common"
	"github.com/fundedlabs/signal-center/internal/ledger"
	"github.com/fundedlabs/signal-center/internal/metrics"
	"github.com/fundedlabs/signal-center/internal/models"
	"github.com/fundedlabs/signal-center/internal/signal"
	"github.com/fundedlabs/signal-center/internal/source"
)

const defaultResyncInterval = 5 * time.Second

// Stats summarizes the published list for the performance panel.
type Stats struct {
	Total   int `json:"signals_sent"`
	Winners int `json:"winning_trades"`
	Taken   int `json:"taken_trades"`
}

// Engine merges source output with ledger state into the published list.
type Engine struct {
	feed   *source.Feed
	ledger *ledger.Ledger
	bus    *bus.Bus
	logger *common.Logger
	resync time.Duration

	mu        sync.RWMutex
	published []models.Signal

	subMu   sync.Mutex
	subs    map[int]chan []models.Signal
	nextSub int
}

// New creates an engine over a feed and a ledger. resyncSeconds <= 0 selects
// the default fallback cadence.
func New(feed *source.Feed, l *ledger.Ledger, b *bus.Bus, logger *common.Logger, resyncSeconds int) *Engine {
	resync := defaultResyncInterval
	if resyncSeconds > 0 {
		resync = time.Duration(resyncSeconds) * time.Second
	}
	return &Engine{
		feed:      feed,
		ledger:    l,
		bus:       b,
		logger:    logger,
		resync:    resync,
		published: []models.Signal{},
		subs:      make(map[int]chan []models.Signal),
	}
}

// Run processes feed events, ledger-changed broadcasts, and the fallback
// resync tick until the context is canceled. Events are handled one at a
// time to completion, so ledger snapshots and list republishes never
// interleave. After Run returns, no further republishes occur.
func (e *Engine) Run(ctx context.Context) error {
	events := make(chan source.Event, 16)

	ledgerCh, cancelLedger := e.bus.Subscribe(bus.TopicLedgerChanged)
	defer cancelLedger()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return e.feed.Run(gctx, events)
	})

	g.Go(func() error {
		ticker := time.NewTicker(e.resync)
		defer ticker.Stop()

		for {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case ev := <-events:
				switch ev.Kind {
				case source.EventMessage:
					e.handleIncremental(gctx, ev.Message)
				default:
					e.refresh(gctx, "source")
				}
			case <-ledgerCh:
				e.refresh(gctx, "ledger")
			case <-ticker.C:
				e.refresh(gctx, "resync")
			}
		}
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// refresh runs one full reconciliation pass. The message set and the ledger
// id set are fetched concurrently so both snapshots are consistent at the
// merge instant. On any fetch failure the previously published list stays
// untouched and the pass is retried on the next trigger, with no backoff
// and no retry limit.
func (e *Engine) refresh(ctx context.Context, trigger string) {
	var (
		msgs       []models.RawMessage
		ids        map[string]bool
		noSnapshot bool
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		msgs, err = e.feed.Snapshot(gctx)
		if errors.Is(err, source.ErrNoSnapshot) {
			noSnapshot = true
			return nil
		}
		return err
	})
	g.Go(func() error {
		var err error
		ids, err = e.ledger.IDSet(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		metrics.RefreshesTotal.WithLabelValues(trigger, "error").Inc()
		e.logger.Warn().Err(err).Str("trigger", trigger).Msg("refresh failed, keeping last published list")
		return
	}

	if noSnapshot {
		// Push-only feeds carry no on-demand snapshot; re-derive taken
		// annotations on the current list from fresh ledger membership.
		e.reannotate(ids)
		metrics.RefreshesTotal.WithLabelValues(trigger, "ok").Inc()
		return
	}

	parsed := signal.ParseAll(msgs, func(pf *signal.ParseFailure) {
		metrics.ParseFailuresTotal.Inc()
		e.logger.Warn().Str("message_id", pf.MessageID).Str("reason", pf.Reason).Msg("dropping unparseable message")
	})
	for i := range parsed {
		parsed[i].Taken = ids[parsed[i].ID]
	}

	e.mu.Lock()
	e.published = parsed
	e.mu.Unlock()

	metrics.RefreshesTotal.WithLabelValues(trigger, "ok").Inc()
	e.logger.Debug().Str("trigger", trigger).Int("signals", len(parsed)).Msg("published list replaced")
	e.publish()
}

// handleIncremental prepends one pushed signal. Other entries keep their
// current annotations; an incremental update is O(1), never a re-derive of
// the whole list.
func (e *Engine) handleIncremental(ctx context.Context, msg *models.RawMessage) {
	if msg == nil {
		return
	}

	sig, err := signal.Parse(*msg)
	if err != nil {
		metrics.ParseFailuresTotal.Inc()
		e.logger.Warn().Err(err).Msg("dropping unparseable push message")
		return
	}

	taken, err := e.ledger.Contains(ctx, sig.ID)
	if err != nil {
		// Ledger is ground truth; default untaken and let the next full
		// pass correct the annotation.
		e.logger.Warn().Err(err).Str("signal_id", sig.ID).Msg("ledger lookup failed for pushed signal")
		taken = false
	}
	sig.Taken = taken

	e.mu.Lock()
	e.published = append([]models.Signal{sig}, e.published...)
	e.mu.Unlock()

	e.logger.Debug().Str("signal_id", sig.ID).Msg("pushed signal prepended")
	e.publish()
}

// reannotate re-derives taken flags on the current list without replacing it.
// Idempotent and side-effect-free with respect to the ledger.
func (e *Engine) reannotate(ids map[string]bool) {
	e.mu.Lock()
	for i := range e.published {
		e.published[i].Taken = ids[e.published[i].ID]
	}
	e.mu.Unlock()
	e.publish()
}

// SetTaken flips the published annotation for one signal so reads issued
// between an action and the next reconciliation pass already agree with the
// ledger. The annotation is a projection; the next pass re-derives it.
func (e *Engine) SetTaken(signalID string, taken bool) {
	e.mu.Lock()
	for i := range e.published {
		if e.published[i].ID == signalID {
			e.published[i].Taken = taken
		}
	}
	e.mu.Unlock()
	e.publish()
}

// Signals returns a copy of the published list.
func (e *Engine) Signals() []models.Signal {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]models.Signal, len(e.published))
	copy(out, e.published)
	return out
}

// Get returns the published signal with the given id.
func (e *Engine) Get(signalID string) (models.Signal, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, s := range e.published {
		if s.ID == signalID {
			return s, true
		}
	}
	return models.Signal{}, false
}

// Stats summarizes the published list.
func (e *Engine) Stats() Stats {
	e.mu.RLock()
	defer e.mu.RUnlock()
	st := Stats{Total: len(e.published)}
	for _, s := range e.published {
		if s.Positive != nil && *s.Positive {
			st.Winners++
		}
		if s.Taken {
			st.Taken++
		}
	}
	return st
}

// Subscribe registers a rendering-boundary consumer. Each republish delivers
// the full list; a slow consumer sees only the most recent one. The cancel
// func detaches the subscription.
func (e *Engine) Subscribe() (<-chan []models.Signal, func()) {
	ch := make(chan []models.Signal, 1)

	e.subMu.Lock()
	id := e.nextSub
	e.nextSub++
	e.subs[id] = ch
	e.subMu.Unlock()

	cancel := func() {
		e.subMu.Lock()
		delete(e.subs, id)
		e.subMu.Unlock()
	}
	return ch, cancel
}

// publish delivers the current list to all subscribers without blocking,
// coalescing when a subscriber has not drained the previous update.
func (e *Engine) publish() {
	list := e.Signals()

	e.subMu.Lock()
	defer e.subMu.Unlock()
	for _, ch := range e.subs {
		select {
		case ch <- list:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- list:
			default:
			}
		}
	}
}
