package source

import (
	"context"
	"time"

	"github.com/fundedlabs/signal-center/internal/bus"
)

// runLocal re-reads the persisted message list on a fixed cadence and
// whenever the authoring surface broadcasts that a new message was written.
// The read itself happens in Snapshot; Run only emits refresh hints.
func (f *Feed) runLocal(ctx context.Context, out chan<- Event) error {
	var notify <-chan struct{}
	if f.bus != nil {
		ch, cancel := f.bus.Subscribe(bus.TopicNewSignalSent)
		defer cancel()
		notify = ch
	}

	if err := f.emit(ctx, out, Event{Kind: EventRefresh}); err != nil {
		return err
	}

	ticker := time.NewTicker(f.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := f.emit(ctx, out, Event{Kind: EventRefresh}); err != nil {
				return err
			}
		case <-notify:
			if err := f.emit(ctx, out, Event{Kind: EventRefresh}); err != nil {
				return err
			}
		}
	}
}
