// Package bus provides an in-process publish/subscribe channel for
// cross-component notifications. It replaces the ambient window-level events
// the web client used: the bus is constructed once and injected, so there is
// no hidden global state.
package bus

import (
	"sync"
)

// Topic names a broadcast channel.
type Topic string

const (
	// TopicLedgerChanged fires on any trade ledger mutation.
	TopicLedgerChanged Topic = "ledger_changed"
	// TopicNewSignalSent fires when an authoring surface writes a new raw
	// message into the local message store.
	TopicNewSignalSent Topic = "new_signal_sent"
)

// Bus is a fire-and-forget broadcast bus. Publish never blocks: a subscriber
// that has not drained its channel coalesces the pending notification with
// the next one, which is safe because notifications carry no payload: the
// subscriber re-reads authoritative state on wake.
type Bus struct {
	mu   sync.RWMutex
	subs map[Topic][]chan struct{}
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{subs: make(map[Topic][]chan struct{})}
}

// Subscribe registers interest in a topic. The returned channel receives a
// signal per broadcast (coalesced under load). The cancel func removes the
// subscription; after it returns no further signals are delivered.
func (b *Bus) Subscribe(topic Topic) (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	b.mu.Lock()
	b.subs[topic] = append(b.subs[topic], ch)
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		subs := b.subs[topic]
		for i, c := range subs {
			if c == ch {
				b.subs[topic] = append(subs[:i], subs[i+1:]...)
				break
			}
		}
	}
	return ch, cancel
}

// Publish notifies all current subscribers of a topic without blocking.
func (b *Bus) Publish(topic Topic) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs[topic] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
