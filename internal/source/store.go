package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fundedlabs/signal-center/internal/bus"
	"github.com/fundedlabs/signal-center/internal/interfaces"
	"github.com/fundedlabs/signal-center/internal/models"
)

// messagesKey is the KV key holding the JSON-encoded local message list.
const messagesKey = "signal_messages"

// MessageStore persists the local raw-message list in the key-value store.
// It backs the local source strategy and the admin injection endpoint.
type MessageStore struct {
	kv  interfaces.KeyValueStorage
	bus *bus.Bus
}

// NewMessageStore creates a message store over the given key-value store.
func NewMessageStore(kv interfaces.KeyValueStorage, b *bus.Bus) *MessageStore {
	return &MessageStore{kv: kv, bus: b}
}

// List returns the persisted message list, newest first.
func (s *MessageStore) List(ctx context.Context) ([]models.RawMessage, error) {
	raw, err := s.kv.Get(ctx, messagesKey)
	if err != nil {
		if errors.Is(err, interfaces.ErrKeyNotFound) {
			return []models.RawMessage{}, nil
		}
		return nil, err
	}

	var msgs []models.RawMessage
	if err := json.Unmarshal([]byte(raw), &msgs); err != nil {
		return nil, fmt.Errorf("corrupt message store payload: %w", err)
	}
	return msgs, nil
}

// Append prepends a message to the persisted list and broadcasts the
// new-signal notification so any mounted local feed re-reads immediately.
func (s *MessageStore) Append(ctx context.Context, msg models.RawMessage) error {
	if msg.ID == "" {
		return fmt.Errorf("message has no id")
	}

	msgs, err := s.List(ctx)
	if err != nil {
		return err
	}
	msgs = append([]models.RawMessage{msg}, msgs...)

	data, err := json.Marshal(msgs)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, messagesKey, string(data)); err != nil {
		return err
	}

	if s.bus != nil {
		s.bus.Publish(bus.TopicNewSignalSent)
	}
	return nil
}
