package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/fundedlabs/signal-center/internal/models"
)

// feedResponse matches the message feed payload: { "messages": [...] }.
type feedResponse struct {
	Messages []models.RawMessage `json:"messages"`
}

// runPolling emits a refresh hint immediately and then on every poll tick.
// The consumer performs the actual fetch through Snapshot, so the message
// set and the ledger snapshot can be fetched concurrently at merge time.
func (f *Feed) runPolling(ctx context.Context, out chan<- Event) error {
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
		}
	}
}

// fetchMessages retrieves the full message set from the HTTP feed.
func (f *Feed) fetchMessages(ctx context.Context) ([]models.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("message feed unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("message feed returned %d", resp.StatusCode)
	}

	var payload feedResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode feed response: %w", err)
	}
	return payload.Messages, nil
}
