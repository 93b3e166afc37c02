// Package journal submits completed trade records to the journal service.
package journal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fundedlabs/signal-center/internal/models"
)

// Client communicates with the trade journal REST API. A client with an
// empty base URL is a no-op; journal submission is best-effort and never
// blocks the trade ledger.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a journal client targeting the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Enabled reports whether a journal endpoint is configured.
func (c *Client) Enabled() bool {
	return c.baseURL != ""
}

// AddTrade records a trade in the journal.
// POST /api/trades with JSON body -> 200/201 on success.
func (c *Client) AddTrade(ctx context.Context, trade models.TradeRecord) error {
	if !c.Enabled() {
		return nil
	}

	jsonData, err := json.Marshal(trade)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/trades", bytes.NewReader(jsonData))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach journal service: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("journal returned %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
