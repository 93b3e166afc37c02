package models

import (
	"encoding/json"
	"time"
)

// RawMessage is an unparsed input unit from a signal source: an opaque text
// payload plus identity and creation time. Owned by the source adapter and
// read-only to the parser.
type RawMessage struct {
	ID        string
	Text      string
	Timestamp time.Time
}

// rawMessageWire matches the upstream feed payload. Upstream IDs may be
// numeric or string, and timestamps may be RFC3339 strings or unix
// milliseconds, so both fields are normalized on decode.
type rawMessageWire struct {
	ID        json.RawMessage `json:"id"`
	Text      string          `json:"text"`
	Timestamp json.RawMessage `json:"timestamp"`
}

// UnmarshalJSON decodes a feed message, normalizing the id to its decimal
// string form when the upstream sends a number.
func (m *RawMessage) UnmarshalJSON(data []byte) error {
	var wire rawMessageWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	m.Text = wire.Text
	m.ID = normalizeID(wire.ID)
	m.Timestamp = normalizeTimestamp(wire.Timestamp)
	return nil
}

// MarshalJSON encodes the message in the upstream wire shape.
func (m RawMessage) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID        string `json:"id"`
		Text      string `json:"text"`
		Timestamp string `json:"timestamp"`
	}{
		ID:        m.ID,
		Text:      m.Text,
		Timestamp: m.Timestamp.Format(time.RFC3339),
	})
}

func normalizeID(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return string(raw)
}

func normalizeTimestamp(raw json.RawMessage) time.Time {
	if len(raw) == 0 {
		return time.Time{}
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t
		}
		return time.Time{}
	}
	var ms int64
	if err := json.Unmarshal(raw, &ms); err == nil {
		return time.UnixMilli(ms)
	}
	return time.Time{}
}

// FormatTimestamp renders a message timestamp for display, mirroring the
// locale-style format the feed UI shows.
func FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.Format("1/2/2006, 3:04:05 PM")
}
