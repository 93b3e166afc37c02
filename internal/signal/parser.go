// Package signal parses raw feed messages into structured trading signals.
//
// The upstream format is a fixed 8-line chat message template. The format is
// positional and versioned: any deviation produces a ParseFailure rather than
// silently mis-mapped fields.
//
//	line 0: pair symbol              EURUSD
//	line 1: direction keyword        BUY signal
//	line 2: entry price              Entry 1.0850
//	line 3: stop-loss price          SL at 1.0800
//	line 4: take-profit levels       TP at 1.0900, 1.0950
//	line 5: confidence percentage    Confidence 87%
//	line 6: separator                -
//	line 7: free-text analysis       Bullish order block reaction
package signal

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fundedlabs/signal-center/internal/models"
)

const minLines = 8

// ParseFailure describes a raw message the parser rejected. Callers drop the
// message from the output sequence and log the failure; it is never fatal.
type ParseFailure struct {
	MessageID string
	Reason    string
}

func (e *ParseFailure) Error() string {
	return fmt.Sprintf("parse failure for message %s: %s", e.MessageID, e.Reason)
}

func failure(msg models.RawMessage, format string, args ...interface{}) *ParseFailure {
	return &ParseFailure{MessageID: msg.ID, Reason: fmt.Sprintf(format, args...)}
}

// Parse converts one raw message into a Signal. The signal's ID is the
// message ID, so re-parsing the same message always yields the same identity.
// Fields the template does not carry (timeframe, ICT concepts, risk:reward,
// pips, outcome) are filled with their sentinel values.
func Parse(msg models.RawMessage) (models.Signal, error) {
	lines := strings.Split(msg.Text, "\n")
	if len(lines) < minLines {
		return models.Signal{}, failure(msg, "expected at least %d lines, got %d", minLines, len(lines))
	}

	pair := strings.TrimSpace(lines[0])
	if pair == "" {
		return models.Signal{}, failure(msg, "empty pair symbol on line 0")
	}

	direction := models.SignalSell
	if strings.Contains(lines[1], "BUY") {
		direction = models.SignalBuy
	}

	entry, err := token(lines[2], 1)
	if err != nil {
		return models.Signal{}, failure(msg, "entry price: %v", err)
	}
	if _, err := strconv.ParseFloat(entry, 64); err != nil {
		return models.Signal{}, failure(msg, "entry price %q is not numeric", entry)
	}

	stopLoss, err := token(lines[3], 2)
	if err != nil {
		return models.Signal{}, failure(msg, "stop-loss price: %v", err)
	}
	if _, err := strconv.ParseFloat(stopLoss, 64); err != nil {
		return models.Signal{}, failure(msg, "stop-loss price %q is not numeric", stopLoss)
	}

	takeProfit, err := parseTakeProfit(lines[4])
	if err != nil {
		return models.Signal{}, failure(msg, "take-profit levels: %v", err)
	}

	confidence, err := parseConfidence(lines[5])
	if err != nil {
		return models.Signal{}, failure(msg, "confidence: %v", err)
	}

	analysis := lines[7]

	return models.Signal{
		ID:          msg.ID,
		Pair:        pair,
		Type:        direction,
		Entry:       entry,
		StopLoss:    stopLoss,
		TakeProfit:  takeProfit,
		Confidence:  confidence,
		Timeframe:   "N/A",
		Timestamp:   models.FormatTimestamp(msg.Timestamp),
		Status:      models.StatusActive,
		Analysis:    analysis,
		ICTConcepts: []string{},
		RSR:         "N/A",
		Pips:        "N/A",
		Positive:    nil,
		Taken:       false,
	}, nil
}

// ParseAll parses a batch of raw messages, dropping failed messages and
// reporting each failure through onFailure. Order is preserved.
func ParseAll(msgs []models.RawMessage, onFailure func(*ParseFailure)) []models.Signal {
	out := make([]models.Signal, 0, len(msgs))
	for _, msg := range msgs {
		sig, err := Parse(msg)
		if err != nil {
			if pf, ok := err.(*ParseFailure); ok && onFailure != nil {
				onFailure(pf)
			}
			continue
		}
		out = append(out, sig)
	}
	return out
}

// token returns the space-delimited token at index i, without collapsing
// repeated spaces. The template is strictly positional.
func token(line string, i int) (string, error) {
	parts := strings.Split(line, " ")
	if i >= len(parts) {
		return "", fmt.Errorf("line %q has %d tokens, need index %d", line, len(parts), i)
	}
	t := strings.TrimSpace(parts[i])
	if t == "" {
		return "", fmt.Errorf("token %d of line %q is empty", i, line)
	}
	return t, nil
}

// parseTakeProfit extracts the comma-separated levels after the second token:
// "TP at 1.0900, 1.0950" -> ["1.0900", "1.0950"]. At least one level is
// required and every level must be numeric.
func parseTakeProfit(line string) ([]string, error) {
	parts := strings.SplitN(line, " ", 3)
	if len(parts) < 3 {
		return nil, fmt.Errorf("line %q has no level list", line)
	}
	levels := strings.Split(parts[2], ", ")
	out := make([]string, 0, len(levels))
	for _, lvl := range levels {
		lvl = strings.TrimSpace(strings.TrimSuffix(lvl, ","))
		if lvl == "" {
			continue
		}
		if _, err := strconv.ParseFloat(lvl, 64); err != nil {
			return nil, fmt.Errorf("level %q is not numeric", lvl)
		}
		out = append(out, lvl)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("line %q has no levels", line)
	}
	return out, nil
}

// parseConfidence extracts the percentage from the second token:
// "Confidence 87%" -> 87.
func parseConfidence(line string) (int, error) {
	t, err := token(line, 1)
	if err != nil {
		return 0, err
	}
	t = strings.TrimSuffix(t, "%")
	n, err := strconv.Atoi(t)
	if err != nil {
		return 0, fmt.Errorf("value %q is not an integer", t)
	}
	return n, nil
}
