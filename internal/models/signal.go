// Package models defines data structures for Signal Center
package models

// SignalType is the trade direction of a signal.
type SignalType string

const (
	SignalBuy  SignalType = "Buy"
	SignalSell SignalType = "Sell"
)

// SignalStatus categorizes signal lifecycle states.
type SignalStatus string

const (
	StatusActive  SignalStatus = "active"
	StatusClosed  SignalStatus = "closed"
	StatusPending SignalStatus = "pending"
)

// Signal is a single parsed trading recommendation.
// ID is stable across re-parses of the same underlying message. Taken is the
// only field mutated after creation, and only by a reconciliation pass. The
// trade ledger, not this flag, is the source of truth for taken state.
type Signal struct {
	ID          string       `json:"id"`
	Pair        string       `json:"pair"`
	Type        SignalType   `json:"type"`
	Entry       string       `json:"entry"`
	StopLoss    string       `json:"stop_loss"`
	TakeProfit  []string     `json:"take_profit"`
	Confidence  int          `json:"confidence"`
	Timeframe   string       `json:"timeframe"`
	Timestamp   string       `json:"timestamp"`
	Status      SignalStatus `json:"status"`
	Analysis    string       `json:"analysis"`
	ICTConcepts []string     `json:"ict_concepts"`
	RSR         string       `json:"rsr"`
	Pips        string       `json:"pips"`
	Positive    *bool        `json:"positive"`
	Taken       bool         `json:"taken"`
}

// FirstTarget returns the first take-profit level for display. The first
// element of the parsed sequence is used as-is; it is a display convention,
// not a guaranteed primary target.
func (s Signal) FirstTarget() string {
	if len(s.TakeProfit) == 0 {
		return ""
	}
	return s.TakeProfit[0]
}
