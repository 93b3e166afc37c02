package models

// TradeRecord is the payload submitted to the external trade-journal API when
// a taken signal is converted into a journaled trade. Submission is
// fire-and-forget: a failed submit is surfaced to the user but never rolls
// back the local taken annotation.
type TradeRecord struct {
	Date        string  `json:"date"`
	Asset       string  `json:"asset"`
	Direction   string  `json:"direction"`
	EntryPrice  float64 `json:"entry_price"`
	ExitPrice   float64 `json:"exit_price"`
	StopLoss    float64 `json:"sl"`
	TakeProfit  float64 `json:"tp"`
	LotSize     float64 `json:"lot_size"`
	Outcome     string  `json:"outcome"`
	Notes       string  `json:"notes"`
	StrategyTag string  `json:"strategy_tag"`
	PropFirm    string  `json:"prop_firm"`
}
