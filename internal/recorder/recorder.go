package recorder

import "RugTycoon/internal/model"

// TickRow is the compact per-tick history record.
type TickRow struct {
	Tick        int
	Day         int
	NetWorthUSD float64
	CashUSD     float64
	RuggedCount int
}

// RugRow records one asset rugging.
type RugRow struct {
	Tick   int
	Symbol string
	Score  float64
	Price  float64
}

// OrderRow records a limit-order transition (fill or cancellation).
type OrderRow struct {
	Tick         int
	OrderID      string
	Symbol       string
	Side         string
	Status       string
	TriggerPrice float64
	Units        float64
	Reason       string
}

// SocialRow records a post or article event.
type SocialRow struct {
	Tick      int
	Kind      string // "post", "article", "debunk", "call"
	Symbol    string
	Sentiment string
	Magnitude float64
	Detail    string
}

// Recorder persists gameplay history for later analysis. Recording is
// best-effort: the simulation never waits on it or rolls back for it.
type Recorder interface {
	RecordTick(row *TickRow) error
	RecordTrade(trade *model.Trade, symbol string) error
	RecordRug(row *RugRow) error
	RecordOrder(row *OrderRow) error
	RecordSocial(row *SocialRow) error
	Close() error
}
