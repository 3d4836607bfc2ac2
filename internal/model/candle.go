package model

// Candle is one OHLC bar covering a single tick. Series are append-only
// with strictly increasing ticks; low <= {open, close} <= high.
type Candle struct {
	Tick  int     `json:"tick"`
	Open  float64 `json:"open"`
	High  float64 `json:"high"`
	Low   float64 `json:"low"`
	Close float64 `json:"close"`
}
