package model

// TradeType distinguishes the two sides of a market trade.
type TradeType string

const (
	TradeBuy  TradeType = "BUY"
	TradeSell TradeType = "SELL"
)

// Trade is an immutable execution record appended by the trading engine.
type Trade struct {
	ID           string    `json:"id"`
	Tick         int       `json:"tick"`
	AssetID      string    `json:"asset_id"`
	Type         TradeType `json:"type"`
	Units        float64   `json:"units"`
	PricePerUnit float64   `json:"price_per_unit"`
	TotalUSD     float64   `json:"total_usd"`
	Fee          float64   `json:"fee"`
	RealizedPnL  float64   `json:"realized_pnl,omitempty"` // sells only
}

// OrderStatus is the lifecycle of a limit order. FILLED and CANCELLED are
// terminal.
type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderFilled    OrderStatus = "FILLED"
	OrderCancelled OrderStatus = "CANCELLED"
)

// LimitOrder triggers a market trade when the per-tick price crosses the
// trigger: BUY fills at price <= trigger, SELL at price >= trigger. Fills
// execute at the trigger price, whole order only.
type LimitOrder struct {
	ID           string      `json:"id"`
	AssetID      string      `json:"asset_id"`
	Side         TradeType   `json:"side"`
	TriggerPrice float64     `json:"trigger_price"`
	Units        float64     `json:"units"`
	Status       OrderStatus `json:"status"`
	CreatedTick  int         `json:"created_tick"`
	ResolvedTick int         `json:"resolved_tick,omitempty"`
	CancelReason string      `json:"cancel_reason,omitempty"`
	FillTradeID  string      `json:"fill_trade_id,omitempty"`
}
