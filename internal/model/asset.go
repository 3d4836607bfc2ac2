package model

// MinPrice is the hard floor for any simulated price.
const MinPrice = 0.00001

// AssetTier controls availability: core assets are always tradable and
// rug-exempt, base assets are tradable from the start, unlockable assets
// open up once the player's net worth crosses their threshold.
type AssetTier string

const (
	TierCore       AssetTier = "core"
	TierBase       AssetTier = "base"
	TierUnlockable AssetTier = "unlockable"
)

// Asset is one simulated coin. Owned and mutated by the registry; every
// other package works on a copy or a registry-handed reference.
type Asset struct {
	ID            string    `json:"id"`
	Symbol        string    `json:"symbol"`
	Name          string    `json:"name"`
	Tier          AssetTier `json:"tier"`
	IsPlayerToken bool      `json:"is_player_token"`

	BasePrice float64 `json:"base_price"`
	Price     float64 `json:"price"`

	BaseVolatility float64 `json:"base_volatility"`
	LiquidityUSD   float64 `json:"liquidity_usd"`
	DevTokensPct   float64 `json:"dev_tokens_pct"`  // 0~100
	AuditScore     float64 `json:"audit_score"`    // 0~1
	SocialHype     float64 `json:"social_hype"`    // 0~1
	GovFavorScore  float64 `json:"gov_favor_score"` // 0~1

	Flagged bool `json:"flagged"`
	Rugged  bool `json:"rugged"`
	RugTick int  `json:"rug_tick,omitempty"`

	Unlocked       bool    `json:"unlocked"`
	UnlockNetWorth float64 `json:"unlock_net_worth,omitempty"`

	History  []Candle `json:"history"`  // all-time, one candle per tick
	Intraday []Candle `json:"intraday"` // reset at each day boundary
}

// Tradable reports whether the asset currently accepts orders.
func (a *Asset) Tradable() bool {
	return !a.Rugged && a.Unlocked
}

// LastClose returns the close of the most recent candle, falling back to
// the current price when no candle exists yet.
func (a *Asset) LastClose() float64 {
	if len(a.History) == 0 {
		return a.Price
	}
	return a.History[len(a.History)-1].Close
}
