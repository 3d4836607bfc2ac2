package model

// DustUnits is the holding size below which a position is shown as zero.
// Dust is never force-liquidated; it just drops out of display math.
const DustUnits = 1e-6

// Stats is the player's reputation block. Every field stays in [0,100].
type Stats struct {
	Reputation float64 `json:"reputation"`
	Influence  float64 `json:"influence"`
	Security   float64 `json:"security"`
	Scrutiny   float64 `json:"scrutiny"`
	Exposure   float64 `json:"exposure"`
}

// Clamp forces every stat back into [0,100].
func (s *Stats) Clamp() {
	for _, f := range []*float64{&s.Reputation, &s.Influence, &s.Security, &s.Scrutiny, &s.Exposure} {
		if *f < 0 {
			*f = 0
		}
		if *f > 100 {
			*f = 100
		}
	}
}

// CostBasis tracks weighted-average-cost accounting for one position.
type CostBasis struct {
	TotalUnits   float64 `json:"total_units"`
	TotalCostUSD float64 `json:"total_cost_usd"`
}

// AvgCost returns the weighted-average cost per unit, zero for an empty basis.
func (cb CostBasis) AvgCost() float64 {
	if cb.TotalUnits <= 0 {
		return 0
	}
	return cb.TotalCostUSD / cb.TotalUnits
}

// Player holds all mutable player state. NetWorth is always derived from
// cash plus holdings at current prices, never stored as truth.
type Player struct {
	CashUSD         float64              `json:"cash_usd"`
	InitialNetWorth float64              `json:"initial_net_worth"`
	Holdings        map[string]float64   `json:"holdings"`   // asset id -> units, >= 0
	Basis           map[string]CostBasis `json:"cost_basis"` // asset id -> basis
	RealizedPnL     float64              `json:"realized_pnl"`
	Trades          []Trade              `json:"trades"`
	LimitOrders     []LimitOrder         `json:"limit_orders"`
	Stats           Stats                `json:"stats"`
	Blacklisted     bool                 `json:"blacklisted"`
	Credibility     float64              `json:"credibility"` // 0~1 smoothed analysis accuracy
	PostsToday      int                  `json:"posts_today"`
	NetWorthHistory []float64            `json:"net_worth_history"` // one sample per day
}

// NewPlayer returns a player with starting cash and empty books.
func NewPlayer(startingCash float64) *Player {
	return &Player{
		CashUSD:         startingCash,
		InitialNetWorth: startingCash,
		Holdings:        make(map[string]float64),
		Basis:           make(map[string]CostBasis),
		Stats:           Stats{Reputation: 50, Influence: 10, Security: 50},
		Credibility:     0.5,
	}
}

// Units returns the player's position in an asset, zero when absent.
func (p *Player) Units(assetID string) float64 {
	return p.Holdings[assetID]
}

// Clone returns a deep copy: maps and slices are duplicated so the copy
// can be read on another goroutine while the original keeps mutating.
func (p *Player) Clone() *Player {
	c := *p
	c.Holdings = make(map[string]float64, len(p.Holdings))
	for k, v := range p.Holdings {
		c.Holdings[k] = v
	}
	c.Basis = make(map[string]CostBasis, len(p.Basis))
	for k, v := range p.Basis {
		c.Basis[k] = v
	}
	c.Trades = append([]Trade(nil), p.Trades...)
	c.LimitOrders = append([]LimitOrder(nil), p.LimitOrders...)
	c.NetWorthHistory = append([]float64(nil), p.NetWorthHistory...)
	return &c
}
