package risk

import (
	"fmt"
	"math/rand"

	"RugTycoon/internal/model"
)

// Component is a single factor of the rug score.
type Component struct {
	Name       string
	Raw        float64 // 0~1
	Weight     float64
	Weighted   float64
	Commentary string
}

// RugEvent reports one asset rugging on a tick.
type RugEvent struct {
	AssetID string
	Symbol  string
	Tick    int
	Score   float64
}

// Model scores per-tick rug probability and decides flag/rug transitions.
type Model struct {
	MaxRugChance  float64 // per-tick probability ceiling
	FlagThreshold float64 // score at which an asset is flagged
}

// New returns a risk model with the given tuning.
func New(maxRugChance, flagThreshold float64) *Model {
	return &Model{MaxRugChance: maxRugChance, FlagThreshold: flagThreshold}
}

// Score computes the bounded rug score in [0,1]:
//
//	0.40·devTokens + 0.25·hype + 0.20·(1−audit) + 0.15·illiquidity
//
// Each term rises with risk: concentrated dev tokens, hype-driven pump
// pressure, a missing audit, and thin liquidity. illiquidity is
// 1/(1 + liquidityUSD/1M).
func (m *Model) Score(a *model.Asset) (float64, []Component) {
	dev := a.DevTokensPct / 100
	illiq := 1 / (1 + a.LiquidityUSD/1_000_000)
	noAudit := 1 - a.AuditScore

	components := []Component{
		{Name: "dev concentration", Raw: dev, Weight: 0.40, Weighted: dev * 0.40,
			Commentary: fmt.Sprintf("dev holds %.0f%%", a.DevTokensPct)},
		{Name: "social hype", Raw: a.SocialHype, Weight: 0.25, Weighted: a.SocialHype * 0.25,
			Commentary: fmt.Sprintf("hype=%.2f", a.SocialHype)},
		{Name: "audit gap", Raw: noAudit, Weight: 0.20, Weighted: noAudit * 0.20,
			Commentary: fmt.Sprintf("audit=%.2f", a.AuditScore)},
		{Name: "illiquidity", Raw: illiq, Weight: 0.15, Weighted: illiq * 0.15,
			Commentary: fmt.Sprintf("liquidity=$%.0f", a.LiquidityUSD)},
	}

	total := 0.0
	for _, c := range components {
		total += c.Weighted
	}
	return total, components
}

// RugProbability maps the score to a per-tick probability. Government
// favor buys a partial reprieve; the result stays in [0, MaxRugChance].
func (m *Model) RugProbability(a *model.Asset) float64 {
	if !eligible(a) {
		return 0
	}
	score, _ := m.Score(a)
	return m.MaxRugChance * score * (1 - 0.25*a.GovFavorScore)
}

// Evaluate updates flag state and draws rug events for every eligible
// asset, in the order given. A rug freezes the asset at its last close;
// it is terminal. Rugged assets consume no randomness.
func (m *Model) Evaluate(assets []*model.Asset, rng *rand.Rand, tick int) []RugEvent {
	var events []RugEvent
	for _, a := range assets {
		if !eligible(a) {
			continue
		}
		score, _ := m.Score(a)
		a.Flagged = score >= m.FlagThreshold

		p := m.MaxRugChance * score * (1 - 0.25*a.GovFavorScore)
		if rng.Float64() < p {
			a.Rugged = true
			a.RugTick = tick
			a.Flagged = true
			events = append(events, RugEvent{AssetID: a.ID, Symbol: a.Symbol, Tick: tick, Score: score})
		}
	}
	return events
}

// eligible reports whether an asset can flag or rug at all. Core-tier
// assets and the player's own token never rug.
func eligible(a *model.Asset) bool {
	return !a.Rugged && !a.IsPlayerToken && a.Tier != model.TierCore
}
