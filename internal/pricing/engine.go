package pricing

import (
	"math"
	"math/rand"

	"RugTycoon/internal/model"
)

// Engine evolves asset prices one tick at a time. It is deterministic for a
// given rng: assets are processed in the order given and every random draw
// happens in a fixed sequence.
type Engine struct {
	HypeAmplifier   float64 // extra effective volatility per unit of hype
	HypeBias        float64 // directional drift per unit of hype
	LiquidityRefUSD float64 // dampener reference scale
}

// New returns a price engine with the given tuning.
func New(hypeAmplifier, hypeBias, liquidityRefUSD float64) *Engine {
	return &Engine{
		HypeAmplifier:   hypeAmplifier,
		HypeBias:        hypeBias,
		LiquidityRefUSD: liquidityRefUSD,
	}
}

// Advance computes the next price and candle for every non-rugged asset.
// drift carries the summed sentiment-shock contribution per asset id for
// this tick. When dayBoundary is true, intraday series are reset before
// the new candle is appended. Returns the new candle per asset id.
//
// Per asset the log-return is drawn as
//
//	ret = N(0,1)·effVol + hypeBias·hype + drift
//	effVol = baseVolatility · (0.3 + 0.7·damp) · (1 + hypeAmplifier·hype)
//	damp   = 1 / (1 + liquidityUSD/liquidityRefUSD)
//
// so deeper liquidity dampens volatility and hype amplifies it while also
// biasing the move upward. The computed price is clamped to the floor.
func (e *Engine) Advance(assets []*model.Asset, drift map[string]float64, rng *rand.Rand, tick int, dayBoundary bool) map[string]model.Candle {
	candles := make(map[string]model.Candle, len(assets))
	for _, a := range assets {
		if a.Rugged {
			// Frozen. Still consume no randomness so rugging one asset
			// cannot shift every other asset's series.
			continue
		}
		c := e.step(a, drift[a.ID], rng, tick)
		if dayBoundary {
			a.Intraday = a.Intraday[:0]
		}
		a.History = append(a.History, c)
		a.Intraday = append(a.Intraday, c)
		candles[a.ID] = c
	}
	return candles
}

func (e *Engine) step(a *model.Asset, shockDrift float64, rng *rand.Rand, tick int) model.Candle {
	damp := 1 / (1 + a.LiquidityUSD/e.LiquidityRefUSD)
	effVol := a.BaseVolatility * (0.3 + 0.7*damp) * (1 + e.HypeAmplifier*a.SocialHype)

	ret := rng.NormFloat64()*effVol + e.HypeBias*a.SocialHype + shockDrift

	open := a.Price
	close := clampFloor(open * math.Exp(ret))

	// Wicks stretch beyond the body in proportion to the move's size, so
	// low <= {open, close} <= high holds by construction.
	span := math.Abs(ret)
	high := math.Max(open, close) * (1 + rng.Float64()*span*0.5)
	low := clampFloor(math.Min(open, close) * (1 - rng.Float64()*span*0.5))

	a.Price = close
	return model.Candle{Tick: tick, Open: open, High: high, Low: low, Close: close}
}

func clampFloor(p float64) float64 {
	if p < model.MinPrice {
		return model.MinPrice
	}
	return p
}
