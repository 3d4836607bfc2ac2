package trading

import (
	"fmt"

	"RugTycoon/internal/model"

	"github.com/google/uuid"
)

// floatTolerance absorbs float64 noise when a position is sold out.
const floatTolerance = 1e-12

// Engine executes market trades and resolves limit orders. It mutates the
// player and never the asset; a failed trade leaves the player untouched.
type Engine struct {
	FeeUSD float64 // flat fee per executed trade
}

// New returns a trading engine charging the given flat fee per trade.
func New(feeUSD float64) *Engine {
	return &Engine{FeeUSD: feeUSD}
}

// Buy spends usd on an asset at its current price. The affordability
// check is fee-inclusive: cash must cover usd + fee.
func (e *Engine) Buy(p *model.Player, a *model.Asset, usd float64, tick int) (*model.Trade, error) {
	if err := e.guard(p, a); err != nil {
		return nil, err
	}
	if usd <= 0 {
		return nil, fmt.Errorf("%w: buy amount must be positive, got $%.2f", ErrValidation, usd)
	}
	return e.buyAt(p, a, usd, a.Price, tick)
}

// Sell liquidates units of a position at the asset's current price.
func (e *Engine) Sell(p *model.Player, a *model.Asset, units float64, tick int) (*model.Trade, error) {
	if err := e.guard(p, a); err != nil {
		return nil, err
	}
	if units <= 0 {
		return nil, fmt.Errorf("%w: sell units must be positive, got %g", ErrValidation, units)
	}
	return e.sellAt(p, a, units, a.Price, tick)
}

// guard runs the checks shared by every trade path.
func (e *Engine) guard(p *model.Player, a *model.Asset) error {
	if p.Blacklisted {
		return ErrBlacklisted
	}
	if a.Rugged {
		return fmt.Errorf("%w: %s is gone for good", ErrAssetRugged, a.Symbol)
	}
	if !a.Unlocked {
		return fmt.Errorf("%w: %s is not unlocked yet", ErrValidation, a.Symbol)
	}
	return nil
}

// buyAt executes a buy at an explicit price. All validation must already
// have passed except affordability, which depends on the fill price.
func (e *Engine) buyAt(p *model.Player, a *model.Asset, usd, price float64, tick int) (*model.Trade, error) {
	cost := usd + e.FeeUSD
	if cost > p.CashUSD {
		return nil, fmt.Errorf("%w: need $%.2f (incl. $%.2f fee), have $%.2f",
			ErrInsufficientFunds, cost, e.FeeUSD, p.CashUSD)
	}
	units := usd / price

	p.CashUSD -= cost
	p.Holdings[a.ID] += units
	cb := p.Basis[a.ID]
	cb.TotalUnits += units
	cb.TotalCostUSD += usd
	p.Basis[a.ID] = cb

	trade := model.Trade{
		ID:           uuid.NewString(),
		Tick:         tick,
		AssetID:      a.ID,
		Type:         model.TradeBuy,
		Units:        units,
		PricePerUnit: price,
		TotalUSD:     usd,
		Fee:          e.FeeUSD,
	}
	p.Trades = append(p.Trades, trade)
	return &trade, nil
}

// sellAt executes a sell at an explicit price. Realized P&L for the slice
// is proceeds minus weighted-average cost minus the fee; the cost basis is
// reduced proportionally. Selling a whole position clears its basis entry.
func (e *Engine) sellAt(p *model.Player, a *model.Asset, units, price float64, tick int) (*model.Trade, error) {
	held := p.Holdings[a.ID]
	if units > held+model.DustUnits {
		return nil, fmt.Errorf("%w: want to sell %g %s, hold %g",
			ErrInsufficientHoldings, units, a.Symbol, held)
	}
	if units > held {
		units = held
	}

	cb := p.Basis[a.ID]
	avgCost := cb.AvgCost()
	proceeds := units * price
	realized := proceeds - units*avgCost - e.FeeUSD

	p.CashUSD += proceeds - e.FeeUSD
	remaining := held - units
	cb.TotalUnits -= units
	cb.TotalCostUSD -= units * avgCost
	// Selling out a position clears both entries; genuine dust left behind
	// is kept, never force-liquidated.
	if remaining <= floatTolerance {
		delete(p.Holdings, a.ID)
		delete(p.Basis, a.ID)
	} else {
		p.Holdings[a.ID] = remaining
		p.Basis[a.ID] = cb
	}
	p.RealizedPnL += realized

	trade := model.Trade{
		ID:           uuid.NewString(),
		Tick:         tick,
		AssetID:      a.ID,
		Type:         model.TradeSell,
		Units:        units,
		PricePerUnit: price,
		TotalUSD:     proceeds,
		Fee:          e.FeeUSD,
		RealizedPnL:  realized,
	}
	p.Trades = append(p.Trades, trade)
	return &trade, nil
}
