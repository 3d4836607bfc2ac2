package trading

import (
	"fmt"

	"RugTycoon/internal/model"

	"github.com/google/uuid"
)

// Resolution reports what happened to one limit order during a tick.
type Resolution struct {
	Order model.LimitOrder
	Trade *model.Trade // non-nil only when the order filled
}

// PlaceLimit registers a new pending limit order for the player.
func (e *Engine) PlaceLimit(p *model.Player, a *model.Asset, side model.TradeType, trigger, units float64, tick int) (*model.LimitOrder, error) {
	if err := e.guard(p, a); err != nil {
		return nil, err
	}
	if trigger <= 0 {
		return nil, fmt.Errorf("%w: trigger price must be positive, got %g", ErrValidation, trigger)
	}
	if units <= 0 {
		return nil, fmt.Errorf("%w: order units must be positive, got %g", ErrValidation, units)
	}
	if side != model.TradeBuy && side != model.TradeSell {
		return nil, fmt.Errorf("%w: unknown order side %q", ErrValidation, side)
	}

	order := model.LimitOrder{
		ID:           uuid.NewString(),
		AssetID:      a.ID,
		Side:         side,
		TriggerPrice: trigger,
		Units:        units,
		Status:       model.OrderPending,
		CreatedTick:  tick,
	}
	p.LimitOrders = append(p.LimitOrders, order)
	return &order, nil
}

// CancelLimit cancels a pending order by id.
func (e *Engine) CancelLimit(p *model.Player, orderID string, tick int) (*model.LimitOrder, error) {
	for i := range p.LimitOrders {
		o := &p.LimitOrders[i]
		if o.ID != orderID {
			continue
		}
		if o.Status != model.OrderPending {
			return nil, fmt.Errorf("%w: order %s already %s", ErrValidation, orderID, o.Status)
		}
		o.Status = model.OrderCancelled
		o.ResolvedTick = tick
		o.CancelReason = "cancelled by player"
		return o, nil
	}
	return nil, fmt.Errorf("%w: unknown order %q", ErrValidation, orderID)
}

// CancelOrdersForAsset cancels every pending order on an asset, recording
// the reason. Used when an asset rugs so orders never die silently.
func (e *Engine) CancelOrdersForAsset(p *model.Player, assetID, reason string, tick int) []model.LimitOrder {
	var cancelled []model.LimitOrder
	for i := range p.LimitOrders {
		o := &p.LimitOrders[i]
		if o.AssetID != assetID || o.Status != model.OrderPending {
			continue
		}
		o.Status = model.OrderCancelled
		o.ResolvedTick = tick
		o.CancelReason = reason
		cancelled = append(cancelled, *o)
	}
	return cancelled
}

// ResolveLimits walks pending orders in creation order and fills any whose
// trigger the tick's price has crossed: BUY fills at price <= trigger,
// SELL at price >= trigger, always at the trigger price, whole order only.
// An order that can no longer be honored (rugged asset, unaffordable buy,
// missing holdings) is cancelled with the reason recorded.
func (e *Engine) ResolveLimits(p *model.Player, lookup func(id string) (*model.Asset, error), tick int) []Resolution {
	var out []Resolution
	for i := range p.LimitOrders {
		o := &p.LimitOrders[i]
		if o.Status != model.OrderPending {
			continue
		}
		if p.Blacklisted {
			o.Status = model.OrderCancelled
			o.ResolvedTick = tick
			o.CancelReason = "player blacklisted"
			out = append(out, Resolution{Order: *o})
			continue
		}
		a, err := lookup(o.AssetID)
		if err != nil {
			o.Status = model.OrderCancelled
			o.ResolvedTick = tick
			o.CancelReason = "asset no longer exists"
			out = append(out, Resolution{Order: *o})
			continue
		}
		if a.Rugged {
			o.Status = model.OrderCancelled
			o.ResolvedTick = tick
			o.CancelReason = "asset rugged"
			out = append(out, Resolution{Order: *o})
			continue
		}

		crossed := (o.Side == model.TradeBuy && a.Price <= o.TriggerPrice) ||
			(o.Side == model.TradeSell && a.Price >= o.TriggerPrice)
		if !crossed {
			continue
		}

		var trade *model.Trade
		if o.Side == model.TradeBuy {
			trade, err = e.buyAt(p, a, o.Units*o.TriggerPrice, o.TriggerPrice, tick)
		} else {
			trade, err = e.sellAt(p, a, o.Units, o.TriggerPrice, tick)
		}
		if err != nil {
			o.Status = model.OrderCancelled
			o.ResolvedTick = tick
			o.CancelReason = err.Error()
			out = append(out, Resolution{Order: *o})
			continue
		}
		o.Status = model.OrderFilled
		o.ResolvedTick = tick
		o.FillTradeID = trade.ID
		out = append(out, Resolution{Order: *o, Trade: trade})
	}
	return out
}
