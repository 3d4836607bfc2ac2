package analytics

import (
	"sort"

	"RugTycoon/internal/model"
)

// Position is one open holding valued at the current price.
type Position struct {
	AssetID       string
	Symbol        string
	Units         float64
	AvgCost       float64
	Price         float64
	ValueUSD      float64
	UnrealizedPnL float64
	GainPct       float64 // percentage unrealized gain on cost
}

// Summary is the full derived view of a portfolio. Everything here is
// recomputed on demand from player and asset state; nothing is stored
// back as authoritative.
type Summary struct {
	CashUSD       float64
	HoldingsUSD   float64
	NetWorthUSD   float64
	RealizedPnL   float64
	UnrealizedPnL float64
	TotalPnL      float64
	ROI           float64
	Wins          int
	Losses        int
	WinLossRatio  float64
	Positions     []Position // open positions, best performer first
}

// NetWorth values the player at current prices: cash plus holdings.
func NetWorth(p *model.Player, prices map[string]float64) float64 {
	total := p.CashUSD
	for id, units := range p.Holdings {
		total += units * prices[id]
	}
	return total
}

// Summarize derives the complete portfolio view. Dust positions are
// omitted from the position list but still counted in net worth.
func Summarize(p *model.Player, assets []model.Asset) Summary {
	prices := make(map[string]float64, len(assets))
	symbols := make(map[string]string, len(assets))
	for _, a := range assets {
		prices[a.ID] = a.Price
		symbols[a.ID] = a.Symbol
	}

	s := Summary{
		CashUSD:     p.CashUSD,
		RealizedPnL: p.RealizedPnL,
	}

	for id, units := range p.Holdings {
		value := units * prices[id]
		s.HoldingsUSD += value
		if units < model.DustUnits {
			continue
		}
		avg := p.Basis[id].AvgCost()
		pos := Position{
			AssetID:       id,
			Symbol:        symbols[id],
			Units:         units,
			AvgCost:       avg,
			Price:         prices[id],
			ValueUSD:      value,
			UnrealizedPnL: units * (prices[id] - avg),
		}
		if avg > 0 {
			pos.GainPct = (prices[id] - avg) / avg * 100
		}
		s.UnrealizedPnL += pos.UnrealizedPnL
		s.Positions = append(s.Positions, pos)
	}

	sort.Slice(s.Positions, func(i, j int) bool {
		if s.Positions[i].GainPct != s.Positions[j].GainPct {
			return s.Positions[i].GainPct > s.Positions[j].GainPct
		}
		return s.Positions[i].Symbol < s.Positions[j].Symbol
	})

	s.NetWorthUSD = s.CashUSD + s.HoldingsUSD
	s.TotalPnL = s.RealizedPnL + s.UnrealizedPnL
	if p.InitialNetWorth > 0 {
		s.ROI = s.TotalPnL / p.InitialNetWorth
	}

	for _, t := range p.Trades {
		if t.Type != model.TradeSell {
			continue
		}
		if t.RealizedPnL > 0 {
			s.Wins++
		} else if t.RealizedPnL < 0 {
			s.Losses++
		}
	}
	if s.Losses > 0 {
		s.WinLossRatio = float64(s.Wins) / float64(s.Losses)
	} else if s.Wins > 0 {
		s.WinLossRatio = float64(s.Wins)
	}

	return s
}

// BestWorst returns the best and worst open positions by percentage gain.
// Both are nil when there are no open positions.
func BestWorst(s Summary) (best, worst *Position) {
	if len(s.Positions) == 0 {
		return nil, nil
	}
	b := s.Positions[0]
	w := s.Positions[len(s.Positions)-1]
	return &b, &w
}
