package report

import (
	"fmt"
	"strings"

	"RugTycoon/internal/analytics"
	"RugTycoon/internal/model"

	"github.com/dustin/go-humanize"
)

// FormatMarket renders the asset board for the command loop.
func FormatMarket(assets []model.Asset) string {
	var b strings.Builder
	b.WriteString("=== MARKET ===\n")
	for _, a := range assets {
		status := ""
		switch {
		case a.Rugged:
			status = " [RUGGED]"
		case !a.Unlocked:
			status = " [LOCKED]"
		case a.Flagged:
			status = " [FLAGGED]"
		}
		b.WriteString(fmt.Sprintf("%-8s %-22s $%s  hype=%.2f%s\n",
			a.Symbol, a.Name, formatPrice(a.Price), a.SocialHype, status))
	}
	return b.String()
}

// FormatPortfolio renders the derived portfolio view.
func FormatPortfolio(s analytics.Summary) string {
	var b strings.Builder
	b.WriteString("=== PORTFOLIO ===\n")
	b.WriteString(fmt.Sprintf("Cash:       $%s\n", humanize.CommafWithDigits(s.CashUSD, 2)))
	b.WriteString(fmt.Sprintf("Holdings:   $%s\n", humanize.CommafWithDigits(s.HoldingsUSD, 2)))
	b.WriteString(fmt.Sprintf("Net worth:  $%s\n", humanize.CommafWithDigits(s.NetWorthUSD, 2)))
	b.WriteString(fmt.Sprintf("Realized:   %+.2f | Unrealized: %+.2f | Total: %+.2f\n",
		s.RealizedPnL, s.UnrealizedPnL, s.TotalPnL))
	b.WriteString(fmt.Sprintf("ROI: %+.1f%% | W/L: %d/%d\n", s.ROI*100, s.Wins, s.Losses))

	if len(s.Positions) > 0 {
		b.WriteString("\nPositions (best first):\n")
		for _, p := range s.Positions {
			b.WriteString(fmt.Sprintf("  %-8s %s u @ $%s (avg $%s)  %+.1f%%\n",
				p.Symbol, humanize.CommafWithDigits(p.Units, 4),
				formatPrice(p.Price), formatPrice(p.AvgCost), p.GainPct))
		}
	}
	return b.String()
}

// FormatTrade renders one executed trade.
func FormatTrade(t *model.Trade, symbol string) string {
	if t.Type == model.TradeSell {
		return fmt.Sprintf("SOLD %s %s @ $%s for $%s (fee $%.2f, P&L %+.2f)",
			humanize.CommafWithDigits(t.Units, 4), symbol, formatPrice(t.PricePerUnit),
			humanize.CommafWithDigits(t.TotalUSD, 2), t.Fee, t.RealizedPnL)
	}
	return fmt.Sprintf("BOUGHT %s %s @ $%s for $%s (fee $%.2f)",
		humanize.CommafWithDigits(t.Units, 4), symbol, formatPrice(t.PricePerUnit),
		humanize.CommafWithDigits(t.TotalUSD, 2), t.Fee)
}

// FormatOrders renders the player's limit orders, newest last.
func FormatOrders(orders []model.LimitOrder, symbols map[string]string) string {
	var b strings.Builder
	b.WriteString("=== LIMIT ORDERS ===\n")
	if len(orders) == 0 {
		b.WriteString("(none)\n")
		return b.String()
	}
	for _, o := range orders {
		line := fmt.Sprintf("%s %-4s %-8s %s u @ $%s  %s",
			shortID(o.ID), o.Side, symbols[o.AssetID],
			humanize.CommafWithDigits(o.Units, 4), formatPrice(o.TriggerPrice), o.Status)
		if o.CancelReason != "" {
			line += " (" + o.CancelReason + ")"
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

// FormatNews renders recent articles, most recent first.
func FormatNews(articles []model.NewsArticle, symbols map[string]string, limit int) string {
	var b strings.Builder
	b.WriteString("=== NEWS ===\n")
	for i := len(articles) - 1; i >= 0 && len(articles)-i <= limit; i-- {
		art := articles[i]
		tag := ""
		if art.Debunked {
			tag = " [DEBUNKED]"
		}
		b.WriteString(fmt.Sprintf("d%d %-8s [%s] %s%s\n",
			art.Day, symbols[art.AssetID], art.Sentiment, art.Headline, tag))
	}
	return b.String()
}

// formatPrice keeps micro-cap prices readable instead of rendering 0.00.
func formatPrice(p float64) string {
	if p < 0.01 {
		return fmt.Sprintf("%.6f", p)
	}
	return humanize.CommafWithDigits(p, 2)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
