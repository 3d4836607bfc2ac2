package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"RugTycoon/internal/engine"
	"RugTycoon/internal/model"
	"RugTycoon/internal/report"
	"RugTycoon/internal/social"
	"RugTycoon/internal/trading"

	"github.com/robfig/cron/v3"
)

// Scheduler drives the game clock from cron and translates text commands
// into engine calls.
type Scheduler struct {
	Cron *cron.Cron
	Game *engine.Game
	Ctx  context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, g *engine.Game) *Scheduler {
	return &Scheduler{
		Cron: cron.New(cron.WithSeconds()),
		Game: g,
		Ctx:  ctx,
	}
}

// RegisterAll registers the auto-tick task.
func (s *Scheduler) RegisterAll(tickCron string) error {
	if _, err := s.Cron.AddFunc(tickCron, s.tickTask); err != nil {
		return fmt.Errorf("register tick task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunTickNow advances the simulation immediately (manual trigger).
func (s *Scheduler) RunTickNow() {
	s.tickTask()
}

func (s *Scheduler) tickTask() {
	res := s.Game.AdvanceTick()
	if res.DayBoundary {
		log.Printf("[INFO] day %d begins | net worth $%.2f", res.Day, res.NetWorthUSD)
	}
	for _, ev := range res.RugEvents {
		log.Printf("[WARN] RUG PULL: %s collapsed on tick %d (score %.2f)", ev.Symbol, ev.Tick, ev.Score)
	}
	for _, r := range res.Resolutions {
		if r.Trade != nil {
			log.Printf("[INFO] limit order %s filled on tick %d", r.Order.ID, res.Tick)
		} else {
			log.Printf("[WARN] limit order %s cancelled: %s", r.Order.ID, r.Order.CancelReason)
		}
	}
	for _, sym := range res.Unlocked {
		log.Printf("[INFO] new listing unlocked: %s", sym)
	}
}

// HandleCommand processes a user command line and returns a reply.
func (s *Scheduler) HandleCommand(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}

	switch fields[0] {
	case "tick", "t":
		s.RunTickNow()
		return fmt.Sprintf("tick %d", s.Game.Tick())

	case "market", "m":
		return report.FormatMarket(s.Game.Assets())

	case "portfolio", "p":
		return report.FormatPortfolio(s.Game.Summary())

	case "orders", "o":
		p := s.Game.Player()
		return report.FormatOrders(p.LimitOrders, s.symbols())

	case "news", "n":
		snap := s.Game.Snapshot()
		return report.FormatNews(snap.Articles, s.symbols(), 10)

	case "buy":
		if len(fields) != 3 {
			return "usage: buy <symbol> <usd>"
		}
		return s.trade(fields[1], model.TradeBuy, fields[2])

	case "sell":
		if len(fields) != 3 {
			return "usage: sell <symbol> <units>"
		}
		return s.trade(fields[1], model.TradeSell, fields[2])

	case "limit":
		if len(fields) != 5 {
			return "usage: limit <buy|sell> <symbol> <units> <trigger>"
		}
		return s.placeLimit(fields[1], fields[2], fields[3], fields[4])

	case "cancel":
		if len(fields) != 2 {
			return "usage: cancel <order-id>"
		}
		order, err := s.Game.CancelLimitOrder(fields[1])
		if err != nil {
			return friendlyError(err)
		}
		return fmt.Sprintf("order %s cancelled", order.ID)

	case "post":
		if len(fields) < 3 {
			return "usage: post <hype|fud> <symbol> [text...] | post analysis <symbol> <up|down>"
		}
		return s.post(fields[1], fields[2], fields[3:])

	default:
		return "commands: tick market portfolio orders news buy sell limit cancel post quit"
	}
}

func (s *Scheduler) trade(symbol string, typ model.TradeType, amount string) string {
	v, err := strconv.ParseFloat(amount, 64)
	if err != nil {
		return fmt.Sprintf("bad amount %q", amount)
	}
	a, err := s.Game.AssetBySymbol(symbol)
	if err != nil {
		return err.Error()
	}
	req := engine.TradeRequest{AssetID: a.ID, Type: typ}
	if typ == model.TradeBuy {
		req.USD = v
	} else {
		req.Units = v
	}
	trade, err := s.Game.ExecuteTrade(req)
	if err != nil {
		return friendlyError(err)
	}
	return report.FormatTrade(trade, a.Symbol)
}

func (s *Scheduler) placeLimit(side, symbol, units, trigger string) string {
	u, err := strconv.ParseFloat(units, 64)
	if err != nil {
		return fmt.Sprintf("bad units %q", units)
	}
	tr, err := strconv.ParseFloat(trigger, 64)
	if err != nil {
		return fmt.Sprintf("bad trigger %q", trigger)
	}
	a, err := s.Game.AssetBySymbol(symbol)
	if err != nil {
		return err.Error()
	}
	var sideType model.TradeType
	switch side {
	case "buy":
		sideType = model.TradeBuy
	case "sell":
		sideType = model.TradeSell
	default:
		return fmt.Sprintf("bad side %q", side)
	}
	order, err := s.Game.PlaceLimitOrder(engine.OrderRequest{
		AssetID: a.ID, Side: sideType, TriggerPrice: tr, Units: u,
	})
	if err != nil {
		return friendlyError(err)
	}
	return fmt.Sprintf("order %s placed: %s %g %s @ $%g", order.ID, side, u, symbol, tr)
}

func (s *Scheduler) post(kind, symbol string, rest []string) string {
	a, err := s.Game.AssetBySymbol(symbol)
	if err != nil {
		return err.Error()
	}
	req := engine.PostRequest{AssetID: a.ID, Content: strings.Join(rest, " ")}
	switch kind {
	case "hype":
		req.Type = model.PostHype
	case "fud":
		req.Type = model.PostFUD
	case "analysis":
		if len(rest) < 1 {
			return "usage: post analysis <symbol> <up|down>"
		}
		req.Type = model.PostAnalysis
		dir := model.SentimentBullish
		if rest[0] == "down" {
			dir = model.SentimentBearish
		}
		req.Meta = &social.CallMeta{Direction: dir}
	default:
		return fmt.Sprintf("bad post type %q", kind)
	}
	post, err := s.Game.CreatePost(req)
	if err != nil {
		return friendlyError(err)
	}
	return fmt.Sprintf("posted %s on %s (magnitude %.3f)", post.Type, symbol, post.Magnitude)
}

func (s *Scheduler) symbols() map[string]string {
	out := make(map[string]string)
	for _, a := range s.Game.Assets() {
		out[a.ID] = a.Symbol
	}
	return out
}

// friendlyError keeps expected gameplay failures readable at the prompt.
func friendlyError(err error) string {
	switch {
	case errors.Is(err, trading.ErrInsufficientFunds),
		errors.Is(err, trading.ErrInsufficientHoldings),
		errors.Is(err, trading.ErrAssetRugged),
		errors.Is(err, trading.ErrMarketClosed),
		errors.Is(err, trading.ErrBlacklisted),
		errors.Is(err, trading.ErrValidation):
		return err.Error()
	}
	log.Printf("[ERROR] command failed: %v", err)
	return "internal error: " + err.Error()
}
