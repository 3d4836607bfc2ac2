package engine

import (
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"RugTycoon/internal/analytics"
	"RugTycoon/internal/catalog"
	"RugTycoon/internal/config"
	"RugTycoon/internal/model"
	"RugTycoon/internal/pricing"
	"RugTycoon/internal/recorder"
	"RugTycoon/internal/registry"
	"RugTycoon/internal/risk"
	"RugTycoon/internal/social"
	"RugTycoon/internal/trading"
)

// newsChance is the per-tick probability that the wire publishes a story
// from the news deck.
const newsChance = 0.15

// Game is the single serialization point of the simulation. Ticks and
// player commands all run under one mutex: each is atomic against player
// and asset state, and no two ever interleave mid-computation.
type Game struct {
	mu sync.Mutex

	cfg    *config.Config
	rng    *rand.Rand
	reg    *registry.Registry
	pricer *pricing.Engine
	risk   *risk.Model
	trader *trading.Engine
	feed   *social.Feed
	player *model.Player
	rec    recorder.Recorder

	newsDeck []catalog.NewsSeed

	tick       int
	day        int
	marketOpen bool

	// onCommit receives the post-tick snapshot on its own goroutine; a
	// slow or failing store can never stall the next tick.
	onCommit func(*model.Snapshot)
}

// New builds a game from catalog assets, or resumes from a snapshot when
// one is given.
func New(cfg *config.Config, assets []model.Asset, newsDeck []catalog.NewsSeed, snap *model.Snapshot, rec recorder.Recorder) *Game {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	g := &Game{
		cfg:        cfg,
		rng:        rand.New(rand.NewSource(cfg.Game.Seed)),
		pricer:     pricing.New(cfg.Pricing.HypeAmplifier, cfg.Pricing.HypeBias, cfg.Pricing.LiquidityRefUSD),
		risk:       risk.New(cfg.Risk.MaxRugChance, cfg.Risk.FlagThreshold),
		trader:     trading.New(cfg.Game.TradeFeeUSD),
		feed:       social.NewFeed(cfg.Social.FatigueFactor, cfg.Social.FakeDamping, cfg.Social.CallHorizon, cfg.Pricing.ShockDuration),
		rec:        rec,
		newsDeck:   newsDeck,
		marketOpen: true,
	}

	if snap != nil && snap.Player == nil {
		log.Printf("[WARN] snapshot has no player state, starting fresh")
		snap = nil
	}
	if snap != nil {
		g.reg = registry.New(snap.Assets)
		g.player = snap.Player
		if g.player.Holdings == nil {
			g.player.Holdings = make(map[string]float64)
		}
		if g.player.Basis == nil {
			g.player.Basis = make(map[string]model.CostBasis)
		}
		g.tick = snap.Tick
		g.day = snap.Day
		g.marketOpen = snap.MarketOpen
		g.feed.Restore(snap.Posts, snap.Articles, snap.Shocks)
	} else {
		g.reg = registry.New(assets)
		g.player = model.NewPlayer(cfg.Game.StartingCash)
	}
	return g
}

// OnCommit registers the persistence callback invoked after each tick
// commits. The callback runs on its own goroutine.
func (g *Game) OnCommit(fn func(*model.Snapshot)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.onCommit = fn
}

// TickResult reports everything a tick changed.
type TickResult struct {
	Tick          int
	Day           int
	DayBoundary   bool
	NetWorthUSD   float64
	RugEvents     []risk.RugEvent
	Resolutions   []trading.Resolution
	GradedCalls   []model.SocialPost
	Unlocked      []string
	NewsPublished *model.NewsArticle
}

// AdvanceTick runs one full simulation step: prices, rug draws, limit
// orders, analysis grading, unlock checks, then snapshot hand-off. The
// step always runs to completion once started.
func (g *Game) AdvanceTick() TickResult {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.tick++
	dayBoundary := g.tick%g.cfg.Game.TicksPerDay == 0
	if dayBoundary {
		g.day++
		g.player.PostsToday = 0
	}

	assets := g.reg.All()

	// Shocks enqueued since the last pass are consumed now, at full
	// strength, then decay linearly.
	drift := g.feed.Drift()
	g.pricer.Advance(assets, drift, g.rng, g.tick, dayBoundary)
	g.feed.DecayHype(assets)

	res := TickResult{Tick: g.tick, Day: g.day, DayBoundary: dayBoundary}

	res.RugEvents = g.risk.Evaluate(assets, g.rng, g.tick)
	for _, ev := range res.RugEvents {
		for _, o := range g.trader.CancelOrdersForAsset(g.player, ev.AssetID, "asset rugged", g.tick) {
			g.recordOrder(&o, ev.Symbol)
		}
		g.recordRug(ev)
	}

	res.Resolutions = g.trader.ResolveLimits(g.player, g.reg.Get, g.tick)
	for _, r := range res.Resolutions {
		g.recordResolution(r)
	}

	res.GradedCalls = g.feed.ResolveAnalysisCalls(g.tick, g.reg.Get, g.player)
	res.NewsPublished = g.maybePublishNews()

	res.NetWorthUSD = analytics.NetWorth(g.player, g.reg.Prices())
	res.Unlocked = g.reg.UnlockEligible(res.NetWorthUSD)
	for _, sym := range res.Unlocked {
		log.Printf("[INFO] unlocked %s at net worth $%.2f", sym, res.NetWorthUSD)
	}
	if dayBoundary {
		g.player.NetWorthHistory = append(g.player.NetWorthHistory, res.NetWorthUSD)
	}

	g.recordTick(res)

	if g.onCommit != nil {
		snap := g.snapshotLocked()
		go g.onCommit(snap)
	}
	return res
}

// maybePublishNews rolls the wire: sometimes a deck headline hits a random
// tradable asset. Fake stories come out of the same deck.
func (g *Game) maybePublishNews() *model.NewsArticle {
	if len(g.newsDeck) == 0 || g.rng.Float64() >= newsChance {
		return nil
	}
	seed := g.newsDeck[g.rng.Intn(len(g.newsDeck))]
	assets := g.reg.All()
	a := assets[g.rng.Intn(len(assets))]
	if a.Rugged {
		return nil
	}
	actor := seed.Source
	if actor == "" {
		actor = "newswire"
	}
	magnitude := 0.01 + 0.03*g.rng.Float64()
	art := g.feed.PublishArticle(a, seed.Headline, seed.Category,
		model.Sentiment(seed.Sentiment), magnitude, seed.IsFake, actor, g.tick, g.day)
	g.recordSocial("article", a.Symbol, string(art.Sentiment), art.Magnitude, art.Headline)
	return art
}

// TradeRequest asks for a market trade: USD amount for buys, units for sells.
type TradeRequest struct {
	AssetID string
	Type    model.TradeType
	USD     float64 // buys
	Units   float64 // sells
}

// ExecuteTrade runs a market trade atomically: it either fully applies or
// leaves every book untouched. Expected failures come back as typed
// errors, never panics.
func (g *Game) ExecuteTrade(req TradeRequest) (*model.Trade, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.marketOpen {
		return nil, trading.ErrMarketClosed
	}
	a, err := g.reg.Get(req.AssetID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", trading.ErrValidation, err)
	}

	var trade *model.Trade
	switch req.Type {
	case model.TradeBuy:
		trade, err = g.trader.Buy(g.player, a, req.USD, g.tick)
	case model.TradeSell:
		trade, err = g.trader.Sell(g.player, a, req.Units, g.tick)
	default:
		return nil, fmt.Errorf("%w: unknown trade type %q", trading.ErrValidation, req.Type)
	}
	if err != nil {
		return nil, err
	}
	if err := g.rec.RecordTrade(trade, a.Symbol); err != nil {
		log.Printf("[ERROR] record trade: %v", err)
	}
	return trade, nil
}

// OrderRequest asks for a limit order.
type OrderRequest struct {
	AssetID      string
	Side         model.TradeType
	TriggerPrice float64
	Units        float64
}

// PlaceLimitOrder registers a limit order resolved on future ticks.
func (g *Game) PlaceLimitOrder(req OrderRequest) (*model.LimitOrder, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.marketOpen {
		return nil, trading.ErrMarketClosed
	}
	a, err := g.reg.Get(req.AssetID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", trading.ErrValidation, err)
	}
	order, err := g.trader.PlaceLimit(g.player, a, req.Side, req.TriggerPrice, req.Units, g.tick)
	if err != nil {
		return nil, err
	}
	g.recordOrder(order, a.Symbol)
	return order, nil
}

// CancelLimitOrder cancels one of the player's pending orders.
func (g *Game) CancelLimitOrder(orderID string) (*model.LimitOrder, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	order, err := g.trader.CancelLimit(g.player, orderID, g.tick)
	if err != nil {
		return nil, err
	}
	sym := order.AssetID
	if a, aerr := g.reg.Get(order.AssetID); aerr == nil {
		sym = a.Symbol
	}
	g.recordOrder(order, sym)
	return order, nil
}

// PostRequest asks for a social post.
type PostRequest struct {
	AssetID string
	Type    model.PostType
	Content string
	Meta    *social.CallMeta
}

// CreatePost publishes a player post; its sentiment shock lands on the
// next tick's price pass.
func (g *Game) CreatePost(req PostRequest) (*model.SocialPost, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	a, err := g.reg.Get(req.AssetID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", trading.ErrValidation, err)
	}
	post, err := g.feed.CreatePost(g.player, a, req.Type, req.Content, req.Meta, g.tick, g.day)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", trading.ErrValidation, err)
	}
	g.recordSocial("post", a.Symbol, string(post.Sentiment), post.Magnitude, string(post.Type))
	return post, nil
}

// ArticleRequest asks for a news article publication.
type ArticleRequest struct {
	AssetID   string
	Headline  string
	Category  string
	Sentiment model.Sentiment
	Magnitude float64
	IsFake    bool
	Actor     string
}

// PublishArticle injects a news article into the feed.
func (g *Game) PublishArticle(req ArticleRequest) (*model.NewsArticle, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	a, err := g.reg.Get(req.AssetID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", trading.ErrValidation, err)
	}
	art := g.feed.PublishArticle(a, req.Headline, req.Category, req.Sentiment,
		req.Magnitude, req.IsFake, req.Actor, g.tick, g.day)
	g.recordSocial("article", a.Symbol, string(art.Sentiment), art.Magnitude, art.Headline)
	return art, nil
}

// DebunkArticle exposes a fake article: its remaining shock is zeroed and
// the actor's future fakes are damped.
func (g *Game) DebunkArticle(articleID string) (*model.NewsArticle, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	art, err := g.feed.DebunkArticle(articleID, g.day)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", trading.ErrValidation, err)
	}
	sym := art.AssetID
	if a, aerr := g.reg.Get(art.AssetID); aerr == nil {
		sym = a.Symbol
	}
	g.recordSocial("debunk", sym, string(art.Sentiment), 0, art.Headline)
	return art, nil
}

// SetMarketOpen flips the external trading-window signal.
func (g *Game) SetMarketOpen(open bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.marketOpen = open
}

// Snapshot returns the full serializable game state.
func (g *Game) Snapshot() *model.Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshotLocked()
}

func (g *Game) snapshotLocked() *model.Snapshot {
	// Deep-copied: the snapshot is marshaled on another goroutine while
	// ticks keep mutating the live player.
	return &model.Snapshot{
		Tick:       g.tick,
		Day:        g.day,
		MarketOpen: g.marketOpen,
		Assets:     g.reg.Copies(),
		Player:     g.player.Clone(),
		Posts:      append([]model.SocialPost(nil), g.feed.Posts...),
		Articles:   append([]model.NewsArticle(nil), g.feed.Articles...),
		Shocks:     g.feed.ActiveShocks(),
		SavedAt:    time.Now(),
	}
}

// Summary derives the current portfolio view.
func (g *Game) Summary() analytics.Summary {
	g.mu.Lock()
	defer g.mu.Unlock()
	return analytics.Summarize(g.player, g.reg.Copies())
}

// Assets returns value copies of every asset.
func (g *Game) Assets() []model.Asset {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.reg.Copies()
}

// AssetBySymbol resolves a display symbol to an asset copy.
func (g *Game) AssetBySymbol(symbol string) (model.Asset, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	a, err := g.reg.BySymbol(symbol)
	if err != nil {
		return model.Asset{}, err
	}
	return *a, nil
}

// Player returns a detached copy of the player.
func (g *Game) Player() model.Player {
	g.mu.Lock()
	defer g.mu.Unlock()
	return *g.player.Clone()
}

// Tick returns the current tick counter.
func (g *Game) Tick() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.tick
}

func (g *Game) recordTick(res TickResult) {
	rugged := 0
	for _, a := range g.reg.All() {
		if a.Rugged {
			rugged++
		}
	}
	if err := g.rec.RecordTick(&recorder.TickRow{
		Tick: res.Tick, Day: res.Day,
		NetWorthUSD: res.NetWorthUSD, CashUSD: g.player.CashUSD,
		RuggedCount: rugged,
	}); err != nil {
		log.Printf("[ERROR] record tick: %v", err)
	}
}

func (g *Game) recordRug(ev risk.RugEvent) {
	a, err := g.reg.Get(ev.AssetID)
	price := 0.0
	if err == nil {
		price = a.Price
	}
	if err := g.rec.RecordRug(&recorder.RugRow{
		Tick: ev.Tick, Symbol: ev.Symbol, Score: ev.Score, Price: price,
	}); err != nil {
		log.Printf("[ERROR] record rug: %v", err)
	}
}

func (g *Game) recordResolution(r trading.Resolution) {
	sym := r.Order.AssetID
	if a, err := g.reg.Get(r.Order.AssetID); err == nil {
		sym = a.Symbol
	}
	g.recordOrder(&r.Order, sym)
	if r.Trade != nil {
		if err := g.rec.RecordTrade(r.Trade, sym); err != nil {
			log.Printf("[ERROR] record trade: %v", err)
		}
	}
}

func (g *Game) recordOrder(o *model.LimitOrder, symbol string) {
	if err := g.rec.RecordOrder(&recorder.OrderRow{
		Tick: g.tick, OrderID: o.ID, Symbol: symbol, Side: string(o.Side),
		Status: string(o.Status), TriggerPrice: o.TriggerPrice,
		Units: o.Units, Reason: o.CancelReason,
	}); err != nil {
		log.Printf("[ERROR] record order: %v", err)
	}
}

func (g *Game) recordSocial(kind, symbol, sentiment string, magnitude float64, detail string) {
	if err := g.rec.RecordSocial(&recorder.SocialRow{
		Tick: g.tick, Kind: kind, Symbol: symbol,
		Sentiment: sentiment, Magnitude: magnitude, Detail: detail,
	}); err != nil {
		log.Printf("[ERROR] record social: %v", err)
	}
}
