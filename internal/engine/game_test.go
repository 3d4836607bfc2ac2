package engine

import (
	"errors"
	"math"
	"testing"
	"time"

	"RugTycoon/internal/catalog"
	"RugTycoon/internal/config"
	"RugTycoon/internal/model"
	"RugTycoon/internal/trading"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Game.TicksPerDay = 4
	cfg.Game.StartingCash = 10000
	cfg.Game.TradeFeeUSD = 2.0
	cfg.Game.Seed = 42
	cfg.Pricing.HypeAmplifier = 1.5
	cfg.Pricing.HypeBias = 0.004
	cfg.Pricing.LiquidityRefUSD = 1_000_000
	cfg.Pricing.ShockDuration = 8
	cfg.Risk.MaxRugChance = 0 // no rug draws unless a test opts in
	cfg.Risk.FlagThreshold = 0.55
	cfg.Social.FatigueFactor = 0.6
	cfg.Social.FakeDamping = 0.5
	cfg.Social.CallHorizon = 12
	return cfg
}

func testAssets() []model.Asset {
	return []model.Asset{
		{ID: "core", Symbol: "CORE", Name: "CoreCoin", Tier: model.TierCore,
			BasePrice: 100, Price: 100, BaseVolatility: 0.02,
			LiquidityUSD: 5_000_000, AuditScore: 0.9, Unlocked: true},
		{ID: "meme", Symbol: "MEME", Name: "MemeCoin", Tier: model.TierBase,
			BasePrice: 1, Price: 1, BaseVolatility: 0.05,
			LiquidityUSD: 200_000, DevTokensPct: 40, AuditScore: 0.3, Unlocked: true},
		{ID: "vip", Symbol: "VIP", Name: "VIPCoin", Tier: model.TierUnlockable,
			BasePrice: 50, Price: 50, BaseVolatility: 0.03,
			LiquidityUSD: 1_000_000, AuditScore: 0.7, UnlockNetWorth: 20000},
	}
}

func newTestGame(cfg *config.Config) *Game {
	return New(cfg, testAssets(), nil, nil, nil)
}

func TestAdvanceTick_Pipeline(t *testing.T) {
	g := newTestGame(testConfig())

	var last TickResult
	for i := 0; i < 4; i++ {
		last = g.AdvanceTick()
	}

	if last.Tick != 4 {
		t.Errorf("expected tick 4, got %d", last.Tick)
	}
	if !last.DayBoundary || last.Day != 1 {
		t.Errorf("tick 4 of a 4-tick day should close day 1, got boundary=%v day=%d",
			last.DayBoundary, last.Day)
	}
	if last.NetWorthUSD <= 0 {
		t.Errorf("net worth must stay positive, got %g", last.NetWorthUSD)
	}

	for _, a := range g.Assets() {
		if len(a.History) != 4 {
			t.Errorf("%s: expected 4 candles, got %d", a.Symbol, len(a.History))
		}
	}

	p := g.Player()
	if len(p.NetWorthHistory) != 1 {
		t.Errorf("day boundary should append one net-worth sample, got %d", len(p.NetWorthHistory))
	}
}

func TestAdvanceTick_ResetsDailyPostCount(t *testing.T) {
	g := newTestGame(testConfig())
	if _, err := g.CreatePost(PostRequest{AssetID: "meme", Type: model.PostHype, Content: "to the moon"}); err != nil {
		t.Fatalf("post: %v", err)
	}
	if g.Player().PostsToday != 1 {
		t.Fatalf("expected 1 post today, got %d", g.Player().PostsToday)
	}
	for i := 0; i < 4; i++ {
		g.AdvanceTick()
	}
	if g.Player().PostsToday != 0 {
		t.Errorf("day boundary should reset posts-today, got %d", g.Player().PostsToday)
	}
}

func TestExecuteTrade_Facade(t *testing.T) {
	g := newTestGame(testConfig())

	trade, err := g.ExecuteTrade(TradeRequest{AssetID: "meme", Type: model.TradeBuy, USD: 500})
	if err != nil {
		t.Fatalf("buy: %v", err)
	}
	if math.Abs(trade.Units-500) > 1e-9 {
		t.Errorf("expected 500 units, got %g", trade.Units)
	}
	p := g.Player()
	if math.Abs(p.CashUSD-9498) > 1e-9 {
		t.Errorf("expected cash $9498 after fee, got %g", p.CashUSD)
	}

	if _, err := g.ExecuteTrade(TradeRequest{AssetID: "meme", Type: model.TradeSell, Units: 500}); err != nil {
		t.Fatalf("sell: %v", err)
	}
	p = g.Player()
	if _, held := p.Holdings["meme"]; held {
		t.Error("selling out should clear the holding")
	}
}

func TestExecuteTrade_Rejections(t *testing.T) {
	g := newTestGame(testConfig())

	if _, err := g.ExecuteTrade(TradeRequest{AssetID: "nope", Type: model.TradeBuy, USD: 10}); !errors.Is(err, trading.ErrValidation) {
		t.Errorf("unknown asset: expected ErrValidation, got %v", err)
	}
	if _, err := g.ExecuteTrade(TradeRequest{AssetID: "vip", Type: model.TradeBuy, USD: 10}); !errors.Is(err, trading.ErrValidation) {
		t.Errorf("locked asset: expected ErrValidation, got %v", err)
	}
	if _, err := g.ExecuteTrade(TradeRequest{AssetID: "meme", Type: "SHORT", USD: 10}); !errors.Is(err, trading.ErrValidation) {
		t.Errorf("bad trade type: expected ErrValidation, got %v", err)
	}

	g.SetMarketOpen(false)
	if _, err := g.ExecuteTrade(TradeRequest{AssetID: "meme", Type: model.TradeBuy, USD: 10}); !errors.Is(err, trading.ErrMarketClosed) {
		t.Errorf("closed market: expected ErrMarketClosed, got %v", err)
	}
	if _, err := g.PlaceLimitOrder(OrderRequest{AssetID: "meme", Side: model.TradeBuy, TriggerPrice: 0.5, Units: 10}); !errors.Is(err, trading.ErrMarketClosed) {
		t.Errorf("closed market order: expected ErrMarketClosed, got %v", err)
	}
}

func TestUnlockThreshold(t *testing.T) {
	cfg := testConfig()
	cfg.Game.StartingCash = 25000
	g := New(cfg, testAssets(), nil, nil, nil)

	res := g.AdvanceTick()
	if len(res.Unlocked) != 1 || res.Unlocked[0] != "VIP" {
		t.Fatalf("expected VIP unlocked at $25k net worth, got %v", res.Unlocked)
	}
	a, err := g.AssetBySymbol("VIP")
	if err != nil {
		t.Fatal(err)
	}
	if !a.Unlocked {
		t.Error("VIP should be marked unlocked")
	}

	// Unlock is one-shot, not re-reported.
	if res = g.AdvanceTick(); len(res.Unlocked) != 0 {
		t.Errorf("second tick re-reported unlock: %v", res.Unlocked)
	}

	if _, err := g.ExecuteTrade(TradeRequest{AssetID: "vip", Type: model.TradeBuy, USD: 100}); err != nil {
		t.Errorf("unlocked asset should trade: %v", err)
	}
}

func TestRugPull_CancelsOrdersAndHaltsTrading(t *testing.T) {
	cfg := testConfig()
	cfg.Risk.MaxRugChance = 1.0
	assets := testAssets()
	// Make the meme coin maximally rug-prone.
	assets[1].DevTokensPct = 100
	assets[1].AuditScore = 0
	assets[1].SocialHype = 1
	assets[1].LiquidityUSD = 1000
	g := New(cfg, assets, nil, nil, nil)

	order, err := g.PlaceLimitOrder(OrderRequest{AssetID: "meme", Side: model.TradeBuy, TriggerPrice: 0.0001, Units: 10})
	if err != nil {
		t.Fatalf("place: %v", err)
	}

	rugged := false
	for i := 0; i < 50 && !rugged; i++ {
		res := g.AdvanceTick()
		for _, ev := range res.RugEvents {
			if ev.AssetID == "meme" {
				rugged = true
			}
		}
	}
	if !rugged {
		t.Fatal("meme coin never rugged at max rug chance")
	}

	p := g.Player()
	var got *model.LimitOrder
	for i := range p.LimitOrders {
		if p.LimitOrders[i].ID == order.ID {
			got = &p.LimitOrders[i]
		}
	}
	if got == nil {
		t.Fatal("order vanished")
	}
	if got.Status != model.OrderCancelled || got.CancelReason != "asset rugged" {
		t.Errorf("expected cancelled/asset rugged, got %s/%q", got.Status, got.CancelReason)
	}

	if _, err := g.ExecuteTrade(TradeRequest{AssetID: "meme", Type: model.TradeBuy, USD: 10}); !errors.Is(err, trading.ErrAssetRugged) {
		t.Errorf("expected ErrAssetRugged after rug, got %v", err)
	}

	a, _ := g.AssetBySymbol("MEME")
	frozen := a.Price
	g.AdvanceTick()
	if a2, _ := g.AssetBySymbol("MEME"); a2.Price != frozen {
		t.Errorf("rugged price must stay frozen: %g -> %g", frozen, a2.Price)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	g := newTestGame(testConfig())
	if _, err := g.ExecuteTrade(TradeRequest{AssetID: "meme", Type: model.TradeBuy, USD: 300}); err != nil {
		t.Fatal(err)
	}
	if _, err := g.CreatePost(PostRequest{AssetID: "meme", Type: model.PostHype, Content: "gm"}); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		g.AdvanceTick()
	}

	snap := g.Snapshot()
	resumed := New(testConfig(), nil, nil, snap, nil)

	if resumed.Tick() != g.Tick() {
		t.Errorf("tick: %d vs %d", resumed.Tick(), g.Tick())
	}
	want, got := g.Player(), resumed.Player()
	if got.CashUSD != want.CashUSD || len(got.Trades) != len(want.Trades) {
		t.Errorf("player state diverged after resume: cash %g vs %g, trades %d vs %d",
			got.CashUSD, want.CashUSD, len(got.Trades), len(want.Trades))
	}
	wa, ga := g.Assets(), resumed.Assets()
	if len(wa) != len(ga) {
		t.Fatalf("asset count: %d vs %d", len(wa), len(ga))
	}
	for i := range wa {
		if wa[i].Price != ga[i].Price || len(wa[i].History) != len(ga[i].History) {
			t.Errorf("%s diverged after resume", wa[i].Symbol)
		}
	}

	// Resumed game keeps ticking from where it left off.
	if res := resumed.AdvanceTick(); res.Tick != snap.Tick+1 {
		t.Errorf("expected tick %d, got %d", snap.Tick+1, res.Tick)
	}
}

func TestSnapshot_IsADetachedCopy(t *testing.T) {
	g := newTestGame(testConfig())
	snap := g.Snapshot()
	before := snap.Assets[0].Price
	g.AdvanceTick()
	if snap.Assets[0].Price != before {
		t.Error("snapshot must not alias live asset state")
	}

	// The player copy must be just as detached: a trade executed after the
	// snapshot was taken may not surface in it.
	if len(snap.Player.Holdings) != 0 {
		t.Fatalf("expected empty holdings in snapshot, got %v", snap.Player.Holdings)
	}
	if _, err := g.ExecuteTrade(TradeRequest{AssetID: "meme", Type: model.TradeBuy, USD: 300}); err != nil {
		t.Fatal(err)
	}
	if len(snap.Player.Holdings) != 0 {
		t.Errorf("snapshot taken before the trade now shows holdings %v: player aliases live maps",
			snap.Player.Holdings)
	}
	if len(snap.Player.Trades) != 0 {
		t.Errorf("snapshot trade log grew after the fact: %d entries", len(snap.Player.Trades))
	}
}

func TestPlayer_ReturnsDetachedCopy(t *testing.T) {
	g := newTestGame(testConfig())
	if _, err := g.ExecuteTrade(TradeRequest{AssetID: "meme", Type: model.TradeBuy, USD: 100}); err != nil {
		t.Fatal(err)
	}

	p := g.Player()
	p.Holdings["meme"] = 999999
	p.Basis["meme"] = model.CostBasis{TotalUnits: 1, TotalCostUSD: 1}

	if got := g.Player(); got.Holdings["meme"] == 999999 {
		t.Error("mutating the returned player must not reach live state")
	}
}

func TestNew_SnapshotWithoutPlayerStartsFresh(t *testing.T) {
	cfg := testConfig()
	g := New(cfg, testAssets(), nil, &model.Snapshot{Tick: 40, Day: 9}, nil)

	p := g.Player()
	if p.CashUSD != cfg.Game.StartingCash {
		t.Errorf("expected fresh starting cash, got %g", p.CashUSD)
	}
	if res := g.AdvanceTick(); res.Tick != 1 {
		t.Errorf("expected fresh tick counter, got %d", res.Tick)
	}
}

func TestOnCommit_DeliversSnapshot(t *testing.T) {
	g := newTestGame(testConfig())
	ch := make(chan *model.Snapshot, 1)
	g.OnCommit(func(s *model.Snapshot) { ch <- s })

	res := g.AdvanceTick()
	select {
	case snap := <-ch:
		if snap.Tick != res.Tick {
			t.Errorf("snapshot tick %d, tick result %d", snap.Tick, res.Tick)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("commit callback never fired")
	}
}

func TestNewsWire_AttributesArticlesToSource(t *testing.T) {
	deck := []catalog.NewsSeed{
		{Headline: "insider scoop", Sentiment: "bullish", Category: "rumors", Source: "CoinTattler", IsFake: true},
	}
	g := New(testConfig(), testAssets(), deck, nil, nil)

	publish := func() *model.NewsArticle {
		for i := 0; i < 500; i++ {
			if art := g.maybePublishNews(); art != nil {
				return art
			}
		}
		t.Fatal("wire never published")
		return nil
	}

	first := publish()
	if first.Actor != "CoinTattler" {
		t.Fatalf("expected the deck source as actor, got %q", first.Actor)
	}
	if _, err := g.DebunkArticle(first.ID); err != nil {
		t.Fatalf("debunk: %v", err)
	}

	// Damping tracks the source: the next fake from the same outlet lands
	// at half magnitude, so it cannot exceed half the wire's 0.04 ceiling.
	second := publish()
	if second.Magnitude > 0.02 {
		t.Errorf("debunked source should be damped, got magnitude %g", second.Magnitude)
	}
}

func TestNewsWire_DefaultsActorWhenSourceMissing(t *testing.T) {
	deck := []catalog.NewsSeed{
		{Headline: "number go up", Sentiment: "bullish", Category: "markets"},
	}
	g := New(testConfig(), testAssets(), deck, nil, nil)
	for i := 0; i < 500; i++ {
		if art := g.maybePublishNews(); art != nil {
			if art.Actor != "newswire" {
				t.Errorf("expected fallback actor, got %q", art.Actor)
			}
			return
		}
	}
	t.Fatal("wire never published")
}

func TestDeterministicRuns(t *testing.T) {
	run := func() []float64 {
		g := newTestGame(testConfig())
		var out []float64
		for i := 0; i < 20; i++ {
			out = append(out, g.AdvanceTick().NetWorthUSD)
		}
		return out
	}
	a, b := run(), run()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed diverged at tick %d: %g vs %g", i+1, a[i], b[i])
		}
	}
}
