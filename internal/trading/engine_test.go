package trading

import (
	"errors"
	"math"
	"testing"

	"RugTycoon/internal/model"
)

func tradableAsset(id, symbol string, price float64) *model.Asset {
	return &model.Asset{
		ID:       id,
		Symbol:   symbol,
		Tier:     model.TierBase,
		Price:    price,
		Unlocked: true,
	}
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestBuy_DeductsCashExactly(t *testing.T) {
	// $1000 cash, $1.00 price, buy $500 with a $2 fee.
	e := New(2.0)
	p := model.NewPlayer(1000)
	a := tradableAsset("x", "X", 1.0)

	trade, err := e.Buy(p, a, 500, 1)
	if err != nil {
		t.Fatalf("buy failed: %v", err)
	}
	if !approx(trade.Units, 500) {
		t.Errorf("expected 500 units, got %g", trade.Units)
	}
	if !approx(p.CashUSD, 498) {
		t.Errorf("expected cash $498 after $500 buy + $2 fee, got $%g", p.CashUSD)
	}
	if !approx(p.Holdings["x"], 500) {
		t.Errorf("expected holdings 500, got %g", p.Holdings["x"])
	}
	if !approx(p.Basis["x"].AvgCost(), 1.0) {
		t.Errorf("expected avg cost $1.00, got %g", p.Basis["x"].AvgCost())
	}
}

func TestBuy_FeeInclusiveAffordability(t *testing.T) {
	e := New(2.0)
	p := model.NewPlayer(100)
	a := tradableAsset("x", "X", 1.0)

	// $100 buy needs $102 with the fee.
	if _, err := e.Buy(p, a, 100, 1); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if p.CashUSD != 100 || len(p.Holdings) != 0 || len(p.Trades) != 0 {
		t.Error("failed buy must not touch player state")
	}

	// $98 + $2 fee fits exactly.
	if _, err := e.Buy(p, a, 98, 1); err != nil {
		t.Fatalf("exact-fit buy failed: %v", err)
	}
	if !approx(p.CashUSD, 0) {
		t.Errorf("expected $0 cash, got $%g", p.CashUSD)
	}
}

func TestBuy_WeightedAverageCost(t *testing.T) {
	e := New(0) // zero fee keeps the arithmetic readable
	p := model.NewPlayer(10_000)
	a := tradableAsset("x", "X", 1.0)

	if _, err := e.Buy(p, a, 100, 1); err != nil {
		t.Fatal(err)
	}
	a.Price = 3.0
	if _, err := e.Buy(p, a, 300, 2); err != nil {
		t.Fatal(err)
	}

	// 100 units @ $1 + 100 units @ $3 -> 200 units at $2 average.
	if !approx(p.Holdings["x"], 200) {
		t.Fatalf("expected 200 units, got %g", p.Holdings["x"])
	}
	if !approx(p.Basis["x"].AvgCost(), 2.0) {
		t.Errorf("expected avg cost $2.00, got %g", p.Basis["x"].AvgCost())
	}
}

func TestSell_RealizedPnL(t *testing.T) {
	// 100 units at $2.00 average, price rises to $3.00, sell 50.
	e := New(2.0)
	p := model.NewPlayer(1000)
	a := tradableAsset("x", "X", 2.0)
	if _, err := e.Buy(p, a, 200, 1); err != nil {
		t.Fatal(err)
	}

	a.Price = 3.0
	trade, err := e.Sell(p, a, 50, 2)
	if err != nil {
		t.Fatalf("sell failed: %v", err)
	}
	// 50·(3.00−2.00) − $2 fee = $48.
	if !approx(trade.RealizedPnL, 48) {
		t.Errorf("expected realized P&L $48, got %g", trade.RealizedPnL)
	}
	if !approx(p.RealizedPnL, 48) {
		t.Errorf("expected running realized P&L $48, got %g", p.RealizedPnL)
	}
	if !approx(p.Holdings["x"], 50) {
		t.Errorf("expected 50 units left, got %g", p.Holdings["x"])
	}
	if !approx(p.Basis["x"].AvgCost(), 2.0) {
		t.Errorf("avg cost must stay $2.00 after a partial sell, got %g", p.Basis["x"].AvgCost())
	}
}

func TestSell_FullPositionClearsBasis(t *testing.T) {
	e := New(1.0)
	p := model.NewPlayer(1000)
	a := tradableAsset("x", "X", 1.0)
	if _, err := e.Buy(p, a, 300, 1); err != nil {
		t.Fatal(err)
	}

	units := p.Holdings["x"]
	if _, err := e.Sell(p, a, units, 2); err != nil {
		t.Fatalf("sell failed: %v", err)
	}
	if _, ok := p.Holdings["x"]; ok {
		t.Error("holdings entry should be gone after selling out")
	}
	if _, ok := p.Basis["x"]; ok {
		t.Error("cost-basis entry should be gone after selling out")
	}
}

func TestSell_InsufficientHoldings(t *testing.T) {
	e := New(2.0)
	p := model.NewPlayer(1000)
	a := tradableAsset("x", "X", 1.0)
	if _, err := e.Buy(p, a, 100, 1); err != nil {
		t.Fatal(err)
	}

	if _, err := e.Sell(p, a, 200, 2); !errors.Is(err, ErrInsufficientHoldings) {
		t.Fatalf("expected ErrInsufficientHoldings, got %v", err)
	}
	if !approx(p.Holdings["x"], 100) {
		t.Error("failed sell must not touch holdings")
	}
}

func TestTrade_GuardFailures(t *testing.T) {
	e := New(2.0)

	tests := []struct {
		name    string
		player  func() *model.Player
		asset   func() *model.Asset
		wantErr error
	}{
		{
			"rugged asset",
			func() *model.Player { return model.NewPlayer(1000) },
			func() *model.Asset { a := tradableAsset("x", "X", 1.0); a.Rugged = true; return a },
			ErrAssetRugged,
		},
		{
			"blacklisted player",
			func() *model.Player { p := model.NewPlayer(1000); p.Blacklisted = true; return p },
			func() *model.Asset { return tradableAsset("x", "X", 1.0) },
			ErrBlacklisted,
		},
		{
			"locked asset",
			func() *model.Player { return model.NewPlayer(1000) },
			func() *model.Asset { a := tradableAsset("x", "X", 1.0); a.Unlocked = false; return a },
			ErrValidation,
		},
	}

	for _, tt := range tests {
		p, a := tt.player(), tt.asset()
		if _, err := e.Buy(p, a, 100, 1); !errors.Is(err, tt.wantErr) {
			t.Errorf("%s: buy: expected %v, got %v", tt.name, tt.wantErr, err)
		}
		if _, err := e.Sell(p, a, 1, 1); !errors.Is(err, tt.wantErr) {
			t.Errorf("%s: sell: expected %v, got %v", tt.name, tt.wantErr, err)
		}
	}
}

func TestTrade_ValidationRejectsNonPositive(t *testing.T) {
	e := New(2.0)
	p := model.NewPlayer(1000)
	a := tradableAsset("x", "X", 1.0)

	for _, usd := range []float64{0, -50} {
		if _, err := e.Buy(p, a, usd, 1); !errors.Is(err, ErrValidation) {
			t.Errorf("buy $%g: expected ErrValidation, got %v", usd, err)
		}
	}
	for _, units := range []float64{0, -1} {
		if _, err := e.Sell(p, a, units, 1); !errors.Is(err, ErrValidation) {
			t.Errorf("sell %g: expected ErrValidation, got %v", units, err)
		}
	}
}

func TestTrade_RecordsAreAppendOnly(t *testing.T) {
	e := New(2.0)
	p := model.NewPlayer(1000)
	a := tradableAsset("x", "X", 1.0)

	if _, err := e.Buy(p, a, 100, 1); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Sell(p, a, 50, 2); err != nil {
		t.Fatal(err)
	}
	if len(p.Trades) != 2 {
		t.Fatalf("expected 2 trade records, got %d", len(p.Trades))
	}
	if p.Trades[0].Type != model.TradeBuy || p.Trades[1].Type != model.TradeSell {
		t.Error("trade log out of order")
	}
	if p.Trades[0].ID == p.Trades[1].ID {
		t.Error("trade ids must be unique")
	}
}
