package strategy

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhuoyikang/finance/config"
	"github.com/zhuoyikang/finance/types"
)

func newTestLifecycle(offset float64) *Lifecycle {
	cfg := config.Default()
	cfg.Risk.LimitOffset = offset
	return NewLifecycle("LTC", cfg.Risk, cfg.Exchange)
}

var approx = cmpopts.EquateApprox(0, 1e-9)

/*
-----------------------------------------------------------------------
Flat → Holding on an enter signal.
-----------------------------------------------------------------------
net 10 000, risk 1 %, ATR 2 → unit 50; at price 100 one unit is 5 000.
*/
func TestLifecycle_Enter(t *testing.T) {
	l := newTestLifecycle(0)
	d := l.Step(Inputs{
		Signal:  types.Enter,
		Price:   100,
		ATR:     2,
		Account: types.AccountSnapshot{Cash: 10000, NetValue: 10000},
	})

	require.Equal(t, ActionEnter, d.Action)
	require.NotNil(t, d.Intent)
	assert.Equal(t, types.Buy, d.Intent.Side)
	assert.Equal(t, types.ByCash, d.Intent.Sizing)
	assert.Equal(t, types.Market, d.Intent.PriceMode)
	assert.InDelta(t, 5000, d.Intent.Amount, 0.01)

	want := PositionState{Phase: Holding, UnitSize: 50, AddCount: 1, LastEntryPrice: 100}
	if diff := cmp.Diff(want, l.State(), approx); diff != "" {
		t.Fatalf("state mismatch (-want +got):\n%s", diff)
	}
}

func TestLifecycle_DoublingATRHalvesUnit(t *testing.T) {
	acct := types.AccountSnapshot{Cash: 1e6, NetValue: 10000}

	a := newTestLifecycle(0)
	a.Step(Inputs{Signal: types.Enter, Price: 100, ATR: 2, Account: acct})
	b := newTestLifecycle(0)
	b.Step(Inputs{Signal: types.Enter, Price: 100, ATR: 4, Account: acct})

	assert.InDelta(t, a.State().UnitSize/2, b.State().UnitSize, 1e-9)
}

/*
-----------------------------------------------------------------------
Pyramiding stops at LimitUnit.
-----------------------------------------------------------------------
Every enter signal while holding adds one unit until AddCount reaches
LimitUnit (4); the next one is a no-op with the state untouched.
*/
func TestLifecycle_PyramidUpToLimit(t *testing.T) {
	l := newTestLifecycle(0)
	acct := types.AccountSnapshot{Cash: 100000, NetValue: 10000}
	l.Step(Inputs{Signal: types.Enter, Price: 100, ATR: 2, Account: acct})

	acct.Asset = 50
	for i, price := range []float64{102, 104, 106} {
		d := l.Step(Inputs{Signal: types.Enter, Price: price, ATR: 2, Account: acct})
		require.Equal(t, ActionAdd, d.Action, "add %d", i+1)
		assert.InDelta(t, 50*price, d.Cash, 0.01)
		assert.Equal(t, i+2, l.State().AddCount)
		assert.Equal(t, price, l.State().LastEntryPrice)
	}

	before := l.State()
	d := l.Step(Inputs{Signal: types.Enter, Price: 108, ATR: 2, Account: acct})
	assert.Equal(t, ActionNone, d.Action)
	assert.Equal(t, ReasonLimitReached, d.Reason)
	assert.Nil(t, d.Intent)
	if diff := cmp.Diff(before, l.State()); diff != "" {
		t.Fatalf("state changed at limit (-before +after):\n%s", diff)
	}
}

func TestLifecycle_AddCappedByCash(t *testing.T) {
	l := newTestLifecycle(0)
	l.Step(Inputs{Signal: types.Enter, Price: 100, ATR: 2,
		Account: types.AccountSnapshot{Cash: 100000, NetValue: 10000}})

	d := l.Step(Inputs{Signal: types.Enter, Price: 100, ATR: 2,
		Account: types.AccountSnapshot{Cash: 1234.567, Asset: 50, NetValue: 10000}})
	require.Equal(t, ActionAdd, d.Action)
	assert.InDelta(t, 1234.56, d.Intent.Amount, 1e-9)
}

func TestLifecycle_AddBelowMinimumKeepsState(t *testing.T) {
	l := newTestLifecycle(0)
	l.Step(Inputs{Signal: types.Enter, Price: 100, ATR: 2,
		Account: types.AccountSnapshot{Cash: 100000, NetValue: 10000}})
	before := l.State()

	d := l.Step(Inputs{Signal: types.Enter, Price: 101, ATR: 2,
		Account: types.AccountSnapshot{Cash: 0.5, Asset: 50, NetValue: 10000}})
	assert.Equal(t, ReasonBelowMinCash, d.Reason)
	assert.Equal(t, before, l.State())
}

/*
-----------------------------------------------------------------------
Exit resets and sells everything.
-----------------------------------------------------------------------
The held quantity is floored to the exchange step and the state is
back to Flat with every field zeroed.
*/
func TestLifecycle_ExitResetsAndSellsAll(t *testing.T) {
	l := newTestLifecycle(0)
	l.Step(Inputs{Signal: types.Enter, Price: 100, ATR: 2,
		Account: types.AccountSnapshot{Cash: 100000, NetValue: 10000}})

	d := l.Step(Inputs{Signal: types.Exit, Price: 90, ATR: 2,
		Account: types.AccountSnapshot{Cash: 95000, Asset: 50.123456, NetValue: 99500}})

	require.Equal(t, ActionExit, d.Action)
	require.NotNil(t, d.Intent)
	assert.Equal(t, types.Sell, d.Intent.Side)
	assert.Equal(t, types.ByQuantity, d.Intent.Sizing)
	assert.InDelta(t, 50.1234, d.Intent.Amount, 1e-9)
	assert.Equal(t, PositionState{}, l.State())
}

func TestLifecycle_ExitWhileFlatIsNoop(t *testing.T) {
	l := newTestLifecycle(0)
	d := l.Step(Inputs{Signal: types.Exit, Price: 90, ATR: 2,
		Account: types.AccountSnapshot{Cash: 1000, Asset: 3, NetValue: 1270}})
	assert.Equal(t, ReasonNotHolding, d.Reason)
	assert.Nil(t, d.Intent)
	assert.Equal(t, Flat, l.State().Phase)
}

// The entry was sent but never filled: no more buys, and an exit signal
// only resets.
func TestLifecycle_HoldingWithoutAsset(t *testing.T) {
	l := newTestLifecycle(0)
	acct := types.AccountSnapshot{Cash: 100000, NetValue: 100000}
	l.Step(Inputs{Signal: types.Enter, Price: 100, ATR: 2, Account: acct})

	d := l.Step(Inputs{Signal: types.Enter, Price: 101, ATR: 2, Account: acct})
	assert.Equal(t, ReasonAlreadyHolding, d.Reason)
	assert.Nil(t, d.Intent)
	assert.Equal(t, 1, l.State().AddCount)

	d = l.Step(Inputs{Signal: types.Exit, Price: 95, ATR: 2, Account: acct})
	assert.Equal(t, ActionExit, d.Action)
	assert.Equal(t, ReasonNothingToSell, d.Reason)
	assert.Nil(t, d.Intent)
	assert.Equal(t, PositionState{}, l.State())
}

func TestLifecycle_ZeroVolatilityBlocksEntry(t *testing.T) {
	l := newTestLifecycle(0)
	d := l.Step(Inputs{Signal: types.Enter, Price: 100, ATR: 0,
		Account: types.AccountSnapshot{Cash: 10000, NetValue: 10000}})
	assert.Equal(t, ReasonZeroVolatility, d.Reason)
	assert.Nil(t, d.Intent)
	assert.Equal(t, PositionState{}, l.State())
}

func TestLifecycle_EntryBelowMinCash(t *testing.T) {
	l := newTestLifecycle(0)
	d := l.Step(Inputs{Signal: types.Enter, Price: 100, ATR: 2,
		Account: types.AccountSnapshot{Cash: 0.99, NetValue: 10000}})
	assert.Equal(t, ReasonBelowMinCash, d.Reason)
	assert.Equal(t, Flat, l.State().Phase)
}

func TestLifecycle_NoSignal(t *testing.T) {
	l := newTestLifecycle(0)
	d := l.Step(Inputs{Signal: types.None, Price: 100, ATR: 2,
		Account: types.AccountSnapshot{Cash: 10000, NetValue: 10000}})
	assert.Equal(t, Decision{Reason: ReasonNoSignal}, d)
}

/*
-----------------------------------------------------------------------
Limit pricing.
-----------------------------------------------------------------------
With a 1 % offset the buy is a limit order for cash/limit units at
price×1.01 and the exit is a limit sell at price×0.99.
*/
func TestLifecycle_LimitOrders(t *testing.T) {
	l := newTestLifecycle(0.01)
	d := l.Step(Inputs{Signal: types.Enter, Price: 100, ATR: 2,
		Account: types.AccountSnapshot{Cash: 10000, NetValue: 10000}})

	require.NotNil(t, d.Intent)
	assert.Equal(t, types.Limit, d.Intent.PriceMode)
	assert.Equal(t, types.ByQuantity, d.Intent.Sizing)
	assert.InDelta(t, 101, d.Intent.LimitPrice, 1e-9)
	assert.InDelta(t, 49.5049, d.Intent.Amount, 1e-9)

	d = l.Step(Inputs{Signal: types.Exit, Price: 100, ATR: 2,
		Account: types.AccountSnapshot{Cash: 5000, Asset: 49.5049, NetValue: 9950}})
	require.NotNil(t, d.Intent)
	assert.Equal(t, types.Sell, d.Intent.Side)
	assert.Equal(t, types.Limit, d.Intent.PriceMode)
	assert.InDelta(t, 99, d.Intent.LimitPrice, 1e-9)
}

func TestPhaseAndActionStrings(t *testing.T) {
	assert.Equal(t, "flat", Flat.String())
	assert.Equal(t, "holding", Holding.String())
	assert.Equal(t, "add", ActionAdd.String())
	assert.Equal(t, "none", ActionNone.String())
}
