package strategy

import (
	"github.com/zhuoyikang/finance/config"
	"github.com/zhuoyikang/finance/risk"
	"github.com/zhuoyikang/finance/types"
)

type Phase int

const (
	Flat Phase = iota
	Holding
)

func (p Phase) String() string {
	if p == Holding {
		return "holding"
	}
	return "flat"
}

// PositionState is the only mutable state of a strategy instance.
// Holding implies UnitSize > 0 and AddCount in [1, LimitUnit]; Flat implies
// every field is zero.
type PositionState struct {
	Phase          Phase
	LastEntryPrice float64
	UnitSize       float64
	AddCount       int
}

func (s *PositionState) enter(unit, price float64) {
	s.Phase = Holding
	s.UnitSize = unit
	s.AddCount = 1
	s.LastEntryPrice = price
}

func (s *PositionState) add(price float64) {
	s.AddCount++
	s.LastEntryPrice = price
}

// reset returns to Flat in one step.
func (s *PositionState) reset() {
	*s = PositionState{}
}

type Action int

const (
	ActionNone Action = iota
	ActionEnter
	ActionAdd
	ActionExit
)

func (a Action) String() string {
	switch a {
	case ActionEnter:
		return "enter"
	case ActionAdd:
		return "add"
	case ActionExit:
		return "exit"
	default:
		return "none"
	}
}

// Reasons attached to a Decision.
const (
	ReasonNoSignal            = "no_signal"
	ReasonInsufficientHistory = "insufficient_history"
	ReasonPriceUnavailable    = "price_unavailable"
	ReasonZeroVolatility      = "zero_volatility"
	ReasonBelowMinCash        = "below_min_cash"
	ReasonBelowMinQty         = "below_min_qty"
	ReasonLimitReached        = "limit_reached"
	ReasonAlreadyHolding      = "already_holding"
	ReasonNotHolding          = "not_holding"
	ReasonNothingToSell       = "nothing_to_sell"
)

// Decision is the outcome of one lifecycle step. Intent is nil when no
// order has to be sent.
type Decision struct {
	Action Action
	Intent *types.OrderIntent
	Reason string
	// Cash is the amount committed by a buy, Qty the quantity of a sell.
	Cash float64
	Qty  float64
}

// Inputs carries everything a lifecycle step needs for one bar.
type Inputs struct {
	Signal  types.Signal
	Price   float64
	ATR     float64
	Account types.AccountSnapshot
}

// Lifecycle owns the PositionState of one security and is the only place
// allowed to change it.
type Lifecycle struct {
	symbol string
	risk   config.RiskParameters
	rules  config.ExchangeRules
	state  PositionState
}

func NewLifecycle(symbol string, rp config.RiskParameters, rules config.ExchangeRules) *Lifecycle {
	return &Lifecycle{symbol: symbol, risk: rp, rules: rules}
}

// State returns a copy of the current position state.
func (l *Lifecycle) State() PositionState { return l.state }

// Step applies one signal and returns what to do about it.
func (l *Lifecycle) Step(in Inputs) Decision {
	if l.state.Phase == Holding && in.Account.Asset > 0 {
		switch in.Signal {
		case types.Enter:
			return l.pyramid(in)
		case types.Exit:
			return l.exit(in)
		}
		return Decision{Reason: ReasonNoSignal}
	}

	switch in.Signal {
	case types.Enter:
		if l.state.Phase == Holding {
			// entry not filled yet
			return Decision{Reason: ReasonAlreadyHolding}
		}
		return l.enter(in)
	case types.Exit:
		if l.state.Phase == Holding {
			l.state.reset()
			return Decision{Action: ActionExit, Reason: ReasonNothingToSell}
		}
		return Decision{Reason: ReasonNotHolding}
	}
	return Decision{Reason: ReasonNoSignal}
}

func (l *Lifecycle) enter(in Inputs) Decision {
	unit, err := risk.Unit(risk.RiskValue(in.Account.NetValue, l.risk.RiskFraction), in.ATR)
	if err != nil {
		return Decision{Reason: ReasonZeroVolatility}
	}
	cash := risk.CashAmount(in.Account.Cash, unit, in.Price, l.rules.CashPrecision)
	intent, reason := l.buy(cash, in.Price)
	if intent == nil {
		return Decision{Reason: reason}
	}
	l.state.enter(unit, in.Price)
	return Decision{Action: ActionEnter, Intent: intent, Cash: cash}
}

func (l *Lifecycle) pyramid(in Inputs) Decision {
	if l.state.AddCount >= l.risk.LimitUnit {
		return Decision{Reason: ReasonLimitReached}
	}
	cash := risk.CashAmount(in.Account.Cash, l.state.UnitSize, in.Price, l.rules.CashPrecision)
	intent, reason := l.buy(cash, in.Price)
	if intent == nil {
		return Decision{Reason: reason}
	}
	l.state.add(in.Price)
	return Decision{Action: ActionAdd, Intent: intent, Cash: cash}
}

// exit resets before building the sell so the reset never depends on the
// order being accepted.
func (l *Lifecycle) exit(in Inputs) Decision {
	l.state.reset()
	qty := risk.FloorQty(in.Account.Asset, l.rules.QtyStep)
	if qty <= 0 {
		return Decision{Action: ActionExit, Reason: ReasonNothingToSell}
	}
	o := types.OrderIntent{
		Symbol:  l.symbol,
		Side:    types.Sell,
		Sizing:  types.ByQuantity,
		Amount:  qty,
		Comment: "turtle exit",
	}
	if off := l.risk.LimitOffset; off > 0 {
		o.PriceMode = types.Limit
		o.LimitPrice = in.Price * (1 - off)
	}
	return Decision{Action: ActionExit, Intent: &o, Qty: qty}
}

// buy sizes a buy intent for cash, or explains why it cannot be sent.
func (l *Lifecycle) buy(cash, price float64) (*types.OrderIntent, string) {
	if cash <= 0 || cash < l.rules.MinOrderCash {
		return nil, ReasonBelowMinCash
	}
	o := types.OrderIntent{
		Symbol:  l.symbol,
		Side:    types.Buy,
		Sizing:  types.ByCash,
		Amount:  cash,
		Comment: "turtle unit",
	}
	if off := l.risk.LimitOffset; off > 0 {
		limit := price * (1 + off)
		qty := risk.FloorQty(cash/limit, l.rules.QtyStep)
		if qty <= 0 || qty < l.rules.MinOrderQty {
			return nil, ReasonBelowMinQty
		}
		o.Sizing = types.ByQuantity
		o.Amount = qty
		o.PriceMode = types.Limit
		o.LimitPrice = limit
	}
	return &o, ""
}
