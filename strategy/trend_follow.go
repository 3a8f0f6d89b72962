package strategy

import (
	"github.com/zhuoyikang/finance/config"
	"github.com/zhuoyikang/finance/indicator"
	"github.com/zhuoyikang/finance/types"
)

// DefaultExitDepths are the comparison depths of the sell side of the
// plain moving-average trend strategy.
var DefaultExitDepths = config.TrendParameters{MA5CP: 3, MA10CP: 1, MA30CP: 1}

// TrendFollow trades moving-average direction only, without a channel:
// enter when every window (60 included) is rising, exit when the 5, 10
// and 30 windows are all falling.
type TrendFollow struct {
	buy          indicator.Trend
	sell         config.TrendParameters
	minOrderCash float64
}

func NewTrendFollow(cfg config.StrategyConfig, sell config.TrendParameters) *TrendFollow {
	buy := trendFromConfig(cfg.Risk.Trend)
	buy.CheckMA60 = true
	return &TrendFollow{
		buy:          buy,
		sell:         sell,
		minOrderCash: cfg.Exchange.MinOrderCash,
	}
}

func (t *TrendFollow) Name() string { return "trend_follow" }

func (t *TrendFollow) TrendBars() int {
	n := t.buy.RequiredBars()
	for w, cp := range t.sell.Depths() {
		if cp > 0 && w+cp > n {
			n = w + cp
		}
	}
	return n
}

func (t *TrendFollow) Signal(w Window, _ PositionState) types.Signal {
	if len(w.Trend) < t.TrendBars() {
		return types.None
	}
	closes := types.Closes(w.Trend)
	if indicator.IsFalling(closes, t.sell.MA5CP, 5) &&
		indicator.IsFalling(closes, t.sell.MA10CP, 10) &&
		indicator.IsFalling(closes, t.sell.MA30CP, 30) {
		return types.Exit
	}
	if t.buy.IsUping(closes) && w.Account.Cash > t.minOrderCash {
		return types.Enter
	}
	return types.None
}
