package strategy

import (
	"github.com/zhuoyikang/finance/config"
	"github.com/zhuoyikang/finance/indicator"
	"github.com/zhuoyikang/finance/logger"
	"github.com/zhuoyikang/finance/types"
)

// ChannelBreakout is the turtle signal: exit under the ⌊T/2⌋ Donchian low
// on a confirmed downtrend, enter (or add) on a confirmed uptrend.
// The same rule serves the flat and the holding context.
type ChannelBreakout struct {
	lookback     int
	exitBars     int
	minOrderCash float64
	trend        indicator.Trend
	log          logger.Logger
}

func NewChannelBreakout(cfg config.StrategyConfig, log logger.Logger) *ChannelBreakout {
	return &ChannelBreakout{
		lookback:     cfg.Risk.Lookback,
		exitBars:     cfg.Risk.Trend.ExitConfirmBars,
		minOrderCash: cfg.Exchange.MinOrderCash,
		trend:        trendFromConfig(cfg.Risk.Trend),
		log:          log,
	}
}

func (c *ChannelBreakout) Name() string { return "channel_breakout" }

func (c *ChannelBreakout) TrendBars() int { return c.trend.RequiredBars() }

func (c *ChannelBreakout) Signal(w Window, _ PositionState) types.Signal {
	bounds, err := indicator.Donchian(w.Channel, c.lookback)
	if err != nil {
		return types.None
	}
	c.log.Debug("channel",
		logger.Float64("price", w.Price),
		logger.Float64("upper", bounds.Upper),
		logger.Float64("lower", bounds.Lower),
	)
	if len(w.Trend) < c.trend.RequiredBars() {
		return types.None
	}
	closes := types.Closes(w.Trend)
	if w.Price < bounds.Lower && c.trend.IsDowning(closes, c.exitBars) {
		return types.Exit
	}
	if c.trend.IsUping(closes) && w.Account.Cash > c.minOrderCash {
		return types.Enter
	}
	return types.None
}

func trendFromConfig(tp config.TrendParameters) indicator.Trend {
	return indicator.Trend{Depth: tp.Depths(), CheckMA60: tp.CheckMA60}
}
