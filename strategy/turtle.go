package strategy

import (
	"github.com/zhuoyikang/finance/config"
	"github.com/zhuoyikang/finance/executor"
	"github.com/zhuoyikang/finance/feed"
	"github.com/zhuoyikang/finance/indicator"
	"github.com/zhuoyikang/finance/logger"
	"github.com/zhuoyikang/finance/metrics"
	"github.com/zhuoyikang/finance/types"
)

// Turtle drives one security through the channel breakout / pyramiding
// lifecycle. It is not safe for concurrent use; run one instance per
// security.
type Turtle struct {
	*BaseStrategy
	gen  SignalGenerator
	life *Lifecycle
}

type Option func(*Turtle)

// WithSignalGenerator replaces the default ChannelBreakout generator.
func WithSignalGenerator(g SignalGenerator) Option {
	return func(t *Turtle) { t.gen = g }
}

func NewTurtle(cfg config.StrategyConfig,
	data feed.MarketData,
	acct executor.Account,
	exec executor.Executor,
	log logger.Logger,
	opts ...Option) (*Turtle, error) {

	base, err := NewBaseStrategy(cfg, data, acct, exec, log)
	if err != nil {
		return nil, err
	}
	t := &Turtle{
		BaseStrategy: base,
		life:         NewLifecycle(cfg.Symbol, cfg.Risk, cfg.Exchange),
	}
	t.gen = NewChannelBreakout(cfg, base.Log)
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Name is the generator name, used as the metrics label.
func (t *Turtle) Name() string { return t.gen.Name() }

// Position returns a copy of the current position state.
func (t *Turtle) Position() PositionState { return t.life.State() }

// ProcessBar evaluates the newest bar and submits at most one order.
func (t *Turtle) ProcessBar() Decision {
	name := t.gen.Name()
	lookback := t.Cfg.Risk.Lookback

	bars, err := t.history(lookback + 1)
	if err != nil || len(bars) < lookback+1 {
		t.Log.Warn("insufficient_history",
			logger.String("symbol", t.Symbol),
			logger.Int("have", len(bars)),
			logger.Int("need", lookback+1),
		)
		metrics.EvaluationsDeferred.WithLabelValues(name).Inc()
		return Decision{Reason: ReasonInsufficientHistory}
	}

	price, err := t.Data.CurrentPrice(t.Symbol)
	if err != nil || price <= 0 {
		t.Log.Warn("price_unavailable", logger.String("symbol", t.Symbol))
		return Decision{Reason: ReasonPriceUnavailable}
	}

	atr, err := indicator.ATR(bars)
	if err != nil {
		metrics.EvaluationsDeferred.WithLabelValues(name).Inc()
		return Decision{Reason: ReasonInsufficientHistory}
	}
	metrics.ATR.WithLabelValues(t.Symbol).Set(atr)
	t.Log.Debug("atr", logger.String("symbol", t.Symbol), logger.Float64("atr", atr))

	w := Window{
		Channel: bars[:len(bars)-1],
		Price:   price,
		Account: t.Account.Snapshot(t.Symbol),
	}
	if n := t.gen.TrendBars(); n > 0 {
		// a short trend history only disables the trend-confirmed signals
		if w.Trend, err = t.history(n); err != nil {
			t.Log.Warn("trend_history_error", logger.String("symbol", t.Symbol), logger.Err(err))
		}
	}

	sig := t.gen.Signal(w, t.life.State())
	metrics.Signals.WithLabelValues(name, sig.String()).Inc()

	d := t.life.Step(Inputs{Signal: sig, Price: price, ATR: atr, Account: w.Account})
	t.logDecision(sig, price, atr, d)

	if d.Intent != nil {
		_ = t.submitIntent(*d.Intent, name)
	}
	metrics.PyramidUnits.WithLabelValues(name).Set(float64(t.life.State().AddCount))
	return d
}

func (t *Turtle) logDecision(sig types.Signal, price, atr float64, d Decision) {
	switch {
	case d.Reason == ReasonZeroVolatility:
		t.Log.Warn("zero_volatility",
			logger.String("symbol", t.Symbol),
			logger.Float64("atr", atr),
		)
	case d.Reason == ReasonBelowMinCash || d.Reason == ReasonBelowMinQty:
		t.Log.Info("order_too_small",
			logger.String("symbol", t.Symbol),
			logger.String("reason", d.Reason),
			logger.Float64("price", price),
		)
	case d.Action != ActionNone:
		st := t.life.State()
		t.Log.Info("position_"+d.Action.String(),
			logger.String("symbol", t.Symbol),
			logger.String("signal", sig.String()),
			logger.Float64("price", price),
			logger.Float64("atr", atr),
			logger.Float64("unit", st.UnitSize),
			logger.Int("units", st.AddCount),
			logger.String("reason", d.Reason),
		)
	}
}
