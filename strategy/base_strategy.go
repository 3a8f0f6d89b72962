package strategy

import (
	"github.com/pkg/errors"

	"github.com/zhuoyikang/finance/config"
	"github.com/zhuoyikang/finance/executor"
	"github.com/zhuoyikang/finance/feed"
	"github.com/zhuoyikang/finance/logger"
	"github.com/zhuoyikang/finance/metrics"
	"github.com/zhuoyikang/finance/types"
)

// BaseStrategy bundles the common dependencies and helpers.
type BaseStrategy struct {
	Exec    executor.Executor
	Account executor.Account
	Data    feed.MarketData
	Log     logger.Logger
	Cfg     config.StrategyConfig
	Symbol  string
}

// NewBaseStrategy validates the config and the ports. All concrete
// strategies should call this from their own constructors.
func NewBaseStrategy(cfg config.StrategyConfig,
	data feed.MarketData,
	acct executor.Account,
	exec executor.Executor,
	log logger.Logger) (*BaseStrategy, error) {

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid strategy config")
	}
	if data == nil || acct == nil || exec == nil {
		return nil, errors.New("market data, account and executor are required")
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &BaseStrategy{
		Exec:    exec,
		Account: acct,
		Data:    data,
		Log:     log,
		Cfg:     cfg,
		Symbol:  cfg.Symbol,
	}, nil
}

// history fetches count bars of the configured frequency.
func (b *BaseStrategy) history(count int) ([]types.Bar, error) {
	return b.Data.History(b.Symbol, count, b.Cfg.Frequency)
}

// submitIntent routes an intent to the matching executor call and records
// metrics and logs.
func (b *BaseStrategy) submitIntent(o types.OrderIntent, ctx string) error {
	var err error
	switch {
	case o.Side == types.Buy && o.PriceMode == types.Market:
		err = b.Exec.SubmitMarketBuy(o.Symbol, o.Amount)
	case o.Side == types.Buy:
		err = b.Exec.SubmitLimitBuy(o.Symbol, o.Amount, o.LimitPrice)
	case o.PriceMode == types.Market:
		err = b.Exec.SubmitMarketSell(o.Symbol, o.Amount)
	default:
		err = b.Exec.SubmitLimitSell(o.Symbol, o.Amount, o.LimitPrice)
	}
	if err != nil {
		b.Log.Error("order_submit_failed",
			logger.String("symbol", o.Symbol),
			logger.String("side", string(o.Side)),
			logger.Float64("amount", o.Amount),
			logger.Err(err),
		)
		return err
	}
	b.Log.Info("order_submitted",
		logger.String("symbol", o.Symbol),
		logger.String("side", string(o.Side)),
		logger.Float64("amount", o.Amount),
		logger.Float64("limit_price", o.LimitPrice),
		logger.String("ctx", ctx),
	)
	metrics.OrdersSubmitted.WithLabelValues(ctx, string(o.Side)).Inc()
	return nil
}
