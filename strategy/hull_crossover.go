package strategy

import (
	"github.com/evdnx/goti"

	"github.com/zhuoyikang/finance/config"
	"github.com/zhuoyikang/finance/logger"
	"github.com/zhuoyikang/finance/types"
)

// HullCrossover signals on Hull moving-average crossovers computed by a
// goti indicator suite rebuilt from the trend window on every bar.
type HullCrossover struct {
	bars         int
	minOrderCash float64
	suiteFactory func() (*goti.IndicatorSuite, error)
	log          logger.Logger
}

// NewHullCrossover needs at least bars of history per evaluation.
func NewHullCrossover(cfg config.StrategyConfig, bars int, log logger.Logger) *HullCrossover {
	return &HullCrossover{
		bars:         bars,
		minOrderCash: cfg.Exchange.MinOrderCash,
		suiteFactory: func() (*goti.IndicatorSuite, error) {
			return goti.NewIndicatorSuiteWithConfig(goti.DefaultConfig())
		},
		log: log,
	}
}

func (h *HullCrossover) Name() string { return "hull_crossover" }

func (h *HullCrossover) TrendBars() int { return h.bars }

func (h *HullCrossover) Signal(w Window, _ PositionState) types.Signal {
	if h.bars <= 0 || len(w.Trend) < h.bars {
		return types.None
	}
	suite, err := h.suiteFactory()
	if err != nil {
		h.log.Warn("suite_build_error", logger.Err(err))
		return types.None
	}
	for _, b := range w.Trend {
		if err := suite.Add(b.High, b.Low, b.Close, b.Volume); err != nil {
			h.log.Warn("suite_add_error", logger.Err(err))
			return types.None
		}
	}
	if bear, err := suite.GetHMA().IsBearishCrossover(); err == nil && bear {
		return types.Exit
	}
	if bull, err := suite.GetHMA().IsBullishCrossover(); err == nil && bull && w.Account.Cash > h.minOrderCash {
		return types.Enter
	}
	return types.None
}
