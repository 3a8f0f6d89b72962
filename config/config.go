package config

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/xhit/go-str2duration/v2"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// TrendParameters holds the comparison depth (cp) of every moving-average
// window used by the trend confirmation.
type TrendParameters struct {
	MA5CP  int `yaml:"ma5_cp"`
	MA10CP int `yaml:"ma10_cp"`
	MA30CP int `yaml:"ma30_cp"`
	MA60CP int `yaml:"ma60_cp"`

	// CheckMA60 adds the 60-bar window to the uping check.
	CheckMA60 bool `yaml:"check_ma60"`

	// ExitConfirmBars bounds which windows must be falling before an exit
	// below the channel is accepted (windows longer than this are skipped).
	ExitConfirmBars int `yaml:"exit_confirm_bars"`
}

// Depths maps window length to its comparison depth.
func (t TrendParameters) Depths() map[int]int {
	return map[int]int{5: t.MA5CP, 10: t.MA10CP, 30: t.MA30CP, 60: t.MA60CP}
}

// RiskParameters is immutable for the lifetime of a strategy instance.
type RiskParameters struct {
	Lookback     int             `yaml:"lookback"`      // T: ATR / channel window
	LimitUnit    int             `yaml:"limit_unit"`    // max units held, entry included
	RiskFraction float64         `yaml:"risk_fraction"` // share of net value risked per unit
	Trend        TrendParameters `yaml:"trend"`

	// LimitOffset switches entries/exits to limit orders priced at
	// price×(1+offset) for buys and price×(1−offset) for sells. 0 = market.
	LimitOffset float64 `yaml:"limit_offset"`
}

// ExchangeRules are the per trading pair constraints, read-only to the core.
type ExchangeRules struct {
	MinOrderCash  float64 `yaml:"min_order_cash"`
	MinOrderQty   float64 `yaml:"min_order_qty"`
	QtyStep       float64 `yaml:"qty_step"`       // 0 = no step rounding
	CashPrecision int32   `yaml:"cash_precision"` // decimals kept on cash amounts
}

// StrategyConfig holds all tunable parameters for one traded security.
type StrategyConfig struct {
	Symbol    string         `yaml:"symbol"`
	Frequency string         `yaml:"frequency"` // bar size, e.g. "15m", "4h", "1d"
	Risk      RiskParameters `yaml:"risk"`
	Exchange  ExchangeRules  `yaml:"exchange"`
}

// Default returns the parameters the turtle variant was tuned with.
func Default() StrategyConfig {
	return StrategyConfig{
		Symbol:    "huobi_cny_ltc",
		Frequency: "15m",
		Risk: RiskParameters{
			Lookback:     20,
			LimitUnit:    4,
			RiskFraction: 0.01,
			Trend: TrendParameters{
				MA5CP:           5,
				MA10CP:          3,
				MA30CP:          2,
				MA60CP:          1,
				ExitConfirmBars: 10,
			},
		},
		Exchange: ExchangeRules{
			MinOrderCash:  1,
			MinOrderQty:   0.001,
			QtyStep:       0.0001,
			CashPrecision: 2,
		},
	}
}

// Validate checks that all numeric fields are within sensible bounds.
// Every violation is reported, not only the first one.
func (c *StrategyConfig) Validate() error {
	var err error
	if c.Symbol == "" {
		err = multierr.Append(err, errors.New("Symbol must not be empty"))
	}
	if _, perr := str2duration.ParseDuration(c.Frequency); perr != nil || c.Frequency == "" {
		err = multierr.Append(err, fmt.Errorf("Frequency %q is not a bar size", c.Frequency))
	}
	r := c.Risk
	// ⌊T/2⌋ must still be a usable channel window.
	if r.Lookback < 4 {
		err = multierr.Append(err, fmt.Errorf("Lookback (%d) must be >= 4", r.Lookback))
	}
	if r.LimitUnit < 1 {
		err = multierr.Append(err, fmt.Errorf("LimitUnit (%d) must be >= 1", r.LimitUnit))
	}
	if r.RiskFraction <= 0 || r.RiskFraction > 0.5 {
		err = multierr.Append(err, fmt.Errorf("RiskFraction (%f) must be >0 and <=0.5", r.RiskFraction))
	}
	if r.LimitOffset < 0 || r.LimitOffset >= 1 {
		err = multierr.Append(err, fmt.Errorf("LimitOffset (%f) must be in [0,1)", r.LimitOffset))
	}
	for w, cp := range r.Trend.Depths() {
		if cp < 0 {
			err = multierr.Append(err, fmt.Errorf("comparison depth for MA%d cannot be negative", w))
		}
	}
	if r.Trend.ExitConfirmBars < 0 {
		err = multierr.Append(err, errors.New("ExitConfirmBars cannot be negative"))
	}
	e := c.Exchange
	if e.MinOrderCash < 0 {
		err = multierr.Append(err, errors.New("MinOrderCash cannot be negative"))
	}
	if e.MinOrderQty < 0 {
		err = multierr.Append(err, errors.New("MinOrderQty cannot be negative"))
	}
	if e.QtyStep < 0 {
		err = multierr.Append(err, errors.New("QtyStep cannot be negative"))
	}
	if e.CashPrecision < 0 {
		err = multierr.Append(err, errors.New("CashPrecision cannot be negative"))
	}
	return err
}

// Load reads a YAML file on top of Default and validates the result.
func Load(path string) (StrategyConfig, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "read config %s", path)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrap(err, "invalid config")
	}
	return cfg, nil
}
