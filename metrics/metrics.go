package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	OrdersSubmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "turtle_orders_submitted_total",
			Help: "Total number of order intents accepted by the executor (by strategy and side).",
		},
		[]string{"strategy", "side"},
	)

	Signals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "turtle_signals_total",
			Help: "Signals produced per evaluation (enter, exit, none).",
		},
		[]string{"strategy", "signal"},
	)

	EvaluationsDeferred = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "turtle_evaluations_deferred_total",
			Help: "Evaluations skipped because the bar history was not yet available.",
		},
		[]string{"strategy"},
	)

	PyramidUnits = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "turtle_pyramid_units",
			Help: "Units currently held (0 when flat).",
		},
		[]string{"strategy"},
	)

	ATR = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "turtle_atr",
			Help: "Latest average true range per symbol.",
		},
		[]string{"symbol"},
	)

	EquityGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "turtle_equity",
			Help: "Current net value of the account (paper or live).",
		},
	)
)

func init() {
	prometheus.MustRegister(OrdersSubmitted, Signals, EvaluationsDeferred, PyramidUnits, ATR, EquityGauge)
}
