package strategy

import (
	"time"

	"github.com/zhuoyikang/finance/types"
)

var barEpoch = time.Date(2017, 3, 1, 0, 0, 0, 0, time.UTC)

// bar builds a 15 minute bar with a one point range around close.
func bar(i int, close float64) types.Bar {
	return types.Bar{
		Time:   barEpoch.Add(time.Duration(i) * 15 * time.Minute),
		Open:   close,
		High:   close + 0.5,
		Low:    close - 0.5,
		Close:  close,
		Volume: 1000,
	}
}

// barsFromCloses turns a close series into bars.
func barsFromCloses(closes []float64) []types.Bar {
	out := make([]types.Bar, len(closes))
	for i, c := range closes {
		out[i] = bar(i, c)
	}
	return out
}

// ramp returns n closes starting at start moving by step.
func ramp(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

// riseThenDrop is 61 closes rising 100..160 followed by 155, 150, … .
// Index 61 is still an uptrend, index 65 is the first confirmed exit below
// the channel.
func riseThenDrop() []float64 {
	return append(ramp(61, 100, 1), ramp(6, 155, -5)...)
}
