package indicator

import (
	"errors"

	"github.com/zhuoyikang/finance/types"
)

// ErrInsufficientBars is returned when a window is too short for the
// requested computation. It is never reported as a zero value.
var ErrInsufficientBars = errors.New("indicator: insufficient bars")

// TrueRange measures one bar against the previous close as
// max(high−low, high−prevClose, prevClose−low).
// Only the first term is guaranteed non-negative; the other two are kept
// signed on purpose so results match the tuned thresholds.
func TrueRange(prevClose, high, low float64) float64 {
	tr := high - low
	if v := high - prevClose; v > tr {
		tr = v
	}
	if v := prevClose - low; v > tr {
		tr = v
	}
	return tr
}

// ATR returns the arithmetic mean of the true ranges of every consecutive
// pair in bars. A window of T+1 bars yields the mean of T values.
func ATR(bars []types.Bar) (float64, error) {
	if len(bars) < 2 {
		return 0, ErrInsufficientBars
	}
	sum := 0.0
	for i := 1; i < len(bars); i++ {
		sum += TrueRange(bars[i-1].Close, bars[i].High, bars[i].Low)
	}
	return sum / float64(len(bars)-1), nil
}
