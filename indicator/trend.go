package indicator

import (
	"sort"

	"github.com/markcheno/go-talib"
)

// TrendSignal is the composite trend state of one evaluation.
type TrendSignal struct {
	IsUping   bool
	IsDowning bool
}

// MA is the mean of the w closes ending offset bars before the newest one.
// ok is false when closes cannot cover the window.
func MA(closes []float64, w, offset int) (float64, bool) {
	if w <= 0 || offset < 0 || len(closes) < w+offset {
		return 0, false
	}
	sma := talib.Sma(closes[len(closes)-w-offset:], w)
	return sma[w-1], true
}

// series returns MA(w, 0..depth) newest first, or nil if closes are short.
func series(closes []float64, w, depth int) []float64 {
	if w <= 0 || depth < 0 || len(closes) < w+depth {
		return nil
	}
	sma := talib.Sma(closes[len(closes)-w-depth:], w)
	out := make([]float64, depth+1)
	for i := range out {
		out[i] = sma[len(sma)-1-i]
	}
	return out
}

// IsRising reports whether MA(w, offset) >= MA(w, offset+1) for every
// offset in [0, cp).
func IsRising(closes []float64, cp, w int) bool {
	ma := series(closes, w, cp)
	if ma == nil {
		return false
	}
	for i := 0; i < cp; i++ {
		if ma[i] < ma[i+1] {
			return false
		}
	}
	return true
}

// IsFalling is the mirror of IsRising.
func IsFalling(closes []float64, cp, w int) bool {
	ma := series(closes, w, cp)
	if ma == nil {
		return false
	}
	for i := 0; i < cp; i++ {
		if ma[i] > ma[i+1] {
			return false
		}
	}
	return true
}

// Trend confirms direction across several moving-average windows.
// Depth maps a window length (5, 10, 30, 60) to its comparison depth.
type Trend struct {
	Depth     map[int]int
	CheckMA60 bool
}

// RequiredBars is the number of closes needed to evaluate every
// configured window at its comparison depth.
func (t Trend) RequiredBars() int {
	n := 0
	for w, cp := range t.Depth {
		if w+cp > n {
			n = w + cp
		}
	}
	return n
}

// IsUping requires MA10 >= MA30 and rising 10 and 30 windows (and the
// 60 window when enabled).
func (t Trend) IsUping(closes []float64) bool {
	ma10, ok10 := MA(closes, 10, 0)
	ma30, ok30 := MA(closes, 30, 0)
	if !ok10 || !ok30 || ma10 < ma30 {
		return false
	}
	if !IsRising(closes, t.Depth[10], 10) || !IsRising(closes, t.Depth[30], 30) {
		return false
	}
	if t.CheckMA60 && !IsRising(closes, t.Depth[60], 60) {
		return false
	}
	return true
}

// IsDowning requires MA5 <= MA10 and a falling MA for every configured
// window no longer than minBars. Longer windows are skipped.
func (t Trend) IsDowning(closes []float64, minBars int) bool {
	ma5, ok5 := MA(closes, 5, 0)
	ma10, ok10 := MA(closes, 10, 0)
	if !ok5 || !ok10 || ma5 > ma10 {
		return false
	}
	windows := make([]int, 0, len(t.Depth))
	for w := range t.Depth {
		windows = append(windows, w)
	}
	sort.Ints(windows)
	for _, w := range windows {
		if w > minBars {
			break
		}
		if !IsFalling(closes, t.Depth[w], w) {
			return false
		}
	}
	return true
}

// Evaluate computes both composite checks at once.
func (t Trend) Evaluate(closes []float64, minBars int) TrendSignal {
	return TrendSignal{
		IsUping:   t.IsUping(closes),
		IsDowning: t.IsDowning(closes, minBars),
	}
}
