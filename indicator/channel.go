package indicator

import (
	"github.com/markcheno/go-talib"

	"github.com/zhuoyikang/finance/types"
)

// ChannelBounds is a Donchian channel derived fresh for every evaluation.
type ChannelBounds struct {
	Upper float64
	Lower float64
}

// Donchian computes the upper bound as the highest high of the last
// lookback bars and the lower bound as the lowest low of the last
// lookback/2 bars. The shorter lower window tightens exits relative to
// entries. The caller is expected to drop the still-forming bar first.
func Donchian(bars []types.Bar, lookback int) (ChannelBounds, error) {
	half := lookback / 2
	if half < 2 || len(bars) < lookback {
		return ChannelBounds{}, ErrInsufficientBars
	}
	window := bars[len(bars)-lookback:]
	upper := talib.Max(types.Highs(window), lookback)
	lower := talib.Min(types.Lows(window[len(window)-half:]), half)
	return ChannelBounds{
		Upper: upper[len(upper)-1],
		Lower: lower[len(lower)-1],
	}, nil
}
