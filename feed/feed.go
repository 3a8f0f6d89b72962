package feed

import (
	"errors"
	"sync"
	"time"

	"github.com/xhit/go-str2duration/v2"

	"github.com/zhuoyikang/finance/types"
)

var (
	ErrUnknownSymbol     = errors.New("feed: unknown symbol")
	ErrFrequencyMismatch = errors.New("feed: frequency not served")
	ErrNoCurrentBar      = errors.New("feed: replay has not started")
)

// MarketData is the data port consumed by strategies.
type MarketData interface {
	// History returns at most count bars ending with the current bar,
	// oldest first. It never pads: fewer bars mean not yet available.
	History(symbol string, count int, frequency string) ([]types.Bar, error)
	CurrentPrice(symbol string) (float64, error)
}

// Replay serves pre-loaded bars one step at a time. Every symbol shares
// the same cursor, so all series are expected to be aligned.
type Replay struct {
	mu        sync.RWMutex
	frequency time.Duration
	series    map[string][]types.Bar
	cursor    int // index of the current bar, -1 before the first Next
	length    int
}

// NewReplay creates an empty replay for bars of the given size ("15m").
func NewReplay(frequency string) (*Replay, error) {
	d, err := str2duration.ParseDuration(frequency)
	if err != nil {
		return nil, err
	}
	return &Replay{
		frequency: d,
		series:    make(map[string][]types.Bar),
		cursor:    -1,
	}, nil
}

// Add registers the bars of symbol (oldest first).
func (r *Replay) Add(symbol string, bars []types.Bar) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := make([]types.Bar, len(bars))
	copy(cp, bars)
	r.series[symbol] = cp
	if len(cp) > r.length {
		r.length = len(cp)
	}
}

// Next advances the cursor by one bar and reports whether a bar is available.
func (r *Replay) Next() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cursor+1 >= r.length {
		return false
	}
	r.cursor++
	return true
}

// Current returns the bar under the cursor.
func (r *Replay) Current(symbol string) (types.Bar, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	bars, ok := r.series[symbol]
	if !ok {
		return types.Bar{}, ErrUnknownSymbol
	}
	if r.cursor < 0 || r.cursor >= len(bars) {
		return types.Bar{}, ErrNoCurrentBar
	}
	return bars[r.cursor], nil
}

func (r *Replay) History(symbol string, count int, frequency string) ([]types.Bar, error) {
	d, err := str2duration.ParseDuration(frequency)
	if err != nil {
		return nil, err
	}
	if d != r.frequency {
		return nil, ErrFrequencyMismatch
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	bars, ok := r.series[symbol]
	if !ok {
		return nil, ErrUnknownSymbol
	}
	end := r.cursor + 1
	if end > len(bars) {
		end = len(bars)
	}
	start := end - count
	if start < 0 {
		start = 0
	}
	if end <= start {
		return nil, nil
	}
	out := make([]types.Bar, end-start)
	copy(out, bars[start:end])
	return out, nil
}

func (r *Replay) CurrentPrice(symbol string) (float64, error) {
	b, err := r.Current(symbol)
	if err != nil {
		return 0, err
	}
	return b.Close, nil
}
