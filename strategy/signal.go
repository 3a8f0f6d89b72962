package strategy

import "github.com/zhuoyikang/finance/types"

// Window is what a signal generator sees for one bar.
type Window struct {
	// Channel holds the last T closed bars; the still-forming bar is
	// already dropped.
	Channel []types.Bar
	// Trend holds the longer history used for moving averages, newest
	// bar included. It is nil when the generator asks for none.
	Trend   []types.Bar
	Price   float64
	Account types.AccountSnapshot
}

// SignalGenerator turns a bar window and the current position into a
// signal. Strategies differ only in the generator they are built with.
type SignalGenerator interface {
	Name() string
	// TrendBars is how many bars Window.Trend must hold.
	TrendBars() int
	Signal(w Window, pos PositionState) types.Signal
}
