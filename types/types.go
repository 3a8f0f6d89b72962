package types

import (
	"fmt"
	"time"
)

type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

// Bar is one closed OHLCV candle. Windows of bars are ordered oldest→newest.
type Bar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

func (b Bar) String() string {
	return fmt.Sprintf("[%v] open:%v high:%v low:%v close:%v volume:%v",
		b.Time.Format("2006-01-02 15:04:05"), b.Open, b.High, b.Low, b.Close, b.Volume)
}

// Closes extracts the close column of a window.
func Closes(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}

// Highs extracts the high column of a window.
func Highs(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.High
	}
	return out
}

// Lows extracts the low column of a window.
func Lows(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Low
	}
	return out
}

// Signal is the output of a signal generator for one bar.
type Signal int

const (
	Exit  Signal = -1
	None  Signal = 0
	Enter Signal = 1
)

func (s Signal) String() string {
	switch s {
	case Exit:
		return "exit"
	case Enter:
		return "enter"
	default:
		return "none"
	}
}

type Sizing int

const (
	ByCash Sizing = iota
	ByQuantity
)

type PriceMode int

const (
	Market PriceMode = iota
	Limit
)

// OrderIntent is handed to the execution port and not retained.
// Amount is a cash amount for ByCash and an asset quantity for ByQuantity.
type OrderIntent struct {
	Symbol     string
	Side       Side
	Sizing     Sizing
	Amount     float64
	PriceMode  PriceMode
	LimitPrice float64
	// meta
	Comment string
}

// AccountSnapshot is the read-only account view for one bar.
type AccountSnapshot struct {
	Cash     float64 // quote currency available
	Asset    float64 // quantity of the traded asset held
	NetValue float64 // cash plus mark-to-market holdings
}
