package risk

import (
	"errors"
	"math"

	"github.com/shopspring/decimal"
)

// ErrZeroVolatility is returned when a unit cannot be sized because the
// volatility estimate is zero, negative or not finite.
var ErrZeroVolatility = errors.New("risk: volatility must be positive")

// RiskValue is the cash amount risked per unit.
func RiskValue(netValue, riskFraction float64) float64 {
	return netValue * riskFraction
}

// Unit converts a risk budget into a quantity of the traded asset per 1R.
func Unit(riskValue, atr float64) (float64, error) {
	if atr <= 0 || math.IsNaN(atr) || math.IsInf(atr, 0) {
		return 0, ErrZeroVolatility
	}
	return riskValue / atr, nil
}

// CashAmount spends at most one unit worth of cash, truncated to
// precision decimals.
func CashAmount(available, unit, price float64, precision int32) float64 {
	return TruncateCash(math.Min(available, unit*price), precision)
}

// TruncateCash drops decimals beyond precision (never rounds up).
func TruncateCash(amount float64, precision int32) float64 {
	if amount <= 0 {
		return 0
	}
	return decimal.NewFromFloat(amount).Truncate(precision).InexactFloat64()
}

// FloorQty floors qty to a multiple of step. A non-positive step leaves
// qty untouched.
func FloorQty(qty, step float64) float64 {
	if qty <= 0 {
		return 0
	}
	if step <= 0 {
		return qty
	}
	s := decimal.NewFromFloat(step)
	return decimal.NewFromFloat(qty).Div(s).Floor().Mul(s).InexactFloat64()
}

// PriceBand returns the take-profit and stop levels at ±rate around price.
func PriceBand(price, rate float64) (up, down float64) {
	return price + price*rate, price - price*rate
}
