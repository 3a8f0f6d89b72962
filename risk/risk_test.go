package risk

import (
	"errors"
	"math"
	"testing"
)

func TestUnitBasic(t *testing.T) {
	value := RiskValue(100_000, 0.01) // risk 1000 per unit
	unit, err := Unit(value, 2.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if unit != 400 {
		t.Fatalf("unexpected unit: %v", unit)
	}
}

func TestUnitScalesInverselyWithATR(t *testing.T) {
	for _, atr := range []float64{0.1, 0.75, 3, 42} {
		u1, err := Unit(1000, atr)
		if err != nil {
			t.Fatal(err)
		}
		u2, err := Unit(1000, 2*atr)
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(u1-2*u2) > 1e-9 {
			t.Fatalf("atr %v: doubling ATR should halve unit (%v vs %v)", atr, u1, u2)
		}
	}
}

func TestUnitRejectsZeroVolatility(t *testing.T) {
	for _, atr := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if _, err := Unit(1000, atr); !errors.Is(err, ErrZeroVolatility) {
			t.Fatalf("atr %v: expected ErrZeroVolatility, got %v", atr, err)
		}
	}
}

func TestCashAmountCapsAtAvailable(t *testing.T) {
	if got := CashAmount(500, 10, 100, 2); got != 500 {
		t.Fatalf("expected available cash 500, got %v", got)
	}
	if got := CashAmount(5000, 10, 100, 2); got != 1000 {
		t.Fatalf("expected one unit worth 1000, got %v", got)
	}
}

func TestCashAmountTruncates(t *testing.T) {
	if got := CashAmount(10_000, 3.33333, 3, 2); got != 9.99 {
		t.Fatalf("expected 9.99, got %v", got)
	}
}

func TestFloorQty(t *testing.T) {
	if got := FloorQty(1.23456, 0.01); got != 1.23 {
		t.Fatalf("expected 1.23, got %v", got)
	}
	// Zero step falls back to the raw quantity.
	if got := FloorQty(1.23456, 0); got != 1.23456 {
		t.Fatalf("expected raw qty, got %v", got)
	}
	if got := FloorQty(-1, 0.01); got != 0 {
		t.Fatalf("expected 0 for negative qty, got %v", got)
	}
}

func TestPriceBand(t *testing.T) {
	up, down := PriceBand(100, 0.04)
	if math.Abs(up-104) > 1e-9 || math.Abs(down-96) > 1e-9 {
		t.Fatalf("unexpected band: up=%v down=%v", up, down)
	}
}
