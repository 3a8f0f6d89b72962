package executor

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/zhuoyikang/finance/types"
)

var (
	ErrInsufficientCash  = errors.New("executor: insufficient cash")
	ErrInsufficientAsset = errors.New("executor: insufficient asset")
	ErrNotMarketable     = errors.New("executor: limit price not marketable")
	ErrInvalidAmount     = errors.New("executor: amount must be positive")
)

// Executor routes orders. Calls are fire-and-forget: a nil error only means
// the order was accepted, not that it filled.
type Executor interface {
	SubmitMarketBuy(symbol string, cashAmount float64) error
	SubmitMarketSell(symbol string, qty float64) error
	SubmitLimitBuy(symbol string, qty, price float64) error
	SubmitLimitSell(symbol string, qty, price float64) error
}

// Account exposes the read-only account view the strategy sees per bar.
type Account interface {
	Snapshot(symbol string) types.AccountSnapshot
}

// PriceSource supplies the mark used for fills and net value.
type PriceSource interface {
	CurrentPrice(symbol string) (float64, error)
}

// Fill is one executed paper order.
type Fill struct {
	ID     string
	Time   time.Time
	Symbol string
	Side   types.Side
	Qty    float64
	Price  float64
	Fee    float64
}

// PaperExecutor is a perfect-fill paper trader holding a single quote
// currency balance and per-symbol asset quantities.
type PaperExecutor struct {
	mu         sync.RWMutex
	cash       decimal.Decimal
	assets     map[string]decimal.Decimal
	commission decimal.Decimal
	prices     PriceSource
	fills      []Fill
	now        func() time.Time
}

// NewPaperExecutor creates a paper account with startCash and a commission
// rate charged on every fill (0.002 = 0.2 %).
func NewPaperExecutor(startCash, commission float64, prices PriceSource) *PaperExecutor {
	return &PaperExecutor{
		cash:       decimal.NewFromFloat(startCash),
		assets:     make(map[string]decimal.Decimal),
		commission: decimal.NewFromFloat(commission),
		prices:     prices,
		now:        time.Now,
	}
}

func (p *PaperExecutor) SubmitMarketBuy(symbol string, cashAmount float64) error {
	if cashAmount <= 0 {
		return ErrInvalidAmount
	}
	price, err := p.prices.CurrentPrice(symbol)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	spend := decimal.NewFromFloat(cashAmount)
	if spend.GreaterThan(p.cash) {
		return ErrInsufficientCash
	}
	// the fee is taken out of the spent cash
	fee := spend.Mul(p.commission)
	qty := spend.Sub(fee).Div(decimal.NewFromFloat(price))
	p.cash = p.cash.Sub(spend)
	p.assets[symbol] = p.assets[symbol].Add(qty)
	p.record(symbol, types.Buy, qty, price, fee)
	return nil
}

func (p *PaperExecutor) SubmitMarketSell(symbol string, qty float64) error {
	price, err := p.prices.CurrentPrice(symbol)
	if err != nil {
		return err
	}
	return p.sell(symbol, qty, price)
}

func (p *PaperExecutor) SubmitLimitBuy(symbol string, qty, price float64) error {
	if qty <= 0 {
		return ErrInvalidAmount
	}
	mark, err := p.prices.CurrentPrice(symbol)
	if err != nil {
		return err
	}
	if price < mark {
		return ErrNotMarketable
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	q := decimal.NewFromFloat(qty)
	cost := q.Mul(decimal.NewFromFloat(mark))
	fee := cost.Mul(p.commission)
	if cost.Add(fee).GreaterThan(p.cash) {
		return ErrInsufficientCash
	}
	p.cash = p.cash.Sub(cost).Sub(fee)
	p.assets[symbol] = p.assets[symbol].Add(q)
	p.record(symbol, types.Buy, q, mark, fee)
	return nil
}

func (p *PaperExecutor) SubmitLimitSell(symbol string, qty, price float64) error {
	mark, err := p.prices.CurrentPrice(symbol)
	if err != nil {
		return err
	}
	if price > mark {
		return ErrNotMarketable
	}
	return p.sell(symbol, qty, mark)
}

func (p *PaperExecutor) sell(symbol string, qty, price float64) error {
	if qty <= 0 {
		return ErrInvalidAmount
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	q := decimal.NewFromFloat(qty)
	if q.GreaterThan(p.assets[symbol]) {
		return ErrInsufficientAsset
	}
	proceeds := q.Mul(decimal.NewFromFloat(price))
	fee := proceeds.Mul(p.commission)
	p.cash = p.cash.Add(proceeds).Sub(fee)
	p.assets[symbol] = p.assets[symbol].Sub(q)
	p.record(symbol, types.Sell, q, price, fee)
	return nil
}

// record must be called with p.mu held.
func (p *PaperExecutor) record(symbol string, side types.Side, qty decimal.Decimal, price float64, fee decimal.Decimal) {
	p.fills = append(p.fills, Fill{
		ID:     uuid.NewString(),
		Time:   p.now(),
		Symbol: symbol,
		Side:   side,
		Qty:    qty.InexactFloat64(),
		Price:  price,
		Fee:    fee.InexactFloat64(),
	})
}

// Snapshot marks the holdings of symbol at the current price.
func (p *PaperExecutor) Snapshot(symbol string) types.AccountSnapshot {
	p.mu.RLock()
	cash := p.cash
	asset := p.assets[symbol]
	p.mu.RUnlock()

	net := cash
	if price, err := p.prices.CurrentPrice(symbol); err == nil {
		net = net.Add(asset.Mul(decimal.NewFromFloat(price)))
	}
	return types.AccountSnapshot{
		Cash:     cash.InexactFloat64(),
		Asset:    asset.InexactFloat64(),
		NetValue: net.InexactFloat64(),
	}
}

// Cash returns the quote currency balance.
func (p *PaperExecutor) Cash() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cash.InexactFloat64()
}

// Fills returns a copy of every executed order.
func (p *PaperExecutor) Fills() []Fill {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]Fill, len(p.fills))
	copy(out, p.fills)
	return out
}
