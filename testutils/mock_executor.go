package testutils

import (
	"sync"

	"github.com/zhuoyikang/finance/types"
)

// MockExecutor implements executor.Executor and executor.Account in‑memory.
// Every submit is recorded as an OrderIntent; the account snapshot is
// whatever the test sets, it is not mutated by submits unless Fill is on.
type MockExecutor struct {
	mu      sync.RWMutex
	account types.AccountSnapshot
	intents []types.OrderIntent
	err     error

	// Fill applies market orders to the snapshot at Price.
	Fill  bool
	Price float64
}

// NewMockExecutor creates an account holding cash only.
func NewMockExecutor(cash float64) *MockExecutor {
	return &MockExecutor{account: types.AccountSnapshot{Cash: cash, NetValue: cash}}
}

// SetAccount replaces the snapshot returned to strategies.
func (m *MockExecutor) SetAccount(a types.AccountSnapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.account = a
}

// FailWith makes every following submit return err (after recording it).
func (m *MockExecutor) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *MockExecutor) Snapshot(string) types.AccountSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.account
}

func (m *MockExecutor) SubmitMarketBuy(symbol string, cashAmount float64) error {
	return m.submit(types.OrderIntent{Symbol: symbol, Side: types.Buy, Sizing: types.ByCash, Amount: cashAmount})
}

func (m *MockExecutor) SubmitMarketSell(symbol string, qty float64) error {
	return m.submit(types.OrderIntent{Symbol: symbol, Side: types.Sell, Sizing: types.ByQuantity, Amount: qty})
}

func (m *MockExecutor) SubmitLimitBuy(symbol string, qty, price float64) error {
	return m.submit(types.OrderIntent{Symbol: symbol, Side: types.Buy, Sizing: types.ByQuantity, Amount: qty,
		PriceMode: types.Limit, LimitPrice: price})
}

func (m *MockExecutor) SubmitLimitSell(symbol string, qty, price float64) error {
	return m.submit(types.OrderIntent{Symbol: symbol, Side: types.Sell, Sizing: types.ByQuantity, Amount: qty,
		PriceMode: types.Limit, LimitPrice: price})
}

func (m *MockExecutor) submit(o types.OrderIntent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.intents = append(m.intents, o)
	if m.err != nil {
		return m.err
	}
	if m.Fill && m.Price > 0 && o.PriceMode == types.Market {
		switch o.Side {
		case types.Buy:
			m.account.Cash -= o.Amount
			m.account.Asset += o.Amount / m.Price
		case types.Sell:
			m.account.Cash += o.Amount * m.Price
			m.account.Asset -= o.Amount
		}
		m.account.NetValue = m.account.Cash + m.account.Asset*m.Price
	}
	return nil
}

// Orders returns a copy of all submitted intents (useful for assertions).
func (m *MockExecutor) Orders() []types.OrderIntent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]types.OrderIntent, len(m.intents))
	copy(out, m.intents)
	return out
}
