package testutils

import (
	"context"
	"sync"

	"github.com/JMitchell7425/Trading-Bot/broker"
	"github.com/JMitchell7425/Trading-Bot/types"
)

// MockBroker implements broker.Broker in-memory with scriptable failures,
// recording every submitted order for assertions.
type MockBroker struct {
	mu        sync.Mutex
	equity    float64
	equityErr error
	bars      map[string][]types.Bar
	barsErr   map[string]error
	positions map[string]types.Position
	orderErr  error
	orders    []types.Order
}

// NewMockBroker creates a broker with the supplied starting equity.
func NewMockBroker(equity float64) *MockBroker {
	return &MockBroker{
		equity:    equity,
		bars:      make(map[string][]types.Bar),
		barsErr:   make(map[string]error),
		positions: make(map[string]types.Position),
	}
}

// SetBars scripts the bar response for a symbol.
func (m *MockBroker) SetBars(symbol string, bars []types.Bar) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bars[symbol] = bars
}

// SetBarsError makes GetBars fail for a symbol.
func (m *MockBroker) SetBarsError(symbol string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.barsErr[symbol] = err
}

// SetPosition scripts an open position.
func (m *MockBroker) SetPosition(pos types.Position) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.positions[pos.Symbol] = pos
}

// ClearPosition removes a scripted position.
func (m *MockBroker) ClearPosition(symbol string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.positions, symbol)
}

// SetEquityError makes Equity fail.
func (m *MockBroker) SetEquityError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.equityErr = err
}

// SetOrderError makes SubmitOrder fail.
func (m *MockBroker) SetOrderError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orderErr = err
}

// Orders returns a copy of every submitted order.
func (m *MockBroker) Orders() []types.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]types.Order(nil), m.orders...)
}

func (m *MockBroker) GetBars(_ context.Context, symbol, _ string, limit int) ([]types.Bar, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.barsErr[symbol]; err != nil {
		return nil, err
	}
	bars, ok := m.bars[symbol]
	if !ok {
		return nil, broker.ErrDataUnavailable
	}
	if limit > 0 && len(bars) > limit {
		bars = bars[len(bars)-limit:]
	}
	return append([]types.Bar(nil), bars...), nil
}

func (m *MockBroker) Equity(context.Context) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.equityErr != nil {
		return 0, m.equityErr
	}
	return m.equity, nil
}

func (m *MockBroker) Position(_ context.Context, symbol string) (types.Position, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pos, ok := m.positions[symbol]
	return pos, ok, nil
}

func (m *MockBroker) ListPositions(context.Context) ([]types.Position, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]types.Position, 0, len(m.positions))
	for _, p := range m.positions {
		out = append(out, p)
	}
	return out, nil
}

func (m *MockBroker) SubmitOrder(_ context.Context, o types.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.orderErr != nil {
		return m.orderErr
	}
	m.orders = append(m.orders, o)
	return nil
}
