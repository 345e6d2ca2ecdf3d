package testutils

import (
	"sync"
	"time"

	"github.com/JMitchell7425/Trading-Bot/types"
)

// MemoryTradeLog implements store.TradeLog in-memory.
type MemoryTradeLog struct {
	mu       sync.Mutex
	events   []types.TradeEvent
	failWith error
}

// NewMemoryTradeLog returns an empty in-memory trade log.
func NewMemoryTradeLog() *MemoryTradeLog { return &MemoryTradeLog{} }

// FailWith makes every subsequent call return err (nil restores normal
// behavior). Used to exercise the degraded-log paths.
func (m *MemoryTradeLog) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failWith = err
}

func (m *MemoryTradeLog) Append(ev types.TradeEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	m.events = append(m.events, ev)
	return nil
}

// Recent returns the newest n events, newest first.
func (m *MemoryTradeLog) Recent(n int) ([]types.TradeEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	if n > len(m.events) {
		n = len(m.events)
	}
	out := make([]types.TradeEvent, 0, n)
	for i := len(m.events) - 1; i >= len(m.events)-n; i-- {
		out = append(out, m.events[i])
	}
	return out, nil
}

// Events returns everything appended so far, oldest first.
func (m *MemoryTradeLog) Events() []types.TradeEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]types.TradeEvent(nil), m.events...)
}

// MemoryPortfolioLog implements store.PortfolioLog in-memory.
type MemoryPortfolioLog struct {
	mu      sync.Mutex
	samples []types.PortfolioSample
}

func NewMemoryPortfolioLog() *MemoryPortfolioLog { return &MemoryPortfolioLog{} }

func (m *MemoryPortfolioLog) Append(t time.Time, equity float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.samples = append(m.samples, types.PortfolioSample{Timestamp: t, Equity: equity})
	return nil
}

func (m *MemoryPortfolioLog) Recent(n int) ([]types.PortfolioSample, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n > len(m.samples) {
		n = len(m.samples)
	}
	return append([]types.PortfolioSample(nil), m.samples[len(m.samples)-n:]...), nil
}

// Samples returns everything appended so far.
func (m *MemoryPortfolioLog) Samples() []types.PortfolioSample {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]types.PortfolioSample(nil), m.samples...)
}

// MemoryMarkStore implements store.MarkStore in-memory.
type MemoryMarkStore struct {
	mu    sync.Mutex
	marks map[string]float64
}

func NewMemoryMarkStore() *MemoryMarkStore {
	return &MemoryMarkStore{marks: make(map[string]float64)}
}

func (m *MemoryMarkStore) Mark(symbol string) (float64, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	price, ok := m.marks[symbol]
	return price, ok, nil
}

func (m *MemoryMarkStore) SetMark(symbol string, price float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.marks[symbol] = price
	return nil
}

func (m *MemoryMarkStore) ClearMark(symbol string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.marks, symbol)
	return nil
}
