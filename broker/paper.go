package broker

import (
	"context"
	"fmt"
	"sync"

	"github.com/JMitchell7425/Trading-Bot/types"
)

// PaperBroker fills every order instantly at the last seen price: no
// slippage, no partial fills. It serves local runs and the test-mode
// wiring; the engine cannot tell it apart from the live client.
type PaperBroker struct {
	mu        sync.RWMutex
	cash      float64
	positions map[string]types.Position
	lastPrice map[string]float64
	bars      map[string][]types.Bar
}

// NewPaperBroker starts a paper account with the given cash balance.
func NewPaperBroker(startCash float64) *PaperBroker {
	return &PaperBroker{
		cash:      startCash,
		positions: make(map[string]types.Position),
		lastPrice: make(map[string]float64),
		bars:      make(map[string][]types.Bar),
	}
}

// LoadBars seeds the bar history served for a symbol.
func (p *PaperBroker) LoadBars(symbol string, bars []types.Bar) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.bars[symbol] = append([]types.Bar(nil), bars...)
	if len(bars) > 0 {
		p.lastPrice[symbol] = bars[len(bars)-1].Close
	}
}

// GetBars serves the seeded history, trimmed to limit.
func (p *PaperBroker) GetBars(_ context.Context, symbol, _ string, limit int) ([]types.Bar, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	bars, ok := p.bars[symbol]
	if !ok {
		return nil, fmt.Errorf("%w: no bars for %s", ErrDataUnavailable, symbol)
	}
	if limit > 0 && len(bars) > limit {
		bars = bars[len(bars)-limit:]
	}
	return append([]types.Bar(nil), bars...), nil
}

// Equity is cash plus open positions marked at the last seen price.
func (p *PaperBroker) Equity(context.Context) (float64, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	eq := p.cash
	for sym, pos := range p.positions {
		eq += pos.Qty * p.lastPrice[sym]
	}
	return eq, nil
}

// Position returns the open position for a symbol, ok=false when flat.
func (p *PaperBroker) Position(_ context.Context, symbol string) (types.Position, bool, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	pos, ok := p.positions[symbol]
	return pos, ok, nil
}

// ListPositions returns every open position.
func (p *PaperBroker) ListPositions(context.Context) ([]types.Position, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]types.Position, 0, len(p.positions))
	for _, pos := range p.positions {
		out = append(out, pos)
	}
	return out, nil
}

// SubmitOrder fills at the last seen price and updates cash and the
// position. Buying more than the cash balance covers is rejected, which
// doubles as a cheap OrderRejected path in local runs.
func (p *PaperBroker) SubmitOrder(_ context.Context, o types.Order) error {
	if o.Qty <= 0 {
		return fmt.Errorf("%w: non-positive qty %d", ErrOrderRejected, o.Qty)
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	price, ok := p.lastPrice[o.Symbol]
	if !ok {
		return fmt.Errorf("%w: no price for %s", ErrOrderRejected, o.Symbol)
	}
	qty := float64(o.Qty)
	cost := price * qty

	pos := p.positions[o.Symbol]
	pos.Symbol = o.Symbol
	switch o.Side {
	case types.Buy:
		if cost > p.cash {
			return fmt.Errorf("%w: insufficient cash", ErrOrderRejected)
		}
		p.cash -= cost
		newQty := pos.Qty + qty
		if pos.Qty >= 0 { // opening or adding to a long: blend the entry
			pos.EntryPrice = (pos.EntryPrice*pos.Qty + cost) / newQty
		}
		pos.Qty = newQty
	case types.Sell:
		p.cash += cost
		newQty := pos.Qty - qty
		if pos.Qty <= 0 && newQty != 0 { // opening or adding to a short
			pos.EntryPrice = (pos.EntryPrice*(-pos.Qty) + cost) / -newQty
		}
		pos.Qty = newQty
	default:
		return fmt.Errorf("%w: unknown side %q", ErrOrderRejected, o.Side)
	}

	if pos.Qty == 0 {
		delete(p.positions, o.Symbol)
	} else {
		p.positions[o.Symbol] = pos
	}
	return nil
}
