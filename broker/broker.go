// Package broker defines the external collaborators the engine calls:
// market data, account state and order submission. Implementations wrap
// every call with a timeout; the engine treats any error as "skip", never
// as a crash.
package broker

import (
	"context"
	"errors"

	"github.com/JMitchell7425/Trading-Bot/types"
)

var (
	// ErrDataUnavailable marks a failed or short price fetch.
	ErrDataUnavailable = errors.New("broker: market data unavailable")
	// ErrAccountUnavailable marks a failed equity or position query.
	ErrAccountUnavailable = errors.New("broker: account unavailable")
	// ErrOrderRejected marks an order the broker declined. The engine
	// logs it and moves on; it never retries within the same pass.
	ErrOrderRejected = errors.New("broker: order rejected")
)

// MarketData serves ordered OHLCV bars, newest last.
type MarketData interface {
	GetBars(ctx context.Context, symbol, timeframe string, limit int) ([]types.Bar, error)
}

// Account exposes the broker-owned portfolio state. Position returns
// ok=false when no position is open for the symbol.
type Account interface {
	Equity(ctx context.Context) (float64, error)
	Position(ctx context.Context, symbol string) (types.Position, bool, error)
	ListPositions(ctx context.Context) ([]types.Position, error)
}

// OrderSubmitter places market/GTC orders.
type OrderSubmitter interface {
	SubmitOrder(ctx context.Context, o types.Order) error
}

// Broker bundles the three collaborators the engine needs.
type Broker interface {
	MarketData
	Account
	OrderSubmitter
}
