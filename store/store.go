// Package store abstracts the bot's durable state into three narrow roles:
// an append-only trade-event log, an append-only portfolio-equity log, and
// a small per-symbol key/value store for trailing-stop marks. The engine
// only sees these interfaces, so it tests without a real database.
package store

import (
	"time"

	"github.com/JMitchell7425/Trading-Bot/types"
)

// TradeLog is the append-only record of accepted actions. Recent returns
// the newest n events, newest first; pacing only ever needs a bounded
// slice, never the full history.
type TradeLog interface {
	Append(ev types.TradeEvent) error
	Recent(n int) ([]types.TradeEvent, error)
}

// PortfolioLog records one equity sample per pass.
type PortfolioLog interface {
	Append(t time.Time, equity float64) error
	Recent(n int) ([]types.PortfolioSample, error)
}

// MarkStore keeps the trailing-stop reference price per symbol: the
// highest favorable price since entry for longs, the lowest for shorts.
// This is the only cross-pass state the engine owns.
type MarkStore interface {
	Mark(symbol string) (price float64, ok bool, err error)
	SetMark(symbol string, price float64) error
	ClearMark(symbol string) error
}
