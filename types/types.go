package types

import "time"

type Side string

const (
	Buy  Side = "buy"
	Sell Side = "sell"
)

// Bar is a single OHLCV sample. Open may be zero when the data source
// only reports HLCV.
type Bar struct {
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
}

// Position is a snapshot of a broker-held position. Qty is signed:
// positive = long, negative = short. The engine reads one snapshot per
// pass and never caches it across passes.
type Position struct {
	Symbol     string
	Qty        float64
	EntryPrice float64
}

// Long reports whether the position is on the long side.
func (p Position) Long() bool { return p.Qty > 0 }

// Short reports whether the position is on the short side.
func (p Position) Short() bool { return p.Qty < 0 }

// Order is a request handed to the order-submission collaborator.
// Only market/GTC semantics are supported.
type Order struct {
	Symbol      string
	Qty         int
	Side        Side
	Type        string // "market"
	TimeInForce string // "gtc"
}

// Action labels a trade-log entry.
type Action string

const (
	ActionBuy     Action = "BUY"      // long entry
	ActionShort   Action = "SHORT"    // short entry
	ActionSell    Action = "SELL"     // long exit on RSI reversal
	ActionCover   Action = "COVER"    // short exit on RSI reversal
	ActionStop    Action = "STOP"     // stop-loss exit (fixed or trailing)
	ActionTarget  Action = "TARGET"   // profit-target exit
	ActionTestBuy Action = "TEST-BUY" // simulated entry in test mode
)

// TradeEvent is the sole durable record of an accepted action. The log is
// append-only; events are never rewritten or deleted.
type TradeEvent struct {
	Timestamp time.Time
	Symbol    string
	Action    Action
	Price     float64
}

// PortfolioSample is one equity observation, appended once per pass.
type PortfolioSample struct {
	Timestamp time.Time
	Equity    float64
}
