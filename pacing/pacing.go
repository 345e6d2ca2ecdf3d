// Package pacing enforces a minimum spacing between successive trades on
// the same symbol, reading the recent slice of the trade log.
package pacing

import (
	"time"

	"github.com/JMitchell7425/Trading-Bot/store"
)

// DefaultScanWindow bounds how many recent events one check inspects. The
// log grows forever; pacing only ever cares about the last few minutes.
const DefaultScanWindow = 200

// Tracker answers "may this symbol trade right now" from recent history.
type Tracker struct {
	log        store.TradeLog
	scanWindow int
}

// NewTracker builds a tracker over the given trade log. scanWindow <= 0
// falls back to DefaultScanWindow.
func NewTracker(log store.TradeLog, scanWindow int) *Tracker {
	if scanWindow <= 0 {
		scanWindow = DefaultScanWindow
	}
	return &Tracker{log: log, scanWindow: scanWindow}
}

// MayTrade reports whether symbol is allowed to trade at now, given the
// minimum spacing. An event exactly spacing old does not block (strict
// comparison). An unreadable log counts as "no recent trade": pacing is a
// throttle, not a safety interlock, and must not stall the pass.
func (t *Tracker) MayTrade(symbol string, now time.Time, spacing time.Duration) bool {
	if spacing <= 0 {
		return true
	}
	events, err := t.log.Recent(t.scanWindow)
	if err != nil {
		return true
	}
	for _, ev := range events {
		if ev.Symbol != symbol {
			continue
		}
		if now.Sub(ev.Timestamp) < spacing {
			return false
		}
		// Events come newest first; the first match decides.
		return true
	}
	return true
}
