// Package signal classifies one symbol per pass into an entry, exit, hold
// or skip decision. The evaluator is a pure function of its input: it
// owns no state and performs no side effects — the engine reads positions
// and trailing marks, calls Evaluate, and dispatches the result.
package signal

import (
	"github.com/JMitchell7425/Trading-Bot/config"
	"github.com/JMitchell7425/Trading-Bot/indicator"
	"github.com/JMitchell7425/Trading-Bot/types"
)

// Kind is the decision class for one symbol in one pass.
type Kind int

const (
	Skip Kind = iota
	Hold
	EnterLong
	EnterShort
	Exit
)

func (k Kind) String() string {
	switch k {
	case Skip:
		return "SKIP"
	case Hold:
		return "HOLD"
	case EnterLong:
		return "ENTER_LONG"
	case EnterShort:
		return "ENTER_SHORT"
	case Exit:
		return "EXIT"
	}
	return "UNKNOWN"
}

// Decision is the evaluator's verdict. ExitAction is set only for Exit
// and names the trigger (STOP, TARGET, SELL, COVER); Reason is a short
// log-friendly explanation for every kind.
type Decision struct {
	Kind       Kind
	ExitAction types.Action
	Reason     string
}

// Input bundles everything one evaluation needs. Closes and Volumes are
// newest-last and immutable for the duration of the call. TrailingRef is
// the favorable extreme recorded since entry (highest for longs, lowest
// for shorts); ok=false means no mark is recorded and the entry price is
// the stop reference.
type Input struct {
	Cfg            config.StrategyConfig
	Closes         []float64
	Volumes        []float64
	Price          float64
	Position       types.Position
	HasPosition    bool
	TrailingRef    float64
	HasTrailingRef bool
}

func skip(reason string) Decision { return Decision{Kind: Skip, Reason: reason} }

// Evaluate runs the per-symbol state machine: FLAT positions consider
// entries, held positions consider exits, anything with incomplete
// indicator data is skipped outright.
func Evaluate(in Input) Decision {
	cfg := in.Cfg
	if in.Price <= 0 {
		return skip("no current price")
	}
	if len(in.Closes) < cfg.RSIPeriod+1 {
		return skip("insufficient price history")
	}

	rsi, rsiOK := indicator.RSI(in.Closes, cfg.RSIPeriod)
	up, upOK := indicator.Uptrend(in.Closes, cfg.TrendProfile, cfg.TrendSensitivity)
	down, downOK := indicator.Downtrend(in.Closes, cfg.TrendProfile, cfg.TrendSensitivity)
	// No action on partial indicator data: RSI and trend travel together.
	if !rsiOK || !upOK || !downOK {
		return skip("partial indicator data")
	}

	if in.HasPosition && in.Position.Qty != 0 {
		return evaluateExit(cfg, in, rsi)
	}
	return evaluateEntry(cfg, in, rsi, up, down)
}

func evaluateEntry(cfg config.StrategyConfig, in Input, rsi float64, up, down bool) Decision {
	aggressive := cfg.Mode == config.ModeAggressive
	longAllowed := cfg.MarketDirection == config.DirectionLong || cfg.MarketDirection == config.DirectionBoth
	shortAllowed := cfg.MarketDirection == config.DirectionShort || cfg.MarketDirection == config.DirectionBoth

	if longAllowed {
		if rsi < cfg.RSIBuyThreshold && up {
			return Decision{Kind: EnterLong, Reason: "rsi below buy threshold in uptrend"}
		}
		// Breakout entries bypass the RSI/trend gate to catch momentum
		// moves; conservative mode keeps the gate closed.
		if aggressive && indicator.Breakout(in.Closes, in.Volumes) {
			return Decision{Kind: EnterLong, Reason: "breakout with volume confirmation"}
		}
	}
	if aggressive && shortAllowed && down && rsi > cfg.ShortEntryRSI {
		return Decision{Kind: EnterShort, Reason: "rsi above short entry threshold in downtrend"}
	}
	return Decision{Kind: Hold, Reason: "no entry signal"}
}

func evaluateExit(cfg config.StrategyConfig, in Input, rsi float64) Decision {
	pos := in.Position
	stopFrac := cfg.StopPct() / 100
	targetFrac := cfg.ProfitTargetPct / 100

	if pos.Long() {
		ref := pos.EntryPrice
		if cfg.TrailingStop() && in.HasTrailingRef && in.TrailingRef > ref {
			ref = in.TrailingRef
		}
		if in.Price <= (1-stopFrac)*ref {
			return Decision{Kind: Exit, ExitAction: types.ActionStop, Reason: "stop breached"}
		}
		if targetFrac > 0 && in.Price >= (1+targetFrac)*pos.EntryPrice {
			return Decision{Kind: Exit, ExitAction: types.ActionTarget, Reason: "profit target reached"}
		}
		if rsi > cfg.RSISellThreshold {
			return Decision{Kind: Exit, ExitAction: types.ActionSell, Reason: "rsi reversal"}
		}
		return Decision{Kind: Hold, Reason: "holding long"}
	}

	// Short side, mirrored.
	ref := pos.EntryPrice
	if cfg.TrailingStop() && in.HasTrailingRef && in.TrailingRef < ref && in.TrailingRef > 0 {
		ref = in.TrailingRef
	}
	if in.Price >= (1+stopFrac)*ref {
		return Decision{Kind: Exit, ExitAction: types.ActionStop, Reason: "stop breached"}
	}
	if targetFrac > 0 && in.Price <= (1-targetFrac)*pos.EntryPrice {
		return Decision{Kind: Exit, ExitAction: types.ActionTarget, Reason: "profit target reached"}
	}
	if rsi < cfg.RSIBuyThreshold {
		return Decision{Kind: Exit, ExitAction: types.ActionCover, Reason: "rsi reversal"}
	}
	return Decision{Kind: Hold, Reason: "holding short"}
}
