package signal

import (
	"testing"

	"github.com/JMitchell7425/Trading-Bot/config"
	"github.com/JMitchell7425/Trading-Bot/indicator"
	"github.com/JMitchell7425/Trading-Bot/types"
)

// crossoverCfg keeps the windows short so tests can use hand-computed
// series: RSI period 14 and the MA5/MA20 trend profile.
func crossoverCfg() config.StrategyConfig {
	cfg := config.Default()
	cfg.TrendProfile = indicator.TrendCrossover
	cfg.BarCount = 30
	return cfg
}

// dipRecovery is a 21-bar series whose indicators are exactly computable:
// ten 1-point losses, four 1-point gains, then six 0.2-point gains. RSI(14)
// lands near 36 and the 5-bar average sits above the 20-bar average, i.e.
// an oversold dip inside a recovering trend.
func dipRecovery() []float64 {
	closes := []float64{100}
	last := 100.0
	step := func(d float64, n int) {
		for i := 0; i < n; i++ {
			last += d
			closes = append(closes, last)
		}
	}
	step(-1, 10)
	step(1, 4)
	step(0.2, 6)
	return closes
}

// rallyPullback mirrors dipRecovery: RSI near 64 with the 5-bar average
// below the 20-bar average.
func rallyPullback() []float64 {
	closes := []float64{100}
	last := 100.0
	step := func(d float64, n int) {
		for i := 0; i < n; i++ {
			last += d
			closes = append(closes, last)
		}
	}
	step(1, 10)
	step(-1, 4)
	step(-0.2, 6)
	return closes
}

func ramp(start, step float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + step*float64(i)
	}
	return out
}

func TestDipRecoveryShape(t *testing.T) {
	// Guard the fixture itself: the entry tests below depend on it.
	closes := dipRecovery()
	rsi, ok := indicator.RSI(closes, 14)
	if !ok || rsi >= 40 {
		t.Fatalf("fixture RSI should be below 40, got %v (ok=%v)", rsi, ok)
	}
	up, ok := indicator.Uptrend(closes, indicator.TrendCrossover, 0)
	if !ok || !up {
		t.Fatalf("fixture should classify as crossover uptrend (up=%v ok=%v)", up, ok)
	}
}

func TestEnterLong_OversoldInUptrend(t *testing.T) {
	cfg := crossoverCfg()
	closes := dipRecovery()
	d := Evaluate(Input{Cfg: cfg, Closes: closes, Price: closes[len(closes)-1]})
	if d.Kind != EnterLong {
		t.Fatalf("expected ENTER_LONG, got %s (%s)", d.Kind, d.Reason)
	}
}

func TestEnterLong_BlockedByDirection(t *testing.T) {
	cfg := crossoverCfg()
	cfg.MarketDirection = config.DirectionShort
	closes := dipRecovery()
	d := Evaluate(Input{Cfg: cfg, Closes: closes, Price: closes[len(closes)-1]})
	if d.Kind != Hold {
		t.Fatalf("short-only direction must not enter long, got %s", d.Kind)
	}
}

func TestBreakout_BypassesGateOnlyWhenAggressive(t *testing.T) {
	cfg := crossoverCfg()
	closes := make([]float64, 0, 31)
	for i := 0; i < 30; i++ {
		closes = append(closes, 1)
	}
	closes = append(closes, 2)
	volumes := make([]float64, 0, 31)
	for i := 0; i < 30; i++ {
		volumes = append(volumes, 10)
	}
	volumes = append(volumes, 100)

	// Flat-then-pop has RSI pinned at 100, so the RSI/trend gate is shut;
	// only the breakout bypass can open a position.
	in := Input{Cfg: cfg, Closes: closes, Volumes: volumes, Price: 2}

	in.Cfg.Mode = config.ModeConservative
	if d := Evaluate(in); d.Kind != Hold {
		t.Fatalf("conservative mode must ignore breakout-only setups, got %s", d.Kind)
	}
	in.Cfg.Mode = config.ModeAggressive
	if d := Evaluate(in); d.Kind != EnterLong {
		t.Fatalf("aggressive mode should take the breakout, got %s (%s)", d.Kind, d.Reason)
	}
}

func TestEnterShort_AggressiveOnly(t *testing.T) {
	cfg := crossoverCfg()
	cfg.Mode = config.ModeAggressive
	cfg.MarketDirection = config.DirectionBoth
	cfg.ShortEntryRSI = 60
	closes := rallyPullback()
	in := Input{Cfg: cfg, Closes: closes, Price: closes[len(closes)-1]}

	if d := Evaluate(in); d.Kind != EnterShort {
		t.Fatalf("expected ENTER_SHORT, got %s (%s)", d.Kind, d.Reason)
	}

	in.Cfg.Mode = config.ModeConservative
	if d := Evaluate(in); d.Kind != Hold {
		t.Fatalf("conservative mode never shorts, got %s", d.Kind)
	}

	in.Cfg.Mode = config.ModeAggressive
	in.Cfg.MarketDirection = config.DirectionLong
	if d := Evaluate(in); d.Kind != Hold {
		t.Fatalf("long-only direction never shorts, got %s", d.Kind)
	}
}

func TestSkip_InsufficientHistoryAndPrice(t *testing.T) {
	cfg := crossoverCfg()
	if d := Evaluate(Input{Cfg: cfg, Closes: ramp(100, 1, 10), Price: 109}); d.Kind != Skip {
		t.Fatalf("short history must skip, got %s", d.Kind)
	}
	if d := Evaluate(Input{Cfg: cfg, Closes: dipRecovery(), Price: 0}); d.Kind != Skip {
		t.Fatalf("missing price must skip, got %s", d.Kind)
	}
}

func TestSkip_PartialIndicatorData(t *testing.T) {
	// Classic trend needs 200 bars; 50 bars leave RSI computable but the
	// trend undecidable, and partial data means no action.
	cfg := config.Default() // classic profile
	d := Evaluate(Input{Cfg: cfg, Closes: ramp(100, 1, 50), Price: 149})
	if d.Kind != Skip {
		t.Fatalf("partial indicator data must skip, got %s (%s)", d.Kind, d.Reason)
	}
}

func heldLong(entry float64) (types.Position, bool) {
	return types.Position{Symbol: "AAPL", Qty: 10, EntryPrice: entry}, true
}

func TestExit_FixedStopBoundary(t *testing.T) {
	cfg := crossoverCfg()
	cfg.StopLossPct = 5
	pos, has := heldLong(100)
	in := Input{Cfg: cfg, Closes: dipRecovery(), Position: pos, HasPosition: has}

	in.Price = 94.99
	d := Evaluate(in)
	if d.Kind != Exit || d.ExitAction != types.ActionStop {
		t.Fatalf("94.99 under a 5%% stop from 100 must exit STOP, got %s/%s", d.Kind, d.ExitAction)
	}

	in.Price = 95.01
	if d := Evaluate(in); d.Kind != Hold {
		t.Fatalf("95.01 must not trigger the stop, got %s (%s)", d.Kind, d.Reason)
	}
}

func TestExit_ProfitTarget(t *testing.T) {
	cfg := crossoverCfg()
	cfg.ProfitTargetPct = 10
	pos, has := heldLong(100)
	d := Evaluate(Input{Cfg: cfg, Closes: dipRecovery(), Price: 110, Position: pos, HasPosition: has})
	if d.Kind != Exit || d.ExitAction != types.ActionTarget {
		t.Fatalf("price at +10%% must exit TARGET, got %s/%s", d.Kind, d.ExitAction)
	}
}

func TestExit_RSIReversal(t *testing.T) {
	cfg := crossoverCfg() // sell threshold 65
	pos, has := heldLong(100)
	// Monotonic rise pins RSI at 100, well above the sell threshold.
	d := Evaluate(Input{Cfg: cfg, Closes: ramp(100, 0.1, 25), Price: 105, Position: pos, HasPosition: has})
	if d.Kind != Exit || d.ExitAction != types.ActionSell {
		t.Fatalf("overbought RSI must exit SELL, got %s/%s (%s)", d.Kind, d.ExitAction, d.Reason)
	}
}

func TestExit_TrailingStopUsesHighWaterMark(t *testing.T) {
	cfg := crossoverCfg()
	cfg.StopLossPct = 0
	cfg.TrailingStopPct = 5
	cfg.ProfitTargetPct = 0
	pos, has := heldLong(100)
	in := Input{
		Cfg: cfg, Closes: dipRecovery(), Position: pos, HasPosition: has,
		TrailingRef: 120, HasTrailingRef: true,
	}

	in.Price = 113.99 // below 120*(1-5%), though well above entry
	d := Evaluate(in)
	if d.Kind != Exit || d.ExitAction != types.ActionStop {
		t.Fatalf("trailing stop from the high-water mark must fire, got %s/%s", d.Kind, d.ExitAction)
	}

	in.HasTrailingRef = false // no mark yet: entry is the reference
	if d := Evaluate(in); d.Kind != Hold {
		t.Fatalf("without a mark the entry anchors the stop, got %s (%s)", d.Kind, d.Reason)
	}
}

func TestExit_ShortSideMirrors(t *testing.T) {
	cfg := crossoverCfg()
	cfg.StopLossPct = 5
	cfg.ProfitTargetPct = 10
	pos := types.Position{Symbol: "AAPL", Qty: -10, EntryPrice: 100}
	in := Input{Cfg: cfg, Closes: dipRecovery(), Position: pos, HasPosition: true}

	in.Price = 105.01
	if d := Evaluate(in); d.Kind != Exit || d.ExitAction != types.ActionStop {
		t.Fatalf("short stop must fire on a rally, got %s/%s", d.Kind, d.ExitAction)
	}

	in.Price = 89.99
	if d := Evaluate(in); d.Kind != Exit || d.ExitAction != types.ActionTarget {
		t.Fatalf("short target must fire at -10%%, got %s/%s", d.Kind, d.ExitAction)
	}

	// Oversold RSI covers the short: monotonic decline pins RSI at 0.
	in.Closes = ramp(120, -0.1, 25)
	in.Price = 99
	if d := Evaluate(in); d.Kind != Exit || d.ExitAction != types.ActionCover {
		t.Fatalf("oversold RSI must cover the short, got %s/%s (%s)", d.Kind, d.ExitAction, d.Reason)
	}
}
