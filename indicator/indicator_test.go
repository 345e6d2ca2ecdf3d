package indicator

import (
	"math"
	"testing"
)

func ramp(start, step float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + step*float64(i)
	}
	return out
}

func repeat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestRSI_InsufficientHistory(t *testing.T) {
	for n := 0; n <= 14; n++ {
		if _, ok := RSI(ramp(100, 1, n), 14); ok {
			t.Fatalf("RSI should be absent with %d closes and period 14", n)
		}
	}
	if _, ok := RSI(ramp(100, 1, 15), 14); !ok {
		t.Fatal("RSI should be present with period+1 closes")
	}
}

func TestRSI_Bounds(t *testing.T) {
	series := [][]float64{
		ramp(100, 1, 40),
		ramp(100, -1, 40),
		{100, 101, 99, 102, 98, 103, 97, 104, 96, 105, 95, 106, 94, 107, 93, 108},
		repeat(50, 20),
	}
	for i, closes := range series {
		v, ok := RSI(closes, 14)
		if !ok {
			t.Fatalf("series %d: expected RSI present", i)
		}
		if v < 0 || v > 100 {
			t.Fatalf("series %d: RSI %v out of [0,100]", i, v)
		}
	}
}

func TestRSI_MonotonicExtremes(t *testing.T) {
	up, ok := RSI(ramp(100, 1, 50), 14)
	if !ok || up != 100 {
		t.Fatalf("monotonic rally should pin RSI at 100, got %v (ok=%v)", up, ok)
	}
	down, ok := RSI(ramp(200, -1, 50), 14)
	if !ok || down > 1e-9 {
		t.Fatalf("monotonic decline should drive RSI to 0, got %v (ok=%v)", down, ok)
	}
}

func TestRSI_FlatSeriesIsHundred(t *testing.T) {
	// Zero deltas mean zero smoothed loss, which maps to 100 by definition.
	v, ok := RSI(repeat(50, 20), 14)
	if !ok || v != 100 {
		t.Fatalf("flat series: expected 100, got %v (ok=%v)", v, ok)
	}
}

func TestMovingAverage(t *testing.T) {
	closes := []float64{1, 2, 3, 4, 5}
	if v, ok := MovingAverage(closes, 3); !ok || v != 4 {
		t.Fatalf("MA(3) of tail [3 4 5] should be 4, got %v (ok=%v)", v, ok)
	}
	if _, ok := MovingAverage(closes, 6); ok {
		t.Fatal("MA should be absent when window exceeds history")
	}
	if _, ok := MovingAverage(closes, 0); ok {
		t.Fatal("MA should be absent for a non-positive window")
	}
}

func TestVolatility(t *testing.T) {
	if v := Volatility(nil); v != 0 {
		t.Fatalf("empty series: expected 0, got %v", v)
	}
	if v := Volatility([]float64{100}); v != 0 {
		t.Fatalf("single point: expected 0, got %v", v)
	}
	v := Volatility([]float64{100, 102, 101, 104})
	want := (2.0 + 1.0 + 3.0) / 3.0
	if math.Abs(v-want) > 1e-12 {
		t.Fatalf("expected %v, got %v", want, v)
	}
}

func TestUptrend_Classic(t *testing.T) {
	// A long steady ramp keeps close > MA50 > MA200.
	up, ok := Uptrend(ramp(100, 0.5, 220), TrendClassic, 0)
	if !ok || !up {
		t.Fatalf("steady ramp should classify as uptrend (up=%v ok=%v)", up, ok)
	}
	down, ok := Downtrend(ramp(300, -0.5, 220), TrendClassic, 0)
	if !ok || !down {
		t.Fatalf("steady decline should classify as downtrend (down=%v ok=%v)", down, ok)
	}
	if _, ok := Uptrend(ramp(100, 0.5, 100), TrendClassic, 0); ok {
		t.Fatal("classic profile needs 200 bars; short window must be undecidable")
	}
}

func TestUptrend_Crossover(t *testing.T) {
	up, ok := Uptrend(ramp(100, 1, 25), TrendCrossover, 0)
	if !ok || !up {
		t.Fatalf("rising series: MA5 should sit above MA20 (up=%v ok=%v)", up, ok)
	}
	up, ok = Uptrend(ramp(100, -1, 25), TrendCrossover, 0)
	if !ok || up {
		t.Fatalf("falling series must not classify as crossover uptrend (up=%v ok=%v)", up, ok)
	}
}

func TestUptrend_SensitivityWidensGap(t *testing.T) {
	closes := ramp(100, 0.01, 25) // barely rising
	up, ok := Uptrend(closes, TrendCrossover, 0)
	if !ok || !up {
		t.Fatal("gentle rise should pass with zero sensitivity")
	}
	up, _ = Uptrend(closes, TrendCrossover, 0.05)
	if up {
		t.Fatal("a 5% margin should reject a 1-cent-per-bar drift")
	}
}

func TestBreakout_VolumeConfirmation(t *testing.T) {
	closes := append(repeat(1, 30), 2)

	volumes := append(append(repeat(10, 20), repeat(0, 9)...), 100)
	if !Breakout(closes, volumes) {
		t.Fatal("price breakout with a volume surge should signal")
	}
	if Breakout(closes, repeat(10, 30)) {
		t.Fatal("price breakout without a volume surge must not signal")
	}
}

func TestBreakout_InsufficientHistory(t *testing.T) {
	if Breakout(repeat(1, 29), repeat(10, 29)) {
		t.Fatal("fewer than 30 closes must not signal")
	}
	if Breakout(append(repeat(1, 30), 2), repeat(10, 19)) {
		t.Fatal("fewer than 20 volumes must not signal")
	}
}

func TestBreakout_RequiresNewHigh(t *testing.T) {
	closes := append(repeat(5, 30), 5) // ties the prior high, does not exceed it
	volumes := append(repeat(10, 30), 100)
	if Breakout(closes, volumes) {
		t.Fatal("matching the prior high is not a breakout")
	}
}
