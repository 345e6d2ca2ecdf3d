// Package indicator provides the pure computations the signal evaluator is
// built on: RSI (Wilder smoothing), simple moving averages, swing
// volatility, trend classification and breakout detection. Every function
// is deterministic and total over well-formed input; insufficient history
// yields a defined "absent" result instead of an error.
package indicator

import "math"

// RSI computes the Relative Strength Index over the supplied closes using
// Wilder's smoothing: the first `period` deltas seed the average gain and
// loss, subsequent deltas are smoothed with weight 1/period. The second
// return value is false when len(closes) < period+1. A smoothed loss of
// exactly zero maps to 100; that keeps the divide defined and is the
// documented behavior for monotonic rallies.
func RSI(closes []float64, period int) (float64, bool) {
	if period <= 0 || len(closes) < period+1 {
		return 0, false
	}
	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			avgGain += delta
		} else {
			avgLoss -= delta
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	for i := period + 1; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if delta > 0 {
			gain = delta
		} else {
			loss = -delta
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
	}
	if avgLoss == 0 {
		return 100, true
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs), true
}

// MovingAverage returns the arithmetic mean of the last `window` closes.
// The second return value is false when there is not enough history.
func MovingAverage(closes []float64, window int) (float64, bool) {
	if window <= 0 || len(closes) < window {
		return 0, false
	}
	sum := 0.0
	for _, c := range closes[len(closes)-window:] {
		sum += c
	}
	return sum / float64(window), true
}

// Volatility is the mean absolute bar-to-bar delta over the whole window,
// zero when fewer than two points are available.
func Volatility(closes []float64) float64 {
	if len(closes) < 2 {
		return 0
	}
	sum := 0.0
	for i := 1; i < len(closes); i++ {
		sum += math.Abs(closes[i] - closes[i-1])
	}
	return sum / float64(len(closes)-1)
}

// TrendProfile selects which moving-average structure classifies a trend.
type TrendProfile string

const (
	// TrendClassic requires close > MA50 > MA200 for an uptrend
	// (mirrored for a downtrend). Needs 200 bars of history.
	TrendClassic TrendProfile = "classic"
	// TrendCrossover requires MA5 > MA20 for an uptrend (mirrored for a
	// downtrend). Needs only 20 bars.
	TrendCrossover TrendProfile = "crossover"
)

const (
	classicFast, classicSlow     = 50, 200
	crossoverFast, crossoverSlow = 5, 20
)

// Uptrend classifies the window as trending up under the given profile.
// Sensitivity is a fractional margin the faster average must clear above
// the slower one (0 = plain comparison). Returns false, false when the
// window is too short to decide.
func Uptrend(closes []float64, profile TrendProfile, sensitivity float64) (bool, bool) {
	return trend(closes, profile, sensitivity, true)
}

// Downtrend is the mirror of Uptrend.
func Downtrend(closes []float64, profile TrendProfile, sensitivity float64) (bool, bool) {
	return trend(closes, profile, sensitivity, false)
}

func trend(closes []float64, profile TrendProfile, sensitivity float64, up bool) (bool, bool) {
	fast, slow := classicFast, classicSlow
	if profile == TrendCrossover {
		fast, slow = crossoverFast, crossoverSlow
	}
	maFast, ok := MovingAverage(closes, fast)
	if !ok {
		return false, false
	}
	maSlow, ok := MovingAverage(closes, slow)
	if !ok {
		return false, false
	}
	margin := 1 + sensitivity
	last := closes[len(closes)-1]
	if up {
		if profile == TrendCrossover {
			return maFast > maSlow*margin, true
		}
		return last > maFast*margin && maFast > maSlow*margin, true
	}
	if profile == TrendCrossover {
		return maFast*margin < maSlow, true
	}
	return last*margin < maFast && maFast*margin < maSlow, true
}

const (
	breakoutLookback = 30
	volumeLookback   = 20
	volumeSurge      = 1.5
)

// Breakout reports whether the latest close exceeds the highest of the
// prior 30 closes while the latest volume exceeds 1.5x the mean of the
// prior 20 volumes. Fewer than 30 closes or 20 volumes means no signal.
func Breakout(closes, volumes []float64) bool {
	if len(closes) < breakoutLookback || len(volumes) < volumeLookback {
		return false
	}
	prior := closes[:len(closes)-1]
	if len(prior) > breakoutLookback {
		prior = prior[len(prior)-breakoutLookback:]
	}
	high := prior[0]
	for _, c := range prior[1:] {
		if c > high {
			high = c
		}
	}
	if closes[len(closes)-1] <= high {
		return false
	}

	pv := volumes[:len(volumes)-1]
	if len(pv) > volumeLookback {
		pv = pv[len(pv)-volumeLookback:]
	}
	if len(pv) == 0 {
		return false
	}
	sum := 0.0
	for _, v := range pv {
		sum += v
	}
	avg := sum / float64(len(pv))
	return volumes[len(volumes)-1] > volumeSurge*avg
}
