package risk

import (
	"testing"

	"github.com/JMitchell7425/Trading-Bot/config"
)

func TestSizeBasic(t *testing.T) {
	cfg := config.Default()
	cfg.RiskPercentPerTrade = 1 // $100 on a $10k account
	if got := Size(10_000, 50, 0, cfg); got != 2 {
		t.Fatalf("expected 2 shares ($100/$50), got %d", got)
	}
}

func TestSizeDynamicVolatility(t *testing.T) {
	cfg := config.Default()
	cfg.RiskPercentPerTrade = 1
	cfg.DynamicVolatility = true
	// $100 budget over (vol 0.5 x price 50) = 4 shares.
	if got := Size(10_000, 50, 0.5, cfg); got != 4 {
		t.Fatalf("expected 4 shares, got %d", got)
	}
	// Zero volatility falls back to the plain price divisor.
	if got := Size(10_000, 50, 0, cfg); got != 2 {
		t.Fatalf("expected fallback sizing of 2 shares, got %d", got)
	}
}

func TestSizeNeverBelowOne(t *testing.T) {
	cfg := config.Default()
	cases := []struct {
		equity, price, vol float64
		dynamic            bool
	}{
		{100, 5000, 0, false},   // budget far below one share
		{0, 100, 0, false},      // no equity
		{10_000, 0, 0, false},   // degenerate price
		{100, 5000, 9999, true}, // huge volatility divisor
		{1, 1, 0.0001, true},
	}
	for i, tc := range cases {
		cfg.DynamicVolatility = tc.dynamic
		if got := Size(tc.equity, tc.price, tc.vol, cfg); got < 1 {
			t.Errorf("case %d: quantity %d below 1", i, got)
		}
	}
}
