// Package config holds the operator-tunable strategy configuration and a
// thread-safe store that hands out consistent snapshots to the engine while
// the web surface mutates it concurrently.
package config

import (
	"errors"
	"fmt"

	"github.com/JMitchell7425/Trading-Bot/indicator"
)

type Mode string

const (
	ModeAggressive   Mode = "aggressive"
	ModeConservative Mode = "conservative"
)

type MarketDirection string

const (
	DirectionLong  MarketDirection = "long"
	DirectionShort MarketDirection = "short"
	DirectionBoth  MarketDirection = "both"
)

// StrategyConfig holds all tunable parameters for the decision engine.
// Percentage fields are whole percents (5 = 5%).
type StrategyConfig struct {
	Mode            Mode            `yaml:"mode" json:"mode"`
	MarketDirection MarketDirection `yaml:"market_direction" json:"market_direction"`

	// Oscillator thresholds. ShortEntryRSI and RSISellThreshold are kept
	// distinct on purpose: one gates new shorts, the other exits longs.
	RSIBuyThreshold  float64 `yaml:"rsi_buy_threshold" json:"rsi_buy_threshold"`
	RSISellThreshold float64 `yaml:"rsi_sell_threshold" json:"rsi_sell_threshold"`
	ShortEntryRSI    float64 `yaml:"short_entry_rsi" json:"short_entry_rsi"`
	RSIPeriod        int     `yaml:"rsi_period" json:"rsi_period"`

	// Window and trend shape.
	BarCount         int                    `yaml:"bar_count" json:"bar_count"`
	TrendProfile     indicator.TrendProfile `yaml:"trend_profile" json:"trend_profile"`
	TrendSensitivity float64                `yaml:"trend_sensitivity" json:"trend_sensitivity"`

	// Exit rules. TrailingStopPct > 0 selects the trailing style and the
	// fixed StopLossPct is ignored; otherwise the stop references the
	// entry price.
	StopLossPct     float64 `yaml:"stop_loss_pct" json:"stop_loss_pct"`
	TrailingStopPct float64 `yaml:"trailing_stop_pct" json:"trailing_stop_pct"`
	ProfitTargetPct float64 `yaml:"profit_target_pct" json:"profit_target_pct"`

	// Whether the trailing high-water mark is cleared when a position is
	// closed. Off means a re-entry inherits the previous extreme.
	ResetHighWaterOnExit bool `yaml:"reset_high_water_on_exit" json:"reset_high_water_on_exit"`

	// Sizing.
	RiskPercentPerTrade float64 `yaml:"risk_percent_per_trade" json:"risk_percent_per_trade"`
	DynamicVolatility   bool    `yaml:"dynamic_volatility" json:"dynamic_volatility"`

	// Pacing and operator switches.
	MinTradeSpacingMinutes int  `yaml:"min_trade_spacing_minutes" json:"min_trade_spacing_minutes"`
	TestMode               bool `yaml:"test_mode" json:"test_mode"`
	Paused                 bool `yaml:"paused" json:"paused"`

	Symbols       []string `yaml:"symbols" json:"symbols"`
	CustomSymbols []string `yaml:"custom_symbols" json:"custom_symbols"`
}

// Default returns the configuration the bot ships with; mirrors the values
// the legacy deployments ran.
func Default() StrategyConfig {
	return StrategyConfig{
		Mode:                   ModeConservative,
		MarketDirection:        DirectionLong,
		RSIBuyThreshold:        40,
		RSISellThreshold:       65,
		ShortEntryRSI:          75,
		RSIPeriod:              14,
		BarCount:               200,
		TrendProfile:           indicator.TrendClassic,
		TrendSensitivity:       0,
		StopLossPct:            5,
		TrailingStopPct:        0,
		ProfitTargetPct:        10,
		ResetHighWaterOnExit:   true,
		RiskPercentPerTrade:    1,
		DynamicVolatility:      false,
		MinTradeSpacingMinutes: 10,
	}
}

// TrailingStop reports whether the trailing style is active.
func (c StrategyConfig) TrailingStop() bool { return c.TrailingStopPct > 0 }

// StopPct returns the active stop percentage for the configured style.
func (c StrategyConfig) StopPct() float64 {
	if c.TrailingStop() {
		return c.TrailingStopPct
	}
	return c.StopLossPct
}

// ActiveSymbols returns the configured list with operator-added custom
// symbols appended, deduplicated, in input order.
func (c StrategyConfig) ActiveSymbols() []string {
	seen := make(map[string]struct{}, len(c.Symbols)+len(c.CustomSymbols))
	out := make([]string, 0, len(c.Symbols)+len(c.CustomSymbols))
	for _, s := range append(append([]string{}, c.Symbols...), c.CustomSymbols...) {
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// Validate checks that all fields are within sensible bounds. It returns
// the first encountered error so a bad operator write surfaces clearly
// before any trading starts.
func (c *StrategyConfig) Validate() error {
	switch c.Mode {
	case ModeAggressive, ModeConservative:
	default:
		return fmt.Errorf("mode %q must be aggressive or conservative", c.Mode)
	}
	switch c.MarketDirection {
	case DirectionLong, DirectionShort, DirectionBoth:
	default:
		return fmt.Errorf("market_direction %q must be long, short or both", c.MarketDirection)
	}
	switch c.TrendProfile {
	case indicator.TrendClassic, indicator.TrendCrossover:
	default:
		return fmt.Errorf("trend_profile %q must be classic or crossover", c.TrendProfile)
	}
	if c.RSIBuyThreshold <= 0 || c.RSIBuyThreshold >= 100 {
		return fmt.Errorf("rsi_buy_threshold (%v) must be inside (0,100)", c.RSIBuyThreshold)
	}
	if c.RSISellThreshold <= 0 || c.RSISellThreshold >= 100 {
		return fmt.Errorf("rsi_sell_threshold (%v) must be inside (0,100)", c.RSISellThreshold)
	}
	if c.ShortEntryRSI <= 0 || c.ShortEntryRSI >= 100 {
		return fmt.Errorf("short_entry_rsi (%v) must be inside (0,100)", c.ShortEntryRSI)
	}
	if c.RSIPeriod <= 1 {
		return errors.New("rsi_period must be greater than 1")
	}
	if c.BarCount < c.RSIPeriod+1 {
		return fmt.Errorf("bar_count (%d) must cover at least rsi_period+1 bars", c.BarCount)
	}
	if c.TrendSensitivity < 0 || c.TrendSensitivity > 1 {
		return fmt.Errorf("trend_sensitivity (%v) must be between 0 and 1", c.TrendSensitivity)
	}
	if c.StopLossPct <= 0 && c.TrailingStopPct <= 0 {
		return errors.New("one of stop_loss_pct or trailing_stop_pct must be positive")
	}
	if c.StopLossPct < 0 || c.StopLossPct > 50 {
		return fmt.Errorf("stop_loss_pct (%v) out of realistic range", c.StopLossPct)
	}
	if c.TrailingStopPct < 0 || c.TrailingStopPct > 50 {
		return fmt.Errorf("trailing_stop_pct (%v) out of realistic range", c.TrailingStopPct)
	}
	if c.ProfitTargetPct < 0 || c.ProfitTargetPct > 500 {
		return fmt.Errorf("profit_target_pct (%v) out of realistic range", c.ProfitTargetPct)
	}
	if c.RiskPercentPerTrade <= 0 || c.RiskPercentPerTrade > 50 {
		return fmt.Errorf("risk_percent_per_trade (%v) must be >0 and <=50", c.RiskPercentPerTrade)
	}
	if c.MinTradeSpacingMinutes < 0 {
		return errors.New("min_trade_spacing_minutes cannot be negative")
	}
	return nil
}
