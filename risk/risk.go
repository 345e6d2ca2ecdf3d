// Package risk converts an entry decision into a whole-share order size.
package risk

import (
	"math"

	"github.com/JMitchell7425/Trading-Bot/config"
)

// Size returns the order quantity for an entry. The dollar risk budget is
// risk_percent_per_trade of equity; with dynamic volatility enabled and a
// positive volatility reading, the budget is spread over volatility-scaled
// dollars per share instead of raw price. The result never drops below one
// share: the engine either trades a whole share or does not reach sizing
// at all.
func Size(equity, price, volatility float64, cfg config.StrategyConfig) int {
	if price <= 0 || equity <= 0 {
		return 1
	}
	riskAmt := cfg.RiskPercentPerTrade / 100 * equity

	denom := price
	if cfg.DynamicVolatility && volatility > 0 {
		denom = volatility * price
	}
	qty := int(math.Round(riskAmt / denom))
	if qty < 1 {
		return 1
	}
	return qty
}
