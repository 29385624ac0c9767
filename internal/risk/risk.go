// Package risk derives position sizing and a trade plan from the latest
// indicator snapshot and the user's capital settings.
package risk

import (
	"context"
	"math"

	"zentrader/internal/logger"
	"zentrader/internal/types"
)

// ATRStopMultiple is the volatility stop distance used when the caller does
// not supply an explicit stop level.
const ATRStopMultiple = 2.0

// Size computes suggested units for a long entry. The stop distance must be
// positive; otherwise sizing is undefined and (0, false) is returned rather
// than an error, since the caller only shows the figure when it exists.
func Size(capital, riskPct, entry, stop float64) (units float64, ok bool) {
	distance := entry - stop
	if distance <= 0 || capital <= 0 || riskPct <= 0 {
		return 0, false
	}
	riskAmount := capital * riskPct / 100
	return riskAmount / distance, true
}

// Plan builds the full trade plan for a snapshot: entry at the current
// price, take-profit at R1 and a 2xATR volatility stop. Units are only
// suggested when price sits above the SMA; counter-trend longs get a plan
// without units.
func Plan(ctx context.Context, s types.IndicatorSnapshot, capital, riskPct float64) types.RiskPlan {
	plan := types.RiskPlan{
		Entry:      s.Price,
		TakeProfit: s.R1,
	}
	if math.IsNaN(s.ATR14) {
		return plan
	}
	plan.StopLoss = s.Price - ATRStopMultiple*s.ATR14

	if !(s.Price > s.SMA20) {
		logger.Debug(ctx, "Sizing withheld, waiting for trend confirmation",
			"price", s.Price, "sma", s.SMA20)
		return plan
	}

	units, ok := Size(capital, riskPct, plan.Entry, plan.StopLoss)
	if !ok {
		return plan
	}
	plan.RiskAmount = capital * riskPct / 100
	plan.Units = units
	plan.Sized = true
	return plan
}
