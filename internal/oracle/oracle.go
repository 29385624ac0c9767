// Package oracle classifies an indicator snapshot into a discrete market
// verdict, a confirmation checklist and a bounded bullish-probability score.
package oracle

import (
	"math"

	"zentrader/internal/types"
)

// Classify evaluates the ordered decision list. The first matching rule
// wins, so an over-extended RSI lands on the exhaustion rule even when
// trend and momentum are bullish.
func Classify(s types.IndicatorSnapshot) types.Verdict {
	price, sma := s.Price, s.SMA20
	macd, sig := s.MACD, s.MACDSignal
	rsi, atr := s.RSI14, s.ATR14

	switch {
	case price > sma && macd > sig && rsi < 70:
		return types.VerdictBullishBreakout
	case price < sma && macd < sig && rsi > 30:
		return types.VerdictBearishBreakdown
	case rsi > 75 || (price > sma && macd < sig):
		return types.VerdictExhaustionWarning
	case math.Abs(macd-sig) < 0.1 && atr < 0.005*price:
		return types.VerdictRangeNoise
	default:
		return types.VerdictNeutral
	}
}

// Checklist builds the four-point confluence record. It is evaluated
// independently of the verdict.
func Checklist(s types.IndicatorSnapshot) types.Confluence {
	c := types.Confluence{
		TrendAligned:    s.Price > s.SMA20,
		MomentumAligned: s.MACD > s.MACDSignal,
		RSIHealthy:      s.RSI14 > 40 && s.RSI14 < 70,
		PriceInBands:    s.BBLower < s.Price && s.Price < s.BBUpper,
	}
	for _, ok := range []bool{c.TrendAligned, c.MomentumAligned, c.RSIHealthy, c.PriceInBands} {
		if ok {
			c.Passed++
		}
	}
	return c
}

// BullishProbability estimates the setup's bullish probability in percent.
// Base 50, adjusted per factor and clamped to [0,100]. The price-vs-SMA
// factors are mutually exclusive, so no double counting occurs.
func BullishProbability(s types.IndicatorSnapshot) int {
	score := 50

	if s.Price > s.SMA20 {
		score += 20
	}
	if s.MACD > s.MACDSignal {
		score += 10
	}
	if s.RSI14 < 40 {
		score += 10 // room to run
	}

	if s.Price < s.SMA20 {
		score -= 20
	}
	if s.MACD < s.MACDSignal {
		score -= 10
	}
	if s.RSI14 > 70 {
		score -= 10 // over-extended
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

// Analyze bundles verdict, checklist and probability for a snapshot.
func Analyze(symbol string, s types.IndicatorSnapshot) *types.Analysis {
	v := Classify(s)
	c := Checklist(s)
	return &types.Analysis{
		Symbol:      symbol,
		Snapshot:    s,
		Verdict:     v.String(),
		Title:       v.Title(),
		Message:     v.Message(),
		Confluence:  c,
		Quality:     c.Quality(),
		BullishProb: BullishProbability(s),
	}
}
