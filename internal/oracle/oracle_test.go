package oracle

import (
	"testing"

	"zentrader/internal/types"
)

func snap(price, sma, macd, sig, rsi, atr float64) types.IndicatorSnapshot {
	return types.IndicatorSnapshot{
		Price:      price,
		SMA20:      sma,
		BBUpper:    price + 5,
		BBLower:    price - 5,
		RSI14:      rsi,
		MACD:       macd,
		MACDSignal: sig,
		ATR14:      atr,
	}
}

func TestClassifyRuleOrder(t *testing.T) {
	cases := []struct {
		name string
		s    types.IndicatorSnapshot
		want types.Verdict
	}{
		{"bullish breakout", snap(105, 100, 2, 1, 55, 3), types.VerdictBullishBreakout},
		{"bearish breakdown", snap(95, 100, -2, -1, 45, 3), types.VerdictBearishBreakdown},
		{"exhaustion by extreme rsi beats bullish alignment", snap(105, 100, 2, 1, 80, 3), types.VerdictExhaustionWarning},
		{"exhaustion by divergence", snap(105, 100, 1, 2, 55, 3), types.VerdictExhaustionWarning},
		{"range noise", snap(100, 100, 0.01, 0.02, 35, 0.2), types.VerdictRangeNoise},
		{"neutral", snap(95, 100, -2, -1, 25, 3), types.VerdictNeutral},
	}
	for _, tc := range cases {
		if got := Classify(tc.s); got != tc.want {
			t.Errorf("%s: expected %s, got %s", tc.name, tc.want, got)
		}
	}
}

func TestClassifyIsTotal(t *testing.T) {
	prices := []float64{95, 100, 105}
	macds := []float64{-1, 0, 1}
	rsis := []float64{20, 50, 80}
	atrs := []float64{0.1, 5}
	for _, p := range prices {
		for _, m := range macds {
			for _, r := range rsis {
				for _, a := range atrs {
					v := Classify(snap(p, 100, m, 0, r, a))
					switch v {
					case types.VerdictBullishBreakout, types.VerdictBearishBreakdown,
						types.VerdictExhaustionWarning, types.VerdictRangeNoise, types.VerdictNeutral:
					default:
						t.Fatalf("Unexpected verdict %v for p=%f m=%f r=%f a=%f", v, p, m, r, a)
					}
				}
			}
		}
	}
}

func TestChecklist(t *testing.T) {
	s := snap(105, 100, 2, 1, 55, 3)
	c := Checklist(s)
	if !c.TrendAligned || !c.MomentumAligned || !c.RSIHealthy || !c.PriceInBands {
		t.Errorf("Expected all checks passing, got %+v", c)
	}
	if c.Passed != 4 {
		t.Errorf("Expected 4 passed, got %d", c.Passed)
	}
	if c.Quality() != "high-quality setup" {
		t.Errorf("Expected high-quality setup, got %s", c.Quality())
	}

	s2 := snap(95, 100, -2, -1, 80, 3)
	c2 := Checklist(s2)
	if c2.Passed != 1 { // only price-in-bands survives
		t.Errorf("Expected 1 passed, got %d", c2.Passed)
	}
	if c2.Quality() != "mixed conditions" {
		t.Errorf("Expected mixed conditions, got %s", c2.Quality())
	}
}

func TestBullishProbability(t *testing.T) {
	cases := []struct {
		name string
		s    types.IndicatorSnapshot
		want int
	}{
		{"all bullish with low rsi", snap(105, 100, 2, 1, 35, 3), 90},
		{"all bearish with high rsi", snap(95, 100, -2, -1, 75, 3), 10},
		{"bullish but hot rsi", snap(105, 100, 2, 1, 75, 3), 70},
		{"flat", snap(100, 100, 0, 0, 50, 3), 50},
	}
	for _, tc := range cases {
		if got := BullishProbability(tc.s); got != tc.want {
			t.Errorf("%s: expected %d, got %d", tc.name, tc.want, got)
		}
	}
}

func TestAnalyzeBundlesEverything(t *testing.T) {
	a := Analyze("BTC-USD", snap(105, 100, 2, 1, 55, 3))
	if a.Symbol != "BTC-USD" {
		t.Errorf("Expected symbol BTC-USD, got %s", a.Symbol)
	}
	if a.Verdict != "BULLISH_BREAKOUT" {
		t.Errorf("Expected BULLISH_BREAKOUT, got %s", a.Verdict)
	}
	if a.Title == "" || a.Message == "" {
		t.Error("Expected non-empty title and message")
	}
	if a.Quality != "high-quality setup" {
		t.Errorf("Expected high-quality setup, got %s", a.Quality)
	}
}
