package ta

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"zentrader/internal/types"
)

// Config holds the lookback windows for the indicator engine.
type Config struct {
	SMAWindow  int
	BBWindow   int
	BBStdDev   float64
	RSIPeriod  int
	ATRPeriod  int
	MACDFast   int
	MACDSlow   int
	MACDSignal int
}

// DefaultConfig returns the standard windows: SMA20, BB(20,2), RSI14,
// ATR14, MACD(12,26,9).
func DefaultConfig() Config {
	return Config{
		SMAWindow:  20,
		BBWindow:   20,
		BBStdDev:   2,
		RSIPeriod:  14,
		ATRPeriod:  14,
		MACDFast:   12,
		MACDSlow:   26,
		MACDSignal: 9,
	}
}

func SMA(closes []float64, n int) float64 {
	if len(closes) < n || n <= 0 {
		return math.NaN()
	}
	sum := 0.0
	for i := len(closes) - n; i < len(closes); i++ {
		sum += closes[i]
	}
	return sum / float64(n)
}

// StdDev is the sample standard deviation (ddof=1) of the trailing n
// values, matching common trading-platform convention.
func StdDev(vals []float64, n int) float64 {
	if len(vals) < n || n <= 1 {
		return math.NaN()
	}
	return stat.StdDev(vals[len(vals)-n:], nil)
}

func Bollinger(closes []float64, n int, k float64) (mid, up, low float64) {
	mid = SMA(closes, n)
	sd := StdDev(closes, n)
	up = mid + k*sd
	low = mid - k*sd
	return
}

// RSI is the simplified rolling-mean variant: plain averages of gains and
// losses over the window, not Wilder's smoothing. The 70/30 verdict
// thresholds were tuned against this variant's output, so it must not be
// "fixed" to the canonical formula. A zero loss average yields 100.
func RSI(closes []float64, period int) float64 {
	if len(closes) < period+1 || period <= 0 {
		return math.NaN()
	}
	gain, loss := 0.0, 0.0
	for i := len(closes) - period; i < len(closes); i++ {
		d := closes[i] - closes[i-1]
		if d > 0 {
			gain += d
		} else {
			loss -= d
		}
	}
	if loss == 0 {
		return 100.0
	}
	rs := (gain / float64(period)) / (loss / float64(period))
	return 100.0 - (100.0 / (1.0 + rs))
}

// EMASeries computes the exponential moving average over the whole series,
// seeded with the first value (no SMA seed).
func EMASeries(vals []float64, span int) []float64 {
	if len(vals) == 0 || span <= 0 {
		return nil
	}
	alpha := 2.0 / (float64(span) + 1.0)
	out := make([]float64, len(vals))
	out[0] = vals[0]
	for i := 1; i < len(vals); i++ {
		out[i] = alpha*vals[i] + (1-alpha)*out[i-1]
	}
	return out
}

// MACD returns the latest MACD and signal line values. Both are computed
// over the full close history; truncating the input to a display window
// corrupts the early EMA values, so callers must pass everything they have.
func MACD(closes []float64, fast, slow, signal int) (macd, sig float64) {
	line := MACDLine(closes, fast, slow)
	if len(line) == 0 {
		return math.NaN(), math.NaN()
	}
	sigSeries := EMASeries(line, signal)
	return line[len(line)-1], sigSeries[len(sigSeries)-1]
}

// MACDLine is the fast-EMA minus slow-EMA series.
func MACDLine(closes []float64, fast, slow int) []float64 {
	if len(closes) == 0 {
		return nil
	}
	ef := EMASeries(closes, fast)
	es := EMASeries(closes, slow)
	out := make([]float64, len(closes))
	for i := range closes {
		out[i] = ef[i] - es[i]
	}
	return out
}

func ATR(highs, lows, closes []float64, period int) float64 {
	if len(highs) != len(lows) || len(lows) != len(closes) {
		return math.NaN()
	}
	if len(closes) < period+1 || period <= 0 {
		return math.NaN()
	}
	sum := 0.0
	for i := len(closes) - period; i < len(closes); i++ {
		tr1 := highs[i] - lows[i]
		tr2 := math.Abs(highs[i] - closes[i-1])
		tr3 := math.Abs(lows[i] - closes[i-1])
		sum += math.Max(tr1, math.Max(tr2, tr3))
	}
	return sum / float64(period)
}

// Pivots computes classic pivot levels from the second-to-last bar, the
// last fully closed period. A single-bar series falls back to its close.
func Pivots(bars []types.Bar) (pp, r1, s1 float64) {
	if len(bars) == 0 {
		return math.NaN(), math.NaN(), math.NaN()
	}
	if len(bars) < 2 {
		c := bars[len(bars)-1].Close
		return c, c, c
	}
	prev := bars[len(bars)-2]
	pp = (prev.High + prev.Low + prev.Close) / 3
	r1 = 2*pp - prev.Low
	s1 = 2*pp - prev.High
	return
}

// Compute derives the full indicator snapshot from a bar series. Every
// series is evaluated over the complete history it is given.
func Compute(bars []types.Bar, cfg Config) types.IndicatorSnapshot {
	if len(bars) == 0 {
		nan := math.NaN()
		return types.IndicatorSnapshot{
			Price: nan, SMA20: nan, BBUpper: nan, BBLower: nan,
			RSI14: nan, MACD: nan, MACDSignal: nan, ATR14: nan,
			PivotPoint: nan, R1: nan, S1: nan,
		}
	}

	closes := make([]float64, len(bars))
	highs := make([]float64, len(bars))
	lows := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
		highs[i] = b.High
		lows[i] = b.Low
	}

	_, up, low := Bollinger(closes, cfg.BBWindow, cfg.BBStdDev)
	macd, sig := MACD(closes, cfg.MACDFast, cfg.MACDSlow, cfg.MACDSignal)
	pp, r1, s1 := Pivots(bars)

	return types.IndicatorSnapshot{
		Price:      closes[len(closes)-1],
		SMA20:      SMA(closes, cfg.SMAWindow),
		BBUpper:    up,
		BBLower:    low,
		RSI14:      RSI(closes, cfg.RSIPeriod),
		MACD:       macd,
		MACDSignal: sig,
		ATR14:      ATR(highs, lows, closes, cfg.ATRPeriod),
		PivotPoint: pp,
		R1:         r1,
		S1:         s1,
	}
}
