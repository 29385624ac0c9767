package types

import (
	"math"
	"time"
)

// Bar is one OHLC record for a fixed interval. Series are always ordered by
// strictly increasing Ts.
type Bar struct {
	Ts                             int64
	Open, High, Low, Close, Volume float64
}

// IndicatorSnapshot is the derived view attached to the last bar of a
// series. A field that could not be computed (series shorter than its
// lookback window) is NaN.
type IndicatorSnapshot struct {
	Price      float64 `json:"price"`
	SMA20      float64 `json:"sma20"`
	BBUpper    float64 `json:"bb_upper"`
	BBLower    float64 `json:"bb_lower"`
	RSI14      float64 `json:"rsi14"`
	MACD       float64 `json:"macd"`
	MACDSignal float64 `json:"macd_signal"`
	ATR14      float64 `json:"atr14"`
	PivotPoint float64 `json:"pivot_point"`
	R1         float64 `json:"r1"`
	S1         float64 `json:"s1"`
}

// Complete reports whether every field of the snapshot is a finite number.
func (s IndicatorSnapshot) Complete() bool {
	for _, v := range []float64{
		s.Price, s.SMA20, s.BBUpper, s.BBLower, s.RSI14,
		s.MACD, s.MACDSignal, s.ATR14, s.PivotPoint, s.R1, s.S1,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Verdict is the discrete market-state classification. Exactly one applies
// per snapshot.
type Verdict int

const (
	VerdictNeutral Verdict = iota
	VerdictBullishBreakout
	VerdictBearishBreakdown
	VerdictExhaustionWarning
	VerdictRangeNoise
)

func (v Verdict) String() string {
	switch v {
	case VerdictBullishBreakout:
		return "BULLISH_BREAKOUT"
	case VerdictBearishBreakdown:
		return "BEARISH_BREAKDOWN"
	case VerdictExhaustionWarning:
		return "EXHAUSTION_WARNING"
	case VerdictRangeNoise:
		return "RANGE_NOISE"
	default:
		return "NEUTRAL"
	}
}

// Title returns the short human-readable heading for the verdict.
func (v Verdict) Title() string {
	switch v {
	case VerdictBullishBreakout:
		return "Bullish Trigger Detected"
	case VerdictBearishBreakdown:
		return "Bearish Trigger Detected"
	case VerdictExhaustionWarning:
		return "Exhaustion / Top Warning"
	case VerdictRangeNoise:
		return "Sleeping Market (Noise)"
	default:
		return "Neutral Analysis"
	}
}

// Message returns the long-form explanation shown under the title.
func (v Verdict) Message() string {
	switch v {
	case VerdictBullishBreakout:
		return "Strength confirmed: indicators align to the upside. Price is above the mean, momentum is positive and the RSI has room left."
	case VerdictBearishBreakdown:
		return "Selling pressure confirmed: the technical structure favors the bears. Price below the mean with negative momentum."
	case VerdictExhaustionWarning:
		return "Price rises but is losing internal strength (divergence or extreme RSI). Imminent reversal risk."
	case VerdictRangeNoise:
		return "Low volatility and flat momentum. Do not force trades where there are none; the market is resting."
	default:
		return "The market is undecided. Wait for a better configuration."
	}
}

// Confluence is the four-point confirmation checklist. It is independent of
// the verdict.
type Confluence struct {
	TrendAligned    bool `json:"trend_aligned"`
	MomentumAligned bool `json:"momentum_aligned"`
	RSIHealthy      bool `json:"rsi_healthy"`
	PriceInBands    bool `json:"price_in_bands"`
	Passed          int  `json:"passed"`
}

// Quality labels the checklist: three or more passing checks make a
// high-quality setup.
func (c Confluence) Quality() string {
	if c.Passed >= 3 {
		return "high-quality setup"
	}
	return "mixed conditions"
}

// RiskPlan is the suggested trade plan for the analyzed asset. Sized is
// false when position sizing was skipped (counter-trend price or a
// non-positive stop distance).
type RiskPlan struct {
	Entry      float64 `json:"entry"`
	TakeProfit float64 `json:"take_profit"`
	StopLoss   float64 `json:"stop_loss"`
	RiskAmount float64 `json:"risk_amount"`
	Units      float64 `json:"units"`
	Sized      bool    `json:"sized"`
}

// SentimentLabel buckets a compound polarity score.
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "POSITIVE"
	SentimentNegative SentimentLabel = "NEGATIVE"
	SentimentNeutral  SentimentLabel = "NEUTRAL"
)

// NewsItem is one tagged headline. Items are produced once per fetch cycle
// and never deduplicated across cycles.
type NewsItem struct {
	Title          string         `json:"title"`
	Link           string         `json:"link"`
	Source         string         `json:"source"`
	Summary        string         `json:"summary"`
	Published      time.Time      `json:"published"`
	SentimentLabel SentimentLabel `json:"sentiment_label"`
	SentimentScore float64        `json:"sentiment_score"`
	Category       string         `json:"category"`
}

// CalendarEvent is one upcoming economic-calendar entry.
type CalendarEvent struct {
	Title      string    `json:"title"`
	Link       string    `json:"link"`
	Published  time.Time `json:"published"`
	HighImpact bool      `json:"high_impact"`
}

// ChatTurn is one turn of the mentor conversation. History is an explicit
// value: it is passed into the relay and replayed to the provider.
type ChatTurn struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// Quote is a ticker-tape entry: last price plus day change percent.
type Quote struct {
	Symbol    string  `json:"symbol"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	ChangePct float64 `json:"change_pct"`
}

// Analysis bundles everything the dashboard shows for the selected asset.
type Analysis struct {
	Symbol      string            `json:"symbol"`
	Snapshot    IndicatorSnapshot `json:"snapshot"`
	Verdict     string            `json:"verdict"`
	Title       string            `json:"title"`
	Message     string            `json:"message"`
	Confluence  Confluence        `json:"confluence"`
	Quality     string            `json:"quality"`
	BullishProb int               `json:"bullish_prob"`
	Plan        RiskPlan          `json:"plan"`
}

// ScanRow is one line of the watchlist scanner table.
type ScanRow struct {
	Symbol string  `json:"symbol"`
	Price  float64 `json:"price"`
	RSI    float64 `json:"rsi"`
	Trend  string  `json:"trend"`
	Status string  `json:"status"`
}

// Section wraps one independently produced dashboard section. Notice is a
// non-fatal message set when the section's collaborator failed; the rest of
// the dashboard still renders.
type Section[T any] struct {
	Data   T      `json:"data"`
	Notice string `json:"notice,omitempty"`
}

// DashboardState is one full refresh cycle's output.
type DashboardState struct {
	Blocked     bool                                   `json:"blocked"`
	ZenScore    int                                    `json:"zen_score"`
	ZenReasons  []string                               `json:"zen_reasons,omitempty"`
	Session     string                                 `json:"session"`
	Quotes      Section[[]Quote]                       `json:"quotes"`
	Analysis    Section[*Analysis]                     `json:"analysis"`
	Scanner     Section[[]ScanRow]                     `json:"scanner"`
	News        Section[[]NewsItem]                    `json:"news"`
	Calendar    Section[[]CalendarEvent]               `json:"calendar"`
	Correlation Section[map[string]map[string]float64] `json:"correlation"`
	GeneratedAt time.Time                              `json:"generated_at"`
}
