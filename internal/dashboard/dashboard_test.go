package dashboard

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"zentrader/internal/biofeedback"
	"zentrader/internal/store"
	"zentrader/internal/ta"
	"zentrader/internal/types"
)

type fakeMarket struct {
	bars    []types.Bar
	barsErr error
	quote   types.Quote
	qErr    error
	matrix  map[string]map[string]float64
	mErr    error
}

func (f *fakeMarket) Bars(context.Context, string, string, string) ([]types.Bar, error) {
	return f.bars, f.barsErr
}

func (f *fakeMarket) Quote(_ context.Context, symbol, name string) (types.Quote, error) {
	if f.qErr != nil {
		return types.Quote{}, f.qErr
	}
	q := f.quote
	q.Symbol = symbol
	q.Name = name
	return q, nil
}

func (f *fakeMarket) Correlation(context.Context, []string, string) (map[string]map[string]float64, error) {
	return f.matrix, f.mErr
}

type fakeNews struct {
	items  []types.NewsItem
	events []types.CalendarEvent
	evErr  error
}

func (f *fakeNews) Items(context.Context) []types.NewsItem { return f.items }
func (f *fakeNews) Events(context.Context) ([]types.CalendarEvent, error) {
	return f.events, f.evErr
}

func barsFromCloses(closes []float64) []types.Bar {
	bars := make([]types.Bar, len(closes))
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		bars[i] = types.Bar{
			Ts:    start.AddDate(0, 0, i).Unix(),
			Open:  c,
			High:  c + 1,
			Low:   c - 1,
			Close: c,
		}
	}
	return bars
}

// drifting series: +2/-1 alternating, 21 closes ending at 110.
func driftingCloses() []float64 {
	closes := []float64{100}
	for i := 0; i < 10; i++ {
		closes = append(closes, closes[len(closes)-1]+2)
		closes = append(closes, closes[len(closes)-1]-1)
	}
	return closes
}

func testConfig() *store.Config {
	cfg := &store.Config{}
	cfg.Watchlist = []store.Asset{{Symbol: "BTC-USD", Name: "Bitcoin", Class: "crypto"}}
	cfg.ActiveSymbol = "BTC-USD"
	cfg.Chart.Period = "1y"
	cfg.Chart.Interval = "1d"
	cfg.Gate.Threshold = 70
	cfg.Capital.Total = 1000
	cfg.Capital.RiskPct = 1
	cfg.Indicators.SMAWindow = 20
	cfg.Indicators.BBWindow = 20
	cfg.Indicators.BBStdDev = 2
	cfg.Indicators.RSIPeriod = 14
	cfg.Indicators.ATRPeriod = 14
	cfg.Indicators.MACDFast = 12
	cfg.Indicators.MACDSlow = 26
	cfg.Indicators.MACDSignal = 9
	return cfg
}

func calmState() biofeedback.State {
	return biofeedback.State{Mood: 8, SleepHours: 8, Stress: 2, Meal: biofeedback.MealNormal, Nature: true}
}

func TestRefreshBlockedShortCircuits(t *testing.T) {
	market := &fakeMarket{qErr: errors.New("should not be called")}
	svc := NewService(testConfig(), market, &fakeNews{})

	stressed := biofeedback.State{Mood: 2, SleepHours: 4, Stress: 9, Meal: biofeedback.MealSugar}
	state := svc.Refresh(context.Background(), stressed)

	if !state.Blocked {
		t.Error("Expected dashboard to be blocked")
	}
	if state.ZenScore != 0 {
		t.Errorf("Expected zen score 0 for worst-case state, got %d", state.ZenScore)
	}
	if state.Quotes.Data != nil || state.Analysis.Data != nil {
		t.Error("Expected no market sections when blocked")
	}
	if len(state.ZenReasons) != 3 {
		t.Errorf("Expected 3 reasons, got %d", len(state.ZenReasons))
	}
}

func TestRefreshProducesAllSections(t *testing.T) {
	market := &fakeMarket{
		bars:   barsFromCloses(driftingCloses()),
		quote:  types.Quote{Price: 110, ChangePct: 1.5},
		matrix: map[string]map[string]float64{"BTC-USD": {"BTC-USD": 1}},
	}
	feed := &fakeNews{
		items:  []types.NewsItem{{Title: "headline"}},
		events: []types.CalendarEvent{{Title: "GDP release"}},
	}
	svc := NewService(testConfig(), market, feed)

	state := svc.Refresh(context.Background(), calmState())

	if state.Blocked {
		t.Fatal("Expected dashboard unlocked for calm state")
	}
	if state.ZenScore != 100 {
		t.Errorf("Expected zen score 100, got %d", state.ZenScore)
	}
	if len(state.Quotes.Data) != 1 || state.Quotes.Data[0].Symbol != "BTC-USD" {
		t.Errorf("Expected one quote, got %+v", state.Quotes.Data)
	}
	if state.Analysis.Data == nil {
		t.Fatal("Expected analysis section populated")
	}
	if state.Analysis.Data.Symbol != "BTC-USD" {
		t.Errorf("Expected analysis for active symbol, got %s", state.Analysis.Data.Symbol)
	}
	if len(state.Scanner.Data) != 1 {
		t.Fatalf("Expected one scanner row, got %d", len(state.Scanner.Data))
	}
	if len(state.News.Data) != 1 || len(state.Calendar.Data) != 1 {
		t.Error("Expected news and calendar sections populated")
	}
	if state.Correlation.Data["BTC-USD"]["BTC-USD"] != 1 {
		t.Error("Expected correlation matrix passed through")
	}
	if state.Session == "" {
		t.Error("Expected a session label")
	}
}

func TestRefreshSectionFailuresAreIsolated(t *testing.T) {
	market := &fakeMarket{
		barsErr: errors.New("chart feed down"),
		qErr:    errors.New("quote feed down"),
		mErr:    errors.New("no data"),
	}
	feed := &fakeNews{evErr: errors.New("calendar down")}
	svc := NewService(testConfig(), market, feed)

	state := svc.Refresh(context.Background(), calmState())

	if state.Blocked {
		t.Fatal("Collaborator failures must not block the dashboard")
	}
	if state.Quotes.Notice == "" {
		t.Error("Expected quotes notice when all quotes fail")
	}
	if state.Analysis.Notice == "" || state.Analysis.Data != nil {
		t.Error("Expected analysis notice and no data on chart failure")
	}
	if state.Scanner.Notice == "" {
		t.Error("Expected scanner notice with no rows")
	}
	if state.News.Notice == "" {
		t.Error("Expected news notice when feed is empty")
	}
	if state.Calendar.Notice == "" {
		t.Error("Expected calendar notice on error")
	}
	if state.Correlation.Notice == "" {
		t.Error("Expected correlation notice on error")
	}
}

func TestScanRowBullishNormal(t *testing.T) {
	row := scanRow("BTC-USD", barsFromCloses(driftingCloses()), ta.DefaultConfig())

	if row.Trend != "Bullish" {
		t.Errorf("Expected Bullish trend, got %s", row.Trend)
	}
	if row.Status != "Normal" {
		t.Errorf("Expected Normal status, got %s", row.Status)
	}
	if math.Abs(row.RSI-66.67) > 0.1 {
		t.Errorf("Expected RSI near 66.67, got %f", row.RSI)
	}
	if row.Price != 110 {
		t.Errorf("Expected last close 110, got %f", row.Price)
	}
}

func TestScanRowOversoldAndOverbought(t *testing.T) {
	var falling, rising []float64
	for i := 0; i < 21; i++ {
		falling = append(falling, 120-float64(i))
		rising = append(rising, 100+float64(i))
	}

	down := scanRow("X", barsFromCloses(falling), ta.DefaultConfig())
	if down.Status != "OVERSOLD (opportunity?)" {
		t.Errorf("Expected oversold status, got %s", down.Status)
	}
	if down.Trend != "Bearish" {
		t.Errorf("Expected Bearish trend, got %s", down.Trend)
	}

	up := scanRow("X", barsFromCloses(rising), ta.DefaultConfig())
	if up.Status != "OVERBOUGHT (caution)" {
		t.Errorf("Expected overbought status, got %s", up.Status)
	}
	if up.Trend != "Bullish" {
		t.Errorf("Expected Bullish trend, got %s", up.Trend)
	}
}

func TestScanRowBreakingFloor(t *testing.T) {
	// flat alternation around 100, then a sharp drop below the lower band
	closes := []float64{100}
	for i := 0; i < 19; i++ {
		if i%2 == 0 {
			closes = append(closes, 101)
		} else {
			closes = append(closes, 100)
		}
	}
	closes = append(closes, 95)

	row := scanRow("X", barsFromCloses(closes), ta.DefaultConfig())
	if row.Status != "Breaking floor" {
		t.Errorf("Expected breaking floor status, got %s", row.Status)
	}
	if row.RSI < 30 || row.RSI > 70 {
		t.Errorf("Expected moderate RSI, got %f", row.RSI)
	}
}

func TestSessionLabel(t *testing.T) {
	cases := []struct {
		hour     int
		expected string
	}{
		{13, "London + New York overlap"},
		{15, "London + New York overlap"},
		{8, "European session"},
		{12, "European session"},
		{16, "American session"},
		{20, "American session"},
		{21, "Asian session"},
		{2, "Asian session"},
		{7, "Asian session"},
	}

	for _, tc := range cases {
		now := time.Date(2026, 3, 10, tc.hour, 30, 0, 0, time.UTC)
		if got := SessionLabel(now); got != tc.expected {
			t.Errorf("Hour %d: expected %s, got %s", tc.hour, tc.expected, got)
		}
	}
}
