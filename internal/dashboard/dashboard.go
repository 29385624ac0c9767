package dashboard

import (
	"context"
	"math"
	"time"

	"zentrader/internal/biofeedback"
	"zentrader/internal/logger"
	"zentrader/internal/oracle"
	"zentrader/internal/risk"
	"zentrader/internal/store"
	"zentrader/internal/ta"
	"zentrader/internal/trace"
	"zentrader/internal/types"
)

const (
	scanPeriod        = "1mo"
	scanInterval      = "1d"
	scanMinBars       = 15
	correlationPeriod = "3mo"
)

// MarketData is the slice of the market provider the dashboard needs.
type MarketData interface {
	Bars(ctx context.Context, symbol, period, interval string) ([]types.Bar, error)
	Quote(ctx context.Context, symbol, name string) (types.Quote, error)
	Correlation(ctx context.Context, symbols []string, period string) (map[string]map[string]float64, error)
}

// NewsFeed is the slice of the news service the dashboard needs.
type NewsFeed interface {
	Items(ctx context.Context) []types.NewsItem
	Events(ctx context.Context) ([]types.CalendarEvent, error)
}

// Service assembles one DashboardState per refresh cycle. Every section
// is produced independently so one failing collaborator degrades only
// its own section.
type Service struct {
	cfg    *store.Config
	market MarketData
	news   NewsFeed
	taCfg  ta.Config
}

func NewService(cfg *store.Config, market MarketData, news NewsFeed) *Service {
	return &Service{
		cfg:    cfg,
		market: market,
		news:   news,
		taCfg: ta.Config{
			SMAWindow:  cfg.Indicators.SMAWindow,
			BBWindow:   cfg.Indicators.BBWindow,
			BBStdDev:   cfg.Indicators.BBStdDev,
			RSIPeriod:  cfg.Indicators.RSIPeriod,
			ATRPeriod:  cfg.Indicators.ATRPeriod,
			MACDFast:   cfg.Indicators.MACDFast,
			MACDSlow:   cfg.Indicators.MACDSlow,
			MACDSignal: cfg.Indicators.MACDSignal,
		},
	}
}

// Refresh runs one full cycle. When the mental gate is closed the market
// sections are skipped entirely and only the zen state is reported.
func (s *Service) Refresh(ctx context.Context, bio biofeedback.State) types.DashboardState {
	ctx, span := trace.StartSpan(ctx, "dashboard-refresh")
	defer span.End()

	result := biofeedback.Score(bio)
	state := types.DashboardState{
		ZenScore:    result.Score,
		ZenReasons:  result.Reasons,
		Session:     SessionLabel(time.Now()),
		GeneratedAt: time.Now(),
	}

	if !biofeedback.Unlocked(result, s.cfg.Gate.Threshold) {
		state.Blocked = true
		logger.Info(ctx, "Trading gate closed", "zen_score", result.Score, "threshold", s.cfg.Gate.Threshold)
		return state
	}

	state.Quotes = s.quotesSection(ctx)
	state.Analysis = s.analysisSection(ctx)
	state.Scanner = s.scannerSection(ctx)
	state.News = s.newsSection(ctx)
	state.Calendar = s.calendarSection(ctx)
	state.Correlation = s.correlationSection(ctx)

	logger.Info(ctx, "Dashboard refreshed", "zen_score", result.Score, "session", state.Session)
	return state
}

func (s *Service) quotesSection(ctx context.Context) types.Section[[]types.Quote] {
	var quotes []types.Quote
	for _, asset := range s.cfg.Watchlist {
		q, err := s.market.Quote(ctx, asset.Symbol, asset.Name)
		if err != nil {
			logger.Warn(ctx, "Quote unavailable", "symbol", asset.Symbol, "error", err.Error())
			continue
		}
		quotes = append(quotes, q)
	}

	section := types.Section[[]types.Quote]{Data: quotes}
	if len(quotes) == 0 {
		section.Notice = "no quotes available"
	}
	return section
}

func (s *Service) analysisSection(ctx context.Context) types.Section[*types.Analysis] {
	symbol := s.cfg.ActiveSymbol
	if symbol == "" && len(s.cfg.Watchlist) > 0 {
		symbol = s.cfg.Watchlist[0].Symbol
	}

	bars, err := s.market.Bars(ctx, symbol, s.cfg.Chart.Period, s.cfg.Chart.Interval)
	if err != nil {
		logger.ErrorWithErr(ctx, "Chart data unavailable", err, "symbol", symbol)
		return types.Section[*types.Analysis]{Notice: "chart data unavailable: " + err.Error()}
	}

	snapshot := ta.Compute(bars, s.taCfg)
	analysis := oracle.Analyze(symbol, snapshot)
	analysis.Plan = risk.Plan(ctx, snapshot, s.cfg.Capital.Total, s.cfg.Capital.RiskPct)
	return types.Section[*types.Analysis]{Data: analysis}
}

func (s *Service) scannerSection(ctx context.Context) types.Section[[]types.ScanRow] {
	var rows []types.ScanRow
	for _, asset := range s.cfg.Watchlist {
		bars, err := s.market.Bars(ctx, asset.Symbol, scanPeriod, scanInterval)
		if err != nil || len(bars) < scanMinBars {
			continue
		}
		rows = append(rows, scanRow(asset.Symbol, bars, s.taCfg))
	}

	section := types.Section[[]types.ScanRow]{Data: rows}
	if len(rows) == 0 {
		section.Notice = "scanner has no data"
	}
	return section
}

// scanRow condenses one symbol's recent bars into the scanner table line.
func scanRow(symbol string, bars []types.Bar, cfg ta.Config) types.ScanRow {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}

	price := closes[len(closes)-1]
	sma := ta.SMA(closes, cfg.SMAWindow)
	rsi := ta.RSI(closes, cfg.RSIPeriod)
	_, bbUpper, bbLower := ta.Bollinger(closes, cfg.BBWindow, cfg.BBStdDev)

	trend := "Bearish"
	if !math.IsNaN(sma) && price > sma {
		trend = "Bullish"
	}

	status := "Normal"
	switch {
	case !math.IsNaN(rsi) && rsi < 30:
		status = "OVERSOLD (opportunity?)"
	case !math.IsNaN(rsi) && rsi > 70:
		status = "OVERBOUGHT (caution)"
	case !math.IsNaN(bbLower) && price < bbLower:
		status = "Breaking floor"
	case !math.IsNaN(bbUpper) && price > bbUpper:
		status = "Breaking ceiling"
	}

	return types.ScanRow{
		Symbol: symbol,
		Price:  price,
		RSI:    rsi,
		Trend:  trend,
		Status: status,
	}
}

func (s *Service) newsSection(ctx context.Context) types.Section[[]types.NewsItem] {
	items := s.news.Items(ctx)
	section := types.Section[[]types.NewsItem]{Data: items}
	if len(items) == 0 {
		section.Notice = "no news available"
	}
	return section
}

func (s *Service) calendarSection(ctx context.Context) types.Section[[]types.CalendarEvent] {
	events, err := s.news.Events(ctx)
	if err != nil {
		logger.Warn(ctx, "Calendar unavailable", "error", err.Error())
		return types.Section[[]types.CalendarEvent]{Notice: "calendar unavailable: " + err.Error()}
	}
	return types.Section[[]types.CalendarEvent]{Data: events}
}

func (s *Service) correlationSection(ctx context.Context) types.Section[map[string]map[string]float64] {
	symbols := make([]string, 0, len(s.cfg.Watchlist))
	for _, asset := range s.cfg.Watchlist {
		symbols = append(symbols, asset.Symbol)
	}

	matrix, err := s.market.Correlation(ctx, symbols, correlationPeriod)
	if err != nil {
		logger.Warn(ctx, "Correlation unavailable", "error", err.Error())
		return types.Section[map[string]map[string]float64]{Notice: "correlation unavailable: " + err.Error()}
	}
	return types.Section[map[string]map[string]float64]{Data: matrix}
}
