package store

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Asset is one watchlist entry. Class selects the decimal precision used
// when formatting its prices.
type Asset struct {
	Symbol string `yaml:"symbol"`
	Name   string `yaml:"name"`
	Class  string `yaml:"class"` // crypto, forex, index, metal, equity
}

// Feed is one RSS/Atom news source.
type Feed struct {
	URL    string `yaml:"url"`
	Source string `yaml:"source"`
}

// CategoryRule is one entry of the ordered keyword cascade. The first rule
// whose keywords (or sources) match wins.
type CategoryRule struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
	Sources  []string `yaml:"sources"`
}

type Config struct {
	PollSeconds int `yaml:"poll_seconds"`

	Capital struct {
		Total   float64 `yaml:"total"`
		RiskPct float64 `yaml:"risk_pct"`
	} `yaml:"capital"`

	Gate struct {
		Threshold int `yaml:"threshold"`
	} `yaml:"gate"`

	Watchlist    []Asset `yaml:"watchlist"`
	ActiveSymbol string  `yaml:"active_symbol"`

	Chart struct {
		Period   string `yaml:"period"`   // e.g. 1y
		Interval string `yaml:"interval"` // e.g. 1d
	} `yaml:"chart"`

	Indicators struct {
		SMAWindow  int     `yaml:"sma_window"`
		BBWindow   int     `yaml:"bb_window"`
		BBStdDev   float64 `yaml:"bb_stddev"`
		RSIPeriod  int     `yaml:"rsi_period"`
		ATRPeriod  int     `yaml:"atr_period"`
		MACDFast   int     `yaml:"macd_fast"`
		MACDSlow   int     `yaml:"macd_slow"`
		MACDSignal int     `yaml:"macd_signal"`
	} `yaml:"indicators"`

	Cache struct {
		BarsTTLSeconds     int `yaml:"bars_ttl_seconds"`
		NewsTTLSeconds     int `yaml:"news_ttl_seconds"`
		CalendarTTLSeconds int `yaml:"calendar_ttl_seconds"`
	} `yaml:"cache"`

	News struct {
		Feeds              []Feed         `yaml:"feeds"`
		CalendarURL        string         `yaml:"calendar_url"`
		MaxPerFeed         int            `yaml:"max_per_feed"`
		Categories         []CategoryRule `yaml:"categories"`
		HighImpactKeywords []string       `yaml:"high_impact_keywords"`
	} `yaml:"news"`

	// Precision maps instrument class to decimal places for display.
	Precision map[string]int `yaml:"precision"`

	LLM struct {
		Model       string  `yaml:"model"`
		MaxTokens   int     `yaml:"max_tokens"`
		Temperature float32 `yaml:"temperature"`
		System      string  `yaml:"system"`
	} `yaml:"llm"`

	Journal struct {
		Path string `yaml:"path"`
	} `yaml:"journal"`
}

// Validate rejects configurations the dashboard cannot run with.
func (c *Config) Validate() error {
	if len(c.Watchlist) == 0 {
		return errors.New("watchlist cannot be empty")
	}
	if c.Capital.RiskPct <= 0 || c.Capital.RiskPct > 100 {
		return fmt.Errorf("capital.risk_pct must be between 0-100, got %.2f", c.Capital.RiskPct)
	}
	if c.Gate.Threshold < 0 || c.Gate.Threshold > 100 {
		return fmt.Errorf("gate.threshold must be between 0-100, got %d", c.Gate.Threshold)
	}
	if c.PollSeconds <= 0 {
		return fmt.Errorf("poll_seconds must be positive, got %d", c.PollSeconds)
	}
	for _, a := range c.Watchlist {
		if a.Symbol == "" {
			return errors.New("watchlist entries need a symbol")
		}
	}
	return nil
}

// LoadConfig reads, defaults and validates the yaml configuration.
func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.PollSeconds == 0 {
		c.PollSeconds = 300
	}
	if c.Capital.Total == 0 {
		c.Capital.Total = 1000
	}
	if c.Capital.RiskPct == 0 {
		c.Capital.RiskPct = 1.0
	}
	if c.Gate.Threshold == 0 {
		c.Gate.Threshold = 70
	}
	if c.Chart.Period == "" {
		c.Chart.Period = "1y"
	}
	if c.Chart.Interval == "" {
		c.Chart.Interval = "1d"
	}

	i := &c.Indicators
	if i.SMAWindow == 0 {
		i.SMAWindow = 20
	}
	if i.BBWindow == 0 {
		i.BBWindow = 20
	}
	if i.BBStdDev == 0 {
		i.BBStdDev = 2
	}
	if i.RSIPeriod == 0 {
		i.RSIPeriod = 14
	}
	if i.ATRPeriod == 0 {
		i.ATRPeriod = 14
	}
	if i.MACDFast == 0 {
		i.MACDFast = 12
	}
	if i.MACDSlow == 0 {
		i.MACDSlow = 26
	}
	if i.MACDSignal == 0 {
		i.MACDSignal = 9
	}

	if c.Cache.BarsTTLSeconds == 0 {
		c.Cache.BarsTTLSeconds = 300
	}
	if c.Cache.NewsTTLSeconds == 0 {
		c.Cache.NewsTTLSeconds = 900
	}
	if c.Cache.CalendarTTLSeconds == 0 {
		c.Cache.CalendarTTLSeconds = 3600
	}

	if c.News.MaxPerFeed == 0 {
		c.News.MaxPerFeed = 8
	}
	if len(c.News.Feeds) == 0 {
		c.News.Feeds = DefaultFeeds()
	}
	if len(c.News.Categories) == 0 {
		c.News.Categories = DefaultCategories()
	}
	if len(c.News.HighImpactKeywords) == 0 {
		c.News.HighImpactKeywords = DefaultHighImpactKeywords()
	}

	if len(c.Precision) == 0 {
		c.Precision = DefaultPrecision()
	}

	if c.LLM.Model == "" {
		c.LLM.Model = "claude-3-5-haiku-latest"
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 512
	}

	if c.Journal.Path == "" {
		c.Journal.Path = "trading_journal.csv"
	}
}

// DefaultFeeds are the stock news sources.
func DefaultFeeds() []Feed {
	return []Feed{
		{URL: "https://cointelegraph.com/rss", Source: "CoinTelegraph"},
		{URL: "https://www.investing.com/rss/news.rss", Source: "Investing.com"},
		{URL: "https://www.investing.com/rss/news_287.rss", Source: "Inv. Politics"},
	}
}

// DefaultCategories is the ordered keyword cascade. Geopolitics outranks
// everything: a headline with both "bitcoin" and "war" is geopolitics.
func DefaultCategories() []CategoryRule {
	return []CategoryRule{
		{
			Name: "Geopolitics",
			Keywords: []string{
				"war", "guerra", "conflict", "tariff", "china", "russia",
				"sanctions", "gdp", "inflation",
			},
		},
		{
			Name: "Crypto",
			Keywords: []string{
				"bitcoin", "btc", "ethereum", "eth", "crypto", "blockchain",
				"solana", "xrp",
			},
			Sources: []string{"cointelegraph"},
		},
		{
			Name:     "Metals",
			Keywords: []string{"gold", "xau", "silver", "metal"},
		},
		{
			Name: "Commodities",
			Keywords: []string{
				"oil", "crude", "lithium", "copper", "energy",
			},
		},
		{
			Name: "Forex",
			Keywords: []string{
				"dollar", "usd", "euro", "eur", "yen", "jpy", "fed",
				"central bank", "rates", "forex",
			},
		},
	}
}

// DefaultHighImpactKeywords flag economic-calendar entries worth a warning.
func DefaultHighImpactKeywords() []string {
	return []string{"gdp", "cpi", "fed", "ecb", "employment", "rate"}
}

// DefaultPrecision maps instrument class to display decimals. The scattered
// per-variant formatting rules collapse into this one table.
func DefaultPrecision() map[string]int {
	return map[string]int{
		"crypto": 0,
		"forex":  5,
		"index":  3,
		"metal":  2,
		"equity": 2,
	}
}

// DecimalsFor returns the display precision for an instrument class,
// defaulting to 2.
func (c *Config) DecimalsFor(class string) int {
	if d, ok := c.Precision[class]; ok {
		return d
	}
	return 2
}
