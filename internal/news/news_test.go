package news

import (
	"strings"
	"testing"
	"time"

	"zentrader/internal/store"
	"zentrader/internal/types"
)

func defaultTagger() *Tagger {
	return NewTagger(store.DefaultCategories())
}

func TestSentimentPositive(t *testing.T) {
	label, score := defaultTagger().Sentiment("Markets rally as stocks surge to record highs, great gains")
	if label != types.SentimentPositive {
		t.Errorf("Expected POSITIVE, got %s (score %f)", label, score)
	}
	if score <= 0.05 {
		t.Errorf("Expected compound above 0.05, got %f", score)
	}
}

func TestSentimentNegative(t *testing.T) {
	label, score := defaultTagger().Sentiment("Stocks crash in worst collapse since the crisis, fears grow")
	if label != types.SentimentNegative {
		t.Errorf("Expected NEGATIVE, got %s (score %f)", label, score)
	}
}

func TestSentimentNeutralOnEmpty(t *testing.T) {
	label, score := defaultTagger().Sentiment("")
	if label != types.SentimentNeutral {
		t.Errorf("Expected NEUTRAL for empty text, got %s", label)
	}
	if score != 0 {
		t.Errorf("Expected zero compound for empty text, got %f", score)
	}
}

func TestCategorizeByKeyword(t *testing.T) {
	tagger := defaultTagger()

	cases := []struct {
		title    string
		expected string
	}{
		{"Bitcoin climbs past resistance", "Crypto"},
		{"Gold holds steady ahead of data", "Metals"},
		{"Oil inventories fall again", "Commodities"},
		{"EURUSD slips after ECB minutes", "Forex"},
		{"New tariff round announced", "Geopolitics"},
		{"Quiet session on Wall Street", "Markets"},
	}

	for _, tc := range cases {
		got := tagger.Categorize(tc.title, "", "")
		if got != tc.expected {
			t.Errorf("Categorize(%q): expected %s, got %s", tc.title, tc.expected, got)
		}
	}
}

func TestCategorizeGeopoliticsBeatsCrypto(t *testing.T) {
	// Rule order decides when keywords from several rules match.
	got := defaultTagger().Categorize("Bitcoin plunges as guerra fears spread", "", "")
	if got != "Geopolitics" {
		t.Errorf("Expected Geopolitics for mixed headline, got %s", got)
	}
}

func TestCategorizeBySource(t *testing.T) {
	got := defaultTagger().Categorize("Top stories this morning", "", "CoinTelegraph")
	if got != "Crypto" {
		t.Errorf("Expected Crypto for CoinTelegraph source, got %s", got)
	}
}

func TestCategorizeUsesSummary(t *testing.T) {
	got := defaultTagger().Categorize("Weekly wrap", "silver futures extended gains", "")
	if got != "Metals" {
		t.Errorf("Expected Metals from summary keyword, got %s", got)
	}
}

func TestTagSetsAllFields(t *testing.T) {
	item := types.NewsItem{
		Title:   "Bitcoin soars to wonderful new highs",
		Summary: "Traders celebrate.",
		Source:  "CoinTelegraph",
	}
	defaultTagger().Tag(&item)

	if item.SentimentLabel != types.SentimentPositive {
		t.Errorf("Expected POSITIVE label, got %s", item.SentimentLabel)
	}
	if item.Category != "Crypto" {
		t.Errorf("Expected Crypto category, got %s", item.Category)
	}
	if item.SentimentScore == 0 {
		t.Error("Expected non-zero sentiment score")
	}
}

func TestStripHTML(t *testing.T) {
	got := StripHTML("<p>Gold <b>rises</b> on haven demand</p>")
	if got != "Gold rises on haven demand" {
		t.Errorf("Expected plain text, got %q", got)
	}
}

func TestStripHTMLPlainTextPassthrough(t *testing.T) {
	got := StripHTML("no markup here")
	if got != "no markup here" {
		t.Errorf("Expected unchanged text, got %q", got)
	}
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("a", 250)
	got := truncate(long, summaryMaxRunes)
	if len([]rune(got)) != summaryMaxRunes+3 {
		t.Errorf("Expected %d runes plus ellipsis, got %d", summaryMaxRunes, len([]rune(got)))
	}
	if !strings.HasSuffix(got, "...") {
		t.Error("Expected truncated summary to end with ellipsis")
	}

	short := "short summary"
	if truncate(short, summaryMaxRunes) != short {
		t.Error("Expected short summary to pass through unchanged")
	}
}

func TestCalendarHighImpactFlag(t *testing.T) {
	c := NewCalendar("", store.DefaultHighImpactKeywords(), time.Second)

	if !c.isHighImpact("US GDP release preview") {
		t.Error("Expected GDP headline to be high impact")
	}
	if !c.isHighImpact("FOMC rate decision due Wednesday") {
		t.Error("Expected FOMC headline to be high impact")
	}
	if c.isHighImpact("Retail sales in minor economy") {
		t.Error("Expected ordinary headline to not be high impact")
	}
}
