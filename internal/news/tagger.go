// Package news fetches market headlines and tags each one with a lexicon
// sentiment score and a topic category.
package news

import (
	"strings"

	"github.com/jonreiter/govader"

	"zentrader/internal/store"
	"zentrader/internal/types"
)

// DefaultCategory is assigned when no cascade rule matches.
const DefaultCategory = "Markets"

// Sentiment thresholds on the VADER compound score.
const (
	positiveThreshold = 0.05
	negativeThreshold = -0.05
)

// Tagger scores sentiment and assigns categories. The category table is
// configuration, evaluated strictly in order: the first matching rule wins.
type Tagger struct {
	analyzer *govader.SentimentIntensityAnalyzer
	rules    []store.CategoryRule
}

// NewTagger builds a tagger over the given cascade rules.
func NewTagger(rules []store.CategoryRule) *Tagger {
	return &Tagger{
		analyzer: govader.NewSentimentIntensityAnalyzer(),
		rules:    rules,
	}
}

// Sentiment returns the compound polarity score of a text and its bucket.
// Empty text is neutral.
func (t *Tagger) Sentiment(text string) (types.SentimentLabel, float64) {
	if strings.TrimSpace(text) == "" {
		return types.SentimentNeutral, 0
	}
	compound := t.analyzer.PolarityScores(text).Compound
	switch {
	case compound >= positiveThreshold:
		return types.SentimentPositive, compound
	case compound <= negativeThreshold:
		return types.SentimentNegative, compound
	default:
		return types.SentimentNeutral, compound
	}
}

// Categorize walks the cascade over title+summary (keywords) and source
// (source matches), case-insensitive.
func (t *Tagger) Categorize(title, summary, source string) string {
	text := strings.ToLower(title + " " + summary)
	src := strings.ToLower(source)

	for _, rule := range t.rules {
		for _, s := range rule.Sources {
			if strings.Contains(src, strings.ToLower(s)) {
				return rule.Name
			}
		}
		for _, kw := range rule.Keywords {
			if strings.Contains(text, strings.ToLower(kw)) {
				return rule.Name
			}
		}
	}
	return DefaultCategory
}

// Tag applies both sentiment and category to a headline. Sentiment is
// scored on the title alone; summaries are too noisy for the lexicon.
func (t *Tagger) Tag(item *types.NewsItem) {
	item.SentimentLabel, item.SentimentScore = t.Sentiment(item.Title)
	item.Category = t.Categorize(item.Title, item.Summary, item.Source)
}
