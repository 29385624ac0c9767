package news

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"zentrader/internal/logger"
	"zentrader/internal/store"
	"zentrader/internal/types"
)

const summaryMaxRunes = 200

// Fetcher pulls items from the configured RSS/Atom feeds.
type Fetcher struct {
	parser     *gofeed.Parser
	feeds      []store.Feed
	maxPerFeed int
}

// NewFetcher creates a feed fetcher with a bounded HTTP timeout.
func NewFetcher(feeds []store.Feed, maxPerFeed int, timeout time.Duration) *Fetcher {
	parser := gofeed.NewParser()
	parser.Client = newTimeoutClient(timeout)
	return &Fetcher{
		parser:     parser,
		feeds:      feeds,
		maxPerFeed: maxPerFeed,
	}
}

// FetchAll reads every configured feed and returns untagged items sorted
// newest first. A failing feed is logged and skipped; the others still
// contribute. Items with no published time default to now.
func (f *Fetcher) FetchAll(ctx context.Context) []types.NewsItem {
	var items []types.NewsItem

	for _, src := range f.feeds {
		feed, err := f.parser.ParseURLWithContext(src.URL, ctx)
		if err != nil {
			logger.ErrorWithErr(ctx, "Feed fetch failed", err, "source", src.Source, "url", src.URL)
			continue
		}

		count := 0
		for _, entry := range feed.Items {
			if count >= f.maxPerFeed {
				break
			}
			published := time.Now()
			if entry.PublishedParsed != nil {
				published = *entry.PublishedParsed
			}
			items = append(items, types.NewsItem{
				Title:     StripHTML(entry.Title),
				Link:      entry.Link,
				Source:    src.Source,
				Summary:   truncate(StripHTML(entry.Description), summaryMaxRunes),
				Published: published,
			})
			count++
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Published.After(items[j].Published)
	})
	return items
}

// StripHTML reduces an HTML-bearing field to its plain text.
func StripHTML(s string) string {
	if s == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	return strings.TrimSpace(doc.Text())
}

func newTimeoutClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
