package news

import (
	"context"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"zentrader/internal/types"
)

const calendarMaxEvents = 5

// Calendar pulls upcoming economic events from a calendar feed and
// flags the entries whose titles carry a high-impact keyword.
type Calendar struct {
	parser   *gofeed.Parser
	url      string
	keywords []string
}

func NewCalendar(url string, keywords []string, timeout time.Duration) *Calendar {
	parser := gofeed.NewParser()
	parser.Client = newTimeoutClient(timeout)
	return &Calendar{parser: parser, url: url, keywords: keywords}
}

// Events returns at most five upcoming events from the calendar feed.
func (c *Calendar) Events(ctx context.Context) ([]types.CalendarEvent, error) {
	feed, err := c.parser.ParseURLWithContext(c.url, ctx)
	if err != nil {
		return nil, err
	}

	var events []types.CalendarEvent
	for _, entry := range feed.Items {
		if len(events) >= calendarMaxEvents {
			break
		}
		published := time.Now()
		if entry.PublishedParsed != nil {
			published = *entry.PublishedParsed
		}
		title := StripHTML(entry.Title)
		events = append(events, types.CalendarEvent{
			Title:      title,
			Link:       entry.Link,
			Published:  published,
			HighImpact: c.isHighImpact(title),
		})
	}
	return events, nil
}

func (c *Calendar) isHighImpact(title string) bool {
	lower := strings.ToLower(title)
	for _, kw := range c.keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
