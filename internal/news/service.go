package news

import (
	"context"
	"sync"
	"time"

	"zentrader/internal/logger"
	"zentrader/internal/store"
	"zentrader/internal/types"
)

// Service aggregates the configured feeds, tags every item with
// sentiment and category, and caches the result between polls.
type Service struct {
	fetcher  *Fetcher
	scraper  *Scraper
	tagger   *Tagger
	calendar *Calendar

	mu        sync.RWMutex
	items     []types.NewsItem
	itemsAt   time.Time
	itemsTTL  time.Duration
	events    []types.CalendarEvent
	eventsAt  time.Time
	eventsTTL time.Duration
	hasItems  bool
	hasEvents bool
}

// ServiceConfig configures the news service.
type ServiceConfig struct {
	FeedTimeout time.Duration
	NewsTTL     time.Duration
	CalendarTTL time.Duration
}

func DefaultServiceConfig() *ServiceConfig {
	return &ServiceConfig{
		FeedTimeout: 15 * time.Second,
		NewsTTL:     10 * time.Minute,
		CalendarTTL: 1 * time.Hour,
	}
}

func NewService(cfg *store.Config, svcCfg *ServiceConfig) *Service {
	if svcCfg == nil {
		svcCfg = DefaultServiceConfig()
	}
	if cfg.Cache.NewsTTLSeconds > 0 {
		svcCfg.NewsTTL = time.Duration(cfg.Cache.NewsTTLSeconds) * time.Second
	}
	if cfg.Cache.CalendarTTLSeconds > 0 {
		svcCfg.CalendarTTL = time.Duration(cfg.Cache.CalendarTTLSeconds) * time.Second
	}

	return &Service{
		fetcher:   NewFetcher(cfg.News.Feeds, cfg.News.MaxPerFeed, svcCfg.FeedTimeout),
		scraper:   NewScraper(svcCfg.FeedTimeout),
		tagger:    NewTagger(cfg.News.Categories),
		calendar:  NewCalendar(cfg.News.CalendarURL, cfg.News.HighImpactKeywords, svcCfg.FeedTimeout),
		itemsTTL:  svcCfg.NewsTTL,
		eventsTTL: svcCfg.CalendarTTL,
	}
}

// Items returns the tagged feed items, refreshing them when the cached
// copy has expired. When every feed fails it falls back to scraped
// headlines, and when those fail too it serves the stale cache.
func (s *Service) Items(ctx context.Context) []types.NewsItem {
	s.mu.RLock()
	if s.hasItems && time.Since(s.itemsAt) < s.itemsTTL {
		cached := s.items
		s.mu.RUnlock()
		return cached
	}
	s.mu.RUnlock()

	items := s.fetcher.FetchAll(ctx)
	if len(items) == 0 {
		logger.Info(ctx, "No items from feeds, trying headline scraper")
		scraped, err := s.scraper.Headlines(ctx, "markets", 10)
		if err != nil {
			logger.ErrorWithErr(ctx, "Headline fallback failed", err)
		}
		items = scraped
	}

	if len(items) == 0 {
		s.mu.RLock()
		defer s.mu.RUnlock()
		return s.items
	}

	for i := range items {
		s.tagger.Tag(&items[i])
	}

	s.mu.Lock()
	s.items = items
	s.itemsAt = time.Now()
	s.hasItems = true
	s.mu.Unlock()

	return items
}

// Events returns upcoming calendar events, cached between refreshes.
func (s *Service) Events(ctx context.Context) ([]types.CalendarEvent, error) {
	s.mu.RLock()
	if s.hasEvents && time.Since(s.eventsAt) < s.eventsTTL {
		cached := s.events
		s.mu.RUnlock()
		return cached, nil
	}
	s.mu.RUnlock()

	events, err := s.calendar.Events(ctx)
	if err != nil {
		s.mu.RLock()
		defer s.mu.RUnlock()
		if s.hasEvents {
			return s.events, nil
		}
		return nil, err
	}

	s.mu.Lock()
	s.events = events
	s.eventsAt = time.Now()
	s.hasEvents = true
	s.mu.Unlock()

	return events, nil
}

// ClearCache drops the cached items and events.
func (s *Service) ClearCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.events = nil
	s.hasItems = false
	s.hasEvents = false
}
