// Package services агрегирует внешние RSS-ленты в единый новостной поток
// для публичной страницы новостей. Элементы всех источников сливаются,
// сортируются по дате публикации и кэшируются в Redis.
package services

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/magabrotheeeer/membership-directory/internal/lib/sl"
	"github.com/magabrotheeeer/membership-directory/internal/models"
)

const (
	cacheKeyNews  = "news:all"
	cacheTTL      = 15 * time.Minute
	fetchTimeout  = 10 * time.Second
	maxItems      = 30
	summaryLength = 300
)

// Cache определяет методы кэширования новостного потока.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
}

// NewsService собирает и отдаёт агрегированную ленту новостей.
type NewsService struct {
	parser   *gofeed.Parser
	cache    Cache
	feedURLs []string
	log      *slog.Logger
}

// NewNewsService создает новый экземпляр NewsService.
func NewNewsService(cache Cache, feedURLs []string, log *slog.Logger) *NewsService {
	return &NewsService{
		parser:   gofeed.NewParser(),
		cache:    cache,
		feedURLs: feedURLs,
		log:      log,
	}
}

// List возвращает объединённую ленту. Недоступный источник пропускается,
// остальные продолжают обслуживаться. При пустом списке источников
// возвращается пустая лента без ошибки.
func (s *NewsService) List(ctx context.Context) ([]*models.NewsItem, error) {
	var cached []*models.NewsItem
	found, err := s.cache.Get(cacheKeyNews, &cached)
	if err != nil {
		s.log.Error("failed to read news cache", sl.Err(err))
	}
	if found {
		return cached, nil
	}

	var items []*models.NewsItem
	for _, url := range s.feedURLs {
		feedItems, err := s.fetchFeed(ctx, url)
		if err != nil {
			s.log.Error("failed to fetch feed", "url", url, sl.Err(err))
			continue
		}
		items = append(items, feedItems...)
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].PublishedAt.After(items[j].PublishedAt)
	})
	if len(items) > maxItems {
		items = items[:maxItems]
	}

	if err := s.cache.Set(cacheKeyNews, items, cacheTTL); err != nil {
		s.log.Error("failed to cache news", sl.Err(err))
	}
	if items == nil {
		items = []*models.NewsItem{}
	}
	return items, nil
}

func (s *NewsService) fetchFeed(ctx context.Context, url string) ([]*models.NewsItem, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	feed, err := s.parser.ParseURLWithContext(url, fetchCtx)
	if err != nil {
		return nil, err
	}

	result := make([]*models.NewsItem, 0, len(feed.Items))
	for _, it := range feed.Items {
		item := &models.NewsItem{
			Title:   it.Title,
			Link:    it.Link,
			Source:  feed.Title,
			Summary: truncate(it.Description, summaryLength),
		}
		if it.PublishedParsed != nil {
			item.PublishedAt = *it.PublishedParsed
		} else if it.UpdatedParsed != nil {
			item.PublishedAt = *it.UpdatedParsed
		}
		result = append(result, item)
	}
	return result, nil
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "…"
}
