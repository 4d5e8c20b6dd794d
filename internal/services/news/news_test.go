package services_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/membership-directory/internal/models"
	services "github.com/magabrotheeeer/membership-directory/internal/services/news"
)

// Кеш-заглушка в памяти.
type newsCacheStub struct {
	store map[string][]*models.NewsItem
}

func newNewsCacheStub() *newsCacheStub {
	return &newsCacheStub{store: make(map[string][]*models.NewsItem)}
}

func (c *newsCacheStub) Get(key string, result any) (bool, error) {
	items, ok := c.store[key]
	if !ok {
		return false, nil
	}
	if dst, ok := result.(*[]*models.NewsItem); ok {
		*dst = items
		return true, nil
	}
	return false, nil
}

func (c *newsCacheStub) Set(key string, value any, _ time.Duration) error {
	if items, ok := value.([]*models.NewsItem); ok {
		c.store[key] = items
	}
	return nil
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func rssFeed(title string, items string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>` + title + `</title>` + items + `</channel></rss>`
}

func TestNewsService_List_MergesAndSorts(t *testing.T) {
	feedA := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(rssFeed("Source A", `
<item><title>Older story</title><link>https://a.example.com/1</link>
<description>First</description><pubDate>Mon, 03 Feb 2025 10:00:00 GMT</pubDate></item>`)))
	}))
	defer feedA.Close()

	feedB := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(rssFeed("Source B", `
<item><title>Newer story</title><link>https://b.example.com/1</link>
<description>Second</description><pubDate>Tue, 04 Feb 2025 10:00:00 GMT</pubDate></item>`)))
	}))
	defer feedB.Close()

	svc := services.NewNewsService(newNewsCacheStub(),
		[]string{feedA.URL, feedB.URL}, newNoopLogger())

	items, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "Newer story", items[0].Title)
	assert.Equal(t, "Source B", items[0].Source)
	assert.Equal(t, "Older story", items[1].Title)
	assert.Equal(t, "Source A", items[1].Source)
}

func TestNewsService_List_DeadSourceSkipped(t *testing.T) {
	alive := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(rssFeed("Alive", `
<item><title>Still here</title><link>https://a.example.com/1</link>
<pubDate>Mon, 03 Feb 2025 10:00:00 GMT</pubDate></item>`)))
	}))
	defer alive.Close()

	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer dead.Close()

	svc := services.NewNewsService(newNewsCacheStub(),
		[]string{dead.URL, alive.URL}, newNoopLogger())

	items, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Still here", items[0].Title)
}

func TestNewsService_List_ServedFromCache(t *testing.T) {
	calls := 0
	feed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		_, _ = w.Write([]byte(rssFeed("Source", `
<item><title>Story</title><link>https://a.example.com/1</link>
<pubDate>Mon, 03 Feb 2025 10:00:00 GMT</pubDate></item>`)))
	}))
	defer feed.Close()

	svc := services.NewNewsService(newNewsCacheStub(), []string{feed.URL}, newNoopLogger())

	_, err := svc.List(context.Background())
	require.NoError(t, err)
	_, err = svc.List(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, calls, "second call must be served from cache")
}

func TestNewsService_List_NoFeeds(t *testing.T) {
	svc := services.NewNewsService(newNewsCacheStub(), nil, newNoopLogger())

	items, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.NotNil(t, items)
}
