// Package newsapi is a one-shot client for the external news feed. Results
// are best-effort: callers cap or window them, and failures are swallowed
// upstream. Responses are cached briefly in redis to spare the quota.
package newsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"time"

	"codeshareforum/internal/entity"
	"codeshareforum/pkg/config"
	"codeshareforum/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// RecencyWindow bounds the full news screen. It is a separate constant from
// the 24h hot window and deliberately not unified with it.
const RecencyWindow = 48 * time.Hour

const (
	cacheTTL = 5 * time.Minute
	// pubDateLayout is the timestamp format the feed reports.
	pubDateLayout = "2006-01-02 15:04:05"
)

type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	locale     string
	cache      *redis.Client
	logger     *logger.Logger
}

// NewClient builds a news client. cache may be nil to disable caching.
func NewClient(cfg *config.Config, cache *redis.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    cfg.NewsBaseURL,
		apiKey:     cfg.NewsAPIKey,
		locale:     cfg.NewsLocale,
		cache:      cache,
		logger:     log,
	}
}

type articleDoc struct {
	ArticleID   string `json:"article_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Link        string `json:"link"`
	ImageURL    string `json:"image_url"`
	PubDate     string `json:"pubDate"`
	SourceID    string `json:"source_id"`
}

type feedResponse struct {
	Results []articleDoc `json:"results"`
}

// FetchLatest returns the feed's recent articles for the configured locale.
func (c *Client) FetchLatest(ctx context.Context) ([]*entity.NewsArticle, error) {
	cacheKey := "news:" + c.locale

	if c.cache != nil {
		if cached, err := c.cache.Get(ctx, cacheKey).Result(); err == nil {
			var articles []*entity.NewsArticle
			if json.Unmarshal([]byte(cached), &articles) == nil {
				return articles, nil
			}
		}
	}

	u := fmt.Sprintf("%s?apikey=%s&language=%s", c.baseURL, url.QueryEscape(c.apiKey), url.QueryEscape(c.locale))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build news request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch news: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("news feed returned status %d", resp.StatusCode)
	}

	var body feedResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode news response: %w", err)
	}

	articles := make([]*entity.NewsArticle, 0, len(body.Results))
	for _, d := range body.Results {
		articles = append(articles, toArticle(d))
	}

	if c.cache != nil {
		if encoded, err := json.Marshal(articles); err == nil {
			if err := c.cache.Set(ctx, cacheKey, encoded, cacheTTL).Err(); err != nil {
				c.logger.Warn("news cache write failed: %v", err)
			}
		}
	}

	return articles, nil
}

func toArticle(d articleDoc) *entity.NewsArticle {
	a := &entity.NewsArticle{
		ID:          d.ArticleID,
		Title:       d.Title,
		Description: d.Description,
		Link:        d.Link,
		ImageURL:    d.ImageURL,
		SourceID:    d.SourceID,
	}
	if d.PubDate != "" {
		if t, err := time.Parse(pubDateLayout, d.PubDate); err == nil {
			a.PublishedAt = t
		}
	}
	return a
}

// FilterRecent keeps articles published within the recency window of now,
// newest first. Articles with no publish time are dropped.
func FilterRecent(articles []*entity.NewsArticle, now time.Time) []*entity.NewsArticle {
	cutoff := now.Add(-RecencyWindow)

	var out []*entity.NewsArticle
	for _, a := range articles {
		if a.PublishedAt.IsZero() || a.PublishedAt.Before(cutoff) {
			continue
		}
		out = append(out, a)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PublishedAt.After(out[j].PublishedAt)
	})
	return out
}
