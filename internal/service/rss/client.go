package rss

import (
	"context"
	"encoding/xml"
	"fmt"
	"regexp"
	"strings"
	"time"

	"AntVillage/internal/domain/models"
	"AntVillage/internal/service/cache"
	"AntVillage/internal/service/ratelimit"
	xhttp "AntVillage/pkg/http"
	"AntVillage/pkg/logger"
)

const maxSummaryLen = 500

var tagPattern = regexp.MustCompile(`<[^>]+>`)

// Client fetches headlines from a Google News style RSS search feed.
// Feed responses are cached so repeated aggregations within the TTL do
// not hit the provider, and outbound calls go through a token bucket.
type Client struct {
	feedURL  string
	cacheTTL time.Duration
	ratePerS float64
	http     *xhttp.Client
	cache    cache.BytesCache
	limiter  *ratelimit.Limiter
	log      *logger.Logger
}

type Option func(*Client)

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.http = xhttp.NewClient(xhttp.WithTimeout(timeout))
	}
}

func WithCache(bc cache.BytesCache, ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = bc
		c.cacheTTL = ttl
	}
}

func WithRateLimit(perSecond float64) Option {
	return func(c *Client) {
		c.ratePerS = perSecond
	}
}

func WithLogger(log *logger.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

func New(feedURL string, opts ...Option) *Client {
	c := &Client{
		feedURL:  feedURL,
		cacheTTL: 10 * time.Minute,
		ratePerS: 5,
		http:     xhttp.NewClient(xhttp.WithTimeout(8 * time.Second)),
		cache:    cache.NewTTLCache(),
		limiter:  ratelimit.New(),
		log:      logger.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type feed struct {
	Channel struct {
		Items []item `xml:"item"`
	} `xml:"channel"`
}

type item struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
	Source      string `xml:"source"`
}

// FetchNews returns up to limit recent items for a search query.
func (c *Client) FetchNews(ctx context.Context, query string, limit int) ([]models.NewsItem, error) {
	if limit <= 0 {
		return nil, nil
	}

	body, err := c.fetchFeed(ctx, query)
	if err != nil {
		return nil, err
	}

	var f feed
	if err := xml.Unmarshal(body, &f); err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	items := f.Channel.Items
	if len(items) > limit {
		items = items[:limit]
	}

	news := make([]models.NewsItem, 0, len(items))
	for _, it := range items {
		n := models.NewsItem{
			Title:   strings.TrimSpace(it.Title),
			Summary: cleanSummary(it.Description),
			Source:  strings.TrimSpace(it.Source),
			Link:    strings.TrimSpace(it.Link),
		}
		if n.Title == "" {
			continue
		}
		if t, err := parsePubDate(it.PubDate); err == nil {
			n.PublishedAt = &t
		}
		news = append(news, n)
	}
	return news, nil
}

func (c *Client) fetchFeed(ctx context.Context, query string) ([]byte, error) {
	key := "rss:" + query
	if b, ok, _ := c.cache.GetBytes(key); ok {
		return b, nil
	}

	if !c.limiter.Allow("feed", c.ratePerS*2, c.ratePerS) {
		return nil, fmt.Errorf("feed rate limit exceeded")
	}

	var body []byte
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.feedURL,
		QueryParams: map[string][]string{
			"q":    {query},
			"hl":   {"ko"},
			"gl":   {"KR"},
			"ceid": {"KR:ko"},
		},
	}, &body)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}

	if err := c.cache.SetBytes(key, body, c.cacheTTL); err != nil {
		c.log.Warn("feed cache write failed", logger.Error(err))
	}
	return body, nil
}

func cleanSummary(s string) string {
	s = tagPattern.ReplaceAllString(s, " ")
	s = strings.Join(strings.Fields(s), " ")
	if r := []rune(s); len(r) > maxSummaryLen {
		s = string(r[:maxSummaryLen])
	}
	return s
}

func parsePubDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty pubDate")
	}
	for _, layout := range []string{time.RFC1123Z, time.RFC1123, time.RFC822Z, time.RFC822} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized pubDate %q", s)
}
