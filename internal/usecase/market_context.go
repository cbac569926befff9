package usecase

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"AntVillage/internal/domain/models"
	"AntVillage/internal/domain/repository"
	"AntVillage/pkg/logger"
)

// ContextParams describes one aggregation run. Tickers must be
// deduplicated by the caller. PriceTickers, when set, is aligned
// index-wise with Tickers and carries provider-specific symbols (local
// market symbols may need a suffix rewrite). NameMap improves news
// search quality with display names.
type ContextParams struct {
	Tickers       []string
	PriceTickers  []string
	NameMap       map[string]string
	NewsPerTicker int
}

// MarketContextAggregator fans quote and news lookups out across all
// tickers of interest and merges the results into one snapshot. A
// per-ticker failure degrades to a bare quote or zero news items; it
// never aborts the batch.
type MarketContextAggregator struct {
	quotes      repository.QuoteProvider
	news        repository.NewsProvider
	metrics     repository.Metrics
	log         *logger.Logger
	maxParallel int
	callTimeout time.Duration
}

type AggregatorOption func(*MarketContextAggregator)

func WithMaxParallel(n int) AggregatorOption {
	return func(a *MarketContextAggregator) {
		if n > 0 {
			a.maxParallel = n
		}
	}
}

func WithCallTimeout(d time.Duration) AggregatorOption {
	return func(a *MarketContextAggregator) {
		if d > 0 {
			a.callTimeout = d
		}
	}
}

func NewMarketContextAggregator(
	quotes repository.QuoteProvider,
	news repository.NewsProvider,
	metrics repository.Metrics,
	log *logger.Logger,
	opts ...AggregatorOption,
) *MarketContextAggregator {
	a := &MarketContextAggregator{
		quotes:      quotes,
		news:        news,
		metrics:     metrics,
		log:         log,
		maxParallel: 8,
		callTimeout: 8 * time.Second,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Aggregate captures one MarketContext snapshot. An empty ticker list
// returns an empty context without touching the network. The total
// wall-clock time is bounded by the slowest lookup under the fan-out
// limit, not the sum of all lookups.
func (a *MarketContextAggregator) Aggregate(ctx context.Context, params ContextParams) models.MarketContext {
	if len(params.Tickers) == 0 {
		return models.MarketContext{}
	}

	start := time.Now()
	defer func() {
		a.metrics.RecordLatency("market_context", time.Since(start).Seconds())
	}()

	priceTickers := params.PriceTickers
	if len(priceTickers) != len(params.Tickers) {
		priceTickers = params.Tickers
	}

	quotes := make([]models.TickerQuote, len(params.Tickers))
	newsPerTicker := make([][]models.NewsItem, len(params.Tickers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.maxParallel)

	for i, ticker := range params.Tickers {
		i, ticker := i, ticker
		priceTicker := priceTickers[i]

		g.Go(func() error {
			quotes[i] = a.fetchQuote(gctx, ticker, priceTicker)
			return nil
		})

		if params.NewsPerTicker > 0 {
			g.Go(func() error {
				newsPerTicker[i] = a.fetchNews(gctx, ticker, params.NameMap[ticker], params.NewsPerTicker)
				return nil
			})
		}
	}
	_ = g.Wait() // workers never return errors, they degrade

	return models.MarketContext{
		Quotes: quotes,
		News:   dedupeNews(newsPerTicker),
	}
}

func (a *MarketContextAggregator) fetchQuote(ctx context.Context, ticker, priceTicker string) models.TickerQuote {
	cctx, cancel := context.WithTimeout(ctx, a.callTimeout)
	defer cancel()

	quote, err := a.quotes.FetchQuote(cctx, priceTicker)
	if err != nil {
		a.metrics.RecordError("quote_fetch")
		a.log.Warn("quote fetch failed",
			logger.String("ticker", ticker),
			logger.Error(err))
		return models.TickerQuote{Ticker: ticker}
	}
	quote.Ticker = ticker
	if quote.Price != nil {
		a.metrics.RecordLastPrice(ticker, *quote.Price)
	}
	return quote
}

func (a *MarketContextAggregator) fetchNews(ctx context.Context, ticker, displayName string, limit int) []models.NewsItem {
	cctx, cancel := context.WithTimeout(ctx, a.callTimeout)
	defer cancel()

	query := ticker
	if displayName != "" {
		query = displayName
	}

	items, err := a.news.FetchNews(cctx, query, limit)
	if err != nil {
		a.metrics.RecordError("news_fetch")
		a.log.Warn("news fetch failed",
			logger.String("ticker", ticker),
			logger.Error(err))
		return nil
	}
	for i := range items {
		items[i].Tickers = []string{ticker}
	}
	return items
}

// dedupeNews merges per-ticker news in ticker order, dropping items
// whose exact title was already seen. A repeated title keeps the first
// item but accumulates the later tickers it was found for.
func dedupeNews(perTicker [][]models.NewsItem) []models.NewsItem {
	var merged []models.NewsItem
	seen := make(map[string]int)
	for _, items := range perTicker {
		for _, item := range items {
			if idx, ok := seen[item.Title]; ok {
				merged[idx].Tickers = append(merged[idx].Tickers, item.Tickers...)
				continue
			}
			seen[item.Title] = len(merged)
			merged = append(merged, item)
		}
	}
	return merged
}
