package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"AntVillage/internal/domain/models"
	"AntVillage/pkg/logger"
)

func TestAggregateEmptyTickersSkipsNetwork(t *testing.T) {
	quotes := &fakeQuotes{}
	news := &fakeNews{}
	a := NewMarketContextAggregator(quotes, news, nopMetrics{}, logger.NewNop())

	mc := a.Aggregate(context.Background(), ContextParams{NewsPerTicker: 3})
	require.True(t, mc.Empty())
	require.Zero(t, quotes.callCount())
	require.Zero(t, news.callCount())
}

func TestAggregateDegradesFailedQuote(t *testing.T) {
	quotes := &fakeQuotes{
		quotes: map[string]models.TickerQuote{
			"AAPL": {Price: ptr(180), ChangePercent: ptr(1.12)},
		},
		fails: map[string]bool{"TSLA": true},
	}
	news := &fakeNews{}
	a := NewMarketContextAggregator(quotes, news, nopMetrics{}, logger.NewNop())

	mc := a.Aggregate(context.Background(), ContextParams{Tickers: []string{"AAPL", "TSLA"}})
	require.Len(t, mc.Quotes, 2)

	apple, ok := mc.QuoteByTicker("AAPL")
	require.True(t, ok)
	require.True(t, apple.HasPrice())

	tesla, ok := mc.QuoteByTicker("TSLA")
	require.True(t, ok)
	require.False(t, tesla.HasPrice())
}

func TestAggregateUsesPriceTickers(t *testing.T) {
	quotes := &fakeQuotes{
		quotes: map[string]models.TickerQuote{
			"005930.KS": {Price: ptr(71000)},
		},
	}
	a := NewMarketContextAggregator(quotes, &fakeNews{}, nopMetrics{}, logger.NewNop())

	mc := a.Aggregate(context.Background(), ContextParams{
		Tickers:      []string{"005930"},
		PriceTickers: []string{"005930.KS"},
	})

	// The quote is requested with the provider symbol but reported under
	// the catalog ticker.
	q, ok := mc.QuoteByTicker("005930")
	require.True(t, ok)
	require.True(t, q.HasPrice())
}

func TestAggregateSearchesByDisplayName(t *testing.T) {
	news := &fakeNews{
		items: map[string][]models.NewsItem{
			"삼성전자": {{Title: "삼성전자 실적 발표"}},
		},
	}
	a := NewMarketContextAggregator(&fakeQuotes{}, news, nopMetrics{}, logger.NewNop())

	mc := a.Aggregate(context.Background(), ContextParams{
		Tickers:       []string{"005930"},
		NameMap:       map[string]string{"005930": "삼성전자"},
		NewsPerTicker: 3,
	})

	require.Len(t, mc.News, 1)
	require.Equal(t, []string{"005930"}, mc.News[0].Tickers)
}

func TestAggregateDedupesSharedHeadlines(t *testing.T) {
	shared := models.NewsItem{Title: "반도체 업황 개선 기대"}
	news := &fakeNews{
		items: map[string][]models.NewsItem{
			"AAA": {shared, {Title: "AAA 단독 기사"}},
			"BBB": {shared},
		},
	}
	a := NewMarketContextAggregator(&fakeQuotes{}, news, nopMetrics{}, logger.NewNop())

	mc := a.Aggregate(context.Background(), ContextParams{
		Tickers:       []string{"AAA", "BBB"},
		NewsPerTicker: 5,
	})

	require.Len(t, mc.News, 2)
	require.Equal(t, "반도체 업황 개선 기대", mc.News[0].Title)
	require.ElementsMatch(t, []string{"AAA", "BBB"}, mc.News[0].Tickers)
	require.Equal(t, "AAA 단독 기사", mc.News[1].Title)
}

func TestAggregateSkipsNewsWhenDisabled(t *testing.T) {
	news := &fakeNews{items: map[string][]models.NewsItem{"AAPL": {{Title: "x"}}}}
	a := NewMarketContextAggregator(&fakeQuotes{}, news, nopMetrics{}, logger.NewNop())

	mc := a.Aggregate(context.Background(), ContextParams{Tickers: []string{"AAPL"}})
	require.Empty(t, mc.News)
	require.Zero(t, news.callCount())
}
