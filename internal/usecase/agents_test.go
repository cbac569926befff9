package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"AntVillage/internal/domain/models"
	"AntVillage/pkg/logger"
)

func quotesContext() models.MarketContext {
	return models.MarketContext{
		Quotes: []models.TickerQuote{
			{Ticker: "AAPL", Price: ptr(180), PreviousClose: ptr(178), ChangePercent: ptr(1.12)},
		},
	}
}

func newsContext() models.MarketContext {
	return models.MarketContext{
		News: []models.NewsItem{{Title: "애플, 신제품 발표", Tickers: []string{"AAPL"}}},
	}
}

func TestStockAgentEmptyInputShortCircuits(t *testing.T) {
	gen := &stubGen{reply: "unused"}
	a := NewStockAgent(gen, nopMetrics{}, logger.NewNop())

	result := a.Analyze(context.Background(), models.MarketContext{}, nil, "개미", models.SlotMorning)
	require.Nil(t, result)
	require.Zero(t, gen.callCount())
}

func TestStockAgentParsesFencedReply(t *testing.T) {
	gen := &stubGen{reply: "```json\n{\"market_summary\":\"혼조세\",\"portfolio_performance\":\"+1.1%\",\"key_movers\":[\"AAPL\"],\"technical_insights\":\"저항선 근접\"}\n```"}
	a := NewStockAgent(gen, nopMetrics{}, logger.NewNop())

	result := a.Analyze(context.Background(), quotesContext(), nil, "개미", models.SlotMorning)
	require.NotNil(t, result)
	require.Equal(t, "혼조세", result.MarketSummary)
	require.Equal(t, []string{"AAPL"}, result.KeyMovers)
}

func TestStockAgentParsesReplyWithProse(t *testing.T) {
	gen := &stubGen{reply: "분석 결과입니다:\n{\"market_summary\":\"상승\"}\n참고해 주세요."}
	a := NewStockAgent(gen, nopMetrics{}, logger.NewNop())

	result := a.Analyze(context.Background(), quotesContext(), nil, "개미", models.SlotMorning)
	require.NotNil(t, result)
	require.Equal(t, "상승", result.MarketSummary)
}

func TestStockAgentNilOnGenerationError(t *testing.T) {
	gen := &stubGen{err: errors.New("provider down")}
	a := NewStockAgent(gen, nopMetrics{}, logger.NewNop())

	require.Nil(t, a.Analyze(context.Background(), quotesContext(), nil, "개미", models.SlotMorning))
}

func TestStockAgentNilOnMalformedReply(t *testing.T) {
	gen := &stubGen{reply: "JSON 없이 응답합니다."}
	a := NewStockAgent(gen, nopMetrics{}, logger.NewNop())

	require.Nil(t, a.Analyze(context.Background(), quotesContext(), nil, "개미", models.SlotMorning))
}

func TestNewsAgentEmptyInputShortCircuits(t *testing.T) {
	gen := &stubGen{reply: "unused"}
	a := NewNewsAgent(gen, nopMetrics{}, logger.NewNop())

	require.Nil(t, a.Analyze(context.Background(), models.MarketContext{}, nil, "개미", models.SlotMorning))
	require.Zero(t, gen.callCount())
}

func TestNewsAgentCapsKeyHeadlines(t *testing.T) {
	gen := &stubGen{reply: `{"market_sentiment":"중립","key_headlines":[{"title":"a"},{"title":"b"},{"title":"c"},{"title":"d"},{"title":"e"}]}`}
	a := NewNewsAgent(gen, nopMetrics{}, logger.NewNop())

	result := a.Analyze(context.Background(), newsContext(), nil, "개미", models.SlotEvening)
	require.NotNil(t, result)
	require.Len(t, result.KeyHeadlines, 3)
	require.Equal(t, "a", result.KeyHeadlines[0].Title)
}

func TestNewsAgentNilOnMalformedReply(t *testing.T) {
	gen := &stubGen{reply: "{broken"}
	a := NewNewsAgent(gen, nopMetrics{}, logger.NewNop())

	require.Nil(t, a.Analyze(context.Background(), newsContext(), nil, "개미", models.SlotEvening))
}
