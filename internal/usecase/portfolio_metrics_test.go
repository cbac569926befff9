package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"AntVillage/internal/domain/models"
)

func TestComputeMetricsQuotePrecedence(t *testing.T) {
	holdings := []models.Holding{{AssetID: 1, Quantity: 10, AvgBuyPrice: 150}}
	assets := map[int64]models.Asset{
		1: {AssetID: 1, Symbol: "005930", Name: "삼성전자", CountryCode: "KR"},
	}
	mc := models.MarketContext{Quotes: []models.TickerQuote{
		{Ticker: "005930", Price: ptr(180), ChangePercent: ptr(1.12)},
	}}
	stored := map[int64]models.PricePoint{1: {Price: 170, AsOf: time.Now()}}

	m := ComputeMetrics(holdings, assets, mc, stored, 1300, true)

	require.InDelta(t, 1800, m.TotalValue, 1e-9)
	require.InDelta(t, 1500, m.TotalCost, 1e-9)
	require.InDelta(t, 300, m.TotalProfit, 1e-9)
	require.InDelta(t, 20, m.TotalReturnRate, 1e-9)
	require.InDelta(t, 1.12, m.DailyChangeRate, 1e-9)
	require.Equal(t, "1,800원", m.TotalValueDisplay)
	require.True(t, m.FXRateKnown)

	require.Len(t, m.AssetReturns, 1)
	ar := m.AssetReturns[0]
	require.NotNil(t, ar.CurrentPrice)
	require.InDelta(t, 180, *ar.CurrentPrice, 1e-9)
	require.NotNil(t, ar.TotalReturnRate)
	require.InDelta(t, 20, *ar.TotalReturnRate, 1e-9)
}

func TestComputeMetricsStoredPriceFallback(t *testing.T) {
	holdings := []models.Holding{{AssetID: 1, Quantity: 2, AvgBuyPrice: 100}}
	assets := map[int64]models.Asset{1: {AssetID: 1, Symbol: "KAKAO", CountryCode: "KR"}}
	stored := map[int64]models.PricePoint{1: {Price: 120}}

	m := ComputeMetrics(holdings, assets, models.MarketContext{}, stored, 1300, true)

	require.InDelta(t, 240, m.TotalValue, 1e-9)
	require.Len(t, m.AssetReturns, 1)
	require.Nil(t, m.AssetReturns[0].DailyChangeRate) // stored price has no daily change
	require.Zero(t, m.DailyChangeRate)
}

func TestComputeMetricsNoPriceCarriesAtCost(t *testing.T) {
	holdings := []models.Holding{{AssetID: 1, Quantity: 5, AvgBuyPrice: 40}}
	assets := map[int64]models.Asset{1: {AssetID: 1, Symbol: "XYZ", CountryCode: "KR"}}

	m := ComputeMetrics(holdings, assets, models.MarketContext{}, nil, 1300, true)

	require.InDelta(t, 200, m.TotalValue, 1e-9)
	require.InDelta(t, 200, m.TotalCost, 1e-9)
	require.Zero(t, m.TotalReturnRate)
	require.Nil(t, m.AssetReturns[0].CurrentPrice)
}

func TestComputeMetricsAppliesFXToForeignAssets(t *testing.T) {
	holdings := []models.Holding{{AssetID: 1, Quantity: 10, AvgBuyPrice: 150}}
	assets := map[int64]models.Asset{1: {AssetID: 1, Symbol: "AAPL", CountryCode: "US"}}
	mc := models.MarketContext{Quotes: []models.TickerQuote{{Ticker: "AAPL", Price: ptr(180)}}}

	m := ComputeMetrics(holdings, assets, mc, nil, 1300, false)

	require.InDelta(t, 10*180*1300, m.TotalValue, 1e-6)
	require.InDelta(t, 10*150*1300, m.TotalCost, 1e-6)
	require.InDelta(t, 20, m.TotalReturnRate, 1e-9)
	require.False(t, m.FXRateKnown)
}

func TestComputeMetricsSkipsUnknownAssets(t *testing.T) {
	holdings := []models.Holding{{AssetID: 99, Quantity: 1, AvgBuyPrice: 10}}
	m := ComputeMetrics(holdings, map[int64]models.Asset{}, models.MarketContext{}, nil, 1, true)
	require.Empty(t, m.AssetReturns)
	require.Zero(t, m.TotalValue)
}

func TestRankMovers(t *testing.T) {
	mk := func(ticker string, change float64) models.AssetReturn {
		return models.AssetReturn{Ticker: ticker, DailyChangeRate: ptr(change)}
	}
	returns := []models.AssetReturn{
		mk("A", 1.0), mk("B", -2.5), mk("C", 4.2),
		{Ticker: "D"}, // no daily change, excluded
	}

	top, bottom := rankMovers(returns)
	require.Equal(t, "C", top[0].Ticker)
	require.Equal(t, "B", bottom[0].Ticker)
	require.Len(t, top, 3)
	require.Len(t, bottom, 3)
}

func TestClassifyBuckets(t *testing.T) {
	cases := []struct {
		asset models.Asset
		want  []string
	}{
		{models.Asset{Symbol: "TQQQ", Name: "ProShares UltraPro QQQ", AssetType: "etf"}, []string{"leveraged_etf"}},
		{models.Asset{Symbol: "466920", Name: "KODEX 나스닥100 레버리지", AssetType: "etf"}, []string{"leveraged_etf"}},
		{models.Asset{Symbol: "SCHD", Name: "Schwab US Dividend Equity", AssetType: "etf"}, []string{"dividend_etf"}},
		{models.Asset{Symbol: "379800", Name: "KODEX 미국나스닥100", AssetType: "etf"}, []string{"growth_etf"}},
		{models.Asset{Symbol: "069500", Name: "KODEX 200", AssetType: "etf"}, []string{"etf"}},
		{models.Asset{Symbol: "AAPL", Name: "Apple", CountryCode: "US", AssetType: "stock"}, []string{"us_stocks"}},
		{models.Asset{Symbol: "005930", Name: "삼성전자 반도체", CountryCode: "KR", AssetType: "stock"}, []string{"kr_stocks", "tech"}},
		{models.Asset{Symbol: "373220", Name: "LG에너지솔루션 성장", CountryCode: "KR", AssetType: "stock"}, []string{"kr_stocks", "growth"}},
		{models.Asset{Symbol: "BTC", Name: "Bitcoin", AssetType: "crypto"}, []string{"other"}},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, classifyBuckets(tc.asset), "asset %s", tc.asset.Symbol)
	}
}

func TestComputeMetricsBucketValues(t *testing.T) {
	holdings := []models.Holding{
		{AssetID: 1, Quantity: 10, AvgBuyPrice: 100},
		{AssetID: 2, Quantity: 5, AvgBuyPrice: 50},
	}
	assets := map[int64]models.Asset{
		1: {AssetID: 1, Symbol: "TQQQ", Name: "UltraPro QQQ", CountryCode: "US", AssetType: "etf"},
		2: {AssetID: 2, Symbol: "SCHD", Name: "Dividend Equity", CountryCode: "US", AssetType: "etf"},
	}
	mc := models.MarketContext{Quotes: []models.TickerQuote{
		{Ticker: "TQQQ", Price: ptr(100)},
		{Ticker: "SCHD", Price: ptr(50)},
	}}

	m := ComputeMetrics(holdings, assets, mc, nil, 1, true)

	require.InDelta(t, 1000, m.BucketValues["leveraged_etf"], 1e-9)
	require.InDelta(t, 250, m.BucketValues["dividend_etf"], 1e-9)
}

func TestRebalancingKeys(t *testing.T) {
	keys := rebalancingKeys(-3.2, map[string]float64{"leveraged_etf": 500})
	require.Equal(t, []string{"risk_balance", "improve_return", "strengthen_dividend"}, keys)

	// Healthy portfolio with dividend exposure still gets a balance check.
	keys = rebalancingKeys(5.0, map[string]float64{"dividend_etf": 300})
	require.Equal(t, []string{"risk_balance"}, keys)
}

func TestComputeMetricsRebalancingRecommendations(t *testing.T) {
	holdings := []models.Holding{
		{AssetID: 1, Quantity: 10, AvgBuyPrice: 100}, // leveraged, losing
		{AssetID: 2, Quantity: 1, AvgBuyPrice: 50},
	}
	assets := map[int64]models.Asset{
		1: {AssetID: 1, Symbol: "TQQQ", Name: "UltraPro QQQ", CountryCode: "US", AssetType: "etf"},
		2: {AssetID: 2, Symbol: "AAPL", Name: "Apple", CountryCode: "US", AssetType: "stock"},
	}
	mc := models.MarketContext{Quotes: []models.TickerQuote{
		{Ticker: "TQQQ", Price: ptr(80)},
		{Ticker: "AAPL", Price: ptr(60)},
	}}

	m := ComputeMetrics(holdings, assets, mc, nil, 1, true)

	ids := make([]string, 0, len(m.Rebalancing))
	for _, r := range m.Rebalancing {
		ids = append(ids, r.ID)
	}
	require.Equal(t, []string{"risk_balance", "improve_return", "strengthen_dividend"}, ids)

	// The heaviest position anchors the risk recommendation, the worst
	// performer the return one.
	require.Contains(t, m.Rebalancing[0].Description, "UltraPro QQQ")
	require.Contains(t, m.Rebalancing[0].Description, "93.0%")
	require.Contains(t, m.Rebalancing[1].Description, "UltraPro QQQ")
	require.Contains(t, m.Rebalancing[1].Description, "-20.0%")
	require.Contains(t, m.Rebalancing[2].Description, "0.0%")
}

func TestComputeMetricsRebalancingDefaultKey(t *testing.T) {
	holdings := []models.Holding{{AssetID: 1, Quantity: 2, AvgBuyPrice: 100}}
	assets := map[int64]models.Asset{
		1: {AssetID: 1, Symbol: "SCHD", Name: "Dividend Equity", CountryCode: "US", AssetType: "etf"},
	}
	mc := models.MarketContext{Quotes: []models.TickerQuote{{Ticker: "SCHD", Price: ptr(110)}}}

	m := ComputeMetrics(holdings, assets, mc, nil, 1, true)

	require.Len(t, m.Rebalancing, 1)
	require.Equal(t, "risk_balance", m.Rebalancing[0].ID)
	require.Contains(t, m.Rebalancing[0].Description, "Dividend Equity")
}

func TestFormatKRW(t *testing.T) {
	require.Equal(t, "1,234,568원", models.FormatKRW(1234567.8))
	require.Equal(t, "0원", models.FormatKRW(0))
	require.Equal(t, "-12,000원", models.FormatKRW(-12000))
}
