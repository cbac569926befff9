package usecase

import (
	"fmt"
	"sort"
	"strings"

	"AntVillage/internal/domain/models"
)

const maxMovers = 5

// ComputeMetrics derives the per-asset and portfolio-level financial
// aggregates from one run's market context, the asset catalog and the
// stored latest prices. Quotes take precedence; the stored price is the
// fallback when a live quote is missing. Non-KRW asset values are
// converted at fxRate; fxKnown is carried through so presentation can
// flag approximate totals.
func ComputeMetrics(
	holdings []models.Holding,
	assets map[int64]models.Asset,
	mc models.MarketContext,
	stored map[int64]models.PricePoint,
	fxRate float64,
	fxKnown bool,
) models.PortfolioMetrics {
	var (
		totalValue  float64
		totalCost   float64
		weightedSum float64
		weightBase  float64
		returns     []models.AssetReturn
	)
	buckets := make(map[string]float64)

	for _, h := range holdings {
		asset, ok := assets[h.AssetID]
		if !ok {
			continue
		}

		ar := models.AssetReturn{
			Ticker:      asset.Symbol,
			Name:        asset.Name,
			Quantity:    h.Quantity,
			AvgBuyPrice: h.AvgBuyPrice,
		}

		price, daily := resolvePrice(asset.Symbol, h.AssetID, mc, stored)
		fx := 1.0
		if asset.CountryCode != "" && asset.CountryCode != "KR" {
			fx = fxRate
		}

		cost := h.Quantity * h.AvgBuyPrice * fx
		totalCost += cost

		if price != nil {
			p := *price
			ar.CurrentPrice = &p
			ar.Value = h.Quantity * p * fx
			totalValue += ar.Value

			if h.AvgBuyPrice > 0 {
				rate := (p - h.AvgBuyPrice) / h.AvgBuyPrice * 100
				ar.TotalReturnRate = &rate
			}
			if daily != nil {
				d := *daily
				ar.DailyChangeRate = &d
				weightedSum += ar.Value * d
				weightBase += ar.Value
			}
		} else {
			// No price anywhere; the position is carried at cost.
			ar.Value = cost
			totalValue += cost
		}

		for _, key := range classifyBuckets(asset) {
			buckets[key] += ar.Value
		}
		returns = append(returns, ar)
	}

	m := models.PortfolioMetrics{
		TotalValue:   totalValue,
		TotalCost:    totalCost,
		TotalProfit:  totalValue - totalCost,
		FXRate:       fxRate,
		FXRateKnown:  fxKnown,
		AssetReturns: returns,
	}
	if totalCost > 0 {
		m.TotalReturnRate = (totalValue - totalCost) / totalCost * 100
	}
	if weightBase > 0 {
		m.DailyChangeRate = weightedSum / weightBase
	}

	m.TotalValueDisplay = models.FormatKRW(m.TotalValue)
	m.TotalCostDisplay = models.FormatKRW(m.TotalCost)
	m.TotalProfitDisplay = models.FormatKRW(m.TotalProfit)
	m.TopMovers, m.BottomMovers = rankMovers(returns)
	if len(buckets) > 0 {
		m.BucketValues = buckets
	}
	m.Rebalancing = buildRebalancing(rebalancingKeys(m.TotalReturnRate, buckets), returns, buckets, totalValue)
	return m
}

// classifyBuckets maps an asset into the style buckets used for the
// asset-type distribution and rebalancing heuristics. An asset may
// belong to several buckets; one with no match falls into "other".
func classifyBuckets(asset models.Asset) []string {
	var keys []string
	name := strings.ToLower(asset.Name)
	symbol := strings.ToUpper(asset.Symbol)

	if strings.EqualFold(asset.AssetType, "etf") {
		switch {
		case strings.Contains(name, "레버리지") || strings.Contains(name, "lever") ||
			symbol == "TQQQ" || symbol == "UPRO" || symbol == "SOXL":
			keys = append(keys, "leveraged_etf")
		case strings.Contains(name, "배당") || symbol == "SCHD" || symbol == "VYM" || symbol == "HDV":
			keys = append(keys, "dividend_etf")
		case strings.Contains(name, "나스닥") || strings.Contains(name, "nasdaq"):
			keys = append(keys, "growth_etf")
		default:
			keys = append(keys, "etf")
		}
	}
	if strings.EqualFold(asset.AssetType, "stock") {
		if asset.CountryCode == "US" {
			keys = append(keys, "us_stocks")
		}
		if asset.CountryCode == "KR" {
			keys = append(keys, "kr_stocks")
		}
	}
	for _, kw := range []string{"테크", "반도체", "tech", "ai"} {
		if strings.Contains(name, kw) {
			keys = append(keys, "tech")
			break
		}
	}
	if strings.Contains(name, "성장") || strings.Contains(name, "growth") {
		keys = append(keys, "growth")
	}
	if len(keys) == 0 {
		keys = append(keys, "other")
	}
	return keys
}

// rebalancingKeys decides which recommendations apply: a leveraged
// position asks for risk balancing, a losing portfolio for return
// improvement, and a missing dividend bucket for defensive exposure.
func rebalancingKeys(totalReturnRate float64, buckets map[string]float64) []string {
	var keys []string
	if buckets["leveraged_etf"] > 0 {
		keys = append(keys, "risk_balance")
	}
	if totalReturnRate < 0 {
		keys = append(keys, "improve_return")
	}
	if buckets["dividend_etf"] == 0 {
		keys = append(keys, "strengthen_dividend")
	}
	if len(keys) == 0 {
		keys = append(keys, "risk_balance")
	}
	return keys
}

// buildRebalancing turns the selected keys into concrete Korean
// recommendations, anchored on the heaviest and worst-performing
// positions of this portfolio.
func buildRebalancing(keys []string, returns []models.AssetReturn, buckets map[string]float64, totalValue float64) []models.RebalancingRecommendation {
	var topName string
	var topValue float64
	worstName := "특정 종목"
	var worstRate float64
	worstSeen := false
	for _, ar := range returns {
		if ar.Value > topValue {
			topValue = ar.Value
			topName = assetLabel(ar)
		}
		if ar.TotalReturnRate != nil && (!worstSeen || *ar.TotalReturnRate < worstRate) {
			worstRate = *ar.TotalReturnRate
			worstName = assetLabel(ar)
			worstSeen = true
		}
	}
	if topName == "" {
		topName = "특정 종목"
	}

	recos := make([]models.RebalancingRecommendation, 0, len(keys))
	for _, key := range keys {
		switch key {
		case "risk_balance":
			pct := 0.0
			if totalValue > 0 {
				pct = topValue / totalValue * 100
			}
			recos = append(recos, models.RebalancingRecommendation{
				ID:          "risk_balance",
				Title:       "포트폴리오 균형 조정",
				Description: fmt.Sprintf("%s의 비중이 %.1f%%로 높습니다. 다른 종목으로 일부 분산하여 리스크를 줄이는 것을 추천합니다.", topName, pct),
				Solution:    "분산 투자 고려",
			})
		case "improve_return":
			recos = append(recos, models.RebalancingRecommendation{
				ID:          "improve_return",
				Title:       "수익률 개선 기회",
				Description: fmt.Sprintf("%s이(가) %.1f%% 수준입니다. 시장 상황을 고려해 비중 조정이 필요할 수 있습니다.", worstName, worstRate),
				Solution:    "비중 조정 점검",
			})
		case "strengthen_dividend":
			pct := 0.0
			if totalValue > 0 {
				pct = buckets["dividend_etf"] / totalValue * 100
			}
			recos = append(recos, models.RebalancingRecommendation{
				ID:          "strengthen_dividend",
				Title:       "배당 수익 강화",
				Description: fmt.Sprintf("배당/방어 비중이 %.1f%%로 낮습니다. 안정적인 현금 흐름을 위해 배당 비중을 늘리는 것을 고려해보세요.", pct),
				Solution:    "배당 비중 확대",
			})
		default:
			recos = append(recos, models.RebalancingRecommendation{
				ID:          key,
				Title:       "리밸런싱 점검",
				Description: "포트폴리오 구성을 점검해 리스크를 관리하세요.",
				Solution:    "구성 점검",
			})
		}
	}
	return recos
}

func assetLabel(ar models.AssetReturn) string {
	if ar.Name != "" {
		return ar.Name
	}
	return ar.Ticker
}

// resolvePrice picks the live quote when it has a price, otherwise the
// stored latest price. The second return value is the daily change
// percent, only available from a live quote.
func resolvePrice(symbol string, assetID int64, mc models.MarketContext, stored map[int64]models.PricePoint) (*float64, *float64) {
	if q, ok := mc.QuoteByTicker(symbol); ok && q.Price != nil {
		return q.Price, q.ChangePercent
	}
	if pp, ok := stored[assetID]; ok && pp.Price > 0 {
		p := pp.Price
		return &p, nil
	}
	return nil, nil
}

// rankMovers returns the top and bottom daily movers, at most five
// each, considering only assets with a known daily change.
func rankMovers(returns []models.AssetReturn) ([]models.AssetReturn, []models.AssetReturn) {
	var movers []models.AssetReturn
	for _, ar := range returns {
		if ar.DailyChangeRate != nil {
			movers = append(movers, ar)
		}
	}
	if len(movers) == 0 {
		return nil, nil
	}

	sort.SliceStable(movers, func(i, j int) bool {
		return *movers[i].DailyChangeRate > *movers[j].DailyChangeRate
	})

	top := movers
	if len(top) > maxMovers {
		top = top[:maxMovers]
	}
	topCopy := append([]models.AssetReturn(nil), top...)

	bottom := movers
	if len(bottom) > maxMovers {
		bottom = bottom[len(bottom)-maxMovers:]
	}
	bottomCopy := make([]models.AssetReturn, 0, len(bottom))
	for i := len(bottom) - 1; i >= 0; i-- {
		bottomCopy = append(bottomCopy, bottom[i])
	}
	return topCopy, bottomCopy
}
