package models

import "time"

// Holding is one position inside a village: quantity held and the
// average cost basis per unit, in the asset's native currency.
type Holding struct {
	AssetID     int64
	Quantity    float64
	AvgBuyPrice float64
}

// Asset is a catalog entry for a tradable instrument.
type Asset struct {
	AssetID     int64
	Symbol      string
	Name        string
	CountryCode string // "KR", "US"
	AssetType   string // "stock", "etf", "crypto"
}

// Village is a named grouping of held assets with a strategy label.
type Village struct {
	ID      int64
	UserID  int64
	Name    string
	Profile string // free-text strategy description, may be empty
}

// PricePoint is a stored latest price with its observation time.
type PricePoint struct {
	Price float64   `json:"price"`
	AsOf  time.Time `json:"as_of"`
}

// AssetReturn is one asset's contribution to the portfolio view.
type AssetReturn struct {
	Ticker          string   `json:"ticker"`
	Name            string   `json:"name,omitempty"`
	Quantity        float64  `json:"quantity"`
	AvgBuyPrice     float64  `json:"avg_buy_price"`
	CurrentPrice    *float64 `json:"current_price,omitempty"`
	Value           float64  `json:"value"`
	TotalReturnRate *float64 `json:"total_return_rate,omitempty"`
	DailyChangeRate *float64 `json:"daily_change_rate,omitempty"`
}

// RebalancingRecommendation is one actionable portfolio adjustment
// surfaced alongside the metrics.
type RebalancingRecommendation struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Solution    string `json:"solution"`
}

// PortfolioMetrics carries the per-run financial aggregates. Monetary
// totals are in KRW; Display fields are locale-formatted strings for
// presentation. FXRateKnown is false when totals were converted with a
// fallback exchange rate and should be treated as approximate.
// BucketValues groups asset value by investment style (leveraged,
// dividend, growth, region) and feeds the rebalancing recommendations.
type PortfolioMetrics struct {
	TotalValue         float64                     `json:"total_value"`
	TotalValueDisplay  string                      `json:"total_value_display"`
	TotalCost          float64                     `json:"total_cost"`
	TotalCostDisplay   string                      `json:"total_cost_display"`
	TotalProfit        float64                     `json:"total_profit"`
	TotalProfitDisplay string                      `json:"total_profit_display"`
	TotalReturnRate    float64                     `json:"total_return_rate"`
	DailyChangeRate    float64                     `json:"daily_change_rate"`
	FXRate             float64                     `json:"fx_rate"`
	FXRateKnown        bool                        `json:"fx_rate_known"`
	AssetReturns       []AssetReturn               `json:"asset_returns"`
	TopMovers          []AssetReturn               `json:"top_movers,omitempty"`
	BottomMovers       []AssetReturn               `json:"bottom_movers,omitempty"`
	BucketValues       map[string]float64          `json:"bucket_values,omitempty"`
	Rebalancing        []RebalancingRecommendation `json:"rebalancing_recommendations,omitempty"`
}
