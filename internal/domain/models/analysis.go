package models

// StockAnalysis is the stock agent's structured reply. JSON keys follow
// the agent prompt contract. A nil *StockAnalysis means the analysis was
// unavailable (empty input, call failure, malformed reply).
type StockAnalysis struct {
	MarketSummary        string   `json:"market_summary"`
	PortfolioPerformance string   `json:"portfolio_performance"`
	KeyMovers            []string `json:"key_movers"`
	TechnicalInsights    string   `json:"technical_insights"`
}

// Headline is one condensed news item inside a NewsAnalysis.
type Headline struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

// NewsAnalysis is the news agent's structured reply. KeyHeadlines is
// capped at three entries by the agent.
type NewsAnalysis struct {
	MarketSentiment string            `json:"market_sentiment"`
	KeyHeadlines    []Headline        `json:"key_headlines"`
	TickerSpecific  map[string]string `json:"ticker_specific"`
	RiskAlerts      []string          `json:"risk_alerts"`
}
