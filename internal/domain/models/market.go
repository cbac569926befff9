package models

import "time"

// TickerQuote is one symbol's latest price view. Numeric fields are
// pointers: nil means the provider had no value, never zero.
type TickerQuote struct {
	Ticker        string   `json:"ticker"`
	Price         *float64 `json:"price,omitempty"`
	PreviousClose *float64 `json:"previous_close,omitempty"`
	ChangePercent *float64 `json:"change_percent,omitempty"`
	Currency      string   `json:"currency,omitempty"`
}

// HasPrice reports whether the quote carries a usable price.
func (q TickerQuote) HasPrice() bool {
	return q.Price != nil
}

// NewsItem is one headline attributed to the tickers it was fetched for.
// Title is the dedup key within a single aggregation run.
type NewsItem struct {
	Title       string     `json:"title"`
	Summary     string     `json:"summary,omitempty"`
	Source      string     `json:"source,omitempty"`
	Link        string     `json:"link,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	Tickers     []string   `json:"tickers,omitempty"`
}

// MarketContext is the snapshot one pipeline run works from. Immutable
// after aggregation; downstream stages read it, never refresh it.
type MarketContext struct {
	Quotes []TickerQuote `json:"quotes"`
	News   []NewsItem    `json:"news"`
}

// Empty reports whether the context carries no data at all.
func (c MarketContext) Empty() bool {
	return len(c.Quotes) == 0 && len(c.News) == 0
}

// QuoteByTicker returns the quote for a ticker, if present.
func (c MarketContext) QuoteByTicker(ticker string) (TickerQuote, bool) {
	for _, q := range c.Quotes {
		if q.Ticker == ticker {
			return q, true
		}
	}
	return TickerQuote{}, false
}
