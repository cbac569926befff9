package yahoo

import (
	"context"
	"fmt"
	"time"

	"AntVillage/internal/domain/models"
	xhttp "AntVillage/pkg/http"
)

// Client resolves quotes from the Yahoo Finance v8 chart endpoint.
type Client struct {
	baseURL string
	http    *xhttp.Client
}

type Option func(*Client)

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.http = xhttp.NewClient(xhttp.WithTimeout(timeout))
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    xhttp.NewClient(xhttp.WithTimeout(8 * time.Second)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency           string   `json:"currency"`
				Symbol             string   `json:"symbol"`
				RegularMarketPrice *float64 `json:"regularMarketPrice"`
				PreviousClose      *float64 `json:"previousClose"`
				ChartPreviousClose *float64 `json:"chartPreviousClose"`
			} `json:"meta"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// FetchQuote resolves one symbol's latest price, prior close and
// percent change. Errors are returned as-is; the aggregator degrades.
func (c *Client) FetchQuote(ctx context.Context, symbol string) (models.TickerQuote, error) {
	var resp chartResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    fmt.Sprintf("%s/v8/finance/chart/%s", c.baseURL, symbol),
		QueryParams: map[string][]string{
			"range":    {"5d"},
			"interval": {"1d"},
		},
		Headers: map[string]string{
			"User-Agent": "Mozilla/5.0 (compatible; antvillage/1.0)",
		},
	}, &resp)
	if err != nil {
		return models.TickerQuote{}, fmt.Errorf("chart %s: %w", symbol, err)
	}
	if resp.Chart.Error != nil {
		return models.TickerQuote{}, fmt.Errorf("chart %s: %s (%s)",
			symbol, resp.Chart.Error.Description, resp.Chart.Error.Code)
	}
	if len(resp.Chart.Result) == 0 {
		return models.TickerQuote{}, fmt.Errorf("chart %s: empty result", symbol)
	}

	meta := resp.Chart.Result[0].Meta
	quote := models.TickerQuote{
		Ticker:   symbol,
		Currency: meta.Currency,
		Price:    meta.RegularMarketPrice,
	}

	prev := meta.PreviousClose
	if prev == nil {
		prev = meta.ChartPreviousClose
	}
	quote.PreviousClose = prev

	if quote.Price != nil && prev != nil && *prev != 0 {
		change := (*quote.Price - *prev) / *prev * 100
		quote.ChangePercent = &change
	}
	return quote, nil
}
