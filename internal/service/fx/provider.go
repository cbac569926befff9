package fx

import (
	"context"
	"fmt"
	"time"

	xhttp "AntVillage/pkg/http"
)

// HTTPRateProvider fetches the USD to KRW rate from an open
// exchange-rate endpoint returning {"result": "...", "rates": {...}}.
type HTTPRateProvider struct {
	baseURL string
	http    *xhttp.Client
}

func NewHTTPRateProvider(baseURL string, timeout time.Duration) *HTTPRateProvider {
	return &HTTPRateProvider{
		baseURL: baseURL,
		http:    xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

type rateResponse struct {
	Result string             `json:"result"`
	Rates  map[string]float64 `json:"rates"`
}

func (p *HTTPRateProvider) FetchRate(ctx context.Context) (float64, error) {
	var resp rateResponse
	err := p.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    p.baseURL,
	}, &resp)
	if err != nil {
		return 0, fmt.Errorf("fetch rate: %w", err)
	}
	if resp.Result != "" && resp.Result != "success" {
		return 0, fmt.Errorf("fetch rate: provider result %q", resp.Result)
	}
	rate, ok := resp.Rates["KRW"]
	if !ok || rate <= 0 {
		return 0, fmt.Errorf("fetch rate: KRW missing from response")
	}
	return rate, nil
}
