package yahoo

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func chartBody(price, prevClose string) string {
	return fmt.Sprintf(`{"chart":{"result":[{"meta":{"currency":"USD","symbol":"AAPL","regularMarketPrice":%s,"previousClose":%s}}],"error":null}}`, price, prevClose)
}

func TestFetchQuote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v8/finance/chart/AAPL", r.URL.Path)
		require.Equal(t, "5d", r.URL.Query().Get("range"))
		require.Equal(t, "1d", r.URL.Query().Get("interval"))
		require.NotEmpty(t, r.Header.Get("User-Agent"))
		w.Write([]byte(chartBody("180.5", "178.0")))
	}))
	defer srv.Close()

	c := New(srv.URL, WithTimeout(2*time.Second))
	quote, err := c.FetchQuote(context.Background(), "AAPL")
	require.NoError(t, err)
	require.Equal(t, "AAPL", quote.Ticker)
	require.Equal(t, "USD", quote.Currency)
	require.True(t, quote.HasPrice())
	require.InDelta(t, 180.5, *quote.Price, 1e-9)
	require.InDelta(t, 178.0, *quote.PreviousClose, 1e-9)
	require.NotNil(t, quote.ChangePercent)
	require.InDelta(t, (180.5-178.0)/178.0*100, *quote.ChangePercent, 1e-9)
}

func TestFetchQuoteChartPreviousCloseFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":[{"meta":{"currency":"KRW","symbol":"005930.KS","regularMarketPrice":71000,"chartPreviousClose":70400}}],"error":null}}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	quote, err := c.FetchQuote(context.Background(), "005930.KS")
	require.NoError(t, err)
	require.InDelta(t, 70400, *quote.PreviousClose, 1e-9)
	require.NotNil(t, quote.ChangePercent)
}

func TestFetchQuoteMissingPrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":[{"meta":{"currency":"USD","symbol":"XYZ"}}],"error":null}}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	quote, err := c.FetchQuote(context.Background(), "XYZ")
	require.NoError(t, err)
	require.False(t, quote.HasPrice())
	require.Nil(t, quote.ChangePercent)
}

func TestFetchQuoteProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":[],"error":{"code":"Not Found","description":"No data found"}}}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.FetchQuote(context.Background(), "NOPE")
	require.Error(t, err)
	require.Contains(t, err.Error(), "No data found")
}

func TestFetchQuoteHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.FetchQuote(context.Background(), "AAPL")
	require.Error(t, err)
}
