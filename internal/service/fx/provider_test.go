package fx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHTTPRateProviderFetchRate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"result":"success","rates":{"KRW":1352.4,"JPY":151.2}}`))
	}))
	defer srv.Close()

	p := NewHTTPRateProvider(srv.URL, 2*time.Second)
	rate, err := p.FetchRate(context.Background())
	require.NoError(t, err)
	require.InDelta(t, 1352.4, rate, 1e-9)
}

func TestHTTPRateProviderErrorResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":"error","rates":{}}`))
	}))
	defer srv.Close()

	p := NewHTTPRateProvider(srv.URL, 2*time.Second)
	_, err := p.FetchRate(context.Background())
	require.Error(t, err)
}

func TestHTTPRateProviderMissingKRW(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":"success","rates":{"JPY":151.2}}`))
	}))
	defer srv.Close()

	p := NewHTTPRateProvider(srv.URL, 2*time.Second)
	_, err := p.FetchRate(context.Background())
	require.Error(t, err)
}
