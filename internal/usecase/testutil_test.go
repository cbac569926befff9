package usecase

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"AntVillage/internal/domain/models"
)

// nopMetrics satisfies repository.Metrics for tests that do not assert
// on instrumentation.
type nopMetrics struct{}

func (nopMetrics) RecordBriefing(string, string)  {}
func (nopMetrics) RecordError(string)             {}
func (nopMetrics) RecordLastPrice(string, float64) {}
func (nopMetrics) RecordLatency(string, float64)  {}

// stubGen is a canned TextGenerator.
type stubGen struct {
	reply string
	err   error
	calls int32
}

func (g *stubGen) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	atomic.AddInt32(&g.calls, 1)
	return g.reply, g.err
}

func (g *stubGen) callCount() int { return int(atomic.LoadInt32(&g.calls)) }

// panicGen panics for the first remaining calls, then behaves like an
// unconfigured generator.
type panicGen struct {
	remaining int32
}

func (g *panicGen) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if atomic.AddInt32(&g.remaining, -1) >= 0 {
		panic("generator blew up")
	}
	return "", fmt.Errorf("not configured")
}

// fakeQuotes serves quotes by the symbol the provider was asked for.
type fakeQuotes struct {
	mu     sync.Mutex
	quotes map[string]models.TickerQuote
	fails  map[string]bool
	calls  []string
}

func (f *fakeQuotes) FetchQuote(ctx context.Context, symbol string) (models.TickerQuote, error) {
	f.mu.Lock()
	f.calls = append(f.calls, symbol)
	f.mu.Unlock()

	if f.fails[symbol] {
		return models.TickerQuote{}, fmt.Errorf("quote provider down for %s", symbol)
	}
	q, ok := f.quotes[symbol]
	if !ok {
		return models.TickerQuote{}, fmt.Errorf("unknown symbol %s", symbol)
	}
	return q, nil
}

func (f *fakeQuotes) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// fakeNews serves headlines by search query.
type fakeNews struct {
	mu    sync.Mutex
	items map[string][]models.NewsItem
	fails map[string]bool
	calls []string
}

func (f *fakeNews) FetchNews(ctx context.Context, query string, limit int) ([]models.NewsItem, error) {
	f.mu.Lock()
	f.calls = append(f.calls, query)
	f.mu.Unlock()

	if f.fails[query] {
		return nil, fmt.Errorf("news provider down for %s", query)
	}
	items := f.items[query]
	if len(items) > limit {
		items = items[:limit]
	}
	out := make([]models.NewsItem, len(items))
	copy(out, items)
	return out, nil
}

func (f *fakeNews) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func ptr(f float64) *float64 { return &f }
