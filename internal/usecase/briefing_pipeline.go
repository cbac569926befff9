package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"AntVillage/internal/domain/models"
	drepo "AntVillage/internal/domain/repository"
	"AntVillage/pkg/logger"
)

var (
	// ErrPortfolioNotFound signals an unknown (user, portfolio) pair.
	ErrPortfolioNotFound = errors.New("portfolio not found")
	// ErrNoHoldings signals a known portfolio with an empty holdings set.
	ErrNoHoldings = errors.New("portfolio has no holdings")
)

// FXRateSource serves the cached USD to KRW rate. The bool is false
// when the rate is a fallback value.
type FXRateSource interface {
	Rate(ctx context.Context) (float64, bool)
}

// BriefingPipeline sequences one briefing run: load holdings, capture
// market context, refresh stored prices, compute metrics, run the two
// analysis agents in parallel, orchestrate the final text and persist a
// snapshot. Agent and persistence failures degrade; only caller input
// errors (unknown portfolio, empty holdings) surface as errors.
type BriefingPipeline struct {
	holdings     drepo.HoldingsProvider
	catalog      drepo.AssetCatalog
	prices       drepo.PriceStore
	aggregator   *MarketContextAggregator
	stockAgent   *StockAgent
	newsAgent    *NewsAgent
	orchestrator *Orchestrator
	snapshots    *SnapshotProcessor
	fx           FXRateSource
	metrics      drepo.Metrics
	log          *logger.Logger

	newsPerTicker int
}

func NewBriefingPipeline(
	holdings drepo.HoldingsProvider,
	catalog drepo.AssetCatalog,
	prices drepo.PriceStore,
	aggregator *MarketContextAggregator,
	stockAgent *StockAgent,
	newsAgent *NewsAgent,
	orchestrator *Orchestrator,
	snapshots *SnapshotProcessor,
	fx FXRateSource,
	metrics drepo.Metrics,
	log *logger.Logger,
	newsPerTicker int,
) *BriefingPipeline {
	if newsPerTicker <= 0 {
		newsPerTicker = 3
	}
	return &BriefingPipeline{
		holdings:      holdings,
		catalog:       catalog,
		prices:        prices,
		aggregator:    aggregator,
		stockAgent:    stockAgent,
		newsAgent:     newsAgent,
		orchestrator:  orchestrator,
		snapshots:     snapshots,
		fx:            fx,
		metrics:       metrics,
		log:           log,
		newsPerTicker: newsPerTicker,
	}
}

// Generate runs the pipeline for one portfolio.
func (p *BriefingPipeline) Generate(ctx context.Context, userID, portfolioID int64, userName, slot string) (*models.BriefingResult, error) {
	start := time.Now()

	village, err := p.holdings.Portfolio(ctx, userID, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("load portfolio %d: %w", portfolioID, err)
	}
	if village == nil {
		return nil, fmt.Errorf("portfolio %d: %w", portfolioID, ErrPortfolioNotFound)
	}

	holdings, err := p.holdings.Holdings(ctx, userID, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("load holdings %d: %w", portfolioID, err)
	}
	if len(holdings) == 0 {
		return nil, fmt.Errorf("portfolio %d: %w", portfolioID, ErrNoHoldings)
	}

	assetIDs := make([]int64, 0, len(holdings))
	for _, h := range holdings {
		assetIDs = append(assetIDs, h.AssetID)
	}
	assets, err := p.catalog.Assets(ctx, assetIDs)
	if err != nil {
		return nil, fmt.Errorf("load assets: %w", err)
	}

	mc := p.aggregator.Aggregate(ctx, buildContextParams(holdings, assets, p.newsPerTicker))

	p.refreshStoredPrices(ctx, holdings, assets, mc)
	stored := p.loadStoredPrices(ctx, assetIDs)

	fxRate, fxKnown := p.fx.Rate(ctx)
	metrics := ComputeMetrics(holdings, assets, mc, stored, fxRate, fxKnown)

	stock, news := p.runAgents(ctx, mc, village, userName, slot)
	script, summary := p.orchestrator.Compose(ctx, stock, news, village, userName, slot)

	result := &models.BriefingResult{
		PortfolioID:   portfolioID,
		VillageName:   village.Name,
		TimeSlot:      slot,
		VoiceScript:   script,
		VisualSummary: summary,
		Metrics:       metrics,
		GeneratedAt:   time.Now().UTC(),
	}

	p.persist(ctx, userID, result)

	p.metrics.RecordBriefing(slot, "ok")
	p.metrics.RecordLatency("briefing", time.Since(start).Seconds())
	return result, nil
}

// GenerateAll serves multiple portfolios concurrently. A failing
// portfolio is excluded from the result set; the call errors only when
// every portfolio failed.
func (p *BriefingPipeline) GenerateAll(ctx context.Context, userID int64, portfolioIDs []int64, userName, slot string) ([]*models.BriefingResult, error) {
	if len(portfolioIDs) == 0 {
		return nil, fmt.Errorf("no portfolios requested")
	}

	results := make([]*models.BriefingResult, len(portfolioIDs))
	errs := make([]error, len(portfolioIDs))

	var wg sync.WaitGroup
	for i, id := range portfolioIDs {
		wg.Add(1)
		go func(i int, id int64) {
			defer wg.Done()
			results[i], errs[i] = p.Generate(ctx, userID, id, userName, slot)
		}(i, id)
	}
	wg.Wait()

	var ok []*models.BriefingResult
	var failed []error
	for i := range results {
		if errs[i] != nil {
			p.metrics.RecordBriefing(slot, "failed")
			p.log.Warn("briefing failed for portfolio",
				logger.Int64("portfolio_id", portfolioIDs[i]),
				logger.Error(errs[i]))
			failed = append(failed, errs[i])
			continue
		}
		ok = append(ok, results[i])
	}

	if len(ok) == 0 {
		return nil, fmt.Errorf("all portfolios failed: %w", errors.Join(failed...))
	}
	return ok, nil
}

// runAgents executes the two analysis branches concurrently and joins
// them. A panicking branch is logged and treated as absent; agent
// failure is never fatal to the pipeline.
func (p *BriefingPipeline) runAgents(ctx context.Context, mc models.MarketContext, village *models.Village, userName, slot string) (*models.StockAnalysis, *models.NewsAnalysis) {
	var (
		wg    sync.WaitGroup
		stock *models.StockAnalysis
		news  *models.NewsAnalysis
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		defer p.recoverAgent("stock_agent")
		stock = p.stockAgent.Analyze(ctx, mc, village, userName, slot)
	}()
	go func() {
		defer wg.Done()
		defer p.recoverAgent("news_agent")
		news = p.newsAgent.Analyze(ctx, mc, village, userName, slot)
	}()
	wg.Wait()

	return stock, news
}

func (p *BriefingPipeline) recoverAgent(name string) {
	if r := recover(); r != nil {
		p.metrics.RecordError(name + "_panic")
		p.log.Error("agent panicked", logger.String("agent", name), logger.Any("panic", r))
	}
}

// refreshStoredPrices upserts the prices observed in this run's
// context. Write failure is logged and does not stop the run.
func (p *BriefingPipeline) refreshStoredPrices(ctx context.Context, holdings []models.Holding, assets map[int64]models.Asset, mc models.MarketContext) {
	now := time.Now().UTC()
	updates := make(map[int64]models.PricePoint)
	for _, h := range holdings {
		asset, ok := assets[h.AssetID]
		if !ok {
			continue
		}
		if q, ok := mc.QuoteByTicker(asset.Symbol); ok && q.Price != nil {
			updates[h.AssetID] = models.PricePoint{Price: *q.Price, AsOf: now}
		}
	}
	if len(updates) == 0 {
		return
	}
	if err := p.prices.Upsert(ctx, updates); err != nil {
		p.metrics.RecordError("price_upsert")
		p.log.Warn("stored price refresh failed", logger.Error(err))
	}
}

func (p *BriefingPipeline) loadStoredPrices(ctx context.Context, assetIDs []int64) map[int64]models.PricePoint {
	stored, err := p.prices.Get(ctx, assetIDs)
	if err != nil {
		p.metrics.RecordError("price_load")
		p.log.Warn("stored price load failed", logger.Error(err))
		return nil
	}
	return stored
}

// persist appends a snapshot best-effort: a failed write never
// invalidates the already-computed result.
func (p *BriefingPipeline) persist(ctx context.Context, userID int64, result *models.BriefingResult) {
	snapshot, err := models.NewBriefingSnapshot(userID, result)
	if err != nil {
		p.log.Error("snapshot encode failed", logger.Error(err))
		return
	}
	if err := p.snapshots.Process(ctx, snapshot); err != nil {
		p.log.Error("snapshot persist failed",
			logger.Int64("portfolio_id", result.PortfolioID),
			logger.Error(err))
	}
}

// buildContextParams derives the aggregation inputs from holdings and
// the catalog: deduplicated tickers, provider price symbols (KR
// six-digit codes get a .KS suffix) and display names for news search.
func buildContextParams(holdings []models.Holding, assets map[int64]models.Asset, newsPerTicker int) ContextParams {
	params := ContextParams{
		NameMap:       make(map[string]string),
		NewsPerTicker: newsPerTicker,
	}
	seen := make(map[string]bool)
	for _, h := range holdings {
		asset, ok := assets[h.AssetID]
		if !ok || asset.Symbol == "" || seen[asset.Symbol] {
			continue
		}
		seen[asset.Symbol] = true
		params.Tickers = append(params.Tickers, asset.Symbol)
		params.PriceTickers = append(params.PriceTickers, priceSymbol(asset))
		if asset.Name != "" {
			params.NameMap[asset.Symbol] = asset.Name
		}
	}
	return params
}

// priceSymbol rewrites local-market symbols for the quote provider.
func priceSymbol(asset models.Asset) string {
	if asset.CountryCode == "KR" && isSixDigits(asset.Symbol) {
		return asset.Symbol + ".KS"
	}
	return asset.Symbol
}

func isSixDigits(s string) bool {
	if len(s) != 6 {
		return false
	}
	for _, ch := range s {
		if ch < '0' || ch > '9' {
			return false
		}
	}
	return true
}
