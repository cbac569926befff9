package repository

import (
	"context"

	"AntVillage/internal/domain/models"
)

// QuoteProvider resolves one symbol's latest quote from a market-data
// provider. Implementations return an error on any failure; callers
// degrade to a bare TickerQuote rather than aborting the batch.
type QuoteProvider interface {
	FetchQuote(ctx context.Context, symbol string) (models.TickerQuote, error)
}

// NewsProvider resolves up to limit recent headlines for a search query.
type NewsProvider interface {
	FetchNews(ctx context.Context, query string, limit int) ([]models.NewsItem, error)
}

// RateProvider fetches the current USD to KRW exchange rate.
type RateProvider interface {
	FetchRate(ctx context.Context) (float64, error)
}

// HoldingsProvider loads the positions of one village.
type HoldingsProvider interface {
	Holdings(ctx context.Context, userID, portfolioID int64) ([]models.Holding, error)
	Portfolio(ctx context.Context, userID, portfolioID int64) (*models.Village, error)
}

// PortfolioLister enumerates every portfolio eligible for scheduled
// briefing generation.
type PortfolioLister interface {
	AllPortfolios(ctx context.Context) ([]models.Village, error)
}

// AssetCatalog resolves asset identifiers to catalog entries.
type AssetCatalog interface {
	Assets(ctx context.Context, assetIDs []int64) (map[int64]models.Asset, error)
}

// PriceStore holds the latest observed price per asset. Upsert is
// last-write-wins and idempotent; concurrent writers converge.
type PriceStore interface {
	Get(ctx context.Context, assetIDs []int64) (map[int64]models.PricePoint, error)
	Upsert(ctx context.Context, prices map[int64]models.PricePoint) error
}

// SnapshotStore is the append-only briefing archive.
type SnapshotStore interface {
	Init(ctx context.Context) error // ensure tables, health checks
	Append(ctx context.Context, snapshot *models.BriefingSnapshot) error
	Latest(ctx context.Context, userID, portfolioID int64) (*models.BriefingSnapshot, error)
	Health(ctx context.Context) error // ping
	Close() error
}

// Publisher emits snapshots to the message broker.
type Publisher interface {
	Publish(ctx context.Context, snapshot *models.BriefingSnapshot) error
	Close() error
}

type Metrics interface {
	RecordBriefing(timeSlot, outcome string)
	RecordError(kind string)
	RecordLastPrice(symbol string, price float64)
	RecordLatency(op string, seconds float64)
}
