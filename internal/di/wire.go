//go:build wireinject
// +build wireinject

package di

import (
	"AntVillage/pkg/config"
	"AntVillage/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideRedisClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,

		// Repositories
		ProvideSnapshotStore,
		ProvideSnapshotPublisher,
		ProvidePortfolioStore,
		ProvideHoldingsProvider,
		ProvideAssetCatalog,
		ProvidePriceStore,

		// Market data and text generation
		ProvideQuoteProvider,
		ProvideNewsProvider,
		ProvideTextGenerator,
		ProvideFXRateSource,

		// Use cases
		ProvideMarketContextAggregator,
		ProvideStockAgent,
		ProvideNewsAgent,
		ProvideOrchestrator,
		ProvideSnapshotProcessor,
		ProvideBriefingPipeline,
		ProvideKafkaSnapshotsHandler,
		ProvideBriefingJobQueue,
		ProvideBriefingScheduler,

		// HTTP and application server
		ProvideBriefingHandler,
		ProvideApp,
	)
	return &server.App{}, nil
}
