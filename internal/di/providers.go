package di

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"AntVillage/internal/domain/repository"
	domservice "AntVillage/internal/domain/service"
	"AntVillage/internal/handler/api"
	internalrepo "AntVillage/internal/repository"
	"AntVillage/internal/service/cache"
	"AntVillage/internal/service/fx"
	"AntVillage/internal/service/llm"
	"AntVillage/internal/service/rss"
	"AntVillage/internal/service/yahoo"
	"AntVillage/internal/usecase"
	pkgch "AntVillage/pkg/clickhouse"
	"AntVillage/pkg/config"
	xhttp "AntVillage/pkg/http"
	pkgkafka "AntVillage/pkg/kafka"
	"AntVillage/pkg/logger"
	"AntVillage/pkg/metrics"
	"AntVillage/pkg/queue"
	"AntVillage/pkg/server"
)

// ProvideLogger creates the application logger. In production, error
// logs are aggregated and shipped to a Redis list for the log pipeline
// to drain.
func ProvideLogger(cfg *config.Config, client *redis.Client) (*logger.Logger, error) {
	format := "json"
	if cfg.Environment == "development" {
		format = "console"
	}
	l, err := logger.New(&logger.Config{Level: "info", Format: format, Output: "stdout"})
	if err != nil {
		return nil, err
	}

	if cfg.Environment == "production" {
		pub := queue.NewRedisPublisher(l, client, queue.WithKeyPrefix("antvillage:logs"))
		l.AddCollector(&logger.CollectionConfig{
			TimeInterval:   30 * time.Second,
			CountThreshold: 100,
			Topic:          "error.logs",
			Publisher:      pub,
		})
	}
	return l, nil
}

// ProvideClickHouseClient creates a ClickHouse client.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	// Initialize schema
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db := cfg.ClickHouse.Database
	if err := client.InitSchema(ctx, []string{
		fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", db),
		fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s.briefing_snapshots (user_id Int64, portfolio_id Int64, time_slot String, payload String, created_at DateTime64(3)) ENGINE=MergeTree ORDER BY (user_id, portfolio_id, created_at)", db),
		fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s.portfolios (id Int64, user_id Int64, name String, profile String) ENGINE=ReplacingMergeTree ORDER BY (user_id, id)", db),
		fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s.holdings (user_id Int64, portfolio_id Int64, asset_id Int64, quantity Float64, avg_buy_price Float64) ENGINE=ReplacingMergeTree ORDER BY (user_id, portfolio_id, asset_id)", db),
		fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s.assets (asset_id Int64, symbol String, name String, country_code String, asset_type String) ENGINE=ReplacingMergeTree ORDER BY asset_id", db),
	}); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideRedisClient creates the shared Redis client.
func ProvideRedisClient(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

// ProvideKafkaProducer creates a Kafka producer.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}

	return producer, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideSnapshotStore creates the ClickHouse briefing archive.
func ProvideSnapshotStore(chClient *pkgch.Client, cfg *config.Config) repository.SnapshotStore {
	return internalrepo.NewClickHouseSnapshotStore(chClient.DB(), cfg.ClickHouse.Database+".briefing_snapshots")
}

// ProvideSnapshotPublisher creates the Kafka snapshot publisher.
func ProvideSnapshotPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.Publisher {
	return internalrepo.NewKafkaSnapshotPublisher(producer, cfg.Kafka.Topic)
}

// ProvidePortfolioStore creates the portfolio/holdings/assets reader.
func ProvidePortfolioStore(chClient *pkgch.Client) *internalrepo.ClickHousePortfolioStore {
	return internalrepo.NewClickHousePortfolioStore(chClient.DB())
}

// ProvideHoldingsProvider exposes the portfolio store as a holdings reader.
func ProvideHoldingsProvider(s *internalrepo.ClickHousePortfolioStore) repository.HoldingsProvider {
	return s
}

// ProvideAssetCatalog exposes the portfolio store as an asset catalog.
func ProvideAssetCatalog(s *internalrepo.ClickHousePortfolioStore) repository.AssetCatalog {
	return s
}

// ProvidePriceStore creates the Redis last-price store.
func ProvidePriceStore(client *redis.Client) repository.PriceStore {
	return internalrepo.NewRedisPriceStore(client)
}

// ProvideQuoteProvider creates the market-data quote client.
func ProvideQuoteProvider(cfg *config.Config) repository.QuoteProvider {
	return yahoo.New(cfg.MarketData.QuoteBaseURL,
		yahoo.WithTimeout(cfg.MarketData.Timeout),
	)
}

// ProvideNewsProvider creates the RSS headline client backed by a Redis
// feed cache.
func ProvideNewsProvider(cfg *config.Config, log *logger.Logger) repository.NewsProvider {
	feedCache := cache.NewRedisCache(cache.RedisConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	return rss.New(cfg.MarketData.NewsFeedURL,
		rss.WithTimeout(cfg.MarketData.Timeout),
		rss.WithCache(feedCache, cfg.MarketData.NewsCacheTTL),
		rss.WithRateLimit(cfg.MarketData.RatePerSecond),
		rss.WithLogger(log),
	)
}

// ProvideTextGenerator creates the configured LLM client. With provider
// "none" the client reports unconfigured and agents fall back.
func ProvideTextGenerator(cfg *config.Config, log *logger.Logger) domservice.TextGenerator {
	return llm.New(cfg.LLM.Provider, cfg.LLM.BaseURL, cfg.LLM.APIKey, cfg.LLM.Model,
		llm.WithLogger(log),
		llm.WithTimeout(cfg.LLM.Timeout),
		llm.WithMaxTokens(cfg.LLM.MaxTokens),
		llm.WithTemperature(cfg.LLM.Temperature),
	)
}

// ProvideFXRateSource creates the cached USD/KRW rate source.
func ProvideFXRateSource(cfg *config.Config, log *logger.Logger) usecase.FXRateSource {
	provider := fx.NewHTTPRateProvider(cfg.FX.BaseURL, cfg.FX.Timeout)
	return fx.NewRateCache(provider,
		fx.WithTTL(cfg.FX.TTL),
		fx.WithCacheLogger(log),
	)
}

// ProvideMarketContextAggregator creates the quote/news fan-out.
func ProvideMarketContextAggregator(
	quotes repository.QuoteProvider,
	news repository.NewsProvider,
	m repository.Metrics,
	log *logger.Logger,
	cfg *config.Config,
) *usecase.MarketContextAggregator {
	return usecase.NewMarketContextAggregator(quotes, news, m, log,
		usecase.WithMaxParallel(cfg.MarketData.MaxConcurrency),
		usecase.WithCallTimeout(cfg.MarketData.Timeout),
	)
}

// ProvideStockAgent creates the quantitative analysis agent.
func ProvideStockAgent(gen domservice.TextGenerator, m repository.Metrics, log *logger.Logger) *usecase.StockAgent {
	return usecase.NewStockAgent(gen, m, log)
}

// ProvideNewsAgent creates the sentiment analysis agent.
func ProvideNewsAgent(gen domservice.TextGenerator, m repository.Metrics, log *logger.Logger) *usecase.NewsAgent {
	return usecase.NewNewsAgent(gen, m, log)
}

// ProvideOrchestrator creates the briefing composer.
func ProvideOrchestrator(gen domservice.TextGenerator, m repository.Metrics, log *logger.Logger) *usecase.Orchestrator {
	return usecase.NewOrchestrator(gen, m, log)
}

// ProvideSnapshotProcessor routes snapshots to the configured backend.
func ProvideSnapshotProcessor(
	pub repository.Publisher,
	store repository.SnapshotStore,
	m repository.Metrics,
	cfg *config.Config,
) *usecase.SnapshotProcessor {
	return usecase.NewSnapshotProcessor(pub, store, m, cfg.Backend.Type)
}

// ProvideBriefingPipeline assembles the end-to-end briefing flow.
func ProvideBriefingPipeline(
	holdings repository.HoldingsProvider,
	catalog repository.AssetCatalog,
	prices repository.PriceStore,
	aggregator *usecase.MarketContextAggregator,
	stockAgent *usecase.StockAgent,
	newsAgent *usecase.NewsAgent,
	orchestrator *usecase.Orchestrator,
	snapshots *usecase.SnapshotProcessor,
	rates usecase.FXRateSource,
	m repository.Metrics,
	log *logger.Logger,
	cfg *config.Config,
) *usecase.BriefingPipeline {
	return usecase.NewBriefingPipeline(
		holdings, catalog, prices,
		aggregator, stockAgent, newsAgent, orchestrator,
		snapshots, rates, m, log,
		cfg.MarketData.NewsPerTicker,
	)
}

// ProvideKafkaConsumer creates a Kafka consumer when snapshots flow
// through the broker. Returns nil for the direct-write backend.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	if cfg.Backend.Type != "kafka" {
		return nil, nil
	}
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideKafkaSnapshotsHandler drains published snapshots into storage.
// Nil when the backend writes directly.
func ProvideKafkaSnapshotsHandler(store repository.SnapshotStore, m repository.Metrics, cfg *config.Config) pkgkafka.MessageHandler {
	if cfg.Backend.Type != "kafka" {
		return nil
	}
	return usecase.NewKafkaSnapshotsHandler(cfg.Kafka.Topic, store, m)
}

// ProvideBriefingJobQueue creates the scheduled-briefing worker queue.
// Nil when the queue is disabled in config.
func ProvideBriefingJobQueue(
	cfg *config.Config,
	client *redis.Client,
	pipeline *usecase.BriefingPipeline,
	log *logger.Logger,
) *queue.RedisQueue {
	if !cfg.Briefing.Queue.Enabled {
		return nil
	}
	qcfg := &queue.QueueConfig{
		Workers:    cfg.Briefing.Queue.Workers,
		QueueSize:  cfg.Briefing.Queue.BufferSize,
		RetryLimit: cfg.Briefing.Queue.MaxRetries,
		RetryDelay: cfg.Briefing.Queue.RetryDelay,
	}
	jobs := []queue.Job{usecase.NewBriefingJob(pipeline, log)}
	return queue.NewRedisConsumer(log, qcfg, client, jobs)
}

// ProvideBriefingScheduler creates the cron trigger that enqueues one
// briefing job per portfolio at the configured morning and evening
// hours. Nil when scheduling or the job queue is disabled.
func ProvideBriefingScheduler(
	cfg *config.Config,
	store *internalrepo.ClickHousePortfolioStore,
	jobQueue *queue.RedisQueue,
	m repository.Metrics,
	log *logger.Logger,
) (*usecase.BriefingScheduler, error) {
	sc := cfg.Briefing.Schedule
	if !sc.Enabled || jobQueue == nil {
		return nil, nil
	}

	loc := time.UTC
	if sc.Timezone != "" {
		l, err := time.LoadLocation(sc.Timezone)
		if err != nil {
			return nil, fmt.Errorf("briefing schedule timezone: %w", err)
		}
		loc = l
	}

	morning := sc.MorningCron
	if morning == "" {
		morning = "0 0 9 * * *"
	}
	evening := sc.EveningCron
	if evening == "" {
		evening = "0 0 17 * * *"
	}

	s := usecase.NewBriefingScheduler(store, jobQueue, m, log, loc)
	if err := s.Register(morning, evening); err != nil {
		return nil, err
	}
	return s, nil
}

// ProvideBriefingHandler creates the HTTP handler.
func ProvideBriefingHandler(log *logger.Logger, pipeline *usecase.BriefingPipeline, snapshots *usecase.SnapshotProcessor) xhttp.Handler {
	return api.NewBriefingHandler(log, pipeline, snapshots)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	consumer *pkgkafka.Consumer,
	kh pkgkafka.MessageHandler,
	chClient *pkgch.Client,
	jobQueue *queue.RedisQueue,
	handler xhttp.Handler,
	snapshots *usecase.SnapshotProcessor,
	scheduler *usecase.BriefingScheduler,
) *server.App {
	app := server.New(cfg, consumer, kh, chClient, jobQueue)
	app.SetHTTPHandler(handler)
	app.SetSnapshotProcessor(snapshots)
	if scheduler != nil {
		app.SetScheduler(scheduler)
	}
	return app
}
