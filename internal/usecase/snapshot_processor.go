package usecase

import (
	"context"
	"fmt"
	"time"

	"AntVillage/internal/domain/models"
	drepo "AntVillage/internal/domain/repository"
)

// SnapshotProcessor persists briefing snapshots, routing to the
// configured backend: "kafka" publishes an event for the consumer to
// drain into storage, "clickhouse" appends directly.
type SnapshotProcessor struct {
	pub     drepo.Publisher
	store   drepo.SnapshotStore
	metrics drepo.Metrics
	backend string
}

// NewSnapshotProcessor creates a new SnapshotProcessor instance.
func NewSnapshotProcessor(
	pub drepo.Publisher,
	store drepo.SnapshotStore,
	metrics drepo.Metrics,
	backend string,
) *SnapshotProcessor {
	return &SnapshotProcessor{
		pub:     pub,
		store:   store,
		metrics: metrics,
		backend: backend,
	}
}

// Process routes a single snapshot to the configured backend.
func (p *SnapshotProcessor) Process(ctx context.Context, s *models.BriefingSnapshot) error {
	if s == nil {
		return fmt.Errorf("snapshot is nil")
	}

	start := time.Now()
	var err error

	switch p.backend {
	case "kafka":
		err = p.pub.Publish(ctx, s)
	case "clickhouse":
		err = p.store.Append(ctx, s)
	default:
		err = fmt.Errorf("unknown backend: %s", p.backend)
	}

	if err != nil {
		p.metrics.RecordError("persist_snapshot")
		return fmt.Errorf("persist snapshot: %w", err)
	}

	p.metrics.RecordLatency("persist_snapshot", time.Since(start).Seconds())
	return nil
}

// Latest reads the most recent snapshot for a (user, portfolio) pair
// from the backing store.
func (p *SnapshotProcessor) Latest(ctx context.Context, userID, portfolioID int64) (*models.BriefingSnapshot, error) {
	return p.store.Latest(ctx, userID, portfolioID)
}

// Health reports whether the backing store is reachable.
func (p *SnapshotProcessor) Health(ctx context.Context) error {
	if p.store == nil {
		return nil
	}
	return p.store.Health(ctx)
}

// Close closes underlying resources if available.
func (p *SnapshotProcessor) Close() {
	if p.pub != nil {
		_ = p.pub.Close()
	}
	if p.store != nil {
		_ = p.store.Close()
	}
}
