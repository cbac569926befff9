package usecase

import (
	"context"
	"encoding/json"
	"time"

	"AntVillage/internal/domain/models"
	domrepo "AntVillage/internal/domain/repository"
	pkgkafka "AntVillage/pkg/kafka"
)

// KafkaSnapshotsHandler consumes briefing snapshot events and appends
// them to the snapshot store. It runs when the backend is "kafka" so
// the request path only pays for a publish.
type KafkaSnapshotsHandler struct {
	topic   string
	store   domrepo.SnapshotStore
	metrics domrepo.Metrics
}

func NewKafkaSnapshotsHandler(topic string, store domrepo.SnapshotStore, metrics domrepo.Metrics) *KafkaSnapshotsHandler {
	return &KafkaSnapshotsHandler{topic: topic, store: store, metrics: metrics}
}

func (h *KafkaSnapshotsHandler) Topic() string { return h.topic }

func (h *KafkaSnapshotsHandler) Handle(ctx context.Context, b []byte) error {
	var s models.BriefingSnapshot
	if err := json.Unmarshal(b, &s); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return err
	}

	// E2E latency from snapshot creation to storage write (approx)
	h.metrics.RecordLatency("snapshot_e2e_seconds", time.Since(s.CreatedAt).Seconds())

	start := time.Now()
	err := h.store.Append(ctx, &s)
	h.metrics.RecordLatency("ch_insert_seconds", time.Since(start).Seconds())
	if err != nil {
		h.metrics.RecordError("consumer_store")
		return err
	}
	return nil
}

var _ pkgkafka.MessageHandler = (*KafkaSnapshotsHandler)(nil)
