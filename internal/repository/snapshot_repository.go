package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"AntVillage/internal/domain/models"
	"AntVillage/internal/domain/repository"
	pkgkafka "AntVillage/pkg/kafka"
)

// ClickHouseSnapshotStore implements SnapshotStore for ClickHouse. The
// table is append-only; "latest" is resolved by max created_at.
type ClickHouseSnapshotStore struct {
	db    *sql.DB
	table string
}

// NewClickHouseSnapshotStore creates ClickHouse snapshot storage.
func NewClickHouseSnapshotStore(db *sql.DB, table string) repository.SnapshotStore {
	return &ClickHouseSnapshotStore{db: db, table: table}
}

func (s *ClickHouseSnapshotStore) Init(ctx context.Context) error {
	return nil // Schema init in pkg
}

func (s *ClickHouseSnapshotStore) Append(ctx context.Context, snapshot *models.BriefingSnapshot) error {
	q := fmt.Sprintf("INSERT INTO %s (user_id, portfolio_id, time_slot, payload, created_at) VALUES (?, ?, ?, ?, ?)", s.table)
	_, err := s.db.ExecContext(ctx, q,
		snapshot.UserID,
		snapshot.PortfolioID,
		snapshot.TimeSlot,
		string(snapshot.Payload),
		snapshot.CreatedAt,
	)
	return err
}

func (s *ClickHouseSnapshotStore) Latest(ctx context.Context, userID, portfolioID int64) (*models.BriefingSnapshot, error) {
	q := fmt.Sprintf("SELECT user_id, portfolio_id, time_slot, payload, created_at FROM %s WHERE user_id = ? AND portfolio_id = ? ORDER BY created_at DESC LIMIT 1", s.table)

	var (
		snap    models.BriefingSnapshot
		payload string
		created time.Time
	)
	err := s.db.QueryRowContext(ctx, q, userID, portfolioID).
		Scan(&snap.UserID, &snap.PortfolioID, &snap.TimeSlot, &payload, &created)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	snap.Payload = []byte(payload)
	snap.CreatedAt = created
	return &snap, nil
}

func (s *ClickHouseSnapshotStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *ClickHouseSnapshotStore) Close() error {
	return nil // Managed by pkg
}

// KafkaSnapshotPublisher implements Publisher for Kafka.
type KafkaSnapshotPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaSnapshotPublisher creates Kafka snapshot publisher.
func NewKafkaSnapshotPublisher(producer *pkgkafka.Producer, topic string) repository.Publisher {
	return &KafkaSnapshotPublisher{producer: producer, topic: topic}
}

func (p *KafkaSnapshotPublisher) Publish(ctx context.Context, snapshot *models.BriefingSnapshot) error {
	key := []byte(fmt.Sprintf("%d:%d", snapshot.UserID, snapshot.PortfolioID))
	return p.producer.Publish(ctx, p.topic, key, snapshot)
}

func (p *KafkaSnapshotPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
