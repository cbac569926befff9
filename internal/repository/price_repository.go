package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"AntVillage/internal/domain/models"
	"AntVillage/internal/domain/repository"
)

const priceHashKey = "antvillage:prices"

// RedisPriceStore implements PriceStore on a Redis hash keyed by asset
// id. Writes are last-write-wins, so concurrent upserts converge and
// repeating an upsert is a no-op.
type RedisPriceStore struct {
	client *redis.Client
	key    string
}

func NewRedisPriceStore(client *redis.Client) repository.PriceStore {
	return &RedisPriceStore{client: client, key: priceHashKey}
}

func (s *RedisPriceStore) Get(ctx context.Context, assetIDs []int64) (map[int64]models.PricePoint, error) {
	if len(assetIDs) == 0 {
		return map[int64]models.PricePoint{}, nil
	}

	fields := make([]string, len(assetIDs))
	for i, id := range assetIDs {
		fields[i] = strconv.FormatInt(id, 10)
	}

	values, err := s.client.HMGet(ctx, s.key, fields...).Result()
	if err != nil {
		return nil, fmt.Errorf("hmget prices: %w", err)
	}

	prices := make(map[int64]models.PricePoint, len(assetIDs))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var pp models.PricePoint
		if err := json.Unmarshal([]byte(raw), &pp); err != nil {
			continue
		}
		prices[assetIDs[i]] = pp
	}
	return prices, nil
}

func (s *RedisPriceStore) Upsert(ctx context.Context, prices map[int64]models.PricePoint) error {
	if len(prices) == 0 {
		return nil
	}

	values := make([]interface{}, 0, len(prices)*2)
	for id, pp := range prices {
		raw, err := json.Marshal(pp)
		if err != nil {
			return fmt.Errorf("marshal price %d: %w", id, err)
		}
		values = append(values, strconv.FormatInt(id, 10), raw)
	}

	if err := s.client.HSet(ctx, s.key, values...).Err(); err != nil {
		return fmt.Errorf("hset prices: %w", err)
	}
	return nil
}
