package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	domain "github.com/aq2208/gorder-cart/internal/entity"
	"github.com/aq2208/gorder-cart/internal/usecase"
	"github.com/redis/go-redis/v9"
)

// CartKeyPrefix namespaces persisted cart snapshots.
const CartKeyPrefix = "lf_cart_v1"

type RedisCartStore struct {
	rdb redis.UniversalClient
	ttl time.Duration
}

func NewRedisCartStore(rdb redis.UniversalClient, ttl time.Duration) *RedisCartStore {
	return &RedisCartStore{rdb: rdb, ttl: ttl}
}

func cartKey(sessionID string) string { return CartKeyPrefix + ":" + sessionID }

func (s *RedisCartStore) Load(ctx context.Context, sessionID string) (domain.Snapshot, bool, error) {
	raw, err := s.rdb.Get(ctx, cartKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var snap domain.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		// A corrupt snapshot is treated as absent.
		return nil, false, nil
	}
	return snap, true, nil
}

func (s *RedisCartStore) Save(ctx context.Context, sessionID string, snap domain.Snapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	return s.rdb.Set(ctx, cartKey(sessionID), raw, s.ttl).Err()
}

func (s *RedisCartStore) Delete(ctx context.Context, sessionID string) error {
	return s.rdb.Del(ctx, cartKey(sessionID)).Err()
}

var _ usecase.CartStore = (*RedisCartStore)(nil)
