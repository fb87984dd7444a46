package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"kbvcri/internal/kbv/models"
)

const itemKeyPrefix = "kbv:item:"

// RedisStore is the production Store for distributed deployments. Saves use
// WATCH/MULTI so the revision check and the write are one atomic unit; a
// concurrent writer aborts the transaction and surfaces ErrConflict instead
// of last-writer-wins.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore constructs a Redis-backed KBV item store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, sessionID string) (*models.KBVItem, error) {
	payload, err := s.client.Get(ctx, itemKeyPrefix+sessionID).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get kbv item: %w", err)
	}

	var item models.KBVItem
	if err := json.Unmarshal([]byte(payload), &item); err != nil {
		return nil, fmt.Errorf("decode kbv item: %w", err)
	}
	return &item, nil
}

func (s *RedisStore) Save(ctx context.Context, item *models.KBVItem) error {
	key := itemKeyPrefix + item.SessionID

	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		payload, err := tx.Get(ctx, key).Result()
		switch {
		case errors.Is(err, redis.Nil):
			if item.Revision != 0 {
				return ErrConflict
			}
		case err != nil:
			return fmt.Errorf("read kbv item: %w", err)
		default:
			var current models.KBVItem
			if err := json.Unmarshal([]byte(payload), &current); err != nil {
				return fmt.Errorf("decode kbv item: %w", err)
			}
			if current.Revision != item.Revision {
				return ErrConflict
			}
		}

		next := *item
		next.Revision++
		encoded, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("encode kbv item: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, encoded, s.ttl(&next))
			return nil
		})
		return err
	}, key)
	if errors.Is(err, redis.TxFailedErr) {
		return ErrConflict
	}
	if err != nil {
		return err
	}

	item.Revision++
	return nil
}

// ttl derives the key expiry from the item's expiry epoch; items that never
// reached the provider carry no expiry yet and are kept without TTL.
func (s *RedisStore) ttl(item *models.KBVItem) time.Duration {
	if item.ExpiryEpoch == 0 {
		return 0
	}
	ttl := time.Until(time.Unix(item.ExpiryEpoch, 0))
	if ttl <= 0 {
		return time.Second
	}
	return ttl
}
