package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/neexbeast/trekinfo/internal/weather"
)

// DefaultRetention is how long Redis keeps a record after its last replace.
// Freshness is decided by the engine from CachedAt, so retention only has
// to outlive the cache duration.
const DefaultRetention = 24 * time.Hour

// RedisStore keeps the current weather record of each destination in Redis.
type RedisStore struct {
	client    *redis.Client
	retention time.Duration
}

// NewRedisStore constructs a RedisStore with the default retention.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, retention: DefaultRetention}
}

// key returns the Redis key for the given destination.
func key(destinationID int) string {
	return "weather:current:" + strconv.Itoa(destinationID)
}

// GetCurrent retrieves the destination's record.
// Returns nil, nil when there is none (not an error).
func (s *RedisStore) GetCurrent(ctx context.Context, destinationID int) (*weather.Record, error) {
	val, err := s.client.Get(ctx, key(destinationID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("cache get for destination %d: %w", destinationID, err)
	}

	var rec weather.Record
	if err := json.Unmarshal(val, &rec); err != nil {
		return nil, fmt.Errorf("unmarshaling cached weather for destination %d: %w", destinationID, err)
	}

	return &rec, nil
}

// Replace overwrites the destination's record. Concurrent writers race and
// the last one wins.
func (s *RedisStore) Replace(ctx context.Context, destinationID int, rec weather.Record) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshaling weather for destination %d: %w", destinationID, err)
	}

	if err := s.client.Set(ctx, key(destinationID), b, s.retention).Err(); err != nil {
		return fmt.Errorf("cache set for destination %d: %w", destinationID, err)
	}

	return nil
}

// Delete removes the destination's record.
func (s *RedisStore) Delete(ctx context.Context, destinationID int) error {
	if err := s.client.Del(ctx, key(destinationID)).Err(); err != nil {
		return fmt.Errorf("cache delete for destination %d: %w", destinationID, err)
	}
	return nil
}
