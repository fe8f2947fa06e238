package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/neexbeast/trekinfo/internal/weather"
)

// MemoryStore is an in-process weather store for single-instance runs
// without Redis.
type MemoryStore struct {
	c *gocache.Cache
}

// NewMemoryStore constructs a MemoryStore with the default retention.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{c: gocache.New(DefaultRetention, 10*time.Minute)}
}

// GetCurrent returns nil, nil when the destination has no record.
func (s *MemoryStore) GetCurrent(_ context.Context, destinationID int) (*weather.Record, error) {
	v, ok := s.c.Get(key(destinationID))
	if !ok {
		return nil, nil
	}
	rec := v.(weather.Record)
	return &rec, nil
}

// Replace overwrites the destination's record.
func (s *MemoryStore) Replace(_ context.Context, destinationID int, rec weather.Record) error {
	s.c.SetDefault(key(destinationID), rec)
	return nil
}

// Delete removes the destination's record.
func (s *MemoryStore) Delete(_ context.Context, destinationID int) error {
	s.c.Delete(key(destinationID))
	return nil
}
