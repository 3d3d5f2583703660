package gatekeeper

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/redis/go-redis/v9"
)

// configKeyLogInterval is the key the audit engine reads its bucket width
// from.
const configKeyLogInterval = "config:accessLogInterval"

// redisConfigStore keeps platform configuration in Redis.
type redisConfigStore struct {
	client *redis.Client
	prefix string
}

func (s *redisConfigStore) key() string {
	prefix := s.prefix
	if prefix == "" {
		prefix = "gatekeeper:"
	}
	return prefix + configKeyLogInterval
}

func (s *redisConfigStore) GetInterval(ctx context.Context) (int64, error) {
	val, err := s.client.Get(ctx, s.key()).Result()
	if errors.Is(err, redis.Nil) {
		return DefaultLogIntervalSeconds, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis get: %w", err)
	}
	seconds, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed accessLogInterval %q: %w", val, err)
	}
	return seconds, nil
}

func (s *redisConfigStore) SetInterval(ctx context.Context, seconds int64) error {
	return s.client.Set(ctx, s.key(), strconv.FormatInt(seconds, 10), 0).Err()
}

// MemoryConfigStore is an in-memory ConfigStore for tests and samples.
type MemoryConfigStore struct {
	mu       sync.Mutex
	interval int64
}

func NewMemoryConfigStore() *MemoryConfigStore {
	return &MemoryConfigStore{}
}

func (s *MemoryConfigStore) GetInterval(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.interval == 0 {
		return DefaultLogIntervalSeconds, nil
	}
	return s.interval, nil
}

func (s *MemoryConfigStore) SetInterval(_ context.Context, seconds int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interval = seconds
	return nil
}
