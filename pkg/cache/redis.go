package cache

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore backs Store with a shared go-redis client, for deployments
// that run more than one server process against one cache. TTL eviction is
// delegated to Redis's own expiry; LRU-by-size is not enforced client-side
// since Redis key eviction policy (maxmemory-policy) owns that concern
// operationally rather than in this process.
type RedisStore struct {
	client  *redis.Client
	prefix  string
	ttl     time.Duration
	maxSize int
	hits    int64
	misses  int64
}

// NewRedisStore wraps an existing client. prefix namespaces keys so this
// cache can share a Redis instance with other consumers.
func NewRedisStore(client *redis.Client, prefix string, cfg Config) *RedisStore {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultConfig().TTL
	}
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = DefaultConfig().MaxSize
	}
	return &RedisStore{client: client, prefix: prefix, ttl: cfg.TTL, maxSize: cfg.MaxSize}
}

func (s *RedisStore) fullKey(key Key) string {
	return s.prefix + string(key)
}

func (s *RedisStore) Get(key Key) ([]byte, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	val, err := s.client.Get(ctx, s.fullKey(key)).Bytes()
	if err != nil {
		atomic.AddInt64(&s.misses, 1)
		return nil, false
	}
	atomic.AddInt64(&s.hits, 1)
	return val, true
}

func (s *RedisStore) Set(key Key, value []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return s.client.Set(ctx, s.fullKey(key), value, s.ttl).Err()
}

func (s *RedisStore) Delete(key Key) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return s.client.Del(ctx, s.fullKey(key)).Err()
}

// Clear flushes every key under this store's prefix, scanning rather than
// issuing FLUSHDB since the prefix may share a Redis instance with other
// consumers.
func (s *RedisStore) Clear() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	iter := s.client.Scan(ctx, 0, s.prefix+"*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}

func (s *RedisStore) Stats() Stats {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	size := 0
	if n, err := s.client.DBSize(ctx).Result(); err == nil {
		size = int(n)
	}

	return Stats{
		Hits:    atomic.LoadInt64(&s.hits),
		Misses:  atomic.LoadInt64(&s.misses),
		Size:    size,
		MaxSize: s.maxSize,
	}
}
