package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	redisBatchSize = 1000
	// stagingTTL bounds how long an abandoned staging set survives
	stagingTTL = time.Hour
)

// RedisStore keeps the disposable domain set in a Redis set
type RedisStore struct {
	client *redis.Client
	key    string
	logger *zap.Logger
}

// NewRedisStore connects to the Redis server at url
func NewRedisStore(ctx context.Context, url, key string, logger *zap.Logger) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisStoreFromClient(client, key, logger), nil
}

// NewRedisStoreFromClient wraps an existing client
func NewRedisStoreFromClient(client *redis.Client, key string, logger *zap.Logger) *RedisStore {
	return &RedisStore{
		client: client,
		key:    key,
		logger: logger,
	}
}

// IsMember reports whether domain is in the set
func (s *RedisStore) IsMember(ctx context.Context, domain string) (bool, error) {
	ok, err := s.client.SIsMember(ctx, s.key, domain).Result()
	if err != nil {
		return false, fmt.Errorf("failed to query disposable set: %w", err)
	}
	return ok, nil
}

// ReplaceAll fills a staging set and renames it over the live key, so
// readers switch from the old set to the new one in a single step
func (s *RedisStore) ReplaceAll(ctx context.Context, domains []string) error {
	if len(domains) == 0 {
		if err := s.client.Del(ctx, s.key).Err(); err != nil {
			return fmt.Errorf("failed to clear disposable set: %w", err)
		}
		return nil
	}

	staging := s.key + ":staging:" + uuid.NewString()

	pipe := s.client.Pipeline()
	for start := 0; start < len(domains); start += redisBatchSize {
		end := min(start+redisBatchSize, len(domains))
		members := make([]interface{}, 0, end-start)
		for _, domain := range domains[start:end] {
			members = append(members, domain)
		}
		pipe.SAdd(ctx, staging, members...)
	}
	pipe.Expire(ctx, staging, stagingTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		s.dropStaging(staging)
		return fmt.Errorf("failed to write staging set: %w", err)
	}

	_, err := s.client.TxPipelined(ctx, func(tx redis.Pipeliner) error {
		tx.Rename(ctx, staging, s.key)
		tx.Persist(ctx, s.key)
		return nil
	})
	if err != nil {
		s.dropStaging(staging)
		return fmt.Errorf("failed to publish disposable set: %w", err)
	}

	s.logger.Info("Replaced disposable domain set",
		zap.String("key", s.key),
		zap.Int("count", len(domains)))
	return nil
}

func (s *RedisStore) dropStaging(staging string) {
	if err := s.client.Del(context.Background(), staging).Err(); err != nil {
		s.logger.Warn("Failed to delete staging set", zap.String("key", staging), zap.Error(err))
	}
}

// Close closes the Redis client
func (s *RedisStore) Close() error {
	return s.client.Close()
}
