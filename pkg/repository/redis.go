package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/nodeforest/pkg/forest"
)

// DefaultRedisKey is the key used when RedisConfig.Key is empty.
const DefaultRedisKey = "nodeforest:nodes"

// RedisConfig configures the Redis backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Key      string `toml:"key"`
}

// RedisRepository stores the JSON-encoded node list under one key.
type RedisRepository struct {
	client *redis.Client
	key    string
}

// NewRedisRepository connects to Redis and verifies the connection.
func NewRedisRepository(ctx context.Context, cfg RedisConfig) (*RedisRepository, error) {
	if cfg.Addr == "" {
		return nil, errors.New("redis repository: addr is required")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	err := retry(ctx, connectAttempts, connectDelay, func() error {
		return transient(client.Ping(ctx).Err())
	})
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", cfg.Addr, err)
	}
	return newRedisRepository(client, cfg.Key), nil
}

func newRedisRepository(client *redis.Client, key string) *RedisRepository {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisRepository{client: client, key: key}
}

// Read loads the list. A missing key reads as an empty list.
func (r *RedisRepository) Read(ctx context.Context) ([]forest.Node, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return []forest.Node{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", r.key, err)
	}

	var nodes []forest.Node
	if err := json.Unmarshal(data, &nodes); err != nil {
		return nil, fmt.Errorf("parse %s: %w", r.key, err)
	}
	return nonNil(nodes), nil
}

// Write stores the list with a single SET.
func (r *RedisRepository) Write(ctx context.Context, nodes []forest.Node) error {
	data, err := json.Marshal(nonNil(nodes))
	if err != nil {
		return fmt.Errorf("marshal nodes: %w", err)
	}
	if err := r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		return fmt.Errorf("set %s: %w", r.key, err)
	}
	return nil
}

// Close closes the client.
func (r *RedisRepository) Close() error {
	return r.client.Close()
}

var _ Repository = (*RedisRepository)(nil)
