package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redis "github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/jlgsjlgs/HowMuchAh-backend/internal/domain"
)

// Config is the redis configuration
type Config struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// client is the part of *redis.Client the cache uses
type client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// SettlementCache implements domain.SettlementCache on redis. Settlement
// views are immutable, so the TTL only bounds memory use.
type SettlementCache struct {
	rdb client
	ttl time.Duration
}

// NewClient connects to redis and verifies the connection
func NewClient(ctx context.Context, config Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return rdb, nil
}

// NewSettlementCache creates a cache storing entries for ttl
func NewSettlementCache(rdb *redis.Client, ttl time.Duration) *SettlementCache {
	return &SettlementCache{rdb: rdb, ttl: ttl}
}

func makeKey(id uuid.UUID) string {
	return "settlement:" + id.String()
}

// Get returns the cached view, or false when there is none
func (c *SettlementCache) Get(ctx context.Context, id uuid.UUID) (*domain.SettlementView, bool, error) {
	val, err := c.rdb.Get(ctx, makeKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read settlement from cache: %w", err)
	}

	var view domain.SettlementView
	if err := json.Unmarshal(val, &view); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached settlement: %w", err)
	}
	return &view, true, nil
}

// Set stores the view
func (c *SettlementCache) Set(ctx context.Context, view *domain.SettlementView) error {
	value, err := json.Marshal(view)
	if err != nil {
		return fmt.Errorf("failed to encode settlement: %w", err)
	}

	if err := c.rdb.Set(ctx, makeKey(view.ID), value, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write settlement to cache: %w", err)
	}
	return nil
}
