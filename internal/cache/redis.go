// Package cache keeps the last good snapshot of each dashboard collection in
// Redis so a freshly mounted dashboard has something to show before its first
// fetch returns.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/eventspark/config"
	"github.com/Domenick1991/eventspark/internal/domain"
	"github.com/redis/go-redis/v9"
)

const DefaultSnapshotTTL = 10 * time.Minute

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(cfg config.RedisConfig) *RedisCache {
	ttl := time.Duration(cfg.SnapshotTTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = DefaultSnapshotTTL
	}
	return &RedisCache{
		client: redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		ttl:    ttl,
	}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// GetEvents returns nil without error on a miss.
func (c *RedisCache) GetEvents(ctx context.Context, scope string) ([]domain.Event, error) {
	var events []domain.Event
	if err := c.get(ctx, eventsKey(scope), &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (c *RedisCache) SetEvents(ctx context.Context, scope string, events []domain.Event) error {
	return c.set(ctx, eventsKey(scope), events)
}

func (c *RedisCache) GetBookings(ctx context.Context, scope string) ([]domain.Booking, error) {
	var bookings []domain.Booking
	if err := c.get(ctx, bookingsKey(scope), &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (c *RedisCache) SetBookings(ctx context.Context, scope string, bookings []domain.Booking) error {
	return c.set(ctx, bookingsKey(scope), bookings)
}

func (c *RedisCache) GetUsers(ctx context.Context) (domain.Buckets, error) {
	var buckets domain.Buckets
	if err := c.get(ctx, usersKey(), &buckets); err != nil {
		return nil, err
	}
	return buckets, nil
}

func (c *RedisCache) SetUsers(ctx context.Context, buckets domain.Buckets) error {
	return c.set(ctx, usersKey(), buckets)
}

func (c *RedisCache) get(ctx context.Context, key string, dst any) error {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("get %s: %w", key, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

func (c *RedisCache) set(ctx context.Context, key string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return c.client.Set(ctx, key, payload, c.ttl).Err()
}

func eventsKey(scope string) string {
	return fmt.Sprintf("cache:events:%s", scopeOrAnonymous(scope))
}

func bookingsKey(scope string) string {
	return fmt.Sprintf("cache:bookings:%s", scopeOrAnonymous(scope))
}

func usersKey() string {
	return "cache:users"
}

func scopeOrAnonymous(scope string) string {
	if scope == "" {
		return "anonymous"
	}
	return scope
}
