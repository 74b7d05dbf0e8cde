// Package cache provides a small redis-backed TTL cache used to keep
// listing responses cheap. All operations are no-ops when redis is not
// configured, so the cache can be wired unconditionally.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Listing responses go stale quickly while editing, so the TTL is short.
const (
	TTLListing = 30 * time.Second
	TTLDefault = 5 * time.Minute
)

const prefixListing = "listing:"

// Service is a redis TTL cache interface.
type Service interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error

	// Listing cache
	GetListing(ctx context.Context, key string, dest interface{}) error
	SetListing(ctx context.Context, key string, value interface{}) error
	InvalidateListings(ctx context.Context, contentType, campaignID string) error

	IsAvailable() bool
	Ping(ctx context.Context) error
}

type redisCache struct {
	client *redis.Client
}

// NewService creates a cache service. A nil client disables caching.
func NewService(client *redis.Client) Service {
	return &redisCache{client: client}
}

// IsAvailable reports whether a redis client is configured.
func (c *redisCache) IsAvailable() bool {
	return c.client != nil
}

// Ping tests the redis connection.
func (c *redisCache) Ping(ctx context.Context) error {
	if c.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	return c.client.Ping(ctx).Err()
}

// Get fetches a cached value into dest.
func (c *redisCache) Get(ctx context.Context, key string, dest interface{}) error {
	if c.client == nil {
		return redis.Nil
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

// Set stores a value with a TTL. Silently ignored without redis.
func (c *redisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c.client == nil {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, ttl).Err()
}

// Delete removes keys.
func (c *redisCache) Delete(ctx context.Context, keys ...string) error {
	if c.client == nil || len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

func listingKey(contentType, campaignID, query string) string {
	return fmt.Sprintf("%s%s:%s:%s", prefixListing, contentType, campaignID, query)
}

// GetListing fetches a cached listing response.
func (c *redisCache) GetListing(ctx context.Context, key string, dest interface{}) error {
	return c.Get(ctx, prefixListing+key, dest)
}

// SetListing caches a listing response with the short listing TTL.
func (c *redisCache) SetListing(ctx context.Context, key string, value interface{}) error {
	return c.Set(ctx, prefixListing+key, value, TTLListing)
}

// InvalidateListings drops every cached listing for a (type, campaign)
// pair after a create or delete.
func (c *redisCache) InvalidateListings(ctx context.Context, contentType, campaignID string) error {
	if c.client == nil {
		return nil
	}

	pattern := listingKey(contentType, campaignID, "*")
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	return c.Delete(ctx, keys...)
}
