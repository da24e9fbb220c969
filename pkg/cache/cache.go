package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache TTLs
const (
	TTLUnread    = 1 * time.Minute  // unread counters (invalidated on write anyway)
	TTLUser      = 5 * time.Minute  // user profiles
	TTLDashboard = 2 * time.Minute  // admin dashboard aggregates
	TTLDefault   = 5 * time.Minute
)

// Cache key prefixes
const (
	PrefixUnreadNotifications = "unread:notifications:"
	PrefixUnreadMessages      = "unread:messages:"
	PrefixUser                = "user:"
	PrefixDashboard           = "dashboard:summary"
)

// ErrMiss is returned when a key is absent
var ErrMiss = errors.New("cache miss")

// Service Redis-backed cache interface
type Service interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error

	// Unread counters
	GetUnreadNotifications(ctx context.Context, userID int64) (int64, error)
	SetUnreadNotifications(ctx context.Context, userID int64, count int64) error
	InvalidateUnread(ctx context.Context, userID int64) error

	// User cache
	InvalidateUser(ctx context.Context, userID int64) error

	// Dashboard cache
	GetDashboard(ctx context.Context, dest interface{}) error
	SetDashboard(ctx context.Context, data interface{}) error
	InvalidateDashboard(ctx context.Context) error

	IsAvailable() bool
	Ping(ctx context.Context) error
}

type redisCache struct {
	client *redis.Client
}

// NewService creates a new cache service
func NewService(client *redis.Client) Service {
	return &redisCache{client: client}
}

// IsAvailable reports whether the Redis client is configured
func (c *redisCache) IsAvailable() bool {
	return c.client != nil
}

// Ping verifies the Redis connection
func (c *redisCache) Ping(ctx context.Context) error {
	if c.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	return c.client.Ping(ctx).Err()
}

func (c *redisCache) Get(ctx context.Context, key string, dest interface{}) error {
	if c.client == nil {
		return ErrMiss
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrMiss
		}
		return err
	}
	return json.Unmarshal(data, dest)
}

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

func (c *redisCache) Delete(ctx context.Context, keys ...string) error {
	if c.client == nil || len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

// GetUnreadNotifications returns the cached unread notification count
func (c *redisCache) GetUnreadNotifications(ctx context.Context, userID int64) (int64, error) {
	if c.client == nil {
		return 0, ErrMiss
	}
	n, err := c.client.Get(ctx, unreadNotificationsKey(userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, ErrMiss
	}
	return n, err
}

// SetUnreadNotifications caches the unread notification count
func (c *redisCache) SetUnreadNotifications(ctx context.Context, userID int64, count int64) error {
	if c.client == nil {
		return nil
	}
	return c.client.Set(ctx, unreadNotificationsKey(userID), count, TTLUnread).Err()
}

// InvalidateUnread drops all unread counters for a user
func (c *redisCache) InvalidateUnread(ctx context.Context, userID int64) error {
	return c.Delete(ctx,
		unreadNotificationsKey(userID),
		fmt.Sprintf("%s%d", PrefixUnreadMessages, userID),
	)
}

// InvalidateUser drops the cached user profile
func (c *redisCache) InvalidateUser(ctx context.Context, userID int64) error {
	return c.Delete(ctx, fmt.Sprintf("%s%d", PrefixUser, userID))
}

// GetDashboard reads the cached admin dashboard summary
func (c *redisCache) GetDashboard(ctx context.Context, dest interface{}) error {
	return c.Get(ctx, PrefixDashboard, dest)
}

// SetDashboard caches the admin dashboard summary
func (c *redisCache) SetDashboard(ctx context.Context, data interface{}) error {
	return c.Set(ctx, PrefixDashboard, data, TTLDashboard)
}

// InvalidateDashboard drops the cached dashboard summary
func (c *redisCache) InvalidateDashboard(ctx context.Context) error {
	return c.Delete(ctx, PrefixDashboard)
}

func unreadNotificationsKey(userID int64) string {
	return fmt.Sprintf("%s%d", PrefixUnreadNotifications, userID)
}
