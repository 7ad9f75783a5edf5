package cache

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Catalog cache keys
const (
	CategoriesKey     = "categories:list"
	ItemsAllKey       = "items:all"
	ItemsCategoryFmt  = "items:category:%d"
	OrderedItemsKey   = "items:ordered"
	PayListKey        = "paylist:list"
	PayListTotalKey   = "paylist:total"
	loginAttemptsFmt  = "auth:failed:%s"
	loginAttemptsTTL  = 15 * time.Minute
	DefaultCatalogTTL = 5 * time.Minute
)

var client *redis.Client

// Init connects to Redis. On failure the client stays nil and every cache
// call becomes a no-op, so the API keeps working straight from Postgres.
func Init(addr, password string, db int) error {
	client = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		// Close the failed client and set to nil for graceful degradation
		client.Close()
		client = nil
		return err
	}
	log.Printf("[Redis] Connected to %s", addr)
	return nil
}

// SetClient replaces the package client. Passing nil disables caching.
func SetClient(c *redis.Client) {
	client = c
}

// GetClient returns the Redis client
func GetClient() *redis.Client {
	return client
}

func ItemsKey(categoryID *int) string {
	if categoryID == nil {
		return ItemsAllKey
	}
	return fmt.Sprintf(ItemsCategoryFmt, *categoryID)
}

// GetCached returns cached data for a key
func GetCached(ctx context.Context, key string) ([]byte, bool) {
	if client == nil {
		return nil, false
	}
	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// SetCached stores data with a TTL
func SetCached(ctx context.Context, key string, data []byte, ttl time.Duration) {
	if client == nil {
		return
	}
	client.Set(ctx, key, data, ttl)
}

// InvalidatePattern removes all keys matching a glob pattern
func InvalidatePattern(ctx context.Context, pattern string) {
	if client == nil {
		return
	}
	keys, err := client.Keys(ctx, pattern).Result()
	if err == nil && len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}

// InvalidateKeys removes specific cache keys
func InvalidateKeys(ctx context.Context, keys ...string) {
	if client == nil || len(keys) == 0 {
		return
	}
	client.Del(ctx, keys...)
}

// InvalidateCategoryCaches clears category lists and the item lists that
// embed category names.
// Called when: CreateCategory, RenameCategory, DeleteCategory, Import
func InvalidateCategoryCaches(ctx context.Context) {
	InvalidateKeys(ctx, CategoriesKey)
	InvalidateItemCaches(ctx)
}

// InvalidateItemCaches clears all item lists.
// Called when: any item create, rename, quantity change, delete or reset
func InvalidateItemCaches(ctx context.Context) {
	InvalidatePattern(ctx, "items:*")
}

// InvalidatePayListCaches clears the pay list and its total.
func InvalidatePayListCaches(ctx context.Context) {
	InvalidateKeys(ctx, PayListKey, PayListTotalKey)
}

// RegisterFailedLogin increments the failure counter for key and returns
// the new count. Without Redis it always reports 0.
func RegisterFailedLogin(ctx context.Context, key string) int64 {
	if client == nil {
		return 0
	}
	k := fmt.Sprintf(loginAttemptsFmt, key)
	n, err := client.Incr(ctx, k).Result()
	if err != nil {
		return 0
	}
	if n == 1 {
		client.Expire(ctx, k, loginAttemptsTTL)
	}
	return n
}

// FailedLogins returns the current failure count for key.
func FailedLogins(ctx context.Context, key string) int64 {
	if client == nil {
		return 0
	}
	n, err := client.Get(ctx, fmt.Sprintf(loginAttemptsFmt, key)).Int64()
	if err != nil {
		return 0
	}
	return n
}

// ClearFailedLogins resets the counter after a successful login.
func ClearFailedLogins(ctx context.Context, key string) {
	InvalidateKeys(ctx, fmt.Sprintf(loginAttemptsFmt, key))
}

// IsHealthy returns true if Redis connection is working
func IsHealthy() bool {
	if client == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return client.Ping(ctx).Err() == nil
}
