package services

import (
	"context"
	"encoding/json"
	"errors"

	"shop-backend/internal/cache"
	"shop-backend/internal/models"
)

// cached serves key from Redis when present, otherwise loads and stores it.
func cached[T any](ctx context.Context, key string, load func(context.Context) (T, error)) (T, error) {
	if data, ok := cache.GetCached(ctx, key); ok {
		var v T
		if err := json.Unmarshal(data, &v); err == nil {
			return v, nil
		}
	}
	v, err := load(ctx)
	if err != nil {
		return v, err
	}
	if data, err := json.Marshal(v); err == nil {
		cache.SetCached(ctx, key, data, cache.DefaultCatalogTTL)
	}
	return v, nil
}

// named turns a bare ErrNotFound from a store into "<entity> not found".
func named(err error, entity string) error {
	if errors.Is(err, models.ErrNotFound) {
		return models.NotFound(entity)
	}
	return err
}
