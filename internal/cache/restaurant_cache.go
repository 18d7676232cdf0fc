// Package cache keeps single-restaurant reads in Redis. A cache without a
// client does nothing, so callers never branch on whether Redis is configured.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Baaaki/restaurant-directory/internal/metrics"
	"github.com/Baaaki/restaurant-directory/internal/models"
	"github.com/Baaaki/restaurant-directory/pkg/logger"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type RestaurantCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRestaurantCache(client *redis.Client, ttl time.Duration) *RestaurantCache {
	return &RestaurantCache{client: client, ttl: ttl}
}

func key(id uuid.UUID) string {
	return "restaurant:" + id.String()
}

// genKey counts invalidations of one restaurant. A loaded value is cached
// only if the count did not move while it was being loaded.
func genKey(id uuid.UUID) string {
	return "restaurant:" + id.String() + ":gen"
}

var errStale = errors.New("restaurant changed while loading")

func (c *RestaurantCache) enabled() bool {
	return c != nil && c.client != nil
}

// Get returns (nil, nil) on a miss.
func (c *RestaurantCache) Get(ctx context.Context, id uuid.UUID) (*models.Restaurant, error) {
	if !c.enabled() {
		return nil, nil
	}

	raw, err := c.client.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		return nil, nil
	}
	if err != nil {
		metrics.CacheLookups.WithLabelValues("error").Inc()
		return nil, err
	}

	var restaurant models.Restaurant
	if err := json.Unmarshal(raw, &restaurant); err != nil {
		metrics.CacheLookups.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.CacheLookups.WithLabelValues("hit").Inc()
	return &restaurant, nil
}

func (c *RestaurantCache) Set(ctx context.Context, restaurant *models.Restaurant) error {
	if !c.enabled() || restaurant == nil {
		return nil
	}
	data, err := json.Marshal(restaurant)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key(restaurant.ID), data, c.ttl).Err()
}

// Invalidate drops the cached copy and bumps the generation so that reads
// already in flight do not store what they loaded. Failures are logged, not
// returned: the entry still expires after the TTL.
func (c *RestaurantCache) Invalidate(ctx context.Context, id uuid.UUID) {
	if !c.enabled() {
		return
	}
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, genKey(id))
		pipe.Del(ctx, key(id))
		return nil
	})
	if err != nil {
		logger.Log.Warn("Failed to invalidate restaurant cache",
			zap.String("restaurant_id", id.String()),
			zap.Error(err),
		)
	}
}

func (c *RestaurantCache) generation(ctx context.Context, id uuid.UUID) (int64, error) {
	gen, err := c.client.Get(ctx, genKey(id)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// setIfCurrent stores restaurant unless its generation moved past gen.
func (c *RestaurantCache) setIfCurrent(ctx context.Context, restaurant *models.Restaurant, gen int64) error {
	data, err := json.Marshal(restaurant)
	if err != nil {
		return err
	}

	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, genKey(restaurant.ID)).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != gen {
			return errStale
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key(restaurant.ID), data, c.ttl)
			return nil
		})
		return err
	}, genKey(restaurant.ID))
	if errors.Is(err, redis.TxFailedErr) {
		return errStale
	}
	return err
}

// GetOrLoad serves from Redis and falls back to load on a miss or a Redis
// error. The loaded value is stored best-effort, and never when the
// restaurant was invalidated during the load.
func (c *RestaurantCache) GetOrLoad(ctx context.Context, id uuid.UUID, load func() (*models.Restaurant, error)) (*models.Restaurant, error) {
	cached, err := c.Get(ctx, id)
	if err != nil {
		logger.Log.Warn("Restaurant cache read failed, falling back to store",
			zap.String("restaurant_id", id.String()),
			zap.Error(err),
		)
	}
	if cached != nil {
		return cached, nil
	}
	if !c.enabled() {
		return load()
	}

	gen, genErr := c.generation(ctx, id)

	restaurant, err := load()
	if err != nil {
		return nil, err
	}
	if genErr != nil || restaurant == nil {
		return restaurant, nil
	}

	switch err := c.setIfCurrent(ctx, restaurant, gen); {
	case errors.Is(err, errStale):
		logger.Log.Debug("Restaurant changed while loading, not caching",
			zap.String("restaurant_id", id.String()),
		)
	case err != nil:
		logger.Log.Warn("Failed to cache restaurant",
			zap.String("restaurant_id", id.String()),
			zap.Error(err),
		)
	}
	return restaurant, nil
}
