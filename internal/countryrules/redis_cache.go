package countryrules

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"donor-field-workers/internal/common/logger"
	"donor-field-workers/internal/common/metrics"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "country:rule:"

// RedisCache is a read-through cache in front of another Source, shared by
// every worker process. Only found records are cached.
type RedisCache struct {
	source Source
	client redis.Cmdable
	ttl    time.Duration
	logger logger.Logger
}

func NewRedisCache(source Source, client redis.Cmdable, ttl time.Duration, log logger.Logger) *RedisCache {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &RedisCache{source: source, client: client, ttl: ttl, logger: log}
}

func (c *RedisCache) Name() string { return c.source.Name() }

func redisKey(name string) string {
	return redisKeyPrefix + NormalizeName(name)
}

func (c *RedisCache) FetchCountry(ctx context.Context, name string) (*CountryRecord, error) {
	key := redisKey(name)

	data, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var rec CountryRecord
		if jsonErr := json.Unmarshal(data, &rec); jsonErr == nil {
			metrics.CountryRuleLookups.WithLabelValues("redis", OutcomeHit).Inc()
			return &rec, nil
		}
		c.logger.Warn("Discarding unreadable cached country record", map[string]interface{}{"key": key})
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("Redis cache read failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}

	rec, err := c.source.FetchCountry(ctx, name)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(rec); err == nil {
		if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
			c.logger.Warn("Redis cache write failed", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
		}
	}
	return rec, nil
}
