package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/chordsense/chordsense/logging"
)

// ResultCache keeps finished results in Redis with a TTL so repeated
// requests for the same source skip reprocessing. The cache is an
// optimization only: every failure surfaces as a CacheError that callers
// absorb, and the job store stays authoritative.
type ResultCache struct {
	client *redis.Client
	ttl    time.Duration
	logger logging.Logger
}

// NewResultCache creates a cache over the given Redis client. A nil client
// disables caching; every operation becomes a no-op miss.
func NewResultCache(client *redis.Client, ttl time.Duration) *ResultCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &ResultCache{
		client: client,
		ttl:    ttl,
		logger: logging.WithFields(logging.Fields{"component": "result_cache"}),
	}
}

func cacheKey(sourceKey string) string {
	return "chordsense:result:" + sourceKey
}

// Put stores a result under the source key
func (c *ResultCache) Put(ctx context.Context, sourceKey string, result *ProcessingResult) error {
	if c.client == nil {
		return nil
	}

	data, err := json.Marshal(result)
	if err != nil {
		return &CacheError{Op: "put", Err: err}
	}

	if err := c.client.Set(ctx, cacheKey(sourceKey), data, c.ttl).Err(); err != nil {
		return &CacheError{Op: "put", Err: err}
	}

	c.logger.Debug("result cached", logging.Fields{"key": sourceKey, "ttl": c.ttl.String()})
	return nil
}

// Get fetches a cached result. A miss returns (nil, nil).
func (c *ResultCache) Get(ctx context.Context, sourceKey string) (*ProcessingResult, error) {
	if c.client == nil {
		return nil, nil
	}

	data, err := c.client.Get(ctx, cacheKey(sourceKey)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, &CacheError{Op: "get", Err: err}
	}

	var result ProcessingResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, &CacheError{Op: "get", Err: err}
	}

	return &result, nil
}
