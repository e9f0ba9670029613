// internal/sheets/cache.go
package sheets

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"town-connect/internal/common/database"
	stderrors "town-connect/internal/common/errors"
	"town-connect/internal/common/logger"
)

// CachedProvider is a read-through Redis cache in front of another
// Provider. A cache failure is never fatal: reads fall through to the
// inner provider, and write failures are logged and dropped. Disable by
// passing a zero TTL at construction and using the inner provider
// directly instead.
type CachedProvider struct {
	inner  Provider
	redis  *database.RedisClient
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedProvider(inner Provider, redis *database.RedisClient, ttl time.Duration, log logger.Logger) *CachedProvider {
	return &CachedProvider{
		inner:  inner,
		redis:  redis,
		ttl:    ttl,
		logger: log,
	}
}

// cacheKey hashes the URL so published-sheet query strings (which carry
// sheet gids and output format) never leak into key space decisions.
func cacheKey(url string) string {
	sum := sha1.Sum([]byte(url))
	return "sheets:csv:" + hex.EncodeToString(sum[:])
}

func (c *CachedProvider) Fetch(ctx context.Context, url string) (string, error) {
	key := cacheKey(url)

	body, err := c.redis.Get(ctx, key)
	if err == nil {
		return body, nil
	}
	if !errors.Is(err, redis.Nil) {
		cacheErr := stderrors.NewCacheUnavailableError(err)
		c.logger.Warn(cacheErr.Message, map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}

	body, err = c.inner.Fetch(ctx, url)
	if err != nil {
		return "", err
	}

	if err := c.redis.Set(ctx, key, body, c.ttl); err != nil {
		c.logger.Warn("csv cache write failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}

	return body, nil
}
