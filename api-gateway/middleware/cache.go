package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/tair/sweet-shop/pkg/logger"
)

const cacheKeyPrefix = "cache:sweets:"

// CacheMiddleware caches catalog reads in Redis. Only GET responses
// under /api/sweets are cached; any write under the same prefix drops
// the whole cache so stale quantities never survive a stock operation.
func CacheMiddleware(redisClient *redis.Client, ttl time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !strings.HasPrefix(c.Path(), "/api/sweets") {
			return c.Next()
		}

		if c.Method() != fiber.MethodGet {
			err := c.Next()
			if c.Response().StatusCode() < 400 {
				invalidate(c, redisClient)
			}
			return err
		}

		key := cacheKey(c)
		ctx := c.UserContext()

		cached, err := redisClient.Get(ctx, key).Bytes()
		if err == nil && len(cached) > 0 {
			logger.Logger.Debug().
				Str("path", c.Path()).
				Msg("Cache hit")

			c.Set("X-Cache", "HIT")
			c.Set("Content-Type", "application/json")
			return c.Send(cached)
		}

		err = c.Next()

		if c.Response().StatusCode() == fiber.StatusOK {
			body := c.Response().Body()
			if setErr := redisClient.Set(ctx, key, body, ttl).Err(); setErr != nil {
				logger.Logger.Warn().
					Err(setErr).
					Str("path", c.Path()).
					Msg("Failed to cache response")
			}
			c.Set("X-Cache", "MISS")
		}

		return err
	}
}

// cacheKey hashes method, path, query and the caller's token. Keying on
// the token keeps responses private to the user who fetched them.
func cacheKey(c *fiber.Ctx) string {
	components := fmt.Sprintf("%s:%s:%s:%s",
		c.Method(),
		c.Path(),
		string(c.Request().URI().QueryString()),
		c.Get("Authorization"),
	)

	hash := sha256.Sum256([]byte(components))
	return cacheKeyPrefix + hex.EncodeToString(hash[:])
}

// invalidate removes all cached catalog responses.
func invalidate(c *fiber.Ctx, redisClient *redis.Client) {
	ctx := c.UserContext()
	iter := redisClient.Scan(ctx, 0, cacheKeyPrefix+"*", 0).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		logger.Logger.Warn().Err(err).Msg("Cache invalidation scan failed")
		return
	}

	if len(keys) == 0 {
		return
	}

	if err := redisClient.Del(ctx, keys...).Err(); err != nil {
		logger.Logger.Warn().Err(err).Msg("Cache invalidation failed")
		return
	}

	logger.Logger.Debug().
		Int("count", len(keys)).
		Str("path", c.Path()).
		Msg("Catalog cache invalidated")
}
