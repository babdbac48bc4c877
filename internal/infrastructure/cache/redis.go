package cache

import (
	"context"
	"encoding/json"
	"time"

	"marketdata-service/internal/application"
	"marketdata-service/internal/domain"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Redis stores quotes under a key prefix with the TTL enforced by Redis
// itself. Read/unmarshal failures degrade to cache misses so a flaky Redis
// never takes the quote path down.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
	log    *zap.Logger
}

var _ application.QuoteCache = (*Redis)(nil)

func NewRedis(client *redis.Client, ttl time.Duration, prefix string, log *zap.Logger) *Redis {
	if prefix == "" {
		prefix = "quote:"
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Redis{client: client, ttl: ttl, prefix: prefix, log: log}
}

func (c *Redis) Get(ctx context.Context, symbol string) (domain.Quote, bool) {
	raw, err := c.client.Get(ctx, c.prefix+symbol).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn("redis_cache_get_failed", zap.String("symbol", symbol), zap.Error(err))
		}
		return domain.Quote{}, false
	}
	var q domain.Quote
	if err := json.Unmarshal(raw, &q); err != nil {
		c.log.Warn("redis_cache_decode_failed", zap.String("symbol", symbol), zap.Error(err))
		return domain.Quote{}, false
	}
	return q, true
}

func (c *Redis) Put(ctx context.Context, symbol string, q domain.Quote) {
	raw, err := json.Marshal(q)
	if err != nil {
		c.log.Warn("redis_cache_encode_failed", zap.String("symbol", symbol), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, c.prefix+symbol, raw, c.ttl).Err(); err != nil {
		c.log.Warn("redis_cache_set_failed", zap.String("symbol", symbol), zap.Error(err))
	}
}

func (c *Redis) Clear(ctx context.Context) {
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, c.prefix+"*", 100).Result()
		if err != nil {
			c.log.Warn("redis_cache_clear_failed", zap.Error(err))
			return
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				c.log.Warn("redis_cache_clear_failed", zap.Error(err))
				return
			}
		}
		cursor = next
		if cursor == 0 {
			return
		}
	}
}
