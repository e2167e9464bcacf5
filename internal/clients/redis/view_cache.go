package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/mavedb-backend/internal/platform/logger"
	"github.com/yungbote/mavedb-backend/internal/platform/viewcache"
)

type viewCache struct {
	log    *logger.Logger
	rdb    *goredis.Client
	ttl    time.Duration
	prefix string
}

// NewViewCache connects to addr and returns a view cache whose entries expire after ttl.
func NewViewCache(log *logger.Logger, addr string, ttl time.Duration) (viewcache.Cache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, fmt.Errorf("missing redis addr")
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return newViewCache(log, rdb, ttl), nil
}

func newViewCache(log *logger.Logger, rdb *goredis.Client, ttl time.Duration) *viewCache {
	return &viewCache{
		log:    log.With("service", "RedisViewCache"),
		rdb:    rdb,
		ttl:    ttl,
		prefix: "mavedb:view:",
	}
}

func (c *viewCache) Get(ctx context.Context, key string) ([]byte, bool) {
	b, err := c.rdb.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false
	}
	if err != nil {
		c.log.Warn("view cache get failed", "key", key, "error", err)
		return nil, false
	}
	return b, true
}

func (c *viewCache) Set(ctx context.Context, key string, val []byte) {
	if err := c.rdb.Set(ctx, c.prefix+key, val, c.ttl).Err(); err != nil {
		c.log.Warn("view cache set failed", "key", key, "error", err)
	}
}

func (c *viewCache) Delete(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	full := make([]string, 0, len(keys))
	for _, k := range keys {
		full = append(full, c.prefix+k)
	}
	if err := c.rdb.Del(ctx, full...).Err(); err != nil {
		c.log.Warn("view cache delete failed", "keys", keys, "error", err)
	}
}

func (c *viewCache) Close() error {
	return c.rdb.Close()
}
