package app

import (
	"fmt"

	"github.com/yungbote/mavedb-backend/internal/clients/redis"
	"github.com/yungbote/mavedb-backend/internal/platform/logger"
	"github.com/yungbote/mavedb-backend/internal/platform/viewcache"
)

type Clients struct {
	ViewCache viewcache.Cache
	closers   []func() error
}

// wireClients picks the score set view cache: redis when an address is configured,
// otherwise in-process memory.
func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	if cfg.RedisAddr != "" {
		rc, err := redis.NewViewCache(log, cfg.RedisAddr, cfg.CacheTTL)
		if err != nil {
			return Clients{}, fmt.Errorf("init redis view cache: %w", err)
		}
		c := Clients{ViewCache: rc}
		if closer, ok := rc.(interface{ Close() error }); ok {
			c.closers = append(c.closers, closer.Close)
		}
		return c, nil
	}
	if cfg.CacheTTL <= 0 {
		return Clients{ViewCache: viewcache.Nop()}, nil
	}
	return Clients{ViewCache: viewcache.NewMemory(cfg.CacheTTL)}, nil
}

func (c Clients) Close() {
	for _, fn := range c.closers {
		_ = fn()
	}
}
