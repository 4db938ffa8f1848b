package app

import (
	"fmt"

	"github.com/yungbote/sitework-backend/internal/clients/redis"
	"github.com/yungbote/sitework-backend/internal/platform/logger"
)

type Clients struct {
	SpecCache redis.SpecCache
}

// wireClients builds the spec cache. Without REDIS_ADDR it reads straight
// from the specification repo.
func wireClients(log *logger.Logger, cfg Config, reposet Repos) (Clients, error) {
	log.Info("Wiring clients...")
	cache, err := redis.NewSpecCache(redis.CacheConfig{
		Addr: cfg.RedisAddr,
		TTL:  cfg.SpecCacheTTL,
	}, reposet.Specification, log)
	if err != nil {
		return Clients{}, fmt.Errorf("init spec cache: %w", err)
	}
	return Clients{SpecCache: cache}, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.SpecCache != nil {
		_ = c.SpecCache.Close()
	}
}
