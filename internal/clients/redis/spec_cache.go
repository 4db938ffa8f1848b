package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	types "github.com/yungbote/sitework-backend/internal/domain"
	"github.com/yungbote/sitework-backend/internal/platform/dbctx"
	"github.com/yungbote/sitework-backend/internal/platform/logger"
)

const defaultSpecTTL = 5 * time.Minute

// SpecFinder is the pair of job-scoped specification queries the engine uses.
type SpecFinder interface {
	FindForMatching(dbc dbctx.Context, jobID uuid.UUID, systemID, areaID *uuid.UUID) ([]*types.Specification, error)
	FindForCompliance(dbc dbctx.Context, jobID uuid.UUID, systemID, areaID *uuid.UUID) ([]*types.Specification, error)
}

// SpecCache reads through to a SpecFinder. Invalidate must be called after
// any write to a job's specifications.
type SpecCache interface {
	SpecFinder
	Invalidate(ctx context.Context, jobID uuid.UUID) error
	Close() error
}

type CacheConfig struct {
	Addr string
	TTL  time.Duration
}

type specCache struct {
	log  *logger.Logger
	rdb  *goredis.Client
	next SpecFinder
	ttl  time.Duration
}

// NewSpecCache connects to redis at cfg.Addr. With an empty address the
// returned cache forwards every call to next.
func NewSpecCache(cfg CacheConfig, next SpecFinder, log *logger.Logger) (SpecCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if next == nil {
		return nil, fmt.Errorf("spec finder required")
	}
	cacheLog := log.With("service", "RedisSpecCache")

	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		cacheLog.Info("REDIS_ADDR not set; specification cache disabled")
		return &specCache{log: cacheLog, next: next}, nil
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = defaultSpecTTL
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

	return &specCache{log: cacheLog, rdb: rdb, next: next, ttl: ttl}, nil
}

func (c *specCache) FindForMatching(dbc dbctx.Context, jobID uuid.UUID, systemID, areaID *uuid.UUID) ([]*types.Specification, error) {
	return c.readThrough(dbc, "match", jobID, systemID, areaID, c.next.FindForMatching)
}

func (c *specCache) FindForCompliance(dbc dbctx.Context, jobID uuid.UUID, systemID, areaID *uuid.UUID) ([]*types.Specification, error) {
	return c.readThrough(dbc, "comply", jobID, systemID, areaID, c.next.FindForCompliance)
}

type finderFunc func(dbc dbctx.Context, jobID uuid.UUID, systemID, areaID *uuid.UUID) ([]*types.Specification, error)

func (c *specCache) readThrough(dbc dbctx.Context, kind string, jobID uuid.UUID, systemID, areaID *uuid.UUID, load finderFunc) ([]*types.Specification, error) {
	// Transactions may hold uncommitted writes; never serve or store them.
	if c.rdb == nil || dbc.Tx != nil {
		return load(dbc, jobID, systemID, areaID)
	}
	ctx := dbc.Context()

	gen, err := c.generation(ctx, jobID)
	if err != nil {
		c.log.Warn("spec cache generation lookup failed", "job_id", jobID, "error", err)
		return load(dbc, jobID, systemID, areaID)
	}
	key := entryKey(kind, jobID, gen, systemID, areaID)

	raw, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var cached []*types.Specification
		uerr := json.Unmarshal(raw, &cached)
		if uerr == nil {
			return cached, nil
		}
		c.log.Warn("spec cache entry unreadable", "key", key, "error", uerr)
	case !errors.Is(err, goredis.Nil):
		c.log.Warn("spec cache read failed", "key", key, "error", err)
	}

	out, err := load(dbc, jobID, systemID, areaID)
	if err != nil {
		return nil, err
	}
	if payload, merr := json.Marshal(out); merr == nil {
		if serr := c.rdb.Set(ctx, key, payload, c.ttl).Err(); serr != nil {
			c.log.Warn("spec cache write failed", "key", key, "error", serr)
		}
	}
	return out, nil
}

func (c *specCache) generation(ctx context.Context, jobID uuid.UUID) (int64, error) {
	gen, err := c.rdb.Get(ctx, generationKey(jobID)).Int64()
	if errors.Is(err, goredis.Nil) {
		return 0, nil
	}
	return gen, err
}

// Invalidate bumps the job's generation so earlier entries are never read
// again; they expire on their own TTL.
func (c *specCache) Invalidate(ctx context.Context, jobID uuid.UUID) error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Incr(ctx, generationKey(jobID)).Err()
}

func (c *specCache) Close() error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

func generationKey(jobID uuid.UUID) string {
	return "spec:gen:" + jobID.String()
}

func entryKey(kind string, jobID uuid.UUID, gen int64, systemID, areaID *uuid.UUID) string {
	return fmt.Sprintf("spec:%s:%s:g%d:%s:%s", kind, jobID, gen, scopePart(systemID), scopePart(areaID))
}

func scopePart(id *uuid.UUID) string {
	if id == nil {
		return "-"
	}
	return id.String()
}
