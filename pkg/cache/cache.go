// Package cache keeps rendered artifacts in Redis. A nil *RenderCache is
// valid and behaves as an always-empty cache.
package cache

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	"github.com/0x0FACED/fortune-lloyd/pkg/config"
	"github.com/0x0FACED/fortune-lloyd/pkg/logger"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "voronoi:"

type RenderCache struct {
	rc  *redis.Client
	ttl time.Duration
	log *logger.ZapLogger
}

// New opens a client for cfg. It returns nil when no address is
// configured.
func New(cfg config.Redis, log *logger.ZapLogger) *RenderCache {
	if cfg.Addr == "" {
		return nil
	}
	if log == nil {
		log = logger.NewNop()
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	log.Debug("[cache] redis", zap.String("addr", cfg.Addr), zap.Int("db", cfg.DB))
	return &RenderCache{
		rc:  redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		ttl: ttl,
		log: log,
	}
}

// Get returns the cached value for key. Misses and Redis failures both
// report ok == false; failures are logged and not returned.
func (c *RenderCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	val, err := c.rc.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("[cache] get failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	return val, true
}

// Set stores val under key with the configured TTL.
func (c *RenderCache) Set(ctx context.Context, key string, val []byte) error {
	if c == nil {
		return nil
	}
	if err := c.rc.Set(ctx, key, val, c.ttl).Err(); err != nil {
		return errors.Wrapf(err, "cache set %s", key)
	}
	return nil
}

func (c *RenderCache) Close() error {
	if c == nil {
		return nil
	}
	return c.rc.Close()
}

// Key builds a cache key from the artifact kind and the parameters that
// determine it.
func Key(kind string, params ...any) string {
	h := fnv.New64a()
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = fmt.Sprint(p)
	}
	_, _ = h.Write([]byte(strings.Join(parts, "|")))
	return fmt.Sprintf("%s%s:%016x", keyPrefix, kind, h.Sum64())
}
