package config

import (
	"context"
	"fmt"

	"github.com/matzehuels/jengatower/pkg/cache"
)

// OpenCache constructs the configured cache backend. noCache forces
// [cache.NullCache] regardless of the configured backend.
func (c CacheConfig) OpenCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch c.Backend {
	case BackendNone:
		return cache.NewNullCache(), nil
	case BackendMemory:
		return cache.NewMemoryCache(c.TTL.Duration), nil
	case BackendFile:
		dir := c.Dir
		if dir == "" {
			d, err := DefaultCacheDir()
			if err != nil {
				return nil, err
			}
			dir = d
		}
		return cache.NewFileCache(dir)
	case BackendRedis:
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     c.RedisAddr,
			Password: c.RedisPassword,
			DB:       c.RedisDB,
		})
	case BackendMongo:
		return cache.NewMongoCache(ctx, cache.MongoConfig{
			URI:        c.MongoURI,
			Database:   c.MongoDatabase,
			Collection: c.MongoCollection,
		})
	default:
		return nil, fmt.Errorf("unknown cache backend %q", c.Backend)
	}
}

// Keyer returns the cache keyer, scoped by Prefix when set.
func (c CacheConfig) Keyer() cache.Keyer {
	if c.Prefix == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(cache.NewDefaultKeyer(), c.Prefix)
}
