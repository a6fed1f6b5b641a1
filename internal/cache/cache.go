package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrMiss = errors.New("cache miss")

// Cache is a small JSON-over-Redis layer used for reference data and
// event list responses. Values are stored with a per-cache default TTL.
type Cache struct {
	redisdb *redis.Client
	ttl     time.Duration
}

type Config struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

func New(cfg Config) *Cache {
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * time.Second
	}

	redisdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	return &Cache{redisdb: redisdb, ttl: cfg.TTL}
}

// this ping function checks redis connectivity

func (c *Cache) Ping(ctx context.Context) error {
	return c.redisdb.Ping(ctx).Err()
}

func (c *Cache) Close() error {
	return c.redisdb.Close()
}

func (c *Cache) Get(ctx context.Context, key string, out any) error {
	raw, err := c.redisdb.Get(ctx, key).Bytes()

	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrMiss
		}
		return err
	}

	return json.Unmarshal(raw, out)
}

func (c *Cache) Set(ctx context.Context, key string, val any) error {
	raw, err := json.Marshal(val)

	if err != nil {
		return err
	}

	return c.redisdb.Set(ctx, key, raw, c.ttl).Err()
}

func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.redisdb.Del(ctx, keys...).Err()
}

// DeleteByPrefix drops every key under a prefix. Used to invalidate the
// events list cache after a mutation.
func (c *Cache) DeleteByPrefix(ctx context.Context, prefix string) error {
	iter := c.redisdb.Scan(ctx, 0, prefix+"*", 100).Iterator()

	var keys []string

	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}

	if err := iter.Err(); err != nil {
		return err
	}

	if len(keys) == 0 {
		return nil
	}

	return c.redisdb.Del(ctx, keys...).Err()
}
