package cache

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// Cache is a read-through byte cache. A Cache without a redis client passes
// every read straight to the loader.
type Cache struct {
	RDB    *redis.Client
	Prefix string
	sf     singleflight.Group
}

// New returns a pass-through cache when addr is empty.
func New(addr, pass string, db int) *Cache {
	if addr == "" {
		return &Cache{}
	}
	return &Cache{
		RDB:    redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}),
		Prefix: "cms:",
	}
}

func (c *Cache) Enabled() bool { return c != nil && c.RDB != nil }

func (c *Cache) Ping(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	return c.RDB.Ping(ctx).Err()
}

func (c *Cache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.RDB.Close()
}

func (c *Cache) key(k string) string { return c.Prefix + k }

// GetOrLoad treats an empty key as uncacheable: load runs and nothing is stored.
func (c *Cache) GetOrLoad(ctx context.Context, key string, ttl time.Duration, load func(context.Context) ([]byte, error)) ([]byte, error) {
	if !c.Enabled() || key == "" {
		return load(ctx)
	}
	k := c.key(key)
	if b, err := c.RDB.Get(ctx, k).Bytes(); err == nil {
		return b, nil
	}
	// concurrent misses on one key share a single load
	v, err, _ := c.sf.Do(k, func() (any, error) {
		b, e := load(ctx)
		if e != nil {
			return nil, e
		}
		_ = c.RDB.Set(ctx, k, b, ttl).Err()
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// Generation returns the current version of namespace ns. Keys built with it
// go stale as soon as Bump is called. A namespace never bumped is at 0.
func (c *Cache) Generation(ctx context.Context, ns string) (int64, error) {
	if !c.Enabled() {
		return 0, nil
	}
	n, err := c.RDB.Get(ctx, c.key(ns+":gen")).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (c *Cache) Bump(ctx context.Context, ns string) error {
	if !c.Enabled() {
		return nil
	}
	return c.RDB.Incr(ctx, c.key(ns+":gen")).Err()
}

// VersionedKey builds "<ns>:v<gen>:<parts...>" with every part query-escaped,
// so a ':' inside a part cannot shift the boundaries. It returns "" when the
// generation cannot be read.
func (c *Cache) VersionedKey(ctx context.Context, ns string, parts ...string) string {
	gen, err := c.Generation(ctx, ns)
	if err != nil {
		return ""
	}
	k := ns + ":v" + strconv.FormatInt(gen, 10)
	for _, p := range parts {
		k += ":" + url.QueryEscape(p)
	}
	return k
}
