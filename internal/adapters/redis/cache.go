package redis

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand/v2"
	"time"

	pkgerrors "github.com/pkg/errors"
	goredis "github.com/redis/go-redis/v9"
)

// Cache stores JSON encoded values of T under "<prefix>:<id>".
type Cache[T any] struct {
	client *Client
	prefix string
	jitter float64
}

type CacheOption func(*cacheSettings)

type cacheSettings struct {
	jitter float64
}

// WithJitter spreads Set expirations over [ttl, ttl*(1+fraction)) so entries
// written together do not expire together. Values outside (0, 1] disable it.
func WithJitter(fraction float64) CacheOption {
	return func(s *cacheSettings) {
		if fraction > 0 && fraction <= 1 {
			s.jitter = fraction
		}
	}
}

func NewCache[T any](client *Client, prefix string, opts ...CacheOption) *Cache[T] {
	var settings cacheSettings
	for _, opt := range opts {
		opt(&settings)
	}
	return &Cache[T]{client: client, prefix: prefix, jitter: settings.jitter}
}

func (c *Cache[T]) key(id string) string {
	return c.prefix + ":" + id
}

func (c *Cache[T]) Get(ctx context.Context, id string) (*T, error) {
	data, err := c.client.Get(ctx, c.key(id))
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "cache %s: get %s", c.prefix, id)
	}

	var value T
	if err := json.Unmarshal([]byte(data), &value); err != nil {
		// stale shape, let the caller refill it
		_ = c.client.Del(ctx, c.key(id))
		return nil, pkgerrors.Wrapf(err, "cache %s: decode %s", c.prefix, id)
	}
	return &value, nil
}

// Set overwrites the entry. A nil value removes it.
func (c *Cache[T]) Set(ctx context.Context, id string, value *T, ttl time.Duration) error {
	if value == nil {
		return c.Del(ctx, id)
	}
	data, err := c.encode(id, value)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, c.key(id), data, c.spread(ttl)); err != nil {
		return pkgerrors.Wrapf(err, "cache %s: set %s", c.prefix, id)
	}
	return nil
}

// SetNX writes only when the key is absent. The ttl is used as given since
// callers rely on it for lock expiry.
func (c *Cache[T]) SetNX(ctx context.Context, id string, value *T, ttl time.Duration) (bool, error) {
	data, err := c.encode(id, value)
	if err != nil {
		return false, err
	}
	ok, err := c.client.SetNX(ctx, c.key(id), data, ttl)
	if err != nil {
		return false, pkgerrors.Wrapf(err, "cache %s: setnx %s", c.prefix, id)
	}
	return ok, nil
}

func (c *Cache[T]) Del(ctx context.Context, id string) error {
	if err := c.client.Del(ctx, c.key(id)); err != nil {
		return pkgerrors.Wrapf(err, "cache %s: del %s", c.prefix, id)
	}
	return nil
}

func (c *Cache[T]) encode(id string, value *T) (string, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return "", pkgerrors.Wrapf(err, "cache %s: encode %s", c.prefix, id)
	}
	return string(data), nil
}

func (c *Cache[T]) spread(ttl time.Duration) time.Duration {
	if c.jitter == 0 || ttl <= 0 {
		return ttl
	}
	return ttl + time.Duration(rand.Float64()*c.jitter*float64(ttl))
}
