package redis

import (
	"context"
	"fmt"
	"time"

	pkgerrors "github.com/pkg/errors"
	goredis "github.com/redis/go-redis/v9"
)

// fixedWindowScript counts a hit and starts the window on the first one.
var fixedWindowScript = goredis.NewScript(`
local hits = redis.call('INCR', KEYS[1])
if hits == 1 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return hits
`)

// RateLimiter counts hits per key in fixed windows shared by every instance.
type RateLimiter struct {
	client *Client
	prefix string
}

func NewRateLimiter(client *Client, prefix string) *RateLimiter {
	return &RateLimiter{client: client, prefix: prefix}
}

func (r *RateLimiter) key(key string) string {
	return fmt.Sprintf("%s:%s", r.prefix, key)
}

func (r *RateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	if limit <= 0 {
		return false, nil
	}

	hits, err := fixedWindowScript.Run(ctx, r.client.rdb, []string{r.key(key)}, window.Milliseconds()).Int()
	if err != nil {
		return false, pkgerrors.Wrapf(err, "rate limit %s", key)
	}
	return hits <= limit, nil
}
