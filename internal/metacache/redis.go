// internal/metacache/redis.go
// Redis-backed Store, for sharing cached metadata-query results across
// multiple Gateway instances in the same process group. Grounded on the
// teacher's retention.redisStore (same client, same lenient "log and
// swallow" error handling on write since a cache miss is always safe),
// adapted from a capped LPUSH list to a plain SET...EX/GET key-value cache
// since this store holds at most one current answer per query, not a
// retained history of values.
package metacache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nsilva/fjagego/internal/logging"
)

const keyPrefix = "fjage:metacache:"

// Redis is a Store backed by a redis.Client.
type Redis struct {
	cli *redis.Client
}

// NewRedis returns a Store backed by cli.
func NewRedis(cli *redis.Client) *Redis {
	return &Redis{cli: cli}
}

func (r *Redis) Get(key string) ([]byte, bool) {
	ctx := context.Background()
	val, err := r.cli.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logging.Sugar().Warnw("metacache redis get", "key", key, "err", err)
		}
		return nil, false
	}
	return val, true
}

func (r *Redis) Set(key string, value []byte, ttl time.Duration) {
	if ttl < time.Second {
		ttl = time.Second
	}
	ctx := context.Background()
	if err := r.cli.Set(ctx, keyPrefix+key, value, ttl).Err(); err != nil {
		logging.Sugar().Warnw("metacache redis set", "key", key, "err", err)
	}
}
