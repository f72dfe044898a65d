package denylist

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps cutoffs as unix-nanosecond strings under "<prefix><subject>".
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a Redis-backed store. Prefix may be empty.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "denylist:"
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (r *RedisStore) key(subject string) string {
	return r.prefix + subject
}

func (r *RedisStore) SetCutoff(ctx context.Context, subject string, cutoff time.Time, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = time.Second
	}
	return r.client.Set(ctx, r.key(subject), strconv.FormatInt(cutoff.UnixNano(), 10), ttl).Err()
}

func (r *RedisStore) Cutoff(ctx context.Context, subject string) (time.Time, bool, error) {
	s, err := r.client.Get(ctx, r.key(subject)).Result()
	if err != nil {
		if err == redis.Nil {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, err
	}
	ns, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}, false, err
	}
	return time.Unix(0, ns).UTC(), true, nil
}
