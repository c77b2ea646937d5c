package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore は複数インスタンスで共有するカウンタ
type RedisStore struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix, now: time.Now}
}

func (s *RedisStore) key(k string) string {
	return fmt.Sprintf("%s:ratelimit:%s", s.prefix, k)
}

func (s *RedisStore) Hit(ctx context.Context, key string, d time.Duration) (int64, time.Time, error) {
	k := s.key(key)

	count, err := s.client.Incr(ctx, k).Result()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("ratelimit incr: %w", err)
	}
	if count == 1 {
		if err := s.client.PExpire(ctx, k, d).Err(); err != nil {
			return 0, time.Time{}, fmt.Errorf("ratelimit expire: %w", err)
		}
	}

	ttl, err := s.client.PTTL(ctx, k).Result()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("ratelimit ttl: %w", err)
	}
	//期限が付いていない（expire前に落ちた等）なら付け直す
	if ttl < 0 {
		if err := s.client.PExpire(ctx, k, d).Err(); err != nil {
			return 0, time.Time{}, fmt.Errorf("ratelimit expire: %w", err)
		}
		ttl = d
	}

	return count, s.now().Add(ttl), nil
}
