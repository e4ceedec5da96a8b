package redisStore

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

func (s *Store) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return s.client.Set(ctx, key, value, expiration).Err()
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	return s.client.Get(ctx, key).Result()
}

func (s *Store) Del(ctx context.Context, keys ...string) error {
	return s.client.Del(ctx, keys...).Err()
}

func (s *Store) IsNil(err error) bool {
	return errors.Is(err, redis.Nil)
}

// ServerTime is the redis server clock, used where a record must not carry the
// client's time.
func (s *Store) ServerTime(ctx context.Context) (time.Time, error) {
	return s.client.Time(ctx).Result()
}

// AppendRecord writes the hash at key and pushes key onto the index list in one
// transaction, so a record is never listed without its body.
func (s *Store) AppendRecord(ctx context.Context, indexKey string, key string, fields map[string]interface{}) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, fields)
		pipe.LPush(ctx, indexKey, key)
		return nil
	})
	return err
}

func (s *Store) HashGetAll(ctx context.Context, key string) (map[string]string, error) {
	return s.client.HGetAll(ctx, key).Result()
}

// ListHead returns up to count newest entries of a list written with LPUSH.
func (s *Store) ListHead(ctx context.Context, key string, count int64) ([]string, error) {
	if count < 1 {
		return []string{}, nil
	}
	return s.client.LRange(ctx, key, 0, count-1).Result()
}
