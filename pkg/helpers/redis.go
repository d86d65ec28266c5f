package helpers

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// SessionKey is the Redis hash holding a user's live session.
func SessionKey(userID string) string {
	return "user:session:" + userID
}

// NewRedisClient initializes a redis client and pings it.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}

// RedisDel removes key; a missing key is not an error.
func RedisDel(ctx context.Context, rdb *redis.Client, key string) error {
	return rdb.Del(ctx, key).Err()
}
