package infra

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// NewRedis dials redis from a connection URL and pings it once so a bad
// address or credentials fail at startup instead of on the first request.
func NewRedis(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return rdb, nil
}
