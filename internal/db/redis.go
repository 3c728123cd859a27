package db

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mertdogan/sportspot-api/internal/config"
)

const redisDialTimeout = 5 * time.Second

// OpenRedis returns a configured client and validates the connection with
// PING.
func OpenRedis(conf *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     conf.Addr,
		Password: conf.Password,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisDialTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return client, nil
}
