package config

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// InitRedisServer connects the shared cache client. REDIS_PASSWORD and
// REDIS_DB are optional; an unset or malformed DB falls back to 0.
func InitRedisServer(ctx context.Context) *redis.Client {
	db := 0
	if raw := GetEnv("REDIS_DB"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			db = parsed
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     GetEnv("REDIS_ADDRESS"),
		Password: GetEnv("REDIS_PASSWORD"),
		DB:       db,
	})

	if _, err := client.Ping(ctx).Result(); err != nil {
		panic(err)
	}

	return client
}
