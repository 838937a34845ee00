package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"donatello-backend/internal/config"
)

var ErrDisabled = errors.New("redis: no address configured")

// OpenRedis connects and pings within 5s.
func OpenRedis(cfg config.RedisConfig) (*redis.Client, error) {
	if !cfg.Enabled() {
		return nil, ErrDisabled
	}
	r := redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.Ping(ctx).Err(); err != nil {
		_ = r.Close()
		return nil, err
	}
	return r, nil
}
