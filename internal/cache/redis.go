package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tripgrid/backoffice/config"
	"github.com/tripgrid/backoffice/internal/domain"
)

type RedisCache struct {
	client   *redis.Client
	toursTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, toursTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:   redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		toursTTL: toursTTL,
	}
}

func (c *RedisCache) GetTours(ctx context.Context) ([]domain.Tour, error) {
	data, err := c.client.Get(ctx, toursKey()).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var tours []domain.Tour
	if err := json.Unmarshal(data, &tours); err != nil {
		return nil, err
	}
	return tours, nil
}

func (c *RedisCache) SetTours(ctx context.Context, tours []domain.Tour) error {
	payload, err := json.Marshal(tours)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, toursKey(), payload, c.toursTTL).Err()
}

func toursKey() string {
	return "cache:tours"
}
