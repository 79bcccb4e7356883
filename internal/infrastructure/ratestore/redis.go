package ratestore

import (
	"context"
	"errors"
	"fmt"

	"credit-backoffice/internal/domain/rates"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const keyPrefix = "config:"

// RedisProvider reads rate/limit configuration from Redis so operations
// can tune penalty rates without a redeploy. Keys absent from Redis fall
// back to the static defaults.
type RedisProvider struct {
	rdb      *redis.Client
	defaults rates.Static
}

func NewRedisProvider(rdb *redis.Client, defaults rates.Static) *RedisProvider {
	return &RedisProvider{rdb: rdb, defaults: defaults}
}

func (p *RedisProvider) Get(ctx context.Context, key string) (decimal.Decimal, error) {
	v, err := p.rdb.Get(ctx, keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return p.defaults.Get(ctx, key)
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("rate store: %w", err)
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("rate store: bad value for %s: %w", key, err)
	}
	return d, nil
}

var _ rates.Provider = (*RedisProvider)(nil)
