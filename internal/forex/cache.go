package forex

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"remit/internal/domain"
	"remit/pkg/logger"
)

// RateCache defines distributed cache operations for forex rates.
type RateCache interface {
	Get(ctx context.Context, key string) (decimal.Decimal, error)
	Set(ctx context.Context, key string, rate decimal.Decimal, ttl time.Duration) error
}

// RedisRateCache caches rates in Redis with a TTL.
type RedisRateCache struct {
	client *redis.Client
}

func NewRedisRateCache(client *redis.Client) RateCache {
	return &RedisRateCache{client: client}
}

func rateKey(pair string) string {
	return "fxrate:" + pair
}

func (c *RedisRateCache) Get(ctx context.Context, key string) (decimal.Decimal, error) {
	data, err := c.client.Get(ctx, rateKey(key)).Result()
	if err != nil {
		return decimal.Zero, err
	}

	var rate decimal.Decimal
	if err := json.Unmarshal([]byte(data), &rate); err != nil {
		return decimal.Zero, err
	}
	return rate, nil
}

func (c *RedisRateCache) Set(ctx context.Context, key string, rate decimal.Decimal, ttl time.Duration) error {
	data, err := json.Marshal(rate)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, rateKey(key), data, ttl).Err()
}

type cachedRate struct {
	rate    decimal.Decimal
	expires time.Time
}

// CachedProvider layers an in-memory cache, and optionally a distributed
// RateCache, over another provider.
type CachedProvider struct {
	next   RateProvider
	cache  RateCache
	ttl    time.Duration
	logger logger.Logger

	mu    sync.RWMutex
	rates map[string]cachedRate
}

func NewCachedProvider(next RateProvider, cache RateCache, ttl time.Duration, log logger.Logger) *CachedProvider {
	return &CachedProvider{
		next:   next,
		cache:  cache,
		ttl:    ttl,
		logger: log,
		rates:  make(map[string]cachedRate),
	}
}

func (p *CachedProvider) Name() string {
	return "Cached" + p.next.Name()
}

func (p *CachedProvider) Rate(ctx context.Context, base, target domain.Currency) (decimal.Decimal, error) {
	if base == target {
		return one, nil
	}

	key := pairKey(base, target)

	p.mu.RLock()
	if cached, ok := p.rates[key]; ok && cached.expires.After(time.Now()) {
		p.mu.RUnlock()
		return cached.rate, nil
	}
	p.mu.RUnlock()

	if p.cache != nil {
		if rate, err := p.cache.Get(ctx, key); err == nil {
			p.store(key, rate)
			return rate, nil
		}
	}

	rate, err := p.next.Rate(ctx, base, target)
	if err != nil {
		return decimal.Zero, err
	}

	p.store(key, rate)
	if p.cache != nil {
		if err := p.cache.Set(ctx, key, rate, p.ttl); err != nil {
			p.logger.Warn("Failed to cache exchange rate", map[string]interface{}{
				"pair":  key,
				"error": err.Error(),
			})
		}
	}

	return rate, nil
}

func (p *CachedProvider) store(key string, rate decimal.Decimal) {
	p.mu.Lock()
	p.rates[key] = cachedRate{rate: rate, expires: time.Now().Add(p.ttl)}
	p.mu.Unlock()
}
