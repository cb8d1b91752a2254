// Package redis 定价结果的 Redis 读穿缓存
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wyfcoding/optionpricing/internal/pricing/domain"
	"github.com/wyfcoding/optionpricing/pkg/cache"
	"github.com/wyfcoding/optionpricing/pkg/metrics"
)

const latestTTL = 5 * time.Minute

// CachedPricingRepository 在 MySQL 仓储外包一层最新结果缓存
type CachedPricingRepository struct {
	inner domain.PricingRepository
	cache *cache.RedisCache
}

// NewCachedPricingRepository 创建带缓存的定价仓储
func NewCachedPricingRepository(inner domain.PricingRepository, rc *cache.RedisCache) *CachedPricingRepository {
	return &CachedPricingRepository{inner: inner, cache: rc}
}

func latestKey(symbol string) string {
	return fmt.Sprintf("pricing:latest:%s", symbol)
}

// Save 保存并刷新最新结果缓存
func (r *CachedPricingRepository) Save(ctx context.Context, result *domain.PricingResult) error {
	if err := r.inner.Save(ctx, result); err != nil {
		return err
	}
	// 缓存写失败不影响主流程
	_ = r.cache.SetJSON(ctx, latestKey(result.Symbol), result, latestTTL)
	return nil
}

// GetLatest 读穿：先查缓存，未命中回源 MySQL 并回填
func (r *CachedPricingRepository) GetLatest(ctx context.Context, symbol string) (*domain.PricingResult, error) {
	var cached domain.PricingResult
	err := r.cache.GetJSON(ctx, latestKey(symbol), &cached)
	if err == nil {
		metrics.CacheHits.WithLabelValues("hit").Inc()
		return &cached, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		metrics.CacheHits.WithLabelValues("error").Inc()
	} else {
		metrics.CacheHits.WithLabelValues("miss").Inc()
	}

	result, err := r.inner.GetLatest(ctx, symbol)
	if err != nil {
		return nil, err
	}
	_ = r.cache.SetJSON(ctx, latestKey(symbol), result, latestTTL)
	return result, nil
}

// GetHistory 历史查询不走缓存
func (r *CachedPricingRepository) GetHistory(ctx context.Context, symbol string, limit int) ([]*domain.PricingResult, error) {
	return r.inner.GetHistory(ctx, symbol, limit)
}
