package mysql

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/wyfcoding/optionpricing/internal/pricing/domain"
	"github.com/wyfcoding/optionpricing/pkg/db"
)

// PricingRepository 定价仓储的 MySQL 实现
type PricingRepository struct {
	db *gorm.DB
}

// NewPricingRepository 创建 MySQL 定价仓储
func NewPricingRepository(db *gorm.DB) *PricingRepository {
	return &PricingRepository{db: db}
}

// AutoMigrate 创建或更新表结构
func (r *PricingRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&PricingResultModel{})
}

// Save 在事务中保存定价结果
func (r *PricingRepository) Save(ctx context.Context, result *domain.PricingResult) error {
	model := toModel(result)
	err := db.WithTx(ctx, r.db, func(tx *gorm.DB) error {
		return tx.Create(model).Error
	})
	if err != nil {
		return fmt.Errorf("save pricing result: %w", err)
	}
	result.ID = model.ID
	result.CreatedAt = model.CreatedAt
	result.UpdatedAt = model.UpdatedAt
	return nil
}

// GetLatest 按 symbol 查询最新一条定价结果
func (r *PricingRepository) GetLatest(ctx context.Context, symbol string) (*domain.PricingResult, error) {
	var model PricingResultModel
	err := r.db.WithContext(ctx).
		Where("symbol = ?", symbol).
		Order("calculated_at DESC").
		First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrResultNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get latest pricing for %s: %w", symbol, err)
	}
	return toDomain(&model), nil
}

// GetHistory 按 symbol 查询历史定价结果，按计算时间倒序
func (r *PricingRepository) GetHistory(ctx context.Context, symbol string, limit int) ([]*domain.PricingResult, error) {
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	var models []PricingResultModel
	err := r.db.WithContext(ctx).
		Where("symbol = ?", symbol).
		Order("calculated_at DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("get pricing history for %s: %w", symbol, err)
	}

	results := make([]*domain.PricingResult, len(models))
	for i := range models {
		results[i] = toDomain(&models[i])
	}
	return results, nil
}
