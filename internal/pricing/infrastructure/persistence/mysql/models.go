// Package mysql 定价结果的 GORM 持久化实现
package mysql

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/wyfcoding/optionpricing/internal/pricing/domain"
)

// PricingResultModel 定价结果表模型
type PricingResultModel struct {
	ID              uint            `gorm:"primaryKey"`
	CreatedAt       time.Time       `gorm:"index"`
	UpdatedAt       time.Time
	DeletedAt       gorm.DeletedAt  `gorm:"index"`
	Symbol          string          `gorm:"type:varchar(32);index:idx_symbol_calculated"`
	OptionPrice     decimal.Decimal `gorm:"type:decimal(20,8)"`
	UnderlyingPrice decimal.Decimal `gorm:"type:decimal(20,8)"`
	Delta           decimal.Decimal `gorm:"type:decimal(20,8)"`
	Gamma           decimal.Decimal `gorm:"type:decimal(20,8)"`
	Theta           decimal.Decimal `gorm:"type:decimal(20,8)"`
	Vega            decimal.Decimal `gorm:"type:decimal(20,8)"`
	Rho             decimal.Decimal `gorm:"type:decimal(20,8)"`
	CalculatedAt    int64           `gorm:"index:idx_symbol_calculated"`
	PricingModel    string          `gorm:"type:varchar(32)"`
	McMethod        string          `gorm:"type:varchar(32)"`
	McScheme        string          `gorm:"type:varchar(32)"`
	McPaths         int
	McSeed          uint64
}

// TableName 指定表名
func (PricingResultModel) TableName() string {
	return "pricing_results"
}

func toModel(r *domain.PricingResult) *PricingResultModel {
	return &PricingResultModel{
		ID:              r.ID,
		Symbol:          r.Symbol,
		OptionPrice:     r.OptionPrice,
		UnderlyingPrice: r.UnderlyingPrice,
		Delta:           r.Delta,
		Gamma:           r.Gamma,
		Theta:           r.Theta,
		Vega:            r.Vega,
		Rho:             r.Rho,
		CalculatedAt:    r.CalculatedAt,
		PricingModel:    r.PricingModel,
		McMethod:        r.McMethod,
		McScheme:        r.McScheme,
		McPaths:         r.McPaths,
		McSeed:          r.McSeed,
	}
}

func toDomain(m *PricingResultModel) *domain.PricingResult {
	return &domain.PricingResult{
		ID:              m.ID,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
		Symbol:          m.Symbol,
		OptionPrice:     m.OptionPrice,
		UnderlyingPrice: m.UnderlyingPrice,
		Delta:           m.Delta,
		Gamma:           m.Gamma,
		Theta:           m.Theta,
		Vega:            m.Vega,
		Rho:             m.Rho,
		CalculatedAt:    m.CalculatedAt,
		PricingModel:    m.PricingModel,
		McMethod:        m.McMethod,
		McScheme:        m.McScheme,
		McPaths:         m.McPaths,
		McSeed:          m.McSeed,
	}
}
