// Package domain 定价服务的领域模型
// 核心是 Heston 条件蒙特卡洛引擎与其周边的定价实体
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OptionType 期权类型
type OptionType string

const (
	OptionTypeCall OptionType = "CALL" // 看涨期权
	OptionTypePut  OptionType = "PUT"  // 看跌期权
)

// OptionContract 期权合约
type OptionContract struct {
	Symbol      string          `json:"symbol"`
	Type        OptionType      `json:"type"`
	StrikePrice decimal.Decimal `json:"strike_price"`
	ExpiryDate  int64           `json:"expiry_date"`
}

// Greeks 希腊字母
type Greeks struct {
	Delta decimal.Decimal
	Gamma decimal.Decimal
	Theta decimal.Decimal
	Vega  decimal.Decimal
	Rho   decimal.Decimal
}

// PricingResult 定价结果实体
// PricingModel 标识模型（HestonMC / BlackScholes），
// Heston 条件蒙特卡洛额外记录方案与种子以便复现
type PricingResult struct {
	ID              uint            `json:"id"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	Symbol          string          `json:"symbol"`
	OptionPrice     decimal.Decimal `json:"option_price"`
	UnderlyingPrice decimal.Decimal `json:"underlying_price"`
	Delta           decimal.Decimal `json:"delta"`
	Gamma           decimal.Decimal `json:"gamma"`
	Theta           decimal.Decimal `json:"theta"`
	Vega            decimal.Decimal `json:"vega"`
	Rho             decimal.Decimal `json:"rho"`
	CalculatedAt    int64           `json:"calculated_at"`
	PricingModel    string          `json:"pricing_model"`
	McMethod        string          `json:"mc_method,omitempty"`
	McScheme        string          `json:"mc_scheme,omitempty"`
	McPaths         int             `json:"mc_paths,omitempty"`
	McSeed          uint64          `json:"mc_seed,omitempty"`
}
