package domain

import (
	"math"
)

// McPricer Heston 条件蒙特卡洛定价器
// 先模拟 (终值方差, 平均方差)，翻译为条件价格乘子与残差波动率，
// 再对每条路径做 Black-Scholes 混合求均值
type McPricer struct {
	engine *McEngine
}

// NewMcPricer 构造定价器，参数与配置 fail-fast 校验
func NewMcPricer(p HestonParams, cfg SimConfig) (*McPricer, error) {
	engine, err := NewMcEngine(p, cfg)
	if err != nil {
		return nil, err
	}
	return &McPricer{engine: engine}, nil
}

// Engine 暴露底层引擎（诊断与测试用）
func (pr *McPricer) Engine() *McEngine { return pr.engine }

// Price 按条件蒙特卡洛对一组行权价定价（零利率、期货价即现价）
// price(K) = E[ BSM(K; fwd*spotCond_i, sigmaCond_i*sqrt(V0)) ]
func (pr *McPricer) Price(strikes []float64, spot, texp float64, optionType OptionType) []float64 {
	p := pr.engine.Params()
	spotCond, sigmaCond := pr.engine.CondSpotSigma(p.Sigma, texp)

	vol0 := math.Sqrt(p.Sigma)
	sqrtT := math.Sqrt(texp)
	nPath := float64(len(spotCond))

	prices := make([]float64, len(strikes))
	for k, strike := range strikes {
		sum := 0.0
		for i := range spotCond {
			fwd := spot * spotCond[i]
			volStd := sigmaCond[i] * vol0 * sqrtT
			sum += bsmForwardPrice(fwd, strike, volStd, optionType)
		}
		prices[k] = sum / nPath
	}
	return prices
}
