package domain

import (
	"fmt"
	"math"
)

// HestonParams Heston 模型参数
// Sigma 为初始方差 V(0)，方差过程服从 CIR:
//
//	dV = mr*(theta - V)*dt + vov*sqrt(V)*dW
type HestonParams struct {
	Sigma float64 // 初始方差 V(0)
	Theta float64 // 长期均值方差
	Vov   float64 // 方差的波动率 (vol-of-vol)
	Rho   float64 // 价格与方差的相关系数
	Mr    float64 // 均值回归速度 kappa
}

// Validate 校验参数不变量
// 所有数值域问题在构造期拒绝，采样路径上不做运行时兜底
func (p HestonParams) Validate() error {
	if p.Mr <= 0 {
		return fmt.Errorf("heston: mean reversion must be positive, got %v", p.Mr)
	}
	if p.Theta <= 0 {
		return fmt.Errorf("heston: long-run variance must be positive, got %v", p.Theta)
	}
	if p.Vov <= 0 {
		return fmt.Errorf("heston: vol-of-vol must be positive, got %v", p.Vov)
	}
	if p.Sigma <= 0 {
		return fmt.Errorf("heston: initial variance must be positive, got %v", p.Sigma)
	}
	if p.Rho < -1 || p.Rho > 1 {
		return fmt.Errorf("heston: correlation must be in [-1, 1], got %v", p.Rho)
	}
	if df := p.ChiDim(); df <= 0 {
		return fmt.Errorf("heston: noncentral chi-square df must be positive, got %v", df)
	}
	return nil
}

// ChiDim 非中心卡方分布的自由度 4*theta*mr/vov^2（可为非整数）
func (p HestonParams) ChiDim() float64 {
	return 4 * p.Theta * p.Mr / (p.Vov * p.Vov)
}

// ChiLambda 精确转移分布的非中心参数
func (p HestonParams) ChiLambda(dt float64) float64 {
	return 4 * p.Sigma * p.Mr / (p.Vov * p.Vov) / (math.Exp(p.Mr*dt) - 1)
}

// PhiExp 返回 (phi, exp)，exp = e^{-mr*dt/2}，phi = 4*mr/vov^2/(1/exp - exp)
// 所有精确/近似精确采样器共享这组量
func (p HestonParams) PhiExp(dt float64) (phi, exp float64) {
	exp = math.Exp(-p.Mr * dt / 2)
	phi = 4 * p.Mr / (p.Vov * p.Vov) / (1/exp - exp)
	return phi, exp
}

// VarMV 一步转移 V(t+dt) | V(t)=var0 的闭式均值与方差
// 既作为矩匹配步进的输入，也作为测试中的校验基准
func (p HestonParams) VarMV(var0, dt float64) (m, s2 float64) {
	expo := math.Exp(-p.Mr * dt)
	m = p.Theta + (var0-p.Theta)*expo
	s2 = var0*expo + p.Theta*(1-expo)/2
	s2 *= p.Vov * p.Vov * (1 - expo) / p.Mr
	return m, s2
}
