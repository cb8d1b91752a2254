package domain

import (
	"math"
)

// VarianceScheme 方差过程的一步推进方案
type VarianceScheme string

const (
	SchemeEuler        VarianceScheme = "euler"         // Euler 离散化，O(dt) 偏差
	SchemeMilstein     VarianceScheme = "milstein"      // Milstein 修正项，偏差更小
	SchemeNCX2         VarianceScheme = "ncx2"          // 精确非中心卡方转移，无离散化偏差
	SchemePoissonGamma VarianceScheme = "poisson-gamma" // Poisson 混合 gamma 的等价精确抽样
	SchemeQE           VarianceScheme = "qe"            // Andersen (2008) QE 矩匹配方案
)

// psiC QE 方案的两分支边界
const psiC = 1.5

// Valid 判断方案取值是否合法
func (s VarianceScheme) Valid() bool {
	switch s {
	case SchemeEuler, SchemeMilstein, SchemeNCX2, SchemePoissonGamma, SchemeQE:
		return true
	}
	return false
}

// varianceStepper 绑定参数与随机流的一步推进器
// 所有方法都是对 n_path 条路径的批量变换，路径之间无共享可变状态
type varianceStepper struct {
	p          HestonParams
	rs         *RandomStreamSet
	antithetic bool
}

// advance 按方案推进一步
// poisson-gamma 方案额外返回每条路径的潜在 Poisson 计数 eta，
// 其余方案 eta 为 nil；scheme 合法性在配置校验阶段已保证
func (st *varianceStepper) advance(scheme VarianceScheme, varPrev []float64, dt float64) (varNext []float64, eta []int) {
	switch scheme {
	case SchemeEuler:
		return st.stepEuler(varPrev, dt, false), nil
	case SchemeMilstein:
		return st.stepEuler(varPrev, dt, true), nil
	case SchemeNCX2:
		return st.stepNCX2(varPrev, dt), nil
	case SchemePoissonGamma:
		return st.stepPoissonGamma(varPrev, dt)
	case SchemeQE:
		return st.stepQE(varPrev, dt), nil
	}
	panic("domain: unreachable variance scheme " + string(scheme))
}

// stepEuler Euler/Milstein 步进，方差在零处截断
func (st *varianceStepper) stepEuler(varPrev []float64, dt float64, milstein bool) []float64 {
	n := len(varPrev)
	zz := st.rs.Normals(n, st.antithetic)
	sqrtDt := math.Sqrt(dt)
	p := st.p

	varNext := make([]float64, n)
	for i, v0 := range varPrev {
		w := zz[i] * sqrtDt // N(0, dt)
		v := v0 + p.Mr*(p.Theta-v0)*dt + p.Vov*math.Sqrt(v0)*w
		if milstein {
			v += 0.25 * p.Vov * p.Vov * (w*w - dt)
		}
		if v < 0 {
			v = 0
		}
		varNext[i] = v
	}
	return varNext
}

// stepNCX2 从精确的非中心卡方转移分布抽样
// df > 1 时用 chi2(df-1) + (Z + sqrt(nonc))^2 分解，
// 否则退回 Poisson 混合 gamma 表示，两者都无离散化偏差
func (st *varianceStepper) stepNCX2(varPrev []float64, dt float64) []float64 {
	n := len(varPrev)
	p := st.p
	df := p.ChiDim()
	phi, exp := p.PhiExp(dt)
	scale := exp / phi

	if df <= 1 {
		varNext, _ := st.stepPoissonGamma(varPrev, dt)
		return varNext
	}

	zz := st.rs.Normals(n, st.antithetic)
	varNext := make([]float64, n)
	for i, v0 := range varPrev {
		nonc := v0 * exp * phi
		chi2 := 2 * st.rs.GammaRand((df-1)/2)
		zShift := zz[i] + math.Sqrt(nonc)
		varNext[i] = scale * (chi2 + zShift*zShift)
	}
	return varNext
}

// stepPoissonGamma 经由潜在 Poisson 计数的等价精确抽样
// eta ~ Poisson(nonc/2)，V' = (exp/phi) * 2 * Gamma(df/2 + eta)
func (st *varianceStepper) stepPoissonGamma(varPrev []float64, dt float64) ([]float64, []int) {
	n := len(varPrev)
	p := st.p
	df := p.ChiDim()
	phi, exp := p.PhiExp(dt)
	scale := 2 * exp / phi

	varNext := make([]float64, n)
	eta := make([]int, n)
	for i, v0 := range varPrev {
		nonc := v0 * exp * phi
		k := int(st.rs.PoissonRand(streamPoissonCount, nonc/2))
		eta[i] = k
		varNext[i] = scale * st.rs.GammaRand(df/2+float64(k))
	}
	return varNext, eta
}

// stepQE Andersen (2008) 的矩匹配 QE 步进
// psi <= psiC 时用平移正态的平方，否则用带质点的指数分布，
// 两个分支共用同一个正态抽样，使分布在 psi = psiC 处连续
func (st *varianceStepper) stepQE(varPrev []float64, dt float64) []float64 {
	n := len(varPrev)
	zz := st.rs.Normals(n, st.antithetic)

	varNext := make([]float64, n)
	for i, v0 := range varPrev {
		m, s2 := st.p.VarMV(v0, dt)
		psi := s2 / (m * m)
		if psi <= psiC {
			varNext[i] = qeQuadratic(m, psi, zz[i])
		} else {
			varNext[i] = qeExponential(m, psi, zz[i])
		}
	}
	return varNext
}

// qeQuadratic psi <= psiC 分支：V' = a*(b + Z)^2，a、b 由前两阶矩解出
func qeQuadratic(m, psi, z float64) float64 {
	ins := 2 / psi
	b2 := (ins - 1) + math.Sqrt(ins*(ins-1))
	a := m / (1 + b2)
	s := math.Sqrt(b2) + z
	return a * s * s
}

// qeExponential psi > psiC 分支：以概率 p 取零，否则按指数分布反演
// 零/正分支的判定用同一个 Z 经标准正态 CDF 映射
func qeExponential(m, psi, z float64) float64 {
	oneMU := normCdf(z) // 1 - U
	oneMP := 2 / (psi + 1)
	if oneMU > oneMP {
		return 0
	}
	beta := oneMP / m
	return math.Log(oneMP/oneMU) / beta
}
