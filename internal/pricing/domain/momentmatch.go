package domain

import (
	"math"
)

// DistFamily 尾部/积分方差的近似分布族
type DistFamily string

const (
	DistInverseGaussian DistFamily = "ig"        // 逆高斯
	DistGamma           DistFamily = "gamma"     // gamma
	DistLogNormal       DistFamily = "lognormal" // 对数正态
)

// Valid 判断分布族取值是否合法
func (d DistFamily) Valid() bool {
	switch d {
	case DistInverseGaussian, DistGamma, DistLogNormal:
		return true
	}
	return false
}

// drawMatched 按分布族抽取前两阶矩与 (mean, variance) 匹配的一组变量
// 逐路径独立；分布族合法性在配置校验阶段已保证
func (e *gammaSeriesEngine) drawMatched(dist DistFamily, mean, variance []float64) []float64 {
	n := len(mean)
	out := make([]float64, n)
	switch dist {
	case DistInverseGaussian:
		for i := range out {
			lam := mean[i] * mean[i] * mean[i] / variance[i]
			out[i] = e.igRand(mean[i], lam)
		}
	case DistGamma:
		for i := range out {
			scale := variance[i] / mean[i]
			shape := mean[i] / scale
			out[i] = scale * e.rs.GammaRand(shape)
		}
	case DistLogNormal:
		zz := e.rs.NormalsSpawn(streamGamma, n)
		for i := range out {
			s := math.Sqrt(math.Log(1 + variance[i]/(mean[i]*mean[i])))
			out[i] = mean[i] * math.Exp(s*(zz[i]-s/2))
		}
	default:
		panic("domain: unreachable distribution family " + string(dist))
	}
	return out
}

// igRand 逆高斯 IG(mu, lambda) 抽样，Michael-Schucany-Haas 变换
func (e *gammaSeriesEngine) igRand(mu, lam float64) float64 {
	zz := e.rs.NormalsSpawn(streamGamma, 1)
	nu := zz[0] * zz[0]
	x := mu + mu*mu*nu/(2*lam) - mu/(2*lam)*math.Sqrt(4*mu*lam*nu+mu*mu*nu*nu)
	if e.rs.GammaUniform() <= mu/(mu+x) {
		return x
	}
	return mu * mu / x
}

// condAvgVarMV 端点（及可选 eta）条件下平均方差的闭式均值与方差
// eta 为 nil 时用 Bessel 比值的 eta 矩解析合成
func (e *gammaSeriesEngine) condAvgVarMV(var0 float64, varT []float64, dt float64, eta []int, kk int) (mean, variance []float64) {
	n := len(varT)
	x1m, x1v := e.x1starAvgVarMV(dt, kk)
	x2m, x2v := e.x2starAvgVarMV(dt, kk)
	df := e.p.ChiDim()

	mean = make([]float64, n)
	variance = make([]float64, n)
	for i, vt := range varT {
		var etaMean, etaVar float64
		if eta == nil {
			etaMean, etaVar = e.p.etaMV(var0, vt, dt)
		} else {
			etaMean, etaVar = float64(eta[i]), 0
		}
		x1Mean := x1m * (var0 + vt)
		x1Var := x1v * (var0 + vt)
		x23Mean := (2*etaMean + df/2) * x2m
		x23Var := (2*etaMean+df/2)*x2v + etaVar*(2*x2m)*(2*x2m)
		mean[i] = x1Mean + x23Mean
		variance[i] = x1Var + x23Var
	}
	return mean, variance
}

// condStatesSubstep 逐子步矩匹配（Tse & Wan 2013）
// 每个子步精确步进终值方差，对该子步的积分方差按解析条件矩
// 抽取一个近似分布变量并累加，最后按子步数归一
func (e *gammaSeriesEngine) condStatesSubstep(dist DistFamily, var0, texp float64, nPath, nDt int, st *varianceStepper) (varT, varAvg []float64) {
	dt := texp / float64(nDt)

	prev := fullSlice(nPath, var0)
	varAvg = make([]float64, nPath)
	varT = prev

	for step := 0; step < nDt; step++ {
		next, _ := st.stepPoissonGamma(varT, dt)
		mean := make([]float64, nPath)
		variance := make([]float64, nPath)
		for i := range next {
			m, v := e.condAvgVarMVScalar(varT[i], next[i], dt)
			mean[i], variance[i] = m, v
		}
		draw := e.drawMatched(dist, mean, variance)
		for i := range varAvg {
			varAvg[i] += draw[i]
		}
		varT = next
	}
	for i := range varAvg {
		varAvg[i] /= float64(nDt)
	}
	return varT, varAvg
}

// condAvgVarMVScalar condAvgVarMV 的单路径版本
func (e *gammaSeriesEngine) condAvgVarMVScalar(var0, varT, dt float64) (mean, variance float64) {
	x1m, x1v := e.x1starAvgVarMV(dt, 0)
	x2m, x2v := e.x2starAvgVarMV(dt, 0)
	df := e.p.ChiDim()

	etaMean, etaVar := e.p.etaMV(var0, varT, dt)
	mean = x1m*(var0+varT) + (2*etaMean+df/2)*x2m
	variance = x1v*(var0+varT) + (2*etaMean+df/2)*x2v + etaVar*(2*x2m)*(2*x2m)
	return mean, variance
}

// drawX123 合并统计量的单次抽样（Choi & Kwok 2023）
// varSum 为整个期限上带权的方差和，shapeSum 为累计 gamma 形状参数；
// 截断级数与矩匹配尾部合并为一次抽样，降低方差
func (e *gammaSeriesEngine) drawX123(dist DistFamily, varSum, shapeSum []float64, dt float64) []float64 {
	n := len(varSum)
	gammaN, lambdaN := e.p.gammaLambda(dt, e.kk)

	x123 := make([]float64, n)
	for k := range gammaN {
		for i := range varSum {
			pois := e.rs.PoissonRand(streamSeries, varSum[i]*lambdaN[k])
			x123[i] += e.rs.GammaRand(pois+shapeSum[i]) / gammaN[k]
		}
	}

	x1m, x1v := e.x1starAvgVarMV(dt, e.kk)
	x2m, x2v := e.x2starAvgVarMV(dt, e.kk)

	truncMean := make([]float64, n)
	truncVar := make([]float64, n)
	for i := range varSum {
		truncMean[i] = x1m*varSum[i] + x2m*shapeSum[i]
		truncVar[i] = x1v*varSum[i] + x2v*shapeSum[i]
	}

	tail := e.drawMatched(dist, truncMean, truncVar)
	for i := range x123 {
		x123[i] += tail[i]
	}
	return x123
}

// condStatesPooled 合并统计量矩匹配（Choi & Kwok 2023）
// 沿时间网格精确步进并累计 (带权方差和, 潜在计数和)，
// 整个期限只做一次合并抽样
func (e *gammaSeriesEngine) condStatesPooled(dist DistFamily, var0, texp float64, nPath, nDt int, st *varianceStepper) (varT, varAvg []float64) {
	dt := texp / float64(nDt)

	varT = fullSlice(nPath, var0)
	varSum := make([]float64, nPath)
	shapeSum := make([]float64, nPath)
	for i := range varSum {
		varSum[i] = varT[i] // 端点权重 1
	}

	for step := 0; step < nDt; step++ {
		next, eta := st.stepPoissonGamma(varT, dt)
		w := 2.0
		if step == nDt-1 {
			w = 1.0
		}
		for i := range next {
			varSum[i] += w * next[i]
			shapeSum[i] += 2 * float64(eta[i])
		}
		varT = next
	}
	for i := range shapeSum {
		shapeSum[i] += 0.5 * e.p.ChiDim() * float64(nDt)
	}

	varAvg = e.drawX123(dist, varSum, shapeSum, dt)
	for i := range varAvg {
		varAvg[i] /= float64(nDt)
	}
	return varT, varAvg
}
