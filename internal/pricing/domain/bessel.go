package domain

import (
	"math"
)

// logBesselI 第一类修正 Bessel 函数的对数 ln I_nu(x)
// 中小参数用幂级数，大参数用一致渐近展开；只需实阶 nu > -1、x >= 0
func logBesselI(nu, x float64) float64 {
	if x == 0 {
		if nu == 0 {
			return 0
		}
		return math.Inf(-1)
	}
	if x > 300 {
		// I_nu(x) ~ e^x/sqrt(2*pi*x) * (1 - (mu-1)/(8x) + ...), mu = 4*nu^2
		mu := 4 * nu * nu
		ex := 8 * x
		corr := 1 - (mu-1)/ex + (mu-1)*(mu-9)/(2*ex*ex) - (mu-1)*(mu-9)*(mu-25)/(6*ex*ex*ex)
		return x - 0.5*math.Log(2*math.Pi*x) + math.Log(corr)
	}

	// I_nu(x) = (x/2)^nu / Gamma(nu+1) * sum_k t_k, t_0 = 1,
	// t_k = t_{k-1} * (x^2/4) / (k*(nu+k))
	q := x * x / 4
	term, sum := 1.0, 1.0
	for k := 1; k < 1000; k++ {
		term *= q / (float64(k) * (nu + float64(k)))
		sum += term
		if term < 1e-17*sum {
			break
		}
	}
	lg, _ := math.Lgamma(nu + 1)
	return nu*math.Log(x/2) - lg + math.Log(sum)
}

// besselIRatio I_{nu+1}(x) / I_nu(x)
func besselIRatio(nu, x float64) float64 {
	if x == 0 {
		return 0
	}
	return math.Exp(logBesselI(nu+1, x) - logBesselI(nu, x))
}

// etaTableMax eta 离散分布累积表的最大计数
// Bessel 分布尾部超指数衰减，15 项足够覆盖常见参数
const etaTableMax = 15

// drawEta 按 Glasserman & Kim (2011) p.285 的 Bessel 分布抽取 eta
// P(eta=0) = (z/2)^nu / (I_nu(z)*Gamma(nu+1))，相邻项之比为 z^2/(4j(j+nu))；
// 构造累积表后用均匀抽样反演
func (e *gammaSeriesEngine) drawEta(var0 float64, varT []float64, dt float64) []int {
	n := len(varT)
	phi, _ := e.p.PhiExp(dt)
	nu := 0.5*e.p.ChiDim() - 1
	lgNu1, _ := math.Lgamma(nu + 1)

	uu := e.rs.Uniforms(n)
	eta := make([]int, n)
	for i, vt := range varT {
		zz := math.Sqrt(var0*vt) * phi
		if zz <= 0 {
			eta[i] = 0
			continue
		}
		p0 := math.Exp(nu*math.Log(zz/2) - lgNu1 - logBesselI(nu, zz))
		cum, pj := p0, p0
		k := 0
		for j := 1; j <= etaTableMax && cum < uu[i]; j++ {
			pj *= zz * zz / (4 * float64(j) * (float64(j) + nu))
			cum += pj
			k = j
		}
		if cum < uu[i] {
			k = etaTableMax + 1 // 尾部溢出，概率上可忽略
		}
		eta[i] = k
	}
	return eta
}

// etaCumTable eta 分布的累积概率表（校验用：表尾应收敛到 1）
func etaCumTable(p HestonParams, var0, varT, dt float64, terms int) []float64 {
	phi, _ := p.PhiExp(dt)
	nu := 0.5*p.ChiDim() - 1
	zz := math.Sqrt(var0*varT) * phi
	lgNu1, _ := math.Lgamma(nu + 1)

	cum := make([]float64, terms+1)
	pj := math.Exp(nu*math.Log(zz/2) - lgNu1 - logBesselI(nu, zz))
	cum[0] = pj
	for j := 1; j <= terms; j++ {
		pj *= zz * zz / (4 * float64(j) * (float64(j) + nu))
		cum[j] = cum[j-1] + pj
	}
	return cum
}

// etaMV eta 的条件均值与方差，经由相邻阶 Bessel 函数之比
func (p HestonParams) etaMV(var0, varT, dt float64) (mean, variance float64) {
	phi, _ := p.PhiExp(dt)
	nu := 0.5*p.ChiDim() - 1
	zz := math.Sqrt(var0*varT) * phi
	if zz <= 0 {
		return 0, 0
	}
	r1 := besselIRatio(nu, zz)           // I_{nu+1}/I_nu
	r2 := r1 * besselIRatio(nu+1, zz)    // I_{nu+2}/I_nu
	mean = zz / 2 * r1
	variance = (zz/2)*(zz/2)*r2 + mean - mean*mean
	return mean, variance
}

// condAvgVarLaplace 平均方差在端点条件下的矩母函数（Bessel 函数之比的闭式）
// 仅作为校验基准使用，不在采样热路径上
func (p HestonParams) condAvgVarLaplace(aa, var0, varT, dt float64) float64 {
	vov2dt := p.Vov * p.Vov * dt
	mrt := p.Mr * dt
	nu := 0.5*p.ChiDim() - 1

	gamma := math.Sqrt(mrt*mrt + 2*vov2dt*aa)
	varMean := math.Sqrt(var0 * varT)
	phiMr, _ := p.PhiExp(dt)
	coshMr := math.Cosh(mrt / 2)

	phiGamma := 2 * gamma / vov2dt / math.Sinh(gamma/2)
	coshGamma := math.Cosh(gamma / 2)

	part1 := phiGamma / phiMr
	part2 := math.Exp((var0 + varT) * (coshMr*phiMr - coshGamma*phiGamma) / 2)
	part3 := math.Exp(logBesselI(nu, varMean*phiGamma) - logBesselI(nu, varMean*phiMr))
	return part1 * part2 * part3
}

// condAvgVarMVNumeric 条件均值/方差的数值微分版本（校验基准）
// 对条件累积量母函数在零点做中心差分
func (p HestonParams) condAvgVarMVNumeric(var0, varT, dt float64) (mean, variance float64) {
	const h = 1e-5
	cgf := func(aa float64) float64 {
		return math.Log(p.condAvgVarLaplace(-aa, var0, varT, dt))
	}
	fp, f0, fm := cgf(h), cgf(0), cgf(-h)
	mean = (fp - fm) / (2 * h)
	variance = (fp - 2*f0 + fm) / (h * h)
	return mean, variance
}
