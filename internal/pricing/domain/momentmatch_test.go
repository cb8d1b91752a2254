package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistFamilyValid(t *testing.T) {
	for _, d := range []DistFamily{DistInverseGaussian, DistGamma, DistLogNormal} {
		assert.True(t, d.Valid(), string(d))
	}
	assert.False(t, DistFamily("weibull").Valid())
	assert.False(t, DistFamily("").Valid())
}

// 三个分布族都要复现目标的前两阶矩
func TestDrawMatchedMoments(t *testing.T) {
	const n = 200000
	const wantMean, wantVar = 0.05, 0.002

	for _, dist := range []DistFamily{DistInverseGaussian, DistGamma, DistLogNormal} {
		t.Run(string(dist), func(t *testing.T) {
			e := &gammaSeriesEngine{p: testParams, rs: NewRandomStreamSet(59)}
			xs := e.drawMatched(dist, fullSlice(n, wantMean), fullSlice(n, wantVar))

			for _, x := range xs {
				assert.Greater(t, x, 0.0)
			}
			mean, variance := sampleMV(xs)
			se := math.Sqrt(wantVar / n)
			assert.InDelta(t, wantMean, mean, 4*se)
			assert.InEpsilon(t, wantVar, variance, 0.05)
		})
	}
}

func TestIGRandMoments(t *testing.T) {
	const n = 200000
	const mu = 0.05
	lam := mu * mu * mu / 0.002 // Var[IG] = mu^3/lambda

	e := &gammaSeriesEngine{p: testParams, rs: NewRandomStreamSet(61)}
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = e.igRand(mu, lam)
	}
	mean, variance := sampleMV(xs)
	se := math.Sqrt(0.002 / n)
	assert.InDelta(t, mu, mean, 4*se)
	assert.InEpsilon(t, 0.002, variance, 0.05)
}

// 条件矩（向量版）：eta 给定时 eta 方差项消失，均值随 eta 增大
func TestCondAvgVarMVWithEta(t *testing.T) {
	const dt = 1.0
	e := &gammaSeriesEngine{p: testParams}
	varT := []float64{0.04, 0.04, 0.04}
	eta := []int{0, 1, 5}

	means, vars := e.condAvgVarMV(0.04, varT, dt, eta, 0)
	assert.Less(t, means[0], means[1])
	assert.Less(t, means[1], means[2])
	for i := range vars {
		assert.Greater(t, vars[i], 0.0, "i=%d", i)
	}

	// eta = nil 时与标量版一致
	meansNil, varsNil := e.condAvgVarMV(0.04, varT[:1], dt, nil, 0)
	m, v := e.condAvgVarMVScalar(0.04, 0.04, dt)
	assert.InEpsilon(t, m, meansNil[0], 1e-12)
	assert.InEpsilon(t, v, varsNil[0], 1e-12)
}

// 逐子步矩匹配：平均方差的总体均值与 CIR 的时间平均闭式一致
func TestCondStatesSubstepMean(t *testing.T) {
	const nPath = 50000
	const nDt = 10
	const texp = 10.0
	p := testParams

	for _, dist := range []DistFamily{DistInverseGaussian, DistGamma, DistLogNormal} {
		rs := NewRandomStreamSet(67)
		e := &gammaSeriesEngine{p: p, rs: rs}
		st := &varianceStepper{p: p, rs: rs}
		varT, varAvg := e.condStatesSubstep(dist, p.Sigma, texp, nPath, nDt, st)

		assert.Len(t, varT, nPath)
		assert.Len(t, varAvg, nPath)
		for i := range varAvg {
			assert.GreaterOrEqual(t, varAvg[i], 0.0)
			assert.GreaterOrEqual(t, varT[i], 0.0)
		}

		want := avgVarClosedForm(p, p.Sigma, texp)
		mean, _ := sampleMV(varAvg)
		assert.InDelta(t, want, mean, 0.002, "dist=%s", dist)
	}
}

// 合并统计量矩匹配：同样的总体均值约束
func TestCondStatesPooledMean(t *testing.T) {
	const nPath = 50000
	const nDt = 10
	const texp = 10.0
	p := testParams

	rs := NewRandomStreamSet(71)
	e := &gammaSeriesEngine{p: p, rs: rs, kk: 1}
	st := &varianceStepper{p: p, rs: rs}
	varT, varAvg := e.condStatesPooled(DistInverseGaussian, p.Sigma, texp, nPath, nDt, st)

	assert.Len(t, varT, nPath)
	want := avgVarClosedForm(p, p.Sigma, texp)
	mean, _ := sampleMV(varAvg)
	assert.InDelta(t, want, mean, 0.002)
}

// avgVarClosedForm CIR 时间平均方差的无条件均值
// E[(1/T) int_0^T V dt] = theta + (v0-theta)*(1-e^{-mr*T})/(mr*T)
func avgVarClosedForm(p HestonParams, var0, texp float64) float64 {
	return p.Theta + (var0-p.Theta)*(1-math.Exp(-p.Mr*texp))/(p.Mr*texp)
}
