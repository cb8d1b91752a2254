package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat/distuv"
)

var testParams = HestonParams{Sigma: 0.04, Theta: 0.04, Vov: 1, Rho: -0.9, Mr: 0.5}

// df = 2 的参数集，覆盖 NCX2 的卡方分解分支
var testParamsHighDf = HestonParams{Sigma: 0.04, Theta: 0.04, Vov: 0.2, Rho: -0.5, Mr: 0.5}

func TestVarianceSchemeValid(t *testing.T) {
	for _, s := range []VarianceScheme{SchemeEuler, SchemeMilstein, SchemeNCX2, SchemePoissonGamma, SchemeQE} {
		assert.True(t, s.Valid(), string(s))
	}
	assert.False(t, VarianceScheme("heun").Valid())
	assert.False(t, VarianceScheme("").Valid())
}

func TestAdvanceNonnegative(t *testing.T) {
	for _, scheme := range []VarianceScheme{SchemeEuler, SchemeMilstein, SchemeNCX2, SchemePoissonGamma, SchemeQE} {
		t.Run(string(scheme), func(t *testing.T) {
			st := &varianceStepper{p: testParams, rs: NewRandomStreamSet(1)}
			varPrev := fullSlice(5000, testParams.Sigma)
			for step := 0; step < 8; step++ {
				varPrev, _ = st.advance(scheme, varPrev, 0.5)
				for _, v := range varPrev {
					require.GreaterOrEqual(t, v, 0.0, "scheme %s step %d", scheme, step)
				}
			}
		})
	}
}

// 精确转移方案的一步矩必须与闭式 VarMV 一致
func TestExactSchemesOneStepMoments(t *testing.T) {
	const nPath = 200000
	const dt = 0.5

	for _, p := range []HestonParams{testParams, testParamsHighDf} {
		for _, scheme := range []VarianceScheme{SchemeNCX2, SchemePoissonGamma} {
			st := &varianceStepper{p: p, rs: NewRandomStreamSet(23)}
			varNext, _ := st.advance(scheme, fullSlice(nPath, p.Sigma), dt)

			wantMean, wantVar := p.VarMV(p.Sigma, dt)
			mean, variance := sampleMV(varNext)

			se := math.Sqrt(wantVar / nPath)
			assert.InDelta(t, wantMean, mean, 4*se, "mean scheme=%s df=%v", scheme, p.ChiDim())
			assert.InEpsilon(t, wantVar, variance, 0.05, "variance scheme=%s df=%v", scheme, p.ChiDim())
		}
	}
}

// poisson-gamma 返回的潜在计数 eta 的均值应为 nonc/2
func TestStepPoissonGammaEta(t *testing.T) {
	const nPath = 100000
	const dt = 0.5
	p := testParams

	st := &varianceStepper{p: p, rs: NewRandomStreamSet(29)}
	_, eta := st.stepPoissonGamma(fullSlice(nPath, p.Sigma), dt)
	require.Len(t, eta, nPath)

	phi, exp := p.PhiExp(dt)
	wantMean := p.Sigma * exp * phi / 2

	sum := 0.0
	for _, k := range eta {
		require.GreaterOrEqual(t, k, 0)
		sum += float64(k)
	}
	se := math.Sqrt(wantMean / nPath)
	assert.InDelta(t, wantMean, sum/nPath, 4*se)
}

// QE 两分支在 psi = psiC 处矩连续：固定分位点网格上比较均值与方差
func TestQEBranchContinuityAtPsiC(t *testing.T) {
	const m = 0.04
	const n = 4000
	norm := distuv.Normal{Mu: 0, Sigma: 1}

	quad := make([]float64, n)
	expo := make([]float64, n)
	for i := 0; i < n; i++ {
		z := norm.Quantile((float64(i) + 0.5) / n)
		quad[i] = qeQuadratic(m, psiC, z)
		expo[i] = qeExponential(m, psiC, z)
	}

	quadMean, quadVar := sampleMV(quad)
	expoMean, expoVar := sampleMV(expo)

	assert.InEpsilon(t, m, quadMean, 0.01)
	assert.InEpsilon(t, m, expoMean, 0.01)
	assert.InEpsilon(t, psiC*m*m, quadVar, 0.02)
	assert.InEpsilon(t, psiC*m*m, expoVar, 0.02)
	assert.InEpsilon(t, quadMean, expoMean, 0.01)
	assert.InEpsilon(t, quadVar, expoVar, 0.03)
}

// QE 一步矩匹配：样本均值/方差与目标矩一致
func TestStepQEMoments(t *testing.T) {
	const nPath = 200000
	const dt = 0.5
	p := testParams

	st := &varianceStepper{p: p, rs: NewRandomStreamSet(31)}
	varNext := st.stepQE(fullSlice(nPath, p.Sigma), dt)

	wantMean, wantVar := p.VarMV(p.Sigma, dt)
	mean, variance := sampleMV(varNext)
	se := math.Sqrt(wantVar / nPath)
	assert.InDelta(t, wantMean, mean, 4*se)
	assert.InEpsilon(t, wantVar, variance, 0.05)
}

// Euler/Milstein 步长减小时一步均值收敛到闭式均值
func TestEulerConvergence(t *testing.T) {
	const nPath = 200000
	p := testParams

	const dt = 1.0 / 64

	// 零截断把高斯左尾折到 0，均值被系统性抬高：
	// E[max(X,0)] - mu = sd*phi(a) - mu*Phi(-a)，a = mu/sd
	mu := p.Sigma + p.Mr*(p.Theta-p.Sigma)*dt
	sd := p.Vov * math.Sqrt(p.Sigma*dt)
	floorBias := sd*normPdf(mu/sd) - mu*normCdf(-mu/sd)

	for _, milstein := range []bool{false, true} {
		st := &varianceStepper{p: p, rs: NewRandomStreamSet(37), antithetic: true}
		varNext := st.stepEuler(fullSlice(nPath, p.Sigma), dt, milstein)

		wantMean, wantVar := p.VarMV(p.Sigma, dt)
		mean, _ := sampleMV(varNext)
		se := math.Sqrt(wantVar / nPath)
		// 一阶离散化偏差 O(dt^2) 加上截断偏差，再留 4 SE 噪声余量
		assert.InDelta(t, wantMean, mean, 4*se+floorBias+1e-5, "milstein=%v", milstein)
	}
}
