package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateBlackScholesKnownValue(t *testing.T) {
	// S=100, K=100, T=1, r=5%, vol=20% 的教科书值
	input := BlackScholesInput{S: 100, K: 100, T: 1, R: 0.05, V: 0.2}

	call := CalculateBlackScholes(OptionTypeCall, input)
	require.NotNil(t, call)
	assert.InDelta(t, 10.4506, call.Price.InexactFloat64(), 1e-3)
	assert.InDelta(t, 0.6368, call.Delta.InexactFloat64(), 1e-3)

	put := CalculateBlackScholes(OptionTypePut, input)
	assert.InDelta(t, 5.5735, put.Price.InexactFloat64(), 1e-3)
	assert.InDelta(t, -0.3632, put.Delta.InexactFloat64(), 1e-3)
}

func TestCalculateBlackScholesParity(t *testing.T) {
	input := BlackScholesInput{S: 105, K: 95, T: 0.5, R: 0.03, V: 0.35}
	call := CalculateBlackScholes(OptionTypeCall, input)
	put := CalculateBlackScholes(OptionTypePut, input)

	want := input.S - input.K*math.Exp(-input.R*input.T)
	got := call.Price.InexactFloat64() - put.Price.InexactFloat64()
	assert.InDelta(t, want, got, 1e-9)

	// gamma 与 vega 对 call/put 相同
	assert.Equal(t, call.Gamma.String(), put.Gamma.String())
	assert.Equal(t, call.Vega.String(), put.Vega.String())
}

func TestBsmForwardPrice(t *testing.T) {
	// 远期形式：fwd=100, K=100, 总标准差 0.2
	price := bsmForwardPrice(100, 100, 0.2, OptionTypeCall)
	assert.InDelta(t, 7.9656, price, 1e-3)

	// 波动率为零时退化为内在价值
	assert.Equal(t, 10.0, bsmForwardPrice(110, 100, 0, OptionTypeCall))
	assert.Equal(t, 0.0, bsmForwardPrice(90, 100, 0, OptionTypeCall))
	assert.Equal(t, 10.0, bsmForwardPrice(90, 100, 0, OptionTypePut))

	// 平价关系
	call := bsmForwardPrice(105, 95, 0.3, OptionTypeCall)
	put := bsmForwardPrice(105, 95, 0.3, OptionTypePut)
	assert.InDelta(t, 10.0, call-put, 1e-9)
}

func TestNormCdf(t *testing.T) {
	assert.InDelta(t, 0.5, normCdf(0), 1e-12)
	assert.InDelta(t, 0.8413447460685429, normCdf(1), 1e-12)
	assert.InDelta(t, 1.0, normCdf(0)+normCdf(0), 1e-12)
	assert.InDelta(t, normCdf(-2), 1-normCdf(2), 1e-12)
}
