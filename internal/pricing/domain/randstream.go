package domain

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// 逻辑独立的随机流编号
// 不同用途的抽样使用不同的流，保证各流之间相互独立且可复现
const (
	streamNormal       = iota // 正态抽样（方差步进、对数正态近似）
	streamGamma               // gamma 幅值抽样（级数项、矩匹配抽样）
	streamPoissonCount        // 方差步进的潜在 Poisson 计数
	streamUniform             // 均匀抽样（eta 离散分布反演）
	streamSeries              // 级数系数的 Poisson 计数抽样
	numStreams
)

// RandomStreamSet 一组相互独立的命名随机流
// 由根种子按 splitmix64 计数器派生，每次定价调用重新派生，
// 不共享可变全局状态；同一种子与配置必须产生相同输出
type RandomStreamSet struct {
	streams [numStreams]*rand.Rand
}

// NewRandomStreamSet 从根种子派生随机流集合
func NewRandomStreamSet(seed uint64) *RandomStreamSet {
	s := &RandomStreamSet{}
	for i := range s.streams {
		s.streams[i] = rand.New(rand.NewSource(splitmix64(seed, uint64(i))))
	}
	return s
}

// splitmix64 由根种子和流编号得到互不碰撞的子种子
func splitmix64(seed, i uint64) uint64 {
	z := seed + (i+1)*0x9E3779B97F4A7C15
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

// Normals 从正态流抽取 n 个标准正态
// antithetic 时抽取前半并镜像取负（n 为奇数时中间值单独抽取）
func (s *RandomStreamSet) Normals(n int, antithetic bool) []float64 {
	zz := make([]float64, n)
	dist := distuv.Normal{Mu: 0, Sigma: 1, Src: s.streams[streamNormal]}
	if !antithetic {
		for i := range zz {
			zz[i] = dist.Rand()
		}
		return zz
	}
	half := n / 2
	for i := 0; i < half; i++ {
		zz[i] = dist.Rand()
		zz[half+i] = -zz[i]
	}
	if n%2 == 1 {
		zz[n-1] = dist.Rand()
	}
	return zz
}

// NormalsSpawn 从指定流抽取标准正态（矩匹配近似使用 gamma 流的正态）
func (s *RandomStreamSet) NormalsSpawn(stream, n int) []float64 {
	zz := make([]float64, n)
	dist := distuv.Normal{Mu: 0, Sigma: 1, Src: s.streams[stream]}
	for i := range zz {
		zz[i] = dist.Rand()
	}
	return zz
}

// Uniforms 从均匀流抽取 n 个 U(0,1)
func (s *RandomStreamSet) Uniforms(n int) []float64 {
	uu := make([]float64, n)
	for i := range uu {
		uu[i] = s.streams[streamUniform].Float64()
	}
	return uu
}

// GammaRand 从 gamma 流抽取单个 Gamma(shape, scale=1) 变量
// shape 为零时返回零（Poisson 计数为零的级数项退化为零）
func (s *RandomStreamSet) GammaRand(shape float64) float64 {
	if shape <= 0 {
		return 0
	}
	dist := distuv.Gamma{Alpha: shape, Beta: 1, Src: s.streams[streamGamma]}
	return dist.Rand()
}

// PoissonRand 从指定流抽取单个 Poisson(lambda) 计数
func (s *RandomStreamSet) PoissonRand(stream int, lambda float64) float64 {
	if lambda <= 0 {
		return 0
	}
	dist := distuv.Poisson{Lambda: lambda, Src: s.streams[stream]}
	return dist.Rand()
}

// GammaUniform 从 gamma 流抽取 U(0,1)，供逆高斯变换使用
func (s *RandomStreamSet) GammaUniform() float64 {
	return s.streams[streamGamma].Float64()
}
