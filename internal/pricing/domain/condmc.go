package domain

import (
	"fmt"
	"math"
)

// McMethod 条件蒙特卡洛的总体算法
type McMethod string

const (
	// MethodAndersen 沿时间网格逐步离散化（Euler/Milstein/NCX2/Poisson-gamma/QE）
	// 并用增量加权平均累计积分方差
	MethodAndersen McMethod = "andersen"
	// MethodGlassermanKim 整个期限一步精确跨越 + gamma 级数抽取积分方差
	MethodGlassermanKim McMethod = "glasserman-kim"
	// MethodTseWan 逐子步精确步进 + 子步条件矩的矩匹配单次抽样
	MethodTseWan McMethod = "tse-wan"
	// MethodChoiKwok 合并统计量后整个期限单次抽样
	MethodChoiKwok McMethod = "choi-kwok"
)

// Valid 判断算法取值是否合法
func (m McMethod) Valid() bool {
	switch m {
	case MethodAndersen, MethodGlassermanKim, MethodTseWan, MethodChoiKwok:
		return true
	}
	return false
}

// SimConfig 一次定价调用的模拟配置
// 构造后在一次模拟进行中不可并发修改
type SimConfig struct {
	NPath      int            // 路径数
	Dt         float64        // 时间步长（glasserman-kim 一步跨越时可为零）
	Seed       uint64         // 根随机种子
	Antithetic bool           // 对偶变量（仅 andersen 方法使用）
	Method     McMethod       // 总体算法
	Scheme     VarianceScheme // andersen 方法的一步推进方案
	KK         int            // gamma 级数截断阶数
	Dist       DistFamily     // 尾部/积分方差的近似分布族
}

// Normalize 填充与原始模型一致的缺省值
func (c SimConfig) Normalize() SimConfig {
	if c.Method == "" {
		c.Method = MethodAndersen
	}
	if c.Scheme == "" {
		c.Scheme = SchemeQE
	}
	if c.Dist == "" {
		c.Dist = DistInverseGaussian
	}
	return c
}

// Validate 在任何抽样开始前校验配置，错误直接指明非法取值
func (c SimConfig) Validate() error {
	if c.NPath <= 0 {
		return fmt.Errorf("simconfig: path count must be positive, got %d", c.NPath)
	}
	if !c.Method.Valid() {
		return fmt.Errorf("simconfig: unknown method %q", string(c.Method))
	}
	if !c.Scheme.Valid() {
		return fmt.Errorf("simconfig: unknown variance scheme %q", string(c.Scheme))
	}
	if !c.Dist.Valid() {
		return fmt.Errorf("simconfig: unknown distribution family %q", string(c.Dist))
	}
	if c.KK < 0 {
		return fmt.Errorf("simconfig: series truncation order must be >= 0, got %d", c.KK)
	}
	if c.Method != MethodGlassermanKim && c.Dt <= 0 {
		return fmt.Errorf("simconfig: time step must be positive for method %q, got %v", string(c.Method), c.Dt)
	}
	return nil
}

// McEngine 条件蒙特卡洛引擎
// 每次调用重新派生随机流，路径间无共享可变状态；
// 同一种子与配置在重复调用间产生逐位相同的输出
type McEngine struct {
	p   HestonParams
	cfg SimConfig
}

// NewMcEngine 构造引擎，参数与配置都在此处 fail-fast 校验
func NewMcEngine(p HestonParams, cfg SimConfig) (*McEngine, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &McEngine{p: p, cfg: cfg}, nil
}

// Params 返回模型参数
func (m *McEngine) Params() HestonParams { return m.p }

// Config 返回归一化后的模拟配置
func (m *McEngine) Config() SimConfig { return m.cfg }

// nSteps 时间网格的步数
func (m *McEngine) nSteps(texp float64) int {
	if m.cfg.Method == MethodGlassermanKim || m.cfg.Dt <= 0 {
		return 1
	}
	n := int(math.Ceil(texp/m.cfg.Dt - 1e-9))
	if n < 1 {
		n = 1
	}
	return n
}

// CondStates 给定初始方差与期限，返回每条路径的 (终值方差, 平均方差)
// 平均方差按整个期限归一（而不是按子步）
func (m *McEngine) CondStates(var0, texp float64) (varFinal, varAvg []float64) {
	rs := NewRandomStreamSet(m.cfg.Seed)
	st := &varianceStepper{p: m.p, rs: rs, antithetic: m.cfg.Antithetic && m.cfg.Method == MethodAndersen}
	eng := &gammaSeriesEngine{p: m.p, rs: rs, kk: m.cfg.KK}
	nDt := m.nSteps(texp)

	switch m.cfg.Method {
	case MethodAndersen:
		return m.condStatesStepwise(var0, texp, nDt, st)
	case MethodGlassermanKim:
		return eng.condStates(var0, texp, m.cfg.NPath, st)
	case MethodTseWan:
		return eng.condStatesSubstep(m.cfg.Dist, var0, texp, m.cfg.NPath, nDt, st)
	case MethodChoiKwok:
		return eng.condStatesPooled(m.cfg.Dist, var0, texp, m.cfg.NPath, nDt, st)
	}
	panic("domain: unreachable mc method " + string(m.cfg.Method))
}

// condStatesStepwise 逐步推进并做增量加权平均
// 权重首尾为 1、内点为 2，按总权归一（梯形权的增量形式）
func (m *McEngine) condStatesStepwise(var0, texp float64, nDt int, st *varianceStepper) (varT, varAvg []float64) {
	dt := texp / float64(nDt)
	wSum := 2 * float64(nDt)

	varT = fullSlice(m.cfg.NPath, var0)
	varAvg = make([]float64, m.cfg.NPath)
	for i := range varAvg {
		varAvg[i] = varT[i] / wSum
	}

	for step := 0; step < nDt; step++ {
		varT, _ = st.advance(m.cfg.Scheme, varT, dt)
		w := 2.0
		if step == nDt-1 {
			w = 1.0
		}
		for i := range varAvg {
			varAvg[i] += w * varT[i] / wSum
		}
	}
	return varT, varAvg
}

// VolPaths 返回完整方差路径（n_dt+1 行 × n_path 列），诊断与测试用
func (m *McEngine) VolPaths(texp float64) [][]float64 {
	rs := NewRandomStreamSet(m.cfg.Seed)
	st := &varianceStepper{p: m.p, rs: rs, antithetic: m.cfg.Antithetic}
	nDt := m.nSteps(texp)
	dt := texp / float64(nDt)

	paths := make([][]float64, nDt+1)
	paths[0] = fullSlice(m.cfg.NPath, m.p.Sigma)
	for step := 1; step <= nDt; step++ {
		paths[step], _ = st.advance(m.cfg.Scheme, paths[step-1], dt)
	}
	return paths
}

// CondSpotSigma 把 (初始方差, 终值方差, 平均方差) 翻译为外层定价公式
// 消费的两个充分统计量：条件价格乘子与残差波动率
func (m *McEngine) CondSpotSigma(var0, texp float64) (spotCond, sigmaCond []float64) {
	varFinal, varAvg := m.CondStates(var0, texp)

	p := m.p
	spotCond = make([]float64, len(varFinal))
	sigmaCond = make([]float64, len(varFinal))
	for i := range varFinal {
		drift := ((varFinal[i]-var0)-p.Mr*texp*(p.Theta-varAvg[i]))/p.Vov - 0.5*p.Rho*varAvg[i]*texp
		spotCond[i] = math.Exp(p.Rho * drift)
		sigmaCond[i] = math.Sqrt((1 - p.Rho*p.Rho) * varAvg[i] / var0)
	}
	return spotCond, sigmaCond
}
