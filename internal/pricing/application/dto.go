package application

// PriceOptionCommand 期权定价命令
// PricingModel 取 HestonMC 或 BlackScholes；Heston 字段仅在 HestonMC 下使用
type PriceOptionCommand struct {
	Symbol          string  `json:"symbol" binding:"required"`
	OptionType      string  `json:"option_type" binding:"required,oneof=CALL PUT"`
	UnderlyingPrice float64 `json:"underlying_price" binding:"required,gt=0"`
	StrikePrice     float64 `json:"strike_price" binding:"required,gt=0"`
	TimeToExpiry    float64 `json:"time_to_expiry" binding:"required,gt=0"` // 年
	RiskFreeRate    float64 `json:"risk_free_rate"`
	Volatility      float64 `json:"volatility"` // BlackScholes 下的年化波动率
	PricingModel    string  `json:"pricing_model" binding:"omitempty,oneof=HestonMC BlackScholes"`

	Heston *HestonSpec `json:"heston,omitempty"`
}

// HestonSpec Heston 模型参数与模拟选项
// 模拟字段为零值时回落到服务端默认配置
type HestonSpec struct {
	Sigma float64 `json:"sigma" binding:"required,gt=0"` // 初始方差 V0
	Theta float64 `json:"theta" binding:"required,gt=0"` // 长期均值方差
	Vov   float64 `json:"vov" binding:"required,gt=0"`   // 方差的波动率
	Rho   float64 `json:"rho" binding:"gte=-1,lte=1"`    // 价格与方差的相关系数
	Mr    float64 `json:"mr" binding:"required,gt=0"`    // 均值回复速度

	NPath      int     `json:"n_path,omitempty"`
	Dt         float64 `json:"dt,omitempty"`
	Method     string  `json:"method,omitempty"` // andersen/glasserman-kim/tse-wan/choi-kwok
	Scheme     string  `json:"scheme,omitempty"` // euler/milstein/ncx2/poisson-gamma/qe
	KK         int     `json:"kk,omitempty"`
	Dist       string  `json:"dist,omitempty"` // ig/gamma/lognormal
	Seed       uint64  `json:"seed,omitempty"`
	Antithetic *bool   `json:"antithetic,omitempty"`
}

// CalculateGreeksCommand 希腊字母计算命令
type CalculateGreeksCommand struct {
	Symbol          string  `json:"symbol" binding:"required"`
	OptionType      string  `json:"option_type" binding:"required,oneof=CALL PUT"`
	UnderlyingPrice float64 `json:"underlying_price" binding:"required,gt=0"`
	StrikePrice     float64 `json:"strike_price" binding:"required,gt=0"`
	TimeToExpiry    float64 `json:"time_to_expiry" binding:"required,gt=0"`
	RiskFreeRate    float64 `json:"risk_free_rate"`
	Volatility      float64 `json:"volatility" binding:"required,gt=0"`
}

// PricingResultDTO 定价结果响应
type PricingResultDTO struct {
	Symbol          string  `json:"symbol"`
	OptionPrice     string  `json:"option_price"`
	UnderlyingPrice string  `json:"underlying_price"`
	Delta           string  `json:"delta,omitempty"`
	Gamma           string  `json:"gamma,omitempty"`
	Theta           string  `json:"theta,omitempty"`
	Vega            string  `json:"vega,omitempty"`
	Rho             string  `json:"rho,omitempty"`
	PricingModel    string  `json:"pricing_model"`
	McMethod        string  `json:"mc_method,omitempty"`
	McScheme        string  `json:"mc_scheme,omitempty"`
	McPaths         int     `json:"mc_paths,omitempty"`
	McSeed          uint64  `json:"mc_seed,omitempty"`
	CalculatedAt    int64   `json:"calculated_at"`
	ElapsedSeconds  float64 `json:"elapsed_seconds"`
}

// GreeksDTO 希腊字母响应
type GreeksDTO struct {
	Symbol       string `json:"symbol"`
	Delta        string `json:"delta"`
	Gamma        string `json:"gamma"`
	Theta        string `json:"theta"`
	Vega         string `json:"vega"`
	Rho          string `json:"rho"`
	CalculatedAt int64  `json:"calculated_at"`
}
