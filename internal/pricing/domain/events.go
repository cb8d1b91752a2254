package domain

import "time"

const (
	OptionPricedEventType     = "OptionPriced"
	GreeksCalculatedEventType = "GreeksCalculated"
	PricingErrorEventType     = "PricingError"
)

// OptionPricedEvent 期权定价完成事件
type OptionPricedEvent struct {
	Symbol          string     `json:"symbol"`
	OptionType      OptionType `json:"option_type"`
	StrikePrice     float64    `json:"strike_price"`
	OptionPrice     float64    `json:"option_price"`
	UnderlyingPrice float64    `json:"underlying_price"`
	PricingModel    string     `json:"pricing_model"`
	McMethod        string     `json:"mc_method,omitempty"`
	McScheme        string     `json:"mc_scheme,omitempty"`
	McPaths         int        `json:"mc_paths,omitempty"`
	McSeed          uint64     `json:"mc_seed,omitempty"`
	CalculatedAt    int64      `json:"calculated_at"`
	OccurredOn      time.Time  `json:"occurred_on"`
}

// GreeksCalculatedEvent 希腊字母计算完成事件
type GreeksCalculatedEvent struct {
	Symbol          string     `json:"symbol"`
	OptionType      OptionType `json:"option_type"`
	StrikePrice     float64    `json:"strike_price"`
	UnderlyingPrice float64    `json:"underlying_price"`
	Delta           float64    `json:"delta"`
	Gamma           float64    `json:"gamma"`
	Theta           float64    `json:"theta"`
	Vega            float64    `json:"vega"`
	Rho             float64    `json:"rho"`
	CalculatedAt    int64      `json:"calculated_at"`
	OccurredOn      time.Time  `json:"occurred_on"`
}

// PricingErrorEvent 定价错误事件
type PricingErrorEvent struct {
	Symbol      string     `json:"symbol"`
	OptionType  OptionType `json:"option_type"`
	StrikePrice float64    `json:"strike_price"`
	Error       string     `json:"error"`
	OccurredAt  int64      `json:"occurred_at"`
	OccurredOn  time.Time  `json:"occurred_on"`
}
