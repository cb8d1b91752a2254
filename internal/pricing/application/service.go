// Package application 定价服务的应用层：编排领域计算、持久化与事件发布
package application

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wyfcoding/optionpricing/internal/pricing/domain"
	"github.com/wyfcoding/optionpricing/pkg/config"
	"github.com/wyfcoding/optionpricing/pkg/logger"
	"github.com/wyfcoding/optionpricing/pkg/metrics"
)

const (
	ModelHestonMC     = "HestonMC"
	ModelBlackScholes = "BlackScholes"
)

// PricingService 定价应用服务
type PricingService struct {
	repo        domain.PricingRepository
	publisher   domain.EventPublisher
	simDefaults config.SimulationConfig
}

// NewPricingService 创建定价应用服务
func NewPricingService(repo domain.PricingRepository, publisher domain.EventPublisher, simDefaults config.SimulationConfig) *PricingService {
	return &PricingService{repo: repo, publisher: publisher, simDefaults: simDefaults}
}

// PriceOption 为期权定价，保存结果并发布事件
func (s *PricingService) PriceOption(ctx context.Context, cmd *PriceOptionCommand) (*PricingResultDTO, error) {
	model := cmd.PricingModel
	if model == "" {
		model = ModelBlackScholes
	}
	optionType := domain.OptionType(cmd.OptionType)

	start := time.Now()
	var result *domain.PricingResult
	var err error

	switch model {
	case ModelHestonMC:
		result, err = s.priceHestonMC(cmd, optionType)
	case ModelBlackScholes:
		result, err = s.priceBlackScholes(cmd, optionType)
	default:
		err = fmt.Errorf("unknown pricing model %q", model)
	}
	elapsed := time.Since(start)

	if err != nil {
		metrics.PricingsTotal.WithLabelValues(model, "error").Inc()
		s.publishError(ctx, cmd, err)
		return nil, err
	}
	metrics.PricingsTotal.WithLabelValues(model, "ok").Inc()

	if s.repo != nil {
		if saveErr := s.repo.Save(ctx, result); saveErr != nil {
			// 定价已完成，持久化失败不吞掉结果
			logger.WithContext(ctx).Error("save pricing result failed",
				"symbol", cmd.Symbol, "error", saveErr)
		}
	}
	s.publishPriced(ctx, cmd, result)

	logger.WithContext(ctx).Info("option priced",
		"symbol", cmd.Symbol, "model", model,
		"price", result.OptionPrice.String(), "elapsed", elapsed.String())

	dto := toResultDTO(result)
	dto.ElapsedSeconds = elapsed.Seconds()
	return dto, nil
}

func (s *PricingService) priceBlackScholes(cmd *PriceOptionCommand, optionType domain.OptionType) (*domain.PricingResult, error) {
	if cmd.Volatility <= 0 {
		return nil, fmt.Errorf("volatility must be positive for %s, got %v", ModelBlackScholes, cmd.Volatility)
	}
	bs := domain.CalculateBlackScholes(optionType, domain.BlackScholesInput{
		S: cmd.UnderlyingPrice,
		K: cmd.StrikePrice,
		T: cmd.TimeToExpiry,
		R: cmd.RiskFreeRate,
		V: cmd.Volatility,
	})
	return &domain.PricingResult{
		Symbol:          cmd.Symbol,
		OptionPrice:     bs.Price,
		UnderlyingPrice: decimal.NewFromFloat(cmd.UnderlyingPrice),
		Delta:           bs.Delta,
		Gamma:           bs.Gamma,
		Theta:           bs.Theta,
		Vega:            bs.Vega,
		Rho:             bs.Rho,
		CalculatedAt:    time.Now().UnixMilli(),
		PricingModel:    ModelBlackScholes,
	}, nil
}

func (s *PricingService) priceHestonMC(cmd *PriceOptionCommand, optionType domain.OptionType) (*domain.PricingResult, error) {
	if cmd.Heston == nil {
		return nil, fmt.Errorf("heston parameters required for %s", ModelHestonMC)
	}
	params := domain.HestonParams{
		Sigma: cmd.Heston.Sigma,
		Theta: cmd.Heston.Theta,
		Vov:   cmd.Heston.Vov,
		Rho:   cmd.Heston.Rho,
		Mr:    cmd.Heston.Mr,
	}
	simCfg := s.simConfig(cmd.Heston)

	pricer, err := domain.NewMcPricer(params, simCfg)
	if err != nil {
		return nil, err
	}
	simCfg = pricer.Engine().Config()

	simStart := time.Now()
	prices := pricer.Price([]float64{cmd.StrikePrice}, cmd.UnderlyingPrice, cmd.TimeToExpiry, optionType)
	metrics.SimulationDuration.WithLabelValues(string(simCfg.Method), string(simCfg.Scheme)).
		Observe(time.Since(simStart).Seconds())
	metrics.PathsSimulated.Add(float64(simCfg.NPath))

	return &domain.PricingResult{
		Symbol:          cmd.Symbol,
		OptionPrice:     decimal.NewFromFloat(prices[0]),
		UnderlyingPrice: decimal.NewFromFloat(cmd.UnderlyingPrice),
		CalculatedAt:    time.Now().UnixMilli(),
		PricingModel:    ModelHestonMC,
		McMethod:        string(simCfg.Method),
		McScheme:        string(simCfg.Scheme),
		McPaths:         simCfg.NPath,
		McSeed:          simCfg.Seed,
	}, nil
}

// simConfig 合并请求内的模拟选项与服务端默认值
func (s *PricingService) simConfig(spec *HestonSpec) domain.SimConfig {
	cfg := domain.SimConfig{
		NPath:      s.simDefaults.NPath,
		Dt:         s.simDefaults.Dt,
		Method:     domain.McMethod(s.simDefaults.Method),
		Scheme:     domain.VarianceScheme(s.simDefaults.Scheme),
		KK:         s.simDefaults.KK,
		Dist:       domain.DistFamily(s.simDefaults.Dist),
		Seed:       s.simDefaults.Seed,
		Antithetic: s.simDefaults.Antithetic,
	}
	if spec.NPath > 0 {
		cfg.NPath = spec.NPath
	}
	if spec.Dt > 0 {
		cfg.Dt = spec.Dt
	}
	if spec.Method != "" {
		cfg.Method = domain.McMethod(spec.Method)
	}
	if spec.Scheme != "" {
		cfg.Scheme = domain.VarianceScheme(spec.Scheme)
	}
	if spec.KK > 0 {
		cfg.KK = spec.KK
	}
	if spec.Dist != "" {
		cfg.Dist = domain.DistFamily(spec.Dist)
	}
	if spec.Seed != 0 {
		cfg.Seed = spec.Seed
	}
	if spec.Antithetic != nil {
		cfg.Antithetic = *spec.Antithetic
	}
	if cfg.Seed == 0 {
		cfg.Seed = uint64(time.Now().UnixNano())
	}
	return cfg
}

// CalculateGreeks 计算希腊字母，保存结果并发布事件
func (s *PricingService) CalculateGreeks(ctx context.Context, cmd *CalculateGreeksCommand) (*GreeksDTO, error) {
	optionType := domain.OptionType(cmd.OptionType)
	bs := domain.CalculateBlackScholes(optionType, domain.BlackScholesInput{
		S: cmd.UnderlyingPrice,
		K: cmd.StrikePrice,
		T: cmd.TimeToExpiry,
		R: cmd.RiskFreeRate,
		V: cmd.Volatility,
	})
	now := time.Now().UnixMilli()

	if s.repo != nil {
		result := &domain.PricingResult{
			Symbol:          cmd.Symbol,
			OptionPrice:     bs.Price,
			UnderlyingPrice: decimal.NewFromFloat(cmd.UnderlyingPrice),
			Delta:           bs.Delta,
			Gamma:           bs.Gamma,
			Theta:           bs.Theta,
			Vega:            bs.Vega,
			Rho:             bs.Rho,
			CalculatedAt:    now,
			PricingModel:    ModelBlackScholes,
		}
		if err := s.repo.Save(ctx, result); err != nil {
			logger.WithContext(ctx).Error("save greeks result failed",
				"symbol", cmd.Symbol, "error", err)
		}
	}

	if s.publisher != nil {
		event := domain.GreeksCalculatedEvent{
			Symbol:          cmd.Symbol,
			OptionType:      optionType,
			StrikePrice:     cmd.StrikePrice,
			UnderlyingPrice: cmd.UnderlyingPrice,
			Delta:           bs.Delta.InexactFloat64(),
			Gamma:           bs.Gamma.InexactFloat64(),
			Theta:           bs.Theta.InexactFloat64(),
			Vega:            bs.Vega.InexactFloat64(),
			Rho:             bs.Rho.InexactFloat64(),
			CalculatedAt:    now,
			OccurredOn:      time.Now(),
		}
		if err := s.publisher.PublishGreeksCalculated(ctx, event); err != nil {
			logger.WithContext(ctx).Error("publish greeks event failed",
				"symbol", cmd.Symbol, "error", err)
		}
	}

	metrics.PricingsTotal.WithLabelValues(ModelBlackScholes, "ok").Inc()
	return &GreeksDTO{
		Symbol:       cmd.Symbol,
		Delta:        bs.Delta.String(),
		Gamma:        bs.Gamma.String(),
		Theta:        bs.Theta.String(),
		Vega:         bs.Vega.String(),
		Rho:          bs.Rho.String(),
		CalculatedAt: now,
	}, nil
}

// GetLatest 查询最新定价结果
func (s *PricingService) GetLatest(ctx context.Context, symbol string) (*PricingResultDTO, error) {
	result, err := s.repo.GetLatest(ctx, symbol)
	if err != nil {
		return nil, err
	}
	return toResultDTO(result), nil
}

// GetHistory 查询历史定价结果
func (s *PricingService) GetHistory(ctx context.Context, symbol string, limit int) ([]*PricingResultDTO, error) {
	results, err := s.repo.GetHistory(ctx, symbol, limit)
	if err != nil {
		return nil, err
	}
	dtos := make([]*PricingResultDTO, len(results))
	for i, r := range results {
		dtos[i] = toResultDTO(r)
	}
	return dtos, nil
}

func (s *PricingService) publishPriced(ctx context.Context, cmd *PriceOptionCommand, result *domain.PricingResult) {
	if s.publisher == nil {
		return
	}
	event := domain.OptionPricedEvent{
		Symbol:          cmd.Symbol,
		OptionType:      domain.OptionType(cmd.OptionType),
		StrikePrice:     cmd.StrikePrice,
		OptionPrice:     result.OptionPrice.InexactFloat64(),
		UnderlyingPrice: cmd.UnderlyingPrice,
		PricingModel:    result.PricingModel,
		McMethod:        result.McMethod,
		McScheme:        result.McScheme,
		McPaths:         result.McPaths,
		McSeed:          result.McSeed,
		CalculatedAt:    result.CalculatedAt,
		OccurredOn:      time.Now(),
	}
	if err := s.publisher.PublishOptionPriced(ctx, event); err != nil {
		logger.WithContext(ctx).Error("publish priced event failed",
			"symbol", cmd.Symbol, "error", err)
	}
}

func (s *PricingService) publishError(ctx context.Context, cmd *PriceOptionCommand, cause error) {
	if s.publisher == nil {
		return
	}
	event := domain.PricingErrorEvent{
		Symbol:      cmd.Symbol,
		OptionType:  domain.OptionType(cmd.OptionType),
		StrikePrice: cmd.StrikePrice,
		Error:       cause.Error(),
		OccurredAt:  time.Now().UnixMilli(),
		OccurredOn:  time.Now(),
	}
	if err := s.publisher.PublishPricingError(ctx, event); err != nil {
		logger.WithContext(ctx).Error("publish error event failed",
			"symbol", cmd.Symbol, "error", err)
	}
}

func toResultDTO(r *domain.PricingResult) *PricingResultDTO {
	return &PricingResultDTO{
		Symbol:          r.Symbol,
		OptionPrice:     r.OptionPrice.String(),
		UnderlyingPrice: r.UnderlyingPrice.String(),
		Delta:           r.Delta.String(),
		Gamma:           r.Gamma.String(),
		Theta:           r.Theta.String(),
		Vega:            r.Vega.String(),
		Rho:             r.Rho.String(),
		PricingModel:    r.PricingModel,
		McMethod:        r.McMethod,
		McScheme:        r.McScheme,
		McPaths:         r.McPaths,
		McSeed:          r.McSeed,
		CalculatedAt:    r.CalculatedAt,
	}
}
