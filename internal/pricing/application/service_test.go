package application

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wyfcoding/optionpricing/internal/pricing/domain"
	"github.com/wyfcoding/optionpricing/pkg/config"
)

type fakeRepo struct {
	mu    sync.Mutex
	saved []*domain.PricingResult
}

func (r *fakeRepo) Save(_ context.Context, result *domain.PricingResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	result.ID = uint(len(r.saved) + 1)
	r.saved = append(r.saved, result)
	return nil
}

func (r *fakeRepo) GetLatest(_ context.Context, symbol string) (*domain.PricingResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.saved) - 1; i >= 0; i-- {
		if r.saved[i].Symbol == symbol {
			return r.saved[i], nil
		}
	}
	return nil, domain.ErrResultNotFound
}

func (r *fakeRepo) GetHistory(_ context.Context, symbol string, limit int) ([]*domain.PricingResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.PricingResult
	for i := len(r.saved) - 1; i >= 0 && len(out) < limit; i-- {
		if r.saved[i].Symbol == symbol {
			out = append(out, r.saved[i])
		}
	}
	return out, nil
}

type fakePublisher struct {
	mu     sync.Mutex
	priced []domain.OptionPricedEvent
	greeks []domain.GreeksCalculatedEvent
	errs   []domain.PricingErrorEvent
}

func (p *fakePublisher) PublishOptionPriced(_ context.Context, e domain.OptionPricedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.priced = append(p.priced, e)
	return nil
}

func (p *fakePublisher) PublishGreeksCalculated(_ context.Context, e domain.GreeksCalculatedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.greeks = append(p.greeks, e)
	return nil
}

func (p *fakePublisher) PublishPricingError(_ context.Context, e domain.PricingErrorEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.errs = append(p.errs, e)
	return nil
}

func simDefaults() config.SimulationConfig {
	return config.SimulationConfig{
		NPath: 2000, Dt: 0.25, Method: "andersen", Scheme: "qe",
		KK: 1, Dist: "ig", Seed: 42, Antithetic: true,
	}
}

func newTestService() (*PricingService, *fakeRepo, *fakePublisher) {
	repo := &fakeRepo{}
	pub := &fakePublisher{}
	return NewPricingService(repo, pub, simDefaults()), repo, pub
}

func TestPriceOptionBlackScholes(t *testing.T) {
	svc, repo, pub := newTestService()

	dto, err := svc.PriceOption(context.Background(), &PriceOptionCommand{
		Symbol:          "AAPL-C-100",
		OptionType:      "CALL",
		UnderlyingPrice: 100,
		StrikePrice:     100,
		TimeToExpiry:    1,
		RiskFreeRate:    0.05,
		Volatility:      0.2,
		PricingModel:    ModelBlackScholes,
	})
	require.NoError(t, err)
	assert.Equal(t, ModelBlackScholes, dto.PricingModel)
	assert.Equal(t, "AAPL-C-100", dto.Symbol)

	require.Len(t, repo.saved, 1)
	assert.InDelta(t, 10.4506, repo.saved[0].OptionPrice.InexactFloat64(), 1e-3)
	require.Len(t, pub.priced, 1)
	assert.Equal(t, "AAPL-C-100", pub.priced[0].Symbol)
}

func TestPriceOptionDefaultsToBlackScholes(t *testing.T) {
	svc, _, _ := newTestService()
	dto, err := svc.PriceOption(context.Background(), &PriceOptionCommand{
		Symbol: "X", OptionType: "PUT",
		UnderlyingPrice: 100, StrikePrice: 90, TimeToExpiry: 0.5, Volatility: 0.3,
	})
	require.NoError(t, err)
	assert.Equal(t, ModelBlackScholes, dto.PricingModel)
}

func TestPriceOptionHestonMC(t *testing.T) {
	svc, repo, pub := newTestService()

	dto, err := svc.PriceOption(context.Background(), &PriceOptionCommand{
		Symbol:          "SPX-C-100",
		OptionType:      "CALL",
		UnderlyingPrice: 100,
		StrikePrice:     100,
		TimeToExpiry:    10,
		PricingModel:    ModelHestonMC,
		Heston: &HestonSpec{
			Sigma: 0.04, Theta: 0.04, Vov: 1, Rho: -0.9, Mr: 0.5,
			NPath: 20000, Dt: 0.125, Seed: 123456,
		},
	})
	require.NoError(t, err)
	assert.Equal(t, ModelHestonMC, dto.PricingModel)
	assert.Equal(t, "qe", dto.McScheme)
	assert.Equal(t, 20000, dto.McPaths)
	assert.Equal(t, uint64(123456), dto.McSeed)

	require.Len(t, repo.saved, 1)
	// 基准场景的平值价格约 13.09，小样本下宽松校验
	assert.InDelta(t, 13.09, repo.saved[0].OptionPrice.InexactFloat64(), 1.0)
	require.Len(t, pub.priced, 1)
}

func TestPriceOptionHestonMCRequiresSpec(t *testing.T) {
	svc, _, pub := newTestService()
	_, err := svc.PriceOption(context.Background(), &PriceOptionCommand{
		Symbol: "X", OptionType: "CALL",
		UnderlyingPrice: 100, StrikePrice: 100, TimeToExpiry: 1,
		PricingModel: ModelHestonMC,
	})
	assert.Error(t, err)
	assert.Len(t, pub.errs, 1)
}

func TestPriceOptionInvalidHestonParams(t *testing.T) {
	svc, _, _ := newTestService()
	_, err := svc.PriceOption(context.Background(), &PriceOptionCommand{
		Symbol: "X", OptionType: "CALL",
		UnderlyingPrice: 100, StrikePrice: 100, TimeToExpiry: 1,
		PricingModel: ModelHestonMC,
		Heston:       &HestonSpec{Sigma: 0.04, Theta: 0.04, Vov: -1, Rho: 0, Mr: 0.5},
	})
	assert.Error(t, err)
}

func TestPriceOptionUnknownModel(t *testing.T) {
	svc, repo, _ := newTestService()
	_, err := svc.PriceOption(context.Background(), &PriceOptionCommand{
		Symbol: "X", OptionType: "CALL",
		UnderlyingPrice: 100, StrikePrice: 100, TimeToExpiry: 1,
		PricingModel: "Binomial",
	})
	assert.Error(t, err)
	assert.Empty(t, repo.saved)
}

func TestCalculateGreeks(t *testing.T) {
	svc, repo, pub := newTestService()

	dto, err := svc.CalculateGreeks(context.Background(), &CalculateGreeksCommand{
		Symbol: "AAPL-C-100", OptionType: "CALL",
		UnderlyingPrice: 100, StrikePrice: 100, TimeToExpiry: 1,
		RiskFreeRate: 0.05, Volatility: 0.2,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, dto.Delta)
	require.Len(t, repo.saved, 1)
	require.Len(t, pub.greeks, 1)
	assert.InDelta(t, 0.6368, pub.greeks[0].Delta, 1e-3)
}

func TestGetLatestAndHistory(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.PriceOption(ctx, &PriceOptionCommand{
			Symbol: "MSFT-C-300", OptionType: "CALL",
			UnderlyingPrice: 300, StrikePrice: 300, TimeToExpiry: 1, Volatility: 0.25,
		})
		require.NoError(t, err)
	}

	latest, err := svc.GetLatest(ctx, "MSFT-C-300")
	require.NoError(t, err)
	assert.Equal(t, "MSFT-C-300", latest.Symbol)

	history, err := svc.GetHistory(ctx, "MSFT-C-300", 10)
	require.NoError(t, err)
	assert.Len(t, history, 3)

	_, err = svc.GetLatest(ctx, "UNKNOWN")
	assert.Error(t, err)
}

// 请求内选项覆盖服务端默认值，零值回落
func TestSimConfigMerge(t *testing.T) {
	svc, _, _ := newTestService()
	anti := false

	cfg := svc.simConfig(&HestonSpec{
		Sigma: 0.04, Theta: 0.04, Vov: 1, Rho: 0, Mr: 0.5,
		NPath: 500, Method: "choi-kwok", Antithetic: &anti,
	})
	assert.Equal(t, 500, cfg.NPath)
	assert.Equal(t, domain.MethodChoiKwok, cfg.Method)
	assert.Equal(t, 0.25, cfg.Dt)                 // 默认值
	assert.Equal(t, domain.SchemeQE, cfg.Scheme)  // 默认值
	assert.False(t, cfg.Antithetic)               // 显式覆盖
	assert.Equal(t, uint64(42), cfg.Seed)         // 默认种子
}
