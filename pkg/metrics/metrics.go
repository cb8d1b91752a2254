// Package metrics 定义 Prometheus 指标
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequestsTotal HTTP 请求总数
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pricing_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	// HTTPRequestDuration HTTP 请求耗时
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pricing_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	// PricingsTotal 定价请求总数，按模型与结果分类
	PricingsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pricing_pricings_total",
		Help: "Total number of option pricings performed",
	}, []string{"model", "status"})

	// SimulationDuration 蒙特卡洛模拟耗时
	SimulationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pricing_simulation_duration_seconds",
		Help:    "Monte Carlo simulation latency in seconds",
		Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"method", "scheme"})

	// PathsSimulated 已模拟路径总数
	PathsSimulated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pricing_paths_simulated_total",
		Help: "Total number of Monte Carlo paths simulated",
	})

	// CacheHits 缓存命中数
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pricing_cache_operations_total",
		Help: "Cache operations by result",
	}, []string{"result"})
)

// Handler 返回 Prometheus 指标的 HTTP 处理器
func Handler() http.Handler {
	return promhttp.Handler()
}
