// Package metrics 看板服务的 Prometheus 指标
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager 持有全部指标
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	fetchLatency *prometheus.HistogramVec
	fetchErrors  *prometheus.CounterVec

	recordsAggregated *prometheus.CounterVec
	registrySize      prometheus.Gauge
	registryRefreshes *prometheus.CounterVec
}

// Option 配置 Manager
type Option func(*Manager)

// WithNamespace 指标命名空间
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithHistogramBuckets 延迟直方图分桶，单位毫秒
func WithHistogramBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if len(buckets) > 0 {
			m.histogramBuckets = buckets
		}
	}
}

// WithPrometheusRegistry 指定注册表
func WithPrometheusRegistry(registry prometheus.Registerer) Option {
	return func(m *Manager) {
		if registry != nil {
			m.registry = registry
		}
	}
}

var (
	globalManager  *Manager
	customRegistry = prometheus.NewRegistry()
)

func init() {
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager 创建并注册指标
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "crm",
		subsystem:        "dashboard",
		histogramBuckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by route, method and status code",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.fetchLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "source_fetch_duration_milliseconds",
			Help:      "Record source fetch latency in milliseconds by dataset",
			Buckets:   m.histogramBuckets,
		},
		[]string{"dataset"},
	)

	m.fetchErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "source_fetch_errors_total",
			Help:      "Record source fetch failures by dataset",
		},
		[]string{"dataset"},
	)

	m.recordsAggregated = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "records_aggregated_total",
			Help:      "Records fed into aggregations by view",
		},
		[]string{"view"},
	)

	m.registrySize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "producer_registry_size",
		Help:      "Number of producers in the registry",
	})

	m.registryRefreshes = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "producer_registry_refreshes_total",
			Help:      "Producer registry refreshes by result",
		},
		[]string{"result"},
	)
}

// RecordHTTPRequest 记录一次HTTP请求及耗时
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordFetch 记录一次数据源查询
func RecordFetch(dataset string, durationMs float64, err error) {
	globalManager.fetchLatency.WithLabelValues(dataset).Observe(durationMs)
	if err != nil {
		globalManager.fetchErrors.WithLabelValues(dataset).Inc()
	}
}

// RecordAggregated 记录参与聚合的记录数
func RecordAggregated(view string, count int) {
	globalManager.recordsAggregated.WithLabelValues(view).Add(float64(count))
}

// RecordRegistryRefresh 记录注册表刷新结果与当前大小
func RecordRegistryRefresh(size int, err error) {
	if err != nil {
		globalManager.registryRefreshes.WithLabelValues("error").Inc()
		return
	}
	globalManager.registryRefreshes.WithLabelValues("ok").Inc()
	globalManager.registrySize.Set(float64(size))
}

// GetRegistry 指标注册表，供 /metrics 暴露
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
