// internal/metrics/collector.go
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricType представляет тип метрики
type MetricType string

const (
	QuoteCounterType    MetricType = "quote_counter"
	QuoteDurationType   MetricType = "quote_duration"
	QuoteSlippageType   MetricType = "quote_slippage"
	BatchSizeType       MetricType = "batch_size"
	SnapshotCounterType MetricType = "snapshot_counter"
)

// Исходы расчета котировки
const (
	OutcomeQuoted      = "quoted"
	OutcomeNoLiquidity = "no_liquidity"
	OutcomeInvalid     = "invalid_input"
	OutcomeCanceled    = "canceled"
)

const namespace = "hanji"

// Collector управляет набором метрик SDK.
// Каждый Collector владеет своими векторами, поэтому в тестах
// можно создавать независимые экземпляры на отдельных реестрах.
type Collector struct {
	metrics  sync.Map
	gatherer prometheus.Gatherer

	quoteCounter    *prometheus.CounterVec
	quoteDuration   *prometheus.HistogramVec
	quoteSlippage   *prometheus.HistogramVec
	batchSize       prometheus.Histogram
	snapshotCounter *prometheus.CounterVec
}

// NewCollector создает коллектор и регистрирует метрики в reg.
// nil - собственный реестр коллектора.
func NewCollector(reg *prometheus.Registry) *Collector {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	c := &Collector{
		gatherer: reg,
		quoteCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "quotes_total",
				Help:      "Total number of market order quotes by outcome",
			},
			[]string{"direction", "input", "outcome"},
		),
		quoteDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "quote_duration_seconds",
				Help:      "Quote computation duration in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 8),
			},
			[]string{"direction", "input"},
		),
		quoteSlippage: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "quote_slippage_percent",
				Help:      "Estimated slippage of computed quotes in percent",
				Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 25},
			},
			[]string{"direction"},
		),
		batchSize: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "quote_batch_size",
				Help:      "Number of intents per quote batch",
				Buckets:   prometheus.LinearBuckets(1, 10, 6),
			},
		),
		snapshotCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "snapshot_loads_total",
				Help:      "Total number of orderbook snapshot loads",
			},
			[]string{"status"},
		),
	}

	metricsMap := map[MetricType]prometheus.Collector{
		QuoteCounterType:    c.quoteCounter,
		QuoteDurationType:   c.quoteDuration,
		QuoteSlippageType:   c.quoteSlippage,
		BatchSizeType:       c.batchSize,
		SnapshotCounterType: c.snapshotCounter,
	}
	for metricType, metric := range metricsMap {
		c.metrics.Store(metricType, metric)
		reg.MustRegister(metric)
	}

	return c
}

// RecordQuote записывает исход и длительность расчета
func (c *Collector) RecordQuote(direction, input, outcome string, duration time.Duration) {
	if c == nil {
		return
	}
	c.quoteCounter.WithLabelValues(direction, input, outcome).Inc()
	c.quoteDuration.WithLabelValues(direction, input).Observe(duration.Seconds())
}

// ObserveSlippage записывает оценку проскальзывания котировки
func (c *Collector) ObserveSlippage(direction string, pct float64) {
	if c == nil {
		return
	}
	c.quoteSlippage.WithLabelValues(direction).Observe(pct)
}

// ObserveBatch записывает размер пакета котировок
func (c *Collector) ObserveBatch(size int) {
	if c == nil {
		return
	}
	c.batchSize.Observe(float64(size))
}

// RecordSnapshotLoad учитывает загрузку снимка книги
func (c *Collector) RecordSnapshotLoad(success bool) {
	if c == nil {
		return
	}
	status := "success"
	if !success {
		status = "failure"
	}
	c.snapshotCounter.WithLabelValues(status).Inc()
}

// Reset сбрасывает все метрики (полезно для тестирования)
func (c *Collector) Reset() {
	c.metrics.Range(func(_, value interface{}) bool {
		switch m := value.(type) {
		case *prometheus.CounterVec:
			m.Reset()
		case *prometheus.HistogramVec:
			m.Reset()
		}
		return true
	})
}

// Handler отдает метрики коллектора в формате Prometheus
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}
