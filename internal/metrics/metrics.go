package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	DocumentsTotal    *prometheus.CounterVec
	DocumentDuration  prometheus.Histogram
	DocumentsInFlight prometheus.Gauge

	ParseOutcomesTotal *prometheus.CounterVec
	ParseDuration      *prometheus.HistogramVec

	ExportsTotal *prometheus.CounterVec

	CacheHitsTotal   prometheus.Counter
	CacheMissesTotal prometheus.Counter

	RateLimitHitsTotal *prometheus.CounterVec
}

func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith регистрирует метрики в переданном реестре. Тесты передают
// свой, чтобы не конфликтовать с реестром по умолчанию.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	m := &Metrics{
		DocumentsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bizextract_documents_total",
				Help: "Total number of documents processed",
			},
			[]string{"status"},
		),
		DocumentDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "bizextract_document_duration_seconds",
				Help:    "Per-document extraction duration in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10},
			},
		),
		DocumentsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "bizextract_documents_in_flight",
				Help: "Number of documents currently being processed",
			},
		),

		ParseOutcomesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bizextract_parse_outcomes_total",
				Help: "Parse outcomes per field category",
			},
			[]string{"category", "status"},
		),
		ParseDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bizextract_parse_duration_seconds",
				Help:    "Parse duration per field category in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
			},
			[]string{"category"},
		),

		ExportsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bizextract_exports_total",
				Help: "Export outcomes per format",
			},
			[]string{"format", "status"},
		),

		CacheHitsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "bizextract_cache_hits_total",
				Help: "Total number of result cache hits",
			},
		),
		CacheMissesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "bizextract_cache_misses_total",
				Help: "Total number of result cache misses",
			},
		),

		RateLimitHitsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bizextract_rate_limit_hits_total",
				Help: "Total number of rate limit hits per source domain",
			},
			[]string{"domain"},
		),
	}

	return m
}

// Handler отдаёт метрики реестра по умолчанию, в него пишет New.
func Handler() http.Handler {
	return promhttp.Handler()
}

// HandlerFor - то же для собственного реестра.
func HandlerFor(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func (m *Metrics) RecordDocument(status string, duration time.Duration) {
	m.DocumentsTotal.WithLabelValues(status).Inc()
	m.DocumentDuration.Observe(duration.Seconds())
}

func (m *Metrics) RecordParse(category string, success bool, duration time.Duration) {
	status := "ok"
	if !success {
		status = "miss"
	}
	m.ParseOutcomesTotal.WithLabelValues(category, status).Inc()
	m.ParseDuration.WithLabelValues(category).Observe(duration.Seconds())
}

func (m *Metrics) RecordExport(format, status string) {
	m.ExportsTotal.WithLabelValues(format, status).Inc()
}

func (m *Metrics) RecordCacheHit() {
	m.CacheHitsTotal.Inc()
}

func (m *Metrics) RecordCacheMiss() {
	m.CacheMissesTotal.Inc()
}

func (m *Metrics) RecordRateLimitHit(domain string) {
	m.RateLimitHitsTotal.WithLabelValues(domain).Inc()
}

func (m *Metrics) IncDocumentsInFlight() {
	m.DocumentsInFlight.Inc()
}

func (m *Metrics) DecDocumentsInFlight() {
	m.DocumentsInFlight.Dec()
}
