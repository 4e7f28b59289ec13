// Package metrics exposes Prometheus instrumentation for batch generation and
// the HTTP surface.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wonny/kscanner/internal/contracts"
)

const namespace = "kscanner"

// Registry holds all scanner metrics on a private registry
// ⭐ SSOT: 메트릭 정의는 여기서만
type Registry struct {
	reg *prometheus.Registry

	BatchesGenerated prometheus.Counter
	RecordsRejected  prometheus.Counter
	BatchSize        prometheus.Gauge
	BatchTier        *prometheus.GaugeVec
	LastBatchTime    prometheus.Gauge

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	WSClients prometheus.Gauge
}

// NewRegistry creates and registers every metric
func NewRegistry() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),

		BatchesGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batches_generated_total",
			Help:      "Total number of batches generated",
		}),

		RecordsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_rejected_total",
			Help:      "Total number of generated records rejected by validation",
		}),

		BatchSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "batch_rows",
			Help:      "Number of accepted rows in the current batch",
		}),

		BatchTier: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "batch_tier_rows",
			Help:      "Rows per recommendation tier in the current batch",
		}, []string{"tier"}),

		LastBatchTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_batch_timestamp_seconds",
			Help:      "Unix time the current batch was generated",
		}),

		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests by route, method and status",
		}, []string{"route", "method", "status"}),

		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
		}, []string{"route", "method"}),

		WSClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "websocket_clients",
			Help:      "Connected websocket clients",
		}),
	}

	r.reg.MustRegister(
		r.BatchesGenerated,
		r.RecordsRejected,
		r.BatchSize,
		r.BatchTier,
		r.LastBatchTime,
		r.HTTPRequests,
		r.HTTPDuration,
		r.WSClients,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return r
}

// ObserveBatch records a newly generated batch; register it with BatchHolder.OnRefresh
func (r *Registry) ObserveBatch(batch *contracts.Batch) {
	r.BatchesGenerated.Inc()
	r.RecordsRejected.Add(float64(len(batch.Warnings)))
	r.BatchSize.Set(float64(batch.Len()))
	r.LastBatchTime.Set(float64(batch.GeneratedAt.Unix()))

	counts := make(map[contracts.Tier]int, len(contracts.AllTiers))
	for _, s := range batch.Scores {
		counts[s.Tier()]++
	}
	for _, tier := range contracts.AllTiers {
		r.BatchTier.WithLabelValues(tier.String()).Set(float64(counts[tier]))
	}
}

// ObserveRequest records one served HTTP request
func (r *Registry) ObserveRequest(route, method string, status int, elapsed time.Duration) {
	r.HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	r.HTTPDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus text format
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// Gatherer exposes the underlying registry (tests, push gateways)
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}
