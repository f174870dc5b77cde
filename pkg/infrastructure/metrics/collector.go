package metrics

import (
	"net/http"

	"github.com/WangYihang/OSINT-Lab/pkg/domain/entity"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector exports lookup counters to Prometheus
type Collector struct {
	registry *prometheus.Registry
	lookups  *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewCollector creates a collector on its own registry
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "osint_lab",
			Name:      "lookups_total",
			Help:      "Outbound lookups by kind and result.",
		}, []string{"kind", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "osint_lab",
			Name:      "lookup_duration_seconds",
			Help:      "Outbound lookup latency by kind.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),
	}

	c.registry.MustRegister(
		c.lookups,
		c.duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// OnLookup implements application.LookupObserver
func (c *Collector) OnLookup(outcome entity.Outcome) {
	result := "success"
	if !outcome.OK() {
		result = string(outcome.Failure.Reason)
	}
	c.lookups.WithLabelValues(string(outcome.Kind), result).Inc()
	c.duration.WithLabelValues(string(outcome.Kind)).Observe(outcome.Duration.Seconds())
}

// Handler serves the registry in the Prometheus exposition format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// Registry returns the underlying registry
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
