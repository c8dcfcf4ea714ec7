package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector exposes Prometheus metrics for inbound HTTP requests and the
// allocation pipeline.
type Collector struct {
	registry        *prometheus.Registry
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec

	allocationsTotal   *prometheus.CounterVec
	completionDuration prometheus.Histogram
	upstreamDuration   *prometheus.HistogramVec
	repairsTotal       prometheus.Counter
}

// NewCollector constructs a collector with its own registry.
func NewCollector() (*Collector, error) {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "crisisalpha",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Latency distribution for inbound HTTP requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "crisisalpha",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of inbound HTTP requests.",
	}, []string{"method", "path", "status"})

	allocationsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "crisisalpha",
		Subsystem: "pipeline",
		Name:      "allocations_total",
		Help:      "Allocation requests by outcome.",
	}, []string{"outcome"})

	completionDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "crisisalpha",
		Subsystem: "pipeline",
		Name:      "completion_duration_seconds",
		Help:      "Latency of the text-completion call.",
		Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 40, 60},
	})

	upstreamDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "crisisalpha",
		Subsystem: "pipeline",
		Name:      "upstream_duration_seconds",
		Help:      "Latency of market and news upstream fetches.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"upstream"})

	repairsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "crisisalpha",
		Subsystem: "pipeline",
		Name:      "repairs_total",
		Help:      "Allocations whose percentages required proportional rescaling.",
	})

	collectors := []prometheus.Collector{
		requestDuration, requestTotal, allocationsTotal,
		completionDuration, upstreamDuration, repairsTotal,
	}
	for _, c := range collectors {
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}

	return &Collector{
		registry:           registry,
		requestDuration:    requestDuration,
		requestTotal:       requestTotal,
		allocationsTotal:   allocationsTotal,
		completionDuration: completionDuration,
		upstreamDuration:   upstreamDuration,
		repairsTotal:       repairsTotal,
	}, nil
}

// Handler returns an HTTP handler for exposing Prometheus metrics.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// ObserveAllocation records one finished allocation request by outcome
// ("ok", "upstream_unavailable", "malformed_response", "degenerate").
func (c *Collector) ObserveAllocation(outcome string) {
	if c == nil {
		return
	}
	c.allocationsTotal.WithLabelValues(outcome).Inc()
}

// ObserveCompletion records the latency of one completion call.
func (c *Collector) ObserveCompletion(d time.Duration) {
	if c == nil {
		return
	}
	c.completionDuration.Observe(d.Seconds())
}

// ObserveUpstream records the latency of one market or news fetch.
func (c *Collector) ObserveUpstream(upstream string, d time.Duration) {
	if c == nil {
		return
	}
	c.upstreamDuration.WithLabelValues(upstream).Observe(d.Seconds())
}

// ObserveRepair records one proportional rescale.
func (c *Collector) ObserveRepair() {
	if c == nil {
		return
	}
	c.repairsTotal.Inc()
}

// InstrumentHandler wraps the provided handler to record HTTP metrics.
func (c *Collector) InstrumentHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.status)
		path := r.URL.Path

		c.requestTotal.WithLabelValues(r.Method, path, status).Inc()
		c.requestDuration.WithLabelValues(r.Method, path, status).Observe(duration)
	})
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (w *responseWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
