package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds Prometheus counters, gauges and histograms for the render
// service.
type Metrics struct {
	registry              *prometheus.Registry
	requestsTotal         *prometheus.CounterVec
	errorsTotal           prometheus.Counter
	rendersStartedTotal   prometheus.Counter
	rendersCompletedTotal prometheus.Counter
	rendersFailedTotal    *prometheus.CounterVec
	fallbackVisualsTotal  prometheus.Counter
	activeRenders         prometheus.Gauge
	stageDuration         *prometheus.HistogramVec
}

// New creates and registers Prometheus metrics for the render service.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	requestsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "lecture_requests_total",
		Help: "Total number of HTTP requests received, by method and route",
	}, []string{"method", "route"})
	errorsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "lecture_errors_total",
		Help: "Total number of HTTP responses with error status (4xx or 5xx)",
	})
	rendersStartedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "lecture_renders_started_total",
		Help: "Total number of render jobs accepted",
	})
	rendersCompletedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "lecture_renders_completed_total",
		Help: "Total number of render jobs that produced a video",
	})
	rendersFailedTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "lecture_renders_failed_total",
		Help: "Total number of render jobs that failed, by failing stage",
	}, []string{"stage"})
	fallbackVisualsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "lecture_fallback_visuals_total",
		Help: "Total number of slides drawn by the plain-text fallback",
	})
	activeRenders := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "lecture_active_renders",
		Help: "Number of render jobs not yet done or failed",
	})
	stageDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "lecture_stage_duration_seconds",
		Help:    "Time spent in each pipeline stage",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
	}, []string{"stage"})

	registry.MustRegister(
		requestsTotal,
		errorsTotal,
		rendersStartedTotal,
		rendersCompletedTotal,
		rendersFailedTotal,
		fallbackVisualsTotal,
		activeRenders,
		stageDuration,
	)

	return &Metrics{
		registry:              registry,
		requestsTotal:         requestsTotal,
		errorsTotal:           errorsTotal,
		rendersStartedTotal:   rendersStartedTotal,
		rendersCompletedTotal: rendersCompletedTotal,
		rendersFailedTotal:    rendersFailedTotal,
		fallbackVisualsTotal:  fallbackVisualsTotal,
		activeRenders:         activeRenders,
		stageDuration:         stageDuration,
	}
}

// IncRequests increments the request counter for method and route.
func (m *Metrics) IncRequests(method, route string) {
	m.requestsTotal.WithLabelValues(method, route).Inc()
}

// IncErrors increments the errors counter.
func (m *Metrics) IncErrors() {
	m.errorsTotal.Inc()
}

// IncRendersStarted increments the accepted renders counter.
func (m *Metrics) IncRendersStarted() {
	m.rendersStartedTotal.Inc()
}

// IncRendersCompleted increments the completed renders counter.
func (m *Metrics) IncRendersCompleted() {
	m.rendersCompletedTotal.Inc()
}

// IncRendersFailed increments the failed renders counter for stage.
func (m *Metrics) IncRendersFailed(stage string) {
	m.rendersFailedTotal.WithLabelValues(stage).Inc()
}

// AddFallbackVisuals adds n to the fallback visuals counter.
func (m *Metrics) AddFallbackVisuals(n int) {
	if n > 0 {
		m.fallbackVisualsTotal.Add(float64(n))
	}
}

// ObserveStage records how long a pipeline stage took.
func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	m.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// SetActiveRenders sets the active renders gauge.
func (m *Metrics) SetActiveRenders(n int) {
	m.activeRenders.Set(float64(n))
}

// Handler returns an http.Handler that serves Prometheus metrics.
// updateGauges is called before each scrape to refresh gauge values (e.g. active renders).
func (m *Metrics) Handler(updateGauges func()) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if updateGauges != nil {
			updateGauges()
		}
		promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}).ServeHTTP(w, r)
	})
}
