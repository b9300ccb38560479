package server

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the server's Prometheus instruments.
type Metrics struct {
	requestsTotal      *prometheus.CounterVec
	requestDuration    *prometheus.HistogramVec
	activeRequests     prometheus.Gauge
	projectActivations prometheus.Counter
}

// NewMetrics creates and registers the server metrics. Tests pass their own
// registerer to avoid collisions on the default registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "loglens_http_requests_total",
			Help: "Total HTTP requests labeled by method, endpoint, and status code.",
		}, []string{"method", "endpoint", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "loglens_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds labeled by method and endpoint.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"method", "endpoint"}),
		activeRequests: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "loglens_http_active_requests",
			Help: "Number of currently active HTTP requests.",
		}),
		projectActivations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "loglens_project_activations_total",
			Help: "Total successful project activations via /api/project-by-dir.",
		}),
	}

	reg.MustRegister(m.requestsTotal, m.requestDuration, m.activeRequests, m.projectActivations)
	return m
}

// Middleware returns an Echo middleware recording per-request metrics.
// The route template (c.Path) is used as the endpoint label to keep
// cardinality bounded.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			m.activeRequests.Inc()

			err := next(c)

			endpoint := c.Path()
			if endpoint == "" {
				endpoint = "/"
			}
			method := c.Request().Method
			status := strconv.Itoa(c.Response().Status)

			m.requestsTotal.WithLabelValues(method, endpoint, status).Inc()
			m.requestDuration.WithLabelValues(method, endpoint).Observe(time.Since(start).Seconds())
			m.activeRequests.Dec()

			return err
		}
	}
}
