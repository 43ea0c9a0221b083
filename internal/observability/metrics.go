package observability

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/spec-kit/event-registration-service/internal/config"
)

var (
	httpRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by path, method and status",
		},
		[]string{"path", "method", "status"},
	)

	httpErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_errors_total",
			Help: "Total HTTP errors by path, method and error code",
		},
		[]string{"path", "method", "code"},
	)

	httpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)

	registrationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registrations_total",
			Help: "Registration attempts by outcome",
		},
		[]string{"outcome"},
	)

	checkinScansTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkin_scans_total",
			Help: "Check-in scans by classification",
		},
		[]string{"result"},
	)
)

// Metrics exposes Prometheus counters for the service.
type Metrics struct{}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	httpRequests.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(path, method).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	httpErrors.WithLabelValues(path, method, code).Inc()
}

// RecordRegistration counts a registration attempt outcome.
func (m *Metrics) RecordRegistration(outcome string) {
	if m == nil {
		return
	}
	registrationsTotal.WithLabelValues(outcome).Inc()
}

// RecordScan counts a check-in scan classification.
func (m *Metrics) RecordScan(result string) {
	if m == nil {
		return
	}
	checkinScansTotal.WithLabelValues(result).Inc()
}

// StartMetricsServer exposes /metrics on a dedicated listener.
func StartMetricsServer(cfg config.MetricsConfig, logger *zap.Logger) {
	if !cfg.Enabled {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	go func() {
		logger.Info("metrics listener started", zap.String("addr", cfg.Addr))
		if err := http.ListenAndServe(cfg.Addr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics listener failed", zap.Error(err))
		}
	}()
}
