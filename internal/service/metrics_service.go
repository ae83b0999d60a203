package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/luct-reporting-api/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation for HTTP traffic, caching and the reporting workflow.
type MetricsService struct {
	registry             *prometheus.Registry
	handler              http.Handler
	requestDuration      *prometheus.HistogramVec
	requestTotal         *prometheus.CounterVec
	cacheLatency         prometheus.Observer
	cacheWrite           prometheus.Observer
	cacheHits            prometheus.Counter
	cacheMisses          prometheus.Counter
	reportsSubmitted     prometheus.Counter
	reportReviews        *prometheus.CounterVec
	ratingsSubmitted     *prometheus.CounterVec
	notificationsCreated *prometheus.CounterVec
}

// NewMetricsService registers the collectors on a private registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_latency_seconds",
		Help:    "Latency for cache lookups",
		Buckets: prometheus.DefBuckets,
	})

	cacheWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_write_seconds",
		Help:    "Latency for cache set operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	reportsSubmitted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "reports_submitted_total",
		Help: "Lecturer reports accepted",
	})

	reportReviews := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "report_reviews_total",
		Help: "Feedback recorded on reports by resulting status",
	}, []string{"status"})

	ratingsSubmitted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ratings_submitted_total",
		Help: "Ratings stored by rating type",
	}, []string{"type"})

	notificationsCreated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notifications_created_total",
		Help: "Notifications written by notification type",
	}, []string{"type"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheLatency, cacheWrite, cacheHits, cacheMisses,
		reportsSubmitted, reportReviews, ratingsSubmitted, notificationsCreated, goroutines)

	return &MetricsService{
		registry:             registry,
		handler:              promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:      requestDuration,
		requestTotal:         requestTotal,
		cacheLatency:         cacheLatency,
		cacheWrite:           cacheWrite,
		cacheHits:            cacheHits,
		cacheMisses:          cacheMisses,
		reportsSubmitted:     reportsSubmitted,
		reportReviews:        reportReviews,
		ratingsSubmitted:     ratingsSubmitted,
		notificationsCreated: notificationsCreated,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Registry returns the underlying registry.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordCacheOperation records a cache hit or miss.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	if hit {
		m.cacheHits.Inc()
		return
	}
	m.cacheMisses.Inc()
}

// ObserveCacheWrite tracks the duration of cache writes.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// ReportSubmitted counts an accepted report.
func (m *MetricsService) ReportSubmitted() {
	if m == nil {
		return
	}
	m.reportsSubmitted.Inc()
}

// ReportReviewed counts a feedback transition.
func (m *MetricsService) ReportReviewed(status models.ReportStatus) {
	if m == nil {
		return
	}
	m.reportReviews.WithLabelValues(string(status)).Inc()
}

// RatingSubmitted counts a stored rating.
func (m *MetricsService) RatingSubmitted(ratingType models.RatingType) {
	if m == nil {
		return
	}
	m.ratingsSubmitted.WithLabelValues(string(ratingType)).Inc()
}

// NotificationCreated counts a written notification.
func (m *MetricsService) NotificationCreated(notificationType models.NotificationType) {
	if m == nil {
		return
	}
	m.notificationsCreated.WithLabelValues(string(notificationType)).Inc()
}
