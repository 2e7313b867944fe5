package prometheus

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   *prometheus.CounterVec
	HttpRequestDuration *prometheus.HistogramVec

	// Database operation metrics
	DbOperationDuration *prometheus.HistogramVec

	// AI generation metrics
	AIGenerationsCounter *prometheus.CounterVec
	AIGenerationDuration *prometheus.HistogramVec
	QuotaRejections      prometheus.Counter
	RateLimitedCounter   prometheus.Counter

	// Template popularity metrics
	TemplateViewsCounter *prometheus.CounterVec

	// Website metrics
	WebsiteOperationsCounter *prometheus.CounterVec

	initOnce sync.Once
)

// InitMetrics registers the metrics with the default registry. Safe to call more than once;
// only the first prefix is used.
func InitMetrics(prefix string) {
	initOnce.Do(func() {
		HttpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		)

		HttpRequestDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		)

		DbOperationDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_db_operation_duration_seconds",
				Help:    "Duration of database operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation_type"},
		)

		AIGenerationsCounter = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_ai_generations_total",
				Help: "Total number of AI generation calls by operation and outcome",
			},
			[]string{"operation", "outcome"},
		)

		// generation calls routinely take tens of seconds
		AIGenerationDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_ai_generation_duration_seconds",
				Help:    "Duration of AI provider calls in seconds",
				Buckets: []float64{1, 2.5, 5, 10, 20, 30, 45, 60, 90},
			},
			[]string{"operation"},
		)

		QuotaRejections = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + "_quota_rejections_total",
				Help: "Total number of generation requests rejected by the free plan quota",
			},
		)

		RateLimitedCounter = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + "_rate_limited_total",
				Help: "Total number of requests rejected by the rate limiter",
			},
		)

		TemplateViewsCounter = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_template_views_total",
				Help: "Total number of template views",
			},
			[]string{"category"},
		)

		WebsiteOperationsCounter = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_website_operations_total",
				Help: "Total number of website operations",
			},
			[]string{"operation"},
		)
	})
}

// TrackDBOperation returns a function that records the duration of a database operation
func TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		if DbOperationDuration == nil {
			return
		}
		DbOperationDuration.WithLabelValues(operationType).Observe(time.Since(startTime).Seconds())
	}
}

// RecordAIGeneration records the outcome and duration of a provider call
func RecordAIGeneration(operation, outcome string, startTime time.Time) {
	if AIGenerationsCounter == nil {
		return
	}
	AIGenerationsCounter.WithLabelValues(operation, outcome).Inc()
	AIGenerationDuration.WithLabelValues(operation).Observe(time.Since(startTime).Seconds())
}

// RecordQuotaRejection increments the quota rejection counter
func RecordQuotaRejection() {
	if QuotaRejections == nil {
		return
	}
	QuotaRejections.Inc()
}

// RecordRateLimited increments the rate limit rejection counter
func RecordRateLimited() {
	if RateLimitedCounter == nil {
		return
	}
	RateLimitedCounter.Inc()
}

// RecordTemplateView increments the counter for template views
func RecordTemplateView(category string) {
	if TemplateViewsCounter == nil {
		return
	}
	TemplateViewsCounter.WithLabelValues(category).Inc()
}

// RecordWebsiteOperation increments the counter for website operations
func RecordWebsiteOperation(operation string) {
	if WebsiteOperationsCounter == nil {
		return
	}
	WebsiteOperationsCounter.WithLabelValues(operation).Inc()
}
