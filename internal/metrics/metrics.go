// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eterna_http_requests_total",
			Help: "Total HTTP requests by route template, method and status",
		},
		[]string{"route", "method", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "eterna_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	// Webhook
	WebhookEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eterna_webhook_events_total",
			Help: "Voice platform webhook events by kind and result",
		},
		[]string{"kind", "result"}, // result: ok, error, malformed
	)

	WebhookIgnored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eterna_webhook_ignored_total",
			Help: "Unrecognized event types and tool names routed to the no-op handler",
		},
		[]string{"reason"}, // "event_type", "tool_name", "invalid"
	)

	WebhookToolCalls = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "eterna_webhook_tool_calls_total",
			Help: "Tool invocations that reached a persistence writer",
		},
	)

	// Story generation
	StoryGenerations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eterna_story_generations_total",
			Help: "Story generation requests by result",
		},
		[]string{"result"},
	)

	StoryGenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "eterna_story_generation_duration_seconds",
			Help:    "Language model round trip for story generation",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 60},
		},
	)

	// Book export
	BookExports = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eterna_book_exports_total",
			Help: "PDF book exports by result",
		},
		[]string{"result"},
	)

	BookPages = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "eterna_book_pages",
			Help:    "Pages per exported book",
			Buckets: []float64{2, 5, 10, 25, 50, 100, 250},
		},
	)

	// Circuit breaker
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "eterna_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=open, 2=half-open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eterna_circuit_breaker_requests_total",
			Help: "Requests through a circuit breaker by result",
		},
		[]string{"name", "result"}, // success, failure, rejected
	)
)

// RecordHTTPRequest records one served request.
func RecordHTTPRequest(route, method string, status int, duration time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(route, method).Observe(duration.Seconds())
}

// RecordWebhookEvent counts one webhook delivery.
func RecordWebhookEvent(kind, result string) {
	WebhookEvents.WithLabelValues(kind, result).Inc()
}

// RecordWebhookIgnored counts names routed to the no-op handler.
func RecordWebhookIgnored(reason string, n int) {
	if n <= 0 {
		return
	}
	WebhookIgnored.WithLabelValues(reason).Add(float64(n))
}

// RecordStoryGeneration records the outcome and latency of one generation.
func RecordStoryGeneration(duration time.Duration, err error) {
	StoryGenerationDuration.Observe(duration.Seconds())
	if err != nil {
		StoryGenerations.WithLabelValues("error").Inc()
		return
	}
	StoryGenerations.WithLabelValues("success").Inc()
}

// RecordBookExport records the outcome of one export.
func RecordBookExport(pages int, err error) {
	if err != nil {
		BookExports.WithLabelValues("error").Inc()
		return
	}
	BookExports.WithLabelValues("success").Inc()
	BookPages.Observe(float64(pages))
}
