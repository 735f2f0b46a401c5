package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/xavierca1/ligue-leads/internal/analytics"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	activeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)

	leadMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leads_mutations_total",
			Help: "Total number of committed lead writes",
		},
		[]string{"op"},
	)

	eventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lead_events_published_total",
			Help: "Total number of lead events handed to the broker",
		},
		[]string{"type", "result"},
	)

	rateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "http_rate_limited_total",
			Help: "Total number of write requests rejected by the rate limiter",
		},
	)

	pipelineValue = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pipeline_value",
			Help: "Open plus won pipeline value (Lost excluded)",
		},
	)

	pipelineWonValue = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pipeline_won_value",
			Help: "Total value of Won leads",
		},
	)

	pipelineConversionRate = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pipeline_conversion_rate",
			Help: "Percentage of leads in the Won stage",
		},
	)

	pipelineLeads = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "pipeline_leads",
			Help: "Number of leads per stage",
		},
		[]string{"stage"},
	)
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		activeConnections.Inc()
		defer activeConnections.Dec()

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.statusCode)
		path := routePattern(r)

		httpRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// routePattern keeps label cardinality bounded: /api/leads/{id} rather than one series per id.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

func RecordLeadMutation(op string) {
	leadMutations.WithLabelValues(op).Inc()
}

func RecordEventPublished(eventType string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	eventsPublished.WithLabelValues(eventType, result).Inc()
}

// RecordPipeline exports a metrics snapshot as gauges.
func RecordPipeline(m analytics.Metrics) {
	pipelineValue.Set(m.TotalValue)
	pipelineWonValue.Set(m.TotalWonValue)
	pipelineConversionRate.Set(m.ConversionRate)
	for _, s := range m.LeadsByStage {
		pipelineLeads.WithLabelValues(string(s.Stage)).Set(float64(s.Count))
	}
}
