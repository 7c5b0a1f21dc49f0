package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce               sync.Once
	apiRequestsTotal           *prometheus.CounterVec
	apiLatencySeconds          *prometheus.HistogramVec
	apiErrorsTotal             *prometheus.CounterVec
	qualificationsScoredTotal  *prometheus.CounterVec
	opportunityTransitionTotal *prometheus.CounterVec
	documentUploadsRejected    *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used across the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		apiRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bidflow_api_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		apiLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bidflow_api_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		apiErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bidflow_api_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		qualificationsScoredTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bidflow_qualifications_scored_total",
			Help: "Total number of tender qualifications produced, by recommendation.",
		}, []string{"recommendation"})

		opportunityTransitionTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bidflow_opportunity_transitions_total",
			Help: "Total number of pipeline stage transitions.",
		}, []string{"from", "to"})

		documentUploadsRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bidflow_document_uploads_rejected_total",
			Help: "Total number of rejected document uploads, by reason.",
		}, []string{"reason"})

		prometheus.MustRegister(
			apiRequestsTotal,
			apiLatencySeconds,
			apiErrorsTotal,
			qualificationsScoredTotal,
			opportunityTransitionTotal,
			documentUploadsRejected,
		)
	})
}

// APIRequests exposes the counter for API requests.
func APIRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return apiRequestsTotal
}

// APILatency exposes the latency histogram for API requests.
func APILatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return apiLatencySeconds
}

// APIErrors exposes the counter for API error responses.
func APIErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return apiErrorsTotal
}

// QualificationsScored exposes the counter for produced qualifications.
func QualificationsScored() *prometheus.CounterVec {
	RegisterMetrics()
	return qualificationsScoredTotal
}

// OpportunityTransitions exposes the counter for pipeline transitions.
func OpportunityTransitions() *prometheus.CounterVec {
	RegisterMetrics()
	return opportunityTransitionTotal
}

// DocumentUploadsRejected exposes the counter for rejected uploads.
func DocumentUploadsRejected() *prometheus.CounterVec {
	RegisterMetrics()
	return documentUploadsRejected
}
