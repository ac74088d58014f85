// Package metrics exposes the Prometheus instruments for recommendation
// traffic. Instruments register with the default registry on import.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Problem outcomes. Error outcomes reuse the recommendation error kinds.
const (
	OutcomeOK = "ok"
)

var (
	RecommendRequests = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "skinrec_recommend_requests_total",
			Help: "Total number of multi-problem recommendation requests",
		},
	)

	ProblemResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skinrec_problem_results_total",
			Help: "Per-problem results by outcome",
		},
		[]string{"outcome"}, // "ok", "no_templates", "malformed_template", "no_recommendations", "scoring_failure"
	)

	SuccessProbability = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "skinrec_success_probability",
			Help:    "Final success probability (percent) of returned recommendations",
			Buckets: prometheus.LinearBuckets(10, 10, 9), // 10..90
		},
	)

	ScoringDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "skinrec_scoring_duration_seconds",
			Help:    "Time spent scoring the candidates of one problem",
			Buckets: prometheus.ExponentialBuckets(0.00005, 4, 8),
		},
	)

	AuthFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skinrec_auth_failures_total",
			Help: "Rejected API requests by reason",
		},
		[]string{"reason"}, // "missing_token", "invalid_token"
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skinrec_http_requests_total",
			Help: "HTTP requests by route pattern and status code",
		},
		[]string{"route", "code"},
	)
)

// RecordRequest counts one recommendation request.
func RecordRequest() {
	RecommendRequests.Inc()
}

// RecordProblem records the outcome of one problem and how long scoring took.
func RecordProblem(outcome string, duration time.Duration) {
	ProblemResults.WithLabelValues(outcome).Inc()
	ScoringDuration.Observe(duration.Seconds())
}

// RecordSuccessProb observes a returned recommendation's probability.
func RecordSuccessProb(percent int) {
	SuccessProbability.Observe(float64(percent))
}

// RecordHTTPRequest counts a served request.
func RecordHTTPRequest(route string, code int) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
}
