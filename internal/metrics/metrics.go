package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "logistics_insights"

// Outcome labels.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

var (
	analysisDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "Duration of one analysis including data loading",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"analysis", "outcome"},
	)

	analysisTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analysis_total",
			Help:      "Total number of analyses run",
		},
		[]string{"analysis", "outcome"},
	)

	dataFaults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "data_faults_total",
			Help:      "Data consistency faults reported by analyses",
		},
		[]string{"analysis"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"route", "method", "status"},
	)
)

// ObserveAnalysis records the outcome and latency of an analysis started at start.
func ObserveAnalysis(analysis string, start time.Time, err error) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}
	analysisDuration.WithLabelValues(analysis, outcome).Observe(time.Since(start).Seconds())
	analysisTotal.WithLabelValues(analysis, outcome).Inc()
}

// AddFaults counts data faults reported by an analysis.
func AddFaults(analysis string, n int) {
	if n > 0 {
		dataFaults.WithLabelValues(analysis).Add(float64(n))
	}
}

// ObserveHTTP records one served HTTP request.
func ObserveHTTP(route, method, status string, elapsed time.Duration) {
	httpRequestDuration.WithLabelValues(route, method, status).Observe(elapsed.Seconds())
}

// Handler exposes the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
