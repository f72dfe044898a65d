package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "graphers", Name: "http_requests_total", Help: "Number of handled HTTP requests."},
		[]string{"method", "route", "status"},
	)
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Namespace: "graphers", Name: "http_request_duration_seconds", Help: "HTTP request latency.", Buckets: prometheus.DefBuckets},
		[]string{"method", "route"},
	)
	AuthFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "graphers", Name: "auth_failures_total", Help: "Rejected authentication attempts by reason."},
		[]string{"reason"},
	)
	DenylistHits = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "graphers", Name: "denylist_hits_total", Help: "Tokens rejected because their subject was revoked."},
	)
	ExportRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "graphers", Name: "export_runs_total", Help: "Candidate CSV exports by outcome."},
		[]string{"outcome"},
	)
	ExportRows = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "graphers", Name: "export_rows_total", Help: "Candidate rows written to CSV reports."},
	)
	ExportDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{Namespace: "graphers", Name: "export_duration_seconds", Help: "Duration of candidate CSV exports.", Buckets: prometheus.ExponentialBuckets(0.05, 2, 12)},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(HTTPRequests)
	reg.MustRegister(HTTPDuration)
	reg.MustRegister(AuthFailures)
	reg.MustRegister(DenylistHits)
	reg.MustRegister(ExportRuns)
	reg.MustRegister(ExportRows)
	reg.MustRegister(ExportDuration)
}
