package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RecognitionAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "presenca",
		Name:      "recognition_attempts_total",
		Help:      "Recognition attempts by outcome (marked, duplicate, not_recognized)",
	}, []string{"outcome"})

	MatchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "presenca",
		Name:      "match_duration_seconds",
		Help:      "Duration of one probe classification including the ledger write",
		Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
	})

	EnrolledIdentities = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "presenca",
		Name:      "enrolled_identities",
		Help:      "Number of currently enrolled identities",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "presenca",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})
)
