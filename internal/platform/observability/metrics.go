package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "pawmatch",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	// outcome: match | no_match | pass
	MatchDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pawmatch",
		Name:      "match_decisions_total",
		Help:      "Swipe decisions recorded, by action and outcome",
	}, []string{"action", "outcome"})

	CompatibilityScore = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "pawmatch",
		Name:      "compatibility_score",
		Help:      "Compatibility score of recorded likes (0-100)",
		Buckets:   prometheus.LinearBuckets(0, 10, 11),
	})

	ChatMessages = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "pawmatch",
		Name:      "chat_messages_total",
		Help:      "Total number of chat messages appended",
	})

	WSConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "pawmatch",
		Name:      "ws_connections",
		Help:      "Number of active chat WebSocket connections",
	})
)
