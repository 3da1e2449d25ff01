package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "indextank_client",
			Name:      "requests_total",
			Help:      "HTTP calls made to the index service, by operation and status code.",
		},
		[]string{"op", "code"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "indextank_client",
			Name:      "request_duration_seconds",
			Help:      "Round-trip latency of index service calls.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"op"},
	)
)
