package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// VerdictsTotal counts judging runs by mode (run|submit|rejudge) and verdict.
	VerdictsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "neetcode_verdicts_total",
			Help: "Total number of judged runs by mode and verdict",
		},
		[]string{"mode", "verdict"},
	)

	// JudgingDuration tracks dispatch-to-verdict latency in seconds.
	JudgingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "neetcode_judging_duration_seconds",
			Help:    "Duration from batch dispatch to aggregated verdict",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 10), // 250ms to ~2m
		},
		[]string{"mode", "language"},
	)

	// PollAttempts records how many status fetches a batch needed.
	PollAttempts = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "neetcode_poll_attempts",
			Help:    "Number of status fetches per judged batch",
			Buckets: prometheus.LinearBuckets(1, 5, 13),
		},
	)

	// EngineErrorsTotal counts execution engine failures (not user code errors).
	EngineErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "neetcode_engine_errors_total",
			Help: "Total number of execution engine failures",
		},
		[]string{"kind"},
	)

	// HTTPRequestsTotal counts served requests by route and status code.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "neetcode_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration tracks request latency by route.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "neetcode_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// RejudgeTotal counts rejudge outcomes in the worker.
	RejudgeTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "neetcode_rejudge_total",
			Help: "Total number of rejudge messages by outcome",
		},
		[]string{"outcome"},
	)

	// WorkersActive tracks the number of currently active workers.
	WorkersActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "neetcode_workers_active",
			Help: "Number of currently active worker goroutines",
		},
	)
)
