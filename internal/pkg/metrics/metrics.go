package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DispatchQueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "gameshelf",
		Name:      "dispatch_queue_depth",
		Help:      "Dispatch jobs waiting to be executed.",
	})

	DispatchJobs = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gameshelf",
		Name:      "dispatch_jobs_total",
		Help:      "Executed dispatch jobs by channel and outcome.",
	}, []string{"channel", "outcome"})

	DispatchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "gameshelf",
		Name:      "dispatch_duration_seconds",
		Help:      "Time spent in a channel adapter per job.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"channel"})

	NotificationsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gameshelf",
		Name:      "notifications_created_total",
		Help:      "In-app notification records created by type.",
	}, []string{"type"})

	// DigestDeferred counts outbound sends held back by a digest frequency.
	// No digest compiler consumes these yet.
	DigestDeferred = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gameshelf",
		Name:      "digest_deferred_total",
		Help:      "Outbound deliveries skipped because the user chose a digest frequency.",
	}, []string{"type", "frequency"})
)
