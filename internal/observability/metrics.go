// Package observability provides metrics and tracing for the forum engine.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "guildhall_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "guildhall_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// RewardEventsPublished counts reward hook events handed to the collaborator.
	RewardEventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "guildhall_reward_events_published_total",
		Help: "Total reward events published by event kind",
	}, []string{"kind"})

	// RewardEventsFailed counts reward hook deliveries that were dropped.
	// Deliveries are best-effort; failures never fail the forum mutation.
	RewardEventsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "guildhall_reward_events_failed_total",
		Help: "Total reward events that could not be delivered, by event kind",
	}, []string{"kind"})

	// StatsCacheHits counts forum stats served from the cache.
	StatsCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "guildhall_stats_cache_hits_total",
		Help: "Total forum stats reads served from Redis",
	})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
