// Package metrics exposes Prometheus collectors for the scheduling engine.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics stores Prometheus collectors used across the service.
type Metrics struct {
	FollowUpsScheduled   *prometheus.CounterVec
	FollowUpsExecuted    prometheus.Counter
	FollowUpsFailed      prometheus.Counter
	FollowUpsCancelled   prometheus.Counter
	FollowUpsReclaimed   prometheus.Counter
	SchedulesSkipped     *prometheus.CounterVec
	SendDuration         prometheus.Histogram
	TrackedConversations prometheus.Gauge
	InactivityTriggers   *prometheus.CounterVec
}

var (
	regOnce         sync.Once
	metricsInstance *Metrics
)

// Registry builds and registers the metrics singleton with optional namespace.
func Registry(namespace string) *Metrics {
	regOnce.Do(func() {
		metricsInstance = &Metrics{
			FollowUpsScheduled: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "followups_scheduled_total",
				Help:      "Total follow-ups created, by type.",
			}, []string{"type"}),
			FollowUpsExecuted: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "followups_executed_total",
				Help:      "Total follow-ups delivered through the gateway.",
			}),
			FollowUpsFailed: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "followups_failed_total",
				Help:      "Total follow-ups that ended FAILED.",
			}),
			FollowUpsCancelled: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "followups_cancelled_total",
				Help:      "Total pending follow-ups cancelled.",
			}),
			FollowUpsReclaimed: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "followups_reclaimed_total",
				Help:      "Total stale PROCESSING follow-ups re-queued by the recovery sweep.",
			}),
			SchedulesSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "schedules_skipped_total",
				Help:      "Total scheduling requests skipped, by reason.",
			}, []string{"reason"}),
			SendDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "send_duration_seconds",
				Help:      "Latency distribution of gateway sends.",
				Buckets:   prometheus.DefBuckets,
			}),
			TrackedConversations: prometheus.NewGauge(prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "tracked_conversations",
				Help:      "Conversations currently tracked by the inactivity monitor.",
			}),
			InactivityTriggers: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "inactivity_triggers_total",
				Help:      "Total inactivity tier triggers, by tier.",
			}, []string{"tier"}),
		}

		prometheus.MustRegister(
			metricsInstance.FollowUpsScheduled,
			metricsInstance.FollowUpsExecuted,
			metricsInstance.FollowUpsFailed,
			metricsInstance.FollowUpsCancelled,
			metricsInstance.FollowUpsReclaimed,
			metricsInstance.SchedulesSkipped,
			metricsInstance.SendDuration,
			metricsInstance.TrackedConversations,
			metricsInstance.InactivityTriggers,
		)
	})
	return metricsInstance
}
