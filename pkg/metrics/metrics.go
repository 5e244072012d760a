// Package metrics 领域事件派发与 outbox 投递的 prometheus 指标
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ddd_kernel"

var (
	eventsDispatched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "domain_events_dispatched_total",
			Help:      "Domain events dispatched to in-process handlers, by kind and outcome",
		},
		[]string{"event_kind", "success"},
	)
	unitOfWorkCommits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unit_of_work_commits_total",
			Help:      "Unit of work executions by outcome (committed, rolled_back, dispatch_failed)",
		},
		[]string{"outcome"},
	)
	outboxPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbox_events_published_total",
			Help:      "Outbox events handed to the publisher, by kind and outcome",
		},
		[]string{"event_kind", "success"},
	)
	outboxBatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "outbox_batch_duration_seconds",
			Help:      "Time spent processing one outbox batch",
			Buckets:   prometheus.DefBuckets,
		},
	)
)

// Unit of work outcomes
const (
	OutcomeCommitted      = "committed"
	OutcomeRolledBack     = "rolled_back"
	OutcomeDispatchFailed = "dispatch_failed"
)

// RecordEventDispatched 记录一次事件派发
func RecordEventDispatched(kind string, success bool) {
	eventsDispatched.WithLabelValues(kind, strconv.FormatBool(success)).Inc()
}

// RecordUnitOfWork 记录一次工作单元执行结果
func RecordUnitOfWork(outcome string) {
	unitOfWorkCommits.WithLabelValues(outcome).Inc()
}

// RecordOutboxPublish 记录一次 outbox 投递
func RecordOutboxPublish(kind string, success bool) {
	outboxPublished.WithLabelValues(kind, strconv.FormatBool(success)).Inc()
}

// ObserveOutboxBatch 记录批处理耗时
func ObserveOutboxBatch(d time.Duration) {
	outboxBatchDuration.Observe(d.Seconds())
}
