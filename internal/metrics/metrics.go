// Package metrics provides Prometheus metrics for slackwatch.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "slackwatch"

var (
	// CyclesTotal counts polling cycles by outcome.
	CyclesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cycles_total",
			Help:      "Total number of polling cycles",
		},
		[]string{"status"},
	)

	// CycleDuration measures a full cycle, discovery through last emit.
	CycleDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "cycle_duration_seconds",
			Help:      "Duration of polling cycles in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	// ActiveConversations is the number of conversations found by the last cycle.
	ActiveConversations = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_conversations",
			Help:      "Conversations reported active in the last cycle",
		},
	)

	MessagesEmitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_emitted_total",
			Help:      "Messages delivered to listeners",
		},
	)

	DuplicatesSuppressed = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "duplicates_suppressed_total",
			Help:      "Messages dropped because they were already delivered",
		},
	)

	HistoryFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "history_failures_total",
			Help:      "Conversations skipped because their history could not be fetched",
		},
	)

	DedupEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dedup_entries",
			Help:      "Entries held by the dedup cache",
		},
	)

	// APIRequests counts Discovery API calls by method and status.
	APIRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "Total number of Discovery API requests",
		},
		[]string{"method", "status"},
	)

	// ModerationActions counts tombstone/restore/delete calls.
	ModerationActions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "moderation_actions_total",
			Help:      "Total number of moderation calls",
		},
		[]string{"action", "status"},
	)
)

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// RecordCycle records a finished polling cycle.
func RecordCycle(err error, seconds float64, conversations int) {
	CyclesTotal.WithLabelValues(status(err)).Inc()
	CycleDuration.Observe(seconds)
	if err == nil {
		ActiveConversations.Set(float64(conversations))
	}
}

// RecordAPICall records a single Discovery API request.
func RecordAPICall(method string, err error) {
	APIRequests.WithLabelValues(method, status(err)).Inc()
}

// RecordModeration records a moderation call.
func RecordModeration(action string, err error) {
	ModerationActions.WithLabelValues(action, status(err)).Inc()
}
