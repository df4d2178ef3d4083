package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TurnsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cricbot_turns_processed_total",
			Help: "Total number of conversation turns processed",
		},
		[]string{"intent"},
	)

	TurnsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cricbot_turns_failed_total",
			Help: "Total number of conversation turns that ended in an error",
		},
		[]string{"error_code"},
	)

	TurnDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "cricbot_turn_duration_seconds",
			Help: "Duration of a full classify-enrich-compose turn in seconds",
		},
		[]string{"intent"},
	)

	IntentRewrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cricbot_intent_rewrites_total",
			Help: "Total number of intents rewritten during enrichment",
		},
		[]string{"from", "to"},
	)

	FeedFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cricbot_feed_fetches_total",
			Help: "Total number of live score feed fetches",
		},
		[]string{"outcome"},
	)

	ClassifierFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cricbot_classifier_failures_total",
			Help: "Total number of intent classifications rejected as unparseable",
		},
	)
)
