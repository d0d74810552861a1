// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SessionsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "funnel_sessions_created_total",
			Help: "Total number of funnel sessions created",
		},
	)

	SessionsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "funnel_sessions_completed_total",
			Help: "Total number of funnel sessions completed",
		},
		[]string{"tier"},
	)

	SessionsAbandoned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "funnel_sessions_abandoned_total",
			Help: "Total number of funnel sessions abandoned",
		},
	)

	AnswersRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "funnel_answers_recorded_total",
			Help: "Total number of answers recorded per question",
		},
		[]string{"question_id"},
	)

	WebhookDeliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "funnel_webhook_deliveries_total",
			Help: "Total number of webhook delivery attempts by outcome",
		},
		[]string{"status"},
	)

	WebhookDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "funnel_webhook_duration_seconds",
			Help: "Duration of webhook delivery attempts in seconds",
		},
	)
)
