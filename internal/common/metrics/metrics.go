// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TurnsResolved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nlu_turns_resolved_total",
			Help: "Total number of turns resolved, by intent and strategy",
		},
		[]string{"intent", "nlu_method"},
	)

	TurnsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nlu_turns_rejected_total",
			Help: "Total number of turns rejected before the pipeline ran",
		},
		[]string{"error_code"},
	)

	TurnDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "nlu_turn_duration_seconds",
			Help: "End-to-end duration of turn resolution in seconds",
		},
	)

	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "nlu_stage_duration_seconds",
			Help: "Duration of individual pipeline stages in seconds",
		},
		[]string{"stage"},
	)

	ClarificationsRequested = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nlu_clarifications_requested_total",
			Help: "Turns that surfaced a generic-term clarification",
		},
	)

	ContextCarryovers = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nlu_context_carryovers_total",
			Help: "Turns whose product was supplied from session context",
		},
	)

	SpellCorrections = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nlu_spell_corrections_total",
			Help: "Tokens rewritten by the correction dictionary",
		},
	)

	SessionsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nlu_sessions_created_total",
			Help: "New sessions created",
		},
	)

	SessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "nlu_sessions_active",
			Help: "Sessions currently held by the store",
		},
	)
)
