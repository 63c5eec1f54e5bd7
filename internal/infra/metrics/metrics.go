// Package metrics provides Prometheus metrics for Codexa — counters and
// histograms for progression events, the learner economy, and the tutor
// backend.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Progression ────────────────────────────────────────────────────────────

// EventsApplied tracks accepted progression events by kind.
var EventsApplied = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "codexa",
	Name:      "events_applied_total",
	Help:      "Total progression events accepted by the engine.",
}, []string{"kind"})

// EventsRejected tracks rejected events by kind and reason.
var EventsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "codexa",
	Name:      "events_rejected_total",
	Help:      "Total progression events rejected by validation.",
}, []string{"kind", "reason"})

// XPGranted tracks XP awarded across all learners.
var XPGranted = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "codexa",
	Name:      "xp_granted_total",
	Help:      "Total XP awarded.",
})

// LevelUps tracks level-up occurrences.
var LevelUps = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "codexa",
	Name:      "level_ups_total",
	Help:      "Total level-ups across all learners.",
})

// QuizzesCompleted tracks quizzes by pass/fail outcome.
var QuizzesCompleted = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "codexa",
	Name:      "quizzes_completed_total",
	Help:      "Total quizzes completed.",
}, []string{"outcome"})

// QuestsCompleted tracks quest payouts by quest id.
var QuestsCompleted = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "codexa",
	Name:      "quests_completed_total",
	Help:      "Total quest completions.",
}, []string{"quest"})

// AchievementsUnlocked tracks achievement unlocks by id.
var AchievementsUnlocked = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "codexa",
	Name:      "achievements_unlocked_total",
	Help:      "Total achievement unlocks.",
}, []string{"achievement"})

// ─── Economy ────────────────────────────────────────────────────────────────

// CoinsSpent tracks coins spent in the shop by item kind.
var CoinsSpent = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "codexa",
	Name:      "coins_spent_total",
	Help:      "Total coins spent in the shop.",
}, []string{"kind"})

// CreditsSpent tracks game credits consumed.
var CreditsSpent = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "codexa",
	Name:      "credits_spent_total",
	Help:      "Total game credits consumed.",
})

// ─── Tutor ──────────────────────────────────────────────────────────────────

// TutorLatency tracks tutor backend request duration in seconds.
var TutorLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "codexa",
	Name:      "tutor_latency_seconds",
	Help:      "Tutor backend request duration in seconds.",
	Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
}, []string{"op"})

// TutorErrors tracks failed tutor backend calls.
var TutorErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "codexa",
	Name:      "tutor_errors_total",
	Help:      "Total failed tutor backend requests.",
}, []string{"op"})

// QuizParseRetries counts quizzes regenerated after a malformed reply.
var QuizParseRetries = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "codexa",
	Name:      "quiz_parse_retries_total",
	Help:      "Total quiz generations retried due to malformed output.",
})

// ─── HTTP ───────────────────────────────────────────────────────────────────

// HTTPRequests tracks API requests by route and status class.
var HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "codexa",
	Name:      "http_requests_total",
	Help:      "Total API requests.",
}, []string{"route", "status"})

// HTTPDuration tracks API request duration in seconds.
var HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "codexa",
	Name:      "http_request_duration_seconds",
	Help:      "API request duration in seconds.",
	Buckets:   prometheus.DefBuckets,
}, []string{"route"})
