// Package metrics provides Prometheus metrics for the scoring engine —
// counters for grants, awards, retries and notifications.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Grants ─────────────────────────────────────────────────────────────────

// ActionsScored tracks point grants by action key.
var ActionsScored = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "transforma",
	Name:      "actions_scored_total",
	Help:      "Total point-granting actions processed.",
}, []string{"action"})

// PointsAwarded tracks total points credited (actions + achievement rewards).
var PointsAwarded = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "transforma",
	Name:      "points_awarded_total",
	Help:      "Total points credited to users.",
})

// LevelUps tracks level-up events.
var LevelUps = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "transforma",
	Name:      "level_ups_total",
	Help:      "Total level-up events.",
})

// ─── Achievements ───────────────────────────────────────────────────────────

// AchievementsUnlocked tracks unlocks by category.
var AchievementsUnlocked = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "transforma",
	Name:      "achievements_unlocked_total",
	Help:      "Total achievements unlocked.",
}, []string{"category"})

// ─── Persistence ────────────────────────────────────────────────────────────

// AwardRetries tracks automatic retries of the score write.
var AwardRetries = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "transforma",
	Name:      "award_retries_total",
	Help:      "Total automatic retries of the score write.",
})

// AwardFailures tracks score writes that failed after the retry.
var AwardFailures = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "transforma",
	Name:      "award_failures_total",
	Help:      "Total score writes that failed after retrying.",
})

// ─── Notifications ──────────────────────────────────────────────────────────

// NotificationsSent tracks delivered reward notifications by kind.
var NotificationsSent = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "transforma",
	Name:      "notifications_sent_total",
	Help:      "Total reward notifications persisted.",
}, []string{"kind"})

// NotificationsSuppressed tracks notifications dropped by policy.
var NotificationsSuppressed = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "transforma",
	Name:      "notifications_suppressed_total",
	Help:      "Total notifications suppressed by daily cap or quiet hours.",
})
