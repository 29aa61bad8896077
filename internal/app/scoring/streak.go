package scoring

import (
	"fmt"
	"time"

	"github.com/transforma-app/transforma/internal/domain"
)

// Tracker maintains per-user activity streaks.
// Transitions: activity the day after the last recorded day extends
// the streak; a second activity on the same day is a no-op; a gap of
// two or more days resets to 1. The longest streak is preserved on
// every transition, so a reset never hides a badge already reached.
type Tracker struct {
	store Store
}

// NewTracker creates a streak tracker.
func NewTracker(store Store) *Tracker {
	return &Tracker{store: store}
}

// Streak loads the current streak state.
func (t *Tracker) Streak(userID string) (domain.Streak, error) {
	return t.store.StreakState(userID)
}

// RecordActivity records a day of qualifying activity.
func (t *Tracker) RecordActivity(userID string) error {
	return t.RecordActivityAt(userID, time.Now())
}

// RecordActivityAt is RecordActivity with an explicit clock.
func (t *Tracker) RecordActivityAt(userID string, at time.Time) error {
	streak, err := t.store.StreakState(userID)
	if err != nil {
		return fmt.Errorf("load streak: %w", err)
	}

	today := dateOf(at)

	if !streak.LastDate.IsZero() && today.Equal(dateOf(streak.LastDate)) {
		return nil // Already counted today
	}

	switch {
	case streak.LastDate.IsZero():
		// First activity ever
		streak.CurrentDays = 1

	case today.Sub(dateOf(streak.LastDate)) == 24*time.Hour:
		// Consecutive day
		streak.CurrentDays++

	default:
		// Gap of 2+ days — reset
		streak.CurrentDays = 1
	}

	streak.LastDate = today
	if streak.CurrentDays > streak.LongestDays {
		streak.LongestDays = streak.CurrentDays
	}

	if err := t.store.SaveStreak(userID, streak); err != nil {
		return fmt.Errorf("save streak: %w", err)
	}
	return nil
}

// dateOf truncates a time to its UTC calendar day.
func dateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
