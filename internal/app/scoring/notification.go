package scoring

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/transforma-app/transforma/internal/domain"
	"github.com/transforma-app/transforma/internal/infra/metrics"
)

// Notifier persists reward notifications under a noise policy:
// a per-user daily cap and no notifications during quiet hours.
// Suppression is not an error — the score write already succeeded.
type Notifier struct {
	store  Store
	policy domain.NotificationPolicy
}

// NewNotifier creates a notifier with the default policy.
func NewNotifier(store Store) *Notifier {
	return &Notifier{store: store, policy: domain.DefaultNotificationPolicy()}
}

// NewNotifierWithPolicy creates a notifier with a custom policy.
func NewNotifierWithPolicy(store Store, policy domain.NotificationPolicy) *Notifier {
	return &Notifier{store: store, policy: policy}
}

// Send persists a notification if policy allows it. Returns the row id,
// or 0 if suppressed.
func (n *Notifier) Send(notif domain.Notification) (int64, error) {
	return n.SendAt(notif, time.Now())
}

// SendAt is Send with an explicit clock.
func (n *Notifier) SendAt(notif domain.Notification, now time.Time) (int64, error) {
	count, err := n.store.NotificationCountToday(notif.UserID, now)
	if err != nil {
		return 0, fmt.Errorf("count today: %w", err)
	}
	if count >= n.policy.MaxPerDay {
		metrics.NotificationsSuppressed.Inc()
		return 0, nil // Daily cap reached
	}

	if n.isQuietHour(now) {
		metrics.NotificationsSuppressed.Inc()
		return 0, nil // Quiet hours
	}

	notif.CreatedAt = now
	notif.Seen = false

	id, err := n.store.InsertNotification(notif)
	if err != nil {
		return 0, fmt.Errorf("insert notification: %w", err)
	}
	metrics.NotificationsSent.WithLabelValues(string(notif.Kind)).Inc()
	return id, nil
}

// Policy returns the active policy.
func (n *Notifier) Policy() domain.NotificationPolicy {
	return n.policy
}

// isQuietHour reports whether t falls inside the quiet window.
// The window may wrap midnight (22:00–08:00).
func (n *Notifier) isQuietHour(t time.Time) bool {
	startHour, startMin := parseHHMM(n.policy.QuietStart)
	endHour, endMin := parseHHMM(n.policy.QuietEnd)

	minutes := t.Hour()*60 + t.Minute()
	start := startHour*60 + startMin
	end := endHour*60 + endMin

	if start > end {
		return minutes >= start || minutes < end
	}
	return minutes >= start && minutes < end
}

// parseHHMM parses "HH:MM" into hour and minute.
func parseHHMM(s string) (int, int) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, 0
	}
	h, _ := strconv.Atoi(parts[0])
	m, _ := strconv.Atoi(parts[1])
	return h, m
}
