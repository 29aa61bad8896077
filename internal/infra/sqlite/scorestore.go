package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/transforma-app/transforma/internal/domain"
)

// ─── Profiles ───────────────────────────────────────────────────────────────

// CreateProfile creates a zeroed score row for a new user. Idempotent.
func (d *DB) CreateProfile(userID string) error {
	_, err := d.db.Exec(
		`INSERT OR IGNORE INTO profiles (user_id, points, xp, level, created_at)
		 VALUES (?, 0, 0, 1, ?)`,
		userID, time.Now().Unix(),
	)
	if err != nil {
		return err
	}
	_, err = d.db.Exec(`INSERT OR IGNORE INTO counters (user_id) VALUES (?)`, userID)
	return err
}

// UserScoreState returns the score row plus the unlocked-achievement
// set. Returns domain.ErrProfileNotFound if no row exists.
func (d *DB) UserScoreState(userID string) (domain.UserScoreState, error) {
	var state domain.UserScoreState
	var createdAt int64

	err := d.db.QueryRow(
		`SELECT user_id, points, xp, level, created_at FROM profiles WHERE user_id = ?`,
		userID,
	).Scan(&state.UserID, &state.Points, &state.XP, &state.Level, &createdAt)
	if err == sql.ErrNoRows {
		return state, domain.ErrProfileNotFound
	}
	if err != nil {
		return state, err
	}
	state.CreatedAt = time.Unix(createdAt, 0)

	rows, err := d.db.Query(
		`SELECT achievement_id FROM profile_achievements WHERE user_id = ? ORDER BY unlocked_at, achievement_id`,
		userID,
	)
	if err != nil {
		return state, err
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return state, err
		}
		state.UnlockedIDs = append(state.UnlockedIDs, id)
	}
	return state, rows.Err()
}

// ApplyScoreDelta applies a point credit and an achievement-id append
// as one transaction against the latest stored row. The increments are
// additive SQL updates, never a value cached by the caller, so
// concurrent grants for the same user both land.
func (d *DB) ApplyScoreDelta(userID string, delta domain.ScoreDelta) (domain.UserScoreState, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return domain.UserScoreState{}, err
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`UPDATE profiles SET points = points + ?, xp = xp + ? WHERE user_id = ?`,
		delta.PointsDelta, delta.XPDelta, userID,
	)
	if err != nil {
		return domain.UserScoreState{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.UserScoreState{}, domain.ErrProfileNotFound
	}

	now := time.Now().Unix()
	for _, id := range delta.NewAchievementIDs {
		if _, err := tx.Exec(
			`INSERT OR IGNORE INTO profile_achievements (user_id, achievement_id, unlocked_at)
			 VALUES (?, ?, ?)`,
			userID, id, now,
		); err != nil {
			return domain.UserScoreState{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return domain.UserScoreState{}, err
	}

	return d.UserScoreState(userID)
}

// SetLevel persists the derived level. Monotonic — keeps the maximum
// of the stored and given values.
func (d *DB) SetLevel(userID string, level int) error {
	_, err := d.db.Exec(
		`UPDATE profiles SET level = MAX(level, ?) WHERE user_id = ?`,
		level, userID,
	)
	return err
}

// ─── Achievements ───────────────────────────────────────────────────────────

// ListUnlockedAchievements returns a user's unlocked achievements,
// most recent first.
func (d *DB) ListUnlockedAchievements(userID string) ([]domain.UnlockedAchievement, error) {
	rows, err := d.db.Query(
		`SELECT achievement_id, unlocked_at FROM profile_achievements
		 WHERE user_id = ? ORDER BY unlocked_at DESC, achievement_id`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var unlocked []domain.UnlockedAchievement
	for rows.Next() {
		var a domain.UnlockedAchievement
		var at int64
		if err := rows.Scan(&a.ID, &at); err != nil {
			return nil, err
		}
		a.UnlockedAt = time.Unix(at, 0)
		unlocked = append(unlocked, a)
	}
	return unlocked, rows.Err()
}

// ─── Counters & Streaks ─────────────────────────────────────────────────────

// CategoryCounters returns the evaluator's counter snapshot: the
// collaborator counters merged with the streak state.
func (d *DB) CategoryCounters(userID string) (domain.CategoryCounters, error) {
	var c domain.CategoryCounters

	err := d.db.QueryRow(
		`SELECT friends_count, total_challenges, login_days FROM counters WHERE user_id = ?`,
		userID,
	).Scan(&c.FriendsCount, &c.TotalChallenges, &c.LoginDays)
	if err != nil && err != sql.ErrNoRows {
		return c, err
	}

	streak, err := d.StreakState(userID)
	if err != nil {
		return c, err
	}
	c.CurrentStreak = streak.CurrentDays
	c.LongestStreak = streak.LongestDays
	return c, nil
}

// BumpCounter advances one collaborator counter by one.
func (d *DB) BumpCounter(userID string, cat domain.AchievementCategory) error {
	var column string
	switch cat {
	case domain.CatSocial:
		column = "friends_count"
	case domain.CatChallenges:
		column = "total_challenges"
	case domain.CatLogin:
		column = "login_days"
	default:
		return fmt.Errorf("no counter column for category %q", cat)
	}

	if _, err := d.db.Exec(`INSERT OR IGNORE INTO counters (user_id) VALUES (?)`, userID); err != nil {
		return err
	}
	_, err := d.db.Exec(
		`UPDATE counters SET `+column+` = `+column+` + 1 WHERE user_id = ?`,
		userID,
	)
	return err
}

// SetCounters overwrites a user's collaborator counters. Used by the
// collaborators that own them; the engine itself only reads.
func (d *DB) SetCounters(userID string, c domain.CategoryCounters) error {
	_, err := d.db.Exec(
		`INSERT INTO counters (user_id, friends_count, total_challenges, login_days)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
			friends_count=excluded.friends_count,
			total_challenges=excluded.total_challenges,
			login_days=excluded.login_days`,
		userID, c.FriendsCount, c.TotalChallenges, c.LoginDays,
	)
	return err
}

// StreakState loads a user's streak. A user with no row has no streak.
func (d *DB) StreakState(userID string) (domain.Streak, error) {
	var s domain.Streak
	var lastDate int64

	err := d.db.QueryRow(
		`SELECT current_days, longest_days, last_date FROM streaks WHERE user_id = ?`,
		userID,
	).Scan(&s.CurrentDays, &s.LongestDays, &lastDate)
	if err == sql.ErrNoRows {
		return s, nil
	}
	if err != nil {
		return s, err
	}
	if lastDate > 0 {
		s.LastDate = time.Unix(lastDate, 0).UTC()
	}
	return s, nil
}

// SaveStreak persists a user's streak state.
func (d *DB) SaveStreak(userID string, s domain.Streak) error {
	var lastDate int64
	if !s.LastDate.IsZero() {
		lastDate = s.LastDate.Unix()
	}
	_, err := d.db.Exec(
		`INSERT INTO streaks (user_id, current_days, longest_days, last_date)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
			current_days=excluded.current_days,
			longest_days=excluded.longest_days,
			last_date=excluded.last_date`,
		userID, s.CurrentDays, s.LongestDays, lastDate,
	)
	return err
}

// ─── Score Events ───────────────────────────────────────────────────────────

// AppendScoreEvent appends one grant to the event log.
func (d *DB) AppendScoreEvent(ev domain.ScoreEvent) error {
	_, err := d.db.Exec(
		`INSERT INTO score_events (id, user_id, action, points, day, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		ev.ID, ev.UserID, string(ev.Action), ev.Points, ev.Day, ev.CreatedAt.Unix(),
	)
	return err
}

// TodayPoints sums the points granted on the given UTC day.
func (d *DB) TodayPoints(userID string, day string) (int64, error) {
	var total sql.NullInt64
	err := d.db.QueryRow(
		`SELECT SUM(points) FROM score_events WHERE user_id = ? AND day = ?`,
		userID, day,
	).Scan(&total)
	if err != nil {
		return 0, err
	}
	return total.Int64, nil
}

// RecentScoreEvents returns the most recent grants, newest first.
func (d *DB) RecentScoreEvents(userID string, limit int) ([]domain.ScoreEvent, error) {
	rows, err := d.db.Query(
		`SELECT id, user_id, action, points, day, created_at
		 FROM score_events WHERE user_id = ? ORDER BY created_at DESC, id LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.ScoreEvent
	for rows.Next() {
		var ev domain.ScoreEvent
		var createdAt int64
		if err := rows.Scan(&ev.ID, &ev.UserID, &ev.Action, &ev.Points, &ev.Day, &createdAt); err != nil {
			return nil, err
		}
		ev.CreatedAt = time.Unix(createdAt, 0)
		events = append(events, ev)
	}
	return events, rows.Err()
}

// ─── Notifications ──────────────────────────────────────────────────────────

// InsertNotification creates a new notification row.
func (d *DB) InsertNotification(n domain.Notification) (int64, error) {
	result, err := d.db.Exec(
		`INSERT INTO notifications (user_id, kind, title, message, created_at, seen)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		n.UserID, string(n.Kind), n.Title, n.Message, n.CreatedAt.Unix(), n.Seen,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// NotificationCountToday counts a user's notifications created on the
// calendar day containing now.
func (d *DB) NotificationCountToday(userID string, now time.Time) (int, error) {
	y, m, day := now.UTC().Date()
	startOfDay := time.Date(y, m, day, 0, 0, 0, 0, time.UTC).Unix()

	var count int
	err := d.db.QueryRow(
		`SELECT COUNT(*) FROM notifications WHERE user_id = ? AND created_at >= ?`,
		userID, startOfDay,
	).Scan(&count)
	return count, err
}

// ListUnseenNotifications returns unseen notifications, newest first.
func (d *DB) ListUnseenNotifications(userID string, limit int) ([]domain.Notification, error) {
	rows, err := d.db.Query(
		`SELECT id, user_id, kind, title, message, created_at, seen
		 FROM notifications WHERE user_id = ? AND seen = 0
		 ORDER BY created_at DESC LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifs []domain.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		notifs = append(notifs, *n)
	}
	return notifs, rows.Err()
}

// MarkNotificationSeen marks one notification as seen.
func (d *DB) MarkNotificationSeen(id int64) error {
	res, err := d.db.Exec(`UPDATE notifications SET seen = 1 WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotificationNotFound
	}
	return nil
}

func scanNotification(s scanner) (*domain.Notification, error) {
	var n domain.Notification
	var createdAt int64
	err := s.Scan(&n.ID, &n.UserID, &n.Kind, &n.Title, &n.Message, &createdAt, &n.Seen)
	if err != nil {
		return nil, err
	}
	n.CreatedAt = time.Unix(createdAt, 0)
	return &n, nil
}
