// Package domain holds the pure types of the Transforma scoring engine.
// Points, levels, ranks, achievements and streaks are all derived from
// these types — no I/O, no infrastructure dependency.
package domain

import "time"

// ─── Score State ────────────────────────────────────────────────────────────

// UserScoreState is the scoring subset of a user profile.
// Points and XP only ever grow; Level is derived from XP and is
// monotonically non-decreasing.
type UserScoreState struct {
	UserID      string    `json:"user_id"`
	Points      int64     `json:"points"`
	XP          int64     `json:"xp"`
	Level       int       `json:"level"`
	UnlockedIDs []string  `json:"unlocked_ids"`
	CreatedAt   time.Time `json:"created_at"`
}

// HasAchievement reports whether the given achievement id is already
// in the persisted unlocked set.
func (u UserScoreState) HasAchievement(id string) bool {
	for _, have := range u.UnlockedIDs {
		if have == id {
			return true
		}
	}
	return false
}

// ScoreDelta is the single combined update applied to a profile row.
// The point credit and the id append travel together so the store can
// apply them atomically.
type ScoreDelta struct {
	PointsDelta       int64    `json:"points_delta"`
	XPDelta           int64    `json:"xp_delta"`
	NewAchievementIDs []string `json:"new_achievement_ids"`
}

// ─── Action Catalog ─────────────────────────────────────────────────────────

// ActionKey identifies a point-granting user action. The set is closed:
// call sites use these constants, so an unknown key is a compile-time
// concern rather than a runtime lookup failure.
type ActionKey string

const (
	ActionFocusSession       ActionKey = "FOCUS_SESSION"
	ActionPlanCompleted      ActionKey = "PLAN_COMPLETED"
	ActionGoalCreated        ActionKey = "GOAL_CREATED"
	ActionChallengeAccepted  ActionKey = "CHALLENGE_ACCEPTED"
	ActionChallengeCompleted ActionKey = "CHALLENGE_COMPLETED"
	ActionFriendAdded        ActionKey = "FRIEND_ADDED"
	ActionStoryPosted        ActionKey = "STORY_POSTED"
	ActionDailyLogin         ActionKey = "DAILY_LOGIN"
)

// ScoreAction is one entry of the static action catalog.
type ScoreAction struct {
	Key         ActionKey `json:"key"`
	BasePoints  int64     `json:"base_points"`
	Description string    `json:"description"`
	Emoji       string    `json:"emoji"`
}

// ─── Achievements ───────────────────────────────────────────────────────────

// AchievementCategory selects which counter an achievement is checked
// against.
type AchievementCategory string

const (
	CatStreak     AchievementCategory = "streak"
	CatSocial     AchievementCategory = "social"
	CatChallenges AchievementCategory = "challenges"
	CatLogin      AchievementCategory = "login"
	CatSpecial    AchievementCategory = "special"
)

// Rarity is display-only; it never changes evaluation behavior.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// AchievementDef defines a single badge. IDs are fixed slugs committed
// with the catalog so unlock state survives catalog reordering.
type AchievementDef struct {
	ID           string              `json:"id"`
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	Category     AchievementCategory `json:"category"`
	Requirement  int                 `json:"requirement"`
	RewardPoints int64               `json:"reward_points"`
	Rarity       Rarity              `json:"rarity"`
	Emoji        string              `json:"emoji"`
}

// UnlockedAchievement records when a badge was earned.
type UnlockedAchievement struct {
	ID         string    `json:"id"`
	UnlockedAt time.Time `json:"unlocked_at"`
}

// CategoryCounters is the snapshot of collaborator-owned counters the
// evaluator reads. The engine never computes these itself.
type CategoryCounters struct {
	CurrentStreak   int `json:"current_streak"`
	LongestStreak   int `json:"longest_streak"`
	FriendsCount    int `json:"friends_count"`
	TotalChallenges int `json:"total_challenges"`
	LoginDays       int `json:"login_days"`
}

// ─── Levels & Ranks ─────────────────────────────────────────────────────────

// LevelInfo is the derived level view for a given XP value.
type LevelInfo struct {
	Level    int     `json:"level"`
	Title    string  `json:"title"`
	Emoji    string  `json:"emoji"`
	Floor    int64   `json:"floor"`
	Next     int64   `json:"next"`     // XP floor of the next level; == Floor at the cap
	Progress float64 `json:"progress"` // 0–100 within the current level
}

// RankInfo is the derived rank view for lifetime points.
type RankInfo struct {
	Title string `json:"title"`
	Emoji string `json:"emoji"`
	Color string `json:"color"`
}

// ─── Streak ─────────────────────────────────────────────────────────────────

// Streak tracks consecutive active days. Zero CurrentDays means no
// streak; LastDate is the calendar day of the most recent activity.
type Streak struct {
	CurrentDays int       `json:"current_days"`
	LongestDays int       `json:"longest_days"`
	LastDate    time.Time `json:"last_date"`
}

// Multiplier returns the point bonus for an active streak:
// +5% per consecutive day, capped at +50%.
func (s Streak) Multiplier() float64 {
	bonus := float64(s.CurrentDays) * 0.05
	if bonus > 0.50 {
		bonus = 0.50
	}
	return 1.0 + bonus
}

// ─── Score Events ───────────────────────────────────────────────────────────

// ScoreEvent is one append-only log entry per grant. "Today's points"
// is computed from this log, so the daily figure survives reloads and
// never drifts from the lifetime total.
type ScoreEvent struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Action    ActionKey `json:"action"`
	Points    int64     `json:"points"`
	Day       string    `json:"day"` // "2006-01-02" in UTC
	CreatedAt time.Time `json:"created_at"`
}

// ─── Notifications & Celebrations ───────────────────────────────────────────

// NotificationKind categorizes reward notifications.
type NotificationKind string

const (
	NotifyReward  NotificationKind = "reward"
	NotifyLevelUp NotificationKind = "level_up"
	NotifyBadge   NotificationKind = "badge"
)

// Notification is a persisted, user-visible reward message.
type Notification struct {
	ID        int64            `json:"id"`
	UserID    string           `json:"user_id"`
	Kind      NotificationKind `json:"kind"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	CreatedAt time.Time        `json:"created_at"`
	Seen      bool             `json:"seen"`
}

// NotificationPolicy caps reward noise: at most MaxPerDay per user and
// nothing during quiet hours.
type NotificationPolicy struct {
	MaxPerDay  int    `json:"max_per_day"`
	QuietStart string `json:"quiet_start"` // "22:00"
	QuietEnd   string `json:"quiet_end"`   // "08:00"
}

// DefaultNotificationPolicy returns the shipped policy.
func DefaultNotificationPolicy() NotificationPolicy {
	return NotificationPolicy{
		MaxPerDay:  5,
		QuietStart: "22:00",
		QuietEnd:   "08:00",
	}
}

// Celebration is an in-process UI event (never persisted) that tells
// the presentation layer to play a full-screen reward animation.
type Celebration struct {
	Type     string `json:"type"` // "achievement" | "level_up"
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Points   int64  `json:"points"`
}
