package scoring

import (
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/transforma-app/transforma/internal/domain"
	"github.com/transforma-app/transforma/internal/infra/metrics"
)

// Store is the persistent-record interface the engine writes through.
// Implemented by the sqlite store; tests substitute fakes.
type Store interface {
	// UserScoreState returns the current score row, or
	// domain.ErrProfileNotFound if the user has no profile.
	UserScoreState(userID string) (domain.UserScoreState, error)

	// ApplyScoreDelta atomically applies the point credit and the
	// achievement-id append against the latest stored row (additive
	// increments, never a cached value) and returns the fresh state.
	ApplyScoreDelta(userID string, delta domain.ScoreDelta) (domain.UserScoreState, error)

	// SetLevel persists the derived level. Monotonic: the store keeps
	// the maximum of the stored and the given value.
	SetLevel(userID string, level int) error

	// CategoryCounters returns the collaborator-owned counters.
	CategoryCounters(userID string) (domain.CategoryCounters, error)

	// BumpCounter advances one collaborator counter by one.
	BumpCounter(userID string, cat domain.AchievementCategory) error

	// AppendScoreEvent appends one entry to the score-event log.
	AppendScoreEvent(ev domain.ScoreEvent) error

	// StreakState and SaveStreak read and write streak state.
	StreakState(userID string) (domain.Streak, error)
	SaveStreak(userID string, s domain.Streak) error

	// InsertNotification persists a reward notification.
	InsertNotification(n domain.Notification) (int64, error)

	// NotificationCountToday counts a user's notifications for the
	// calendar day containing now.
	NotificationCountToday(userID string, now time.Time) (int, error)
}

// GrantResult describes the outcome of a single action grant.
type GrantResult struct {
	Granted   int64                   `json:"granted"`
	State     domain.UserScoreState   `json:"state"`
	LeveledUp bool                    `json:"leveled_up"`
	Unlocked  []domain.AchievementDef `json:"unlocked"`
}

// Engine applies score actions and achievement awards to persisted
// user state. Calculations are pure; only the store calls can fail,
// and a failed write is retried once before being surfaced.
type Engine struct {
	store     Store
	streaks   *Tracker
	notifier  *Notifier
	celebrate func(domain.Celebration)
}

// NewEngine creates a scoring engine on top of a store.
func NewEngine(store Store, streaks *Tracker, notifier *Notifier) *Engine {
	return &Engine{store: store, streaks: streaks, notifier: notifier}
}

// OnCelebration registers the in-process celebration listener. The
// payload is a UI event, never persisted.
func (e *Engine) OnCelebration(fn func(domain.Celebration)) {
	e.celebrate = fn
}

// GrantAction credits the base points of an action to a user, records
// streak activity and collaborator counters for qualifying actions,
// then evaluates and awards any newly-reachable achievements.
func (e *Engine) GrantAction(userID string, key domain.ActionKey) (GrantResult, error) {
	return e.GrantActionAt(userID, key, time.Now())
}

// GrantActionAt is GrantAction with an explicit clock, for testability.
func (e *Engine) GrantActionAt(userID string, key domain.ActionKey, now time.Time) (GrantResult, error) {
	action, ok := ActionByKey(key)
	if !ok {
		// Programming error — a caller bypassed the typed constants.
		log.Printf("[scoring] unknown action key %q for user %s", key, userID)
		return GrantResult{}, fmt.Errorf("%w: %q", domain.ErrUnknownAction, key)
	}

	state, err := e.store.UserScoreState(userID)
	if errors.Is(err, domain.ErrProfileNotFound) {
		// Score-keeping is supplementary: no profile means the action
		// grants nothing, and the caller's primary flow continues.
		log.Printf("[scoring] no score profile for user %s — %s granted nothing", userID, key)
		return GrantResult{}, nil
	}
	if err != nil {
		return GrantResult{}, fmt.Errorf("read score state: %w", err)
	}

	// Streak bonus scales the base grant. A failed streak read just
	// means no bonus.
	points := action.BasePoints
	if streak, serr := e.store.StreakState(userID); serr == nil {
		points = int64(math.Round(float64(action.BasePoints) * streak.Multiplier()))
	}

	newState, err := e.applyWithRetry(userID, domain.ScoreDelta{
		PointsDelta: points,
		XPDelta:     points,
	})
	if err != nil {
		return GrantResult{}, fmt.Errorf("grant %s: %w", key, err)
	}

	metrics.ActionsScored.WithLabelValues(string(key)).Inc()
	metrics.PointsAwarded.Add(float64(points))

	// The event log is display-only ("today's points"); a failed append
	// never rolls back the grant.
	if err := e.store.AppendScoreEvent(domain.ScoreEvent{
		ID:        uuid.NewString(),
		UserID:    userID,
		Action:    key,
		Points:    points,
		Day:       now.UTC().Format("2006-01-02"),
		CreatedAt: now,
	}); err != nil {
		log.Printf("[scoring] append score event for %s: %v", userID, err)
	}

	if streakActions[key] {
		if err := e.streaks.RecordActivityAt(userID, now); err != nil {
			log.Printf("[scoring] record streak for %s: %v", userID, err)
		}
	}
	if cat, ok := counterForAction[key]; ok {
		if err := e.store.BumpCounter(userID, cat); err != nil {
			log.Printf("[scoring] bump %s counter for %s: %v", cat, userID, err)
		}
	}

	result := GrantResult{Granted: points, State: newState}

	newLevel := LevelForXP(newState.XP)
	if err := e.store.SetLevel(userID, newLevel); err != nil {
		log.Printf("[scoring] persist level for %s: %v", userID, err)
	}
	result.State.Level = maxInt(newLevel, newState.Level)
	if newLevel > state.Level {
		result.LeveledUp = true
		e.announceLevelUp(userID, newLevel, now)
	}

	// Achievements unlocked by this action's counter movement.
	unlocked, err := e.CheckAndAwardAt(userID, now)
	if err != nil {
		log.Printf("[scoring] achievement award for %s: %v", userID, err)
	} else if len(unlocked) > 0 {
		result.Unlocked = unlocked
		if fresh, ferr := e.store.UserScoreState(userID); ferr == nil {
			result.State = fresh
		}
	}

	return result, nil
}

// NewlyQualifying evaluates the catalog against the user's current
// counters and persisted unlocked set. Read-only and repeatable: it
// never writes, so calling it twice with no intervening award returns
// the same list both times.
func (e *Engine) NewlyQualifying(userID string) ([]domain.AchievementDef, error) {
	state, err := e.store.UserScoreState(userID)
	if err != nil {
		return nil, err
	}
	counters, err := e.store.CategoryCounters(userID)
	if err != nil {
		return nil, fmt.Errorf("read counters: %w", err)
	}
	return Evaluate(counters, state.UnlockedIDs), nil
}

// AwardAchievements applies a list of newly-qualifying achievements as
// one combined write: all ids appended and all reward points credited
// together, or nothing at all.
func (e *Engine) AwardAchievements(userID string, defs []domain.AchievementDef) (domain.UserScoreState, error) {
	return e.AwardAchievementsAt(userID, defs, time.Now())
}

// AwardAchievementsAt is AwardAchievements with an explicit clock.
func (e *Engine) AwardAchievementsAt(userID string, defs []domain.AchievementDef, now time.Time) (domain.UserScoreState, error) {
	if len(defs) == 0 {
		return e.store.UserScoreState(userID)
	}

	delta := domain.ScoreDelta{}
	for _, def := range defs {
		delta.PointsDelta += def.RewardPoints
		delta.XPDelta += def.RewardPoints
		delta.NewAchievementIDs = append(delta.NewAchievementIDs, def.ID)
	}

	state, err := e.applyWithRetry(userID, delta)
	if err != nil {
		return domain.UserScoreState{}, fmt.Errorf("award achievements: %w", err)
	}

	metrics.PointsAwarded.Add(float64(delta.PointsDelta))
	for _, def := range defs {
		metrics.AchievementsUnlocked.WithLabelValues(string(def.Category)).Inc()
	}

	newLevel := LevelForXP(state.XP)
	if err := e.store.SetLevel(userID, newLevel); err != nil {
		log.Printf("[scoring] persist level for %s: %v", userID, err)
	}
	state.Level = maxInt(newLevel, state.Level)

	// Reward signals are best-effort: a failed notification never rolls
	// back the score write.
	for _, def := range defs {
		e.announceAchievement(userID, def, now)
	}

	return state, nil
}

// CheckAndAwardAt evaluates and immediately awards, returning the
// newly unlocked achievements in catalog order.
func (e *Engine) CheckAndAwardAt(userID string, now time.Time) ([]domain.AchievementDef, error) {
	defs, err := e.NewlyQualifying(userID)
	if err != nil {
		return nil, err
	}
	if len(defs) == 0 {
		return nil, nil
	}
	if _, err := e.AwardAchievementsAt(userID, defs, now); err != nil {
		return nil, err
	}
	return defs, nil
}

// applyWithRetry performs the combined score write, retrying once on a
// transient failure before surfacing the error.
func (e *Engine) applyWithRetry(userID string, delta domain.ScoreDelta) (domain.UserScoreState, error) {
	state, err := e.store.ApplyScoreDelta(userID, delta)
	if err == nil {
		return state, nil
	}
	if errors.Is(err, domain.ErrProfileNotFound) {
		return domain.UserScoreState{}, err
	}

	metrics.AwardRetries.Inc()
	log.Printf("[scoring] score write for %s failed, retrying once: %v", userID, err)

	state, err = e.store.ApplyScoreDelta(userID, delta)
	if err != nil {
		metrics.AwardFailures.Inc()
		return domain.UserScoreState{}, err
	}
	return state, nil
}

// ─── Reward Signals ─────────────────────────────────────────────────────────

func (e *Engine) announceAchievement(userID string, def domain.AchievementDef, now time.Time) {
	if e.notifier != nil {
		_, err := e.notifier.SendAt(domain.Notification{
			UserID:  userID,
			Kind:    domain.NotifyBadge,
			Title:   fmt.Sprintf("%s Conquista desbloqueada!", def.Emoji),
			Message: fmt.Sprintf("%s — +%d pontos", def.Title, def.RewardPoints),
		}, now)
		if err != nil {
			log.Printf("[scoring] badge notification for %s: %v", userID, err)
		}
	}
	if e.celebrate != nil {
		e.celebrate(domain.Celebration{
			Type:     "achievement",
			Title:    def.Title,
			Subtitle: def.Description,
			Points:   def.RewardPoints,
		})
	}
}

func (e *Engine) announceLevelUp(userID string, level int, now time.Time) {
	metrics.LevelUps.Inc()
	info := LevelInfoForXP(XPForLevel(level))
	if e.notifier != nil {
		_, err := e.notifier.SendAt(domain.Notification{
			UserID:  userID,
			Kind:    domain.NotifyLevelUp,
			Title:   fmt.Sprintf("%s Nível %d!", info.Emoji, level),
			Message: fmt.Sprintf("Você alcançou o nível %d — %s", level, info.Title),
		}, now)
		if err != nil {
			log.Printf("[scoring] level-up notification for %s: %v", userID, err)
		}
	}
	if e.celebrate != nil {
		e.celebrate(domain.Celebration{
			Type:     "level_up",
			Title:    fmt.Sprintf("Nível %d", level),
			Subtitle: info.Title,
		})
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
