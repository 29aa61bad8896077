package scoring_test

import (
	"errors"
	"testing"
	"time"

	"github.com/transforma-app/transforma/internal/app/scoring"
	"github.com/transforma-app/transforma/internal/domain"
	"github.com/transforma-app/transforma/internal/infra/sqlite"
)

// testDB creates a temporary SQLite database for testing.
func testDB(t *testing.T) *sqlite.DB {
	t.Helper()
	dir := t.TempDir()
	db, err := sqlite.Open(dir)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// noon returns a UTC time at 12:00 on the given day offset, safely
// outside the default quiet hours.
func noon(dayOffset int) time.Time {
	return time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC).AddDate(0, 0, dayOffset)
}

// ═══════════════════════════════════════════════════════════════════════════
// Level & Rank Tests
// ═══════════════════════════════════════════════════════════════════════════

func TestLevelForXP(t *testing.T) {
	tests := []struct {
		xp   int64
		want int
	}{
		{-50, 1},
		{0, 1},
		{99, 1},
		{100, 2},
		{249, 2},
		{250, 3},
		{500, 4},
		{999, 4},
		{1000, 5},
		{11999, 9},
		{12000, 10},
		{1_000_000, 10},
	}
	for _, tt := range tests {
		if got := scoring.LevelForXP(tt.xp); got != tt.want {
			t.Errorf("LevelForXP(%d) = %d, want %d", tt.xp, got, tt.want)
		}
	}
}

func TestLevelForXP_Monotonic(t *testing.T) {
	prev := 0
	for xp := int64(0); xp <= 13000; xp += 50 {
		level := scoring.LevelForXP(xp)
		if level < prev {
			t.Fatalf("level regressed at xp=%d: %d -> %d", xp, prev, level)
		}
		prev = level
	}
}

func TestLevelInfoForXP_Progress(t *testing.T) {
	// Level 2 spans 100..250
	info := scoring.LevelInfoForXP(100)
	if info.Level != 2 || info.Progress != 0 {
		t.Errorf("at floor: level=%d progress=%.1f, want 2/0", info.Level, info.Progress)
	}

	info = scoring.LevelInfoForXP(175)
	if info.Progress != 50 {
		t.Errorf("midway progress = %.1f, want 50", info.Progress)
	}

	info = scoring.LevelInfoForXP(249)
	if info.Progress < 0 || info.Progress > 100 {
		t.Errorf("progress out of range: %.1f", info.Progress)
	}
}

func TestLevelInfoForXP_AtCap(t *testing.T) {
	info := scoring.LevelInfoForXP(999_999)
	if info.Level != scoring.MaxLevel {
		t.Errorf("level = %d, want %d", info.Level, scoring.MaxLevel)
	}
	if info.Progress != 100 {
		t.Errorf("progress at cap = %.1f, want 100", info.Progress)
	}
}

func TestXPForLevel_Clamps(t *testing.T) {
	if got := scoring.XPForLevel(0); got != 0 {
		t.Errorf("XPForLevel(0) = %d, want 0", got)
	}
	if got := scoring.XPForLevel(2); got != 100 {
		t.Errorf("XPForLevel(2) = %d, want 100", got)
	}
	if got := scoring.XPForLevel(99); got != 12000 {
		t.Errorf("XPForLevel(99) = %d, want 12000", got)
	}
}

func TestRankForPoints(t *testing.T) {
	tests := []struct {
		points int64
		want   string
	}{
		{-10, "Novato"},
		{0, "Novato"},
		{249, "Novato"},
		{250, "Bronze"},
		{999, "Bronze"},
		{1000, "Prata"},
		{2500, "Ouro"},
		{6000, "Diamante"},
		{14999, "Diamante"},
		{15000, "Lenda"},
		{1_000_000, "Lenda"},
	}
	for _, tt := range tests {
		if got := scoring.RankForPoints(tt.points); got.Title != tt.want {
			t.Errorf("RankForPoints(%d) = %q, want %q", tt.points, got.Title, tt.want)
		}
	}
}

func TestNextRankFloor(t *testing.T) {
	if got := scoring.NextRankFloor(0); got != 250 {
		t.Errorf("NextRankFloor(0) = %d, want 250", got)
	}
	if got := scoring.NextRankFloor(250); got != 1000 {
		t.Errorf("NextRankFloor(250) = %d, want 1000", got)
	}
	if got := scoring.NextRankFloor(20000); got != -1 {
		t.Errorf("NextRankFloor(20000) = %d, want -1 at top rank", got)
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Catalog Tests
// ═══════════════════════════════════════════════════════════════════════════

func TestAchievementCatalog_UniqueIDs(t *testing.T) {
	seen := map[string]bool{}
	for _, def := range scoring.AllAchievements() {
		if def.ID == "" {
			t.Errorf("achievement %q has empty id", def.Title)
		}
		if seen[def.ID] {
			t.Errorf("duplicate achievement id %q", def.ID)
		}
		seen[def.ID] = true
		if def.Requirement <= 0 {
			t.Errorf("%s: non-positive requirement %d", def.ID, def.Requirement)
		}
		if def.RewardPoints <= 0 {
			t.Errorf("%s: non-positive reward %d", def.ID, def.RewardPoints)
		}
	}
}

func TestAchievementByID(t *testing.T) {
	def, ok := scoring.AchievementByID("semana-forte")
	if !ok {
		t.Fatal("semana-forte not found")
	}
	if def.Category != domain.CatStreak || def.Requirement != 7 {
		t.Errorf("unexpected def: %+v", def)
	}

	if _, ok := scoring.AchievementByID("nope"); ok {
		t.Error("expected lookup miss for unknown id")
	}
}

func TestActionCatalog(t *testing.T) {
	actions := scoring.AllActions()
	if len(actions) != 8 {
		t.Fatalf("expected 8 actions, got %d", len(actions))
	}
	for _, a := range actions {
		if a.BasePoints <= 0 {
			t.Errorf("%s: non-positive base points %d", a.Key, a.BasePoints)
		}
	}

	a, ok := scoring.ActionByKey(domain.ActionPlanCompleted)
	if !ok || a.BasePoints != 100 {
		t.Errorf("PLAN_COMPLETED = %+v, ok=%v", a, ok)
	}
	if _, ok := scoring.ActionByKey("BOGUS"); ok {
		t.Error("expected lookup miss for unknown key")
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Evaluator Tests
// ═══════════════════════════════════════════════════════════════════════════

func TestEvaluate_StreakThresholds(t *testing.T) {
	counters := domain.CategoryCounters{CurrentStreak: 7}

	got := scoring.Evaluate(counters, nil)
	if len(got) != 2 {
		t.Fatalf("expected 2 qualifying, got %d: %v", len(got), ids(got))
	}
	// Catalog order
	if got[0].ID != "primeiro-passo" || got[1].ID != "semana-forte" {
		t.Errorf("wrong order: %v", ids(got))
	}
}

func TestEvaluate_SkipsUnlocked(t *testing.T) {
	counters := domain.CategoryCounters{CurrentStreak: 7}

	got := scoring.Evaluate(counters, []string{"primeiro-passo"})
	if len(got) != 1 || got[0].ID != "semana-forte" {
		t.Errorf("expected only semana-forte, got %v", ids(got))
	}
}

func TestEvaluate_Idempotent(t *testing.T) {
	counters := domain.CategoryCounters{CurrentStreak: 3, FriendsCount: 5, LoginDays: 1}
	unlocked := []string{"presente"}

	first := scoring.Evaluate(counters, unlocked)
	second := scoring.Evaluate(counters, unlocked)

	if len(first) != len(second) {
		t.Fatalf("evaluator not repeatable: %v vs %v", ids(first), ids(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Errorf("order changed between calls: %v vs %v", ids(first), ids(second))
		}
	}
}

func TestEvaluate_BrokenStreakKeepsBadges(t *testing.T) {
	// Streak broke back to 1, but the longest run reached 30: every
	// badge up to the 30-day one still qualifies.
	counters := domain.CategoryCounters{CurrentStreak: 1, LongestStreak: 30}

	got := scoring.Evaluate(counters, nil)
	want := []string{"primeiro-passo", "semana-forte", "quinzena-de-aco", "mes-em-chamas"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, ids(got))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("got[%d] = %s, want %s", i, got[i].ID, id)
		}
	}
}

func TestEvaluate_SpecialCountsUnlockedSet(t *testing.T) {
	unlocked := []string{"primeiro-passo", "semana-forte", "primeiro-amigo", "desafiante", "presente"}

	got := scoring.Evaluate(domain.CategoryCounters{}, unlocked)
	if len(got) != 1 || got[0].ID != "colecionador" {
		t.Errorf("expected colecionador from 5 unlocked badges, got %v", ids(got))
	}
}

func TestEvaluate_EmptyCounters(t *testing.T) {
	if got := scoring.Evaluate(domain.CategoryCounters{}, nil); len(got) != 0 {
		t.Errorf("expected nothing qualifying at zero counters, got %v", ids(got))
	}
}

func ids(defs []domain.AchievementDef) []string {
	out := make([]string, len(defs))
	for i, d := range defs {
		out[i] = d.ID
	}
	return out
}

// ═══════════════════════════════════════════════════════════════════════════
// Streak Tests
// ═══════════════════════════════════════════════════════════════════════════

func TestStreak_FirstActivity(t *testing.T) {
	db := testDB(t)
	tracker := scoring.NewTracker(db)

	if err := tracker.RecordActivityAt("maria", noon(0)); err != nil {
		t.Fatalf("record: %v", err)
	}

	streak, err := tracker.Streak("maria")
	if err != nil {
		t.Fatalf("get streak: %v", err)
	}
	if streak.CurrentDays != 1 || streak.LongestDays != 1 {
		t.Errorf("streak = %d/%d, want 1/1", streak.CurrentDays, streak.LongestDays)
	}
}

func TestStreak_ConsecutiveDays(t *testing.T) {
	db := testDB(t)
	tracker := scoring.NewTracker(db)

	for i := 0; i < 5; i++ {
		if err := tracker.RecordActivityAt("maria", noon(i)); err != nil {
			t.Fatalf("record day %d: %v", i, err)
		}
	}

	streak, _ := tracker.Streak("maria")
	if streak.CurrentDays != 5 {
		t.Errorf("expected 5 consecutive, got %d", streak.CurrentDays)
	}
}

func TestStreak_SameDayIdempotent(t *testing.T) {
	db := testDB(t)
	tracker := scoring.NewTracker(db)

	_ = tracker.RecordActivityAt("maria", noon(0))
	_ = tracker.RecordActivityAt("maria", noon(0).Add(2*time.Hour)) // Same day, later
	_ = tracker.RecordActivityAt("maria", noon(0).Add(5*time.Hour))

	streak, _ := tracker.Streak("maria")
	if streak.CurrentDays != 1 {
		t.Errorf("expected 1 (idempotent), got %d", streak.CurrentDays)
	}
}

func TestStreak_GapResetsKeepsLongest(t *testing.T) {
	db := testDB(t)
	tracker := scoring.NewTracker(db)

	_ = tracker.RecordActivityAt("maria", noon(0))
	_ = tracker.RecordActivityAt("maria", noon(1))
	_ = tracker.RecordActivityAt("maria", noon(2))

	// Gap of 3 days
	_ = tracker.RecordActivityAt("maria", noon(6))

	streak, _ := tracker.Streak("maria")
	if streak.CurrentDays != 1 {
		t.Errorf("expected reset to 1, got %d", streak.CurrentDays)
	}
	if streak.LongestDays != 3 {
		t.Errorf("expected longest preserved at 3, got %d", streak.LongestDays)
	}
}

func TestStreak_PerUserIsolation(t *testing.T) {
	db := testDB(t)
	tracker := scoring.NewTracker(db)

	_ = tracker.RecordActivityAt("maria", noon(0))
	_ = tracker.RecordActivityAt("maria", noon(1))
	_ = tracker.RecordActivityAt("joao", noon(1))

	m, _ := tracker.Streak("maria")
	j, _ := tracker.Streak("joao")
	if m.CurrentDays != 2 || j.CurrentDays != 1 {
		t.Errorf("streaks = maria %d / joao %d, want 2/1", m.CurrentDays, j.CurrentDays)
	}
}

func TestStreakMultiplier(t *testing.T) {
	tests := []struct {
		days int
		want float64
	}{
		{0, 1.0},
		{1, 1.05},
		{5, 1.25},
		{10, 1.5},
		{30, 1.5}, // Capped
	}
	for _, tt := range tests {
		s := domain.Streak{CurrentDays: tt.days}
		if got := s.Multiplier(); got != tt.want {
			t.Errorf("Multiplier(%d days) = %.2f, want %.2f", tt.days, got, tt.want)
		}
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Engine Tests
// ═══════════════════════════════════════════════════════════════════════════

func newTestEngine(t *testing.T) (*scoring.Engine, *sqlite.DB) {
	t.Helper()
	db := testDB(t)
	tracker := scoring.NewTracker(db)
	engine := scoring.NewEngine(db, tracker, scoring.NewNotifier(db))
	return engine, db
}

func TestGrantAction_CreditsBasePoints(t *testing.T) {
	engine, db := newTestEngine(t)
	if err := db.CreateProfile("maria"); err != nil {
		t.Fatalf("create profile: %v", err)
	}

	result, err := engine.GrantActionAt("maria", domain.ActionFocusSession, noon(0))
	if err != nil {
		t.Fatalf("grant: %v", err)
	}
	if result.Granted != 25 {
		t.Errorf("granted = %d, want 25", result.Granted)
	}
	if result.State.Points != 25 || result.State.XP != 25 {
		t.Errorf("state = %d pts / %d xp, want 25/25", result.State.Points, result.State.XP)
	}
	if result.State.Level != 1 {
		t.Errorf("level = %d, want 1", result.State.Level)
	}
}

func TestGrantAction_UnknownKey(t *testing.T) {
	engine, db := newTestEngine(t)
	_ = db.CreateProfile("maria")

	_, err := engine.GrantActionAt("maria", "MADE_UP", noon(0))
	if !errors.Is(err, domain.ErrUnknownAction) {
		t.Errorf("expected ErrUnknownAction, got %v", err)
	}
}

func TestGrantAction_MissingProfileIsNoOp(t *testing.T) {
	engine, _ := newTestEngine(t)

	result, err := engine.GrantActionAt("ghost", domain.ActionFocusSession, noon(0))
	if err != nil {
		t.Fatalf("expected silent no-op, got error: %v", err)
	}
	if result.Granted != 0 {
		t.Errorf("granted = %d, want 0 for missing profile", result.Granted)
	}
}

func TestGrantAction_StreakBonus(t *testing.T) {
	engine, db := newTestEngine(t)
	_ = db.CreateProfile("maria")

	// Day 0: no streak yet, base points.
	r0, err := engine.GrantActionAt("maria", domain.ActionFocusSession, noon(0))
	if err != nil {
		t.Fatalf("day 0: %v", err)
	}
	if r0.Granted != 25 {
		t.Errorf("day 0 granted = %d, want 25", r0.Granted)
	}

	// Day 1: 1-day streak, +5% => round(26.25) = 26.
	r1, err := engine.GrantActionAt("maria", domain.ActionFocusSession, noon(1))
	if err != nil {
		t.Fatalf("day 1: %v", err)
	}
	if r1.Granted != 26 {
		t.Errorf("day 1 granted = %d, want 26", r1.Granted)
	}

	// Day 2: 2-day streak, +10% => round(27.5) = 28. The streak then
	// reaches 3 days and unlocks the 3-day badge (+50).
	r2, err := engine.GrantActionAt("maria", domain.ActionFocusSession, noon(2))
	if err != nil {
		t.Fatalf("day 2: %v", err)
	}
	if r2.Granted != 28 {
		t.Errorf("day 2 granted = %d, want 28", r2.Granted)
	}
	if len(r2.Unlocked) != 1 || r2.Unlocked[0].ID != "primeiro-passo" {
		t.Fatalf("unlocked = %v, want [primeiro-passo]", ids(r2.Unlocked))
	}
	if r2.State.Points != 25+26+28+50 {
		t.Errorf("total points = %d, want 129", r2.State.Points)
	}
	if r2.State.Level != 2 {
		t.Errorf("level = %d, want 2 after crossing 100 XP", r2.State.Level)
	}
}

func TestGrantAction_LoginUnlocksFirstBadge(t *testing.T) {
	engine, db := newTestEngine(t)
	_ = db.CreateProfile("joao")

	result, err := engine.GrantActionAt("joao", domain.ActionDailyLogin, noon(0))
	if err != nil {
		t.Fatalf("grant: %v", err)
	}
	if len(result.Unlocked) != 1 || result.Unlocked[0].ID != "presente" {
		t.Fatalf("unlocked = %v, want [presente]", ids(result.Unlocked))
	}
	// 5 action points + 10 badge reward
	if result.State.Points != 15 {
		t.Errorf("points = %d, want 15", result.State.Points)
	}
}

func TestGrantAction_NoDoubleAward(t *testing.T) {
	engine, db := newTestEngine(t)
	_ = db.CreateProfile("joao")

	first, _ := engine.GrantActionAt("joao", domain.ActionDailyLogin, noon(0))
	if len(first.Unlocked) != 1 {
		t.Fatalf("first grant unlocked %v", ids(first.Unlocked))
	}

	second, err := engine.GrantActionAt("joao", domain.ActionDailyLogin, noon(0).Add(time.Hour))
	if err != nil {
		t.Fatalf("second grant: %v", err)
	}
	if len(second.Unlocked) != 0 {
		t.Errorf("badge awarded twice: %v", ids(second.Unlocked))
	}

	state, _ := db.UserScoreState("joao")
	if len(state.UnlockedIDs) != 1 {
		t.Errorf("unlocked set = %v, want exactly one id", state.UnlockedIDs)
	}
}

func TestGrantAction_LevelUp(t *testing.T) {
	engine, db := newTestEngine(t)
	_ = db.CreateProfile("maria")

	// PLAN_COMPLETED grants 100 points, exactly the level-2 floor.
	result, err := engine.GrantActionAt("maria", domain.ActionPlanCompleted, noon(0))
	if err != nil {
		t.Fatalf("grant: %v", err)
	}
	if !result.LeveledUp {
		t.Error("expected LeveledUp at 100 XP")
	}
	if result.State.Level != 2 {
		t.Errorf("level = %d, want 2", result.State.Level)
	}
}

func TestNewlyQualifying_ReadOnly(t *testing.T) {
	engine, db := newTestEngine(t)
	_ = db.CreateProfile("maria")
	_ = db.SetCounters("maria", domain.CategoryCounters{FriendsCount: 5})

	first, err := engine.NewlyQualifying("maria")
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := engine.NewlyQualifying("maria")
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("expected 2 qualifying both times, got %d then %d", len(first), len(second))
	}

	// Nothing was persisted by evaluating.
	state, _ := db.UserScoreState("maria")
	if len(state.UnlockedIDs) != 0 || state.Points != 0 {
		t.Errorf("evaluation wrote state: %+v", state)
	}
}

func TestAwardAchievements_CombinedWrite(t *testing.T) {
	engine, db := newTestEngine(t)
	_ = db.CreateProfile("maria")

	defs := []domain.AchievementDef{}
	for _, id := range []string{"primeiro-amigo", "turma-formada"} {
		def, _ := scoring.AchievementByID(id)
		defs = append(defs, def)
	}

	state, err := engine.AwardAchievementsAt("maria", defs, noon(0))
	if err != nil {
		t.Fatalf("award: %v", err)
	}
	if state.Points != 100 { // 25 + 75
		t.Errorf("points = %d, want 100", state.Points)
	}
	if len(state.UnlockedIDs) != 2 {
		t.Errorf("unlocked = %v, want both ids", state.UnlockedIDs)
	}
}

// ─── Retry behavior (fake store) ────────────────────────────────────────────

// flakyStore fails ApplyScoreDelta a configured number of times, then
// succeeds. All other methods are benign.
type flakyStore struct {
	failures int
	applies  int
	applyErr error
	state    domain.UserScoreState
}

func (f *flakyStore) UserScoreState(userID string) (domain.UserScoreState, error) {
	return f.state, nil
}

func (f *flakyStore) ApplyScoreDelta(userID string, delta domain.ScoreDelta) (domain.UserScoreState, error) {
	f.applies++
	if f.failures > 0 {
		f.failures--
		if f.applyErr != nil {
			return domain.UserScoreState{}, f.applyErr
		}
		return domain.UserScoreState{}, errors.New("disk hiccup")
	}
	f.state.Points += delta.PointsDelta
	f.state.XP += delta.XPDelta
	f.state.UnlockedIDs = append(f.state.UnlockedIDs, delta.NewAchievementIDs...)
	return f.state, nil
}

func (f *flakyStore) SetLevel(userID string, level int) error { return nil }
func (f *flakyStore) CategoryCounters(userID string) (domain.CategoryCounters, error) {
	return domain.CategoryCounters{}, nil
}
func (f *flakyStore) BumpCounter(userID string, cat domain.AchievementCategory) error { return nil }
func (f *flakyStore) AppendScoreEvent(ev domain.ScoreEvent) error                     { return nil }
func (f *flakyStore) StreakState(userID string) (domain.Streak, error) {
	return domain.Streak{}, nil
}
func (f *flakyStore) SaveStreak(userID string, s domain.Streak) error { return nil }
func (f *flakyStore) InsertNotification(n domain.Notification) (int64, error) {
	return 1, nil
}
func (f *flakyStore) NotificationCountToday(userID string, now time.Time) (int, error) {
	return 0, nil
}

func TestGrantAction_RetriesOnce(t *testing.T) {
	store := &flakyStore{failures: 1, state: domain.UserScoreState{UserID: "maria"}}
	engine := scoring.NewEngine(store, scoring.NewTracker(store), nil)

	result, err := engine.GrantActionAt("maria", domain.ActionGoalCreated, noon(0))
	if err != nil {
		t.Fatalf("expected retry to recover, got %v", err)
	}
	if store.applies != 2 {
		t.Errorf("applies = %d, want 2 (one failure + one retry)", store.applies)
	}
	if result.Granted != 15 {
		t.Errorf("granted = %d, want 15", result.Granted)
	}
}

func TestGrantAction_SurfacesPersistentFailure(t *testing.T) {
	store := &flakyStore{failures: 2, state: domain.UserScoreState{UserID: "maria"}}
	engine := scoring.NewEngine(store, scoring.NewTracker(store), nil)

	_, err := engine.GrantActionAt("maria", domain.ActionGoalCreated, noon(0))
	if err == nil {
		t.Fatal("expected error after retry exhausted")
	}
	if store.applies != 2 {
		t.Errorf("applies = %d, want 2", store.applies)
	}
}

func TestAwardAchievements_NoRetryOnMissingProfile(t *testing.T) {
	store := &flakyStore{failures: 10, applyErr: domain.ErrProfileNotFound}
	engine := scoring.NewEngine(store, scoring.NewTracker(store), nil)

	def, _ := scoring.AchievementByID("presente")
	_, err := engine.AwardAchievementsAt("ghost", []domain.AchievementDef{def}, noon(0))
	if !errors.Is(err, domain.ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
	if store.applies != 1 {
		t.Errorf("applies = %d, want 1 (no retry on missing profile)", store.applies)
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Notifier Tests
// ═══════════════════════════════════════════════════════════════════════════

func TestNotifier_Send(t *testing.T) {
	db := testDB(t)
	notifier := scoring.NewNotifier(db)

	id, err := notifier.SendAt(domain.Notification{
		UserID: "maria", Kind: domain.NotifyBadge,
		Title: "Conquista!", Message: "Primeiro Passo",
	}, noon(0))
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if id == 0 {
		t.Error("expected a row id, got 0")
	}

	unseen, err := db.ListUnseenNotifications("maria", 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(unseen) != 1 || unseen[0].Title != "Conquista!" {
		t.Errorf("unseen = %+v", unseen)
	}
}

func TestNotifier_QuietHours(t *testing.T) {
	db := testDB(t)
	notifier := scoring.NewNotifier(db)

	lateNight := time.Date(2026, 3, 2, 23, 0, 0, 0, time.UTC)
	id, err := notifier.SendAt(domain.Notification{UserID: "maria", Kind: domain.NotifyReward}, lateNight)
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if id != 0 {
		t.Error("expected suppression at 23:00")
	}

	earlyMorning := time.Date(2026, 3, 2, 7, 30, 0, 0, time.UTC)
	id, _ = notifier.SendAt(domain.Notification{UserID: "maria", Kind: domain.NotifyReward}, earlyMorning)
	if id != 0 {
		t.Error("expected suppression at 07:30 (quiet window wraps midnight)")
	}

	id, _ = notifier.SendAt(domain.Notification{UserID: "maria", Kind: domain.NotifyReward}, noon(0))
	if id == 0 {
		t.Error("expected delivery at noon")
	}
}

func TestNotifier_DailyCap(t *testing.T) {
	db := testDB(t)
	notifier := scoring.NewNotifierWithPolicy(db, domain.NotificationPolicy{
		MaxPerDay: 2, QuietStart: "22:00", QuietEnd: "08:00",
	})

	for i := 0; i < 2; i++ {
		id, err := notifier.SendAt(domain.Notification{UserID: "maria", Kind: domain.NotifyReward}, noon(0).Add(time.Duration(i)*time.Minute))
		if err != nil || id == 0 {
			t.Fatalf("send %d: id=%d err=%v", i, id, err)
		}
	}

	id, err := notifier.SendAt(domain.Notification{UserID: "maria", Kind: domain.NotifyReward}, noon(0).Add(time.Hour))
	if err != nil {
		t.Fatalf("capped send: %v", err)
	}
	if id != 0 {
		t.Error("expected suppression past the daily cap")
	}
}

func TestNotifier_CapIsPerUser(t *testing.T) {
	db := testDB(t)
	notifier := scoring.NewNotifierWithPolicy(db, domain.NotificationPolicy{
		MaxPerDay: 1, QuietStart: "22:00", QuietEnd: "08:00",
	})

	_, _ = notifier.SendAt(domain.Notification{UserID: "maria", Kind: domain.NotifyReward}, noon(0))
	id, err := notifier.SendAt(domain.Notification{UserID: "joao", Kind: domain.NotifyReward}, noon(0))
	if err != nil || id == 0 {
		t.Errorf("other user's cap leaked: id=%d err=%v", id, err)
	}
}
