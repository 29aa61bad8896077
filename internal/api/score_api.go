package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/transforma-app/transforma/internal/app/scoring"
	"github.com/transforma-app/transforma/internal/domain"
)

// --- GET /api/score/summary ---

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	uid := userID(w, r)
	if uid == "" {
		return
	}

	state, err := s.db.UserScoreState(uid)
	if errors.Is(err, domain.ErrProfileNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	counters, err := s.db.CategoryCounters(uid)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	today, err := s.db.TodayPoints(uid, time.Now().UTC().Format("2006-01-02"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"state":        state,
		"level":        scoring.LevelInfoForXP(state.XP),
		"rank":         scoring.RankForPoints(state.Points),
		"counters":     counters,
		"today_points": today,
	})
}

// --- GET /api/score/level ---

func (s *Server) handleLevel(w http.ResponseWriter, r *http.Request) {
	uid := userID(w, r)
	if uid == "" {
		return
	}
	state, err := s.db.UserScoreState(uid)
	if errors.Is(err, domain.ErrProfileNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, scoring.LevelInfoForXP(state.XP))
}

// --- GET /api/score/rank ---

func (s *Server) handleRank(w http.ResponseWriter, r *http.Request) {
	uid := userID(w, r)
	if uid == "" {
		return
	}
	state, err := s.db.UserScoreState(uid)
	if errors.Is(err, domain.ErrProfileNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"rank":            scoring.RankForPoints(state.Points),
		"points":          state.Points,
		"next_rank_floor": scoring.NextRankFloor(state.Points),
	})
}

// --- GET /api/score/streak ---

func (s *Server) handleStreak(w http.ResponseWriter, r *http.Request) {
	uid := userID(w, r)
	if uid == "" {
		return
	}
	streak, err := s.streaks.Streak(uid)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"streak":     streak,
		"multiplier": streak.Multiplier(),
	})
}

// --- GET /api/score/today ---

func (s *Server) handleToday(w http.ResponseWriter, r *http.Request) {
	uid := userID(w, r)
	if uid == "" {
		return
	}
	day := time.Now().UTC().Format("2006-01-02")
	total, err := s.db.TodayPoints(uid, day)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"day":    day,
		"points": total,
	})
}

// --- GET /api/score/history ---

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	uid := userID(w, r)
	if uid == "" {
		return
	}
	limit := 50
	if q := r.URL.Query().Get("limit"); q != "" {
		if n, err := strconv.Atoi(q); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}
	events, err := s.db.RecentScoreEvents(uid, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"events": events,
	})
}

// --- GET /api/score/achievements ---

// Returns the full catalog annotated with the caller's unlock state.
func (s *Server) handleAchievements(w http.ResponseWriter, r *http.Request) {
	uid := userID(w, r)
	if uid == "" {
		return
	}
	state, err := s.db.UserScoreState(uid)
	if errors.Is(err, domain.ErrProfileNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	type entry struct {
		domain.AchievementDef
		Unlocked bool `json:"unlocked"`
	}
	catalog := scoring.AllAchievements()
	out := make([]entry, len(catalog))
	for i, def := range catalog {
		out[i] = entry{AchievementDef: def, Unlocked: state.HasAchievement(def.ID)}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"achievements": out,
		"unlocked":     len(state.UnlockedIDs),
		"total":        len(catalog),
	})
}

// --- GET /api/score/actions ---

func (s *Server) handleActions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"actions": scoring.AllActions(),
	})
}

// --- POST /api/score/actions/{key} ---

func (s *Server) handleGrantAction(w http.ResponseWriter, r *http.Request) {
	uid := userID(w, r)
	if uid == "" {
		return
	}

	key := domain.ActionKey(chi.URLParam(r, "key"))
	result, err := s.engine.GrantAction(uid, key)
	if errors.Is(err, domain.ErrUnknownAction) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// --- POST /api/score/profile ---

// Creates a zeroed score profile for the caller. Idempotent.
func (s *Server) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	uid := userID(w, r)
	if uid == "" {
		return
	}
	if err := s.db.CreateProfile(uid); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	state, err := s.db.UserScoreState(uid)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, state)
}

// --- GET /api/score/notifications ---

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	uid := userID(w, r)
	if uid == "" {
		return
	}
	notifs, err := s.db.ListUnseenNotifications(uid, 50)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"notifications": notifs,
	})
}

// --- POST /api/score/notifications/{id}/seen ---

func (s *Server) handleNotificationSeen(w http.ResponseWriter, r *http.Request) {
	uid := userID(w, r)
	if uid == "" {
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid notification id")
		return
	}
	if err := s.db.MarkNotificationSeen(id); err != nil {
		if errors.Is(err, domain.ErrNotificationNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
