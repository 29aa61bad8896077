package scoring

import (
	"github.com/transforma-app/transforma/internal/domain"
)

// ─── Action Catalog ─────────────────────────────────────────────────────────
// Immutable at runtime. Call sites use the typed ActionKey constants, so
// a missing key only happens when a caller bypasses the constants.

// AllActions returns the point-granting action catalog in definition order.
func AllActions() []domain.ScoreAction {
	return []domain.ScoreAction{
		{Key: domain.ActionFocusSession, BasePoints: 25, Description: "Sessão de foco concluída", Emoji: "⏱️"},
		{Key: domain.ActionPlanCompleted, BasePoints: 100, Description: "Plano concluído", Emoji: "📋"},
		{Key: domain.ActionGoalCreated, BasePoints: 15, Description: "Meta criada", Emoji: "🎯"},
		{Key: domain.ActionChallengeAccepted, BasePoints: 10, Description: "Desafio aceito", Emoji: "🤜"},
		{Key: domain.ActionChallengeCompleted, BasePoints: 75, Description: "Desafio concluído", Emoji: "🏁"},
		{Key: domain.ActionFriendAdded, BasePoints: 20, Description: "Amigo adicionado", Emoji: "🤝"},
		{Key: domain.ActionStoryPosted, BasePoints: 10, Description: "Story publicado", Emoji: "📸"},
		{Key: domain.ActionDailyLogin, BasePoints: 5, Description: "Login diário", Emoji: "👋"},
	}
}

// ActionByKey looks up a catalog entry by key.
func ActionByKey(key domain.ActionKey) (domain.ScoreAction, bool) {
	for _, a := range AllActions() {
		if a.Key == key {
			return a, true
		}
	}
	return domain.ScoreAction{}, false
}

// streakActions are the actions that count as a day of activity for
// the streak state machine.
var streakActions = map[domain.ActionKey]bool{
	domain.ActionFocusSession:       true,
	domain.ActionPlanCompleted:      true,
	domain.ActionChallengeCompleted: true,
	domain.ActionDailyLogin:         true,
}

// counterForAction maps actions onto the collaborator counter they
// advance. Actions without an entry advance no counter.
var counterForAction = map[domain.ActionKey]domain.AchievementCategory{
	domain.ActionFriendAdded:        domain.CatSocial,
	domain.ActionChallengeCompleted: domain.CatChallenges,
	domain.ActionDailyLogin:         domain.CatLogin,
}
