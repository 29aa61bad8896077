package scoring

import (
	"github.com/transforma-app/transforma/internal/domain"
)

// ─── Achievement Catalog ────────────────────────────────────────────────────
// 19 achievements across 5 categories. IDs are fixed slugs committed with
// the catalog so unlock state survives reorders and title edits.

// AllAchievements returns the full catalog in definition order. The
// order is the stable order of evaluator output.
func AllAchievements() []domain.AchievementDef {
	return []domain.AchievementDef{
		// ── Streak ─────────────────────────────────────────────────────
		{
			ID: "primeiro-passo", Title: "Primeiro Passo", Category: domain.CatStreak,
			Description: "Mantenha uma sequência de 3 dias",
			Requirement: 3, RewardPoints: 50, Rarity: domain.RarityCommon, Emoji: "🔥",
		},
		{
			ID: "semana-forte", Title: "Semana Forte", Category: domain.CatStreak,
			Description: "Mantenha uma sequência de 7 dias",
			Requirement: 7, RewardPoints: 100, Rarity: domain.RarityUncommon, Emoji: "⚡",
		},
		{
			ID: "quinzena-de-aco", Title: "Quinzena de Aço", Category: domain.CatStreak,
			Description: "Mantenha uma sequência de 14 dias",
			Requirement: 14, RewardPoints: 200, Rarity: domain.RarityRare, Emoji: "🛡️",
		},
		{
			ID: "mes-em-chamas", Title: "Mês em Chamas", Category: domain.CatStreak,
			Description: "Mantenha uma sequência de 30 dias",
			Requirement: 30, RewardPoints: 500, Rarity: domain.RarityEpic, Emoji: "🌋",
		},
		{
			ID: "cem-dias", Title: "Cem Dias", Category: domain.CatStreak,
			Description: "Mantenha uma sequência de 100 dias",
			Requirement: 100, RewardPoints: 2000, Rarity: domain.RarityLegendary, Emoji: "🏛️",
		},

		// ── Social ─────────────────────────────────────────────────────
		{
			ID: "primeiro-amigo", Title: "Primeiro Amigo", Category: domain.CatSocial,
			Description: "Adicione seu primeiro amigo",
			Requirement: 1, RewardPoints: 25, Rarity: domain.RarityCommon, Emoji: "🤝",
		},
		{
			ID: "turma-formada", Title: "Turma Formada", Category: domain.CatSocial,
			Description: "Tenha 5 amigos",
			Requirement: 5, RewardPoints: 75, Rarity: domain.RarityUncommon, Emoji: "👥",
		},
		{
			ID: "comunidade", Title: "Comunidade", Category: domain.CatSocial,
			Description: "Tenha 15 amigos",
			Requirement: 15, RewardPoints: 200, Rarity: domain.RarityRare, Emoji: "🌐",
		},
		{
			ID: "rede-forte", Title: "Rede Forte", Category: domain.CatSocial,
			Description: "Tenha 30 amigos",
			Requirement: 30, RewardPoints: 500, Rarity: domain.RarityEpic, Emoji: "📢",
		},

		// ── Challenges ─────────────────────────────────────────────────
		{
			ID: "desafiante", Title: "Desafiante", Category: domain.CatChallenges,
			Description: "Complete seu primeiro desafio",
			Requirement: 1, RewardPoints: 25, Rarity: domain.RarityCommon, Emoji: "🎯",
		},
		{
			ID: "competidor", Title: "Competidor", Category: domain.CatChallenges,
			Description: "Complete 5 desafios",
			Requirement: 5, RewardPoints: 100, Rarity: domain.RarityUncommon, Emoji: "⚔️",
		},
		{
			ID: "guerreiro", Title: "Guerreiro", Category: domain.CatChallenges,
			Description: "Complete 10 desafios",
			Requirement: 10, RewardPoints: 250, Rarity: domain.RarityRare, Emoji: "🏹",
		},
		{
			ID: "campeao", Title: "Campeão", Category: domain.CatChallenges,
			Description: "Complete 25 desafios",
			Requirement: 25, RewardPoints: 750, Rarity: domain.RarityEpic, Emoji: "🏆",
		},

		// ── Login ──────────────────────────────────────────────────────
		{
			ID: "presente", Title: "Presente", Category: domain.CatLogin,
			Description: "Faça seu primeiro login",
			Requirement: 1, RewardPoints: 10, Rarity: domain.RarityCommon, Emoji: "👋",
		},
		{
			ID: "frequente", Title: "Frequente", Category: domain.CatLogin,
			Description: "Entre em 7 dias diferentes",
			Requirement: 7, RewardPoints: 50, Rarity: domain.RarityUncommon, Emoji: "📅",
		},
		{
			ID: "assiduo", Title: "Assíduo", Category: domain.CatLogin,
			Description: "Entre em 30 dias diferentes",
			Requirement: 30, RewardPoints: 300, Rarity: domain.RarityRare, Emoji: "⏰",
		},
		{
			ID: "veterano", Title: "Veterano", Category: domain.CatLogin,
			Description: "Entre em 100 dias diferentes",
			Requirement: 100, RewardPoints: 1000, Rarity: domain.RarityEpic, Emoji: "🎖️",
		},

		// ── Special ────────────────────────────────────────────────────
		// Checked against how many badges are already unlocked.
		{
			ID: "colecionador", Title: "Colecionador", Category: domain.CatSpecial,
			Description: "Desbloqueie 5 conquistas",
			Requirement: 5, RewardPoints: 250, Rarity: domain.RarityRare, Emoji: "🧩",
		},
		{
			ID: "lenda-transforma", Title: "Lenda Transforma", Category: domain.CatSpecial,
			Description: "Desbloqueie 15 conquistas",
			Requirement: 15, RewardPoints: 1000, Rarity: domain.RarityLegendary, Emoji: "👑",
		},
	}
}

// AchievementByID looks up a catalog entry by id.
func AchievementByID(id string) (domain.AchievementDef, bool) {
	for _, def := range AllAchievements() {
		if def.ID == id {
			return def, true
		}
	}
	return domain.AchievementDef{}, false
}

// ─── Evaluator ──────────────────────────────────────────────────────────────

// Evaluate returns the achievements whose requirement is met by the
// current counters and whose id is not yet in the persisted unlocked
// set, in catalog order. Pure and read-only: safe to call repeatedly,
// persistence happens in a separate award step.
//
// Streak badges compare against max(current, longest) so a broken
// streak never locks a badge the user already reached. Special badges
// compare against the size of the persisted unlocked set as it stood
// before this call — unlocking one in the same award pass counts on
// the next evaluation.
func Evaluate(counters domain.CategoryCounters, unlockedIDs []string) []domain.AchievementDef {
	unlocked := make(map[string]bool, len(unlockedIDs))
	for _, id := range unlockedIDs {
		unlocked[id] = true
	}

	var qualifying []domain.AchievementDef
	for _, def := range AllAchievements() {
		if unlocked[def.ID] {
			continue
		}
		if counterFor(def.Category, counters, len(unlockedIDs)) >= def.Requirement {
			qualifying = append(qualifying, def)
		}
	}
	return qualifying
}

// counterFor selects the comparison counter for a category.
func counterFor(cat domain.AchievementCategory, c domain.CategoryCounters, unlockedCount int) int {
	switch cat {
	case domain.CatStreak:
		if c.LongestStreak > c.CurrentStreak {
			return c.LongestStreak
		}
		return c.CurrentStreak
	case domain.CatSocial:
		return c.FriendsCount
	case domain.CatChallenges:
		return c.TotalChallenges
	case domain.CatLogin:
		return c.LoginDays
	case domain.CatSpecial:
		return unlockedCount
	default:
		return 0
	}
}
