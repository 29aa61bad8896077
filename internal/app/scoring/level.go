// Package scoring implements the Transforma scoring engine: point grants,
// the XP/level curve, rank titles, the achievement catalog and its
// evaluator, streak tracking, and reward notifications.
// Design rule: awards are additive only — state never moves backwards.
package scoring

import (
	"github.com/transforma-app/transforma/internal/domain"
)

// levelBracket is one step of the XP curve. Brackets are sorted
// ascending by Floor; the highest floor not exceeding the XP wins.
type levelBracket struct {
	Level int
	Floor int64
	Title string
	Emoji string
}

// levelTable is the full level curve. L1 starts at 0 so any
// non-negative XP always resolves to a bracket.
var levelTable = []levelBracket{
	{1, 0, "Iniciante", "🌱"},
	{2, 100, "Aprendiz", "📘"},
	{3, 250, "Explorador", "🧭"},
	{4, 500, "Dedicado", "💪"},
	{5, 1000, "Disciplinado", "🎯"},
	{6, 2000, "Focado", "🔥"},
	{7, 3500, "Resiliente", "🛡️"},
	{8, 5500, "Inspirador", "✨"},
	{9, 8000, "Mestre", "🏅"},
	{10, 12000, "Transformado", "🦋"},
}

// MaxLevel is the highest defined level.
const MaxLevel = 10

// rankBracket maps lifetime points to a cosmetic rank.
type rankBracket struct {
	Floor int64
	Title string
	Emoji string
	Color string
}

var rankTable = []rankBracket{
	{0, "Novato", "🌱", "#9CA3AF"},
	{250, "Bronze", "🥉", "#CD7F32"},
	{1000, "Prata", "🥈", "#C0C0C0"},
	{2500, "Ouro", "🥇", "#FFD700"},
	{6000, "Diamante", "💎", "#60A5FA"},
	{15000, "Lenda", "🏆", "#A855F7"},
}

// LevelForXP returns the level for a given XP amount.
// Walks the table and keeps the last bracket whose floor is not
// exceeded (last-matching, not first-matching).
func LevelForXP(xp int64) int {
	if xp < 0 {
		xp = 0
	}
	level := levelTable[0].Level
	for _, b := range levelTable {
		if xp >= b.Floor {
			level = b.Level
		}
	}
	return level
}

// XPForLevel returns the XP floor of a level. Inputs below the first
// bracket clamp to it; inputs above the last clamp to the last.
func XPForLevel(level int) int64 {
	if level <= levelTable[0].Level {
		return levelTable[0].Floor
	}
	last := levelTable[len(levelTable)-1]
	if level >= last.Level {
		return last.Floor
	}
	return levelTable[level-1].Floor
}

// LevelInfoForXP returns the full derived level view: level, title,
// emoji and progress within the level clamped to [0, 100]. At the
// final level progress is defined as 100.
func LevelInfoForXP(xp int64) domain.LevelInfo {
	if xp < 0 {
		xp = 0
	}

	cur := levelTable[0]
	next := cur
	atCap := true
	for i, b := range levelTable {
		if xp >= b.Floor {
			cur = b
			if i+1 < len(levelTable) {
				next = levelTable[i+1]
				atCap = false
			} else {
				next = b
				atCap = true
			}
		}
	}

	info := domain.LevelInfo{
		Level: cur.Level,
		Title: cur.Title,
		Emoji: cur.Emoji,
		Floor: cur.Floor,
		Next:  next.Floor,
	}

	if atCap {
		info.Progress = 100.0
		return info
	}

	span := next.Floor - cur.Floor
	if span <= 0 {
		info.Progress = 100.0
		return info
	}
	progress := float64(xp-cur.Floor) / float64(span) * 100.0
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}
	info.Progress = progress
	return info
}

// RankForPoints maps lifetime points to the cosmetic rank. Same
// last-matching bracket walk as the level table; points below the
// first bracket return the lowest rank, never an error.
func RankForPoints(points int64) domain.RankInfo {
	if points < 0 {
		points = 0
	}
	r := rankTable[0]
	for _, b := range rankTable {
		if points >= b.Floor {
			r = b
		}
	}
	return domain.RankInfo{Title: r.Title, Emoji: r.Emoji, Color: r.Color}
}

// NextRankFloor returns the points floor of the rank above the given
// points, or -1 when already at the top rank.
func NextRankFloor(points int64) int64 {
	for _, b := range rankTable {
		if points < b.Floor {
			return b.Floor
		}
	}
	return -1
}
