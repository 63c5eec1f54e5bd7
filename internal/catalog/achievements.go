package catalog

import (
	"fmt"

	"github.com/codexa-learn/codexa/internal/domain"
)

// AchievementCatalog is a read-only lookup over the badge definitions.
type AchievementCatalog struct {
	defs []domain.AchievementDef
	byID map[string]domain.AchievementDef
}

// NewAchievementCatalog returns the built-in achievement set.
func NewAchievementCatalog() *AchievementCatalog {
	return newAchievementCatalog(builtinAchievements())
}

func newAchievementCatalog(defs []domain.AchievementDef) *AchievementCatalog {
	byID := make(map[string]domain.AchievementDef, len(defs))
	for _, d := range defs {
		byID[d.ID] = d
	}
	return &AchievementCatalog{defs: defs, byID: byID}
}

// Definitions returns every achievement in catalog order.
func (c *AchievementCatalog) Definitions() []domain.AchievementDef {
	return c.defs
}

// ByID looks up an achievement definition.
func (c *AchievementCatalog) ByID(id string) (domain.AchievementDef, error) {
	d, ok := c.byID[id]
	if !ok {
		return domain.AchievementDef{}, fmt.Errorf("%w: achievement %q", domain.ErrUnknownCatalogID, id)
	}
	return d, nil
}

func (c *AchievementCatalog) validate() error {
	ids := make([]string, len(c.defs))
	for i, d := range c.defs {
		ids[i] = d.ID
		if d.Unlock == nil {
			return fmt.Errorf("%w: achievement %q has no unlock predicate", domain.ErrCatalogInvalid, d.ID)
		}
	}
	return checkUnique(ids)
}

// builtinAchievements returns the badge catalog. Every predicate reads only
// monotone cumulative stats, so unlocks survive replay without revokes.
func builtinAchievements() []domain.AchievementDef {
	return []domain.AchievementDef{
		{
			ID: "first_steps", Name: "First Steps", Icon: "🥉",
			Description: "Complete 1 quiz", RewardXP: 25,
			Unlock: func(s domain.LearnerStats) bool { return s.QuizCount >= 1 },
		},
		{
			ID: "warming_up", Name: "Warming Up", Icon: "🥈",
			Description: "Reach 5 quizzes", RewardXP: 50,
			Unlock: func(s domain.LearnerStats) bool { return s.QuizCount >= 5 },
		},
		{
			ID: "quiz_pro", Name: "Quiz Pro", Icon: "🥇",
			Description: "Reach 20 quizzes", RewardXP: 100,
			Unlock: func(s domain.LearnerStats) bool { return s.QuizCount >= 20 },
		},
		{
			ID: "hot_streak", Name: "Hot Streak", Icon: "🔥",
			Description: "Hold a 5-day learning streak", RewardXP: 50,
			Unlock: func(s domain.LearnerStats) bool { return s.LongestDailyStreak >= 5 },
		},
		{
			ID: "flawless", Name: "Flawless", Icon: "💯",
			Description: "Score 100% in a quiz", RewardXP: 50,
			Unlock: func(s domain.LearnerStats) bool { return s.PerfectQuizzes >= 1 },
		},
		{
			ID: "marathon", Name: "Marathon", Icon: "🏅",
			Description: "Answer 50 questions correctly in total", RewardXP: 75,
			Unlock: func(s domain.LearnerStats) bool { return s.CorrectTotal >= 50 },
		},
		{
			ID: "sharp_shooter", Name: "Sharp Shooter", Icon: "🎯",
			Description: "Answer 10 questions correctly in a row", RewardXP: 60,
			Unlock: func(s domain.LearnerStats) bool { return s.LongestCorrectStreak >= 10 },
		},
		{
			ID: "bookworm", Name: "Bookworm", Icon: "📚",
			Description: "Read 10 lesson parts", RewardXP: 40,
			Unlock: func(s domain.LearnerStats) bool { return s.LessonsViewed >= 10 },
		},
		{
			ID: "game_on", Name: "Game On", Icon: "🎮",
			Description: "Win 5 mini-games", RewardXP: 40,
			Unlock: func(s domain.LearnerStats) bool { return s.GamesWon >= 5 },
		},
		{
			ID: "scholar_rank", Name: "True Scholar", Icon: "🎓",
			Description: "Reach level 6", RewardXP: 100,
			Unlock: func(s domain.LearnerStats) bool { return s.Level >= 6 },
		},
	}
}
