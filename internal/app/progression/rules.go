package progression

import (
	"fmt"

	"github.com/codexa-learn/codexa/internal/domain"
)

// Rules carries every numeric reward table the engine applies.
// The tables are configuration, not code: the daemon loads overrides from
// config.toml and hands the engine a fully resolved value.
type Rules struct {
	// Quiz rewards
	XPPerCorrect        int64   `toml:"xp_per_correct"`
	EasyMultiplier      float64 `toml:"easy_multiplier"`
	HardMultiplier      float64 `toml:"hard_multiplier"`
	PassBonusXP         int64   `toml:"pass_bonus_xp"`
	PassBonusCoins      int64   `toml:"pass_bonus_coins"`
	PassBonusCredits    int64   `toml:"pass_bonus_credits"`
	PerfectBonusCredits int64   `toml:"perfect_bonus_credits"`

	// Lesson and game rewards
	LessonXP      int64 `toml:"lesson_xp"`
	MaxGameXP     int64 `toml:"max_game_xp"` // events claiming more are rejected
	GameWinRefund bool  `toml:"game_win_refund"`

	// LevelThresholds is the cumulative XP needed for each level.
	// LevelThresholds[0] must be 0 (level 1); the table must be strictly
	// increasing. Learners cap at level len(LevelThresholds).
	LevelThresholds []int64 `toml:"level_thresholds"`

	// RankLadder maps level cutoffs to rank names, ascending by MinLevel.
	RankLadder []RankStep `toml:"rank_ladder"`

	// BadgeLadder maps lifetime quiz counts to display badges.
	BadgeLadder []BadgeStep `toml:"badge_ladder"`
}

// RankStep names the rank held from MinLevel upward.
type RankStep struct {
	MinLevel int    `toml:"min_level"`
	Name     string `toml:"name"`
}

// BadgeStep names the badge held from MinQuizzes upward.
type BadgeStep struct {
	MinQuizzes int    `toml:"min_quizzes"`
	Name       string `toml:"name"`
}

// DefaultRules returns the shipped reward tables.
func DefaultRules() Rules {
	return Rules{
		XPPerCorrect:        5,
		EasyMultiplier:      0.8,
		HardMultiplier:      1.5,
		PassBonusXP:         25,
		PassBonusCoins:      5,
		PassBonusCredits:    1,
		PerfectBonusCredits: 1,
		LessonXP:            5,
		MaxGameXP:           100,
		GameWinRefund:       true,
		LevelThresholds: []int64{
			0, 100, 250, 450, 700, 1000, 1400, 1850, 2350, 2900, 3500, 4200,
		},
		RankLadder: []RankStep{
			{MinLevel: 1, Name: "Rookie"},
			{MinLevel: 2, Name: "Apprentice"},
			{MinLevel: 4, Name: "Scholar"},
			{MinLevel: 6, Name: "Mentor"},
			{MinLevel: 8, Name: "Master"},
			{MinLevel: 10, Name: "Grandmaster"},
		},
		BadgeLadder: []BadgeStep{
			{MinQuizzes: 0, Name: "🌟 Novice"},
			{MinQuizzes: 5, Name: "⭐ Rising Star"},
			{MinQuizzes: 10, Name: "🥉 Bronze"},
			{MinQuizzes: 20, Name: "🥈 Silver"},
			{MinQuizzes: 30, Name: "🥇 Gold"},
			{MinQuizzes: 50, Name: "💎 Diamond"},
			{MinQuizzes: 100, Name: "💎 Diamond Master"},
		},
	}
}

// Validate rejects tables that would break the level/rank invariants.
func (r Rules) Validate() error {
	if r.XPPerCorrect < 0 || r.PassBonusXP < 0 || r.LessonXP < 0 {
		return fmt.Errorf("reward amounts must be non-negative")
	}
	if len(r.LevelThresholds) == 0 || r.LevelThresholds[0] != 0 {
		return fmt.Errorf("level thresholds must start at 0 for level 1")
	}
	for i := 1; i < len(r.LevelThresholds); i++ {
		if r.LevelThresholds[i] <= r.LevelThresholds[i-1] {
			return fmt.Errorf("level thresholds must be strictly increasing at index %d", i)
		}
	}
	if len(r.RankLadder) == 0 || r.RankLadder[0].MinLevel != 1 {
		return fmt.Errorf("rank ladder must cover level 1")
	}
	for i := 1; i < len(r.RankLadder); i++ {
		if r.RankLadder[i].MinLevel <= r.RankLadder[i-1].MinLevel {
			return fmt.Errorf("rank ladder must ascend at index %d", i)
		}
	}
	return nil
}

// multiplier returns the XP scale factor for a quiz difficulty.
func (r Rules) multiplier(d domain.Difficulty) float64 {
	switch d {
	case domain.DifficultyEasy:
		return r.EasyMultiplier
	case domain.DifficultyHard:
		return r.HardMultiplier
	default:
		return 1.0
	}
}
