package domain

// Result summarizes what one applied event changed.
// Deltas are totals across primary rewards, quest rewards, and
// achievement rewards.
type Result struct {
	Kind EventKind `json:"kind"`

	XPDelta      int64 `json:"xp_delta"`
	CoinsDelta   int64 `json:"coins_delta"`
	CreditsDelta int64 `json:"credits_delta"`

	Level   int    `json:"level"`
	LevelUp bool   `json:"level_up"`
	Rank    string `json:"rank"`

	DailyStreak   int `json:"daily_streak"`
	CorrectStreak int `json:"correct_streak"`

	// Quiz outcomes. Passed is the Doodle Map gate: accuracy ≥ 80%.
	Accuracy float64 `json:"accuracy,omitempty"`
	Passed   bool    `json:"passed,omitempty"`

	CompletedQuests      []string `json:"completed_quests,omitempty"`
	UnlockedAchievements []string `json:"unlocked_achievements,omitempty"`

	Activity *ActivityEntry `json:"activity,omitempty"`
}
