// Package domain holds the learner progression types shared by every layer.
// The progression engine mutates these records; the profile store persists
// them; the API and CLI render them.
package domain

import (
	"fmt"
	"time"
)

// ProfileSchemaVersion is the current persisted profile schema.
// Bump when reward tables or profile fields change shape, and add a
// migration step in the store.
const ProfileSchemaVersion = 1

// PassThreshold is the Doodle Map gate: a quiz at or above this accuracy
// moves the learner forward. 0.80 exactly counts as a pass.
const PassThreshold = 0.80

// LearnerProfile is the progression record for a single learner.
// Owned exclusively by the progression engine while mutating; persisted
// as one versioned document by the profile store.
type LearnerProfile struct {
	ID            string `json:"id"`
	SchemaVersion int    `json:"schema_version"`

	XP    int64  `json:"xp"`
	Level int    `json:"level"`
	Rank  string `json:"rank"`

	Coins   int64 `json:"coins"`
	Credits int64 `json:"credits"`

	DailyStreak        int       `json:"daily_streak"`
	LongestDailyStreak int       `json:"longest_daily_streak"`
	LastActiveDate     time.Time `json:"last_active_date"` // midnight UTC, zero if never active

	CorrectStreak        int `json:"correct_streak"`
	LongestCorrectStreak int `json:"longest_correct_streak"`

	// Cumulative counters. Monotone by construction — achievement
	// predicates may only read these and the Longest* fields.
	QuizCount      int `json:"quiz_count"`
	QuestionTotal  int `json:"question_total"`
	CorrectTotal   int `json:"correct_total"`
	PerfectQuizzes int `json:"perfect_quizzes"`
	LessonsViewed  int `json:"lessons_viewed"`
	GamesPlayed    int `json:"games_played"`
	GamesWon       int `json:"games_won"`

	Avatar       string   `json:"avatar"`
	OwnedAvatars []string `json:"owned_avatars"` // append-only

	Achievements []UnlockedAchievement    `json:"achievements"` // append-only
	Quests       map[string]QuestProgress `json:"quests"`

	ActivityLog []ActivityEntry `json:"activity_log"` // append-only

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DefaultAvatar is granted to every new learner.
const DefaultAvatar = "🎒"

// StartingCredits seeds a new profile so the first mini-game is playable.
const StartingCredits = 3

// NewProfile creates a fresh profile for a learner.
func NewProfile(id string, now time.Time) LearnerProfile {
	return LearnerProfile{
		ID:            id,
		SchemaVersion: ProfileSchemaVersion,
		Level:         1,
		Rank:          "Rookie",
		Credits:       StartingCredits,
		Avatar:        DefaultAvatar,
		OwnedAvatars:  []string{DefaultAvatar},
		Quests:        map[string]QuestProgress{},
		CreatedAt:     now.UTC(),
		UpdatedAt:     now.UTC(),
	}
}

// HasAchievement reports whether the achievement id is already unlocked.
func (p LearnerProfile) HasAchievement(id string) bool {
	for _, a := range p.Achievements {
		if a.ID == id {
			return true
		}
	}
	return false
}

// OwnsAvatar reports whether the avatar id has been unlocked.
func (p LearnerProfile) OwnsAvatar(id string) bool {
	for _, a := range p.OwnedAvatars {
		if a == id {
			return true
		}
	}
	return false
}

// Accuracy returns lifetime answer accuracy in [0,1].
func (p LearnerProfile) Accuracy() float64 {
	if p.QuestionTotal == 0 {
		return 0
	}
	return float64(p.CorrectTotal) / float64(p.QuestionTotal)
}

// Stats snapshots the cumulative state fed to achievement predicates.
// Only monotone fields are exposed, so predicates can never unlock-then-revoke.
func (p LearnerProfile) Stats() LearnerStats {
	return LearnerStats{
		XP:                   p.XP,
		Level:                p.Level,
		QuizCount:            p.QuizCount,
		CorrectTotal:         p.CorrectTotal,
		PerfectQuizzes:       p.PerfectQuizzes,
		LongestDailyStreak:   p.LongestDailyStreak,
		LongestCorrectStreak: p.LongestCorrectStreak,
		LessonsViewed:        p.LessonsViewed,
		GamesWon:             p.GamesWon,
	}
}

// Clone returns a deep copy. The engine mutates the copy and hands it back
// only on success, which is what makes apply all-or-nothing.
func (p LearnerProfile) Clone() LearnerProfile {
	c := p
	c.OwnedAvatars = append([]string(nil), p.OwnedAvatars...)
	c.Achievements = append([]UnlockedAchievement(nil), p.Achievements...)
	c.ActivityLog = append([]ActivityEntry(nil), p.ActivityLog...)
	c.Quests = make(map[string]QuestProgress, len(p.Quests))
	for id, qp := range p.Quests {
		c.Quests[id] = qp
	}
	return c
}

// Validate checks the numeric invariants every persisted profile must hold.
func (p LearnerProfile) Validate() error {
	switch {
	case p.ID == "":
		return fmt.Errorf("%w: empty learner id", ErrProfileInvalid)
	case p.XP < 0:
		return fmt.Errorf("%w: negative xp %d", ErrProfileInvalid, p.XP)
	case p.Level < 1:
		return fmt.Errorf("%w: level %d below 1", ErrProfileInvalid, p.Level)
	case p.Coins < 0:
		return fmt.Errorf("%w: negative coins %d", ErrProfileInvalid, p.Coins)
	case p.Credits < 0:
		return fmt.Errorf("%w: negative credits %d", ErrProfileInvalid, p.Credits)
	case p.DailyStreak < 0 || p.CorrectStreak < 0:
		return fmt.Errorf("%w: negative streak counter", ErrProfileInvalid)
	case p.CorrectTotal > p.QuestionTotal:
		return fmt.Errorf("%w: correct total %d exceeds question total %d",
			ErrProfileInvalid, p.CorrectTotal, p.QuestionTotal)
	}

	seen := make(map[string]bool, len(p.Achievements))
	for _, a := range p.Achievements {
		if seen[a.ID] {
			return fmt.Errorf("%w: duplicate achievement %q", ErrProfileInvalid, a.ID)
		}
		seen[a.ID] = true
	}

	owned := make(map[string]bool, len(p.OwnedAvatars))
	for _, a := range p.OwnedAvatars {
		if owned[a] {
			return fmt.Errorf("%w: duplicate avatar %q", ErrProfileInvalid, a)
		}
		owned[a] = true
	}
	return nil
}

// LearnerStats is the monotone snapshot achievement predicates see.
type LearnerStats struct {
	XP                   int64 `json:"xp"`
	Level                int   `json:"level"`
	QuizCount            int   `json:"quiz_count"`
	CorrectTotal         int   `json:"correct_total"`
	PerfectQuizzes       int   `json:"perfect_quizzes"`
	LongestDailyStreak   int   `json:"longest_daily_streak"`
	LongestCorrectStreak int   `json:"longest_correct_streak"`
	LessonsViewed        int   `json:"lessons_viewed"`
	GamesWon             int   `json:"games_won"`
}

// ActivityEntry records one quiz-producing event for heatmaps and timelines.
// Append-only: the engine writes entries, nothing edits them afterwards.
type ActivityEntry struct {
	ID      string    `json:"id"`
	Date    time.Time `json:"date"` // midnight UTC
	Subject string    `json:"subject"`
	Chapter string    `json:"chapter"`
	Correct int       `json:"correct"`
	Total   int       `json:"total"`
	XP      int64     `json:"xp"`
}

// UnlockedAchievement records when an achievement was earned.
type UnlockedAchievement struct {
	ID         string    `json:"id"`
	UnlockedAt time.Time `json:"unlocked_at"`
}

// QuestProgress tracks one quest within its current period.
type QuestProgress struct {
	Count       int       `json:"count"`
	Completed   bool      `json:"completed"`
	PeriodStart time.Time `json:"period_start"` // midnight UTC of day / ISO-week Monday
}

// DateOf truncates a time to its UTC calendar day.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// WeekStartOf returns the UTC Monday that opens the ISO week containing t.
func WeekStartOf(t time.Time) time.Time {
	day := DateOf(t)
	offset := (int(day.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
	return day.AddDate(0, 0, -offset)
}
