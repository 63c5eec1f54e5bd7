package domain

import (
	"fmt"
	"time"
)

// EventKind tags the closed set of outcome event variants.
type EventKind string

const (
	EventQuizCompleted       EventKind = "quiz_completed"
	EventLessonViewed        EventKind = "lesson_viewed"
	EventGamePlayed          EventKind = "game_played"
	EventAvatarPurchased     EventKind = "avatar_purchased"
	EventCreditPackPurchased EventKind = "credit_pack_purchased"
)

// Event is one outcome collected by the presentation layer.
// Validate covers field-level constraints only; funds and catalog checks
// need profile and catalog state and belong to the engine.
type Event interface {
	Kind() EventKind
	At() time.Time
	Validate() error
}

// Difficulty scales quiz XP. The empty string means standard.
type Difficulty string

const (
	DifficultyEasy     Difficulty = "easy"
	DifficultyStandard Difficulty = ""
	DifficultyHard     Difficulty = "hard"
)

// QuizCompleted reports a finished quiz run through the Doodle Map.
type QuizCompleted struct {
	Subject        string     `json:"subject"`
	Chapter        string     `json:"chapter"`
	TotalQuestions int        `json:"total_questions"`
	CorrectAnswers int        `json:"correct_answers"`
	// Answers lists per-question correctness in the order answered.
	// Optional; when present it is the source of truth for the
	// correct-answer streak, which resets on the first wrong answer.
	Answers    []bool     `json:"answers,omitempty"`
	Difficulty Difficulty `json:"difficulty,omitempty"`
	OccurredAt time.Time  `json:"occurred_at"`
}

func (e QuizCompleted) Kind() EventKind { return EventQuizCompleted }
func (e QuizCompleted) At() time.Time   { return e.OccurredAt }

func (e QuizCompleted) Validate() error {
	switch {
	case e.TotalQuestions <= 0:
		return fmt.Errorf("%w: quiz must have at least one question, got %d",
			ErrInvalidEvent, e.TotalQuestions)
	case e.CorrectAnswers < 0:
		return fmt.Errorf("%w: negative correct answers %d", ErrInvalidEvent, e.CorrectAnswers)
	case e.CorrectAnswers > e.TotalQuestions:
		return fmt.Errorf("%w: correct answers %d exceed total questions %d",
			ErrInvalidEvent, e.CorrectAnswers, e.TotalQuestions)
	case e.OccurredAt.IsZero():
		return fmt.Errorf("%w: missing event timestamp", ErrInvalidEvent)
	}
	switch e.Difficulty {
	case DifficultyEasy, DifficultyStandard, DifficultyHard:
	default:
		return fmt.Errorf("%w: unknown difficulty %q", ErrInvalidEvent, e.Difficulty)
	}
	if e.Answers != nil {
		if len(e.Answers) != e.TotalQuestions {
			return fmt.Errorf("%w: %d answers for %d questions",
				ErrInvalidEvent, len(e.Answers), e.TotalQuestions)
		}
		correct := 0
		for _, ok := range e.Answers {
			if ok {
				correct++
			}
		}
		if correct != e.CorrectAnswers {
			return fmt.Errorf("%w: answers list has %d correct, event claims %d",
				ErrInvalidEvent, correct, e.CorrectAnswers)
		}
	}
	return nil
}

// Accuracy returns the fraction of correct answers in [0,1].
func (e QuizCompleted) Accuracy() float64 {
	return float64(e.CorrectAnswers) / float64(e.TotalQuestions)
}

// Passed reports whether this quiz clears the Doodle Map gate.
func (e QuizCompleted) Passed() bool {
	return e.Accuracy() >= PassThreshold
}

// LessonViewed reports that a generated lesson part was read to the end.
type LessonViewed struct {
	Subject    string    `json:"subject"`
	Chapter    string    `json:"chapter"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (e LessonViewed) Kind() EventKind { return EventLessonViewed }
func (e LessonViewed) At() time.Time   { return e.OccurredAt }

func (e LessonViewed) Validate() error {
	if e.Subject == "" || e.Chapter == "" {
		return fmt.Errorf("%w: lesson view needs subject and chapter", ErrInvalidEvent)
	}
	if e.OccurredAt.IsZero() {
		return fmt.Errorf("%w: missing event timestamp", ErrInvalidEvent)
	}
	return nil
}

// GamePlayed reports one round of a credit-gated mini-game.
type GamePlayed struct {
	GameID       string    `json:"game_id"`
	CreditsSpent int64     `json:"credits_spent"`
	XPEarned     int64     `json:"xp_earned"`
	Won          bool      `json:"won"`
	OccurredAt   time.Time `json:"occurred_at"`
}

func (e GamePlayed) Kind() EventKind { return EventGamePlayed }
func (e GamePlayed) At() time.Time   { return e.OccurredAt }

func (e GamePlayed) Validate() error {
	switch {
	case e.GameID == "":
		return fmt.Errorf("%w: missing game id", ErrInvalidEvent)
	case e.CreditsSpent < 0:
		return fmt.Errorf("%w: negative credits spent %d", ErrInvalidEvent, e.CreditsSpent)
	case e.XPEarned < 0:
		return fmt.Errorf("%w: negative xp earned %d", ErrInvalidEvent, e.XPEarned)
	case e.OccurredAt.IsZero():
		return fmt.Errorf("%w: missing event timestamp", ErrInvalidEvent)
	}
	return nil
}

// AvatarPurchased reports a shop purchase of a doodle avatar with coins.
// Cost must match the shop catalog; a mismatch means a stale client.
type AvatarPurchased struct {
	AvatarID   string    `json:"avatar_id"`
	Cost       int64     `json:"cost"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (e AvatarPurchased) Kind() EventKind { return EventAvatarPurchased }
func (e AvatarPurchased) At() time.Time   { return e.OccurredAt }

func (e AvatarPurchased) Validate() error {
	switch {
	case e.AvatarID == "":
		return fmt.Errorf("%w: missing avatar id", ErrInvalidEvent)
	case e.Cost < 0:
		return fmt.Errorf("%w: negative cost %d", ErrInvalidEvent, e.Cost)
	case e.OccurredAt.IsZero():
		return fmt.Errorf("%w: missing event timestamp", ErrInvalidEvent)
	}
	return nil
}

// CreditPackPurchased reports converting coins into game credits.
type CreditPackPurchased struct {
	PackID         string    `json:"pack_id"`
	CreditsGranted int64     `json:"credits_granted"`
	CoinsSpent     int64     `json:"coins_spent"`
	OccurredAt     time.Time `json:"occurred_at"`
}

func (e CreditPackPurchased) Kind() EventKind { return EventCreditPackPurchased }
func (e CreditPackPurchased) At() time.Time   { return e.OccurredAt }

func (e CreditPackPurchased) Validate() error {
	switch {
	case e.PackID == "":
		return fmt.Errorf("%w: missing pack id", ErrInvalidEvent)
	case e.CreditsGranted <= 0:
		return fmt.Errorf("%w: credit pack must grant credits, got %d",
			ErrInvalidEvent, e.CreditsGranted)
	case e.CoinsSpent < 0:
		return fmt.Errorf("%w: negative coins spent %d", ErrInvalidEvent, e.CoinsSpent)
	case e.OccurredAt.IsZero():
		return fmt.Errorf("%w: missing event timestamp", ErrInvalidEvent)
	}
	return nil
}
