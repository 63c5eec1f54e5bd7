// Package progression implements the Codexa progression engine: the pure
// bookkeeping core that turns quiz, lesson, game, and shop outcomes into
// XP, levels, coins, credits, streaks, quests, and achievements.
//
// The engine is stateless between calls — a function of
// (profile, event, catalogs, rules) → (profile', result). It performs no
// I/O and no locking; callers own the load → apply → save cycle and any
// per-learner mutual exclusion around it.
package progression

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/codexa-learn/codexa/internal/catalog"
	"github.com/codexa-learn/codexa/internal/domain"
)

// Engine applies outcome events to learner profiles.
type Engine struct {
	catalogs *catalog.Catalogs
	rules    Rules
}

// NewEngine creates an engine over validated catalogs and rules.
func NewEngine(c *catalog.Catalogs, rules Rules) (*Engine, error) {
	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("progression rules: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &Engine{catalogs: c, rules: rules}, nil
}

// Rules returns the engine's resolved reward tables.
func (e *Engine) Rules() Rules { return e.rules }

// Apply validates an outcome event against the profile, then applies it.
// All-or-nothing: on any error the input profile is returned unchanged.
// The returned profile is a new value; the caller persists it.
func (e *Engine) Apply(p domain.LearnerProfile, ev domain.Event) (domain.LearnerProfile, domain.Result, error) {
	if ev == nil {
		return p, domain.Result{}, fmt.Errorf("%w: nil event", domain.ErrInvalidEvent)
	}
	if err := ev.Validate(); err != nil {
		return p, domain.Result{}, err
	}

	next := p.Clone()
	res := domain.Result{Kind: ev.Kind()}

	var err error
	switch ev := ev.(type) {
	case domain.QuizCompleted:
		e.applyQuiz(&next, &res, ev)
	case domain.LessonViewed:
		e.applyLesson(&next, ev)
	case domain.GamePlayed:
		err = e.applyGame(&next, ev)
	case domain.AvatarPurchased:
		err = e.applyAvatarPurchase(&next, ev)
	case domain.CreditPackPurchased:
		err = e.applyCreditPack(&next, ev)
	default:
		err = fmt.Errorf("%w: unhandled event kind %q", domain.ErrInvalidEvent, ev.Kind())
	}
	if err != nil {
		return p, domain.Result{}, err
	}

	if qualifiesForDailyStreak(ev.Kind()) {
		touchDailyStreak(&next, ev.At())
	}

	e.applyQuests(&next, &res, ev)
	e.applyAchievements(&next, &res, ev.At())

	// Level and rank are re-derived from XP, never incremented.
	next.Level = e.rules.LevelForXP(next.XP)
	next.Rank = e.rules.RankForLevel(next.Level)
	next.UpdatedAt = ev.At().UTC()

	res.XPDelta = next.XP - p.XP
	res.CoinsDelta = next.Coins - p.Coins
	res.CreditsDelta = next.Credits - p.Credits
	res.Level = next.Level
	res.LevelUp = next.Level > p.Level
	res.Rank = next.Rank
	res.DailyStreak = next.DailyStreak
	res.CorrectStreak = next.CorrectStreak

	if err := next.Validate(); err != nil {
		// An invariant breach here is an engine bug, not caller input.
		return p, domain.Result{}, err
	}
	return next, res, nil
}

// ─── Event handlers ─────────────────────────────────────────────────────────

func (e *Engine) applyQuiz(p *domain.LearnerProfile, res *domain.Result, ev domain.QuizCompleted) {
	base := float64(e.rules.XPPerCorrect*int64(ev.CorrectAnswers)) * e.rules.multiplier(ev.Difficulty)
	earned := int64(math.Round(base))

	accuracy := ev.Accuracy()
	passed := ev.Passed()
	perfect := ev.CorrectAnswers == ev.TotalQuestions

	if passed {
		earned += e.rules.PassBonusXP
		p.Coins += e.rules.PassBonusCoins
		p.Credits += e.rules.PassBonusCredits
	}
	if perfect {
		p.Credits += e.rules.PerfectBonusCredits
	}

	p.XP += earned
	p.QuizCount++
	p.QuestionTotal += ev.TotalQuestions
	p.CorrectTotal += ev.CorrectAnswers
	if perfect {
		p.PerfectQuizzes++
	}

	updateCorrectStreak(p, ev)

	entry := domain.ActivityEntry{
		ID:      uuid.New().String(),
		Date:    domain.DateOf(ev.OccurredAt),
		Subject: ev.Subject,
		Chapter: ev.Chapter,
		Correct: ev.CorrectAnswers,
		Total:   ev.TotalQuestions,
		XP:      earned,
	}
	p.ActivityLog = append(p.ActivityLog, entry)

	res.Accuracy = accuracy
	res.Passed = passed
	res.Activity = &entry
}

func (e *Engine) applyLesson(p *domain.LearnerProfile, ev domain.LessonViewed) {
	p.LessonsViewed++
	p.XP += e.rules.LessonXP
}

func (e *Engine) applyGame(p *domain.LearnerProfile, ev domain.GamePlayed) error {
	if ev.XPEarned > e.rules.MaxGameXP {
		return fmt.Errorf("%w: game xp %d exceeds cap %d",
			domain.ErrInvalidEvent, ev.XPEarned, e.rules.MaxGameXP)
	}
	if ev.CreditsSpent > p.Credits {
		return fmt.Errorf("%w: game costs %d credits, balance is %d",
			domain.ErrInsufficientFunds, ev.CreditsSpent, p.Credits)
	}

	p.Credits -= ev.CreditsSpent
	p.GamesPlayed++
	if ev.Won {
		p.GamesWon++
		p.XP += ev.XPEarned
		if e.rules.GameWinRefund {
			p.Credits += ev.CreditsSpent
		}
	}
	return nil
}

func (e *Engine) applyAvatarPurchase(p *domain.LearnerProfile, ev domain.AvatarPurchased) error {
	item, err := e.catalogs.Shop.ByID(ev.AvatarID)
	if err != nil {
		return err
	}
	if item.Kind != domain.ShopAvatar {
		return fmt.Errorf("%w: %q is not an avatar", domain.ErrInvalidEvent, ev.AvatarID)
	}
	if ev.Cost != item.CostCoins {
		return fmt.Errorf("%w: avatar %q costs %d coins, event claims %d",
			domain.ErrInvalidEvent, ev.AvatarID, item.CostCoins, ev.Cost)
	}
	if p.OwnsAvatar(item.Avatar) {
		return fmt.Errorf("%w: %q", domain.ErrAlreadyOwned, item.Avatar)
	}
	if item.CostCoins > p.Coins {
		return fmt.Errorf("%w: avatar costs %d coins, balance is %d",
			domain.ErrInsufficientFunds, item.CostCoins, p.Coins)
	}

	p.Coins -= item.CostCoins
	p.OwnedAvatars = append(p.OwnedAvatars, item.Avatar)
	return nil
}

func (e *Engine) applyCreditPack(p *domain.LearnerProfile, ev domain.CreditPackPurchased) error {
	item, err := e.catalogs.Shop.ByID(ev.PackID)
	if err != nil {
		return err
	}
	if item.Kind != domain.ShopCreditPack {
		return fmt.Errorf("%w: %q is not a credit pack", domain.ErrInvalidEvent, ev.PackID)
	}
	if ev.CoinsSpent != item.CostCoins || ev.CreditsGranted != item.Credits {
		return fmt.Errorf("%w: pack %q is %d credits for %d coins, event claims %d for %d",
			domain.ErrInvalidEvent, ev.PackID, item.Credits, item.CostCoins,
			ev.CreditsGranted, ev.CoinsSpent)
	}
	if item.CostCoins > p.Coins {
		return fmt.Errorf("%w: pack costs %d coins, balance is %d",
			domain.ErrInsufficientFunds, item.CostCoins, p.Coins)
	}

	p.Coins -= item.CostCoins
	p.Credits += item.Credits
	return nil
}

// ─── Streaks ────────────────────────────────────────────────────────────────

// qualifiesForDailyStreak: learning activity keeps a streak alive,
// shop purchases do not.
func qualifiesForDailyStreak(kind domain.EventKind) bool {
	switch kind {
	case domain.EventQuizCompleted, domain.EventLessonViewed, domain.EventGamePlayed:
		return true
	}
	return false
}

// touchDailyStreak advances the calendar streak for an event at t.
// Same day: no-op. Exactly one day later: extend. Anything else: reset to 1.
func touchDailyStreak(p *domain.LearnerProfile, t time.Time) {
	today := domain.DateOf(t)

	switch {
	case p.LastActiveDate.IsZero():
		p.DailyStreak = 1
	case today.Equal(p.LastActiveDate):
		return // already counted today
	case today.Equal(p.LastActiveDate.AddDate(0, 0, 1)):
		p.DailyStreak++
	default:
		p.DailyStreak = 1
	}

	p.LastActiveDate = today
	if p.DailyStreak > p.LongestDailyStreak {
		p.LongestDailyStreak = p.DailyStreak
	}
}

// updateCorrectStreak replays the quiz's ordered answers: each correct
// answer extends the streak, the first wrong one resets it to zero.
// Without an answer list the wrong answers are assumed to come first,
// which leaves the streak at the number of correct answers.
func updateCorrectStreak(p *domain.LearnerProfile, ev domain.QuizCompleted) {
	answers := ev.Answers
	if answers == nil {
		answers = make([]bool, 0, ev.TotalQuestions)
		for i := 0; i < ev.TotalQuestions-ev.CorrectAnswers; i++ {
			answers = append(answers, false)
		}
		for i := 0; i < ev.CorrectAnswers; i++ {
			answers = append(answers, true)
		}
	}

	for _, correct := range answers {
		if correct {
			p.CorrectStreak++
			if p.CorrectStreak > p.LongestCorrectStreak {
				p.LongestCorrectStreak = p.CorrectStreak
			}
		} else {
			p.CorrectStreak = 0
		}
	}
}

// ─── Quests ─────────────────────────────────────────────────────────────────

// applyQuests advances every quest whose period covers the event.
// Stale progress from a previous day or week is reset before counting.
// Completion pays out exactly once per period: a completed quest ignores
// further matching events until its period rolls over.
func (e *Engine) applyQuests(p *domain.LearnerProfile, res *domain.Result, ev domain.Event) {
	for _, def := range e.catalogs.Quests.Definitions() {
		start := def.Period.PeriodStart(ev.At())
		prog := p.Quests[def.ID]
		if !prog.PeriodStart.Equal(start) {
			prog = domain.QuestProgress{PeriodStart: start}
		}

		if inc := def.Progress(ev); inc > 0 && !prog.Completed {
			prog.Count += inc
			if prog.Count >= def.Target {
				prog.Count = def.Target
				prog.Completed = true
				p.XP += def.RewardXP
				p.Coins += def.RewardCoins
				res.CompletedQuests = append(res.CompletedQuests, def.ID)
			}
		}
		p.Quests[def.ID] = prog
	}
}

// ─── Achievements ───────────────────────────────────────────────────────────

// applyAchievements unlocks every badge whose predicate now holds.
// Passes repeat because a badge's XP reward can raise the level past
// another badge's cutoff; predicates are monotone so this terminates.
func (e *Engine) applyAchievements(p *domain.LearnerProfile, res *domain.Result, at time.Time) {
	for range e.catalogs.Achievements.Definitions() {
		p.Level = e.rules.LevelForXP(p.XP)
		stats := p.Stats()

		unlocked := false
		for _, def := range e.catalogs.Achievements.Definitions() {
			if p.HasAchievement(def.ID) {
				continue
			}
			if def.Unlock(stats) {
				p.Achievements = append(p.Achievements, domain.UnlockedAchievement{
					ID:         def.ID,
					UnlockedAt: at.UTC(),
				})
				p.XP += def.RewardXP
				res.UnlockedAchievements = append(res.UnlockedAchievements, def.ID)
				unlocked = true
			}
		}
		if !unlocked {
			return
		}
	}
}
