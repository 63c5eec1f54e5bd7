package catalog

import (
	"fmt"

	"github.com/codexa-learn/codexa/internal/domain"
)

// QuestCatalog is a read-only lookup over the quest definitions.
type QuestCatalog struct {
	defs []domain.QuestDef
	byID map[string]domain.QuestDef
}

// NewQuestCatalog returns the built-in daily and weekly quests.
func NewQuestCatalog() *QuestCatalog {
	return newQuestCatalog(builtinQuests())
}

func newQuestCatalog(defs []domain.QuestDef) *QuestCatalog {
	byID := make(map[string]domain.QuestDef, len(defs))
	for _, d := range defs {
		byID[d.ID] = d
	}
	return &QuestCatalog{defs: defs, byID: byID}
}

// Definitions returns every quest in catalog order.
func (c *QuestCatalog) Definitions() []domain.QuestDef {
	return c.defs
}

// ByID looks up a quest definition.
func (c *QuestCatalog) ByID(id string) (domain.QuestDef, error) {
	d, ok := c.byID[id]
	if !ok {
		return domain.QuestDef{}, fmt.Errorf("%w: quest %q", domain.ErrUnknownCatalogID, id)
	}
	return d, nil
}

func (c *QuestCatalog) validate() error {
	ids := make([]string, len(c.defs))
	for i, d := range c.defs {
		ids[i] = d.ID
		if d.Target <= 0 {
			return fmt.Errorf("%w: quest %q target %d", domain.ErrCatalogInvalid, d.ID, d.Target)
		}
		if d.Period != domain.PeriodDaily && d.Period != domain.PeriodWeekly {
			return fmt.Errorf("%w: quest %q period %q", domain.ErrCatalogInvalid, d.ID, d.Period)
		}
		if d.Progress == nil {
			return fmt.Errorf("%w: quest %q has no progress predicate", domain.ErrCatalogInvalid, d.ID)
		}
	}
	return checkUnique(ids)
}

// builtinQuests returns the quest book: two daily, two weekly objectives.
// Each predicate maps one outcome event to a progress increment.
func builtinQuests() []domain.QuestDef {
	return []domain.QuestDef{
		{
			ID: "q_daily_quiz", Name: "Daily Quizzer",
			Description: "Complete 1 quiz today",
			Period:      domain.PeriodDaily, Target: 1,
			RewardXP: 20, RewardCoins: 5,
			Progress: func(ev domain.Event) int {
				if _, ok := ev.(domain.QuizCompleted); ok {
					return 1
				}
				return 0
			},
		},
		{
			ID: "q_daily_correct", Name: "Sharp Mind",
			Description: "Get 5 correct answers today",
			Period:      domain.PeriodDaily, Target: 5,
			RewardXP: 20, RewardCoins: 5,
			Progress: func(ev domain.Event) int {
				if q, ok := ev.(domain.QuizCompleted); ok {
					return q.CorrectAnswers
				}
				return 0
			},
		},
		{
			ID: "q_weekly_quizzes", Name: "Weekly Warrior",
			Description: "Complete 10 quizzes this week",
			Period:      domain.PeriodWeekly, Target: 10,
			RewardXP: 100, RewardCoins: 25,
			Progress: func(ev domain.Event) int {
				if _, ok := ev.(domain.QuizCompleted); ok {
					return 1
				}
				return 0
			},
		},
		{
			ID: "q_weekly_accuracy", Name: "Precision",
			Description: "Achieve 80%+ in 3 quizzes this week",
			Period:      domain.PeriodWeekly, Target: 3,
			RewardXP: 100, RewardCoins: 25,
			Progress: func(ev domain.Event) int {
				if q, ok := ev.(domain.QuizCompleted); ok && q.Passed() {
					return 1
				}
				return 0
			},
		},
	}
}
