package domain

import "time"

// QuestPeriod bounds a quest to a calendar day or ISO week.
type QuestPeriod string

const (
	PeriodDaily  QuestPeriod = "daily"
	PeriodWeekly QuestPeriod = "weekly"
)

// PeriodStart returns the start of the period containing t.
func (p QuestPeriod) PeriodStart(t time.Time) time.Time {
	if p == PeriodWeekly {
		return WeekStartOf(t)
	}
	return DateOf(t)
}

// QuestDef defines one daily or weekly objective.
// Static: loaded once at startup, never mutated at runtime.
type QuestDef struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Period      QuestPeriod `json:"period"`
	Target      int         `json:"target"`
	RewardXP    int64       `json:"reward_xp"`
	RewardCoins int64       `json:"reward_coins"`

	// Progress returns how far one event advances this quest (0 = no match).
	Progress func(Event) int `json:"-"`
}

// AchievementDef defines a permanent unlockable badge.
// Unlock predicates read only the monotone LearnerStats snapshot, so a
// badge can never unlock and later revoke — required for idempotent replay.
type AchievementDef struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	RewardXP    int64  `json:"reward_xp"`

	Unlock func(LearnerStats) bool `json:"-"`
}

// ShopItemKind separates avatar unlocks from credit packs.
type ShopItemKind string

const (
	ShopAvatar     ShopItemKind = "avatar"
	ShopCreditPack ShopItemKind = "credit_pack"
)

// ShopItem is one purchasable entry in the coin shop.
type ShopItem struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Kind      ShopItemKind `json:"kind"`
	CostCoins int64        `json:"cost_coins"`
	Avatar    string       `json:"avatar,omitempty"`  // ShopAvatar only
	Credits   int64        `json:"credits,omitempty"` // ShopCreditPack only
}
