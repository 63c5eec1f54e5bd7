package domain

import "time"

// ─── Notification Types ─────────────────────────────────────────────────────

// NotificationType categorizes learner-facing messages.
type NotificationType string

const (
	NotifyAchievement   NotificationType = "achievement"
	NotifyLevelUp       NotificationType = "level_up"
	NotifyQuestComplete NotificationType = "quest_complete"
	NotifyStreak        NotificationType = "streak"
)

// Notification is a message queued for the presentation layer.
type Notification struct {
	ID        int64            `json:"id"`
	LearnerID string           `json:"learner_id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Body      string           `json:"body"`
	CreatedAt time.Time        `json:"created_at"`
	Shown     bool             `json:"shown"`
}

// NotificationPolicy caps how often the app nags a learner.
type NotificationPolicy struct {
	MaxPerDay  int    `json:"max_per_day"`
	QuietStart string `json:"quiet_start"` // "22:00"
	QuietEnd   string `json:"quiet_end"`   // "07:00"
}

// DefaultNotificationPolicy keeps celebration messages gentle:
// a handful per day, none late at night.
func DefaultNotificationPolicy() NotificationPolicy {
	return NotificationPolicy{
		MaxPerDay:  5,
		QuietStart: "22:00",
		QuietEnd:   "07:00",
	}
}
