package progression

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/codexa-learn/codexa/internal/catalog"
	"github.com/codexa-learn/codexa/internal/domain"
	"github.com/codexa-learn/codexa/internal/infra/sqlite"
)

// Notifier turns progression results into celebration messages.
// Policy keeps them gentle: a daily cap per learner, nothing during
// quiet hours. Streak-at-risk style nagging is deliberately absent.
type Notifier struct {
	db     *sqlite.DB
	policy domain.NotificationPolicy
}

// NewNotifier creates a notifier with the default policy.
func NewNotifier(db *sqlite.DB) *Notifier {
	return &Notifier{db: db, policy: domain.DefaultNotificationPolicy()}
}

// NewNotifierWithPolicy creates a notifier with a custom policy.
func NewNotifierWithPolicy(db *sqlite.DB, policy domain.NotificationPolicy) *Notifier {
	return &Notifier{db: db, policy: policy}
}

// RecordResult queues messages for level-ups, quest completions, and
// achievement unlocks found in an apply result. Suppressed messages are
// dropped silently; persistence errors are returned.
func (n *Notifier) RecordResult(learnerID string, res domain.Result, c *catalog.Catalogs, now time.Time) error {
	if res.LevelUp {
		err := n.create(domain.Notification{
			LearnerID: learnerID,
			Type:      domain.NotifyLevelUp,
			Title:     fmt.Sprintf("Level %d!", res.Level),
			Body:      fmt.Sprintf("You reached level %d — rank %s.", res.Level, res.Rank),
		}, now)
		if err != nil {
			return err
		}
	}
	for _, id := range res.CompletedQuests {
		err := n.create(domain.Notification{
			LearnerID: learnerID,
			Type:      domain.NotifyQuestComplete,
			Title:     "Quest complete",
			Body:      fmt.Sprintf("%s is done. Rewards added.", questName(c, id)),
		}, now)
		if err != nil {
			return err
		}
	}
	for _, id := range res.UnlockedAchievements {
		err := n.create(domain.Notification{
			LearnerID: learnerID,
			Type:      domain.NotifyAchievement,
			Title:     "Achievement unlocked",
			Body:      fmt.Sprintf("You earned %s.", achievementName(c, id)),
		}, now)
		if err != nil {
			return err
		}
	}
	return nil
}

// Pending returns unshown notifications for a learner.
func (n *Notifier) Pending(learnerID string, limit int) ([]domain.Notification, error) {
	return n.db.ListPendingNotifications(learnerID, limit)
}

// MarkShown marks a notification as shown.
func (n *Notifier) MarkShown(id int64) error {
	return n.db.MarkNotificationShown(id)
}

// create persists a notification if policy allows it.
func (n *Notifier) create(notif domain.Notification, now time.Time) error {
	dayStart := domain.DateOf(now)
	count, err := n.db.NotificationCountSince(notif.LearnerID, dayStart)
	if err != nil {
		return fmt.Errorf("count today: %w", err)
	}
	if count >= n.policy.MaxPerDay {
		return nil // daily cap reached
	}
	if n.isQuietHour(now) {
		return nil
	}

	notif.CreatedAt = now
	notif.Shown = false
	_, err = n.db.InsertNotification(notif)
	return err
}

// isQuietHour reports whether t falls within the quiet window.
func (n *Notifier) isQuietHour(t time.Time) bool {
	startHour, startMin := parseHHMM(n.policy.QuietStart)
	endHour, endMin := parseHHMM(n.policy.QuietEnd)

	minutes := t.Hour()*60 + t.Minute()
	start := startHour*60 + startMin
	end := endHour*60 + endMin

	if start > end {
		// Wraps midnight, e.g. 22:00 – 07:00
		return minutes >= start || minutes < end
	}
	return minutes >= start && minutes < end
}

func questName(c *catalog.Catalogs, id string) string {
	if def, err := c.Quests.ByID(id); err == nil {
		return def.Name
	}
	return id
}

func achievementName(c *catalog.Catalogs, id string) string {
	if def, err := c.Achievements.ByID(id); err == nil {
		return fmt.Sprintf("%s %s", def.Icon, def.Name)
	}
	return id
}

// parseHHMM parses "HH:MM" into hour and minute.
func parseHHMM(s string) (int, int) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, 0
	}
	h, _ := strconv.Atoi(parts[0])
	m, _ := strconv.Atoi(parts[1])
	return h, m
}
