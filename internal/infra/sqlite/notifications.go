package sqlite

import (
	"fmt"
	"time"

	"github.com/codexa-learn/codexa/internal/domain"
)

// ─── Notifications ──────────────────────────────────────────────────────────

// InsertNotification creates a new notification and returns its id.
func (d *DB) InsertNotification(n domain.Notification) (int64, error) {
	result, err := d.db.Exec(
		`INSERT INTO notifications (learner_id, type, title, body, created_at, shown)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		n.LearnerID, string(n.Type), n.Title, n.Body, n.CreatedAt.Unix(), n.Shown,
	)
	if err != nil {
		return 0, fmt.Errorf("insert notification: %w", err)
	}
	return result.LastInsertId()
}

// ListPendingNotifications returns unshown notifications for a learner,
// oldest first.
func (d *DB) ListPendingNotifications(learnerID string, limit int) ([]domain.Notification, error) {
	rows, err := d.db.Query(
		`SELECT id, learner_id, type, title, body, created_at, shown
		 FROM notifications
		 WHERE learner_id = ? AND shown = 0
		 ORDER BY created_at ASC LIMIT ?`,
		learnerID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Notification
	for rows.Next() {
		var (
			n  domain.Notification
			ty string
			ts int64
		)
		if err := rows.Scan(&n.ID, &n.LearnerID, &ty, &n.Title, &n.Body, &ts, &n.Shown); err != nil {
			return nil, err
		}
		n.Type = domain.NotificationType(ty)
		n.CreatedAt = time.Unix(ts, 0).UTC()
		out = append(out, n)
	}
	return out, rows.Err()
}

// MarkNotificationShown marks one notification as shown.
func (d *DB) MarkNotificationShown(id int64) error {
	_, err := d.db.Exec(`UPDATE notifications SET shown = 1 WHERE id = ?`, id)
	return err
}

// NotificationCountSince counts a learner's notifications created at or
// after the given time. Used for the daily cap.
func (d *DB) NotificationCountSince(learnerID string, since time.Time) (int, error) {
	var count int
	err := d.db.QueryRow(
		`SELECT COUNT(*) FROM notifications WHERE learner_id = ? AND created_at >= ?`,
		learnerID, since.Unix(),
	).Scan(&count)
	return count, err
}
