package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/codexa-learn/codexa/internal/domain"
)

// ─── Profile Store ──────────────────────────────────────────────────────────
// Profiles persist as one versioned JSON document per learner, with
// schema_version both as a column and inside the payload. Loading runs
// payload migrations so reward-table changes never corrupt streak or
// achievement history.

// LoadProfile returns the stored profile for a learner.
func (d *DB) LoadProfile(learnerID string) (domain.LearnerProfile, error) {
	var (
		payload string
		version int
	)
	err := d.db.QueryRow(
		`SELECT payload, schema_version FROM profiles WHERE learner_id = ?`, learnerID,
	).Scan(&payload, &version)
	if err == sql.ErrNoRows {
		return domain.LearnerProfile{}, fmt.Errorf("%w: %q", domain.ErrProfileNotFound, learnerID)
	}
	if err != nil {
		return domain.LearnerProfile{}, fmt.Errorf("load profile: %w", err)
	}

	var p domain.LearnerProfile
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return domain.LearnerProfile{}, fmt.Errorf("decode profile %q: %w", learnerID, err)
	}

	p, err = migrateProfile(p, version)
	if err != nil {
		return domain.LearnerProfile{}, err
	}
	if err := p.Validate(); err != nil {
		return domain.LearnerProfile{}, err
	}
	return p, nil
}

// SaveProfile upserts the whole record atomically.
func (d *DB) SaveProfile(p domain.LearnerProfile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	p.SchemaVersion = domain.ProfileSchemaVersion

	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode profile %q: %w", p.ID, err)
	}

	_, err = d.db.Exec(
		`INSERT INTO profiles (learner_id, schema_version, payload, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(learner_id) DO UPDATE SET
		   schema_version=excluded.schema_version,
		   payload=excluded.payload,
		   updated_at=excluded.updated_at`,
		p.ID, p.SchemaVersion, string(payload), p.UpdatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("save profile %q: %w", p.ID, err)
	}
	return nil
}

// ListLearners returns every stored learner id.
func (d *DB) ListLearners() ([]string, error) {
	rows, err := d.db.Query(`SELECT learner_id FROM profiles ORDER BY learner_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// migrateProfile upgrades older payloads to the current schema.
// Version 0 predates explicit schema versioning; it only needs the
// version stamp and a quest map.
func migrateProfile(p domain.LearnerProfile, version int) (domain.LearnerProfile, error) {
	if version > domain.ProfileSchemaVersion {
		return p, fmt.Errorf("profile %q has schema v%d, this build understands up to v%d",
			p.ID, version, domain.ProfileSchemaVersion)
	}
	if version < 1 {
		if p.Quests == nil {
			p.Quests = map[string]domain.QuestProgress{}
		}
		if p.Rank == "" {
			p.Rank = "Rookie"
		}
	}
	p.SchemaVersion = domain.ProfileSchemaVersion
	if p.Quests == nil {
		p.Quests = map[string]domain.QuestProgress{}
	}
	return p, nil
}

// ─── Activity Log ───────────────────────────────────────────────────────────

// AppendActivity mirrors one activity entry into the analytics table.
// Inserts are keyed by entry id, so replaying a save is a no-op.
func (d *DB) AppendActivity(learnerID string, entry domain.ActivityEntry) error {
	_, err := d.db.Exec(
		`INSERT OR IGNORE INTO activity_log (id, learner_id, date, subject, chapter, correct, total, xp)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, learnerID, entry.Date.Unix(), entry.Subject, entry.Chapter,
		entry.Correct, entry.Total, entry.XP,
	)
	if err != nil {
		return fmt.Errorf("append activity: %w", err)
	}
	return nil
}

// DailyActivity is one aggregated heatmap cell.
type DailyActivity struct {
	Date      time.Time `json:"date"`
	Quizzes   int       `json:"quizzes"`
	Correct   int       `json:"correct"`
	Questions int       `json:"questions"`
	XP        int64     `json:"xp"`
}

// ActivitySummary aggregates per-day activity for the last n days,
// oldest first. Feeds the heatmap and progress-over-time views.
func (d *DB) ActivitySummary(learnerID string, days int, now time.Time) ([]DailyActivity, error) {
	since := domain.DateOf(now).AddDate(0, 0, -days)
	rows, err := d.db.Query(
		`SELECT date, COUNT(*), SUM(correct), SUM(total), SUM(xp)
		 FROM activity_log
		 WHERE learner_id = ? AND date >= ?
		 GROUP BY date ORDER BY date ASC`,
		learnerID, since.Unix(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DailyActivity
	for rows.Next() {
		var (
			a  DailyActivity
			ts int64
		)
		if err := rows.Scan(&ts, &a.Quizzes, &a.Correct, &a.Questions, &a.XP); err != nil {
			return nil, err
		}
		a.Date = time.Unix(ts, 0).UTC()
		out = append(out, a)
	}
	return out, rows.Err()
}
