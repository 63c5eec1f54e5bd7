package sqlite

import (
	"errors"
	"testing"
	"time"

	"github.com/codexa-learn/codexa/internal/domain"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

var testNow = time.Date(2025, 7, 1, 8, 0, 0, 0, time.UTC)

// ═══════════════════════════════════════════════════════════════════════════
// Profiles
// ═══════════════════════════════════════════════════════════════════════════

func TestProfileRoundTrip(t *testing.T) {
	db := testDB(t)

	p := domain.NewProfile("learner-1", testNow)
	p.XP = 340
	p.Level = 3
	p.Rank = "Apprentice"
	p.Coins = 25
	p.DailyStreak = 4
	p.OwnedAvatars = append(p.OwnedAvatars, "🦉")
	p.Quests["q_daily_quiz"] = domain.QuestProgress{
		Count: 1, Completed: true, PeriodStart: domain.DateOf(testNow),
	}

	if err := db.SaveProfile(p); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := db.LoadProfile("learner-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if got.XP != 340 || got.Level != 3 || got.Coins != 25 {
		t.Errorf("loaded %d xp / level %d / %d coins, want 340/3/25", got.XP, got.Level, got.Coins)
	}
	if len(got.OwnedAvatars) != 2 {
		t.Errorf("owned avatars = %v", got.OwnedAvatars)
	}
	prog, ok := got.Quests["q_daily_quiz"]
	if !ok || !prog.Completed {
		t.Errorf("quest progress lost: %+v", got.Quests)
	}
	if got.SchemaVersion != domain.ProfileSchemaVersion {
		t.Errorf("schema version = %d, want %d", got.SchemaVersion, domain.ProfileSchemaVersion)
	}
}

func TestLoadProfileNotFound(t *testing.T) {
	db := testDB(t)

	_, err := db.LoadProfile("nobody")
	if !errors.Is(err, domain.ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}

func TestSaveProfileOverwrites(t *testing.T) {
	db := testDB(t)

	p := domain.NewProfile("learner-1", testNow)
	if err := db.SaveProfile(p); err != nil {
		t.Fatalf("save: %v", err)
	}
	p.XP = 500
	if err := db.SaveProfile(p); err != nil {
		t.Fatalf("resave: %v", err)
	}

	got, err := db.LoadProfile("learner-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.XP != 500 {
		t.Errorf("xp = %d after overwrite, want 500", got.XP)
	}
}

func TestListLearners(t *testing.T) {
	db := testDB(t)

	for _, id := range []string{"ada", "grace", "alan"} {
		if err := db.SaveProfile(domain.NewProfile(id, testNow)); err != nil {
			t.Fatalf("save %s: %v", id, err)
		}
	}
	ids, err := db.ListLearners()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(ids) != 3 {
		t.Errorf("listed %d learners, want 3: %v", len(ids), ids)
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Activity Log
// ═══════════════════════════════════════════════════════════════════════════

func TestAppendActivityIdempotent(t *testing.T) {
	db := testDB(t)

	entry := domain.ActivityEntry{
		ID:      "entry-1",
		Date:    domain.DateOf(testNow),
		Subject: "Physics",
		Chapter: "Optics",
		Correct: 4,
		Total:   5,
		XP:      45,
	}
	// Same entry twice, same id: second insert is a no-op.
	for i := 0; i < 2; i++ {
		if err := db.AppendActivity("learner-1", entry); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	days, err := db.ActivitySummary("learner-1", 7, testNow)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if len(days) != 1 {
		t.Fatalf("expected 1 day of activity, got %d", len(days))
	}
	if days[0].Quizzes != 1 {
		t.Errorf("quizzes = %d after duplicate append, want 1", days[0].Quizzes)
	}
}

func TestActivitySummaryGroupsByDate(t *testing.T) {
	db := testDB(t)

	entries := []domain.ActivityEntry{
		{ID: "a", Date: domain.DateOf(testNow), Correct: 4, Total: 5, XP: 20},
		{ID: "b", Date: domain.DateOf(testNow), Correct: 5, Total: 5, XP: 30},
		{ID: "c", Date: domain.DateOf(testNow.AddDate(0, 0, -1)), Correct: 3, Total: 5, XP: 15},
		{ID: "d", Date: domain.DateOf(testNow.AddDate(0, 0, -30)), Correct: 1, Total: 5, XP: 5}, // outside window
	}
	for _, e := range entries {
		if err := db.AppendActivity("learner-1", e); err != nil {
			t.Fatalf("append %s: %v", e.ID, err)
		}
	}

	days, err := db.ActivitySummary("learner-1", 7, testNow)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if len(days) != 2 {
		t.Fatalf("expected 2 days in window, got %d: %+v", len(days), days)
	}

	byDate := map[string]DailyActivity{}
	for _, d := range days {
		byDate[d.Date.Format("2006-01-02")] = d
	}
	today := domain.DateOf(testNow).Format("2006-01-02")
	if got := byDate[today]; got.Quizzes != 2 || got.XP != 50 {
		t.Errorf("today = %+v, want 2 quizzes / 50 xp", got)
	}
}

func TestActivityIsolatedPerLearner(t *testing.T) {
	db := testDB(t)

	if err := db.AppendActivity("ada", domain.ActivityEntry{
		ID: "a", Date: domain.DateOf(testNow), Correct: 5, Total: 5, XP: 40,
	}); err != nil {
		t.Fatalf("append ada: %v", err)
	}
	if err := db.AppendActivity("grace", domain.ActivityEntry{
		ID: "b", Date: domain.DateOf(testNow), Correct: 3, Total: 5, XP: 15,
	}); err != nil {
		t.Fatalf("append grace: %v", err)
	}

	days, err := db.ActivitySummary("ada", 7, testNow)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if len(days) != 1 || days[0].XP != 40 {
		t.Errorf("ada summary = %+v, want a single 40 xp day", days)
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Notifications
// ═══════════════════════════════════════════════════════════════════════════

func TestNotificationLifecycle(t *testing.T) {
	db := testDB(t)

	id, err := db.InsertNotification(domain.Notification{
		LearnerID: "learner-1",
		Type:      domain.NotifyLevelUp,
		Title:     "Level up!",
		Body:      "You reached level 3",
		CreatedAt: testNow,
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	pending, err := db.ListPendingNotifications("learner-1", 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected 1 pending, got %d", len(pending))
	}
	if pending[0].ID != id || pending[0].Title != "Level up!" {
		t.Errorf("pending = %+v", pending[0])
	}

	if err := db.MarkNotificationShown(id); err != nil {
		t.Fatalf("mark shown: %v", err)
	}
	pending, err = db.ListPendingNotifications("learner-1", 10)
	if err != nil {
		t.Fatalf("relist: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("expected no pending after mark, got %d", len(pending))
	}
}

func TestNotificationCountSince(t *testing.T) {
	db := testDB(t)

	for i := 0; i < 3; i++ {
		if _, err := db.InsertNotification(domain.Notification{
			LearnerID: "learner-1",
			Type:      domain.NotifyAchievement,
			Title:     "Badge",
			CreatedAt: testNow.Add(time.Duration(i) * time.Hour),
		}); err != nil {
			t.Fatalf("insert %d: %v", i, err)
		}
	}
	if _, err := db.InsertNotification(domain.Notification{
		LearnerID: "learner-1",
		Type:      domain.NotifyAchievement,
		Title:     "Old",
		CreatedAt: testNow.AddDate(0, 0, -2),
	}); err != nil {
		t.Fatalf("insert old: %v", err)
	}

	count, err := db.NotificationCountSince("learner-1", domain.DateOf(testNow))
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Schema Migration
// ═══════════════════════════════════════════════════════════════════════════

func TestLoadProfileRejectsFutureSchema(t *testing.T) {
	db := testDB(t)

	p := domain.NewProfile("learner-1", testNow)
	if err := db.SaveProfile(p); err != nil {
		t.Fatalf("save: %v", err)
	}
	_, err := db.db.Exec(
		`UPDATE profiles SET schema_version = ? WHERE learner_id = ?`,
		domain.ProfileSchemaVersion+1, "learner-1",
	)
	if err != nil {
		t.Fatalf("bump version: %v", err)
	}

	if _, err := db.LoadProfile("learner-1"); err == nil {
		t.Error("expected error for profile written by a newer build")
	}
}
