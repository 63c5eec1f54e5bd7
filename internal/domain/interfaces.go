package domain

// ─── Service Interfaces ─────────────────────────────────────────────────────
// Boundaries between layers. Infrastructure implements them; the engine
// stays free of I/O so it is testable with in-memory profiles.

// ProfileStore loads and saves learner progression records.
// The engine never calls this directly — the API and CLI orchestrate
// load → apply → save.
type ProfileStore interface {
	// LoadProfile returns ErrProfileNotFound for unknown learners.
	LoadProfile(learnerID string) (LearnerProfile, error)

	// SaveProfile persists the whole record atomically.
	SaveProfile(p LearnerProfile) error

	// AppendActivity mirrors an activity entry into the analytics table.
	AppendActivity(learnerID string, entry ActivityEntry) error
}
