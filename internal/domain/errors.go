package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure — no infrastructure dependency.
// The engine never retries or swallows; callers decide presentation.

var (
	// Profile errors
	ErrProfileNotFound = errors.New("learner profile not found")
	ErrProfileInvalid  = errors.New("learner profile violates invariants")

	// Event validation errors — rejected before any state change
	ErrInvalidEvent = errors.New("invalid outcome event")

	// Economy errors — spend operations are rejected, never clamped
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrAlreadyOwned      = errors.New("avatar already owned")

	// Catalog errors — dangling references are configuration bugs,
	// fatal at startup validation rather than recoverable per call
	ErrUnknownCatalogID = errors.New("id not present in catalog")
	ErrCatalogInvalid   = errors.New("catalog failed startup validation")

	// Tutor content errors
	ErrTutorUnavailable = errors.New("tutor model backend unreachable")
	ErrQuizMalformed    = errors.New("generated quiz does not match the strict quiz format")
	ErrSpeechDisabled   = errors.New("speech synthesis is not configured")
)
