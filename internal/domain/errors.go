package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure — no infrastructure dependency.

var (
	// ErrProfileNotFound means the user has no score record. Score-keeping
	// is supplementary, so callers treat this as a silent no-op rather
	// than failing the primary action.
	ErrProfileNotFound = errors.New("score profile not found")

	// ErrUnknownAction means a caller referenced an action key missing
	// from the static catalog. A programming error: fail fast in
	// development, log in production, never crash the caller's flow.
	ErrUnknownAction = errors.New("unknown score action key")

	// ErrUnknownAchievement means an achievement id not present in the
	// static catalog was referenced.
	ErrUnknownAchievement = errors.New("unknown achievement id")

	// ErrNonPositiveGrant rejects zero or negative point grants; awards
	// are additive only.
	ErrNonPositiveGrant = errors.New("point grant must be positive")

	// ErrNotificationNotFound means the referenced notification row does
	// not exist.
	ErrNotificationNotFound = errors.New("notification not found")
)
