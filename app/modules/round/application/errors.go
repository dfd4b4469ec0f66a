package roundservice

import "errors"

// Domain errors for the round state machine. All of these are caller-fixable
// validation failures: handlers surface them immediately and never retry.
var (
	// ErrInvalidHole indicates a hole number outside 1..numberOfHoles.
	ErrInvalidHole = errors.New("hole number out of range")

	// ErrInvalidHoleDefinition indicates a malformed course hole layout: par
	// outside 3..5, bad yardage, or a handicap allocation that is not a
	// permutation of 1..numberOfHoles. Allocation violations are course
	// definition defects and must fail fast at round start.
	ErrInvalidHoleDefinition = errors.New("invalid hole definition")

	// ErrInvalidRoundDefinition indicates bad round-level parameters: unknown
	// tee type, slope rating out of bounds, or a hole count other than 9 or 18.
	ErrInvalidRoundDefinition = errors.New("invalid round definition")

	// ErrInvalidStrokes indicates a stroke count outside 1..12. Zero is the
	// internal unplayed sentinel and is rejected as explicit input; use
	// ClearHoleScore to reset a hole.
	ErrInvalidStrokes = errors.New("stroke count out of range")

	// ErrInvalidShot indicates a malformed shot record.
	ErrInvalidShot = errors.New("invalid shot")

	// ErrRoundNotActive indicates a mutation on a round that is not in
	// progress.
	ErrRoundNotActive = errors.New("round is not active")

	// ErrRoundAlreadyComplete indicates CompleteRound on a completed round.
	// Completion triggers the handicap recompute and must not double-fire, so
	// the second call is rejected rather than silently succeeding.
	ErrRoundAlreadyComplete = errors.New("round already completed")

	// ErrIncompleteRound indicates CompleteRound before every hole has a
	// score. Partial submission is not supported.
	ErrIncompleteRound = errors.New("round has unplayed holes")

	// ErrDuplicateActiveRound indicates the user already has an in-progress
	// round on the same course.
	ErrDuplicateActiveRound = errors.New("an active round already exists for this course")
)
