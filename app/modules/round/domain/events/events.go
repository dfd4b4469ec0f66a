package roundevents

import (
	"time"

	roundtypes "github.com/fairway-club/round-engine/app/modules/round/domain/types"
	"github.com/fairway-club/round-engine/app/shared/sharedtypes"
)

// Topics published by the round state machine. Every successful mutation
// emits exactly one event; consumers include the statistics cache invalidator
// and the handicap recompute pipeline.
const (
	RoundStartedTopic     = "round.started.v1"
	HoleScoreUpdatedTopic = "round.hole_score.updated.v1"
	HoleScoreClearedTopic = "round.hole_score.cleared.v1"
	ShotAppendedTopic     = "round.shot.appended.v1"
	RoundCompletedTopic   = "round.completed.v1"
	RoundDeletedTopic     = "round.deleted.v1"
)

// RoundStartedPayloadV1 is published when a round transitions to in-progress.
type RoundStartedPayloadV1 struct {
	RoundID       sharedtypes.RoundID  `json:"round_id"`
	UserID        sharedtypes.UserID   `json:"user_id"`
	CourseID      sharedtypes.CourseID `json:"course_id"`
	TeeType       roundtypes.TeeType   `json:"tee_type"`
	NumberOfHoles int                  `json:"number_of_holes"`
	StartedAt     time.Time            `json:"started_at"`
}

// HoleScoreUpdatedPayloadV1 is published after a hole score is recorded and
// the round totals are recomputed.
type HoleScoreUpdatedPayloadV1 struct {
	RoundID    sharedtypes.RoundID `json:"round_id"`
	UserID     sharedtypes.UserID  `json:"user_id"`
	HoleNumber int                 `json:"hole_number"`
	Strokes    int                 `json:"strokes"`
	TotalScore int                 `json:"total_score"`
	ScoreToPar int                 `json:"score_to_par"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

// HoleScoreClearedPayloadV1 is published after a hole is reset to unplayed.
type HoleScoreClearedPayloadV1 struct {
	RoundID    sharedtypes.RoundID `json:"round_id"`
	UserID     sharedtypes.UserID  `json:"user_id"`
	HoleNumber int                 `json:"hole_number"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

// ShotAppendedPayloadV1 is published after a shot is captured for a hole.
type ShotAppendedPayloadV1 struct {
	RoundID    sharedtypes.RoundID `json:"round_id"`
	UserID     sharedtypes.UserID  `json:"user_id"`
	HoleNumber int                 `json:"hole_number"`
	ShotNumber int                 `json:"shot_number"`
}

// RoundCompletedPayloadV1 is published when a round is frozen. The handicap
// recompute job is enqueued off the back of this event.
type RoundCompletedPayloadV1 struct {
	RoundID            sharedtypes.RoundID `json:"round_id"`
	UserID             sharedtypes.UserID  `json:"user_id"`
	TotalScore         int                 `json:"total_score"`
	ScoreToPar         int                 `json:"score_to_par"`
	AdjustedGrossScore int                 `json:"adjusted_gross_score"`
	CompletedAt        time.Time           `json:"completed_at"`
}

// RoundDeletedPayloadV1 is published when a round is removed.
type RoundDeletedPayloadV1 struct {
	RoundID      sharedtypes.RoundID `json:"round_id"`
	UserID       sharedtypes.UserID  `json:"user_id"`
	WasCompleted bool                `json:"was_completed"`
}
