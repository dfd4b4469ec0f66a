package handicapservice

import (
	"context"

	handicaptypes "github.com/fairway-club/round-engine/app/modules/handicap/domain/types"
	"github.com/fairway-club/round-engine/app/shared/sharedtypes"
)

// Service is the handicap calculation surface consumed by the API layer and
// the recompute job.
type Service interface {
	// ComputeHandicapIndex recomputes the player's index from stored rounds
	// and persists a new append-only record capturing exactly which
	// differentials were used.
	ComputeHandicapIndex(ctx context.Context, userID sharedtypes.UserID) (*handicaptypes.HandicapRecord, error)

	// RecomputeForUser is the job-queue entry point: identical to
	// ComputeHandicapIndex except that insufficient history is a quiet no-op.
	RecomputeForUser(ctx context.Context, userID sharedtypes.UserID) error

	// ComputeCourseHandicap converts the player's latest index into strokes
	// received at a course with the given slope.
	ComputeCourseHandicap(ctx context.Context, userID sharedtypes.UserID, slopeRating int) (int, error)

	// GetLatestRecord returns the player's most recent index snapshot.
	GetLatestRecord(ctx context.Context, userID sharedtypes.UserID) (*handicaptypes.HandicapRecord, error)

	// GetRecordHistory returns index snapshots most recent first, for trend
	// display.
	GetRecordHistory(ctx context.Context, userID sharedtypes.UserID, limit int) ([]handicaptypes.HandicapRecord, error)
}
