package rounddb

import (
	"context"
	"errors"

	roundtypes "github.com/fairway-club/round-engine/app/modules/round/domain/types"
	"github.com/fairway-club/round-engine/app/shared/sharedtypes"
)

// ErrRoundNotFound is returned when a round ID has no stored row.
var ErrRoundNotFound = errors.New("round not found")

// RoundDB is the persistence port for rounds.
type RoundDB interface {
	// SaveRound inserts a newly started round.
	SaveRound(ctx context.Context, round *roundtypes.Round) error

	// UpdateRound replaces the stored state of an existing round.
	UpdateRound(ctx context.Context, round *roundtypes.Round) error

	// GetRound loads one round. Returns ErrRoundNotFound when absent.
	GetRound(ctx context.Context, roundID sharedtypes.RoundID) (*roundtypes.Round, error)

	// DeleteRound removes a round in any state.
	DeleteRound(ctx context.Context, roundID sharedtypes.RoundID) error

	// GetActiveRoundForCourse returns the user's in-progress round on the
	// course, or nil when there is none.
	GetActiveRoundForCourse(ctx context.Context, userID sharedtypes.UserID, courseID sharedtypes.CourseID) (*roundtypes.Round, error)

	// GetRecentCompletedRounds returns the user's completed rounds within the
	// age window, most recently completed first.
	GetRecentCompletedRounds(ctx context.Context, userID sharedtypes.UserID, maxAgeDays, limit int) ([]roundtypes.Round, error)
}
