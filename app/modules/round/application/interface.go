package roundservice

import (
	"context"

	roundtypes "github.com/fairway-club/round-engine/app/modules/round/domain/types"
	"github.com/fairway-club/round-engine/app/shared/sharedtypes"
)

// Service is the round state machine surface consumed by the API layer.
type Service interface {
	// StartRound builds a fully populated round from the course hole layout
	// and atomically transitions it to in-progress.
	StartRound(ctx context.Context, input roundtypes.StartRoundInput) (*roundtypes.Round, error)

	// UpdateHoleScore replaces one hole's record and recomputes all derived
	// totals.
	UpdateHoleScore(ctx context.Context, roundID sharedtypes.RoundID, input roundtypes.UpdateHoleScoreInput) (*roundtypes.Round, error)

	// ClearHoleScore resets a hole to unplayed mid-round.
	ClearHoleScore(ctx context.Context, roundID sharedtypes.RoundID, holeNumber int) (*roundtypes.Round, error)

	// AppendShot captures one shot for a hole during an active round. Shots
	// are append-only and never affect stroke counts.
	AppendShot(ctx context.Context, roundID sharedtypes.RoundID, holeNumber int, shot roundtypes.Shot) (*roundtypes.Round, error)

	// CompleteRound freezes the round, computing the adjusted gross score via
	// net double bogey from the supplied handicap index.
	CompleteRound(ctx context.Context, roundID sharedtypes.RoundID, handicapIndex float64) (*roundtypes.Round, error)

	// DeleteRound removes a round in any state. In-progress rounds are
	// discarded without contributing to handicap history.
	DeleteRound(ctx context.Context, roundID sharedtypes.RoundID) error

	// GetRound loads a single round.
	GetRound(ctx context.Context, roundID sharedtypes.RoundID) (*roundtypes.Round, error)

	// ImportScorecard replays a parsed scorecard workbook through the state
	// machine as a completed round.
	ImportScorecard(ctx context.Context, input ImportScorecardInput) (*roundtypes.Round, error)
}
