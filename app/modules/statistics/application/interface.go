package statsservice

import (
	"context"

	statstypes "github.com/fairway-club/round-engine/app/modules/statistics/domain/types"
	"github.com/fairway-club/round-engine/app/shared/sharedtypes"
)

// Service is the statistics aggregation interface.
type Service interface {
	// ComputeRoundStatistics returns the derived statistics for one completed
	// round, serving from cache when a valid entry exists.
	ComputeRoundStatistics(ctx context.Context, roundID sharedtypes.RoundID) (*statstypes.RoundStatistics, error)

	// ComputeUserStatistics aggregates the user's completed rounds over the
	// trailing timeframe.
	ComputeUserStatistics(ctx context.Context, userID sharedtypes.UserID, timeframeDays int) (*statstypes.UserStatistics, error)

	// RenderScoringTrendChart renders the user's score-over-time chart as PNG.
	RenderScoringTrendChart(ctx context.Context, userID sharedtypes.UserID, timeframeDays int) ([]byte, error)

	// InvalidateRound drops the cached statistics for a round. Called by the
	// event subscriber whenever the round mutates.
	InvalidateRound(ctx context.Context, roundID sharedtypes.RoundID) error
}
