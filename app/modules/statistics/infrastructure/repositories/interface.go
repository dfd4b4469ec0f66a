package statsdb

import (
	"context"

	statstypes "github.com/fairway-club/round-engine/app/modules/statistics/domain/types"
	"github.com/fairway-club/round-engine/app/shared/sharedtypes"
)

// StatsCache is the persistence port for cached per-round statistics.
// Entries are derived data: a miss is never an error, and invalidation on
// round mutation is the only coherence mechanism.
type StatsCache interface {
	// GetRoundStatistics returns the cached statistics for a round, or nil
	// on a miss.
	GetRoundStatistics(ctx context.Context, roundID sharedtypes.RoundID) (*statstypes.RoundStatistics, error)

	// PutRoundStatistics stores (or replaces) the cached statistics.
	PutRoundStatistics(ctx context.Context, stats *statstypes.RoundStatistics) error

	// Invalidate removes the cached entry for a round. Removing a missing
	// entry is a no-op.
	Invalidate(ctx context.Context, roundID sharedtypes.RoundID) error
}
