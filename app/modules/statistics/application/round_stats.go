package statsservice

import (
	"context"
	"fmt"
	"strings"

	roundtypes "github.com/fairway-club/round-engine/app/modules/round/domain/types"
	statstypes "github.com/fairway-club/round-engine/app/modules/statistics/domain/types"
	"github.com/fairway-club/round-engine/app/shared/sharedtypes"
	"github.com/fairway-club/round-engine/internal/observability/attr"
)

// ComputeRoundStatistics returns the derived statistics for one completed
// round. Cache hits are served as-is; misses compute from the round and
// write back. A cache read failure degrades to recomputation.
func (s *StatisticsService) ComputeRoundStatistics(ctx context.Context, roundID sharedtypes.RoundID) (*statstypes.RoundStatistics, error) {
	return withTelemetry(s, ctx, "ComputeRoundStatistics", func(ctx context.Context) (*statstypes.RoundStatistics, error) {
		cached, err := s.Cache.GetRoundStatistics(ctx, roundID)
		if err != nil {
			s.logger.WarnContext(ctx, "Statistics cache read failed, recomputing",
				attr.Stringer("round_id", roundID),
				attr.Error(err),
			)
		}
		if cached != nil {
			return cached, nil
		}

		round, err := s.Rounds.GetRound(ctx, roundID)
		if err != nil {
			return nil, err
		}
		if !round.IsCompleted() {
			return nil, ErrRoundNotCompleted
		}

		stats := computeRoundStatistics(round)

		if err := s.Cache.PutRoundStatistics(ctx, stats); err != nil {
			// Derived data; failing to cache never fails the read.
			s.logger.WarnContext(ctx, "Failed to cache round statistics",
				attr.Stringer("round_id", roundID),
				attr.Error(err),
			)
		}

		return stats, nil
	})
}

// computeRoundStatistics derives all per-round figures in a single pass over
// the hole scores. Optional stats (fairways, greens, putts) only count holes
// where the figure was actually recorded.
func computeRoundStatistics(round *roundtypes.Round) *statstypes.RoundStatistics {
	stats := &statstypes.RoundStatistics{
		RoundID:    round.ID,
		TotalScore: round.TotalScore,
		ScoreToPar: round.ScoreToPar,
	}

	for _, h := range round.HoleScores {
		if !h.Played() {
			continue
		}

		switch diff := h.Strokes - h.Par; {
		case diff <= -2:
			stats.Distribution.EagleOrBetter++
		case diff == -1:
			stats.Distribution.Birdies++
		case diff == 0:
			stats.Distribution.Pars++
		case diff == 1:
			stats.Distribution.Bogeys++
		case diff == 2:
			stats.Distribution.DoubleBogeys++
		default:
			stats.Distribution.Others++
		}

		// Par 3s have no fairway to hit.
		if h.Par >= 4 && h.FairwayHit != nil {
			stats.FairwaysEligible++
			if *h.FairwayHit {
				stats.FairwaysHit++
			}
		}

		if h.GreenInRegulation != nil {
			stats.GreensEligible++
			if *h.GreenInRegulation {
				stats.GreensInRegulation++
			}
		}

		if h.Putts != nil {
			stats.HolesWithPutts++
			stats.TotalPutts += *h.Putts
		}

		stats.Penalties += h.Penalties

		if drive, ok := longestDriveOnHole(h); ok && drive > stats.LongestDriveYards {
			stats.LongestDriveYards = drive
		}
	}

	if stats.FairwaysEligible > 0 {
		stats.FairwayPct = float64(stats.FairwaysHit) / float64(stats.FairwaysEligible)
	}
	if stats.GreensEligible > 0 {
		stats.GreenPct = float64(stats.GreensInRegulation) / float64(stats.GreensEligible)
	}
	if stats.HolesWithPutts > 0 {
		stats.PuttsPerHole = float64(stats.TotalPutts) / float64(stats.HolesWithPutts)
	}

	return stats
}

// longestDriveOnHole estimates drive length as hole yardage minus the tee
// shot's remaining distance to the pin. Only driver tee shots with a captured
// distance count.
func longestDriveOnHole(h roundtypes.HoleScore) (float64, bool) {
	for _, shot := range h.Shots {
		if shot.ShotNumber != 1 || shot.Club == nil || shot.DistanceToPin == nil {
			continue
		}
		if !strings.EqualFold(*shot.Club, "driver") {
			continue
		}
		drive := float64(h.Yardage) - *shot.DistanceToPin
		if drive <= 0 {
			return 0, false
		}
		return drive, true
	}
	return 0, false
}

// statsForRounds resolves per-round statistics for a batch, cache-first.
func (s *StatisticsService) statsForRounds(ctx context.Context, rounds []roundtypes.Round) ([]*statstypes.RoundStatistics, error) {
	out := make([]*statstypes.RoundStatistics, 0, len(rounds))
	for i := range rounds {
		round := &rounds[i]

		cached, err := s.Cache.GetRoundStatistics(ctx, round.ID)
		if err != nil {
			s.logger.WarnContext(ctx, "Statistics cache read failed, recomputing",
				attr.Stringer("round_id", round.ID),
				attr.Error(err),
			)
		}
		if cached != nil {
			out = append(out, cached)
			continue
		}

		stats := computeRoundStatistics(round)
		if err := s.Cache.PutRoundStatistics(ctx, stats); err != nil {
			s.logger.WarnContext(ctx, "Failed to cache round statistics",
				attr.Stringer("round_id", round.ID),
				attr.Error(err),
			)
		}
		out = append(out, stats)
	}
	if len(out) != len(rounds) {
		return nil, fmt.Errorf("resolved %d of %d round statistics", len(out), len(rounds))
	}
	return out, nil
}
