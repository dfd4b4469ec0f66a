package statsservice

import (
	"context"
	"fmt"

	roundtypes "github.com/fairway-club/round-engine/app/modules/round/domain/types"
	statstypes "github.com/fairway-club/round-engine/app/modules/statistics/domain/types"
	"github.com/fairway-club/round-engine/app/shared/sharedtypes"
	"github.com/fairway-club/round-engine/internal/observability/attr"
)

// Trend computation parameters: the five most recent rounds are compared
// against the five before them, and the averages must differ by at least two
// strokes to leave STABLE.
const (
	trendSampleSize       = 5
	trendThresholdStrokes = 2.0
)

// ComputeUserStatistics aggregates the user's completed rounds over the
// trailing timeframe. Returns ErrInsufficientData when the window is empty.
func (s *StatisticsService) ComputeUserStatistics(ctx context.Context, userID sharedtypes.UserID, timeframeDays int) (*statstypes.UserStatistics, error) {
	return withTelemetry(s, ctx, "ComputeUserStatistics", func(ctx context.Context) (*statstypes.UserStatistics, error) {
		rounds, err := s.Rounds.GetRecentCompletedRounds(ctx, userID, timeframeDays, 0)
		if err != nil {
			return nil, fmt.Errorf("failed to load rounds: %w", err)
		}
		if len(rounds) == 0 {
			return nil, fmt.Errorf("user %s over %d days: %w", userID, timeframeDays, ErrInsufficientData)
		}

		perRound, err := s.statsForRounds(ctx, rounds)
		if err != nil {
			return nil, err
		}

		agg := &statstypes.UserStatistics{
			UserID:        userID,
			TimeframeDays: timeframeDays,
			RoundsPlayed:  len(rounds),
			BestScore:     rounds[0].TotalScore,
			WorstScore:    rounds[0].TotalScore,
			ComputedAt:    s.now().UTC(),
		}

		var (
			scoreSum, toParSum        int
			fairwaysHit, fairwaysElig int
			greensHit, greensElig     int
			puttsTotal, puttsHoles    int
			penalties                 int
		)
		for i, r := range rounds {
			scoreSum += r.TotalScore
			toParSum += r.ScoreToPar
			if r.TotalScore < agg.BestScore {
				agg.BestScore = r.TotalScore
			}
			if r.TotalScore > agg.WorstScore {
				agg.WorstScore = r.TotalScore
			}

			rs := perRound[i]
			agg.Distribution.Add(rs.Distribution)
			fairwaysHit += rs.FairwaysHit
			fairwaysElig += rs.FairwaysEligible
			greensHit += rs.GreensInRegulation
			greensElig += rs.GreensEligible
			puttsTotal += rs.TotalPutts
			puttsHoles += rs.HolesWithPutts
			penalties += rs.Penalties
			if rs.LongestDriveYards > agg.LongestDriveYards {
				agg.LongestDriveYards = rs.LongestDriveYards
			}
		}

		agg.AverageScore = float64(scoreSum) / float64(len(rounds))
		agg.AverageScoreToPar = float64(toParSum) / float64(len(rounds))
		if fairwaysElig > 0 {
			agg.FairwayPct = float64(fairwaysHit) / float64(fairwaysElig)
		}
		if greensElig > 0 {
			agg.GreenPct = float64(greensHit) / float64(greensElig)
		}
		if puttsHoles > 0 {
			agg.PuttsPerHole = float64(puttsTotal) / float64(puttsHoles)
		}
		agg.PenaltiesPerRound = float64(penalties) / float64(len(rounds))
		agg.ScoringTrend = scoringTrend(rounds)

		s.logger.InfoContext(ctx, "User statistics computed",
			attr.ExtractCorrelationID(ctx),
			attr.Stringer("user_id", userID),
			attr.Int("rounds", len(rounds)),
			attr.String("trend", string(agg.ScoringTrend)),
		)

		return agg, nil
	})
}

// scoringTrend compares mean score-to-par of the five most recent rounds
// against the five before them. Rounds arrive most recent first. Score-to-par
// keeps rounds on different courses comparable. Fewer than ten rounds is
// always STABLE.
func scoringTrend(rounds []roundtypes.Round) statstypes.Trend {
	if len(rounds) < 2*trendSampleSize {
		return statstypes.TrendStable
	}

	recent := meanToPar(rounds[:trendSampleSize])
	prior := meanToPar(rounds[trendSampleSize : 2*trendSampleSize])

	switch {
	case prior-recent >= trendThresholdStrokes:
		return statstypes.TrendImproving
	case recent-prior >= trendThresholdStrokes:
		return statstypes.TrendDeclining
	}
	return statstypes.TrendStable
}

func meanToPar(rounds []roundtypes.Round) float64 {
	sum := 0
	for _, r := range rounds {
		sum += r.ScoreToPar
	}
	return float64(sum) / float64(len(rounds))
}
