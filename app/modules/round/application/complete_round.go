package roundservice

import (
	"context"
	"fmt"

	handicapcalc "github.com/fairway-club/round-engine/app/modules/handicap/domain/calc"
	roundevents "github.com/fairway-club/round-engine/app/modules/round/domain/events"
	roundtypes "github.com/fairway-club/round-engine/app/modules/round/domain/types"
	"github.com/fairway-club/round-engine/app/shared/sharedtypes"
	"github.com/fairway-club/round-engine/internal/observability/attr"
)

// CompleteRound freezes an in-progress round. The adjusted gross score is
// computed with the net double bogey cap using the player's handicap index at
// completion; the handicap recompute job is then enqueued. A second call on a
// completed round is rejected rather than treated as idempotent success
// because the recompute trigger must not double-fire.
func (s *RoundService) CompleteRound(ctx context.Context, roundID sharedtypes.RoundID, handicapIndex float64) (*roundtypes.Round, error) {
	return withTelemetry(s, ctx, "CompleteRound", roundID, func(ctx context.Context) (*roundtypes.Round, error) {
		release := s.locks.acquire(roundID)
		defer release()

		round, err := s.RoundDB.GetRound(ctx, roundID)
		if err != nil {
			return nil, err
		}
		if round.IsCompleted() {
			return nil, ErrRoundAlreadyComplete
		}
		if !round.IsInProgress() {
			return nil, fmt.Errorf("%w: status %s", ErrRoundNotActive, round.Status)
		}
		if !round.AllHolesPlayed() {
			return nil, fmt.Errorf("%w: %d of %d holes played",
				ErrIncompleteRound, round.CompletedHoleCount, round.NumberOfHoles)
		}

		courseHandicap := handicapcalc.CourseHandicap(handicapIndex, round.SlopeRating)
		adjustedGross := handicapcalc.AdjustedGrossScore(round.HoleScores, courseHandicap)

		now := s.now().UTC()
		round.RecomputeTotals()
		round.AdjustedGrossScore = &adjustedGross
		round.Status = roundtypes.RoundStatusCompleted
		round.CompletedAt = &now
		round.UpdatedAt = now

		if err := s.RoundDB.UpdateRound(ctx, round); err != nil {
			return nil, fmt.Errorf("failed to update round: %w", err)
		}

		s.logger.InfoContext(ctx, "Round completed",
			attr.ExtractCorrelationID(ctx),
			attr.Stringer("round_id", round.ID),
			attr.Int("total_score", round.TotalScore),
			attr.Int("adjusted_gross_score", adjustedGross),
			attr.Int("course_handicap", courseHandicap),
		)

		s.publishEvent(ctx, roundevents.RoundCompletedTopic, roundevents.RoundCompletedPayloadV1{
			RoundID:            round.ID,
			UserID:             round.UserID,
			TotalScore:         round.TotalScore,
			ScoreToPar:         round.ScoreToPar,
			AdjustedGrossScore: adjustedGross,
			CompletedAt:        now,
		})

		if s.scheduler != nil {
			if err := s.scheduler.EnqueueHandicapRecompute(ctx, round.UserID, round.ID); err != nil {
				// The round is already frozen; recompute will also run on the
				// next completion, so a scheduling failure is logged, not fatal.
				s.logger.ErrorContext(ctx, "Failed to enqueue handicap recompute",
					attr.Stringer("round_id", round.ID),
					attr.Error(err),
				)
			}
		}

		return round, nil
	})
}
