package roundservice

import (
	"context"
	"fmt"

	roundevents "github.com/fairway-club/round-engine/app/modules/round/domain/events"
	roundtypes "github.com/fairway-club/round-engine/app/modules/round/domain/types"
	"github.com/fairway-club/round-engine/app/shared/sharedtypes"
	"github.com/fairway-club/round-engine/internal/observability/attr"
)

// DeleteRound removes a round in any state. An in-progress round is simply
// discarded and never contributes to handicap history.
func (s *RoundService) DeleteRound(ctx context.Context, roundID sharedtypes.RoundID) error {
	_, err := withTelemetry(s, ctx, "DeleteRound", roundID, func(ctx context.Context) (struct{}, error) {
		release := s.locks.acquire(roundID)
		defer release()

		round, err := s.RoundDB.GetRound(ctx, roundID)
		if err != nil {
			return struct{}{}, err
		}

		if err := s.RoundDB.DeleteRound(ctx, roundID); err != nil {
			return struct{}{}, fmt.Errorf("failed to delete round: %w", err)
		}

		s.logger.InfoContext(ctx, "Round deleted",
			attr.ExtractCorrelationID(ctx),
			attr.Stringer("round_id", roundID),
			attr.String("status", string(round.Status)),
		)

		s.publishEvent(ctx, roundevents.RoundDeletedTopic, roundevents.RoundDeletedPayloadV1{
			RoundID:      roundID,
			UserID:       round.UserID,
			WasCompleted: round.IsCompleted(),
		})

		return struct{}{}, nil
	})
	return err
}

// GetRound loads a single round.
func (s *RoundService) GetRound(ctx context.Context, roundID sharedtypes.RoundID) (*roundtypes.Round, error) {
	return withTelemetry(s, ctx, "GetRound", roundID, func(ctx context.Context) (*roundtypes.Round, error) {
		return s.RoundDB.GetRound(ctx, roundID)
	})
}
