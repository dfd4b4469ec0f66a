package handicapservice

import (
	"context"
	"errors"
	"fmt"

	handicapcalc "github.com/fairway-club/round-engine/app/modules/handicap/domain/calc"
	handicapevents "github.com/fairway-club/round-engine/app/modules/handicap/domain/events"
	handicaptypes "github.com/fairway-club/round-engine/app/modules/handicap/domain/types"
	"github.com/fairway-club/round-engine/app/shared/sharedtypes"
	"github.com/fairway-club/round-engine/internal/observability/attr"
)

// ComputeHandicapIndex loads the player's recent qualifying rounds, runs the
// USGA computation, and persists a new append-only record.
func (s *HandicapService) ComputeHandicapIndex(ctx context.Context, userID sharedtypes.UserID) (*handicaptypes.HandicapRecord, error) {
	return withTelemetry(s, ctx, "ComputeHandicapIndex", userID, func(ctx context.Context) (*handicaptypes.HandicapRecord, error) {
		rounds, err := s.Rounds.GetRecentCompletedRounds(ctx, userID, historyWindowDays, handicapcalc.MaxDifferentials)
		if err != nil {
			return nil, fmt.Errorf("failed to load rounds: %w", err)
		}

		// A round qualifies only when completed with an adjusted gross score.
		// Anything else is excluded silently; it simply does not contribute.
		differentials := make([]handicaptypes.HandicapDifferential, 0, len(rounds))
		values := make([]float64, 0, len(rounds))
		for _, r := range rounds {
			if !r.IsCompleted() || r.AdjustedGrossScore == nil || r.CompletedAt == nil {
				continue
			}
			d := handicapcalc.Differential(*r.AdjustedGrossScore, r.CourseRating, r.SlopeRating)
			differentials = append(differentials, handicaptypes.HandicapDifferential{
				RoundID:      r.ID,
				Differential: d,
				PlayedAt:     *r.CompletedAt,
			})
			values = append(values, d)
		}

		index, err := handicapcalc.IndexFromDifferentials(values)
		if err != nil {
			return nil, err
		}

		record := &handicaptypes.HandicapRecord{
			ID:            sharedtypes.NewRecordID(),
			UserID:        userID,
			HandicapIndex: index,
			ComputedAt:    s.now().UTC(),
			RoundsUsed:    len(values),
			Differentials: differentials,
		}

		if err := s.HandicapDB.SaveRecord(ctx, record); err != nil {
			return nil, fmt.Errorf("failed to save handicap record: %w", err)
		}

		s.logger.InfoContext(ctx, "Handicap index computed",
			attr.ExtractCorrelationID(ctx),
			attr.Stringer("user_id", userID),
			attr.Float64("handicap_index", index),
			attr.Int("rounds_used", len(values)),
		)

		s.publishEvent(ctx, handicapevents.HandicapRecomputedTopic, handicapevents.HandicapRecomputedPayloadV1{
			RecordID:      record.ID,
			UserID:        userID,
			HandicapIndex: index,
			RoundsUsed:    record.RoundsUsed,
			ComputedAt:    record.ComputedAt,
		})

		return record, nil
	})
}

// RecomputeForUser is the background-job entry point. Players without enough
// history are a quiet no-op rather than a job failure, so the queue does not
// retry what more play will eventually fix.
func (s *HandicapService) RecomputeForUser(ctx context.Context, userID sharedtypes.UserID) error {
	_, err := s.ComputeHandicapIndex(ctx, userID)
	if errors.Is(err, ErrInsufficientRounds) {
		s.logger.InfoContext(ctx, "Skipping handicap recompute: not enough qualifying rounds",
			attr.Stringer("user_id", userID),
		)
		return nil
	}
	return err
}

// ComputeCourseHandicap converts the player's latest index into whole
// strokes for a course with the given slope.
func (s *HandicapService) ComputeCourseHandicap(ctx context.Context, userID sharedtypes.UserID, slopeRating int) (int, error) {
	return withTelemetry(s, ctx, "ComputeCourseHandicap", userID, func(ctx context.Context) (int, error) {
		record, err := s.HandicapDB.GetLatestRecord(ctx, userID)
		if err != nil {
			return 0, err
		}
		return handicapcalc.CourseHandicap(record.HandicapIndex, slopeRating), nil
	})
}

// GetLatestRecord returns the player's most recent index snapshot.
func (s *HandicapService) GetLatestRecord(ctx context.Context, userID sharedtypes.UserID) (*handicaptypes.HandicapRecord, error) {
	return withTelemetry(s, ctx, "GetLatestRecord", userID, func(ctx context.Context) (*handicaptypes.HandicapRecord, error) {
		return s.HandicapDB.GetLatestRecord(ctx, userID)
	})
}

// GetRecordHistory returns index snapshots most recent first.
func (s *HandicapService) GetRecordHistory(ctx context.Context, userID sharedtypes.UserID, limit int) ([]handicaptypes.HandicapRecord, error) {
	return withTelemetry(s, ctx, "GetRecordHistory", userID, func(ctx context.Context) ([]handicaptypes.HandicapRecord, error) {
		return s.HandicapDB.GetRecords(ctx, userID, limit)
	})
}
