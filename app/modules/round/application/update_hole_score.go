package roundservice

import (
	"context"
	"fmt"

	roundevents "github.com/fairway-club/round-engine/app/modules/round/domain/events"
	roundtypes "github.com/fairway-club/round-engine/app/modules/round/domain/types"
	"github.com/fairway-club/round-engine/app/shared/sharedtypes"
	"github.com/fairway-club/round-engine/internal/observability/attr"
)

// UpdateHoleScore replaces one hole's record and recomputes every derived
// total from scratch.
func (s *RoundService) UpdateHoleScore(ctx context.Context, roundID sharedtypes.RoundID, input roundtypes.UpdateHoleScoreInput) (*roundtypes.Round, error) {
	return withTelemetry(s, ctx, "UpdateHoleScore", roundID, func(ctx context.Context) (*roundtypes.Round, error) {
		if input.Strokes < roundtypes.MinStrokes || input.Strokes > roundtypes.MaxStrokes {
			return nil, fmt.Errorf("%w: %d", ErrInvalidStrokes, input.Strokes)
		}
		if input.Putts != nil && *input.Putts < 0 {
			return nil, fmt.Errorf("%w: negative putts", ErrInvalidStrokes)
		}
		if input.Penalties != nil && *input.Penalties < 0 {
			return nil, fmt.Errorf("%w: negative penalties", ErrInvalidStrokes)
		}

		release := s.locks.acquire(roundID)
		defer release()

		round, err := s.RoundDB.GetRound(ctx, roundID)
		if err != nil {
			return nil, err
		}
		if !round.IsInProgress() {
			return nil, fmt.Errorf("%w: status %s", ErrRoundNotActive, round.Status)
		}

		hole := round.Hole(input.HoleNumber)
		if hole == nil {
			return nil, fmt.Errorf("%w: hole %d of %d", ErrInvalidHole, input.HoleNumber, round.NumberOfHoles)
		}

		// Replace the hole record; par, yardage, and the stroke allocation
		// come from the course definition and never change mid-round.
		hole.Strokes = input.Strokes
		hole.Putts = input.Putts
		if input.Penalties != nil {
			hole.Penalties = *input.Penalties
		} else {
			hole.Penalties = 0
		}
		hole.FairwayHit = input.FairwayHit
		hole.GreenInRegulation = input.GreenInRegulation
		if input.Shots != nil {
			hole.Shots = input.Shots
		}

		round.RecomputeTotals()
		round.UpdatedAt = s.now().UTC()

		if err := s.RoundDB.UpdateRound(ctx, round); err != nil {
			return nil, fmt.Errorf("failed to update round: %w", err)
		}

		s.logger.InfoContext(ctx, "Hole score updated",
			attr.ExtractCorrelationID(ctx),
			attr.Stringer("round_id", round.ID),
			attr.Int("hole_number", input.HoleNumber),
			attr.Int("strokes", input.Strokes),
			attr.Int("total_score", round.TotalScore),
		)

		s.publishEvent(ctx, roundevents.HoleScoreUpdatedTopic, roundevents.HoleScoreUpdatedPayloadV1{
			RoundID:    round.ID,
			UserID:     round.UserID,
			HoleNumber: input.HoleNumber,
			Strokes:    input.Strokes,
			TotalScore: round.TotalScore,
			ScoreToPar: round.ScoreToPar,
			UpdatedAt:  round.UpdatedAt,
		})

		return round, nil
	})
}

// ClearHoleScore resets a hole to unplayed, dropping its putts, penalties,
// flags, and captured shots.
func (s *RoundService) ClearHoleScore(ctx context.Context, roundID sharedtypes.RoundID, holeNumber int) (*roundtypes.Round, error) {
	return withTelemetry(s, ctx, "ClearHoleScore", roundID, func(ctx context.Context) (*roundtypes.Round, error) {
		release := s.locks.acquire(roundID)
		defer release()

		round, err := s.RoundDB.GetRound(ctx, roundID)
		if err != nil {
			return nil, err
		}
		if !round.IsInProgress() {
			return nil, fmt.Errorf("%w: status %s", ErrRoundNotActive, round.Status)
		}

		hole := round.Hole(holeNumber)
		if hole == nil {
			return nil, fmt.Errorf("%w: hole %d of %d", ErrInvalidHole, holeNumber, round.NumberOfHoles)
		}

		hole.Strokes = 0
		hole.Putts = nil
		hole.Penalties = 0
		hole.FairwayHit = nil
		hole.GreenInRegulation = nil
		hole.Shots = nil

		round.RecomputeTotals()
		round.UpdatedAt = s.now().UTC()

		if err := s.RoundDB.UpdateRound(ctx, round); err != nil {
			return nil, fmt.Errorf("failed to update round: %w", err)
		}

		s.logger.InfoContext(ctx, "Hole score cleared",
			attr.ExtractCorrelationID(ctx),
			attr.Stringer("round_id", round.ID),
			attr.Int("hole_number", holeNumber),
		)

		s.publishEvent(ctx, roundevents.HoleScoreClearedTopic, roundevents.HoleScoreClearedPayloadV1{
			RoundID:    round.ID,
			UserID:     round.UserID,
			HoleNumber: holeNumber,
			UpdatedAt:  round.UpdatedAt,
		})

		return round, nil
	})
}

// AppendShot captures one shot for a hole. Shots are append-only producer
// data from GPS tracking; they never mutate stroke counts, so interleaving
// with score updates for the same hole is safe under the round lock.
func (s *RoundService) AppendShot(ctx context.Context, roundID sharedtypes.RoundID, holeNumber int, shot roundtypes.Shot) (*roundtypes.Round, error) {
	return withTelemetry(s, ctx, "AppendShot", roundID, func(ctx context.Context) (*roundtypes.Round, error) {
		if shot.Result == "" {
			return nil, fmt.Errorf("%w: missing result", ErrInvalidShot)
		}

		release := s.locks.acquire(roundID)
		defer release()

		round, err := s.RoundDB.GetRound(ctx, roundID)
		if err != nil {
			return nil, err
		}
		if !round.IsInProgress() {
			return nil, fmt.Errorf("%w: status %s", ErrRoundNotActive, round.Status)
		}

		hole := round.Hole(holeNumber)
		if hole == nil {
			return nil, fmt.Errorf("%w: hole %d of %d", ErrInvalidHole, holeNumber, round.NumberOfHoles)
		}

		if shot.ShotNumber == 0 {
			shot.ShotNumber = len(hole.Shots) + 1
		}
		hole.Shots = append(hole.Shots, shot)
		round.UpdatedAt = s.now().UTC()

		if err := s.RoundDB.UpdateRound(ctx, round); err != nil {
			return nil, fmt.Errorf("failed to update round: %w", err)
		}

		s.publishEvent(ctx, roundevents.ShotAppendedTopic, roundevents.ShotAppendedPayloadV1{
			RoundID:    round.ID,
			UserID:     round.UserID,
			HoleNumber: holeNumber,
			ShotNumber: shot.ShotNumber,
		})

		return round, nil
	})
}
