package roundservice

import (
	"context"
	"fmt"
	"sort"

	roundevents "github.com/fairway-club/round-engine/app/modules/round/domain/events"
	roundtypes "github.com/fairway-club/round-engine/app/modules/round/domain/types"
	"github.com/fairway-club/round-engine/app/shared/sharedtypes"
	"github.com/fairway-club/round-engine/internal/observability/attr"
)

// StartRound builds a round with every hole score pre-populated from the
// course layout and strokes set to the unplayed sentinel, then publishes it
// as in-progress. Construction is atomic: the round is either fully built and
// saved, or nothing is.
func (s *RoundService) StartRound(ctx context.Context, input roundtypes.StartRoundInput) (*roundtypes.Round, error) {
	return withTelemetry(s, ctx, "StartRound", sharedtypes.RoundID{}, func(ctx context.Context) (*roundtypes.Round, error) {
		if err := s.validator.ValidateStartInput(input); err != nil {
			return nil, err
		}

		active, err := s.RoundDB.GetActiveRoundForCourse(ctx, input.UserID, input.CourseID)
		if err != nil {
			return nil, fmt.Errorf("failed to check for active round: %w", err)
		}
		if active != nil {
			return nil, fmt.Errorf("%w: round %s", ErrDuplicateActiveRound, active.ID)
		}

		holes := make([]roundtypes.HoleDefinition, len(input.Holes))
		copy(holes, input.Holes)
		sort.Slice(holes, func(i, j int) bool { return holes[i].HoleNumber < holes[j].HoleNumber })

		coursePar := 0
		holeScores := make([]roundtypes.HoleScore, len(holes))
		for i, def := range holes {
			coursePar += def.Par
			holeScores[i] = roundtypes.HoleScore{
				HoleNumber:        def.HoleNumber,
				Par:               def.Par,
				Yardage:           def.Yardage,
				HoleHandicapIndex: def.HandicapIndex,
			}
		}

		now := s.now().UTC()
		round := &roundtypes.Round{
			ID:            sharedtypes.NewRoundID(),
			UserID:        input.UserID,
			CourseID:      input.CourseID,
			TeeType:       input.TeeType,
			NumberOfHoles: len(holes),
			CourseRating:  input.CourseRating,
			SlopeRating:   input.SlopeRating,
			CoursePar:     coursePar,
			HoleScores:    holeScores,
			Status:        roundtypes.RoundStatusInProgress,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		round.RecomputeTotals()

		if err := s.RoundDB.SaveRound(ctx, round); err != nil {
			return nil, fmt.Errorf("failed to save round: %w", err)
		}

		s.logger.InfoContext(ctx, "Round started",
			attr.ExtractCorrelationID(ctx),
			attr.Stringer("round_id", round.ID),
			attr.Stringer("user_id", round.UserID),
			attr.Stringer("course_id", round.CourseID),
			attr.Int("number_of_holes", round.NumberOfHoles),
		)

		s.publishEvent(ctx, roundevents.RoundStartedTopic, roundevents.RoundStartedPayloadV1{
			RoundID:       round.ID,
			UserID:        round.UserID,
			CourseID:      round.CourseID,
			TeeType:       round.TeeType,
			NumberOfHoles: round.NumberOfHoles,
			StartedAt:     now,
		})

		return round, nil
	})
}
