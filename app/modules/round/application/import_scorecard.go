package roundservice

import (
	"context"
	"fmt"

	roundtypes "github.com/fairway-club/round-engine/app/modules/round/domain/types"
	"github.com/fairway-club/round-engine/app/shared/sharedtypes"
	"github.com/fairway-club/round-engine/internal/observability/attr"
)

// ImportScorecardInput carries a scorecard workbook plus the course context
// it was played on.
type ImportScorecardInput struct {
	UserID        sharedtypes.UserID   `json:"user_id"`
	CourseID      sharedtypes.CourseID `json:"course_id"`
	TeeType       roundtypes.TeeType   `json:"tee_type"`
	CourseRating  float64              `json:"course_rating"`
	SlopeRating   int                  `json:"slope_rating"`
	Holes         []roundtypes.HoleDefinition `json:"holes"`
	HandicapIndex float64              `json:"handicap_index"`
	Workbook      []byte               `json:"-"`
}

// ImportScorecard parses an exported scorecard workbook and replays it
// through the state machine: start, one update per hole, complete. The
// replayed round passes through the same validation and net-double-bogey
// adjustment as a live round.
func (s *RoundService) ImportScorecard(ctx context.Context, input ImportScorecardInput) (*roundtypes.Round, error) {
	return withTelemetry(s, ctx, "ImportScorecard", sharedtypes.RoundID{}, func(ctx context.Context) (*roundtypes.Round, error) {
		card, err := s.parser.Parse(input.Workbook)
		if err != nil {
			return nil, fmt.Errorf("failed to parse scorecard: %w", err)
		}
		if len(card.Strokes) != len(input.Holes) {
			return nil, fmt.Errorf("%w: scorecard has %d holes, course has %d",
				ErrInvalidRoundDefinition, len(card.Strokes), len(input.Holes))
		}

		round, err := s.StartRound(ctx, roundtypes.StartRoundInput{
			UserID:       input.UserID,
			CourseID:     input.CourseID,
			TeeType:      input.TeeType,
			CourseRating: input.CourseRating,
			SlopeRating:  input.SlopeRating,
			Holes:        input.Holes,
		})
		if err != nil {
			return nil, err
		}

		for i, strokes := range card.Strokes {
			update := roundtypes.UpdateHoleScoreInput{
				HoleNumber: i + 1,
				Strokes:    strokes,
			}
			if card.Putts != nil {
				putts := card.Putts[i]
				update.Putts = &putts
			}
			if _, err := s.UpdateHoleScore(ctx, round.ID, update); err != nil {
				// Leave no half-imported round behind.
				if delErr := s.RoundDB.DeleteRound(ctx, round.ID); delErr != nil {
					s.logger.ErrorContext(ctx, "Failed to discard partial import",
						attr.Stringer("round_id", round.ID),
						attr.Error(delErr),
					)
				}
				return nil, fmt.Errorf("hole %d: %w", i+1, err)
			}
		}

		completed, err := s.CompleteRound(ctx, round.ID, input.HandicapIndex)
		if err != nil {
			if delErr := s.RoundDB.DeleteRound(ctx, round.ID); delErr != nil {
				s.logger.ErrorContext(ctx, "Failed to discard partial import",
					attr.Stringer("round_id", round.ID),
					attr.Error(delErr),
				)
			}
			return nil, err
		}

		s.logger.InfoContext(ctx, "Scorecard imported",
			attr.ExtractCorrelationID(ctx),
			attr.Stringer("round_id", completed.ID),
			attr.Int("total_score", completed.TotalScore),
		)

		return completed, nil
	})
}
