package roundservice

import (
	"fmt"

	roundtypes "github.com/fairway-club/round-engine/app/modules/round/domain/types"
)

// RoundValidator validates round construction input before the state machine
// builds anything.
type RoundValidator interface {
	ValidateStartInput(input roundtypes.StartRoundInput) error
	ValidateHoleDefinitions(holes []roundtypes.HoleDefinition) error
}

type roundValidator struct{}

// NewRoundValidator creates the standard validator.
func NewRoundValidator() RoundValidator {
	return roundValidator{}
}

func (roundValidator) ValidateStartInput(input roundtypes.StartRoundInput) error {
	if input.UserID == "" {
		return fmt.Errorf("%w: missing user ID", ErrInvalidRoundDefinition)
	}
	if input.CourseID == "" {
		return fmt.Errorf("%w: missing course ID", ErrInvalidRoundDefinition)
	}
	if !input.TeeType.Valid() {
		return fmt.Errorf("%w: unknown tee type %q", ErrInvalidRoundDefinition, input.TeeType)
	}
	if input.SlopeRating < roundtypes.MinSlopeRating || input.SlopeRating > roundtypes.MaxSlopeRating {
		return fmt.Errorf("%w: slope rating %d outside %d..%d",
			ErrInvalidRoundDefinition, input.SlopeRating, roundtypes.MinSlopeRating, roundtypes.MaxSlopeRating)
	}
	if input.CourseRating <= 0 {
		return fmt.Errorf("%w: course rating must be positive", ErrInvalidRoundDefinition)
	}
	return roundValidator{}.ValidateHoleDefinitions(input.Holes)
}

func (roundValidator) ValidateHoleDefinitions(holes []roundtypes.HoleDefinition) error {
	n := len(holes)
	if n != 9 && n != 18 {
		return fmt.Errorf("%w: expected 9 or 18 holes, got %d", ErrInvalidRoundDefinition, n)
	}

	seenNumbers := make(map[int]bool, n)
	seenAllocations := make(map[int]bool, n)
	for _, h := range holes {
		if h.HoleNumber < 1 || h.HoleNumber > n {
			return fmt.Errorf("%w: hole number %d outside 1..%d", ErrInvalidHoleDefinition, h.HoleNumber, n)
		}
		if seenNumbers[h.HoleNumber] {
			return fmt.Errorf("%w: duplicate hole number %d", ErrInvalidHoleDefinition, h.HoleNumber)
		}
		seenNumbers[h.HoleNumber] = true

		if h.Par < 3 || h.Par > 5 {
			return fmt.Errorf("%w: hole %d par %d outside 3..5", ErrInvalidHoleDefinition, h.HoleNumber, h.Par)
		}
		if h.Yardage <= 0 {
			return fmt.Errorf("%w: hole %d yardage must be positive", ErrInvalidHoleDefinition, h.HoleNumber)
		}

		// The stroke allocation must be a permutation of 1..n; the net double
		// bogey computation depends on it.
		if h.HandicapIndex < 1 || h.HandicapIndex > n {
			return fmt.Errorf("%w: hole %d handicap index %d outside 1..%d",
				ErrInvalidHoleDefinition, h.HoleNumber, h.HandicapIndex, n)
		}
		if seenAllocations[h.HandicapIndex] {
			return fmt.Errorf("%w: handicap index %d assigned twice", ErrInvalidHoleDefinition, h.HandicapIndex)
		}
		seenAllocations[h.HandicapIndex] = true
	}
	return nil
}
