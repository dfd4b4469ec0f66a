package testutils

import (
	"time"

	"github.com/brianvoe/gofakeit/v7"

	handicaptypes "github.com/fairway-club/round-engine/app/modules/handicap/domain/types"
	roundtypes "github.com/fairway-club/round-engine/app/modules/round/domain/types"
	"github.com/fairway-club/round-engine/app/shared/sharedtypes"
)

// TestDataGenerator builds realistic domain fixtures for integration tests.
// A fixed seed makes a failing run reproducible.
type TestDataGenerator struct {
	faker *gofakeit.Faker
	seed  uint64
}

// NewTestDataGenerator creates a generator, seeded from the clock unless a
// seed is given.
func NewTestDataGenerator(seed ...uint64) *TestDataGenerator {
	var s uint64
	if len(seed) > 0 {
		s = seed[0]
	} else {
		s = uint64(time.Now().UnixNano())
	}
	return &TestDataGenerator{faker: gofakeit.New(s), seed: s}
}

// Seed returns the seed in use, for logging on failure.
func (g *TestDataGenerator) Seed() uint64 { return g.seed }

// GenerateUserID produces a random opaque user identifier.
func (g *TestDataGenerator) GenerateUserID() sharedtypes.UserID {
	return sharedtypes.UserID("user-" + g.faker.UUID())
}

// GenerateHoleLayout produces a plausible course layout: par 3 to 5 holes
// with yardages in the usual range for the par.
func (g *TestDataGenerator) GenerateHoleLayout(numberOfHoles int) []roundtypes.HoleDefinition {
	holes := make([]roundtypes.HoleDefinition, numberOfHoles)
	// Handicap indexes are a permutation of 1..n.
	indexes := make([]int, numberOfHoles)
	for i := range indexes {
		indexes[i] = i + 1
	}
	g.faker.ShuffleInts(indexes)

	for i := range holes {
		par := g.faker.Number(3, 5)
		var yardage int
		switch par {
		case 3:
			yardage = g.faker.Number(110, 230)
		case 4:
			yardage = g.faker.Number(300, 460)
		default:
			yardage = g.faker.Number(470, 600)
		}
		holes[i] = roundtypes.HoleDefinition{
			HoleNumber:    i + 1,
			Par:           par,
			Yardage:       yardage,
			HandicapIndex: indexes[i],
		}
	}
	return holes
}

// GenerateStartRoundInput produces a valid round definition for the user on a
// random course.
func (g *TestDataGenerator) GenerateStartRoundInput(userID sharedtypes.UserID, numberOfHoles int) roundtypes.StartRoundInput {
	return roundtypes.StartRoundInput{
		UserID:       userID,
		CourseID:     sharedtypes.CourseID("course-" + g.faker.UUID()),
		TeeType:      roundtypes.TeeRegular,
		CourseRating: float64(g.faker.Number(670, 760)) / 10,
		SlopeRating:  g.faker.Number(roundtypes.MinSlopeRating, roundtypes.MaxSlopeRating),
		Holes:        g.GenerateHoleLayout(numberOfHoles),
	}
}

// GenerateCompletedRound produces a fully scored, completed round finished
// daysAgo days in the past, with every derived field populated.
func (g *TestDataGenerator) GenerateCompletedRound(userID sharedtypes.UserID, numberOfHoles, daysAgo int) *roundtypes.Round {
	input := g.GenerateStartRoundInput(userID, numberOfHoles)
	completedAt := time.Now().UTC().AddDate(0, 0, -daysAgo)

	round := &roundtypes.Round{
		ID:            sharedtypes.NewRoundID(),
		UserID:        input.UserID,
		CourseID:      input.CourseID,
		TeeType:       input.TeeType,
		NumberOfHoles: numberOfHoles,
		CourseRating:  input.CourseRating,
		SlopeRating:   input.SlopeRating,
		Status:        roundtypes.RoundStatusCompleted,
		CreatedAt:     completedAt.Add(-4 * time.Hour),
		UpdatedAt:     completedAt,
		CompletedAt:   &completedAt,
	}

	round.HoleScores = make([]roundtypes.HoleScore, numberOfHoles)
	for i, def := range input.Holes {
		round.CoursePar += def.Par
		putts := g.faker.Number(1, 3)
		round.HoleScores[i] = roundtypes.HoleScore{
			HoleNumber:        def.HoleNumber,
			Par:               def.Par,
			Yardage:           def.Yardage,
			HoleHandicapIndex: def.HandicapIndex,
			Strokes:           def.Par + g.faker.Number(-1, 3),
			Putts:             &putts,
		}
	}
	round.RecomputeTotals()

	ags := round.TotalScore
	round.AdjustedGrossScore = &ags
	return round
}

// GenerateHandicapRecord produces an index snapshot referencing the given
// rounds.
func (g *TestDataGenerator) GenerateHandicapRecord(userID sharedtypes.UserID, rounds []roundtypes.Round) *handicaptypes.HandicapRecord {
	record := &handicaptypes.HandicapRecord{
		ID:            sharedtypes.NewRecordID(),
		UserID:        userID,
		HandicapIndex: float64(g.faker.Number(0, 360)) / 10,
		ComputedAt:    time.Now().UTC(),
		RoundsUsed:    len(rounds),
	}
	for _, r := range rounds {
		playedAt := r.UpdatedAt
		if r.CompletedAt != nil {
			playedAt = *r.CompletedAt
		}
		record.Differentials = append(record.Differentials, handicaptypes.HandicapDifferential{
			RoundID:      r.ID,
			Differential: float64(g.faker.Number(-20, 300)) / 10,
			PlayedAt:     playedAt,
		})
	}
	return record
}
