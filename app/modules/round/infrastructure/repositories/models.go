package rounddb

import (
	"time"

	"github.com/uptrace/bun"

	roundtypes "github.com/fairway-club/round-engine/app/modules/round/domain/types"
	"github.com/fairway-club/round-engine/app/shared/sharedtypes"
)

// Round is the bun row model for a stored round. Hole scores are embedded as
// jsonb: they are only ever read and written as a unit through the state
// machine, never queried hole-by-hole.
type Round struct {
	bun.BaseModel `bun:"table:rounds,alias:r"`

	ID                 sharedtypes.RoundID     `bun:"id,pk,type:uuid"`
	UserID             sharedtypes.UserID      `bun:"user_id,notnull"`
	CourseID           sharedtypes.CourseID    `bun:"course_id,notnull"`
	TeeType            roundtypes.TeeType      `bun:"tee_type,notnull"`
	NumberOfHoles      int                     `bun:"number_of_holes,notnull"`
	CourseRating       float64                 `bun:"course_rating,notnull"`
	SlopeRating        int                     `bun:"slope_rating,notnull"`
	CoursePar          int                     `bun:"course_par,notnull"`
	HoleScores         []roundtypes.HoleScore  `bun:"hole_scores,type:jsonb"`
	Status             roundtypes.RoundStatus  `bun:"status,notnull"`
	AdjustedGrossScore *int                    `bun:"adjusted_gross_score,nullzero"`
	CreatedAt          time.Time               `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt          time.Time               `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
	CompletedAt        *time.Time              `bun:"completed_at,nullzero"`
}

func rowFromDomain(round *roundtypes.Round) *Round {
	return &Round{
		ID:                 round.ID,
		UserID:             round.UserID,
		CourseID:           round.CourseID,
		TeeType:            round.TeeType,
		NumberOfHoles:      round.NumberOfHoles,
		CourseRating:       round.CourseRating,
		SlopeRating:        round.SlopeRating,
		CoursePar:          round.CoursePar,
		HoleScores:         round.HoleScores,
		Status:             round.Status,
		AdjustedGrossScore: round.AdjustedGrossScore,
		CreatedAt:          round.CreatedAt,
		UpdatedAt:          round.UpdatedAt,
		CompletedAt:        round.CompletedAt,
	}
}

// toDomain rebuilds the domain round. Derived totals are recomputed from the
// hole scores rather than trusted from storage, so a corrupted persisted
// total is confined to a single read.
func (r *Round) toDomain() *roundtypes.Round {
	round := &roundtypes.Round{
		ID:                 r.ID,
		UserID:             r.UserID,
		CourseID:           r.CourseID,
		TeeType:            r.TeeType,
		NumberOfHoles:      r.NumberOfHoles,
		CourseRating:       r.CourseRating,
		SlopeRating:        r.SlopeRating,
		CoursePar:          r.CoursePar,
		HoleScores:         r.HoleScores,
		Status:             r.Status,
		AdjustedGrossScore: r.AdjustedGrossScore,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
		CompletedAt:        r.CompletedAt,
	}
	round.RecomputeTotals()
	return round
}
