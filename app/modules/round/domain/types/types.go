package roundtypes

import (
	"time"

	"github.com/fairway-club/round-engine/app/shared/sharedtypes"
)

// Stroke bounds for a played hole. Zero strokes is the "unplayed" sentinel and
// is never accepted as caller input.
const (
	MinStrokes = 1
	MaxStrokes = 12
)

// Slope rating bounds per the USGA course rating system.
const (
	MinSlopeRating = 55
	MaxSlopeRating = 155
)

// TeeType identifies the tee set a round is played from.
type TeeType string

const (
	TeeChampionship TeeType = "CHAMPIONSHIP"
	TeeBack         TeeType = "BACK"
	TeeRegular      TeeType = "REGULAR"
	TeeForward      TeeType = "FORWARD"
	TeeSenior       TeeType = "SENIOR"
	TeeJunior       TeeType = "JUNIOR"
)

// Valid reports whether t is a known tee type.
func (t TeeType) Valid() bool {
	switch t {
	case TeeChampionship, TeeBack, TeeRegular, TeeForward, TeeSenior, TeeJunior:
		return true
	}
	return false
}

// RoundStatus represents the lifecycle state of a round.
type RoundStatus string

const (
	RoundStatusNotStarted RoundStatus = "NOT_STARTED"
	RoundStatusInProgress RoundStatus = "IN_PROGRESS"
	RoundStatusCompleted  RoundStatus = "COMPLETED"
)

// ShotResult describes where a single stroke ended up.
type ShotResult string

const (
	ShotResultFairway     ShotResult = "FAIRWAY"
	ShotResultRough       ShotResult = "ROUGH"
	ShotResultSand        ShotResult = "SAND"
	ShotResultGreen       ShotResult = "GREEN"
	ShotResultHazard      ShotResult = "HAZARD"
	ShotResultOutOfBounds ShotResult = "OUT_OF_BOUNDS"
	ShotResultHoled       ShotResult = "HOLED"
)

// Coordinate is a GPS position captured with a shot.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Shot is one stroke within a hole. Append-only: never mutated after capture.
type Shot struct {
	ShotNumber    int         `json:"shot_number"`
	Club          *string     `json:"club,omitempty"`
	DistanceToPin *float64    `json:"distance_to_pin,omitempty"`
	Result        ShotResult  `json:"result"`
	Location      *Coordinate `json:"location,omitempty"`
}

// HoleScore is one hole's result within a round. Strokes == 0 means the hole
// has not been played yet.
type HoleScore struct {
	HoleNumber        int    `json:"hole_number"`
	Par               int    `json:"par"`
	Yardage           int    `json:"yardage"`
	HoleHandicapIndex int    `json:"hole_handicap_index"`
	Strokes           int    `json:"strokes"`
	Putts             *int   `json:"putts,omitempty"`
	Penalties         int    `json:"penalties"`
	FairwayHit        *bool  `json:"fairway_hit,omitempty"`
	GreenInRegulation *bool  `json:"green_in_regulation,omitempty"`
	Shots             []Shot `json:"shots,omitempty"`
}

// Played reports whether a score has been recorded for the hole.
func (h HoleScore) Played() bool { return h.Strokes > 0 }

// HoleDefinition is the course-supplied layout for one hole, used to
// pre-populate hole scores at round start.
type HoleDefinition struct {
	HoleNumber    int `json:"hole_number"`
	Par           int `json:"par"`
	Yardage       int `json:"yardage"`
	HandicapIndex int `json:"handicap_index"`
}

// Round is a single played round, owned by one user for its lifetime.
type Round struct {
	ID            sharedtypes.RoundID  `json:"id"`
	UserID        sharedtypes.UserID   `json:"user_id"`
	CourseID      sharedtypes.CourseID `json:"course_id"`
	TeeType       TeeType              `json:"tee_type"`
	NumberOfHoles int                  `json:"number_of_holes"`
	CourseRating  float64              `json:"course_rating"`
	SlopeRating   int                  `json:"slope_rating"`
	CoursePar     int                  `json:"course_par"`
	HoleScores    []HoleScore          `json:"hole_scores"`
	Status        RoundStatus          `json:"status"`

	// Derived fields, recomputed on every mutation. Never settable directly.
	TotalScore         int `json:"total_score"`
	TotalPar           int `json:"total_par"`
	ScoreToPar         int `json:"score_to_par"`
	CompletedHoleCount int `json:"completed_hole_count"`

	AdjustedGrossScore *int `json:"adjusted_gross_score,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// IsInProgress reports whether the round still accepts score mutations.
func (r *Round) IsInProgress() bool { return r.Status == RoundStatusInProgress }

// IsCompleted reports whether the round is frozen history.
func (r *Round) IsCompleted() bool { return r.Status == RoundStatusCompleted }

// Hole returns a pointer to the score record for the given hole number, or
// nil when the number is out of range.
func (r *Round) Hole(holeNumber int) *HoleScore {
	if holeNumber < 1 || holeNumber > len(r.HoleScores) {
		return nil
	}
	return &r.HoleScores[holeNumber-1]
}

// RecomputeTotals rebuilds every derived field from the hole scores. The
// rebuild is unconditional and total: rounds hold at most 18 holes, so a full
// pass is cheaper than tracking deltas and cannot drift.
func (r *Round) RecomputeTotals() {
	totalScore, totalPar, completed := 0, 0, 0
	for _, h := range r.HoleScores {
		if !h.Played() {
			continue
		}
		totalScore += h.Strokes
		totalPar += h.Par
		completed++
	}
	r.TotalScore = totalScore
	r.TotalPar = totalPar
	r.ScoreToPar = totalScore - totalPar
	r.CompletedHoleCount = completed
}

// AllHolesPlayed reports whether every hole has a recorded score.
func (r *Round) AllHolesPlayed() bool {
	for _, h := range r.HoleScores {
		if !h.Played() {
			return false
		}
	}
	return true
}

// StartRoundInput carries everything needed to start a round.
type StartRoundInput struct {
	UserID       sharedtypes.UserID   `json:"user_id"`
	CourseID     sharedtypes.CourseID `json:"course_id"`
	TeeType      TeeType              `json:"tee_type"`
	CourseRating float64              `json:"course_rating"`
	SlopeRating  int                  `json:"slope_rating"`
	Holes        []HoleDefinition     `json:"holes"`
}

// UpdateHoleScoreInput carries one hole-score mutation.
type UpdateHoleScoreInput struct {
	HoleNumber        int    `json:"hole_number"`
	Strokes           int    `json:"strokes"`
	Putts             *int   `json:"putts,omitempty"`
	Penalties         *int   `json:"penalties,omitempty"`
	FairwayHit        *bool  `json:"fairway_hit,omitempty"`
	GreenInRegulation *bool  `json:"green_in_regulation,omitempty"`
	Shots             []Shot `json:"shots,omitempty"`
}
