package handicapcalc

import (
	"errors"
	"math"
	"sort"

	roundtypes "github.com/fairway-club/round-engine/app/modules/round/domain/types"
)

// USGA handicap system constants.
const (
	// SlopeBase is the slope rating of a course of standard difficulty.
	SlopeBase = 113.0

	// BonusMultiplier scales the average of the selected differentials.
	BonusMultiplier = 0.96

	// MinQualifyingRounds is the minimum history required to compute an index.
	MinQualifyingRounds = 3

	// MaxDifferentials caps how many recent rounds feed the computation.
	MaxDifferentials = 20

	// Index clamp bounds.
	MinIndex = 0.0
	MaxIndex = 54.0
)

// ErrInsufficientRounds is returned when fewer than MinQualifyingRounds
// qualifying rounds exist. Expected while a player accumulates history; not a
// failure to retry.
var ErrInsufficientRounds = errors.New("not enough qualifying rounds to compute a handicap index")

// Differential computes a single round's contribution to the index:
// (113 / slope) * (adjusted gross - course rating).
func Differential(adjustedGross int, courseRating float64, slopeRating int) float64 {
	return (SlopeBase / float64(slopeRating)) * (float64(adjustedGross) - courseRating)
}

// SelectionCount returns how many of the lowest differentials are averaged
// for n qualifying rounds, per the fixed USGA table.
func SelectionCount(n int) int {
	switch {
	case n >= 20:
		return 10
	case n == 19:
		return 9
	case n >= 17:
		return 8
	case n >= 15:
		return 7
	case n >= 13:
		return 6
	case n >= 11:
		return 5
	case n >= 9:
		return 4
	case n >= 7:
		return 3
	case n >= 5:
		return 2
	default:
		return 1
	}
}

// IndexFromDifferentials computes the handicap index from differentials
// ordered most recent first. Only the first MaxDifferentials entries are
// considered. Returns ErrInsufficientRounds when fewer than
// MinQualifyingRounds are supplied.
func IndexFromDifferentials(differentials []float64) (float64, error) {
	if len(differentials) < MinQualifyingRounds {
		return 0, ErrInsufficientRounds
	}

	recent := differentials
	if len(recent) > MaxDifferentials {
		recent = recent[:MaxDifferentials]
	}

	sorted := make([]float64, len(recent))
	copy(sorted, recent)
	sort.Float64s(sorted)

	count := SelectionCount(len(sorted))
	sum := 0.0
	for _, d := range sorted[:count] {
		sum += d
	}

	index := (sum / float64(count)) * BonusMultiplier
	return clampIndex(index), nil
}

func clampIndex(index float64) float64 {
	return math.Min(MaxIndex, math.Max(MinIndex, index))
}

// CourseHandicap converts a handicap index into whole strokes received at a
// course: round(index * slope / 113), ties rounding half away from zero.
// math.Round implements exactly that; banker's rounding would diverge from
// the published USGA tables.
func CourseHandicap(index float64, slopeRating int) int {
	return int(math.Round(index * float64(slopeRating) / SlopeBase))
}

// AllowanceFunc adjusts a course handicap for a playing format.
type AllowanceFunc func(courseHandicap int) int

// PlayingHandicap applies the format allowance to a course handicap. For
// standard stroke play the allowance is the identity function; pass nil to
// use it.
func PlayingHandicap(courseHandicap int, allowance AllowanceFunc) int {
	if allowance == nil {
		return courseHandicap
	}
	return allowance(courseHandicap)
}

// StrokesReceived returns the handicap strokes a player receives on one hole.
// Every hole gets floor(ch/n) strokes; the remainder is handed out one stroke
// at a time in stroke-allocation order (lowest hole handicap index first).
// Plus-handicap players receive no strokes.
func StrokesReceived(courseHandicap, numberOfHoles, holeHandicapIndex int) int {
	if courseHandicap <= 0 || numberOfHoles <= 0 {
		return 0
	}
	strokes := courseHandicap / numberOfHoles
	if holeHandicapIndex <= courseHandicap%numberOfHoles {
		strokes++
	}
	return strokes
}

// CappedHoleScore bounds one hole's score at net double bogey:
// par + 2 + strokes received.
func CappedHoleScore(strokes, par, strokesReceived int) int {
	cap := par + 2 + strokesReceived
	if strokes > cap {
		return cap
	}
	return strokes
}

// AdjustedGrossScore sums the net-double-bogey capped scores over all holes,
// bounding the effect of disaster holes on the index. Requires every hole to
// have a recorded score.
func AdjustedGrossScore(holes []roundtypes.HoleScore, courseHandicap int) int {
	total := 0
	for _, h := range holes {
		received := StrokesReceived(courseHandicap, len(holes), h.HoleHandicapIndex)
		total += CappedHoleScore(h.Strokes, h.Par, received)
	}
	return total
}
