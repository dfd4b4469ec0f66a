package handicapcalc

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	roundtypes "github.com/fairway-club/round-engine/app/modules/round/domain/types"
)

func TestDifferential(t *testing.T) {
	tests := []struct {
		name          string
		adjustedGross int
		courseRating  float64
		slopeRating   int
		want          float64
	}{
		{
			name:          "standard slope is a straight subtraction",
			adjustedGross: 85,
			courseRating:  72.0,
			slopeRating:   113,
			want:          13.0,
		},
		{
			name:          "high slope shrinks the differential",
			adjustedGross: 90,
			courseRating:  71.2,
			slopeRating:   130,
			want:          (113.0 / 130.0) * (90 - 71.2),
		},
		{
			name:          "score under rating yields a negative differential",
			adjustedGross: 70,
			courseRating:  72.5,
			slopeRating:   120,
			want:          (113.0 / 120.0) * (70 - 72.5),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Differential(tt.adjustedGross, tt.courseRating, tt.slopeRating)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestSelectionCount(t *testing.T) {
	// n -> expected count per the USGA table.
	expected := map[int]int{
		3: 1, 4: 1,
		5: 2, 6: 2,
		7: 3, 8: 3,
		9: 4, 10: 4,
		11: 5, 12: 5,
		13: 6, 14: 6,
		15: 7, 16: 7,
		17: 8, 18: 8,
		19: 9,
		20: 10, 25: 10,
	}
	for n, want := range expected {
		assert.Equal(t, want, SelectionCount(n), "n=%d", n)
	}
}

func TestIndexFromDifferentials(t *testing.T) {
	t.Run("three rounds use only the best differential", func(t *testing.T) {
		index, err := IndexFromDifferentials([]float64{5.0, 8.0, 12.0})
		require.NoError(t, err)
		assert.InDelta(t, 5.0*0.96, index, 1e-9)
	})

	t.Run("fewer than three rounds fails", func(t *testing.T) {
		_, err := IndexFromDifferentials([]float64{5.0, 8.0})
		require.ErrorIs(t, err, ErrInsufficientRounds)
	})

	t.Run("five rounds average the best two", func(t *testing.T) {
		index, err := IndexFromDifferentials([]float64{20.0, 10.0, 14.0, 8.0, 16.0})
		require.NoError(t, err)
		assert.InDelta(t, ((8.0+10.0)/2)*0.96, index, 1e-9)
	})

	t.Run("only the twenty most recent differentials count", func(t *testing.T) {
		// Most recent first: twenty 10.0s, then an ancient 1.0 that must be
		// ignored.
		diffs := make([]float64, 0, 21)
		for i := 0; i < 20; i++ {
			diffs = append(diffs, 10.0)
		}
		diffs = append(diffs, 1.0)

		index, err := IndexFromDifferentials(diffs)
		require.NoError(t, err)
		assert.InDelta(t, 10.0*0.96, index, 1e-9)
	})

	t.Run("index clamps to zero for plus players", func(t *testing.T) {
		index, err := IndexFromDifferentials([]float64{-4.0, -2.0, -3.0})
		require.NoError(t, err)
		assert.Equal(t, 0.0, index)
	})

	t.Run("index clamps to the 54.0 ceiling", func(t *testing.T) {
		index, err := IndexFromDifferentials([]float64{80.0, 85.0, 90.0})
		require.NoError(t, err)
		assert.Equal(t, 54.0, index)
	})
}

func TestCourseHandicap(t *testing.T) {
	tests := []struct {
		name  string
		index float64
		slope int
		want  int
	}{
		{"standard slope is the index rounded", 10.4, 113, 10},
		{"half rounds away from zero", 10.5, 113, 11}, // exactly 10.5
		{"slope 130 at index 10", 10.0, 130, 12},     // 11.504... rounds up
		{"steep course inflates strokes", 20.0, 140, 25}, // 24.77...
		{"zero index receives nothing", 0.0, 155, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CourseHandicap(tt.index, tt.slope))
		})
	}
}

func TestPlayingHandicap(t *testing.T) {
	assert.Equal(t, 11, PlayingHandicap(11, nil))

	halved := func(ch int) int { return int(math.Round(float64(ch) * 0.5)) }
	assert.Equal(t, 6, PlayingHandicap(11, halved))
}

func TestStrokesReceived_AllocationIsExact(t *testing.T) {
	// Summed over all holes, strokes received must equal the course handicap
	// exactly: no strokes lost, none duplicated.
	for _, numberOfHoles := range []int{9, 18} {
		for courseHandicap := 0; courseHandicap <= 2*numberOfHoles+5; courseHandicap++ {
			total := 0
			for idx := 1; idx <= numberOfHoles; idx++ {
				total += StrokesReceived(courseHandicap, numberOfHoles, idx)
			}
			assert.Equal(t, courseHandicap, total,
				"holes=%d courseHandicap=%d", numberOfHoles, courseHandicap)
		}
	}
}

func TestStrokesReceived(t *testing.T) {
	tests := []struct {
		name           string
		courseHandicap int
		holes          int
		holeIndex      int
		want           int
	}{
		{"hardest hole gets the first stroke", 1, 18, 1, 1},
		{"easiest hole gets nothing at low handicaps", 1, 18, 18, 0},
		{"handicap 11 reaches hole index 11", 11, 18, 11, 1},
		{"handicap 11 skips hole index 12", 11, 18, 12, 0},
		{"second pass on hardest hole above 18", 20, 18, 1, 2},
		{"single stroke on easy holes above 18", 20, 18, 10, 1},
		{"plus handicap receives nothing", -3, 18, 1, 0},
		{"nine hole allocation", 10, 9, 1, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StrokesReceived(tt.courseHandicap, tt.holes, tt.holeIndex))
		})
	}
}

func TestCappedHoleScore(t *testing.T) {
	// Net double bogey: par + 2 + strokes received.
	assert.Equal(t, 6, CappedHoleScore(6, 4, 0), "at the cap stays put")
	assert.Equal(t, 6, CappedHoleScore(10, 4, 0), "blowup capped to net double bogey")
	assert.Equal(t, 7, CappedHoleScore(9, 4, 1), "received stroke raises the cap")
	assert.Equal(t, 3, CappedHoleScore(3, 4, 0), "scores under the cap pass through")
}

func TestAdjustedGrossScore(t *testing.T) {
	holes := make([]roundtypes.HoleScore, 18)
	for i := range holes {
		holes[i] = roundtypes.HoleScore{
			HoleNumber:        i + 1,
			Par:               4,
			HoleHandicapIndex: i + 1,
			Strokes:           5,
		}
	}
	// Two disaster holes.
	holes[2].Strokes = 12
	holes[9].Strokes = 11

	const courseHandicap = 11

	got := AdjustedGrossScore(holes, courseHandicap)

	// Per-hole contributions never exceed par + 2 + strokes received.
	want := 0
	for _, h := range holes {
		received := StrokesReceived(courseHandicap, 18, h.HoleHandicapIndex)
		capped := h.Par + 2 + received
		if h.Strokes < capped {
			capped = h.Strokes
		}
		want += capped
	}
	assert.Equal(t, want, got)

	// Both disaster holes were actually capped.
	gross := 0
	for _, h := range holes {
		gross += h.Strokes
	}
	assert.Less(t, got, gross)
}
