package roundservice

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	roundevents "github.com/fairway-club/round-engine/app/modules/round/domain/events"
	roundtypes "github.com/fairway-club/round-engine/app/modules/round/domain/types"
)

func ptr[T any](v T) *T { return &v }

func TestUpdateHoleScore(t *testing.T) {
	f := newTestFixture()
	round, err := f.svc.StartRound(context.Background(), validStartInput())
	require.NoError(t, err)

	updated, err := f.svc.UpdateHoleScore(context.Background(), round.ID, roundtypes.UpdateHoleScoreInput{
		HoleNumber: 3,
		Strokes:    5,
		Putts:      ptr(2),
		FairwayHit: ptr(true),
	})
	require.NoError(t, err)

	hole := updated.Hole(3)
	require.NotNil(t, hole)
	assert.Equal(t, 5, hole.Strokes)
	assert.Equal(t, 2, *hole.Putts)
	assert.True(t, *hole.FairwayHit)

	assert.Equal(t, 5, updated.TotalScore)
	assert.Equal(t, 1, updated.ScoreToPar, "one played par 4 in 5 strokes")
	assert.Equal(t, 1, updated.CompletedHoleCount)

	assert.Equal(t, 1, f.bus.count(roundevents.HoleScoreUpdatedTopic))
}

func TestUpdateHoleScore_CorrectionReplacesRecord(t *testing.T) {
	f := newTestFixture()
	round, err := f.svc.StartRound(context.Background(), validStartInput())
	require.NoError(t, err)

	_, err = f.svc.UpdateHoleScore(context.Background(), round.ID, roundtypes.UpdateHoleScoreInput{
		HoleNumber: 1,
		Strokes:    7,
		Putts:      ptr(3),
		Penalties:  ptr(1),
	})
	require.NoError(t, err)

	// The correction omits putts and penalties, which must not linger.
	updated, err := f.svc.UpdateHoleScore(context.Background(), round.ID, roundtypes.UpdateHoleScoreInput{
		HoleNumber: 1,
		Strokes:    4,
	})
	require.NoError(t, err)

	hole := updated.Hole(1)
	assert.Equal(t, 4, hole.Strokes)
	assert.Nil(t, hole.Putts)
	assert.Equal(t, 0, hole.Penalties)
	assert.Equal(t, 4, updated.TotalScore)
}

func TestUpdateHoleScore_Rejections(t *testing.T) {
	f := newTestFixture()
	round, err := f.svc.StartRound(context.Background(), validStartInput())
	require.NoError(t, err)

	_, err = f.svc.UpdateHoleScore(context.Background(), round.ID, roundtypes.UpdateHoleScoreInput{HoleNumber: 1, Strokes: 0})
	assert.ErrorIs(t, err, ErrInvalidStrokes)

	_, err = f.svc.UpdateHoleScore(context.Background(), round.ID, roundtypes.UpdateHoleScoreInput{HoleNumber: 1, Strokes: 13})
	assert.ErrorIs(t, err, ErrInvalidStrokes)

	_, err = f.svc.UpdateHoleScore(context.Background(), round.ID, roundtypes.UpdateHoleScoreInput{HoleNumber: 10, Strokes: 4})
	assert.ErrorIs(t, err, ErrInvalidHole)

	_, err = f.svc.UpdateHoleScore(context.Background(), round.ID, roundtypes.UpdateHoleScoreInput{HoleNumber: 1, Strokes: 4, Putts: ptr(-1)})
	assert.ErrorIs(t, err, ErrInvalidStrokes)
}

func TestUpdateHoleScore_CompletedRoundIsFrozen(t *testing.T) {
	f := newTestFixture()
	round := playAndComplete(t, f, 4)

	_, err := f.svc.UpdateHoleScore(context.Background(), round.ID, roundtypes.UpdateHoleScoreInput{
		HoleNumber: 1,
		Strokes:    3,
	})
	assert.ErrorIs(t, err, ErrRoundNotActive)
}

func TestClearHoleScore(t *testing.T) {
	f := newTestFixture()
	round, err := f.svc.StartRound(context.Background(), validStartInput())
	require.NoError(t, err)

	_, err = f.svc.UpdateHoleScore(context.Background(), round.ID, roundtypes.UpdateHoleScoreInput{
		HoleNumber: 2,
		Strokes:    6,
		Putts:      ptr(2),
		Penalties:  ptr(1),
		FairwayHit: ptr(false),
	})
	require.NoError(t, err)

	cleared, err := f.svc.ClearHoleScore(context.Background(), round.ID, 2)
	require.NoError(t, err)

	hole := cleared.Hole(2)
	assert.False(t, hole.Played())
	assert.Nil(t, hole.Putts)
	assert.Equal(t, 0, hole.Penalties)
	assert.Nil(t, hole.FairwayHit)
	assert.Equal(t, 0, cleared.TotalScore)
	assert.Equal(t, 0, cleared.CompletedHoleCount)

	assert.Equal(t, 1, f.bus.count(roundevents.HoleScoreClearedTopic))
}

func TestAppendShot(t *testing.T) {
	f := newTestFixture()
	round, err := f.svc.StartRound(context.Background(), validStartInput())
	require.NoError(t, err)

	updated, err := f.svc.AppendShot(context.Background(), round.ID, 1, roundtypes.Shot{
		Club:          ptr("Driver"),
		DistanceToPin: ptr(120.0),
		Result:        roundtypes.ShotResultFairway,
	})
	require.NoError(t, err)

	hole := updated.Hole(1)
	require.Len(t, hole.Shots, 1)
	assert.Equal(t, 1, hole.Shots[0].ShotNumber, "shot number assigned on append")
	assert.Equal(t, 0, hole.Strokes, "shots never touch the stroke count")

	updated, err = f.svc.AppendShot(context.Background(), round.ID, 1, roundtypes.Shot{
		Result: roundtypes.ShotResultGreen,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Hole(1).Shots[1].ShotNumber)

	_, err = f.svc.AppendShot(context.Background(), round.ID, 1, roundtypes.Shot{})
	assert.ErrorIs(t, err, ErrInvalidShot)
}

// Concurrent updates to the same round must serialize: every mutation lands
// and the derived totals match the final hole records.
func TestUpdateHoleScore_ConcurrentUpdatesSerialize(t *testing.T) {
	f := newTestFixture()
	round, err := f.svc.StartRound(context.Background(), validStartInput())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for hole := 1; hole <= 9; hole++ {
		wg.Add(1)
		go func(hole int) {
			defer wg.Done()
			_, err := f.svc.UpdateHoleScore(context.Background(), round.ID, roundtypes.UpdateHoleScoreInput{
				HoleNumber: hole,
				Strokes:    4,
			})
			assert.NoError(t, err)
		}(hole)
	}
	wg.Wait()

	final, err := f.svc.GetRound(context.Background(), round.ID)
	require.NoError(t, err)
	assert.Equal(t, 36, final.TotalScore)
	assert.Equal(t, 9, final.CompletedHoleCount)
	assert.True(t, final.AllHolesPlayed())
}
