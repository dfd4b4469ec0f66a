package roundtests

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	roundtypes "github.com/fairway-club/round-engine/app/modules/round/domain/types"
	rounddb "github.com/fairway-club/round-engine/app/modules/round/infrastructure/repositories"
	"github.com/fairway-club/round-engine/integration_tests/testutils"
)

func TestRoundRepository_SaveAndGetRoundTrip(t *testing.T) {
	db := testutils.SetupTestDB(t)
	testutils.TruncateTables(t, db)

	gen := testutils.NewTestDataGenerator(42)
	repo := &rounddb.RoundDBImpl{DB: db}
	ctx := context.Background()

	round := gen.GenerateCompletedRound(gen.GenerateUserID(), 18, 3)
	require.NoError(t, repo.SaveRound(ctx, round))

	loaded, err := repo.GetRound(ctx, round.ID)
	require.NoError(t, err)

	assert.Equal(t, round.ID, loaded.ID)
	assert.Equal(t, round.UserID, loaded.UserID)
	assert.Equal(t, round.Status, loaded.Status)
	if diff := cmp.Diff(round.HoleScores, loaded.HoleScores); diff != "" {
		t.Errorf("hole scores changed across the jsonb round trip (-saved +loaded):\n%s", diff)
	}
	assert.Equal(t, round.TotalScore, loaded.TotalScore, "derived totals rebuilt on read (seed %d)", gen.Seed())
	require.NotNil(t, loaded.AdjustedGrossScore)
	assert.Equal(t, *round.AdjustedGrossScore, *loaded.AdjustedGrossScore)
}

func TestRoundRepository_UpdatePersistsHoleScores(t *testing.T) {
	db := testutils.SetupTestDB(t)
	testutils.TruncateTables(t, db)

	gen := testutils.NewTestDataGenerator(42)
	repo := &rounddb.RoundDBImpl{DB: db}
	ctx := context.Background()

	round := gen.GenerateCompletedRound(gen.GenerateUserID(), 9, 1)
	round.Status = roundtypes.RoundStatusInProgress
	round.CompletedAt = nil
	round.AdjustedGrossScore = nil
	require.NoError(t, repo.SaveRound(ctx, round))

	round.HoleScores[0].Strokes = 7
	round.RecomputeTotals()
	require.NoError(t, repo.UpdateRound(ctx, round))

	loaded, err := repo.GetRound(ctx, round.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, loaded.HoleScores[0].Strokes)
	assert.Equal(t, round.TotalScore, loaded.TotalScore)
}

func TestRoundRepository_GetActiveRoundForCourse(t *testing.T) {
	db := testutils.SetupTestDB(t)
	testutils.TruncateTables(t, db)

	gen := testutils.NewTestDataGenerator(7)
	repo := &rounddb.RoundDBImpl{DB: db}
	ctx := context.Background()

	userID := gen.GenerateUserID()
	active := gen.GenerateCompletedRound(userID, 9, 0)
	active.Status = roundtypes.RoundStatusInProgress
	active.CompletedAt = nil
	active.AdjustedGrossScore = nil
	require.NoError(t, repo.SaveRound(ctx, active))

	found, err := repo.GetActiveRoundForCourse(ctx, userID, active.CourseID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, active.ID, found.ID)

	// Other course and other user both come back empty.
	none, err := repo.GetActiveRoundForCourse(ctx, userID, "course-elsewhere")
	require.NoError(t, err)
	assert.Nil(t, none)

	none, err = repo.GetActiveRoundForCourse(ctx, gen.GenerateUserID(), active.CourseID)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestRoundRepository_GetRecentCompletedRounds(t *testing.T) {
	db := testutils.SetupTestDB(t)
	testutils.TruncateTables(t, db)

	gen := testutils.NewTestDataGenerator(99)
	repo := &rounddb.RoundDBImpl{DB: db}
	ctx := context.Background()

	userID := gen.GenerateUserID()
	inWindow := []*roundtypes.Round{
		gen.GenerateCompletedRound(userID, 18, 1),
		gen.GenerateCompletedRound(userID, 18, 5),
		gen.GenerateCompletedRound(userID, 18, 20),
	}
	outOfWindow := gen.GenerateCompletedRound(userID, 18, 400)
	someoneElse := gen.GenerateCompletedRound(gen.GenerateUserID(), 18, 2)
	for _, r := range append(inWindow, outOfWindow, someoneElse) {
		require.NoError(t, repo.SaveRound(ctx, r))
	}

	rounds, err := repo.GetRecentCompletedRounds(ctx, userID, 365, 0)
	require.NoError(t, err)
	require.Len(t, rounds, 3)

	// Most recently completed first.
	assert.Equal(t, inWindow[0].ID, rounds[0].ID)
	assert.Equal(t, inWindow[1].ID, rounds[1].ID)
	assert.Equal(t, inWindow[2].ID, rounds[2].ID)

	limited, err := repo.GetRecentCompletedRounds(ctx, userID, 365, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestRoundRepository_DeleteRemovesRow(t *testing.T) {
	db := testutils.SetupTestDB(t)
	testutils.TruncateTables(t, db)

	gen := testutils.NewTestDataGenerator(13)
	repo := &rounddb.RoundDBImpl{DB: db}
	ctx := context.Background()

	round := gen.GenerateCompletedRound(gen.GenerateUserID(), 9, 0)
	require.NoError(t, repo.SaveRound(ctx, round))
	require.NoError(t, repo.DeleteRound(ctx, round.ID))

	_, err := repo.GetRound(ctx, round.ID)
	assert.ErrorIs(t, err, rounddb.ErrRoundNotFound)
	assert.ErrorIs(t, repo.DeleteRound(ctx, round.ID), rounddb.ErrRoundNotFound)
}
