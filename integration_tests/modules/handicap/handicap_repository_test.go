package handicaptests

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	handicapdb "github.com/fairway-club/round-engine/app/modules/handicap/infrastructure/repositories"
	roundtypes "github.com/fairway-club/round-engine/app/modules/round/domain/types"
	"github.com/fairway-club/round-engine/integration_tests/testutils"
)

func TestHandicapRepository_AppendAndReadBack(t *testing.T) {
	db := testutils.SetupTestDB(t)
	testutils.TruncateTables(t, db)

	gen := testutils.NewTestDataGenerator(42)
	repo := &handicapdb.HandicapDBImpl{DB: db}
	ctx := context.Background()

	userID := gen.GenerateUserID()
	rounds := []roundtypes.Round{
		*gen.GenerateCompletedRound(userID, 18, 10),
		*gen.GenerateCompletedRound(userID, 18, 5),
		*gen.GenerateCompletedRound(userID, 18, 1),
	}

	first := gen.GenerateHandicapRecord(userID, rounds[:2])
	first.ComputedAt = time.Now().UTC().Add(-time.Hour)
	second := gen.GenerateHandicapRecord(userID, rounds)
	require.NoError(t, repo.SaveRecord(ctx, first))
	require.NoError(t, repo.SaveRecord(ctx, second))

	latest, err := repo.GetLatestRecord(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)
	assert.InDelta(t, second.HandicapIndex, latest.HandicapIndex, 0.001)
	assert.Len(t, latest.Differentials, 3, "differentials survive the jsonb round trip (seed %d)", gen.Seed())

	history, err := repo.GetRecords(ctx, userID, 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, second.ID, history[0].ID)
	assert.Equal(t, first.ID, history[1].ID)

	capped, err := repo.GetRecords(ctx, userID, 1)
	require.NoError(t, err)
	require.Len(t, capped, 1)
	assert.Equal(t, second.ID, capped[0].ID)
}

func TestHandicapRepository_NoRecordForUser(t *testing.T) {
	db := testutils.SetupTestDB(t)
	testutils.TruncateTables(t, db)

	repo := &handicapdb.HandicapDBImpl{DB: db}

	_, err := repo.GetLatestRecord(context.Background(), "user-without-history")
	assert.ErrorIs(t, err, handicapdb.ErrRecordNotFound)

	records, err := repo.GetRecords(context.Background(), "user-without-history", 5)
	require.NoError(t, err)
	assert.Empty(t, records)
}
