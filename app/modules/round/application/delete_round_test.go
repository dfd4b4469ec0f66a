package roundservice

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	roundevents "github.com/fairway-club/round-engine/app/modules/round/domain/events"
	rounddb "github.com/fairway-club/round-engine/app/modules/round/infrastructure/repositories"
	"github.com/fairway-club/round-engine/app/shared/sharedtypes"
)

func TestDeleteRound_InProgress(t *testing.T) {
	f := newTestFixture()
	round, err := f.svc.StartRound(context.Background(), validStartInput())
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteRound(context.Background(), round.ID))

	_, err = f.svc.GetRound(context.Background(), round.ID)
	assert.ErrorIs(t, err, rounddb.ErrRoundNotFound)
	assert.Equal(t, 1, f.bus.count(roundevents.RoundDeletedTopic))
}

func TestDeleteRound_Completed(t *testing.T) {
	f := newTestFixture()
	round := playAndComplete(t, f, 4)

	require.NoError(t, f.svc.DeleteRound(context.Background(), round.ID))

	_, err := f.svc.GetRound(context.Background(), round.ID)
	assert.ErrorIs(t, err, rounddb.ErrRoundNotFound)
}

func TestDeleteRound_Missing(t *testing.T) {
	f := newTestFixture()

	err := f.svc.DeleteRound(context.Background(), sharedtypes.NewRoundID())
	assert.ErrorIs(t, err, rounddb.ErrRoundNotFound)
	assert.Equal(t, 0, f.bus.count(roundevents.RoundDeletedTopic))
}
