package handicapdb

import (
	"context"
	"errors"

	handicaptypes "github.com/fairway-club/round-engine/app/modules/handicap/domain/types"
	"github.com/fairway-club/round-engine/app/shared/sharedtypes"
)

// ErrRecordNotFound is returned when a user has no stored handicap record.
var ErrRecordNotFound = errors.New("handicap record not found")

// HandicapDB is the persistence port for handicap records. Records are
// append-only snapshots; there is no update operation.
type HandicapDB interface {
	// SaveRecord inserts a new index snapshot.
	SaveRecord(ctx context.Context, record *handicaptypes.HandicapRecord) error

	// GetLatestRecord returns the most recent snapshot for the user, or
	// ErrRecordNotFound when none exists.
	GetLatestRecord(ctx context.Context, userID sharedtypes.UserID) (*handicaptypes.HandicapRecord, error)

	// GetRecords returns snapshots most recent first, capped at limit.
	GetRecords(ctx context.Context, userID sharedtypes.UserID, limit int) ([]handicaptypes.HandicapRecord, error)
}
