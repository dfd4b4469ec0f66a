package handicapdb

import (
	"time"

	"github.com/uptrace/bun"

	handicaptypes "github.com/fairway-club/round-engine/app/modules/handicap/domain/types"
	"github.com/fairway-club/round-engine/app/shared/sharedtypes"
)

// HandicapRecord is the bun row model for an index snapshot. Differentials
// are embedded as jsonb: they are an audit trail read back as a unit.
type HandicapRecord struct {
	bun.BaseModel `bun:"table:handicap_records,alias:hr"`

	ID            sharedtypes.RecordID                 `bun:"id,pk,type:uuid"`
	UserID        sharedtypes.UserID                   `bun:"user_id,notnull"`
	HandicapIndex float64                              `bun:"handicap_index,notnull"`
	ComputedAt    time.Time                            `bun:"computed_at,notnull"`
	RoundsUsed    int                                  `bun:"rounds_used,notnull"`
	Differentials []handicaptypes.HandicapDifferential `bun:"differentials,type:jsonb"`
}

func rowFromDomain(record *handicaptypes.HandicapRecord) *HandicapRecord {
	return &HandicapRecord{
		ID:            record.ID,
		UserID:        record.UserID,
		HandicapIndex: record.HandicapIndex,
		ComputedAt:    record.ComputedAt,
		RoundsUsed:    record.RoundsUsed,
		Differentials: record.Differentials,
	}
}

func (r *HandicapRecord) toDomain() *handicaptypes.HandicapRecord {
	return &handicaptypes.HandicapRecord{
		ID:            r.ID,
		UserID:        r.UserID,
		HandicapIndex: r.HandicapIndex,
		ComputedAt:    r.ComputedAt,
		RoundsUsed:    r.RoundsUsed,
		Differentials: r.Differentials,
	}
}
