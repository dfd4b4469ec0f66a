package statsdb

import (
	"time"

	"github.com/uptrace/bun"

	statstypes "github.com/fairway-club/round-engine/app/modules/statistics/domain/types"
	"github.com/fairway-club/round-engine/app/shared/sharedtypes"
)

// RoundStatisticsRow is the bun row model for one cached statistics entry.
type RoundStatisticsRow struct {
	bun.BaseModel `bun:"table:round_statistics,alias:rs"`

	RoundID    sharedtypes.RoundID         `bun:"round_id,pk,type:uuid"`
	Statistics statstypes.RoundStatistics  `bun:"statistics,type:jsonb"`
	ComputedAt time.Time                   `bun:"computed_at,notnull"`
}
