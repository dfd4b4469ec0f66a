package handicapevents

import (
	"time"

	"github.com/fairway-club/round-engine/app/shared/sharedtypes"
)

// HandicapRecomputedTopic is published after a new handicap record is
// persisted.
const HandicapRecomputedTopic = "handicap.recomputed.v1"

// HandicapRecomputedPayloadV1 announces a fresh index snapshot.
type HandicapRecomputedPayloadV1 struct {
	RecordID      sharedtypes.RecordID `json:"record_id"`
	UserID        sharedtypes.UserID   `json:"user_id"`
	HandicapIndex float64              `json:"handicap_index"`
	RoundsUsed    int                  `json:"rounds_used"`
	ComputedAt    time.Time            `json:"computed_at"`
}
