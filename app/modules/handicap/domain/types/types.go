package handicaptypes

import (
	"time"

	"github.com/fairway-club/round-engine/app/shared/sharedtypes"
)

// HandicapDifferential is one round's contribution to an index computation,
// kept for audit and trend display. Weak relation to the round by ID only.
type HandicapDifferential struct {
	RoundID      sharedtypes.RoundID `json:"round_id"`
	Differential float64             `json:"differential"`
	PlayedAt     time.Time           `json:"played_at"`
}

// HandicapRecord is one snapshot of a player's computed index. Records are
// append-only: a new one is written on every computation and prior records
// are never mutated.
type HandicapRecord struct {
	ID            sharedtypes.RecordID   `json:"id"`
	UserID        sharedtypes.UserID     `json:"user_id"`
	HandicapIndex float64                `json:"handicap_index"`
	ComputedAt    time.Time              `json:"computed_at"`
	RoundsUsed    int                    `json:"rounds_used"`
	Differentials []HandicapDifferential `json:"differentials"`
}
