package handicapservice

import (
	handicapcalc "github.com/fairway-club/round-engine/app/modules/handicap/domain/calc"
	handicapdb "github.com/fairway-club/round-engine/app/modules/handicap/infrastructure/repositories"
)

// ErrInsufficientRounds is surfaced when a player has fewer than three
// qualifying rounds. Expected while history accumulates; callers present a
// "not enough history yet" state rather than an error.
var ErrInsufficientRounds = handicapcalc.ErrInsufficientRounds

// ErrNoHandicapRecord indicates no index has ever been computed for the
// player.
var ErrNoHandicapRecord = handicapdb.ErrRecordNotFound
