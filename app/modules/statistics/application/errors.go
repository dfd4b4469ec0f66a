package statsservice

import "errors"

var (
	// ErrRoundNotCompleted is returned when per-round statistics are requested
	// for a round that is still in progress.
	ErrRoundNotCompleted = errors.New("round is not completed")

	// ErrInsufficientData is returned when the user has no completed rounds in
	// the requested timeframe.
	ErrInsufficientData = errors.New("not enough completed rounds in timeframe")
)
