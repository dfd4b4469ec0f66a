package api

import (
	"encoding/json"
	"errors"
	"net/http"

	handicapservice "github.com/fairway-club/round-engine/app/modules/handicap/application"
	roundservice "github.com/fairway-club/round-engine/app/modules/round/application"
	rounddb "github.com/fairway-club/round-engine/app/modules/round/infrastructure/repositories"
	statsservice "github.com/fairway-club/round-engine/app/modules/statistics/application"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError maps domain sentinel errors onto HTTP statuses. Anything
// unmatched is a 500 with a generic body so internals never leak.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, rounddb.ErrRoundNotFound),
		errors.Is(err, handicapservice.ErrNoHandicapRecord):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})

	case errors.Is(err, roundservice.ErrInvalidHole),
		errors.Is(err, roundservice.ErrInvalidHoleDefinition),
		errors.Is(err, roundservice.ErrInvalidRoundDefinition),
		errors.Is(err, roundservice.ErrInvalidStrokes),
		errors.Is(err, roundservice.ErrInvalidShot):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})

	case errors.Is(err, roundservice.ErrRoundNotActive),
		errors.Is(err, roundservice.ErrRoundAlreadyComplete),
		errors.Is(err, roundservice.ErrIncompleteRound),
		errors.Is(err, roundservice.ErrDuplicateActiveRound),
		errors.Is(err, statsservice.ErrRoundNotCompleted):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})

	case errors.Is(err, handicapservice.ErrInsufficientRounds),
		errors.Is(err, statsservice.ErrInsufficientData):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})

	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}
