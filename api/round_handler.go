package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	handicapservice "github.com/fairway-club/round-engine/app/modules/handicap/application"
	roundservice "github.com/fairway-club/round-engine/app/modules/round/application"
	roundtypes "github.com/fairway-club/round-engine/app/modules/round/domain/types"
	rounddb "github.com/fairway-club/round-engine/app/modules/round/infrastructure/repositories"
	"github.com/fairway-club/round-engine/app/shared/sharedtypes"
)

// maxWorkbookBytes caps uploaded scorecard workbooks.
const maxWorkbookBytes = 5 << 20

// RoundHandler exposes the round state machine over HTTP.
type RoundHandler struct {
	Rounds   roundservice.Service
	Handicap handicapservice.Service

	// RoundStatistics, when set, is mounted at /{roundID}/statistics so it
	// shares the ownership check with the rest of the subtree.
	RoundStatistics http.HandlerFunc
}

func (h *RoundHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.StartRound)
	r.Post("/import", h.ImportScorecard)
	r.Route("/{roundID}", func(r chi.Router) {
		r.Get("/", h.GetRound)
		r.Delete("/", h.DeleteRound)
		r.Post("/complete", h.CompleteRound)
		r.Put("/holes/{holeNumber}", h.UpdateHoleScore)
		r.Delete("/holes/{holeNumber}", h.ClearHoleScore)
		r.Post("/holes/{holeNumber}/shots", h.AppendShot)
		if h.RoundStatistics != nil {
			r.Get("/statistics", h.RoundStatistics)
		}
	})
	return r
}

// roundID parses the round ID path parameter.
func roundID(r *http.Request) (sharedtypes.RoundID, error) {
	return sharedtypes.ParseRoundID(chi.URLParam(r, "roundID"))
}

func holeNumber(r *http.Request) (int, error) {
	return strconv.Atoi(chi.URLParam(r, "holeNumber"))
}

// ownedRound loads a round and verifies it belongs to the authenticated user.
// Someone else's round reads as not-found so round IDs do not probe.
func (h *RoundHandler) ownedRound(r *http.Request) (*roundtypes.Round, sharedtypes.RoundID, error) {
	id, err := roundID(r)
	if err != nil {
		return nil, sharedtypes.RoundID{}, fmt.Errorf("%w: bad round ID", rounddb.ErrRoundNotFound)
	}
	round, err := h.Rounds.GetRound(r.Context(), id)
	if err != nil {
		return nil, id, err
	}
	userID, _ := UserIDFromContext(r.Context())
	if round.UserID != userID {
		return nil, id, fmt.Errorf("round %s: %w", id, rounddb.ErrRoundNotFound)
	}
	return round, id, nil
}

func (h *RoundHandler) StartRound(w http.ResponseWriter, r *http.Request) {
	var input roundtypes.StartRoundInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	// The owner is always the caller, whatever the body says.
	input.UserID, _ = UserIDFromContext(r.Context())

	round, err := h.Rounds.StartRound(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, round)
}

func (h *RoundHandler) GetRound(w http.ResponseWriter, r *http.Request) {
	round, _, err := h.ownedRound(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, round)
}

func (h *RoundHandler) DeleteRound(w http.ResponseWriter, r *http.Request) {
	_, id, err := h.ownedRound(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.Rounds.DeleteRound(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *RoundHandler) UpdateHoleScore(w http.ResponseWriter, r *http.Request) {
	_, id, err := h.ownedRound(r)
	if err != nil {
		writeError(w, err)
		return
	}
	hole, err := holeNumber(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid hole number"})
		return
	}

	var input roundtypes.UpdateHoleScoreInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	input.HoleNumber = hole

	round, err := h.Rounds.UpdateHoleScore(r.Context(), id, input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, round)
}

func (h *RoundHandler) ClearHoleScore(w http.ResponseWriter, r *http.Request) {
	_, id, err := h.ownedRound(r)
	if err != nil {
		writeError(w, err)
		return
	}
	hole, err := holeNumber(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid hole number"})
		return
	}

	round, err := h.Rounds.ClearHoleScore(r.Context(), id, hole)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, round)
}

func (h *RoundHandler) AppendShot(w http.ResponseWriter, r *http.Request) {
	_, id, err := h.ownedRound(r)
	if err != nil {
		writeError(w, err)
		return
	}
	hole, err := holeNumber(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid hole number"})
		return
	}

	var shot roundtypes.Shot
	if err := json.NewDecoder(r.Body).Decode(&shot); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	round, err := h.Rounds.AppendShot(r.Context(), id, hole, shot)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, round)
}

// CompleteRound freezes the round using the caller's current handicap index.
// Players without a handicap record complete with an index of zero.
func (h *RoundHandler) CompleteRound(w http.ResponseWriter, r *http.Request) {
	_, id, err := h.ownedRound(r)
	if err != nil {
		writeError(w, err)
		return
	}

	userID, _ := UserIDFromContext(r.Context())
	index := 0.0
	record, err := h.Handicap.GetLatestRecord(r.Context(), userID)
	switch {
	case err == nil:
		index = record.HandicapIndex
	case errors.Is(err, handicapservice.ErrNoHandicapRecord):
		// First rounds are played off scratch.
	default:
		writeError(w, err)
		return
	}

	round, err := h.Rounds.CompleteRound(r.Context(), id, index)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, round)
}

// ImportScorecard accepts a multipart form with a "metadata" JSON field and a
// "workbook" XLSX file.
func (h *RoundHandler) ImportScorecard(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxWorkbookBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid multipart form"})
		return
	}

	var input roundservice.ImportScorecardInput
	if err := json.Unmarshal([]byte(r.FormValue("metadata")), &input); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid metadata"})
		return
	}
	input.UserID, _ = UserIDFromContext(r.Context())

	file, _, err := r.FormFile("workbook")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing workbook file"})
		return
	}
	defer file.Close()

	input.Workbook, err = io.ReadAll(io.LimitReader(file, maxWorkbookBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "failed to read workbook"})
		return
	}

	round, err := h.Rounds.ImportScorecard(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, round)
}
