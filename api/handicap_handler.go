package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	handicapservice "github.com/fairway-club/round-engine/app/modules/handicap/application"
)

// HandicapHandler exposes handicap records over HTTP.
type HandicapHandler struct {
	Handicap handicapservice.Service
}

func (h *HandicapHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.GetLatest)
	r.Get("/history", h.GetHistory)
	r.Get("/course", h.GetCourseHandicap)
	r.Post("/recompute", h.Recompute)
	return r
}

func (h *HandicapHandler) GetLatest(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	record, err := h.Handicap.GetLatestRecord(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (h *HandicapHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid limit"})
			return
		}
		limit = n
	}

	records, err := h.Handicap.GetRecordHistory(r.Context(), userID, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// GetCourseHandicap converts the caller's index into whole strokes for the
// slope given in the query.
func (h *HandicapHandler) GetCourseHandicap(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	slope, err := strconv.Atoi(r.URL.Query().Get("slope"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid slope"})
		return
	}

	ch, err := h.Handicap.ComputeCourseHandicap(r.Context(), userID, slope)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"course_handicap": ch})
}

// Recompute runs the handicap computation synchronously for the caller.
// Normal recomputation happens in the background after round completion; this
// endpoint exists for clients that want an immediate refresh.
func (h *HandicapHandler) Recompute(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	record, err := h.Handicap.ComputeHandicapIndex(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}
