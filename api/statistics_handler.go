package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	statsservice "github.com/fairway-club/round-engine/app/modules/statistics/application"
)

// defaultTimeframeDays is the aggregation window when the query omits one.
const defaultTimeframeDays = 90

// StatisticsHandler exposes derived statistics over HTTP.
type StatisticsHandler struct {
	Stats statsservice.Service
}

func (h *StatisticsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.GetUserStatistics)
	r.Get("/trend-chart", h.GetTrendChart)
	return r
}

func timeframeDays(r *http.Request) (int, bool) {
	v := r.URL.Query().Get("days")
	if v == "" {
		return defaultTimeframeDays, true
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

func (h *StatisticsHandler) GetUserStatistics(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	days, ok := timeframeDays(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid days"})
		return
	}

	stats, err := h.Stats.ComputeUserStatistics(r.Context(), userID, days)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *StatisticsHandler) GetTrendChart(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	days, ok := timeframeDays(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid days"})
		return
	}

	png, err := h.Stats.RenderScoringTrendChart(r.Context(), userID, days)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

// GetRoundStatistics serves per-round statistics; mounted under the rounds
// subtree so it shares the ownership check.
func (h *StatisticsHandler) GetRoundStatistics(rounds *RoundHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, id, err := rounds.ownedRound(r)
		if err != nil {
			writeError(w, err)
			return
		}

		stats, err := h.Stats.ComputeRoundStatistics(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}
