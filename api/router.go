package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	handicapservice "github.com/fairway-club/round-engine/app/modules/handicap/application"
	roundservice "github.com/fairway-club/round-engine/app/modules/round/application"
	statsservice "github.com/fairway-club/round-engine/app/modules/statistics/application"
	"github.com/fairway-club/round-engine/pkg/jwt"
)

// RouterConfig carries the API router's tunables.
type RouterConfig struct {
	RequestTimeout time.Duration
	RateLimitRPS   float64
	RateLimitBurst int
}

// NewRouter assembles the full API surface. Everything under /api/v1 requires
// a valid bearer token; /healthz does not.
func NewRouter(
	cfg RouterConfig,
	tokens jwt.Service,
	rounds roundservice.Service,
	handicap handicapservice.Service,
	stats statsservice.Service,
) http.Handler {
	roundHandler := &RoundHandler{Rounds: rounds, Handicap: handicap}
	handicapHandler := &HandicapHandler{Handicap: handicap}
	statsHandler := &StatisticsHandler{Stats: stats}
	roundHandler.RoundStatistics = statsHandler.GetRoundStatistics(roundHandler)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(RateLimitMiddleware(NewIPRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(AuthMiddleware(tokens))

		r.Mount("/rounds", roundHandler.Routes())
		r.Mount("/handicap", handicapHandler.Routes())
		r.Mount("/statistics", statsHandler.Routes())
	})

	return r
}
