package statstypes

import (
	"time"

	"github.com/fairway-club/round-engine/app/shared/sharedtypes"
)

// ScoringDistribution counts holes by score relative to par.
type ScoringDistribution struct {
	EagleOrBetter int `json:"eagle_or_better"` // <= -2
	Birdies       int `json:"birdies"`         // -1
	Pars          int `json:"pars"`            // 0
	Bogeys        int `json:"bogeys"`          // +1
	DoubleBogeys  int `json:"double_bogeys"`   // +2
	Others        int `json:"others"`          // >= +3
}

// Add accumulates another distribution into this one.
func (d *ScoringDistribution) Add(other ScoringDistribution) {
	d.EagleOrBetter += other.EagleOrBetter
	d.Birdies += other.Birdies
	d.Pars += other.Pars
	d.Bogeys += other.Bogeys
	d.DoubleBogeys += other.DoubleBogeys
	d.Others += other.Others
}

// RoundStatistics is a derived, read-only view over one completed round.
// Computed from hole scores, never persisted as source data; the cached copy
// is invalidated whenever the round mutates.
type RoundStatistics struct {
	RoundID    sharedtypes.RoundID `json:"round_id"`
	TotalScore int                 `json:"total_score"`
	ScoreToPar int                 `json:"score_to_par"`

	Distribution ScoringDistribution `json:"distribution"`

	// Fairway stats only count par-4 and par-5 holes with a recorded result.
	FairwaysHit      int     `json:"fairways_hit"`
	FairwaysEligible int     `json:"fairways_eligible"`
	FairwayPct       float64 `json:"fairway_pct"`

	GreensInRegulation int     `json:"greens_in_regulation"`
	GreensEligible     int     `json:"greens_eligible"`
	GreenPct           float64 `json:"green_pct"`

	TotalPutts     int     `json:"total_putts"`
	HolesWithPutts int     `json:"holes_with_putts"`
	PuttsPerHole   float64 `json:"putts_per_hole"`

	Penalties int `json:"penalties"`

	// Longest drive in yards, taken from driver-tagged shots.
	LongestDriveYards float64 `json:"longest_drive_yards"`
}

// Trend describes the direction of recent scoring.
type Trend string

const (
	TrendImproving Trend = "IMPROVING"
	TrendDeclining Trend = "DECLINING"
	TrendStable    Trend = "STABLE"
)

// UserStatistics aggregates round statistics over a time window.
type UserStatistics struct {
	UserID        sharedtypes.UserID `json:"user_id"`
	TimeframeDays int                `json:"timeframe_days"`
	RoundsPlayed  int                `json:"rounds_played"`

	AverageScore      float64 `json:"average_score"`
	AverageScoreToPar float64 `json:"average_score_to_par"`
	BestScore         int     `json:"best_score"`
	WorstScore        int     `json:"worst_score"`

	Distribution ScoringDistribution `json:"distribution"`

	FairwayPct        float64 `json:"fairway_pct"`
	GreenPct          float64 `json:"green_pct"`
	PuttsPerHole      float64 `json:"putts_per_hole"`
	PenaltiesPerRound float64 `json:"penalties_per_round"`
	LongestDriveYards float64 `json:"longest_drive_yards"`

	// ScoringTrend compares the five most recent rounds against the prior
	// five; with fewer than ten rounds it degrades to stable.
	ScoringTrend Trend `json:"scoring_trend"`

	ComputedAt time.Time `json:"computed_at"`
}
