package statsservice

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel/trace/noop"

	"log/slog"

	roundtypes "github.com/fairway-club/round-engine/app/modules/round/domain/types"
	statstypes "github.com/fairway-club/round-engine/app/modules/statistics/domain/types"
	"github.com/fairway-club/round-engine/app/shared/sharedtypes"
	"github.com/fairway-club/round-engine/internal/observability"
)

// fakeRoundSource serves canned rounds and records nothing.
type fakeRoundSource struct {
	rounds map[sharedtypes.RoundID]*roundtypes.Round
	recent []roundtypes.Round

	recentErr error
}

func newFakeRoundSource() *fakeRoundSource {
	return &fakeRoundSource{rounds: make(map[sharedtypes.RoundID]*roundtypes.Round)}
}

func (f *fakeRoundSource) GetRound(_ context.Context, roundID sharedtypes.RoundID) (*roundtypes.Round, error) {
	r, ok := f.rounds[roundID]
	if !ok {
		return nil, fmt.Errorf("round %s not found", roundID)
	}
	clone := *r
	return &clone, nil
}

func (f *fakeRoundSource) GetRecentCompletedRounds(_ context.Context, _ sharedtypes.UserID, _, limit int) ([]roundtypes.Round, error) {
	if f.recentErr != nil {
		return nil, f.recentErr
	}
	rounds := f.recent
	if limit > 0 && limit < len(rounds) {
		rounds = rounds[:limit]
	}
	out := make([]roundtypes.Round, len(rounds))
	copy(out, rounds)
	return out, nil
}

// fakeStatsCache is an in-memory StatsCache with call counters.
type fakeStatsCache struct {
	mu      sync.Mutex
	entries map[sharedtypes.RoundID]*statstypes.RoundStatistics

	gets, puts, invalidations int
	getErr, putErr            error
}

func newFakeStatsCache() *fakeStatsCache {
	return &fakeStatsCache{entries: make(map[sharedtypes.RoundID]*statstypes.RoundStatistics)}
}

func (f *fakeStatsCache) GetRoundStatistics(_ context.Context, roundID sharedtypes.RoundID) (*statstypes.RoundStatistics, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	if f.getErr != nil {
		return nil, f.getErr
	}
	stats, ok := f.entries[roundID]
	if !ok {
		return nil, nil
	}
	clone := *stats
	return &clone, nil
}

func (f *fakeStatsCache) PutRoundStatistics(_ context.Context, stats *statstypes.RoundStatistics) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.puts++
	if f.putErr != nil {
		return f.putErr
	}
	clone := *stats
	f.entries[stats.RoundID] = &clone
	return nil
}

func (f *fakeStatsCache) Invalidate(_ context.Context, roundID sharedtypes.RoundID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invalidations++
	delete(f.entries, roundID)
	return nil
}

func newTestService(rounds *fakeRoundSource, cache *fakeStatsCache) *StatisticsService {
	return NewStatisticsService(
		rounds,
		cache,
		slog.New(slog.DiscardHandler),
		observability.NoOpMetrics{},
		noop.NewTracerProvider().Tracer("test"),
	)
}
