package handicapservice

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel/trace/noop"

	"log/slog"

	handicaptypes "github.com/fairway-club/round-engine/app/modules/handicap/domain/types"
	handicapdb "github.com/fairway-club/round-engine/app/modules/handicap/infrastructure/repositories"
	roundtypes "github.com/fairway-club/round-engine/app/modules/round/domain/types"
	"github.com/fairway-club/round-engine/app/shared/sharedtypes"
	"github.com/fairway-club/round-engine/internal/observability"
)

// fakeRoundSource serves canned completed rounds, most recent first.
type fakeRoundSource struct {
	rounds []roundtypes.Round
	err    error
}

func (f *fakeRoundSource) GetRecentCompletedRounds(_ context.Context, _ sharedtypes.UserID, _, limit int) ([]roundtypes.Round, error) {
	if f.err != nil {
		return nil, f.err
	}
	rounds := f.rounds
	if limit > 0 && limit < len(rounds) {
		rounds = rounds[:limit]
	}
	out := make([]roundtypes.Round, len(rounds))
	copy(out, rounds)
	return out, nil
}

// fakeHandicapDB is an in-memory append-only record store.
type fakeHandicapDB struct {
	mu      sync.Mutex
	records []handicaptypes.HandicapRecord
	saveErr error
}

func (f *fakeHandicapDB) SaveRecord(_ context.Context, record *handicaptypes.HandicapRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.records = append(f.records, *record)
	return nil
}

func (f *fakeHandicapDB) GetLatestRecord(_ context.Context, userID sharedtypes.UserID) (*handicaptypes.HandicapRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.records) - 1; i >= 0; i-- {
		if f.records[i].UserID == userID {
			record := f.records[i]
			return &record, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", userID, handicapdb.ErrRecordNotFound)
}

func (f *fakeHandicapDB) GetRecords(_ context.Context, userID sharedtypes.UserID, limit int) ([]handicaptypes.HandicapRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []handicaptypes.HandicapRecord
	for i := len(f.records) - 1; i >= 0; i-- {
		if f.records[i].UserID == userID {
			out = append(out, f.records[i])
			if limit > 0 && len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

// fakeEventBus records published messages by topic.
type fakeEventBus struct {
	mu        sync.Mutex
	published map[string][]*message.Message
}

func newFakeEventBus() *fakeEventBus {
	return &fakeEventBus{published: make(map[string][]*message.Message)}
}

func (f *fakeEventBus) Publish(topic string, msg *message.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published[topic] = append(f.published[topic], msg)
	return nil
}

func (f *fakeEventBus) Subscribe(context.Context, string) (<-chan *message.Message, error) {
	return nil, fmt.Errorf("fake bus does not subscribe")
}

func (f *fakeEventBus) Close() error { return nil }

func (f *fakeEventBus) count(topic string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.published[topic])
}

func newTestService(rounds *fakeRoundSource, db *fakeHandicapDB, bus *fakeEventBus) *HandicapService {
	return NewHandicapService(
		rounds,
		db,
		bus,
		slog.New(slog.DiscardHandler),
		observability.NoOpMetrics{},
		noop.NewTracerProvider().Tracer("test"),
	)
}

// completedRound builds a completed round with the given adjusted gross,
// rating, and slope, completed the given number of days ago.
func completedRound(adjustedGross int, rating float64, slope int, daysAgo int) roundtypes.Round {
	completedAt := time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC).AddDate(0, 0, -daysAgo)
	return roundtypes.Round{
		ID:                 sharedtypes.NewRoundID(),
		UserID:             "user-1",
		CourseID:           "course-1",
		TeeType:            roundtypes.TeeRegular,
		NumberOfHoles:      18,
		CourseRating:       rating,
		SlopeRating:        slope,
		Status:             roundtypes.RoundStatusCompleted,
		AdjustedGrossScore: &adjustedGross,
		CompletedAt:        &completedAt,
	}
}
