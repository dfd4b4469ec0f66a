package roundservice

import (
	"context"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel/trace/noop"

	"log/slog"

	roundtypes "github.com/fairway-club/round-engine/app/modules/round/domain/types"
	rounddb "github.com/fairway-club/round-engine/app/modules/round/infrastructure/repositories"
	"github.com/fairway-club/round-engine/app/shared/sharedtypes"
	"github.com/fairway-club/round-engine/internal/observability"
)

// fakeRoundDB is an in-memory RoundDB that stores deep-enough copies so tests
// catch missing persistence calls.
type fakeRoundDB struct {
	mu     sync.Mutex
	rounds map[sharedtypes.RoundID]roundtypes.Round

	saveErr, updateErr error
	updates            int
}

func newFakeRoundDB() *fakeRoundDB {
	return &fakeRoundDB{rounds: make(map[sharedtypes.RoundID]roundtypes.Round)}
}

func cloneRound(r roundtypes.Round) roundtypes.Round {
	holes := make([]roundtypes.HoleScore, len(r.HoleScores))
	copy(holes, r.HoleScores)
	for i := range holes {
		if len(holes[i].Shots) > 0 {
			shots := make([]roundtypes.Shot, len(holes[i].Shots))
			copy(shots, holes[i].Shots)
			holes[i].Shots = shots
		}
	}
	r.HoleScores = holes
	return r
}

func (f *fakeRoundDB) SaveRound(_ context.Context, round *roundtypes.Round) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	if _, exists := f.rounds[round.ID]; exists {
		return fmt.Errorf("round %s already exists", round.ID)
	}
	f.rounds[round.ID] = cloneRound(*round)
	return nil
}

func (f *fakeRoundDB) UpdateRound(_ context.Context, round *roundtypes.Round) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates++
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, exists := f.rounds[round.ID]; !exists {
		return fmt.Errorf("round %s: %w", round.ID, rounddb.ErrRoundNotFound)
	}
	f.rounds[round.ID] = cloneRound(*round)
	return nil
}

func (f *fakeRoundDB) GetRound(_ context.Context, roundID sharedtypes.RoundID) (*roundtypes.Round, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rounds[roundID]
	if !ok {
		return nil, fmt.Errorf("round %s: %w", roundID, rounddb.ErrRoundNotFound)
	}
	clone := cloneRound(r)
	return &clone, nil
}

func (f *fakeRoundDB) DeleteRound(_ context.Context, roundID sharedtypes.RoundID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rounds[roundID]; !ok {
		return fmt.Errorf("round %s: %w", roundID, rounddb.ErrRoundNotFound)
	}
	delete(f.rounds, roundID)
	return nil
}

func (f *fakeRoundDB) GetActiveRoundForCourse(_ context.Context, userID sharedtypes.UserID, courseID sharedtypes.CourseID) (*roundtypes.Round, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rounds {
		if r.UserID == userID && r.CourseID == courseID && r.Status == roundtypes.RoundStatusInProgress {
			clone := cloneRound(r)
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeRoundDB) GetRecentCompletedRounds(_ context.Context, userID sharedtypes.UserID, _, limit int) ([]roundtypes.Round, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []roundtypes.Round
	for _, r := range f.rounds {
		if r.UserID == userID && r.Status == roundtypes.RoundStatusCompleted {
			out = append(out, cloneRound(r))
		}
	}
	if limit > 0 && limit < len(out) {
		out = out[:limit]
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

// fakeScheduler records recompute enqueues.
type fakeScheduler struct {
	mu       sync.Mutex
	enqueued []sharedtypes.RoundID
	err      error
}

func (f *fakeScheduler) EnqueueHandicapRecompute(_ context.Context, _ sharedtypes.UserID, roundID sharedtypes.RoundID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.enqueued = append(f.enqueued, roundID)
	return nil
}

type testFixture struct {
	svc       *RoundService
	db        *fakeRoundDB
	bus       *fakeEventBus
	scheduler *fakeScheduler
}

func newTestFixture() *testFixture {
	db := newFakeRoundDB()
	bus := newFakeEventBus()
	scheduler := &fakeScheduler{}
	svc := NewRoundService(
		db,
		bus,
		scheduler,
		slog.New(slog.DiscardHandler),
		observability.NoOpMetrics{},
		noop.NewTracerProvider().Tracer("test"),
	)
	return &testFixture{svc: svc, db: db, bus: bus, scheduler: scheduler}
}

// nineHoles is a valid 9-hole par-36 layout.
func nineHoles() []roundtypes.HoleDefinition {
	holes := make([]roundtypes.HoleDefinition, 9)
	for i := range holes {
		holes[i] = roundtypes.HoleDefinition{
			HoleNumber:    i + 1,
			Par:           4,
			Yardage:       350 + 10*i,
			HandicapIndex: i + 1,
		}
	}
	return holes
}

func validStartInput() roundtypes.StartRoundInput {
	return roundtypes.StartRoundInput{
		UserID:       "user-1",
		CourseID:     "course-1",
		TeeType:      roundtypes.TeeRegular,
		CourseRating: 70.1,
		SlopeRating:  120,
		Holes:        nineHoles(),
	}
}
