package roundqueue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"

	"github.com/fairway-club/round-engine/app/shared/sharedtypes"
	"github.com/fairway-club/round-engine/internal/observability/attr"
)

// Recomputer runs a handicap index recomputation for one player. Implemented
// by the handicap service.
type Recomputer interface {
	RecomputeForUser(ctx context.Context, userID sharedtypes.UserID) error
}

// Metrics is the subset of operation metrics the queue records.
type Metrics interface {
	RecordOperationAttempt(ctx context.Context, operation string)
	RecordOperationSuccess(ctx context.Context, operation string)
	RecordOperationFailure(ctx context.Context, operation string)
	RecordOperationDuration(ctx context.Context, operation string, duration time.Duration)
}

// HandicapRecomputeArgs is the job payload for a post-completion handicap
// recompute.
type HandicapRecomputeArgs struct {
	UserID  sharedtypes.UserID  `json:"user_id"`
	RoundID sharedtypes.RoundID `json:"round_id"`
}

func (HandicapRecomputeArgs) Kind() string { return "handicap_recompute" }

type handicapRecomputeWorker struct {
	river.WorkerDefaults[HandicapRecomputeArgs]

	recomputer Recomputer
	logger     *slog.Logger
	metrics    Metrics
}

func (w *handicapRecomputeWorker) Work(ctx context.Context, job *river.Job[HandicapRecomputeArgs]) error {
	start := time.Now()
	w.metrics.RecordOperationAttempt(ctx, "handicap_recompute_job")
	defer func() {
		w.metrics.RecordOperationDuration(ctx, "handicap_recompute_job", time.Since(start))
	}()

	if err := w.recomputer.RecomputeForUser(ctx, job.Args.UserID); err != nil {
		w.metrics.RecordOperationFailure(ctx, "handicap_recompute_job")
		w.logger.ErrorContext(ctx, "Handicap recompute job failed",
			attr.Stringer("user_id", job.Args.UserID),
			attr.Stringer("round_id", job.Args.RoundID),
			attr.Error(err),
		)
		return err
	}

	w.metrics.RecordOperationSuccess(ctx, "handicap_recompute_job")
	w.logger.InfoContext(ctx, "Handicap recompute job finished",
		attr.Stringer("user_id", job.Args.UserID),
		attr.Stringer("round_id", job.Args.RoundID),
	)
	return nil
}

// Service schedules and runs background jobs on River.
type Service struct {
	client *river.Client[pgx.Tx]
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewService builds the River client on its own pgx pool (River requires
// pgx, not database/sql) and registers the workers.
func NewService(ctx context.Context, dsn string, maxWorkers int, recomputer Recomputer, logger *slog.Logger, metrics Metrics) (*Service, error) {
	if maxWorkers <= 0 {
		maxWorkers = 4
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DSN for River: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool for River: %w", err)
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, &handicapRecomputeWorker{
		recomputer: recomputer,
		logger:     logger,
		metrics:    metrics,
	})

	client, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: maxWorkers},
		},
		Workers: workers,
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create River client: %w", err)
	}

	return &Service{client: client, pool: pool, logger: logger}, nil
}

// EnqueueHandicapRecompute inserts a recompute job for the player. Duplicate
// pending jobs for the same user are harmless: recomputation is idempotent
// over stored rounds.
func (s *Service) EnqueueHandicapRecompute(ctx context.Context, userID sharedtypes.UserID, roundID sharedtypes.RoundID) error {
	_, err := s.client.Insert(ctx, HandicapRecomputeArgs{UserID: userID, RoundID: roundID}, nil)
	if err != nil {
		return fmt.Errorf("failed to enqueue handicap recompute for user %s: %w", userID, err)
	}
	return nil
}

// Start begins job processing.
func (s *Service) Start(ctx context.Context) error {
	if err := s.client.Start(ctx); err != nil {
		return fmt.Errorf("failed to start River client: %w", err)
	}
	return nil
}

// Stop drains workers and closes the pool.
func (s *Service) Stop(ctx context.Context) error {
	err := s.client.Stop(ctx)
	s.pool.Close()
	if err != nil {
		return fmt.Errorf("failed to stop River client: %w", err)
	}
	return nil
}
