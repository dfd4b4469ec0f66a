package statsservice

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"log/slog"

	roundtypes "github.com/fairway-club/round-engine/app/modules/round/domain/types"
	statsdb "github.com/fairway-club/round-engine/app/modules/statistics/infrastructure/repositories"
	"github.com/fairway-club/round-engine/app/shared/sharedtypes"
	"github.com/fairway-club/round-engine/internal/observability/attr"
)

// RoundSource supplies round data for statistics computation. Satisfied by
// the round repository.
type RoundSource interface {
	GetRound(ctx context.Context, roundID sharedtypes.RoundID) (*roundtypes.Round, error)
	GetRecentCompletedRounds(ctx context.Context, userID sharedtypes.UserID, maxAgeDays, limit int) ([]roundtypes.Round, error)
}

// Metrics is the subset of operation metrics the statistics service records.
type Metrics interface {
	RecordOperationAttempt(ctx context.Context, operation string)
	RecordOperationSuccess(ctx context.Context, operation string)
	RecordOperationFailure(ctx context.Context, operation string)
	RecordOperationDuration(ctx context.Context, operation string, duration time.Duration)
}

// StatisticsService derives read-only views over round data. All output is
// recomputable from rounds; the cache only avoids repeat work.
type StatisticsService struct {
	Rounds  RoundSource
	Cache   statsdb.StatsCache
	logger  *slog.Logger
	metrics Metrics
	tracer  trace.Tracer

	now func() time.Time
}

var _ Service = (*StatisticsService)(nil)

// NewStatisticsService creates a new StatisticsService.
func NewStatisticsService(
	rounds RoundSource,
	cache statsdb.StatsCache,
	logger *slog.Logger,
	metrics Metrics,
	tracer trace.Tracer,
) *StatisticsService {
	return &StatisticsService{
		Rounds:  rounds,
		Cache:   cache,
		logger:  logger,
		metrics: metrics,
		tracer:  tracer,
		now:     time.Now,
	}
}

func withTelemetry[T any](
	s *StatisticsService,
	ctx context.Context,
	operationName string,
	op func(ctx context.Context) (T, error),
) (result T, err error) {
	ctx, span := s.tracer.Start(ctx, operationName, trace.WithAttributes(
		attribute.String("operation", operationName),
	))
	defer span.End()

	s.metrics.RecordOperationAttempt(ctx, operationName)

	startTime := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(ctx, operationName, time.Since(startTime))
	}()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				attr.ExtractCorrelationID(ctx),
				attr.String("operation", operationName),
				attr.Error(err),
			)
			s.metrics.RecordOperationFailure(ctx, operationName)
			span.RecordError(err)
		}
	}()

	result, err = op(ctx)
	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		s.logger.WarnContext(ctx, "Operation failed",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.Error(wrappedErr),
		)
		s.metrics.RecordOperationFailure(ctx, operationName)
		span.RecordError(wrappedErr)
		return result, err
	}

	s.metrics.RecordOperationSuccess(ctx, operationName)
	return result, nil
}

// InvalidateRound drops the cached entry for a round.
func (s *StatisticsService) InvalidateRound(ctx context.Context, roundID sharedtypes.RoundID) error {
	_, err := withTelemetry(s, ctx, "InvalidateRoundStatistics", func(ctx context.Context) (struct{}, error) {
		if err := s.Cache.Invalidate(ctx, roundID); err != nil {
			return struct{}{}, err
		}
		s.logger.DebugContext(ctx, "Round statistics cache invalidated",
			attr.Stringer("round_id", roundID),
		)
		return struct{}{}, nil
	})
	return err
}
