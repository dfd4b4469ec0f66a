package handicapservice

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"log/slog"

	handicapdb "github.com/fairway-club/round-engine/app/modules/handicap/infrastructure/repositories"
	roundtypes "github.com/fairway-club/round-engine/app/modules/round/domain/types"
	"github.com/fairway-club/round-engine/app/shared/sharedtypes"
	"github.com/fairway-club/round-engine/internal/eventbus"
	"github.com/fairway-club/round-engine/internal/observability/attr"
)

// historyWindowDays bounds how far back qualifying rounds are pulled. The
// twenty-round cap is the real limit; the window just keeps the query cheap.
const historyWindowDays = 730

// RoundSource supplies completed rounds for differential computation.
// Satisfied by the round repository.
type RoundSource interface {
	GetRecentCompletedRounds(ctx context.Context, userID sharedtypes.UserID, maxAgeDays, limit int) ([]roundtypes.Round, error)
}

// Metrics is the subset of operation metrics the handicap service records.
type Metrics interface {
	RecordOperationAttempt(ctx context.Context, operation string)
	RecordOperationSuccess(ctx context.Context, operation string)
	RecordOperationFailure(ctx context.Context, operation string)
	RecordOperationDuration(ctx context.Context, operation string, duration time.Duration)
}

// HandicapService computes and persists handicap index snapshots. The
// calculation itself is pure; the service only adds history loading, record
// persistence, and event emission.
type HandicapService struct {
	Rounds     RoundSource
	HandicapDB handicapdb.HandicapDB
	EventBus   eventbus.EventBus
	logger     *slog.Logger
	metrics    Metrics
	tracer     trace.Tracer

	now func() time.Time
}

var _ Service = (*HandicapService)(nil)

// NewHandicapService creates a new HandicapService.
func NewHandicapService(
	rounds RoundSource,
	db handicapdb.HandicapDB,
	bus eventbus.EventBus,
	logger *slog.Logger,
	metrics Metrics,
	tracer trace.Tracer,
) *HandicapService {
	return &HandicapService{
		Rounds:     rounds,
		HandicapDB: db,
		EventBus:   bus,
		logger:     logger,
		metrics:    metrics,
		tracer:     tracer,
		now:        time.Now,
	}
}

func withTelemetry[T any](
	s *HandicapService,
	ctx context.Context,
	operationName string,
	userID sharedtypes.UserID,
	op func(ctx context.Context) (T, error),
) (result T, err error) {
	ctx, span := s.tracer.Start(ctx, operationName, trace.WithAttributes(
		attribute.String("operation", operationName),
		attribute.String("user_id", userID.String()),
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
			attr.Stringer("user_id", userID),
			attr.Error(wrappedErr),
		)
		s.metrics.RecordOperationFailure(ctx, operationName)
		span.RecordError(wrappedErr)
		return result, err
	}

	s.metrics.RecordOperationSuccess(ctx, operationName)
	return result, nil
}

func (s *HandicapService) publishEvent(ctx context.Context, topic string, payload any) {
	msg, err := eventbus.NewJSONMessage(payload, attr.CorrelationIDFromContext(ctx))
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to build event message",
			attr.String("topic", topic),
			attr.Error(err),
		)
		return
	}
	if err := s.EventBus.Publish(topic, msg); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish event",
			attr.String("topic", topic),
			attr.String("message_id", msg.UUID),
			attr.Error(err),
		)
	}
}
