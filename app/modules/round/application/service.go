package roundservice

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"log/slog"

	"github.com/fairway-club/round-engine/app/modules/round/application/parsers"
	rounddb "github.com/fairway-club/round-engine/app/modules/round/infrastructure/repositories"
	"github.com/fairway-club/round-engine/app/shared/sharedtypes"
	"github.com/fairway-club/round-engine/internal/eventbus"
	"github.com/fairway-club/round-engine/internal/observability/attr"
)

// Metrics is the subset of operation metrics the round service records.
type Metrics interface {
	RecordOperationAttempt(ctx context.Context, operation string)
	RecordOperationSuccess(ctx context.Context, operation string)
	RecordOperationFailure(ctx context.Context, operation string)
	RecordOperationDuration(ctx context.Context, operation string, duration time.Duration)
}

// RecomputeScheduler enqueues a handicap recomputation after round
// completion. Implemented by the River queue service; nil disables
// scheduling (tests, import dry runs).
type RecomputeScheduler interface {
	EnqueueHandicapRecompute(ctx context.Context, userID sharedtypes.UserID, roundID sharedtypes.RoundID) error
}

// RoundService owns the round lifecycle and mediates all score mutation.
type RoundService struct {
	RoundDB   rounddb.RoundDB
	EventBus  eventbus.EventBus
	scheduler RecomputeScheduler
	logger    *slog.Logger
	metrics   Metrics
	tracer    trace.Tracer
	validator RoundValidator
	locks     *roundLocks
	parser    parsers.ScorecardParser

	now func() time.Time
}

var _ Service = (*RoundService)(nil)

// NewRoundService creates a new RoundService.
func NewRoundService(
	db rounddb.RoundDB,
	bus eventbus.EventBus,
	scheduler RecomputeScheduler,
	logger *slog.Logger,
	metrics Metrics,
	tracer trace.Tracer,
) *RoundService {
	return &RoundService{
		RoundDB:   db,
		EventBus:  bus,
		scheduler: scheduler,
		logger:    logger,
		metrics:   metrics,
		tracer:    tracer,
		validator: NewRoundValidator(),
		locks:     newRoundLocks(),
		parser:    parsers.NewXLSXParser(),
		now:       time.Now,
	}
}

// withTelemetry wraps a service operation with tracing, metrics, and panic
// recovery.
func withTelemetry[T any](
	s *RoundService,
	ctx context.Context,
	operationName string,
	roundID sharedtypes.RoundID,
	op func(ctx context.Context) (T, error),
) (result T, err error) {
	spanAttrs := []attribute.KeyValue{attribute.String("operation", operationName)}
	if !roundID.IsZero() {
		spanAttrs = append(spanAttrs, attribute.String("round_id", roundID.String()))
	}
	ctx, span := s.tracer.Start(ctx, operationName, trace.WithAttributes(spanAttrs...))
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

// publishEvent emits a mutation event. The mutation has already been
// persisted by the time this runs, so a transport failure is logged rather
// than surfaced as an operation failure.
func (s *RoundService) publishEvent(ctx context.Context, topic string, payload any) {
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
		return
	}

	s.logger.DebugContext(ctx, "Event published",
		attr.String("topic", topic),
		attr.String("message_id", msg.UUID),
	)
}
