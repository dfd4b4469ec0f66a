package statssubscribers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"

	"log/slog"

	roundevents "github.com/fairway-club/round-engine/app/modules/round/domain/events"
	statsservice "github.com/fairway-club/round-engine/app/modules/statistics/application"
	"github.com/fairway-club/round-engine/app/shared/sharedtypes"
	"github.com/fairway-club/round-engine/internal/eventbus"
	"github.com/fairway-club/round-engine/internal/observability/attr"
)

// StatisticsSubscribers keeps the statistics cache coherent with round
// mutations. Every mutation event drops the round's cached entry; completion
// additionally warms the cache so the first read after a round is cheap.
type StatisticsSubscribers struct {
	Bus     eventbus.EventBus
	Service statsservice.Service
	logger  *slog.Logger
}

// NewStatisticsSubscribers creates a new StatisticsSubscribers instance.
func NewStatisticsSubscribers(bus eventbus.EventBus, service statsservice.Service, logger *slog.Logger) *StatisticsSubscribers {
	return &StatisticsSubscribers{
		Bus:     bus,
		Service: service,
		logger:  logger,
	}
}

// Subscribe wires all round-event subscriptions. Handlers run until ctx is
// cancelled.
func (s *StatisticsSubscribers) Subscribe(ctx context.Context) error {
	subscriptions := []struct {
		topic   string
		handler func(context.Context, *message.Message) error
	}{
		{roundevents.HoleScoreUpdatedTopic, s.handleInvalidation},
		{roundevents.HoleScoreClearedTopic, s.handleInvalidation},
		{roundevents.ShotAppendedTopic, s.handleInvalidation},
		{roundevents.RoundDeletedTopic, s.handleInvalidation},
		{roundevents.RoundCompletedTopic, s.handleRoundCompleted},
	}

	for _, sub := range subscriptions {
		msgs, err := s.Bus.Subscribe(ctx, sub.topic)
		if err != nil {
			return fmt.Errorf("failed to subscribe to %s: %w", sub.topic, err)
		}
		s.logger.InfoContext(ctx, "Subscribed to round events",
			attr.String("topic", sub.topic),
		)
		go s.processMessages(ctx, sub.topic, msgs, sub.handler)
	}

	return nil
}

func (s *StatisticsSubscribers) processMessages(
	ctx context.Context,
	topic string,
	messages <-chan *message.Message,
	handler func(context.Context, *message.Message) error,
) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}

			// Cache entries are derived data, so a failed handler is logged
			// and acked rather than retried. The next read recomputes.
			if err := handler(ctx, msg); err != nil {
				s.logger.ErrorContext(ctx, "Failed to handle round event",
					attr.String("topic", topic),
					attr.String("message_id", msg.UUID),
					attr.Error(err),
				)
			}
			msg.Ack()
		}
	}
}

// roundIDEnvelope extracts just the round ID from any round event payload.
type roundIDEnvelope struct {
	RoundID sharedtypes.RoundID `json:"round_id"`
}

func (s *StatisticsSubscribers) handleInvalidation(ctx context.Context, msg *message.Message) error {
	var envelope roundIDEnvelope
	if err := json.Unmarshal(msg.Payload, &envelope); err != nil {
		return fmt.Errorf("failed to decode event payload: %w", err)
	}
	if envelope.RoundID.IsZero() {
		return fmt.Errorf("event payload has no round_id")
	}
	return s.Service.InvalidateRound(ctx, envelope.RoundID)
}

func (s *StatisticsSubscribers) handleRoundCompleted(ctx context.Context, msg *message.Message) error {
	var payload roundevents.RoundCompletedPayloadV1
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("failed to decode event payload: %w", err)
	}
	if payload.RoundID.IsZero() {
		return fmt.Errorf("event payload has no round_id")
	}

	if err := s.Service.InvalidateRound(ctx, payload.RoundID); err != nil {
		return err
	}
	if _, err := s.Service.ComputeRoundStatistics(ctx, payload.RoundID); err != nil {
		return fmt.Errorf("failed to warm statistics cache: %w", err)
	}
	return nil
}
