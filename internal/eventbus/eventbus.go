package eventbus

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
)

// EventBus is the transport abstraction the engine publishes mutation events
// through. Implementations: NATS JetStream for deployment, the in-memory
// gochannel bus for tests and local development.
type EventBus interface {
	Publish(topic string, msg *message.Message) error
	Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error)
	Close() error
}

// NewJSONMessage marshals payload into a watermill message, stamping the
// correlation ID (a fresh UUID when none is supplied).
func NewJSONMessage(payload any, correlationID string) (*message.Message, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event payload: %w", err)
	}
	if correlationID == "" {
		correlationID = watermill.NewUUID()
	}
	msg := message.NewMessage(watermill.NewUUID(), body)
	msg.Metadata.Set(middleware.CorrelationIDMetadataKey, correlationID)
	return msg, nil
}
